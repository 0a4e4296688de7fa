package models

import (
	"fmt"
	"strings"
)

// ReportVariant names one of the report filters
type ReportVariant string

const (
	VariantAll          ReportVariant = "all" // every observed flight
	VariantInterest     ReportVariant = "poi" // aircraft flagged as interesting
	VariantUnregistered ReportVariant = "chk" // aircraft without a registration on file
)

// Variants lists every report variant in production order
var Variants = []ReportVariant{VariantAll, VariantInterest, VariantUnregistered}

// ParseVariant converts a configured report name into a ReportVariant
func ParseVariant(s string) (ReportVariant, error) {
	v := ReportVariant(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case VariantAll, VariantInterest, VariantUnregistered:
		return v, nil
	default:
		return "", fmt.Errorf("unknown report variant: %q (must be all, poi, or chk)", s)
	}
}

func (v ReportVariant) String() string {
	return string(v)
}
