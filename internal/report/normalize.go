package report

import (
	"context"
	"strconv"

	"flightreport/internal/models"
)

// Placeholders shown when a column is missing or unusable
const (
	placeholderText     = "------"
	placeholderOwner    = "-----"
	placeholderNumber   = "------"
	placeholderShort    = "----" // squawk and track columns are narrow
	placeholderTime     = "UNKNOWN"
	placeholderModeS    = "UNKNOWN"
	placeholderCallsign = "------"
	placeholderCountry  = "------"
)

// domesticCountryCode is how BaseStation abbreviates the home country
const (
	domesticCountryCode = "N"
	domesticCountryName = "United States"
)

// RouteResolver looks up the route flown under a callsign. Unknown
// callsigns resolve to models.RoutePlaceholder without an error.
type RouteResolver interface {
	Resolve(ctx context.Context, callsign string) (string, error)
}

// NormalizedFields are the display values for one observation
type NormalizedFields struct {
	StartTime         string
	EndTime           string
	ModeS             string
	Registration      string
	Callsign          string
	Route             string
	Country           string
	Manufacturer      string
	Owner             string
	Type              string
	FirstSquawk       string
	LastSquawk        string
	FirstAltitude     string
	LastAltitude      string
	FirstGroundSpeed  string
	LastGroundSpeed   string
	FirstVerticalRate string
	LastVerticalRate  string
	FirstTrack        string
	LastTrack         string
	MessagesReceived  string

	// Flagged is set when the aircraft is marked as interesting
	Flagged bool
	// Unregistered is set when the registration placeholder was used
	Unregistered bool
}

// TopRow returns the start-of-flight line
func (n NormalizedFields) TopRow() []string {
	return []string{
		n.StartTime, n.ModeS, n.Callsign, n.Country, n.Manufacturer,
		n.FirstSquawk, n.FirstAltitude, n.FirstGroundSpeed, n.FirstVerticalRate, n.FirstTrack,
		n.MessagesReceived,
	}
}

// BottomRow returns the end-of-flight line
func (n NormalizedFields) BottomRow() []string {
	return []string{
		n.EndTime, n.Registration, n.Route, n.Owner, n.Type,
		n.LastSquawk, n.LastAltitude, n.LastGroundSpeed, n.LastVerticalRate, n.LastTrack,
	}
}

// Normalizer turns raw observations into display fields
type Normalizer struct {
	routes RouteResolver
}

func NewNormalizer(routes RouteResolver) *Normalizer {
	return &Normalizer{routes: routes}
}

// Normalize derives every display field of obs. Missing, blank or
// malformed values become placeholders; only a nil observation or a failed
// route lookup is an error.
func (n *Normalizer) Normalize(ctx context.Context, obs *models.RawObservation) (NormalizedFields, error) {
	if obs == nil {
		return NormalizedFields{}, models.ErrMalformedRecord
	}

	registration := coerceOptionalText(obs.Registration)

	fields := NormalizedFields{
		StartTime:    coerceOptionalTimestamp(obs.StartTime).Or(placeholderTime),
		EndTime:      coerceOptionalTimestamp(obs.EndTime).Or(placeholderTime),
		ModeS:        modeS(obs.ModeS),
		Registration: registration.Or(placeholderText),
		Country:      country(obs.ModeSCountry),
		Manufacturer: coerceOptionalText(obs.Manufacturer).Or(placeholderText),
		Owner:        coerceOptionalText(obs.Owner).Or(placeholderOwner),
		Type:         coerceOptionalText(obs.Type).Or(placeholderText),

		FirstSquawk:       coerceOptionalSquawk(obs.FirstSquawk).Or(placeholderShort),
		LastSquawk:        coerceOptionalSquawk(obs.LastSquawk).Or(placeholderShort),
		FirstAltitude:     coerceOptionalNumber(obs.FirstAltitude).Or(placeholderNumber),
		LastAltitude:      coerceOptionalNumber(obs.LastAltitude).Or(placeholderNumber),
		FirstGroundSpeed:  coerceOptionalNumber(obs.FirstGroundSpeed).Or(placeholderNumber),
		LastGroundSpeed:   coerceOptionalNumber(obs.LastGroundSpeed).Or(placeholderNumber),
		FirstVerticalRate: coerceOptionalNumber(obs.FirstVerticalRate).Or(placeholderNumber),
		LastVerticalRate:  coerceOptionalNumber(obs.LastVerticalRate).Or(placeholderNumber),
		FirstTrack:        coerceOptionalNumber(obs.FirstTrack).Or(placeholderShort),
		LastTrack:         coerceOptionalNumber(obs.LastTrack).Or(placeholderShort),

		MessagesReceived: messageCount(obs.MessageSlots),

		Flagged:      coerceFlag(obs.Interested),
		Unregistered: registration.IsPlaceholder(),
	}

	callsign := coerceOptionalText(obs.Callsign)
	if callsign.IsPlaceholder() || callsign.Or("") == "" {
		fields.Callsign = placeholderCallsign
		fields.Route = models.RoutePlaceholder
		return fields, nil
	}

	fields.Callsign = callsign.Or(placeholderCallsign)
	route, err := n.routes.Resolve(ctx, fields.Callsign)
	if err != nil {
		return NormalizedFields{}, err
	}
	fields.Route = route

	return fields, nil
}

func modeS(v any) string {
	if s, ok := rawText(v); ok {
		return s
	}
	if n, ok := coerceOptionalInt(v); ok {
		return strconv.FormatInt(n, 10)
	}
	return placeholderModeS
}

// country expands the domestic code; other values pass through untouched
func country(v any) string {
	s, ok := rawText(v)
	if !ok {
		return placeholderCountry
	}
	if s == domesticCountryCode {
		return domesticCountryName
	}
	return s
}
