package report

import "flightreport/internal/models"

// Classify returns the highlight categories for the observation at 1-based
// position in a report of the given variant. Categories come back in
// rendering order: Alternate, PointOfInterest, Unregistered. A renderer
// applies them in that order, so Unregistered wins over PointOfInterest and
// both win over Alternate.
func Classify(position int, variant models.ReportVariant, flagged, unregistered bool) []models.HighlightCategory {
	var categories []models.HighlightCategory

	if position%2 == 0 {
		categories = append(categories, models.Alternate)
	}

	// Flag highlighting only makes sense when flagged rows are mixed with others
	if variant == models.VariantAll {
		if flagged {
			categories = append(categories, models.PointOfInterest)
		}
		if unregistered {
			categories = append(categories, models.Unregistered)
		}
	}

	return categories
}
