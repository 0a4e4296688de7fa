package models

// HighlightCategory tags a row pair for presentation
type HighlightCategory int

const (
	Alternate HighlightCategory = iota
	PointOfInterest
	Unregistered
)

func (c HighlightCategory) String() string {
	switch c {
	case Alternate:
		return "ALTERNATE"
	case PointOfInterest:
		return "POINT_OF_INTEREST"
	case Unregistered:
		return "UNREGISTERED"
	default:
		return "UNKNOWN"
	}
}

// StyleDirective applies a category to the table rows TopRow through
// BottomRow inclusive. Row indices count the header rows, so the pair built
// from the k-th observation (1-based) spans rows 2k and 2k+1. Later
// directives override earlier ones on the same rows.
type StyleDirective struct {
	TopRow    int
	BottomRow int
	Category  HighlightCategory
}

// Table is a compiled report ready for a renderer
type Table struct {
	Header [][]string
	Body   [][]string
	Styles []StyleDirective
}

// HeaderRowCount is the number of fixed header rows at the top of every table
const HeaderRowCount = 2
