package models

// RoutePlaceholder is shown when no route is known for a flight
const RoutePlaceholder = "------"

// Route is one row of the FlightRoute reference table
type Route struct {
	Flight string // callsign as broadcast, e.g. SWA3848
	Route  string // airport sequence, e.g. KMCI-KDEN
}
