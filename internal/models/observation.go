package models

// RawObservation is one Aircraft row joined with one Flights row from a
// BaseStation database. Values are kept exactly as the driver returned them
// (nil, int64, float64, string, []byte, time.Time or bool) because any column
// may be missing or hold an unexpected type.
type RawObservation struct {
	StartTime any
	EndTime   any

	ModeS        any // 6 hex digit ICAO address
	ModeSCountry any
	Registration any
	Manufacturer any
	Type         any
	Owner        any // RegisteredOwners
	Interested   any // flagged-of-interest

	Callsign any

	FirstSquawk       any
	LastSquawk        any
	FirstAltitude     any
	LastAltitude      any
	FirstGroundSpeed  any
	LastGroundSpeed   any
	FirstVerticalRate any
	LastVerticalRate  any
	FirstTrack        any
	LastTrack         any

	// MessageSlots holds the per-message-type counters NumPosMsgRec through
	// NumAirToAirMsgRec, in column order.
	MessageSlots []any
}

// MessageSlotColumns are the Flights columns summed into the received
// message count.
var MessageSlotColumns = []string{
	"NumPosMsgRec",
	"NumADSBMsgRec",
	"NumModeSMsgRec",
	"NumIDMsgRec",
	"NumSurPosMsgRec",
	"NumAirPosMsgRec",
	"NumAirVelMsgRec",
	"NumSurAltMsgRec",
	"NumSurIDMsgRec",
	"NumAirToAirMsgRec",
}
