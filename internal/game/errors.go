package game

import "errors"

// Command validation failures. Callers match them with errors.Is; the
// returned errors wrap these with detail.
var (
	ErrUnknownAircraftType = errors.New("unknown aircraft type")
	ErrUnknownAircraft     = errors.New("aircraft not found")
	ErrUnknownAirport      = errors.New("airport not found")
	ErrInsufficientFunds   = errors.New("insufficient cash")
	ErrAirportOwned        = errors.New("airport already owned")
	ErrSameAirport         = errors.New("origin and destination must differ")
	ErrAircraftAssigned    = errors.New("aircraft already assigned to a route")
	ErrDestinationNotOwned = errors.New("destination airport is not yours")
	ErrOutOfRange          = errors.New("route distance exceeds aircraft range")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrGameOver            = errors.New("airline is bankrupt")
	ErrIncompatibleSave    = errors.New("incompatible save")
)
