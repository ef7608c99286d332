package domain

import "strconv"

// UserID identifies a user account. Values are UUIDv7 strings assigned at registration.
type UserID string

// TripID is the store-assigned identifier for a trip record.
type TripID int64

func (id TripID) String() string { return strconv.FormatInt(int64(id), 10) }

// ParseTripID parses a path parameter into a TripID.
func ParseTripID(s string) (TripID, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return TripID(v), true
}
