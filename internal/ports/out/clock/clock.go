package clock

import "time"

// Clock supplies the current time to use cases that stamp records or mint tokens.
type Clock interface {
	Now() time.Time
}
