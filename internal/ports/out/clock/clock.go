package clock

import "time"

// Clock stamps idempotency records and drives their expiry.
type Clock interface {
	Now() time.Time
}
