// Package time contains time related helpers
package time

import "time"

// UTCPlus8 is the fixed +08:00 zone token expiry is judged in
var UTCPlus8 = time.FixedZone("UTC+8", 8*60*60)

// Clock returns the current instant; injectable for tests
type Clock func() time.Time

// UTCPlus8Clock returns now in the fixed +08:00 zone regardless of the host zone
// the zone only changes how the instant prints; Unix() is the same in every zone
func UTCPlus8Clock() time.Time { return time.Now().In(UTCPlus8) }

// Fixed returns a Clock that always reports t
func Fixed(t time.Time) Clock { return func() time.Time { return t } }

// EpochSeconds returns the clock's current instant as unix seconds
func (c Clock) EpochSeconds() int64 {
	if c == nil {
		return UTCPlus8Clock().Unix()
	}
	return c().Unix()
}
