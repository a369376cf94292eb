package rfc9111

import "time"

// §  5.3.  Expires
// §
// §     The "Expires" response header field gives the date/time after which
// §     the response is considered stale.  See Section 4.2 for further
// §     discussion of the freshness model.
// §
// §     [...]
// §
// §     An origin server without a clock (Section 5.6.7 of [HTTP]) MUST NOT
// §     generate an Expires header field unless its value represents a fixed
// §     time in the past (always expired) or its value has been associated
// §     with the resource by a system with a clock.
//
// AlreadyExpired is the fixed past time sent for responses that are stale
// on arrival.
var AlreadyExpired = time.Unix(0, 0).UTC()

// Expires returns the Expires value of a response generated at now that
// stays fresh for lifetime.
func Expires(now time.Time, lifetime time.Duration) time.Time {
	if lifetime <= 0 {
		return AlreadyExpired
	}
	return now.Add(lifetime)
}
