package rfc9110

import (
	"net/http"
	"time"
)

// §  13.1.3.  If-Modified-Since
// §
// §     The "If-Modified-Since" header field makes a GET or HEAD request
// §     method conditional on the selected representation's modification
// §     date being more recent than the date provided in the field value.
// §     Transfer of the selected representation's data is avoided if that
// §     data has not changed.
// §
// §       If-Modified-Since = HTTP-date
// §
// §     An example of the field is:
// §
// §       If-Modified-Since: Sat, 29 Oct 1994 19:43:31 GMT
// §
// §     A recipient MUST ignore If-Modified-Since if the request contains an
// §     If-None-Match header field; the condition in If-None-Match is
// §     considered to be a more accurate replacement for the condition in
// §     If-Modified-Since, and the two are only combined for the sake of
// §     interoperating with older intermediaries that might not implement
// §     If-None-Match.
// §
// §     A recipient MUST ignore the If-Modified-Since header field if the
// §     received field value is not a valid HTTP-date, the field value has
// §     more than one member, or if the request method is neither GET nor
// §     HEAD.
//
// IfModifiedSince returns the date of the request's If-Modified-Since
// precondition. The boolean is false when the precondition is absent or has
// to be ignored.
func IfModifiedSince(r *http.Request) (time.Time, bool) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return time.Time{}, false
	}
	if len(r.Header.Values(FieldIfNoneMatch)) > 0 {
		return time.Time{}, false
	}
	values := r.Header.Values(FieldIfModifiedSince)
	if len(values) != 1 {
		return time.Time{}, false
	}
	date, err := HttpDate(values[0])
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}
