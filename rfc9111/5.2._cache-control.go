package rfc9111

import "time"

// §  5.2. Cache-Control
// §
// §  The "Cache-Control" header field is used to list directives for caches along
// §  the request/response chain. Cache directives are unidirectional, in that the
// §  presence of a directive in a request does not imply that the same directive is
// §  present or copied in the response.
// §
// §    Cache-Control   = #cache-directive
// §
// §    cache-directive = token [ "=" ( token / quoted-string ) ]

// §  5.2.2. Response Directives

// Public returns the directives of a response that any cache may store and
// reuse for maxAge.
//
// §  5.2.2.1. max-age
// §
// §  [...] This
// §  directive uses the token form of the argument syntax: e.g., 'max-age=5' not
// §  'max-age="5"'. A sender MUST NOT generate the quoted-string form.
// §
// §  5.2.2.9.  public
// §
// §     The public response directive indicates that a cache MAY store the
// §     response even if it would otherwise be prohibited, subject to the
// §     constraints defined in Section 3.  In other words, public explicitly
// §     marks the response as cacheable.
func Public(maxAge time.Duration) string {
	return "max-age=" + toDeltaSeconds(maxAge) + ", public"
}

// NoCacheNoStore are the directives of a response that caches must neither
// store nor reuse.
//
// §  5.2.2.4.  no-cache
// §
// §     The no-cache response directive, in its unqualified form (without an
// §     argument), indicates that the response MUST NOT be used to satisfy
// §     any other request without forwarding it for validation and receiving
// §     a successful response; see Section 4.3.
// §
// §  5.2.2.5.  no-store
// §
// §     The no-store response directive indicates that a cache MUST NOT store
// §     any part of either the immediate request or the response and MUST NOT
// §     use the response to satisfy any other request.
const NoCacheNoStore = "no-cache, no-store"
