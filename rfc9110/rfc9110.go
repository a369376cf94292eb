// Package rfc9110 implements the parts of HTTP Semantics (RFC 9110) that an
// origin serving static resources needs: HTTP-date handling, the
// If-Modified-Since precondition and Content-Type composition.
//
// Like the rfc9111 package, code sits next to the section of the RFC it
// implements. Quoted RFC text is prefixed with "§".
package rfc9110

// Field names used by the resource server.
const (
	FieldCacheControl    = "Cache-Control"
	FieldContentLength   = "Content-Length"
	FieldContentType     = "Content-Type"
	FieldExpires         = "Expires"
	FieldIfModifiedSince = "If-Modified-Since"
	FieldIfNoneMatch     = "If-None-Match"
	FieldLastModified    = "Last-Modified"
	FieldPragma          = "Pragma"
	FieldVary            = "Vary"
)

// §  12.5.5.  Vary
// §
// §     The "Vary" header field in a response describes what parts of a
// §     request message, aside from the method and target URI, might have
// §     influenced the origin server's process for selecting the content of
// §     this response.
const VaryAcceptEncoding = "Accept-Encoding"
