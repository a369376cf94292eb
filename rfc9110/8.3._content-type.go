package rfc9110

import (
	"mime"
	"strings"
)

// §  8.3.  Content-Type
// §
// §     The "Content-Type" header field indicates the media type of the
// §     associated representation: either the representation enclosed in the
// §     message content or the selected representation, as determined by the
// §     message semantics.
// §
// §       Content-Type = media-type
// §
// §     Media types are defined in Section 8.3.1.
// §
// §  8.3.2.  Charset
// §
// §     HTTP uses "charset" names to indicate or negotiate the character
// §     encoding scheme ([RFC6365], Section 2) of a textual representation.
// §     In the fields defined in this document, charset names appear either
// §     in parameters (Content-Type), or, for Accept-Encoding, in the form of
// §     a plain token.
//
// ContentType returns the field value for mediaType, appending the charset
// parameter when charset is not empty. An existing charset parameter on
// mediaType is replaced.
func ContentType(mediaType, charset string) string {
	base, params, err := mime.ParseMediaType(mediaType)
	if err != nil {
		base, params = strings.ToLower(strings.TrimSpace(mediaType)), map[string]string{}
	}
	delete(params, "charset")
	value := mime.FormatMediaType(base, params)
	if value == "" {
		value = base
	}
	if charset == "" {
		return value
	}
	// keep the canonical spelling of the charset name (e.g. UTF-8)
	return value + "; charset=" + charset
}

// MediaType returns the media type of a Content-Type field value without
// parameters.
func MediaType(contentType string) string {
	base, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		if i := strings.Index(contentType, ";"); i >= 0 {
			contentType = contentType[:i]
		}
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return base
}
