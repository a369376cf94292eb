package resource

import (
	"mime"
	"path"
	"strings"
)

// ScriptMimeType is also used for resources without a file extension.
const ScriptMimeType = "text/javascript"

type mimeEntry struct {
	mimeType string
	kind     Kind
}

var mimeTypes = map[string]mimeEntry{
	".js":    {ScriptMimeType, Script},
	".css":   {"text/css", Stylesheet},
	".html":  {"text/html", Text},
	".htm":   {"text/html", Text},
	".txt":   {"text/plain", Text},
	".json":  {"application/json", Text},
	".map":   {"application/json", Text},
	".xml":   {"text/xml", Text},
	".svg":   {"image/svg+xml", Text},
	".png":   {"image/png", Binary},
	".gif":   {"image/gif", Binary},
	".jpg":   {"image/jpeg", Binary},
	".jpeg":  {"image/jpeg", Binary},
	".ico":   {"image/x-icon", Binary},
	".webp":  {"image/webp", Binary},
	".woff":  {"font/woff", Binary},
	".woff2": {"font/woff2", Binary},
	".ttf":   {"font/ttf", Binary},
	".eot":   {"application/vnd.ms-fontobject", Binary},
	".swf":   {"application/x-shockwave-flash", Binary},
}

// TypeOf returns the mime type and kind for a resource name.
//
// Names without an extension are framework scripts. Extensions missing from
// the table fall back to the mime package and are treated as text when the
// registered type is text/*.
func TypeOf(name string) (string, Kind) {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return ScriptMimeType, Script
	}
	if entry, ok := mimeTypes[ext]; ok {
		return entry.mimeType, entry.kind
	}
	if byExt := mime.TypeByExtension(ext); byExt != "" {
		mediaType, _, err := mime.ParseMediaType(byExt)
		if err == nil {
			if strings.HasPrefix(mediaType, "text/") {
				return mediaType, Text
			}
			return mediaType, Binary
		}
	}
	return "application/octet-stream", Binary
}

// Describe fills in the mime type and kind of d from its name, unless the
// store already provided a mime type.
func Describe(d Descriptor) Descriptor {
	mimeType, kind := TypeOf(d.Name)
	if d.MimeType == "" {
		d.MimeType = mimeType
	}
	d.Kind = kind
	return d
}
