package resource

import (
	"strings"
)

// DefaultMount is the path prefix the framework resources are served under.
const DefaultMount = "/auraFW"

// Path is a syntactically valid request for a resource: the category and the
// remaining segments. Whether the first segment is a nonce is decided later,
// by looking at the current build and the store.
type Path struct {
	Category Category
	Segments []string
}

// Name joins the segments starting at index from.
func (p Path) Name(from int) string {
	return strings.Join(p.Segments[from:], "/")
}

// ParsePath validates a raw request path of the form
// mount/{category}/[{nonce}/]{resource path}.
//
// Traversal is rejected outright: any "." or ".." segment is an error even if
// the cleaned path would stay below the mount. Empty segments (trailing
// slashes, "//") are rejected, as only files are served.
func ParsePath(mount, raw string) (Path, error) {
	mount = strings.TrimSuffix(mount, "/")
	if raw == mount || raw == mount+"/" {
		return Path{}, &PathError{Path: raw, Reason: "mount root"}
	}
	if !strings.HasPrefix(raw, mount+"/") {
		return Path{}, &PathError{Path: raw, Reason: "outside mount"}
	}
	segments := strings.Split(raw[len(mount)+1:], "/")
	for _, segment := range segments {
		switch {
		case segment == "":
			return Path{}, &PathError{Path: raw, Reason: "empty segment"}
		case segment == "." || segment == "..":
			return Path{}, &PathError{Path: raw, Reason: "traversal"}
		case strings.ContainsAny(segment, "\\\x00"):
			return Path{}, &PathError{Path: raw, Reason: "illegal character"}
		}
	}
	category, ok := ParseCategory(segments[0])
	if !ok {
		return Path{}, &PathError{Path: raw, Reason: "unknown category " + segments[0]}
	}
	if len(segments) < 2 {
		return Path{}, &PathError{Path: raw, Reason: "no resource"}
	}
	return Path{
		Category: category,
		Segments: segments[1:],
	}, nil
}
