package resource

import (
	"context"
	"io"
	"time"
)

// Kind classifies a resource for header selection.
type Kind int

const (
	Binary Kind = iota
	Text
	Stylesheet
	Script
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Stylesheet:
		return "stylesheet"
	case Script:
		return "script"
	default:
		return "binary"
	}
}

// IsText reports whether responses for the kind carry a charset.
func (k Kind) IsText() bool {
	return k != Binary
}

// Descriptor describes a stored resource.
type Descriptor struct {
	// Name is the store key, e.g. "resources/aura/resetCSS.css".
	Name     string
	MimeType string
	Kind     Kind
	Size     int64
	Modified time.Time
	// Version identifies the stored content (content hash, object ETag),
	// if the store knows one.
	Version string
}

// Store maps store keys to resources.
//
// Implementations must be safe for concurrent use. Lookup returns an error
// wrapping ErrNotFound for unknown names and for directories.
type Store interface {
	Lookup(ctx context.Context, name string) (Descriptor, error)
	Open(ctx context.Context, d Descriptor) (io.ReadCloser, error)
}
