// Package nonce holds the fingerprint of the framework build being served and
// decides whether a URL segment is a valid nonce for it.
package nonce

import (
	"sync/atomic"
	"time"
)

// State is the outcome of checking a request for a nonce.
type State int

const (
	// Absent means no path segment was used as a nonce.
	Absent State = iota
	// Valid means the segment names the current build.
	Valid
	// Mismatch means the segment looked like a nonce but names another build.
	Mismatch
)

func (s State) String() string {
	switch s {
	case Valid:
		return "valid"
	case Mismatch:
		return "mismatch"
	default:
		return "absent"
	}
}

// Snapshot is an immutable description of the current framework build.
type Snapshot struct {
	// Nonce is the build fingerprint embedded in resource URLs.
	Nonce string `json:"nonce" yaml:"nonce"`
	// UID is the framework uid, accepted wherever the nonce is.
	UID string `json:"uid,omitempty" yaml:"uid"`
	// Production makes the server prefer minified resource variants.
	Production  bool      `json:"production" yaml:"production"`
	PublishedAt time.Time `json:"publishedAt" yaml:"-"`
}

// Check classifies a path segment used as a nonce.
func (s Snapshot) Check(segment string) State {
	if segment == "" {
		return Absent
	}
	if (s.Nonce != "" && segment == s.Nonce) || (s.UID != "" && segment == s.UID) {
		return Valid
	}
	return Mismatch
}

// Source provides the build snapshot for a request.
type Source interface {
	Current() Snapshot
}

// Holder publishes snapshots to concurrent readers without locking.
// The zero value holds an empty snapshot, for which no nonce is valid.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder returns a holder publishing initial.
func NewHolder(initial Snapshot) *Holder {
	h := &Holder{}
	h.Publish(initial)
	return h
}

// Current returns the published snapshot.
func (h *Holder) Current() Snapshot {
	if s := h.current.Load(); s != nil {
		return *s
	}
	return Snapshot{}
}

// Publish replaces the snapshot. It is meant to be called at deployment
// boundaries; requests in flight keep the snapshot they already read.
func (h *Holder) Publish(s Snapshot) {
	h.current.Store(&s)
}
