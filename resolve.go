package fwserve

import (
	"context"
	"errors"
	"strings"

	"github.com/always-cache/fwserve/nonce"
	"github.com/always-cache/fwserve/policy"
	"github.com/always-cache/fwserve/resource"

	"github.com/rs/zerolog"
)

// resolution is the outcome of mapping a parsed path to a stored resource.
type resolution struct {
	descriptor resource.Descriptor
	found      bool
	nonce      nonce.State
	segment    string
}

// resolve finds the resource a path names. The first segment is taken as a
// nonce if it is valid for build, or if the full path is missing but the path
// without the first segment exists (a nonce from another build).
func (s *Server) resolve(ctx context.Context, p resource.Path, build nonce.Snapshot, log *zerolog.Logger) resolution {
	if len(p.Segments) >= 2 && build.Check(p.Segments[0]) == nonce.Valid {
		log.Trace().Str("nonce", p.Segments[0]).Msg("Valid nonce")
		d, ok := s.lookup(ctx, p.Category, p.Name(1), build.Production, log)
		return resolution{descriptor: d, found: ok, nonce: nonce.Valid, segment: p.Segments[0]}
	}

	if d, ok := s.lookup(ctx, p.Category, p.Name(0), build.Production, log); ok {
		return resolution{descriptor: d, found: true, nonce: nonce.Absent}
	}

	if len(p.Segments) >= 2 {
		log.Trace().Str("nonce", p.Segments[0]).Msg("Trying first segment as stale nonce")
		d, ok := s.lookup(ctx, p.Category, p.Name(1), build.Production, log)
		if ok {
			return resolution{descriptor: d, found: true, nonce: nonce.Mismatch, segment: p.Segments[0]}
		}
	}
	return resolution{}
}

// lookup returns the descriptor for name in category. Production builds
// prefer the minified variant of scripts where the category allows it.
// Store failures are logged and reported as not found.
func (s *Server) lookup(ctx context.Context, category resource.Category, name string, production bool, log *zerolog.Logger) (resource.Descriptor, bool) {
	if production && policy.AllowsMinified(category) {
		if minified, ok := minifiedName(name); ok {
			if d, found := s.find(ctx, category.Key(minified), log); found {
				return d, true
			}
		}
	}
	return s.find(ctx, category.Key(name), log)
}

func (s *Server) find(ctx context.Context, key string, log *zerolog.Logger) (resource.Descriptor, bool) {
	d, err := s.store.Lookup(ctx, key)
	if errors.Is(err, resource.ErrNotFound) {
		log.Trace().Str("key", key).Msg("Not in store")
		return resource.Descriptor{}, false
	} else if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Could not look up resource")
		return resource.Descriptor{}, false
	}
	log.Trace().Str("key", key).Str("version", d.Version).Msg("Found resource")
	return d, true
}

// minifiedName maps x.js to x.min.js.
func minifiedName(name string) (string, bool) {
	if !strings.HasSuffix(name, ".js") || strings.HasSuffix(name, ".min.js") {
		return "", false
	}
	return strings.TrimSuffix(name, ".js") + ".min.js", true
}
