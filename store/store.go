// Package store provides resource.Store implementations: an in-memory map,
// a directory tree, a SQLite bundle and an S3 bucket.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"time"

	"github.com/always-cache/fwserve/resource"
	"github.com/rs/zerolog"
)

// Putter stores resource content under a store key.
//
// Implementations must be thread-safe!
type Putter interface {
	Put(ctx context.Context, name string, modified time.Time, body []byte) error
}

// contentVersion is the version recorded for content written through Put.
func contentVersion(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:8])
}

// Copy writes every file of the tree rooted at fsys to dst, keyed by its
// slash-separated path. It returns the number of resources written.
// Files outside the known categories are skipped.
func Copy(ctx context.Context, fsys fs.FS, dst Putter, logger zerolog.Logger) (int, error) {
	count := 0
	err := fs.WalkDir(fsys, ".", func(name string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if !inCategory(name) {
			logger.Debug().Str("name", name).Msg("Skipping file outside resource categories")
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		if err := dst.Put(ctx, name, info.ModTime(), body); err != nil {
			return fmt.Errorf("could not store %s: %w", name, err)
		}
		logger.Trace().Str("name", name).Int("bytes", len(body)).Msg("Stored resource")
		count++
		return nil
	})
	return count, err
}

func inCategory(name string) bool {
	for _, c := range resource.Categories() {
		prefix := c.String() + "/"
		if len(name) > len(prefix) && name[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}
