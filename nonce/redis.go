package nonce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultKey is the Redis key a deployment announces its build under.
const DefaultKey = "fwserve:build"

// DefaultInterval is how often a Watcher polls Redis.
const DefaultInterval = 10 * time.Second

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	Client redis.Cmdable
	// Key holding the JSON encoded snapshot. DefaultKey if empty.
	Key string
	// Interval between polls. DefaultInterval if zero.
	Interval time.Duration
	Holder   *Holder
	// Logger to use. The global zerolog logger is used if nil.
	Logger *zerolog.Logger
}

// Watcher follows the build snapshot announced in Redis and publishes it
// into a Holder.
type Watcher struct {
	client   redis.Cmdable
	key      string
	interval time.Duration
	holder   *Holder
	log      zerolog.Logger
}

// NewWatcher validates config and returns a watcher. It does not contact Redis.
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	if config.Client == nil {
		return nil, errors.New("nonce watcher: nil redis client")
	}
	if config.Holder == nil {
		return nil, errors.New("nonce watcher: nil holder")
	}
	w := &Watcher{
		client:   config.Client,
		key:      config.Key,
		interval: config.Interval,
		holder:   config.Holder,
		log:      log.Logger,
	}
	if w.key == "" {
		w.key = DefaultKey
	}
	if w.interval <= 0 {
		w.interval = DefaultInterval
	}
	if config.Logger != nil {
		w.log = *config.Logger
	}
	w.log = w.log.With().Str("key", w.key).Logger()
	return w, nil
}

// Sync reads the announced snapshot once and publishes it if it differs from
// the current one. A missing key leaves the current snapshot in place.
func (w *Watcher) Sync(ctx context.Context) (bool, error) {
	data, err := w.client.Get(ctx, w.key).Bytes()
	if errors.Is(err, redis.Nil) {
		w.log.Trace().Msg("No build announced")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read build snapshot: %w", err)
	}
	var announced Snapshot
	if err := json.Unmarshal(data, &announced); err != nil {
		return false, fmt.Errorf("decode build snapshot: %w", err)
	}
	current := w.holder.Current()
	if announced.Nonce == current.Nonce && announced.UID == current.UID && announced.Production == current.Production {
		return false, nil
	}
	w.holder.Publish(announced)
	w.log.Info().
		Str("nonce", announced.Nonce).
		Str("previous", current.Nonce).
		Bool("production", announced.Production).
		Msg("Published new build")
	return true, nil
}

// Run polls until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	w.log.Info().Msgf("Watching announced build every %s", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		if _, err := w.Sync(ctx); err != nil && ctx.Err() == nil {
			w.log.Warn().Err(err).Msg("Could not sync build snapshot")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Announce stores s under key for watchers to pick up. An empty key means
// DefaultKey. PublishedAt is set to now if zero.
func Announce(ctx context.Context, client redis.Cmdable, key string, s Snapshot) error {
	if s.Nonce == "" {
		return errors.New("announce: empty nonce")
	}
	if key == "" {
		key = DefaultKey
	}
	if s.PublishedAt.IsZero() {
		s.PublishedAt = time.Now().UTC()
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("announce build: %w", err)
	}
	return nil
}
