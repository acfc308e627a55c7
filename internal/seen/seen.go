package seen

import (
	"fmt"
	"strings"
	"time"
)

// Store tracks which article URLs were already delivered for a
// (user, keyword) pair. Marks only ever accumulate; optional TTL-based
// eviction is a backend concern.
type Store interface {
	Seen(userID int64, keyword, url string) (bool, error)
	Mark(userID int64, keyword, url string) error
	Close() error
}

// Options controls retention characteristics for persistent backends.
type Options struct {
	// TTL bounds how long a mark is kept. Zero keeps marks forever.
	TTL time.Duration
	// CleanupInterval is the cadence of lazy expired-mark removal.
	CleanupInterval time.Duration
}

const defaultCleanupInterval = 12 * time.Hour

// New creates the configured seen-store backend.
func New(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}

	switch typ {
	case "", "memory":
		return NewMemory(), nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt seen store requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported seen store type %q", typ)
	}
}

// pairKey builds the storage key for a (user, keyword, url) mark.
// NUL separators cannot occur in keywords or URLs, so keys never collide.
func pairKey(userID int64, keyword, url string) string {
	return fmt.Sprintf("%d\x00%s\x00%s", userID, keyword, url)
}
