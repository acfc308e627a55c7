package seen

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	markBucket       = "seen"
	expiryValueBytes = 8
)

// boltStore implements Store backed by BoltDB. Marks carry an expiry
// timestamp in the value; a zero expiry means the mark never expires.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	ttl             time.Duration
	cleanupInterval time.Duration
}

func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create seen store directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(markBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	s := &boltStore{
		db:              db,
		ttl:             opts.TTL,
		cleanupInterval: opts.CleanupInterval,
	}
	s.lastCleanup.Store(time.Now().Unix())
	return s, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	return b.db.Close()
}

// Seen reports whether the URL was already delivered for the pair.
func (b *boltStore) Seen(userID int64, keyword, url string) (bool, error) {
	if err := b.maybeCleanupExpired(time.Now()); err != nil {
		return false, err
	}

	var exists bool
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(markBucket))
		if bucket == nil {
			return fmt.Errorf("seen bucket missing")
		}

		key := []byte(pairKey(userID, keyword, url))
		value := bucket.Get(key)
		if value == nil {
			return nil
		}

		expiry, ok := decodeExpiry(value)
		if !ok {
			return bucket.Delete(key)
		}
		if !expiry.IsZero() && !expiry.After(time.Now()) {
			return bucket.Delete(key)
		}

		exists = true
		return nil
	})
	return exists, err
}

// Mark records the URL as delivered for the pair.
func (b *boltStore) Mark(userID int64, keyword, url string) error {
	now := time.Now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(markBucket))
		if bucket == nil {
			return fmt.Errorf("seen bucket missing")
		}
		var expiry int64
		if b.ttl > 0 {
			expiry = now.Add(b.ttl).Unix()
		}
		buf := make([]byte, expiryValueBytes)
		binary.BigEndian.PutUint64(buf, uint64(expiry))
		return bucket.Put([]byte(pairKey(userID, keyword, url)), buf)
	})
}

// maybeCleanupExpired removes expired marks on a fixed cadence to avoid
// unbounded growth when a TTL is configured.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if b.ttl <= 0 {
		return nil
	}

	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(markBucket))
		if bucket == nil {
			return fmt.Errorf("seen bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			expiry, ok := decodeExpiry(v)
			if !ok {
				if err := cursor.Delete(); err != nil {
					return err
				}
				continue
			}
			if !expiry.IsZero() && !expiry.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

// decodeExpiry decodes the expiry time from the stored byte slice.
// A zero unix value decodes to the zero time, meaning "never expires".
func decodeExpiry(value []byte) (time.Time, bool) {
	if len(value) != expiryValueBytes {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value))
	if unix == 0 {
		return time.Time{}, true
	}
	return time.Unix(unix, 0), true
}
