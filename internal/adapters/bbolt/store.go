// Package bbolt implements the ports.StatsStore interface using bbolt
// (embedded B+ tree). Counters live as JSON under a single "stats" bucket.
// Writes are transactional — a crash mid-write cannot corrupt previously
// committed counters.
package bbolt

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/corey/pysym/internal/ports"
)

// Bucket keys
var (
	bucketStats = []byte("stats")
	keyUsage    = []byte("usage")
)

// Store implements ports.StatsStore backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record increments the usage counters for one request outcome.
// Read-modify-write happens inside a single update transaction, so
// concurrent connections cannot lose increments.
func (s *Store) Record(out ports.RequestOutcome) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketStats)
		if err != nil {
			return err
		}

		stats := emptyStats()
		if v := b.Get(keyUsage); v != nil {
			if err := json.Unmarshal(v, &stats); err != nil {
				return fmt.Errorf("unmarshal usage: %w", err)
			}
		}

		stats.Requests++
		if out.OK {
			stats.OK++
		} else if out.ErrorKind != "" {
			stats.Errors[out.ErrorKind]++
		}
		if out.Parser != "" {
			stats.Parsers[out.Parser]++
		}

		data, err := json.Marshal(stats)
		if err != nil {
			return fmt.Errorf("marshal usage: %w", err)
		}
		return b.Put(keyUsage, data)
	})
}

// Snapshot returns a copy of the current usage counters.
// A fresh database yields zero counters, not an error.
func (s *Store) Snapshot() (ports.UsageStats, error) {
	stats := emptyStats()

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketStats)
		if b == nil {
			return nil
		}
		v := b.Get(keyUsage)
		if v == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		data := make([]byte, len(v))
		copy(data, v)
		return json.Unmarshal(data, &stats)
	})
	if err != nil {
		return ports.UsageStats{}, fmt.Errorf("load usage: %w", err)
	}
	return stats, nil
}

// Reset clears all usage counters. Idempotent.
func (s *Store) Reset() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketStats)
		if b == nil {
			return nil
		}
		return b.Delete(keyUsage)
	})
}

func emptyStats() ports.UsageStats {
	return ports.UsageStats{
		Errors:  make(map[string]uint64),
		Parsers: make(map[string]uint64),
	}
}
