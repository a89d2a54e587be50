package interceptresolver

import (
	"time"

	bbolt "go.etcd.io/bbolt"
)

var bucketOverrides = []byte("overrides")

// store persists per-domain override zone text in a bbolt database, keyed by
// registrable domain (the publicsuffix "apex", e.g. "example.com"). Grounded
// on the teacher's repos/blocklist/bolt.Store, adapted from a block/allow
// boolean bucket layout to a single overrides bucket holding raw zone text,
// since intercept.py's overrides carry full replacement records rather than
// a bare match decision.
type store struct {
	db *bbolt.DB
}

// openStore opens (or creates) a bbolt database at path with the overrides
// bucket present.
func openStore(path string) (*store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketOverrides)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &store{db: db}, nil
}

func (s *store) Close() error { return s.db.Close() }

// put stores zoneText under apex, replacing anything already stored there.
func (s *store) put(apex, zoneText string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketOverrides).Put([]byte(apex), []byte(zoneText))
	})
}

// get returns the zone text stored for apex, if any.
func (s *store) get(apex string) (string, bool, error) {
	var text string
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketOverrides).Get([]byte(apex))
		if v != nil {
			text = string(v)
			found = true
		}
		return nil
	})
	return text, found, err
}

// count returns the number of apex domains with an override, for sizing the
// bloom filter on load.
func (s *store) count() (int, error) {
	n := 0
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketOverrides).Stats().KeyN
		return nil
	})
	return n, err
}

// forEach visits every stored (apex, zoneText) pair.
func (s *store) forEach(fn func(apex, zoneText string) error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketOverrides).ForEach(func(k, v []byte) error {
			return fn(string(k), string(v))
		})
	})
}
