package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
	bolterrors "go.etcd.io/bbolt/errors"
)

const (
	bucketSlots = "slots"
	lockTimeout = time.Second
)

// ErrInUse means another process holds the bolt file open.
var ErrInUse = errors.New("store in use by another pastel process")

// BoltSlot keeps the value under one key of the slots bucket.
type BoltSlot struct {
	db  *bolt.DB
	key []byte
}

func NewBoltSlot(path, name string) (*BoltSlot, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: lockTimeout})
	if errors.Is(err, bolterrors.ErrTimeout) {
		return nil, fmt.Errorf("%w: %s", ErrInUse, path)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketSlots)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketSlots, err)
		}

		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltSlot{db: db, key: []byte(name)}, nil
}

func (s *BoltSlot) Read(_ context.Context) ([]byte, error) {
	var value []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		// Bytes returned by Get are only valid inside the transaction.
		if v := tx.Bucket([]byte(bucketSlots)).Get(s.key); v != nil {
			value = append([]byte(nil), v...)
		}

		return nil
	})

	return value, err
}

func (s *BoltSlot) Write(_ context.Context, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSlots)).Put(s.key, value)
	})
}

func (s *BoltSlot) Close() error {
	return s.db.Close()
}
