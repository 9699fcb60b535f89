package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/pastel/internal/database"
	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

// DefaultSlot is the name the snapshot is stored under.
const DefaultSlot = "pastel_finance_transactions"

const (
	DriverBolt   = "bolt"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// Slot is a durable named value. Read returns nil when nothing was written yet.
type Slot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, value []byte) error
	Close() error
}

// Store adapts a Slot to transaction.Repository by encoding the whole
// collection as one JSON document.
type Store struct {
	slot Slot
}

func New(slot Slot) *Store {
	return &Store{slot: slot}
}

// Open builds a Store backed by the named driver. path is a bbolt file, a
// JSON file or a SQLite database depending on driver.
func Open(driver, path, name string) (*Store, error) {
	if name == "" {
		name = DefaultSlot
	}

	var (
		slot Slot
		err  error
	)

	switch driver {
	case DriverBolt, "":
		slot, err = NewBoltSlot(path, name)
	case DriverFile:
		slot = NewFileSlot(path)
	case DriverSQLite:
		db, dbErr := database.New(path)
		if dbErr != nil {
			return nil, fmt.Errorf("opening sqlite slot: %w", dbErr)
		}

		slot = NewSQLiteSlot(db, name)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	if err != nil {
		return nil, err
	}

	return New(slot), nil
}

func (s *Store) LoadSnapshot(ctx context.Context) ([]*transaction.Transaction, error) {
	data, err := s.slot.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	return decode(data)
}

func (s *Store) SaveSnapshot(ctx context.Context, txs []*transaction.Transaction) error {
	data, err := encode(txs)
	if err != nil {
		return err
	}

	if err := s.slot.Write(ctx, data); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

func (s *Store) Close() error {
	return s.slot.Close()
}
