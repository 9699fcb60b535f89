package transaction

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository persists the whole collection as one snapshot.
//
//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	LoadSnapshot(ctx context.Context) ([]*Transaction, error)
	SaveSnapshot(ctx context.Context, txs []*Transaction) error
}

// Service owns the in-memory transaction collection and mirrors every change
// to the Repository. Save failures are logged and never returned.
type Service struct {
	repo  Repository
	newID func() string

	mu  sync.RWMutex
	txs []*Transaction
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		newID: uuid.NewString,
	}
}

type ListFilter struct {
	Type      *Type
	Category  *string
	StartDate *time.Time
	EndDate   *time.Time
}

func (f ListFilter) match(tx *Transaction) bool {
	if f.Type != nil && tx.Type != *f.Type {
		return false
	}

	if f.Category != nil && tx.Category != *f.Category {
		return false
	}

	if f.StartDate != nil && tx.Date.Before(DateOnly(*f.StartDate)) {
		return false
	}

	if f.EndDate != nil && tx.Date.After(DateOnly(*f.EndDate)) {
		return false
	}

	return true
}

// Load replaces the collection with the persisted snapshot. A missing or
// unreadable snapshot yields an empty collection.
func (s *Service) Load(ctx context.Context) []*Transaction {
	txs, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		slog.Warn("discarding unreadable snapshot", "error", err)

		txs = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.txs = txs

	return slices.Clone(s.txs)
}

func (s *Service) Add(ctx context.Context, in Input) *Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.build(in)
	s.txs = append(s.txs, tx)
	s.save(ctx)

	return tx
}

// AddBatch appends all inputs in a single critical section, so readers see
// either none or all of them.
func (s *Service) AddBatch(ctx context.Context, ins []Input) []*Transaction {
	if len(ins) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txs := make([]*Transaction, len(ins))
	for i, in := range ins {
		txs[i] = s.build(in)
	}

	s.txs = append(s.txs, txs...)
	s.save(ctx)

	return txs
}

// Remove deletes the transaction with the given id. Unknown ids are ignored.
func (s *Service) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.txs, func(tx *Transaction) bool { return tx.ID == id })
	if idx < 0 {
		return
	}

	s.txs = slices.Delete(s.txs, idx, idx+1)
	s.save(ctx)
}

func (s *Service) Get(_ context.Context, id string) (*Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tx := range s.txs {
		if tx.ID == id {
			return tx, nil
		}
	}

	return nil, ErrNotFound
}

// List returns the transactions matching filter in insertion order.
func (s *Service) List(_ context.Context, filter ListFilter) []*Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txs := make([]*Transaction, 0, len(s.txs))

	for _, tx := range s.txs {
		if filter.match(tx) {
			txs = append(txs, tx)
		}
	}

	return txs
}

func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.txs)
}

func (s *Service) build(in Input) *Transaction {
	return &Transaction{
		ID:          s.newID(),
		Description: in.Description,
		Amount:      in.Amount,
		Date:        DateOnly(in.Date),
		Type:        in.Type,
		Category:    in.Category,
	}
}

// save must be called with s.mu held for writing.
func (s *Service) save(ctx context.Context) {
	if err := s.repo.SaveSnapshot(ctx, slices.Clone(s.txs)); err != nil {
		slog.Error("failed to save snapshot", "error", err, "count", len(s.txs))
	}
}

// SortNewestFirst returns a copy of txs ordered by date, newest first. Equal
// dates keep their insertion order.
func SortNewestFirst(txs []*Transaction) []*Transaction {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b *Transaction) int {
		return b.Date.Compare(a.Date)
	})

	return sorted
}
