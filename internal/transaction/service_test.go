package transaction_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func input(desc string, amount string, typ transaction.Type, category string, d time.Time) transaction.Input {
	return transaction.Input{
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
		Date:        d,
		Type:        typ,
		Category:    category,
	}
}

func TestService_Load(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *transaction.MockRepository)
		wantLen   int
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					LoadSnapshot(gomock.Any()).
					Return([]*transaction.Transaction{
						{ID: "a", Type: transaction.TypeIncome},
						{ID: "b", Type: transaction.TypeExpense},
					}, nil)
			},
			wantLen: 2,
		},
		{
			name: "MissingSnapshot",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().LoadSnapshot(gomock.Any()).Return(nil, nil)
			},
			wantLen: 0,
		},
		{
			name: "CorruptedSnapshot",
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					LoadSnapshot(gomock.Any()).
					Return(nil, errors.New("decode snapshot: invalid character 'x'"))
			},
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := transaction.NewService(repo)
			got := svc.Load(context.Background())

			assert.Len(t, got, tt.wantLen)
			assert.Equal(t, tt.wantLen, svc.Len())
		})
	}
}

func TestService_Add(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	in := input("Padaria", "15.50", transaction.TypeExpense, "Alimentação", date(2023, 10, 3))

	repo.EXPECT().
		SaveSnapshot(gomock.Any(), gomock.Len(1)).
		DoAndReturn(func(_ context.Context, txs []*transaction.Transaction) error {
			assert.Equal(t, "Padaria", txs[0].Description)
			return nil
		})

	got := svc.Add(context.Background(), in)
	require.NotNil(t, got)
	assert.NotEmpty(t, got.ID)
	assert.True(t, decimal.RequireFromString("15.50").Equal(got.Amount))
	assert.Equal(t, transaction.TypeExpense, got.Type)
	assert.Equal(t, date(2023, 10, 3), got.Date)
	assert.Equal(t, 1, svc.Len())
}

func TestService_Add_SaveErrorIsNotSurfaced(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	svc := transaction.NewService(repo)
	got := svc.Add(context.Background(), input("Uber", "25.90", transaction.TypeExpense, "Transporte", date(2023, 10, 1)))

	require.NotNil(t, got)
	assert.Len(t, svc.List(context.Background(), transaction.ListFilter{}), 1)
}

func TestService_AddThenRemoveRestoresCollection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any()).Return(nil).Times(3)

	svc := transaction.NewService(repo)
	ctx := context.Background()

	svc.Add(ctx, input("Salário", "3500.00", transaction.TypeIncome, "Salário", date(2023, 10, 2)))
	before := svc.List(ctx, transaction.ListFilter{})

	added := svc.Add(ctx, input("Uber", "25.90", transaction.TypeExpense, "Transporte", date(2023, 10, 1)))
	svc.Remove(ctx, added.ID)

	assert.Equal(t, before, svc.List(ctx, transaction.ListFilter{}))
}

func TestService_RemoveUnknownIDIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	svc := transaction.NewService(repo)
	ctx := context.Background()

	svc.Add(ctx, input("Salário", "3500.00", transaction.TypeIncome, "Salário", date(2023, 10, 2)))
	before := svc.List(ctx, transaction.ListFilter{})

	svc.Remove(ctx, "nonexistent-id")

	assert.Equal(t, before, svc.List(ctx, transaction.ListFilter{}))
}

func TestService_AddBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().SaveSnapshot(gomock.Any(), gomock.Len(3)).Return(nil).Times(1)

	svc := transaction.NewService(repo)

	got := svc.AddBatch(context.Background(), []transaction.Input{
		input("Uber *Trip", "25.90", transaction.TypeExpense, "Transporte", date(2023, 10, 1)),
		input("Salário Mensal", "3500.00", transaction.TypeIncome, "Salário", date(2023, 10, 2)),
		input("Padaria Doce Vida", "15.50", transaction.TypeExpense, "Alimentação", date(2023, 10, 3)),
	})

	require.Len(t, got, 3)

	ids := make(map[string]struct{}, len(got))
	for _, tx := range got {
		ids[tx.ID] = struct{}{}
	}

	assert.Len(t, ids, 3)
	assert.Equal(t, 3, svc.Len())
}

func TestService_AddBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	assert.Nil(t, svc.AddBatch(context.Background(), nil))
	assert.Zero(t, svc.Len())
}

func TestService_AddBatch_IsAtomicForReaders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := transaction.NewService(repo)
	ctx := context.Background()

	const (
		batchSize = 50
		batches   = 20
	)

	batch := make([]transaction.Input, batchSize)
	for i := range batch {
		batch[i] = input("item", "1.00", transaction.TypeExpense, "Outros", date(2024, 1, 1))
	}

	var wg sync.WaitGroup

	done := make(chan struct{})

	wg.Add(1)

	go func() {
		defer wg.Done()

		for {
			select {
			case <-done:
				return
			default:
			}

			n := len(svc.List(ctx, transaction.ListFilter{}))
			assert.Zero(t, n%batchSize, "observed partial batch of length %d", n)
		}
	}()

	for range batches {
		svc.AddBatch(ctx, batch)
	}

	close(done)
	wg.Wait()

	assert.Equal(t, batchSize*batches, svc.Len())
}

func TestService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any()).Return(nil)

	svc := transaction.NewService(repo)
	ctx := context.Background()

	added := svc.Add(ctx, input("Uber", "25.90", transaction.TypeExpense, "Transporte", date(2023, 10, 1)))

	got, err := svc.Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, added, got)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any()).Return(nil)

	svc := transaction.NewService(repo)
	ctx := context.Background()

	svc.AddBatch(ctx, []transaction.Input{
		input("Uber", "25.90", transaction.TypeExpense, "Transporte", date(2023, 9, 30)),
		input("Salário", "3500.00", transaction.TypeIncome, "Salário", date(2023, 10, 2)),
		input("IOF", "15.50", transaction.TypeTax, "Impostos", date(2023, 10, 15)),
		input("Metrô", "4.40", transaction.TypeExpense, "Transporte", date(2023, 11, 1)),
	})

	type args struct {
		filter transaction.ListFilter
	}

	type testCase struct {
		name     string
		args     args
		wantDesc []string
	}

	expense := transaction.TypeExpense
	transport := "Transporte"
	start := date(2023, 10, 1)
	end := date(2023, 10, 31)

	tests := []testCase{
		{
			name:     "All",
			args:     args{filter: transaction.ListFilter{}},
			wantDesc: []string{"Uber", "Salário", "IOF", "Metrô"},
		},
		{
			name:     "ByType",
			args:     args{filter: transaction.ListFilter{Type: &expense}},
			wantDesc: []string{"Uber", "Metrô"},
		},
		{
			name:     "ByCategory",
			args:     args{filter: transaction.ListFilter{Category: &transport}},
			wantDesc: []string{"Uber", "Metrô"},
		},
		{
			name:     "ByDateRangeInclusive",
			args:     args{filter: transaction.ListFilter{StartDate: &start, EndDate: &end}},
			wantDesc: []string{"Salário", "IOF"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.List(ctx, tt.args.filter)

			desc := make([]string, len(got))
			for i, tx := range got {
				desc[i] = tx.Description
			}

			assert.Equal(t, tt.wantDesc, desc)
		})
	}
}

func TestSortNewestFirst(t *testing.T) {
	txs := []*transaction.Transaction{
		{ID: "old", Date: date(2023, 1, 1)},
		{ID: "new-a", Date: date(2023, 3, 1)},
		{ID: "mid", Date: date(2023, 2, 1)},
		{ID: "new-b", Date: date(2023, 3, 1)},
	}

	got := transaction.SortNewestFirst(txs)

	ids := make([]string, len(got))
	for i, tx := range got {
		ids[i] = tx.ID
	}

	assert.Equal(t, []string{"new-a", "new-b", "mid", "old"}, ids)
	assert.Equal(t, "old", txs[0].ID, "input must not be reordered")
}
