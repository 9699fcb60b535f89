package transaction_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	txHandler "github.com/MrJamesThe3rd/pastel/internal/http/transaction"
	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

func newServer(t *testing.T) (*transaction.Service, http.Handler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := transaction.NewService(repo)

	r := chi.NewRouter()
	r.Route("/transactions", txHandler.NewHandler(svc).Routes)

	return svc, r
}

func seed(svc *transaction.Service) []*transaction.Transaction {
	return svc.AddBatch(context.Background(), []transaction.Input{
		{Description: "Uber *Trip", Amount: decimal.RequireFromString("25.90"), Date: time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC), Type: transaction.TypeExpense, Category: "Transporte"},
		{Description: "Salário Mensal", Amount: decimal.RequireFromString("3500"), Date: time.Date(2023, 10, 2, 0, 0, 0, 0, time.UTC), Type: transaction.TypeIncome, Category: "Salário"},
		{Description: "IOF", Amount: decimal.RequireFromString("1.23"), Date: time.Date(2023, 9, 30, 0, 0, 0, 0, time.UTC), Type: transaction.TypeTax, Category: "Impostos"},
	})
}

func TestHandler_Create(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		wantStatus int
	}

	tests := []testCase{
		{
			name:       "Success",
			body:       `{"description":"Padaria","amount":15.5,"date":"2023-10-03","type":"EXPENSE","category":"Alimentação"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "LowerCaseType",
			body:       `{"description":"Salário","amount":3500,"date":"2023-10-02","type":"income","category":"Salário"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "NegativeAmount",
			body:       `{"description":"Padaria","amount":-15.5,"date":"2023-10-03","type":"EXPENSE","category":"Alimentação"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "UnknownType",
			body:       `{"description":"Padaria","amount":15.5,"date":"2023-10-03","type":"GIFT","category":"Alimentação"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "BadDate",
			body:       `{"description":"Padaria","amount":15.5,"date":"03/10/2023","type":"EXPENSE","category":"Alimentação"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "MissingCategory",
			body:       `{"description":"Padaria","amount":15.5,"date":"2023-10-03","type":"EXPENSE"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "MalformedJSON",
			body:       `{"description":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, srv := newServer(t)

			req := httptest.NewRequest(http.MethodPost, "/transactions/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus != http.StatusCreated {
				assert.Zero(t, svc.Len())
				return
			}

			var got txHandler.Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, 1, svc.Len())
		})
	}
}

func TestHandler_List(t *testing.T) {
	svc, srv := newServer(t)
	seed(svc)

	type testCase struct {
		name       string
		query      string
		wantStatus int
		wantDesc   []string
	}

	tests := []testCase{
		{
			name:       "NewestFirst",
			wantStatus: http.StatusOK,
			wantDesc:   []string{"Salário Mensal", "Uber *Trip", "IOF"},
		},
		{
			name:       "ByType",
			query:      "?type=expense",
			wantStatus: http.StatusOK,
			wantDesc:   []string{"Uber *Trip"},
		},
		{
			name:       "ByDateRange",
			query:      "?start_date=2023-10-01&end_date=2023-10-31",
			wantStatus: http.StatusOK,
			wantDesc:   []string{"Salário Mensal", "Uber *Trip"},
		},
		{
			name:       "InvalidDate",
			query:      "?start_date=yesterday",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions/"+tt.query, nil))

			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus != http.StatusOK {
				return
			}

			var got []txHandler.Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			desc := make([]string, len(got))
			for i, r := range got {
				desc[i] = r.Description
			}

			assert.Equal(t, tt.wantDesc, desc)
		})
	}
}

func TestHandler_Get(t *testing.T) {
	svc, srv := newServer(t)
	txs := seed(svc)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions/"+txs[0].ID, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"id": "`+txs[0].ID+`",
		"description": "Uber *Trip",
		"amount": 25.90,
		"date": "2023-10-01",
		"type": "EXPENSE",
		"category": "Transporte"
	}`, rec.Body.String())

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Delete(t *testing.T) {
	svc, srv := newServer(t)
	txs := seed(svc)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/transactions/"+txs[1].ID, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 2, svc.Len())

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/transactions/nonexistent-id", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 2, svc.Len())
}
