package statement_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
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

	"github.com/MrJamesThe3rd/pastel/internal/importer"
	"github.com/MrJamesThe3rd/pastel/internal/http/statement"
	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

const sample = "01/10 UBER *TRIP 25,90\n02/10 SALARIO MENSAL 3.500,00\n03/10 PADARIA DOCE VIDA 15,50"

var candidates = []transaction.Input{
	{Description: "Uber *Trip", Amount: decimal.RequireFromString("25.90"), Date: time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC), Type: transaction.TypeExpense, Category: "Transporte"},
	{Description: "Salário Mensal", Amount: decimal.RequireFromString("3500"), Date: time.Date(2023, 10, 2, 0, 0, 0, 0, time.UTC), Type: transaction.TypeIncome, Category: "Salário"},
	{Description: "Padaria Doce Vida", Amount: decimal.RequireFromString("15.5"), Date: time.Date(2023, 10, 3, 0, 0, 0, 0, time.UTC), Type: transaction.TypeExpense, Category: "Alimentação"},
}

type fixture struct {
	parser *importer.MockParser
	rules  *importer.MockParser
	txSvc  *transaction.Service
	router http.Handler
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f := fixture{
		parser: importer.NewMockParser(ctrl),
		rules:  importer.NewMockParser(ctrl),
		txSvc:  transaction.NewService(repo),
	}

	importSvc, err := importer.NewService(importer.ProviderGemini, map[importer.Provider]importer.Parser{
		importer.ProviderGemini: f.parser,
		importer.ProviderRules:  f.rules,
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/import", statement.NewHandler(importSvc, f.txSvc, time.Second).Routes)
	f.router = r

	return f
}

func (f fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func jsonRequest(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	return req
}

func TestHandler_Preview(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		setupMock  func(f fixture)
		wantStatus int
		wantBody   string
	}

	tests := []testCase{
		{
			name: "Success",
			body: `{"text":` + mustJSON(sample) + `}`,
			setupMock: func(f fixture) {
				f.parser.EXPECT().Parse(gomock.Any(), sample).Return(candidates, nil)
			},
			wantStatus: http.StatusOK,
			wantBody: `{
				"provider": "gemini",
				"transactions": [
					{"description": "Uber *Trip", "amount": 25.90, "date": "2023-10-01", "type": "EXPENSE", "category": "Transporte"},
					{"description": "Salário Mensal", "amount": 3500.00, "date": "2023-10-02", "type": "INCOME", "category": "Salário"},
					{"description": "Padaria Doce Vida", "amount": 15.50, "date": "2023-10-03", "type": "EXPENSE", "category": "Alimentação"}
				]
			}`,
		},
		{
			name: "ProviderOverride",
			body: `{"text":"01/10 IOF 1,23","provider":"rules"}`,
			setupMock: func(f fixture) {
				f.rules.EXPECT().Parse(gomock.Any(), "01/10 IOF 1,23").Return(nil, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"provider": "rules", "transactions": []}`,
		},
		{
			name:       "EmptyText",
			body:       `{"text":"   "}`,
			setupMock:  func(fixture) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "UnknownProvider",
			body:       `{"text":"x","provider":"claude"}`,
			setupMock:  func(fixture) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "ParserFailure",
			body: `{"text":"garbage"}`,
			setupMock: func(f fixture) {
				f.parser.EXPECT().Parse(gomock.Any(), "garbage").Return(nil, importer.ErrInvalidResponse)
			},
			wantStatus: http.StatusBadGateway,
			wantBody:   `{"error": "` + importer.FailureMessage + `"}`,
		},
		{
			name: "NotConfigured",
			body: `{"text":"garbage"}`,
			setupMock: func(f fixture) {
				f.parser.EXPECT().Parse(gomock.Any(), "garbage").Return(nil, importer.ErrNotConfigured)
			},
			wantStatus: http.StatusBadGateway,
			wantBody:   `{"error": "API Key not configured"}`,
		},
		{
			name: "Timeout",
			body: `{"text":"slow"}`,
			setupMock: func(f fixture) {
				f.parser.EXPECT().Parse(gomock.Any(), "slow").Return(nil, errors.New("context deadline exceeded"))
			},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			rec := f.do(jsonRequest("/import/", tt.body))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}

			assert.Zero(t, f.txSvc.Len(), "preview must not store anything")
		})
	}
}

func TestHandler_Preview_Multipart(t *testing.T) {
	f := newFixture(t)

	// Windows-1252 "Salário" as exported by older bank software.
	latin1 := []byte("02/10 SAL\xc1RIO MENSAL 3.500,00")

	f.rules.EXPECT().
		Parse(gomock.Any(), "02/10 SALÁRIO MENSAL 3.500,00").
		Return(candidates[1:2], nil)

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("provider", "rules"))

	part, err := mw.CreateFormFile("file", "extrato.txt")
	require.NoError(t, err)

	_, err = part.Write(latin1)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/import/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"Salário Mensal"`)
}

func TestHandler_Confirm(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		wantStatus int
		wantLen    int
	}

	tests := []testCase{
		{
			name: "Success",
			body: `{"transactions":[
				{"description":"Uber *Trip","amount":25.90,"date":"2023-10-01","type":"EXPENSE","category":"Transporte"},
				{"description":"Salário Mensal","amount":3500,"date":"2023-10-02","type":"INCOME","category":"Salário"}
			]}`,
			wantStatus: http.StatusCreated,
			wantLen:    2,
		},
		{
			name:       "Empty",
			body:       `{"transactions":[]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "OneInvalidRejectsAll",
			body: `{"transactions":[
				{"description":"Uber *Trip","amount":25.90,"date":"2023-10-01","type":"EXPENSE","category":"Transporte"},
				{"description":"Estorno","amount":-10,"date":"2023-10-02","type":"EXPENSE","category":"Outros"}
			]}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec := f.do(jsonRequest("/import/confirm", tt.body))

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantLen, f.txSvc.Len())

			if tt.wantStatus != http.StatusCreated {
				return
			}

			var got struct {
				Imported     int `json:"imported"`
				Transactions []struct {
					ID string `json:"id"`
				} `json:"transactions"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantLen, got.Imported)

			for _, tx := range got.Transactions {
				assert.NotEmpty(t, tx.ID)
			}
		})
	}
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
