package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pastel/internal/export"
	pastelHttp "github.com/MrJamesThe3rd/pastel/internal/http"
	"github.com/MrJamesThe3rd/pastel/internal/http/dashboard"
	exportHandler "github.com/MrJamesThe3rd/pastel/internal/http/export"
	"github.com/MrJamesThe3rd/pastel/internal/http/statement"
	txHandler "github.com/MrJamesThe3rd/pastel/internal/http/transaction"
	"github.com/MrJamesThe3rd/pastel/internal/importer"
	"github.com/MrJamesThe3rd/pastel/internal/importer/rules"
	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	txSvc := transaction.NewService(repo)

	importSvc, err := importer.NewService(importer.ProviderRules, map[importer.Provider]importer.Parser{
		importer.ProviderRules: rules.New(),
	})
	require.NoError(t, err)

	return pastelHttp.New(
		[]string{"*"},
		txHandler.NewHandler(txSvc),
		dashboard.NewHandler(txSvc),
		statement.NewHandler(importSvc, txSvc, time.Second),
		exportHandler.NewHandler(export.NewService(txSvc, nil)),
	)
}

func TestRouter_Routes(t *testing.T) {
	type testCase struct {
		name        string
		method      string
		path        string
		contentType string
		body        string
		wantStatus  int
	}

	tests := []testCase{
		{name: "ListTransactions", method: http.MethodGet, path: "/api/v1/transactions/", wantStatus: http.StatusOK},
		{name: "Dashboard", method: http.MethodGet, path: "/api/v1/dashboard/", wantStatus: http.StatusOK},
		{name: "ExportCSV", method: http.MethodGet, path: "/api/v1/export/?format=csv", wantStatus: http.StatusOK},
		{name: "SheetsDisabled", method: http.MethodPost, path: "/api/v1/export/sheets", wantStatus: http.StatusServiceUnavailable},
		{
			name:        "CreateRequiresJSON",
			method:      http.MethodPost,
			path:        "/api/v1/transactions/",
			contentType: "text/plain",
			body:        "Uber 25,90",
			wantStatus:  http.StatusUnsupportedMediaType,
		},
		{
			name:        "ImportWithRules",
			method:      http.MethodPost,
			path:        "/api/v1/import/",
			contentType: "application/json",
			body:        `{"text":"01/10/2023 UBER *TRIP 25,90"}`,
			wantStatus:  http.StatusOK,
		},
		{name: "UnknownRoute", method: http.MethodGet, path: "/api/v2/transactions", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			rec := httptest.NewRecorder()
			newRouter(t).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_CORS(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/transactions/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	newRouter(t).ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
