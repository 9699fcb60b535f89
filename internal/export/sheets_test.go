package export_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/MrJamesThe3rd/pastel/internal/export"
)

// fakeSheet serves the values get and append endpoints. existing is what a
// get of the target range returns.
func fakeSheet(t *testing.T, existing string, appended *[][]any) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/spreadsheets/sheet-id/values/")
		w.Header().Set("Content-Type", "application/json")

		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`{"range":"Finanças!A1","majorDimension":"ROWS"` + existing + `}`))
			return
		}

		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, ":append"), r.URL.Path)
		assert.Equal(t, "USER_ENTERED", r.URL.Query().Get("valueInputOption"))
		assert.Equal(t, "INSERT_ROWS", r.URL.Query().Get("insertDataOption"))

		var body struct {
			Values [][]any `json:"values"`
		}

		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		*appended = body.Values

		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-id","updates":{"updatedRange":"Finanças!A1:E3","updatedRows":3}}`))
	}))
}

func newSink(t *testing.T, srv *httptest.Server) *export.SheetsSink {
	t.Helper()

	sink, err := export.NewSheetsSink(context.Background(), "sheet-id", "", "",
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)

	return sink
}

func TestSheetsSink_Append(t *testing.T) {
	type testCase struct {
		name      string
		existing  string
		wantRows  int
		wantFirst string
	}

	tests := []testCase{
		{name: "EmptySheetGetsHeader", existing: "", wantRows: 3, wantFirst: "Data"},
		{name: "StartedSheetSkipsHeader", existing: `,"values":[["Data"]]`, wantRows: 2, wantFirst: "2023-10-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var appended [][]any

			srv := fakeSheet(t, tt.existing, &appended)
			defer srv.Close()

			ref, err := newSink(t, srv).Append(context.Background(), export.Rows(sample()))
			require.NoError(t, err)
			assert.Equal(t, "Finanças!A1:E3", ref)

			require.Len(t, appended, tt.wantRows)
			assert.Equal(t, tt.wantFirst, appended[0][0])
		})
	}
}

func TestSheetsSink_AppendOnlyHeaderToStartedSheet(t *testing.T) {
	var appended [][]any

	srv := fakeSheet(t, `,"values":[["Data"]]`, &appended)
	defer srv.Close()

	ref, err := newSink(t, srv).Append(context.Background(), export.Rows(nil))
	require.NoError(t, err)
	assert.Equal(t, "Finanças!A1", ref)
	assert.Nil(t, appended)
}

func TestSheetsSink_AppendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"The caller does not have permission"}}`))
	}))
	defer srv.Close()

	_, err := newSink(t, srv).Append(context.Background(), export.Rows(nil))
	assert.Error(t, err)
}
