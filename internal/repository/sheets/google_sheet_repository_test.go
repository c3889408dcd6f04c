package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

type recordedCall struct {
	method string
	path   string
	body   map[string]any
}

// fakeSheetsAPI answers the handful of Sheets v4 endpoints the repository uses.
type fakeSheetsAPI struct {
	mu     sync.Mutex
	tabs   []string
	values [][]any
	calls  []recordedCall
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := recordedCall{method: r.Method, path: r.URL.Path}
	if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
		_ = json.Unmarshal(raw, &call.body)
	}
	f.calls = append(f.calls, call)

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":batchUpdate"):
		f.tabs = append(f.tabs, "added")
		_, _ = io.WriteString(w, `{"spreadsheetId":"sheet-1","replies":[{}]}`)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
		_, _ = io.WriteString(w, `{"spreadsheetId":"sheet-1"}`)
	case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/values/"):
		_ = json.NewEncoder(w).Encode(map[string]any{"range": "History!A:A", "values": f.values})
	case r.Method == http.MethodGet:
		sheets := make([]map[string]any, 0, len(f.tabs))
		for _, title := range f.tabs {
			sheets = append(sheets, map[string]any{"properties": map[string]any{"title": title}})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"spreadsheetId": "sheet-1", "sheets": sheets})
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeSheetsAPI) recorded() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedCall(nil), f.calls...)
}

func newTestRepository(t *testing.T, api *fakeSheetsAPI) *GoogleSheetRepository {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	repo, err := newRepository(context.Background(), "sheet-1", zap.NewNop(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
		option.WithoutAuthentication())
	require.NoError(t, err)
	return repo
}

func TestEnsureTab(t *testing.T) {
	api := &fakeSheetsAPI{tabs: []string{"Sheet1"}}
	repo := newTestRepository(t, api)

	require.NoError(t, repo.EnsureTab(context.Background(), "History"))
	calls := api.recorded()
	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodPost, calls[1].method)
	assert.True(t, strings.HasSuffix(calls[1].path, "sheet-1:batchUpdate"))

	requests, _ := calls[1].body["requests"].([]any)
	require.Len(t, requests, 1)
	assert.Contains(t, requests[0], "addSheet")
}

func TestEnsureTab_Existing(t *testing.T) {
	api := &fakeSheetsAPI{tabs: []string{"Sheet1", "History"}}
	repo := newTestRepository(t, api)

	require.NoError(t, repo.EnsureTab(context.Background(), "History"))
	calls := api.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodGet, calls[0].method)
}

func TestAppendRows(t *testing.T) {
	api := &fakeSheetsAPI{}
	repo := newTestRepository(t, api)
	ctx := context.Background()

	require.NoError(t, repo.AppendRows(ctx, "History!A:I", nil), "empty batches are skipped")
	assert.Empty(t, api.recorded())

	rows := [][]interface{}{{"b1", "Spring Pekins", 12}}
	require.NoError(t, repo.AppendRows(ctx, "History!A:I", rows))
	calls := api.recorded()
	require.Len(t, calls, 1)
	assert.True(t, strings.HasSuffix(calls[0].path, ":append"))
	assert.Equal(t, []any{[]any{"b1", "Spring Pekins", float64(12)}}, calls[0].body["values"])

	assert.Error(t, repo.AppendRows(ctx, "", rows))
}

func TestReadRange(t *testing.T) {
	api := &fakeSheetsAPI{values: [][]any{{"Batch ID"}, {"b1"}}}
	repo := newTestRepository(t, api)

	got, err := repo.ReadRange(context.Background(), "History!A:A")
	require.NoError(t, err)
	assert.Equal(t, [][]interface{}{{"Batch ID"}, {"b1"}}, got)

	_, err = repo.ReadRange(context.Background(), "")
	assert.Error(t, err)
}
