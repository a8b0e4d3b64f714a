package importer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/model"
	"github.com/FACorreiaa/parts-catalog-recon/pkg/metrics"
)

// fakeAPI is an in-memory parts API.
type fakeAPI struct {
	mu       sync.Mutex
	created  []Payload
	calls    map[string]int
	reject   map[string]int // master part no -> status returned on every call
	flaky    map[string]int // master part no -> number of 503s before success
	listCode int
	onCreate func()
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		calls:    map[string]int{},
		reject:   map[string]int{},
		flaky:    map[string]int{},
		listCode: http.StatusOK,
	}
}

func (f *fakeAPI) router() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/parts", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(f.listCode)
		_, _ = w.Write([]byte(`{"items":[]}`))
	})
	r.Post("/api/parts", func(w http.ResponseWriter, r *http.Request) {
		var p Payload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if f.onCreate != nil {
			f.onCreate()
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		f.calls[p.MasterPartNo]++

		if code, ok := f.reject[p.MasterPartNo]; ok {
			http.Error(w, "rejected "+p.MasterPartNo, code)
			return
		}
		if f.calls[p.MasterPartNo] <= f.flaky[p.MasterPartNo] {
			http.Error(w, "try later", http.StatusServiceUnavailable)
			return
		}
		f.created = append(f.created, p)
		w.WriteHeader(http.StatusCreated)
	})
	return r
}

func testConfig(baseURL string) Config {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL + "/api"
	cfg.BatchSize = 2
	cfg.BatchPause = time.Millisecond
	cfg.InitialBackoff = time.Millisecond
	cfg.MaxBackoff = 5 * time.Millisecond
	cfg.MaxAttempts = 3
	return cfg
}

func records(ids ...string) []model.Record {
	out := make([]model.Record, len(ids))
	for i, id := range ids {
		out[i] = model.Record{MasterPartNo: id, Origin: "PRC", Cost: "10.50"}
	}
	return out
}

func TestClient_Import(t *testing.T) {
	api := newFakeAPI()
	srv := httptest.NewServer(api.router())
	defer srv.Close()

	m := metrics.New()
	client := NewClient(testConfig(srv.URL), nil).WithMetrics(m)

	res, err := client.Import(context.Background(), records("1001", "1002", "1003", "1004", "1005"))
	require.NoError(t, err)

	assert.Equal(t, 5, res.Total)
	assert.Equal(t, 5, res.Succeeded)
	assert.Zero(t, res.Failed)
	assert.Empty(t, res.Errors)
	require.Len(t, api.created, 5)
	assert.Equal(t, "1001", api.created[0].MasterPartNo)
	assert.Equal(t, "china", api.created[0].Origin)
	expected := `
# HELP partsrecon_import_records_total Bulk import outcomes per record.
# TYPE partsrecon_import_records_total counter
partsrecon_import_records_total{outcome="created"} 5
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "partsrecon_import_records_total"))
}

func TestClient_Import_RejectionDoesNotStopLoop(t *testing.T) {
	api := newFakeAPI()
	api.reject["1002"] = http.StatusUnprocessableEntity
	srv := httptest.NewServer(api.router())
	defer srv.Close()

	res, err := NewClient(testConfig(srv.URL), nil).Import(context.Background(), records("1001", "1002", "1003"))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 1, res.Errors[0].Index)
	assert.Equal(t, "1002", res.Errors[0].Identifier)
	assert.Equal(t, http.StatusUnprocessableEntity, res.Errors[0].StatusCode)
	assert.Contains(t, res.Errors[0].Message, "rejected 1002")
	assert.Equal(t, 1, api.calls["1002"], "4xx responses are not retried")
}

func TestClient_Import_RetriesTransientFailures(t *testing.T) {
	api := newFakeAPI()
	api.flaky["1001"] = 2
	api.reject["1002"] = http.StatusBadGateway
	srv := httptest.NewServer(api.router())
	defer srv.Close()

	m := metrics.New()
	res, err := NewClient(testConfig(srv.URL), nil).WithMetrics(m).Import(context.Background(), records("1001", "1002"))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 3, api.calls["1001"])
	assert.Equal(t, 3, api.calls["1002"], "attempts are bounded")
	assert.Equal(t, 4, res.Retries)
	expected := `
# HELP partsrecon_import_retries_total Create calls retried after a transient failure.
# TYPE partsrecon_import_retries_total counter
partsrecon_import_retries_total 4
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "partsrecon_import_retries_total"))
}

func TestClient_Import_BackendUnavailable(t *testing.T) {
	api := newFakeAPI()
	api.listCode = http.StatusInternalServerError
	srv := httptest.NewServer(api.router())
	defer srv.Close()

	res, err := NewClient(testConfig(srv.URL), nil).Import(context.Background(), records("1001", "1002"))
	require.ErrorIs(t, err, ErrBackendUnavailable)

	assert.Equal(t, 2, res.Failed)
	assert.Zero(t, res.Succeeded)
	assert.Empty(t, api.calls, "nothing is sent when the check fails")
}

func TestClient_Import_Cancelled(t *testing.T) {
	api := newFakeAPI()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var n atomic.Int32
	api.onCreate = func() {
		if n.Add(1) == 2 {
			cancel()
		}
	}
	srv := httptest.NewServer(api.router())
	defer srv.Close()

	res, err := NewClient(testConfig(srv.URL), nil).Import(ctx, records("1001", "1002", "1003", "1004"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 4, res.Succeeded+res.Failed+res.Skipped)
	assert.GreaterOrEqual(t, res.Skipped, 2)
}

func TestClient_CheckAvailable_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	err := NewClient(testConfig(srv.URL), nil).CheckAvailable(context.Background())
	require.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestRecordError_Error(t *testing.T) {
	e := RecordError{Index: 3, Identifier: "X123", StatusCode: 409, Message: "duplicate"}
	assert.True(t, strings.Contains(e.Error(), "status 409"))
	assert.Equal(t, "record 1 (A): timeout", RecordError{Index: 1, Identifier: "A", Message: "timeout"}.Error())
}
