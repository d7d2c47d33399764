package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/recprobe/pkg/archive"
	"github.com/ssargent/recprobe/pkg/codec"
	"github.com/ssargent/recprobe/pkg/engine"
	"github.com/ssargent/recprobe/pkg/logging"
	"github.com/ssargent/recprobe/pkg/probe"
	"github.com/ssargent/recprobe/pkg/registry"
	"github.com/ssargent/recprobe/pkg/report"
	"github.com/ssargent/recprobe/pkg/summary"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// setupTestServer creates a server with a real archive in a temp directory
func setupTestServer(t *testing.T, config ServerConfig) (*Server, *archive.Archive) {
	t.Helper()

	arch, err := archive.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { arch.Close() })

	metrics := NewMetrics()
	runner := probe.NewRunner(probe.NewCatalog("nav-v1", logging.Discard()), probe.Options{
		Budget:   100,
		Workers:  2,
		Summary:  summary.DefaultOptions(),
		Archive:  arch,
		Observer: metrics,
		Logger:   logging.Discard(),
	})
	return NewServer(runner, arch, config, metrics, logging.Discard()), arch
}

func navBody(t *testing.T, timestamps ...uint64) []byte {
	t.Helper()
	desc, err := registry.ParseFormat("A_Qiii", "<Qiii", nil)
	require.NoError(t, err)
	rc := codec.NewRecordCodec(desc)
	var buf []byte
	for _, ts := range timestamps {
		buf, err = rc.AppendEncode(buf, codec.Uint(ts), codec.Int(1), codec.Int(2), codec.Int(3))
		require.NoError(t, err)
	}
	return buf
}

func do(t *testing.T, h http.Handler, method, target string, body []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/octet-stream")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestServer_handleHealth(t *testing.T) {
	server, _ := setupTestServer(t, ServerConfig{})

	w, env := do(t, server.Router(), "GET", "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"status":"healthy"}`, string(env.Data))
}

func TestServer_handleCandidates(t *testing.T) {
	server, _ := setupTestServer(t, ServerConfig{})
	h := server.Router()

	w, env := do(t, h, "GET", "/api/v1/candidates", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view CandidateSetView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "nav-v1", view.Set)
	assert.Contains(t, view.Sets, "nav-v2")
	require.Len(t, view.Candidates, 5)
	assert.Equal(t, "A_Qiii", view.Candidates[0].Name)
	assert.Equal(t, "<Qiii", view.Candidates[0].Layout)
	assert.Equal(t, 20, view.Candidates[0].Size)
	assert.Equal(t, codec.KindUnsigned, view.Candidates[0].Fields[0].Kind)

	w, env = do(t, h, "GET", "/api/v1/candidates?set=nav-v2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Len(t, view.Candidates, 10)

	w, env = do(t, h, "GET", "/api/v1/candidates?set=missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "unknown candidate set")
}

func TestServer_handleEvaluate(t *testing.T) {
	server, arch := setupTestServer(t, ServerConfig{})
	h := server.Router()

	w, env := do(t, h, "POST", "/api/v1/evaluate?budget=2&name=nav.fmnav", navBody(t, 100, 150, 300))
	require.Equal(t, http.StatusOK, w.Code, env.Error)

	var rep report.Report
	require.NoError(t, json.Unmarshal(env.Data, &rep))
	assert.NotEmpty(t, rep.ID)
	assert.Equal(t, "nav.fmnav", rep.Source.Name)
	assert.Equal(t, 60, rep.Source.Length)
	assert.Equal(t, 2, rep.Budget)
	require.Len(t, rep.Candidates, 5)
	a := rep.Candidates[0]
	assert.Equal(t, "A_Qiii", a.Candidate)
	assert.Equal(t, engine.ReachedBudget, a.Termination)
	assert.Equal(t, 2, a.Records)
	require.NotNil(t, a.Summary)
	assert.Equal(t, summary.Number(50), a.Summary.Deltas.Sample[0])

	stored, err := arch.Get(rep.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Candidates, 5)
}

func TestServer_handleEvaluate_Range(t *testing.T) {
	server, _ := setupTestServer(t, ServerConfig{})
	h := server.Router()

	body := append([]byte("HDR!"), navBody(t, 100, 150, 300)...)
	w, env := do(t, h, "POST", "/api/v1/evaluate?offset=4&length=40&candidates=A_Qiii", body)
	require.Equal(t, http.StatusOK, w.Code, env.Error)

	var rep report.Report
	require.NoError(t, json.Unmarshal(env.Data, &rep))
	require.Len(t, rep.Candidates, 1)
	assert.Equal(t, int64(4), rep.Source.Offset)
	assert.Equal(t, 40, rep.Source.Length)
	assert.Equal(t, engine.EndOfBuffer, rep.Candidates[0].Termination)
	assert.Equal(t, "timestamp=100 x_i32=1 y_i32=2 z_i32=3", rep.Candidates[0].Sample)
}

func TestServer_handleEvaluate_Errors(t *testing.T) {
	server, _ := setupTestServer(t, ServerConfig{MaxBodyBytes: 32})
	h := server.Router()

	testCases := []struct {
		name   string
		target string
		body   []byte
		status int
	}{
		{"bad budget", "/api/v1/evaluate?budget=lots", nil, http.StatusBadRequest},
		{"negative offset", "/api/v1/evaluate?offset=-4", nil, http.StatusBadRequest},
		{"offset past end", "/api/v1/evaluate?offset=100", []byte{1, 2, 3}, http.StatusBadRequest},
		{"unknown set", "/api/v1/evaluate?set=nav-v9", []byte{1}, http.StatusNotFound},
		{"unknown candidate", "/api/v1/evaluate?candidates=Z", []byte{1}, http.StatusNotFound},
		{"body too large", "/api/v1/evaluate", make([]byte, 64), http.StatusRequestEntityTooLarge},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, env := do(t, h, "POST", tc.target, tc.body)
			assert.Equal(t, tc.status, w.Code)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Error)
		})
	}
}

func TestServer_Runs(t *testing.T) {
	server, _ := setupTestServer(t, ServerConfig{})
	h := server.Router()

	_, env := do(t, h, "POST", "/api/v1/evaluate", navBody(t, 1, 2))
	var rep report.Report
	require.NoError(t, json.Unmarshal(env.Data, &rep))

	w, env := do(t, h, "GET", "/api/v1/runs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []archive.Entry
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, rep.ID, entries[0].ID)

	w, env = do(t, h, "GET", "/api/v1/runs/"+rep.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got report.Report
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, rep.ID, got.ID)

	w, _ = do(t, h, "DELETE", "/api/v1/runs/"+rep.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, h, "GET", "/api/v1/runs/"+rep.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_RunsDisabled(t *testing.T) {
	runner := probe.NewRunner(probe.NewCatalog("", logging.Discard()), probe.Options{Budget: 10, Logger: logging.Discard()})
	server := NewServer(runner, nil, ServerConfig{}, nil, logging.Discard())

	w, env := do(t, server.Router(), "GET", "/api/v1/runs", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, env.Error, "disabled")
}
