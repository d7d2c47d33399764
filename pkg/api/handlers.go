package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/ssargent/recprobe/pkg/archive"
	"github.com/ssargent/recprobe/pkg/payload"
	"github.com/ssargent/recprobe/pkg/probe"
	"github.com/ssargent/recprobe/pkg/registry"
	"github.com/ssargent/recprobe/pkg/report"
)

// Server holds the API server state
type Server struct {
	runner  *probe.Runner
	runs    RunStore
	config  ServerConfig
	metrics *Metrics
	logger  logrus.FieldLogger
}

// NewServer creates a new API server. runs may be nil when the archive is
// disabled; the runs endpoints then answer 404.
func NewServer(runner *probe.Runner, runs RunStore, config ServerConfig, metrics *Metrics, logger logrus.FieldLogger) *Server {
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = 64 << 20
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{
		runner:  runner,
		runs:    runs,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	catalog := s.runner.Catalog()
	set := r.URL.Query().Get("set")
	if set == "" {
		set = catalog.DefaultSet()
	}

	reg, err := catalog.Registry(set)
	if err != nil {
		sendError(w, err.Error(), statusFor(err))
		return
	}

	view := CandidateSetView{Set: set, Sets: catalog.Sets()}
	for _, e := range reg.Entries() {
		if !e.OK() {
			view.Candidates = append(view.Candidates, CandidateView{Name: e.Name, Error: e.Err.Error()})
			continue
		}
		d := e.Descriptor
		view.Candidates = append(view.Candidates, CandidateView{
			Name:      d.Name(),
			Layout:    d.Layout(),
			Size:      d.Size(),
			ByteOrder: d.Order(),
			Fields:    d.Fields(),
		})
	}
	sendSuccess(w, view)
}

// handleEvaluate decodes the request body against a candidate set and
// returns the run report
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	budget, err := intParam(q.Get("budget"))
	if err != nil {
		sendError(w, "Invalid budget: "+err.Error(), http.StatusBadRequest)
		return
	}
	offset, err := intParam(q.Get("offset"))
	if err != nil {
		sendError(w, "Invalid offset: "+err.Error(), http.StatusBadRequest)
		return
	}
	length, err := intParam(q.Get("length"))
	if err != nil {
		sendError(w, "Invalid length: "+err.Error(), http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sendError(w, fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	rng := payload.Range{Offset: int64(offset), Length: length}
	buf, err := payload.Slice(body, rng)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var candidates []string
	if c := q.Get("candidates"); c != "" {
		candidates = strings.Split(c, ",")
	}

	name := q.Get("name")
	if name == "" {
		name = "request"
	}

	run, err := s.runner.Run(r.Context(), probe.Request{
		Source:     report.Source{Name: name, Offset: rng.Offset},
		Buffer:     buf,
		Set:        q.Get("set"),
		Candidates: candidates,
		Budget:     budget,
	})
	if err != nil && run == nil {
		sendError(w, err.Error(), statusFor(err))
		return
	}
	if err != nil {
		s.logger.WithError(err).Warn("run completed with errors")
	}
	sendSuccess(w, run.Report)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		sendError(w, "Run archive is disabled", http.StatusNotFound)
		return
	}
	entries, err := s.runs.List()
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to list runs: %v", err), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []archive.Entry{}
	}
	sendSuccess(w, entries)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		sendError(w, "Run archive is disabled", http.StatusNotFound)
		return
	}
	rep, err := s.runs.Get(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, err.Error(), statusFor(err))
		return
	}
	sendSuccess(w, rep)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		sendError(w, "Run archive is disabled", http.StatusNotFound)
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.runs.Delete(id); err != nil {
		sendError(w, err.Error(), statusFor(err))
		return
	}
	sendSuccess(w, map[string]string{"deleted": id})
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return n, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, registry.ErrUnknownSet),
		errors.Is(err, registry.ErrUnknownCandidate),
		errors.Is(err, archive.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
