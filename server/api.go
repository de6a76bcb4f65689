package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lexcodex/bonebudget/framework"
	"github.com/lexcodex/bonebudget/persistence"
)

// maxSceneBytes bounds the size of an uploaded scene document.
const maxSceneBytes = 8 << 20

// APIServer exposes estimation over HTTP.
type APIServer struct {
	Estimator  *framework.Estimator
	Thresholds *framework.ThresholdSet
	// Store is optional; when set every estimate is saved as a report.
	Store ReportStore
	// DefaultPlatform is used when a request names no platform.
	DefaultPlatform string
	Logger          *log.Logger
}

// ReportStore is the subset of persistence.ReportStore the API needs.
type ReportStore interface {
	Save(ctx context.Context, report *persistence.Report) error
	Load(ctx context.Context, id string) (*persistence.Report, error)
	List(ctx context.Context) ([]persistence.Report, error)
}

// EstimateResponse describes the /api/estimate payload.
type EstimateResponse struct {
	Report *persistence.Report     `json:"report,omitempty"`
	Chains []framework.ChainReport `json:"chains,omitempty"`
	Error  string                  `json:"error,omitempty"`
}

// Serve starts listening on the provided address.
func (s *APIServer) Serve(addr string) error {
	return s.ServeContext(context.Background(), addr)
}

// ServeContext allows the caller to control shutdown via context cancellation.
func (s *APIServer) ServeContext(ctx context.Context, addr string) error {
	server := s.newHTTPServer(addr)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	s.logger().Info("API listening", "addr", addr)
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *APIServer) newHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Handler returns the routed API without binding a listener.
func (s *APIServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/estimate", s.handleEstimate)
	mux.HandleFunc("GET /api/thresholds", s.handleThresholds)
	mux.HandleFunc("GET /api/reports", s.handleReports)
	mux.HandleFunc("GET /api/reports/{id}", s.handleReport)
	return mux
}

func (s *APIServer) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.Default()
}

func (s *APIServer) handleEstimate(w http.ResponseWriter, r *http.Request) {
	platform := r.URL.Query().Get("platform")
	if platform == "" {
		platform = s.DefaultPlatform
	}
	table, err := s.Thresholds.Get(platform)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var doc persistence.SceneDocument
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSceneBytes))
	if err := dec.Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := doc.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if doc.Name == "" {
		doc.Name = "upload"
	}
	req, err := doc.Build()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	est, err := s.Estimator.Estimate(req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	report := persistence.NewReport(doc.Name, table, est)
	if s.Store != nil {
		if err := s.Store.Save(r.Context(), report); err != nil {
			s.logger().Error("save report", "scene", doc.Name, "err", err)
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}
	s.logger().Info("estimated", "scene", doc.Name, "platform", table.Platform, "overall", report.Overall)
	writeJSON(w, http.StatusOK, EstimateResponse{Report: report, Chains: est.Chains})
}

func (s *APIServer) handleThresholds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Thresholds.Tables())
}

func (s *APIServer) handleReports(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeJSON(w, http.StatusOK, []persistence.Report{})
		return
	}
	reports, err := s.Store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if reports == nil {
		reports = []persistence.Report{}
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *APIServer) handleReport(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeError(w, http.StatusNotFound, persistence.ErrReportNotFound)
		return
	}
	report, err := s.Store.Load(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, persistence.ErrReportNotFound):
		writeError(w, http.StatusNotFound, err)
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
	default:
		writeJSON(w, http.StatusOK, report)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, EstimateResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
