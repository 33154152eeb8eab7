// Package server exposes the calculator over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/property-forecast/internal/config"
	"github.com/iwvelando/property-forecast/internal/estimate"
	"github.com/iwvelando/property-forecast/internal/forecast"
	"github.com/iwvelando/property-forecast/internal/optimizer"
	"github.com/iwvelando/property-forecast/internal/report"
	"github.com/iwvelando/property-forecast/internal/store"
	"github.com/iwvelando/property-forecast/pkg/constants"
	"github.com/iwvelando/property-forecast/pkg/jsonutil"
	"github.com/iwvelando/property-forecast/pkg/output"
	"go.uber.org/zap"
)

// Options wire the handler's collaborators. Store and Estimator are
// optional; Base supplies the common section used when a saved scenario is
// recalculated.
type Options struct {
	MaxBodySize int64
	Version     string
	Store       *store.FileStore
	Estimator   estimate.Estimator
	Base        *config.Configuration
}

type handler struct {
	logger      *zap.Logger
	maxBodySize int64
	version     string
	store       *store.FileStore
	estimator   estimate.Estimator
	base        config.Configuration
	now         func() time.Time
}

// NewHandler constructs the HTTP handler that serves the calculation API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		maxBodySize: opts.MaxBodySize,
		version:     trimmedVersion,
		store:       opts.Store,
		estimator:   opts.Estimator,
		now:         time.Now,
	}
	if opts.Base != nil {
		h.base = *opts.Base
	}

	mux := http.NewServeMux()

	// Calculation from a posted configuration
	mux.HandleFunc("POST /api/calculate", h.handleCalculate)
	mux.HandleFunc("POST /api/report", h.handleReport)

	// Saved scenarios
	mux.HandleFunc("GET /api/scenarios", h.handleListScenarios)
	mux.HandleFunc("POST /api/scenarios", h.handleSaveScenario)
	mux.HandleFunc("GET /api/scenarios/{id}", h.handleGetScenario)
	mux.HandleFunc("DELETE /api/scenarios/{id}", h.handleDeleteScenario)
	mux.HandleFunc("POST /api/scenarios/{id}/calculate", h.handleCalculateSaved)

	mux.HandleFunc("GET /api/version", h.handleVersion)

	return mux
}

type calculateResponse struct {
	Scenarios []forecast.Forecast `json:"scenarios"`
	Warnings  []string            `json:"warnings,omitempty"`
	Duration  string              `json:"duration"`
}

type saveRequest struct {
	Name     string          `json:"name"`
	Scenario config.Scenario `json:"scenario"`
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"
	start := h.now()

	conf, ok := h.readConfiguration(w, r, op)
	if !ok {
		return
	}
	results, ok := h.run(w, r, conf, op)
	if !ok {
		return
	}

	if r.URL.Query().Get("format") == constants.OutputFormatCSV {
		var buf bytes.Buffer
		if err := output.CsvFormat(&buf, results); err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render csv: %v", err), op)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
		return
	}

	h.logger.Info("forecast computed",
		zap.String("op", op),
		zap.Int("scenarios", len(results)),
		zap.Duration("duration", h.now().Sub(start)),
	)
	h.writeJSON(w, http.StatusOK, calculateResponse{
		Scenarios: results,
		Warnings:  conf.ValidateConfiguration(),
		Duration:  h.now().Sub(start).String(),
	})
}

func (h *handler) handleReport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReport"

	conf, ok := h.readConfiguration(w, r, op)
	if !ok {
		return
	}
	results, ok := h.run(w, r, conf, op)
	if !ok {
		return
	}

	pdf, err := report.GeneratePDF(results, h.now())
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="property-forecast.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *handler) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleListScenarios"
	if !h.requireStore(w, op) {
		return
	}
	records, err := h.store.List()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	if records == nil {
		records = []store.Record{}
	}
	h.writeJSON(w, http.StatusOK, records)
}

func (h *handler) handleSaveScenario(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSaveScenario"
	if !h.requireStore(w, op) {
		return
	}

	var req saveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodySize))
	if err := dec.Decode(&req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode scenario: %v", err), op)
		return
	}

	rec, err := h.store.Save(r.Context(), req.Name, req.Scenario)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	h.logger.Info("scenario saved",
		zap.String("op", op),
		zap.String("id", rec.ID),
		zap.String("name", rec.Name),
	)
	h.writeJSON(w, http.StatusCreated, rec)
}

func (h *handler) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetScenario"
	if !h.requireStore(w, op) {
		return
	}
	rec, err := h.store.Get(r.PathValue("id"))
	if err != nil {
		h.respondStoreError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

func (h *handler) handleDeleteScenario(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeleteScenario"
	if !h.requireStore(w, op) {
		return
	}
	if err := h.store.Delete(r.PathValue("id")); err != nil {
		h.respondStoreError(w, err, op)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleCalculateSaved(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculateSaved"
	if !h.requireStore(w, op) {
		return
	}
	rec, err := h.store.Get(r.PathValue("id"))
	if err != nil {
		h.respondStoreError(w, err, op)
		return
	}

	conf := h.base
	scenario := rec.Scenario
	scenario.Active = true
	if scenario.Name == "" {
		scenario.Name = rec.Name
	}
	conf.Scenarios = []config.Scenario{scenario}

	results, ok := h.run(w, r, &conf, op)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, calculateResponse{Scenarios: results})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// readConfiguration decodes a YAML or JSON configuration body.
func (h *handler) readConfiguration(w http.ResponseWriter, r *http.Request, op string) (*config.Configuration, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodySize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("configuration exceeds %d bytes", h.maxBodySize), op)
			return nil, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to read configuration: %v", err), op)
		return nil, false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing configuration", op)
		return nil, false
	}

	configType := "yaml"
	if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && mediaType == "application/json" {
		configType = "json"
	}

	conf, err := config.LoadConfigurationFromReader(bytes.NewReader(body), configType)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err), op)
		return nil, false
	}
	if err := conf.Validate(); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return nil, false
	}
	return conf, true
}

// run calculates every active scenario and attaches capacity summaries.
func (h *handler) run(w http.ResponseWriter, r *http.Request, conf *config.Configuration, op string) ([]forecast.Forecast, bool) {
	results, err := forecast.Compare(r.Context(), h.logger, *conf, h.estimator, constants.DefaultCompareConcurrency)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to compute forecast: %v", err), op)
		return nil, false
	}
	summaries, err := optimizer.Run(h.logger, conf)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("capacity search failed: %v", err), op)
		return nil, false
	}
	optimizer.Apply(summaries, results)
	if results == nil {
		results = []forecast.Forecast{}
	}
	return results, true
}

func (h *handler) requireStore(w http.ResponseWriter, op string) bool {
	if h.store != nil {
		return true
	}
	h.respondErrorWithOp(w, http.StatusServiceUnavailable, "scenario store is not configured", op)
	return false
}

func (h *handler) respondStoreError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, store.ErrNotFound) {
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), op)
		return
	}
	h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeJSON encodes before writing the header so an encoding failure still
// reaches the client as a 500.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	body, err := jsonutil.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"failed to encode response"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		h.logger.Warn("failed to write JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}
