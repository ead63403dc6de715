// Package server serves the mortgage calculator web UI and its JSON API.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iwvelando/mortgage-visualizer/internal/calculator"
	"github.com/iwvelando/mortgage-visualizer/internal/chart"
	"github.com/iwvelando/mortgage-visualizer/internal/config"
	"github.com/iwvelando/mortgage-visualizer/pkg/constants"
	"github.com/iwvelando/mortgage-visualizer/pkg/datetime"
	"github.com/iwvelando/mortgage-visualizer/pkg/mortgage"
	"github.com/iwvelando/mortgage-visualizer/pkg/output"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

// Options configures NewHandler. Zero values get working defaults.
type Options struct {
	Logger        *zap.Logger
	Calculator    *calculator.Calculator
	Metrics       *Metrics
	MaxUploadSize int64
	Version       string
}

type handler struct {
	logger        *zap.Logger
	calculator    *calculator.Calculator
	maxUploadSize int64
	version       string
	now           func() time.Time
}

// NewHandler constructs the HTTP handler that serves the web UI and schedule API.
func NewHandler(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}
	calc := opts.Calculator
	if calc == nil {
		calc = calculator.New(nil, metrics, logger)
	}
	maxUploadSize := opts.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}
	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}

	h := &handler{
		logger:        logger,
		calculator:    calc,
		maxUploadSize: maxUploadSize,
		version:       version,
		now:           time.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger, metrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	r.Get("/healthz", h.handleHealthz)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		// Schedule computation from editor parameters
		r.Post("/schedule", h.handleSchedule)

		// Schedule computation from an uploaded configuration file
		r.Post("/schedule/upload", h.handleScheduleUpload)

		// Config serialization endpoint for editor downloads
		r.Post("/editor/export", h.handleConfigExport)

		// Version endpoint for UI metadata
		r.Get("/version", h.handleVersion)
	})

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	r.Handle("/*", http.FileServer(http.FS(sub)))

	return r
}

// Serve runs the HTTP server until ctx is cancelled and then shuts it down
// gracefully.
func Serve(ctx context.Context, address string, handler http.Handler, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &http.Server{
		Addr:              address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("op", "server.Serve"),
			zap.String("address", address),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("server shutting down", zap.String("op", "server.Serve"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced shutdown: %w", err)
	}
	logger.Info("server stopped", zap.String("op", "server.Serve"))
	return nil
}

type scheduleRequest struct {
	Mortgage mortgage.Parameters `json:"mortgage"`
	Existing mortgage.Schedule   `json:"existing,omitempty"`
}

type scheduleResponse struct {
	ID       string              `json:"id"`
	Mortgage mortgage.Parameters `json:"mortgage"`
	Schedule mortgage.Schedule   `json:"schedule"`
	Series   chart.Series        `json:"series"`
	Datasets []chart.Dataset     `json:"datasets"`
	Summary  summaryResponse     `json:"summary"`
	CSV      string              `json:"csv"`
	Warnings []string            `json:"warnings,omitempty"`
	Cached   bool                `json:"cached"`
	Duration string              `json:"duration"`
}

type summaryResponse struct {
	Payments        int     `json:"payments"`
	PeriodicPayment float64 `json:"periodicPayment"`
	TotalInterest   float64 `json:"totalInterest"`
	TotalPrincipal  float64 `json:"totalPrincipal"`
	TotalPaid       float64 `json:"totalPaid"`
	PayoffDate      string  `json:"payoffDate,omitempty"`
	PaidOff         bool    `json:"paidOff"`
}

type exportRequest struct {
	Mortgage mortgage.Parameters  `json:"mortgage"`
	Logging  config.LoggingConfig `json:"logging"`
	Output   config.OutputConfig  `json:"output"`
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	params := h.withDefaults(req.Mortgage)
	h.compute(w, r, calculator.Request{Parameters: params, Existing: req.Existing}, nil, op)
}

func (h *handler) handleScheduleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleScheduleUpload"
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	cfg, err := config.LoadConfigurationFromReader(file)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	now := h.now()
	params, err := cfg.Mortgage.ParametersWithFixedTime(now)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	h.compute(w, r, calculator.Request{Parameters: params}, cfg.ValidateConfigurationWithFixedTime(now), op)
}

func (h *handler) compute(w http.ResponseWriter, r *http.Request, req calculator.Request, warnings []string, op string) {
	result, err := h.calculator.Compute(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, mortgage.ErrInvalidParameters):
			status = http.StatusBadRequest
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			status = http.StatusServiceUnavailable
		}
		h.respondError(w, status, err.Error(), op)
		return
	}

	response := scheduleResponse{
		ID:       result.ID,
		Mortgage: req.Parameters,
		Schedule: result.Schedule,
		Series:   result.Series,
		Datasets: result.Series.Datasets(),
		Summary:  toSummaryResponse(result.Summary),
		CSV:      output.CsvString(result.Schedule),
		Warnings: mergeWarnings(warnings, result.Warnings),
		Cached:   result.Cached,
		Duration: result.Duration.String(),
	}

	h.logger.Info("schedule computed",
		zap.String("op", op),
		zap.String("id", result.ID),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Int("records", len(result.Schedule)),
		zap.Bool("cached", result.Cached),
		zap.Duration("duration", result.Duration),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), op)
		return
	}

	yamlBytes, err := config.Export(config.Configuration{
		Mortgage: config.FromParameters(h.withDefaults(req.Mortgage)),
		Logging:  req.Logging,
		Output:   req.Output,
	})
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// withDefaults fills the fields a partially completed form leaves empty.
func (h *handler) withDefaults(params mortgage.Parameters) mortgage.Parameters {
	if params.Frequency == "" {
		params.Frequency = mortgage.Frequency(constants.DefaultFrequency)
	}
	if params.StartDate.IsZero() {
		params.StartDate = datetime.Truncate(h.now())
	}
	return params
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	log := h.logger.Warn
	if status >= http.StatusInternalServerError {
		log = h.logger.Error
	}
	log("schedule request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func toSummaryResponse(summary mortgage.Summary) summaryResponse {
	resp := summaryResponse{
		Payments:        summary.Payments,
		PeriodicPayment: summary.PeriodicPayment,
		TotalInterest:   summary.TotalInterest,
		TotalPrincipal:  summary.TotalPrincipal,
		TotalPaid:       summary.TotalPaid,
		PaidOff:         summary.PaidOff,
	}
	if summary.PaidOff {
		resp.PayoffDate = datetime.Format(summary.PayoffDate)
	}
	return resp
}

func mergeWarnings(lists ...[]string) []string {
	var merged []string
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, warning := range list {
			if _, ok := seen[warning]; ok {
				continue
			}
			seen[warning] = struct{}{}
			merged = append(merged, warning)
		}
	}
	return merged
}
