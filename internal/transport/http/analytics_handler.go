// Package http exposes the analytics engine over a JSON HTTP API.
package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "salespulse/internal/errors"
	"salespulse/internal/services"
	"salespulse/pkg/contracts/domain"
)

// AnalyticsHandler serves the upload and analytics routes.
type AnalyticsHandler struct {
	service        *services.AnalysisService
	logger         *slog.Logger
	errorHandler   *apierrors.Handler
	validate       *validator.Validate
	maxUploadBytes int64
}

// NewAnalyticsHandler creates the handler.
func NewAnalyticsHandler(service *services.AnalysisService, logger *slog.Logger, maxUploadBytes int64) *AnalyticsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsHandler{
		service:        service,
		logger:         logger.With(slog.String("component", "analytics_handler")),
		errorHandler:   apierrors.NewHandler(logger),
		validate:       validator.New(),
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the analytics routes.
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/sales/batch", h.LoadBatch)
	r.Route("/analytics", func(r chi.Router) {
		r.Get("/branches", h.GetBranchComparison)
		r.Get("/products", h.GetProductComparison)
		r.Get("/time", h.GetSalesByTime)
		r.Get("/cogs", h.GetCogs)
		r.Get("/summary", h.GetSummary)
		r.Get("/insights", h.GetInsights)
		r.Get("/digest", h.GetDigest)
	})
	return r
}

// tableResponse wraps every analytics payload. HasData is false when no
// dataset is loaded; the payload is then the view's empty value, so
// presentation code never has to special-case the absent dataset.
type tableResponse struct {
	HasData bool        `json:"has_data"`
	Data    interface{} `json:"data"`
}

// batchResponse reports the outcome of one upload batch.
type batchResponse struct {
	BatchID      string                     `json:"batch_id"`
	Branches     []string                   `json:"branches"`
	TotalRecords int                        `json:"total_records"`
	MinDate      string                     `json:"min_date"`
	MaxDate      string                     `json:"max_date"`
	Files        map[string]domain.FileInfo `json:"files"`
}

// topNQuery validates the optional top_n parameter; 0 means all products.
type topNQuery struct {
	TopN int `validate:"gte=0,lte=1000"`
}

// LoadBatch handles POST /sales/batch: a multipart upload of one complete
// batch of branch spreadsheets.
func (h *AnalyticsHandler) LoadBatch(w http.ResponseWriter, r *http.Request) {
	reqID := chimiddleware.GetReqID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.errorHandler.Handle(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		h.errorHandler.Handle(w, r, apierrors.ErrValidation("files", "at least one spreadsheet is required"))
		return
	}

	files := make([]domain.SourceFile, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			h.errorHandler.Handle(w, r, apierrors.InvalidRequestWithError(err))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			h.errorHandler.Handle(w, r, apierrors.InvalidRequestWithError(err))
			return
		}
		files = append(files, domain.SourceFile{Name: header.Filename, Data: data})
	}

	h.logger.InfoContext(r.Context(), "loading batch",
		slog.String("request_id", reqID),
		slog.Int("files", len(files)))

	ds, err := h.service.LoadBranchFiles(r.Context(), files)
	if err != nil {
		if err == services.ErrEmptyDataset {
			h.errorHandler.Handle(w, r, apierrors.ErrEmptyDataset)
			return
		}
		h.errorHandler.Handle(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, batchResponse{
		BatchID:      ds.BatchID.String(),
		Branches:     ds.Branches,
		TotalRecords: ds.TotalRecords,
		MinDate:      ds.MinDate.Format("2006-01-02"),
		MaxDate:      ds.MaxDate.Format("2006-01-02"),
		Files:        ds.Files,
	})
}

// GetBranchComparison handles GET /analytics/branches.
func (h *AnalyticsHandler) GetBranchComparison(w http.ResponseWriter, r *http.Request) {
	rows, ok := h.service.BranchRevenueComparison()
	render.JSON(w, r, tableResponse{HasData: ok, Data: rows})
}

// GetProductComparison handles GET /analytics/products?top_n=N.
func (h *AnalyticsHandler) GetProductComparison(w http.ResponseWriter, r *http.Request) {
	topN, err := h.topN(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	rows, ok := h.service.ProductComparisonByBranch(topN)
	render.JSON(w, r, tableResponse{HasData: ok, Data: rows})
}

// GetSalesByTime handles GET /analytics/time.
func (h *AnalyticsHandler) GetSalesByTime(w http.ResponseWriter, r *http.Request) {
	buckets, ok := h.service.SalesByTimeAllBranches()
	render.JSON(w, r, tableResponse{HasData: ok, Data: buckets})
}

// GetCogs handles GET /analytics/cogs?top_n=N.
func (h *AnalyticsHandler) GetCogs(w http.ResponseWriter, r *http.Request) {
	topN, err := h.topN(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	rows, ok := h.service.CogsPerProductPerBranch(topN)
	render.JSON(w, r, tableResponse{HasData: ok, Data: rows})
}

// GetSummary handles GET /analytics/summary.
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	stats, ok := h.service.BranchSummaryStats()
	render.JSON(w, r, tableResponse{HasData: ok, Data: stats})
}

// GetInsights handles GET /analytics/insights.
func (h *AnalyticsHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	insights, ok := h.service.CrossBranchInsights()
	render.JSON(w, r, tableResponse{HasData: ok, Data: insights})
}

// GetDigest handles GET /analytics/digest. The digest is the only payload
// exposed to the conversational assistant.
func (h *AnalyticsHandler) GetDigest(w http.ResponseWriter, r *http.Request) {
	digest, ok := h.service.PrepareDigestForAssistant()
	render.JSON(w, r, tableResponse{HasData: ok, Data: digest})
}

// topN parses and validates the optional top_n query parameter. Absence
// maps to 0, meaning all products.
func (h *AnalyticsHandler) topN(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("top_n")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierrors.ErrValidation("top_n", fmt.Sprintf("not an integer: %q", raw))
	}
	if err := h.validate.Struct(topNQuery{TopN: n}); err != nil {
		return 0, apierrors.ErrValidation("top_n", "must be between 0 and 1000")
	}
	return n, nil
}
