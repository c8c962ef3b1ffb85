// Package server exposes the design catalog and loan quotations over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/iwvelando/design-loan-quote/internal/catalog"
	"github.com/iwvelando/design-loan-quote/internal/quote"
	"github.com/iwvelando/design-loan-quote/pkg/amortization"
	"github.com/iwvelando/design-loan-quote/pkg/constants"
	"github.com/iwvelando/design-loan-quote/pkg/datetime"
	"github.com/iwvelando/design-loan-quote/pkg/output"
	"github.com/iwvelando/design-loan-quote/pkg/validation"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// Options configures the HTTP handler.
type Options struct {
	MaxBodySize int64
	// Limiter throttles the public preview and calculator routes. Nil disables it.
	Limiter        *RateLimiter
	CurrencySymbol string
	Version        string
}

type handler struct {
	logger      *zap.Logger
	repo        catalog.Repository
	quotes      *quote.Service
	limiter     *RateLimiter
	maxBodySize int64
	symbol      string
	version     string
}

// designRequest is the writable part of a design.
type designRequest struct {
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	Description      string  `json:"description"`
	Price            float64 `json:"price"`
	MaxLoanTerm      int     `json:"maxLoanTerm"`
	LoanTermType     string  `json:"loanTermType"`
	InterestRate     float64 `json:"interestRate"`
	InterestRateType string  `json:"interestRateType"`
}

type designResponse struct {
	Design   catalog.Design `json:"design"`
	Warnings []string       `json:"warnings,omitempty"`
}

type errorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

// NewHandler constructs the HTTP handler that serves the catalog and quotation API.
func NewHandler(logger *zap.Logger, repo catalog.Repository, quotes *quote.Service, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxBodySize := opts.MaxBodySize
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	if quotes == nil {
		quotes = quote.NewService(repo, quote.NewBuilder(logger), 0)
	}

	h := &handler{
		logger:      logger,
		repo:        repo,
		quotes:      quotes,
		limiter:     opts.Limiter,
		maxBodySize: maxBodySize,
		symbol:      opts.CurrencySymbol,
		version:     trimmedVersion,
	}

	router := httprouter.New()

	router.GET("/api/version", h.handleVersion)

	// Catalog administration
	router.GET("/api/designs", h.handleListDesigns)
	router.POST("/api/designs", h.handleCreateDesign)
	router.GET("/api/designs/:id", h.handleGetDesign)
	router.PUT("/api/designs/:id", h.handleUpdateDesign)
	router.DELETE("/api/designs/:id", h.handleDeleteDesign)

	// Quotation export
	router.GET("/api/designs/:id/quotation", h.handleQuotation)

	// Public, rate limited
	router.GET("/api/designs/:id/preview", h.limit(h.handlePreview))
	router.POST("/api/calculator", h.limit(h.handleCalculator))

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "route not found"})
	})
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: http.StatusText(http.StatusMethodNotAllowed)})
	})

	return router
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleListDesigns(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	designs, err := h.repo.List(r.Context())
	if err != nil {
		h.respondFailure(w, err, "server.handleListDesigns")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string][]catalog.Design{"designs": designs})
}

func (h *handler) handleGetDesign(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	design, err := h.repo.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		h.respondFailure(w, err, "server.handleGetDesign")
		return
	}
	h.writeJSON(w, http.StatusOK, designResponse{Design: design})
}

func (h *handler) handleCreateDesign(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	const op = "server.handleCreateDesign"

	var req designRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	h.saveDesign(w, r, req.design(""), http.StatusCreated, op)
}

func (h *handler) handleUpdateDesign(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	const op = "server.handleUpdateDesign"

	id := ps.ByName("id")
	if _, err := h.repo.Get(r.Context(), id); err != nil {
		h.respondFailure(w, err, op)
		return
	}

	var req designRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	h.saveDesign(w, r, req.design(id), http.StatusOK, op)
}

func (h *handler) saveDesign(w http.ResponseWriter, r *http.Request, design catalog.Design, status int, op string) {
	design = design.Normalized()
	if err := design.Validate(); err != nil {
		h.respondFailure(w, err, op)
		return
	}

	saved, err := h.repo.Save(r.Context(), design)
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}

	warnings := saved.Warnings()
	for _, warning := range warnings {
		h.logger.Warn("saved design with suspicious terms",
			zap.String("op", op),
			zap.String("design", saved.ID),
			zap.String("warning", warning),
		)
	}

	h.writeJSON(w, status, designResponse{Design: saved, Warnings: warnings})
}

func (h *handler) handleDeleteDesign(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.repo.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.respondFailure(w, err, "server.handleDeleteDesign")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handlePreview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	q, err := h.quotes.Preview(r.Context(), ps.ByName("id"))
	if err != nil {
		h.respondFailure(w, err, "server.handlePreview")
		return
	}
	h.writeJSON(w, http.StatusOK, q)
}

func (h *handler) handleQuotation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	const op = "server.handleQuotation"

	query := r.URL.Query()
	outputFormat := strings.TrimSpace(query.Get("format"))
	if outputFormat == "" {
		outputFormat = constants.OutputFormatCSV
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	opts := quote.Options{CustomerName: strings.TrimSpace(query.Get("customer"))}
	if start := query.Get("start"); start != "" {
		month, err := datetime.ParseMonth(start)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
			return
		}
		opts.StartDate = month
	}

	id := ps.ByName("id")
	q, err := h.quotes.Quotation(r.Context(), id, opts)
	if err != nil {
		h.respondFailure(w, err, op)
		return
	}

	var buf bytes.Buffer
	if err := output.Write(&buf, outputFormat, output.Options{CurrencySymbol: h.symbol}, q); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render quotation: %v", err), op)
		return
	}

	contentType, ext := output.ContentType(outputFormat)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("quotation-%s.%s", q.Design.ID, ext)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write quotation",
			zap.String("op", op),
			zap.String("design", id),
			zap.Error(err),
		)
	}
}

func (h *handler) handleCalculator(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	const op = "server.handleCalculator"

	var terms amortization.LoanTerms
	if !h.decodeJSON(w, r, &terms, op) {
		return
	}

	opts := quote.Options{}
	if start := r.URL.Query().Get("start"); start != "" {
		month, err := datetime.ParseMonth(start)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
			return
		}
		opts.StartDate = month
	}

	q, err := h.quotes.Builder().Calculate(terms, opts)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, q)
}

func (req designRequest) design(id string) catalog.Design {
	return catalog.Design{
		ID:               id,
		Name:             req.Name,
		Category:         req.Category,
		Description:      req.Description,
		Price:            req.Price,
		MaxLoanTerm:      req.MaxLoanTerm,
		LoanTermType:     req.LoanTermType,
		InterestRate:     req.InterestRate,
		InterestRateType: req.InterestRateType,
	}
}

// decodeJSON reads a size-capped JSON body into dst, responding on failure.
func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

// respondFailure maps domain errors onto HTTP statuses.
func (h *handler) respondFailure(w http.ResponseWriter, err error, op string) {
	var validationErr *validation.Error
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), op)
	case errors.As(err, &validationErr):
		h.logger.Info("rejected invalid design",
			zap.String("op", op),
			zap.Strings("problems", validationErr.Problems),
		)
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Problems: validationErr.Problems})
	default:
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, errorResponse{Error: msg})
}

// encodeFailureBody is sent when a payload cannot be encoded.
const encodeFailureBody = `{"error":"failed to encode response"}` + "\n"

// writeJSON encodes payload before any header goes out so an encoding failure
// still reaches the client as a 500.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		h.logger.Error("failed to encode JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Int("status", status),
			zap.Error(err),
		)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(encodeFailureBody))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write JSON response", zap.String("op", "server.writeJSON"), zap.Error(err))
	}
}
