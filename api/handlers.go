/*
handlers.go - HTTP API handlers for the production engine

PURPOSE:
  Exposes the production service over REST. Handles HTTP request/response
  and JSON serialization, and delegates every rule to the production
  package.

ENDPOINTS:
  Inputs / Products:
    GET    /api/inputs                    List
    POST   /api/inputs                    Create
    GET    /api/inputs/{id}               Get
    PATCH  /api/inputs/{id}               Partial update
    DELETE /api/inputs/{id}               Delete
    POST   /api/inputs/{id}/adjust        Manual stock adjustment
    (same shape under /api/products)

  Recipes:
    GET    /api/recipes                   List
    POST   /api/recipes                   Create
    GET    /api/recipes/{id}              Get
    PATCH  /api/recipes/{id}              Partial update
    DELETE /api/recipes/{id}              Delete
    GET    /api/recipes/{id}/cost         Cost breakdown
    GET    /api/recipes/{id}/availability ?quantity=N stock check

  Batches:
    GET    /api/batches                   List, ?status= filter
    POST   /api/batches                   Plan a batch
    GET    /api/batches/{id}              Get
    PATCH  /api/batches/{id}              Edit notes / quantity / recipe
    POST   /api/batches/{id}/start        planned -> in_progress
    POST   /api/batches/{id}/complete     Settle stock
    POST   /api/batches/{id}/cancel       -> cancelled

  Read models:
    GET    /api/transactions              ?input_id= &product_id= &reference_id= &type=
    GET    /api/dashboard                 Dashboard stats
    GET    /api/alerts                    Low-stock inputs and products
    GET    /api/reports                   ?period=week|month|quarter
    GET    /api/reports/export            Same, as XLSX

  Admin:
    POST   /api/admin/seed                Load sample bakery if empty
    POST   /api/admin/reset               Delete everything

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, malformed JSON, zero adjustments
  - 404: Entity not found
  - 409: Invalid batch status transition
  - 422: Insufficient stock (shortfalls listed)
  - 503: Lock not acquired in time
  - 500: Anything else

SEE ALSO:
  - dto.go: HTTP-only bodies
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/warp/artisan-engine/generic"
	"github.com/warp/artisan-engine/production"
	"github.com/warp/artisan-engine/reports"
	"go.uber.org/zap"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *production.Service
	log     *zap.Logger
}

// NewHandler creates a handler over svc. A nil logger discards output.
func NewHandler(svc *production.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Service: svc, log: log.Named("api")}
}

// =============================================================================
// INPUT ENDPOINTS
// =============================================================================

func (h *Handler) ListInputs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.Inputs.List(r.Context()))
}

func (h *Handler) CreateInput(w http.ResponseWriter, r *http.Request) {
	var req production.NewInput
	if !decodeBody(w, r, &req) {
		return
	}
	in, err := h.Service.Inputs.Create(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, in)
}

func (h *Handler) GetInput(w http.ResponseWriter, r *http.Request) {
	id := production.InputID(chi.URLParam(r, "id"))
	in, ok := h.Service.Inputs.Get(r.Context(), id)
	if !ok {
		writeError(w, http.StatusNotFound, "Input not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (h *Handler) UpdateInput(w http.ResponseWriter, r *http.Request) {
	var patch production.InputPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	in, err := h.Service.Inputs.Update(r.Context(), production.InputID(chi.URLParam(r, "id")), patch)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (h *Handler) DeleteInput(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Inputs.Delete(r.Context(), production.InputID(chi.URLParam(r, "id"))); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AdjustInput(w http.ResponseWriter, r *http.Request) {
	var req AdjustStockRequest
	if !decodeBody(w, r, &req) {
		return
	}
	in, tx, err := h.Service.AdjustInputStock(r.Context(), production.InputID(chi.URLParam(r, "id")), req.Delta, req.Notes)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AdjustInputResponse{Input: in, Transaction: tx})
}

// =============================================================================
// PRODUCT ENDPOINTS
// =============================================================================

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.Products.List(r.Context()))
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req production.NewProduct
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := h.Service.Products.Create(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Service.Products.Get(r.Context(), production.ProductID(chi.URLParam(r, "id")))
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var patch production.ProductPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	p, err := h.Service.Products.Update(r.Context(), production.ProductID(chi.URLParam(r, "id")), patch)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Products.Delete(r.Context(), production.ProductID(chi.URLParam(r, "id"))); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AdjustProduct(w http.ResponseWriter, r *http.Request) {
	var req AdjustStockRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, tx, err := h.Service.AdjustProductStock(r.Context(), production.ProductID(chi.URLParam(r, "id")), req.Delta, req.Notes)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AdjustProductResponse{Product: p, Transaction: tx})
}

// =============================================================================
// RECIPE ENDPOINTS
// =============================================================================

func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.Recipes.List(r.Context()))
}

func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req production.NewRecipe
	if !decodeBody(w, r, &req) {
		return
	}
	rec, err := h.Service.Recipes.Create(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.recipe(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	var patch production.RecipePatch
	if !decodeBody(w, r, &patch) {
		return
	}
	rec, err := h.Service.Recipes.Update(r.Context(), production.RecipeID(chi.URLParam(r, "id")), patch)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Recipes.Delete(r.Context(), production.RecipeID(chi.URLParam(r, "id"))); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetRecipeCost returns the itemized cost of one batch multiplier.
// GET /api/recipes/{id}/cost
func (h *Handler) GetRecipeCost(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.recipe(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Service.RecipeCostBreakdown(r.Context(), rec))
}

// GetRecipeAvailability checks stock for ?quantity=N (default 1).
// GET /api/recipes/{id}/availability
func (h *Handler) GetRecipeAvailability(w http.ResponseWriter, r *http.Request) {
	qty := 1
	if raw := r.URL.Query().Get("quantity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid quantity", err)
			return
		}
		qty = n
	}

	avail, err := h.Service.CheckStockAvailability(r.Context(), production.RecipeID(chi.URLParam(r, "id")), qty)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, avail)
}

func (h *Handler) recipe(w http.ResponseWriter, r *http.Request) (production.Recipe, bool) {
	rec, ok := h.Service.Recipes.Get(r.Context(), production.RecipeID(chi.URLParam(r, "id")))
	if !ok {
		writeError(w, http.StatusNotFound, "Recipe not found", nil)
	}
	return rec, ok
}

// =============================================================================
// BATCH ENDPOINTS
// =============================================================================

// ListBatches returns every batch, or only those in ?status=.
// GET /api/batches
func (h *Handler) ListBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := h.Service.Batches.ListByStatus(r.Context(), production.BatchStatus(r.URL.Query().Get("status")))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batches)
}

func (h *Handler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req production.NewBatch
	if !decodeBody(w, r, &req) {
		return
	}
	b, err := h.Service.CreateBatch(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handler) GetBatch(w http.ResponseWriter, r *http.Request) {
	b, ok := h.Service.Batches.Get(r.Context(), production.BatchID(chi.URLParam(r, "id")))
	if !ok {
		writeError(w, http.StatusNotFound, "Batch not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// UpdateBatch edits a batch. A "status" field is rejected as unknown.
// PATCH /api/batches/{id}
func (h *Handler) UpdateBatch(w http.ResponseWriter, r *http.Request) {
	var patch production.BatchPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	b, err := h.Service.UpdateBatch(r.Context(), production.BatchID(chi.URLParam(r, "id")), patch)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) StartBatch(w http.ResponseWriter, r *http.Request) {
	b, err := h.Service.StartBatch(r.Context(), production.BatchID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// CompleteBatch settles a batch and returns the SettlementResult.
// POST /api/batches/{id}/complete
func (h *Handler) CompleteBatch(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.CompleteBatch(r.Context(), production.BatchID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) CancelBatch(w http.ResponseWriter, r *http.Request) {
	b, err := h.Service.CancelBatch(r.Context(), production.BatchID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// =============================================================================
// READ MODELS
// =============================================================================

// ListTransactions returns the ledger, optionally filtered.
// GET /api/transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := production.TransactionFilter{
		InputID:     production.InputID(q.Get("input_id")),
		ProductID:   production.ProductID(q.Get("product_id")),
		ReferenceID: production.BatchID(q.Get("reference_id")),
		Type:        production.TransactionType(q.Get("type")),
	}
	writeJSON(w, http.StatusOK, h.Service.Transactions.Filter(r.Context(), filter))
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.DashboardStats(r.Context()))
}

func (h *Handler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.LowStock(r.Context()))
}

// GetReport aggregates the window named by ?period= (default month).
// GET /api/reports
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.buildReport(r))
}

// ExportReport streams the report as an XLSX workbook.
// GET /api/reports/export
func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	report := h.buildReport(r)
	filename := fmt.Sprintf("report-%s-%s.xlsx", report.Window, report.End.Format("2006-01-02"))

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := reports.WriteXLSX(w, report); err != nil {
		h.log.Error("report export failed", zap.Error(err))
	}
}

func (h *Handler) buildReport(r *http.Request) reports.Report {
	window := generic.ParseWindow(r.URL.Query().Get("period"))
	return reports.Build(h.Service.Snapshot(r.Context()), window, h.Service.Clock().Now())
}

// =============================================================================
// ADMIN ENDPOINTS
// =============================================================================

func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	seeded, err := h.Service.Seed(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SeedResponse{Seeded: seeded})
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Reset(r.Context()); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "reset"})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

// decodeBody decodes a JSON body, rejecting unknown fields. It writes the
// 400 itself and returns false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps the generic error taxonomy to HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var (
		verr  *generic.ValidationError
		short *generic.InsufficientStockError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Details: err.Error(), Fields: verr.Fields})
	case errors.As(err, &short):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: "Insufficient stock", Details: err.Error(), Shortfalls: short.Shortfalls})
	case errors.Is(err, generic.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, "Invalid quantity", err)
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, generic.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "Invalid status transition", err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Bad request", err)
	case generic.IsRetryable(err):
		writeError(w, http.StatusServiceUnavailable, "Busy, retry later", err)
	default:
		h.log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
