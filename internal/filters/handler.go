package filters

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/listforge/listforge/internal/catalog"
	"github.com/listforge/listforge/internal/platform/httpx"
)

// ProductSource supplies the product set filters are evaluated against.
type ProductSource interface {
	List(ctx context.Context, filter catalog.ListFilter) ([]catalog.Product, error)
}

// Handler wires HTTP endpoints for saved filters and filter evaluation.
type Handler struct {
	logger   *slog.Logger
	store    *Store
	products ProductSource
	validate *validator.Validate
}

// NewHandler constructs filters handler.
func NewHandler(logger *slog.Logger, store *Store, products ProductSource) *Handler {
	return &Handler{logger: logger, store: store, products: products, validate: validator.New()}
}

// MountRoutes registers filter routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleSave)
	r.Post("/preview", h.handlePreview)
	r.Get("/{id}/apply", h.handleApply)
	r.Delete("/{id}", h.handleDelete)
}

type saveFilterRequest struct {
	ID          string      `json:"id"`
	Name        string      `json:"name" validate:"required"`
	Description string      `json:"description"`
	Criteria    []Criterion `json:"criteria" validate:"dive"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{"filters": h.store.List(r.Context())})
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	var req saveFilterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	f, err := h.store.Save(r.Context(), CustomFilter{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Criteria:    req.Criteria,
	})
	if err != nil {
		h.logger.Error("save filter", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, f)
}

// handlePreview evaluates inline criteria without saving them.
func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Criteria []Criterion `json:"criteria"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	h.respondMatches(w, r, &CustomFilter{Criteria: req.Criteria})
}

// handleApply evaluates a saved filter against the catalog.
func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	f, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrFilterNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		httpx.RespondError(w, err)
		return
	}
	h.respondMatches(w, r, &f)
}

func (h *Handler) respondMatches(w http.ResponseWriter, r *http.Request, f *CustomFilter) {
	products, err := h.products.List(r.Context(), catalog.ListFilter{})
	if err != nil {
		h.logger.Error("list products for filter", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"products": Apply(products, f)})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, ErrFilterNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("delete filter", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
