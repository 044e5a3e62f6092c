package tags

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/listforge/listforge/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the tags module.
type Handler struct {
	logger   *slog.Logger
	store    *Store
	validate *validator.Validate
}

// NewHandler constructs tags handler.
func NewHandler(logger *slog.Logger, store *Store) *Handler {
	return &Handler{logger: logger, store: store, validate: validator.New()}
}

// MountRoutes registers tag routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleAdd)
	r.Delete("/{id}", h.handleDelete)
	r.Post("/{id}/clear", h.handleClear)
	r.Post("/{id}/toggle/{productID}", h.handleToggle)
	r.Post("/{id}/bulk-add", h.handleBulkAdd)
	r.Post("/{id}/bulk-remove", h.handleBulkRemove)
	r.Get("/product/{productID}", h.handleProductTags)
}

type tagRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name" validate:"required"`
	Color string `json:"color" validate:"required"`
}

type bulkRequest struct {
	ProductIDs []string `json:"product_ids" validate:"required,min=1"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{"tags": h.store.List(r.Context())})
}

func (h *Handler) handleProductTags(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	httpx.JSON(w, http.StatusOK, map[string]any{"tag_ids": h.store.ProductTags(r.Context(), productID)})
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	tag, err := h.store.AddTag(r.Context(), Tag{ID: req.ID, Name: req.Name, Color: req.Color})
	if err != nil {
		h.logger.Error("add tag", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, tag)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteTag(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, ErrTagNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("delete tag", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearTagFromAllProducts(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.logger.Error("clear tag", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	err := h.store.ToggleProductTag(r.Context(), chi.URLParam(r, "productID"), chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("toggle tag", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleBulkAdd(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, h.store.BulkAddTag)
}

func (h *Handler) handleBulkRemove(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, h.store.BulkRemoveTag)
}

func (h *Handler) bulk(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, productIDs []string, tagID string) error) {
	var req bulkRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := op(r.Context(), req.ProductIDs, chi.URLParam(r, "id")); err != nil {
		h.logger.Error("bulk tag operation", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
