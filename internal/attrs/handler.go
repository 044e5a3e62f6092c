package attrs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/listforge/listforge/internal/platform/httpx"
)

// SchemaStore abstracts schema persistence for the handler.
type SchemaStore interface {
	GetSchema(ctx context.Context, categoryID string) ([]CategoryAttribute, error)
	PutSchema(ctx context.Context, categoryID string, schema []CategoryAttribute) error
}

// Handler wires HTTP endpoints for category attribute schemas.
type Handler struct {
	logger   *slog.Logger
	store    SchemaStore
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, store SchemaStore) *Handler {
	return &Handler{logger: logger, store: store, validate: validator.New()}
}

// MountRoutes registers category attribute routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{id}/attributes", h.handleGetSchema)
	r.Put("/{id}/attributes", h.handlePutSchema)
	r.Post("/{id}/attributes/validate", h.handleValidate)
}

func (h *Handler) handleGetSchema(w http.ResponseWriter, r *http.Request) {
	schema, err := h.store.GetSchema(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("get attribute schema", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"attributes": schema})
}

type putSchemaRequest struct {
	Attributes []CategoryAttribute `json:"attributes" validate:"required,min=1,dive"`
}

func (h *Handler) handlePutSchema(w http.ResponseWriter, r *http.Request) {
	var req putSchemaRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	for _, attr := range req.Attributes {
		if attr.Key == "" {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "attribute key required")
			return
		}
	}
	if err := h.store.PutSchema(r.Context(), chi.URLParam(r, "id"), req.Attributes); err != nil {
		h.logger.Error("put attribute schema", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"attributes": req.Attributes})
}

type validateRequest struct {
	Stored map[string]string `json:"stored"`
	Live   map[string]string `json:"live"`
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	schema, err := h.store.GetSchema(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("get attribute schema", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"reports": Validate(schema, req.Stored, req.Live)})
}
