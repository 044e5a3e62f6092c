package batch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/listforge/listforge/internal/platform/httpx"
)

// JobEnqueuer schedules a processing run to execute out of band.
type JobEnqueuer interface {
	EnqueueBatchProcess(ctx context.Context, batchID string) error
}

// Handler wires HTTP endpoints for the batch module.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	enqueuer JobEnqueuer
	validate *validator.Validate
}

// NewHandler constructs batch handler. enqueuer may be nil; the async
// processing path then responds 503.
func NewHandler(logger *slog.Logger, service *Service, enqueuer JobEnqueuer) *Handler {
	return &Handler{logger: logger, service: service, enqueuer: enqueuer, validate: validator.New()}
}

// MountRoutes registers batch routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{id}", h.handleGet)
	r.Patch("/{id}", h.handleRename)
	r.Delete("/{id}", h.handleDelete)
	r.Get("/{id}/items", h.handleListItems)
	r.Post("/{id}/process", h.handleProcess)
	r.Post("/{id}/retry", h.handleRetry)
	r.Patch("/items/{itemID}", h.handleUpdateItem)
	r.Get("/{id}/items/{itemID}/variations", h.handleVariations)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	batches, err := h.service.ListBatches(r.Context())
	if err != nil {
		h.logger.Error("list batches", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"batches": batches})
}

type createBatchRequest struct {
	Name         string            `json:"name" validate:"required"`
	Products     []ProductSnapshot `json:"products" validate:"required,min=1"`
	Marketplaces []string          `json:"marketplaces" validate:"required,min=1"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createBatchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	b, items, err := h.service.Create(r.Context(), CreateInput{
		Name:         req.Name,
		Products:     req.Products,
		Marketplaces: req.Marketplaces,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptySelection):
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		case errors.Is(err, ErrDuplicateName):
			httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
		default:
			h.logger.Error("create batch", slog.Any("error", err))
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"batch": b, "items": items})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.GetBatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrBatchNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("get batch", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

func (h *Handler) handleListItems(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "id")
	if _, err := h.service.GetBatch(r.Context(), batchID); err != nil {
		if errors.Is(err, ErrBatchNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		httpx.RespondError(w, err)
		return
	}
	items, err := h.service.ListItems(r.Context(), batchID, ItemStatus(r.URL.Query().Get("status")))
	if err != nil {
		h.logger.Error("list batch items", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "id")
	if async, _ := strconv.ParseBool(r.URL.Query().Get("async")); async {
		if h.enqueuer == nil {
			httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", "background processing is not configured")
			return
		}
		if err := h.enqueuer.EnqueueBatchProcess(r.Context(), batchID); err != nil {
			h.logger.Error("enqueue batch process", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusAccepted, map[string]any{"batch_id": batchID, "queued": true})
		return
	}
	b, err := h.service.Process(r.Context(), batchID)
	if err != nil {
		if errors.Is(err, ErrBatchNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("process batch", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

type retryRequest struct {
	ItemIDs []string `json:"item_ids"`
}

func (h *Handler) handleRetry(w http.ResponseWriter, r *http.Request) {
	var req retryRequest
	if r.ContentLength > 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
			return
		}
	}
	b, err := h.service.RetryFailed(r.Context(), chi.URLParam(r, "id"), req.ItemIDs)
	if err != nil {
		h.logger.Error("retry batch items", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

type renameRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *Handler) handleRename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	batchID := chi.URLParam(r, "id")
	if err := h.service.Rename(r.Context(), batchID, req.Name); err != nil {
		switch {
		case errors.Is(err, ErrBatchNotFound):
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
		case errors.Is(err, ErrDuplicateName):
			httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
		default:
			h.logger.Error("rename batch", slog.Any("error", err))
			httpx.RespondError(w, err)
		}
		return
	}
	b, err := h.service.GetBatch(r.Context(), batchID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, ErrBatchNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("delete batch", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	// Remaining batches come back ordered newest first so the caller can
	// pick the next selection without a second round trip.
	batches, err := h.service.ListBatches(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"batches": batches})
}

type updateItemRequest struct {
	ProductName  *string  `json:"product_name"`
	ProductSKU   *string  `json:"product_sku"`
	StockQty     *int     `json:"stock_qty" validate:"omitempty,gte=0"`
	SalePrice    *float64 `json:"sale_price" validate:"omitempty,gte=0"`
	ProfitMargin *float64 `json:"profit_margin"`
}

func (h *Handler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	b, err := h.service.UpdateItemAndRetry(r.Context(), chi.URLParam(r, "itemID"), ItemUpdate{
		ProductName:  req.ProductName,
		ProductSKU:   req.ProductSKU,
		StockQty:     req.StockQty,
		SalePrice:    req.SalePrice,
		ProfitMargin: req.ProfitMargin,
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("update batch item", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

type variationView struct {
	Item        Item   `json:"item"`
	DisplayName string `json:"display_name"`
}

func (h *Handler) handleVariations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	item, err := h.service.GetItem(ctx, chi.URLParam(r, "itemID"))
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		httpx.RespondError(w, err)
		return
	}
	items, err := h.service.ListItems(ctx, chi.URLParam(r, "id"), "")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	siblings := SiblingItems(item, items)
	views := make([]variationView, 0, len(siblings))
	for i, sibling := range siblings {
		views = append(views, variationView{
			Item:        sibling,
			DisplayName: VariationDisplayName(sibling, nil, i+1),
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"master_product_id": MasterProductID(item.ProductID),
		"is_variation":      IsVariation(item.ProductID),
		"variations":        views,
	})
}
