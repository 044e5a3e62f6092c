package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/listforge/listforge/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the catalog module.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs catalog handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers catalog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{id}", h.handleGet)
	r.Patch("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

type createProductRequest struct {
	Name         string              `json:"name" validate:"required"`
	SKU          string              `json:"sku"`
	Brand        string              `json:"brand"`
	ImageURL     string              `json:"image_url"`
	ProductID    string              `json:"product_id"`
	VariationID  *string             `json:"variation_id"`
	SalePrice    float64             `json:"sale_price" validate:"gte=0"`
	LandedCost   float64             `json:"landed_cost" validate:"gte=0"`
	ShippingCost float64             `json:"shipping_cost" validate:"gte=0"`
	StockQty     int                 `json:"stock_qty" validate:"gte=0"`
	Velocity     float64             `json:"velocity" validate:"gte=0"`
	ProductType  string              `json:"product_type" validate:"omitempty,oneof=single kit variation"`
	Marketplaces []MarketplaceStatus `json:"marketplaces"`
	Components   []KitComponent      `json:"kit_components"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Search:        r.URL.Query().Get("search"),
		Brand:         r.URL.Query().Get("brand"),
		ProductType:   ProductType(r.URL.Query().Get("type")),
		RestockStatus: RestockStatus(r.URL.Query().Get("restock")),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			filter.Limit = limit
		}
	}
	products, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"products": products})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("get product", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	p, err := h.service.Create(r.Context(), Product{
		Name:          req.Name,
		SKU:           req.SKU,
		Brand:         req.Brand,
		ImageURL:      req.ImageURL,
		ProductID:     req.ProductID,
		VariationID:   req.VariationID,
		SalePrice:     req.SalePrice,
		LandedCost:    req.LandedCost,
		ShippingCost:  req.ShippingCost,
		StockQty:      req.StockQty,
		Velocity:      req.Velocity,
		ProductType:   ProductType(req.ProductType),
		Marketplaces:  req.Marketplaces,
		KitComponents: req.Components,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateSKU) {
			httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
			return
		}
		h.logger.Error("create product", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

type updateProductRequest struct {
	Name         *string             `json:"name"`
	Brand        *string             `json:"brand"`
	ImageURL     *string             `json:"image_url"`
	SalePrice    *float64            `json:"sale_price" validate:"omitempty,gte=0"`
	LandedCost   *float64            `json:"landed_cost" validate:"omitempty,gte=0"`
	ShippingCost *float64            `json:"shipping_cost" validate:"omitempty,gte=0"`
	StockQty     *int                `json:"stock_qty" validate:"omitempty,gte=0"`
	PurchaseQty  *int                `json:"purchase_qty" validate:"omitempty,gte=0"`
	SoldQty      *int                `json:"sold_qty" validate:"omitempty,gte=0"`
	ReturnQty    *int                `json:"return_qty" validate:"omitempty,gte=0"`
	Velocity     *float64            `json:"velocity" validate:"omitempty,gte=0"`
	Marketplaces []MarketplaceStatus `json:"marketplaces"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	p, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), ProductPatch{
		Name:         req.Name,
		Brand:        req.Brand,
		ImageURL:     req.ImageURL,
		SalePrice:    req.SalePrice,
		LandedCost:   req.LandedCost,
		ShippingCost: req.ShippingCost,
		StockQty:     req.StockQty,
		PurchaseQty:  req.PurchaseQty,
		SoldQty:      req.SoldQty,
		ReturnQty:    req.ReturnQty,
		Velocity:     req.Velocity,
		Marketplaces: req.Marketplaces,
	})
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("update product", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("delete product", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
