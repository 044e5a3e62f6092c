package offers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/listforge/listforge/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the offers module.
type Handler struct {
	logger   *slog.Logger
	store    *Store
	validate *validator.Validate
}

// NewHandler constructs offers handler.
func NewHandler(logger *slog.Logger, store *Store) *Handler {
	return &Handler{logger: logger, store: store, validate: validator.New()}
}

// MountRoutes registers offer routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/best", h.handleBest)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

type offerRequest struct {
	Name            string     `json:"name" validate:"required"`
	Type            string     `json:"type" validate:"required,oneof=free_shipping percent_discount fixed_discount quantity_discount bulk_purchase bogo_half bogo_free"`
	Scope           string     `json:"scope" validate:"required,oneof=product marketplace"`
	DiscountPercent *float64   `json:"discount_percent" validate:"omitempty,gte=0,lte=100"`
	DiscountAmount  *float64   `json:"discount_amount" validate:"omitempty,gte=0"`
	Condition       *Condition `json:"condition"`
	StartDate       time.Time  `json:"start_date" validate:"required"`
	EndDate         time.Time  `json:"end_date" validate:"required,gtfield=StartDate"`
	ProductIDs      []string   `json:"product_ids"`
	Marketplaces    []string   `json:"marketplaces"`
	IsActive        bool       `json:"is_active"`
}

func (r offerRequest) toOffer() Offer {
	return Offer{
		Name:            r.Name,
		Type:            OfferType(r.Type),
		Scope:           OfferScope(r.Scope),
		DiscountPercent: r.DiscountPercent,
		DiscountAmount:  r.DiscountAmount,
		Condition:       r.Condition,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		ProductIDs:      r.ProductIDs,
		Marketplaces:    r.Marketplaces,
		IsActive:        r.IsActive,
	}
}

// offerView decorates a stored offer with its derived status.
type offerView struct {
	Offer
	Status Status `json:"status"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	all := h.store.List(r.Context())
	views := make([]offerView, 0, len(all))
	for _, o := range all {
		views = append(views, offerView{Offer: o, Status: ComputeStatus(o, now)})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"offers": views})
}

func (h *Handler) handleBest(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("product_id")
	if productID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "product_id is required")
		return
	}
	best := h.store.BestForProduct(r.Context(), productID)
	if best == nil {
		httpx.JSON(w, http.StatusOK, map[string]any{"offer": nil})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"offer": offerView{Offer: *best, Status: ComputeStatus(*best, time.Now())},
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req offerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	o, err := h.store.Create(r.Context(), req.toOffer())
	if err != nil {
		h.logger.Error("create offer", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, o)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req offerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	o, err := h.store.Update(r.Context(), chi.URLParam(r, "id"), req.toOffer())
	if err != nil {
		if errors.Is(err, ErrOfferNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("update offer", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, ErrOfferNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("delete offer", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
