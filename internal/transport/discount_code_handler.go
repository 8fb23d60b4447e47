package transport

import (
	"errors"
	"net/http"
	"time"

	"cookie-shop/internal/domain"
	"cookie-shop/internal/middleware"
	"cookie-shop/internal/repository"
	"cookie-shop/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DiscountCodeRequest represents the discount code create/update payload
type DiscountCodeRequest struct {
	Code      string          `json:"code" validate:"required"`
	Type      string          `json:"type" validate:"required,oneof=PERCENTAGE FIXED_AMOUNT"`
	Value     decimal.Decimal `json:"value" validate:"required"`
	ExpiresAt time.Time       `json:"expires_at" validate:"required"`
}

// DiscountCodeResponse represents a discount code
type DiscountCodeResponse struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Type      string          `json:"type"`
	Value     decimal.Decimal `json:"value"`
	ExpiresAt time.Time       `json:"expires_at"`
	CreatedAt time.Time       `json:"created_at"`
}

func toDiscountCodeResponse(code *domain.DiscountCode) DiscountCodeResponse {
	return DiscountCodeResponse{
		ID:        code.ID.String(),
		Code:      code.Code,
		Type:      string(code.Type),
		Value:     code.Value,
		ExpiresAt: code.ExpiresAt,
		CreatedAt: code.CreatedAt,
	}
}

// DiscountCodeHandler handles HTTP requests for discount code operations
type DiscountCodeHandler struct {
	discountCodeService service.DiscountCodeService
	logger              *zap.Logger
}

// NewDiscountCodeHandler creates a new DiscountCodeHandler
func NewDiscountCodeHandler(discountCodeService service.DiscountCodeService, logger *zap.Logger) *DiscountCodeHandler {
	return &DiscountCodeHandler{
		discountCodeService: discountCodeService,
		logger:              logger,
	}
}

// RegisterRoutes registers all discount code routes. Lookup by code is open
// to any authenticated user; everything else is admin only.
func (h *DiscountCodeHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/discount-codes", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/code/{code}", h.GetDiscountCodeByCode)

		r.Group(func(r chi.Router) {
			r.Use(adminMiddleware)
			r.Post("/", h.CreateDiscountCode)
			r.Get("/", h.ListDiscountCodes)
			r.Get("/{id}", h.GetDiscountCode)
			r.Put("/{id}", h.UpdateDiscountCode)
			r.Delete("/{id}", h.DeleteDiscountCode)
		})
	})
}

func (h *DiscountCodeHandler) respondDiscountCodeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrDiscountCodeNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "discount code not found")
	case errors.Is(err, repository.ErrDiscountCodeAlreadyExists):
		middleware.RespondWithError(w, http.StatusConflict, "discount code already exists")
	case errors.Is(err, service.ErrDiscountCodeExpired):
		middleware.RespondWithError(w, http.StatusBadRequest, "discount code has expired")
	case errors.Is(err, service.ErrInvalidDiscountType), errors.Is(err, service.ErrInvalidDiscount):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("Discount code operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

func toDiscountCodeInput(req DiscountCodeRequest) service.DiscountCodeInput {
	return service.DiscountCodeInput{
		Code:      req.Code,
		Type:      req.Type,
		Value:     req.Value,
		ExpiresAt: req.ExpiresAt,
	}
}

// CreateDiscountCode handles adding a discount code (admin)
func (h *DiscountCodeHandler) CreateDiscountCode(w http.ResponseWriter, r *http.Request) {
	var req DiscountCodeRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	code, err := h.discountCodeService.CreateDiscountCode(r.Context(), toDiscountCodeInput(req))
	if err != nil {
		h.respondDiscountCodeError(w, err)
		return
	}

	h.logger.Info("Discount code created", zap.String("code", code.Code))
	middleware.RespondWithJSON(w, http.StatusCreated, toDiscountCodeResponse(code))
}

// GetDiscountCode handles fetching a discount code by id (admin)
func (h *DiscountCodeHandler) GetDiscountCode(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid discount code id")
		return
	}

	code, err := h.discountCodeService.GetDiscountCodeByID(r.Context(), id)
	if err != nil {
		h.respondDiscountCodeError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toDiscountCodeResponse(code))
}

// GetDiscountCodeByCode handles looking up a discount code by its code
// string. Expired codes come back as 400.
func (h *DiscountCodeHandler) GetDiscountCodeByCode(w http.ResponseWriter, r *http.Request) {
	code, err := h.discountCodeService.GetDiscountCodeByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.respondDiscountCodeError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toDiscountCodeResponse(code))
}

// ListDiscountCodes handles listing all discount codes (admin)
func (h *DiscountCodeHandler) ListDiscountCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.discountCodeService.ListDiscountCodes(r.Context())
	if err != nil {
		h.respondDiscountCodeError(w, err)
		return
	}

	responses := make([]DiscountCodeResponse, 0, len(codes))
	for _, code := range codes {
		responses = append(responses, toDiscountCodeResponse(code))
	}
	middleware.RespondWithJSON(w, http.StatusOK, responses)
}

// UpdateDiscountCode handles replacing a discount code's fields (admin)
func (h *DiscountCodeHandler) UpdateDiscountCode(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid discount code id")
		return
	}

	var req DiscountCodeRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	code, err := h.discountCodeService.UpdateDiscountCode(r.Context(), id, toDiscountCodeInput(req))
	if err != nil {
		h.respondDiscountCodeError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toDiscountCodeResponse(code))
}

// DeleteDiscountCode handles removing a discount code (admin)
func (h *DiscountCodeHandler) DeleteDiscountCode(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid discount code id")
		return
	}

	if err := h.discountCodeService.DeleteDiscountCode(r.Context(), id); err != nil {
		h.respondDiscountCodeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
