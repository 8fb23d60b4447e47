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
	"go.uber.org/zap"
)

// NotificationResponse represents a notification
type NotificationResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func toNotificationResponses(notifications []*domain.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		responses = append(responses, NotificationResponse{
			ID:        notification.ID.String(),
			Text:      notification.Text,
			Read:      notification.Read,
			CreatedAt: notification.CreatedAt,
		})
	}
	return responses
}

// NotificationHandler handles HTTP requests for notification operations
type NotificationHandler struct {
	notificationService service.NotificationService
	logger              *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// RegisterRoutes registers all notification routes. Every route acts on
// the authenticated caller's own notifications.
func (h *NotificationHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/notifications", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", h.ListNotifications)
		r.Get("/unread", h.ListUnreadNotifications)
		r.Put("/{id}/read", h.MarkRead)
		r.Put("/read-all", h.MarkAllRead)
	})
}

// ListNotifications handles listing all of the caller's notifications
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	notifications, err := h.notificationService.GetNotifications(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list notifications", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toNotificationResponses(notifications))
}

// ListUnreadNotifications handles listing the caller's unread notifications
func (h *NotificationHandler) ListUnreadNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	notifications, err := h.notificationService.GetUnreadNotifications(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list unread notifications", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toNotificationResponses(notifications))
}

// MarkRead handles flagging one notification as read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := idParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "notification not found")
			return
		}
		h.logger.Error("Failed to mark notification read", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to mark notification read")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "notification marked as read"})
}

// MarkAllRead handles flagging every notification of the caller as read
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.notificationService.MarkAllRead(r.Context(), userID); err != nil {
		h.logger.Error("Failed to mark notifications read", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to mark notifications read")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "all notifications marked as read"})
}
