package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smart-city-lviv/civic-backend/internal/api/metrics"
	"github.com/smart-city-lviv/civic-backend/internal/core/ports"
)

// NotificationHandler exposes outbound notification email dispatch.
type NotificationHandler struct {
	notifications ports.NotificationService
}

func NewNotificationHandler(notifications ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

type notificationRequest struct {
	Email   string `json:"email"   validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Text    string `json:"text"    validate:"required"`
	HTML    string `json:"html"    validate:"required"`
}

// Send handles POST /api/notifications.
//
// @Summary      Send a notification email
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        body  body      notificationRequest  true  "Notification"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/notifications [post]
func (h *NotificationHandler) Send(c echo.Context) error {
	var req notificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.notifications.Send(c.Request().Context(), ports.NotificationInput{
		Email:   req.Email,
		Subject: req.Subject,
		Text:    req.Text,
		HTML:    req.HTML,
	})
	if err != nil {
		metrics.NotificationsSentTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.NotificationsSentTotal.WithLabelValues("ok").Inc()

	return c.JSON(http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Email has been sent to %s", req.Email),
	})
}
