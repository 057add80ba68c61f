package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smart-city-lviv/civic-backend/internal/api/metrics"
	"github.com/smart-city-lviv/civic-backend/internal/core/ports"
)

// EngagementHandler exposes the like/comment sub-resources of content
// documents.
type EngagementHandler struct {
	engagement ports.EngagementService
}

func NewEngagementHandler(engagement ports.EngagementService) *EngagementHandler {
	return &EngagementHandler{engagement: engagement}
}

type likeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type likeResponse struct {
	Message       string `json:"message"`
	CurrentRating int    `json:"currentRating"`
}

type commentRequest struct {
	Username string `json:"username" validate:"required,email"`
	Message  string `json:"message"  validate:"required"`
}

type commentResponse struct {
	Message   string `json:"message"`
	CommentID string `json:"commentId"`
}

// ToggleLike handles POST /api/:collection/:id/likes.
//
// @Summary      Like or unlike a document
// @Description  A single idempotent toggle: a second call from the same email undoes the first.
// @Tags         engagement
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        collection  path      string       true  "projects | news | messages"
// @Param        id          path      string       true  "Document id"
// @Param        body        body      likeRequest  true  "Liker email"
// @Success      200         {object}  likeResponse
// @Failure      400         {object}  map[string]string
// @Failure      401         {object}  map[string]string
// @Router       /api/{collection}/{id}/likes [post]
func (h *EngagementHandler) ToggleLike(c echo.Context) error {
	coll, err := collectionParam(c)
	if err != nil {
		return err
	}

	var req likeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rating, liked, err := h.engagement.ToggleLike(c.Request().Context(), coll, c.Param("id"), req.Email)
	if err != nil {
		return err
	}

	action := "unlike"
	msg := fmt.Sprintf("You unliked this %s", coll)
	if liked {
		action = "like"
		msg = fmt.Sprintf("You liked this %s", coll)
	}
	metrics.LikesToggledTotal.WithLabelValues(string(coll), action).Inc()

	return c.JSON(http.StatusOK, likeResponse{Message: msg, CurrentRating: rating})
}

// AddComment handles POST /api/:collection/:id/comments.
//
// @Summary      Add a comment to a document
// @Tags         engagement
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        collection  path      string          true  "projects | news | messages"
// @Param        id          path      string          true  "Document id"
// @Param        body        body      commentRequest  true  "Comment"
// @Success      200         {object}  commentResponse
// @Failure      400         {object}  map[string]string
// @Failure      401         {object}  map[string]string
// @Router       /api/{collection}/{id}/comments [post]
func (h *EngagementHandler) AddComment(c echo.Context) error {
	coll, err := collectionParam(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	commentID, err := h.engagement.AddComment(c.Request().Context(), coll, c.Param("id"), req.Username, req.Message)
	if err != nil {
		return err
	}
	metrics.CommentsTotal.WithLabelValues(string(coll), "add").Inc()

	return c.JSON(http.StatusOK, commentResponse{
		Message:   "Comment was successfully added!",
		CommentID: commentID,
	})
}

// RemoveComment handles DELETE /api/:collection/:id/comments/:commentId.
// Removing an id that no longer exists still succeeds.
//
// @Summary      Remove a comment by id
// @Tags         engagement
// @Produce      json
// @Security     BasicAuth
// @Param        collection  path      string  true  "projects | news | messages"
// @Param        id          path      string  true  "Document id"
// @Param        commentId   path      string  true  "Comment id"
// @Success      200         {object}  messageResponse
// @Failure      400         {object}  map[string]string
// @Failure      401         {object}  map[string]string
// @Router       /api/{collection}/{id}/comments/{commentId} [delete]
func (h *EngagementHandler) RemoveComment(c echo.Context) error {
	coll, err := collectionParam(c)
	if err != nil {
		return err
	}

	if err := h.engagement.RemoveComment(c.Request().Context(), coll, c.Param("id"), c.Param("commentId")); err != nil {
		return err
	}
	metrics.CommentsTotal.WithLabelValues(string(coll), "remove").Inc()

	return c.JSON(http.StatusOK, messageResponse{Message: "Comment deleted!"})
}
