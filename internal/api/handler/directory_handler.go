package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smart-city-lviv/civic-backend/internal/api/middleware"
	"github.com/smart-city-lviv/civic-backend/internal/core/domain"
	"github.com/smart-city-lviv/civic-backend/internal/core/ports"
)

// DirectoryHandler answers identity-adjacent queries: who the caller is and
// how many users the identity provider manages.
type DirectoryHandler struct {
	directory ports.UserDirectory
}

func NewDirectoryHandler(directory ports.UserDirectory) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

type usersCountResponse struct {
	UsersCount int `json:"usersCount"`
}

// Whoami handles GET /api/whoami.
//
// @Summary      Return the resolved identity of the caller
// @Tags         directory
// @Produce      json
// @Security     BasicAuth
// @Success      200  {object}  domain.Identity
// @Failure      401  {object}  map[string]string
// @Router       /api/whoami [get]
func (h *DirectoryHandler) Whoami(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.ErrMissingCredential
	}
	return c.JSON(http.StatusOK, identity)
}

// CountUsers handles GET /api/users/count.
//
// @Summary      Count users registered with the identity provider
// @Tags         directory
// @Produce      json
// @Security     BasicAuth
// @Success      200  {object}  usersCountResponse
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/users/count [get]
func (h *DirectoryHandler) CountUsers(c echo.Context) error {
	count, err := h.directory.CountUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usersCountResponse{UsersCount: count})
}
