package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smart-city-lviv/civic-backend/internal/core/domain"
	"github.com/smart-city-lviv/civic-backend/internal/core/ports"
)

// RulesHandler exposes the runtime-mutable access-control table.
type RulesHandler struct {
	rules ports.RuleService
}

func NewRulesHandler(rules ports.RuleService) *RulesHandler {
	return &RulesHandler{rules: rules}
}

type ruleRequest struct {
	Method string `json:"method" validate:"required,oneof=GET POST PUT PATCH DELETE *"`
	Path   string `json:"path"   validate:"required"`
	Role   string `json:"role"   validate:"required,oneof=root investor user guest *"`
}

type replaceRulesRequest struct {
	Rules []ruleRequest `json:"rules" validate:"required,min=1,dive"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// List handles GET /api/access-rules.
//
// @Summary      List current access rules
// @Tags         access-rules
// @Produce      json
// @Security     BasicAuth
// @Success      200  {array}   domain.AccessRule
// @Failure      401  {object}  map[string]string
// @Router       /api/access-rules [get]
func (h *RulesHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.rules.Rules())
}

// Replace handles POST /api/access-rules, swapping the whole table.
//
// @Summary      Replace the access rule table
// @Tags         access-rules
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        body  body      replaceRulesRequest  true  "New rule table"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/access-rules [post]
func (h *RulesHandler) Replace(c echo.Context) error {
	var req replaceRulesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rules := make([]domain.AccessRule, len(req.Rules))
	for i, r := range req.Rules {
		rules[i] = domain.AccessRule{Method: r.Method, Path: r.Path, Role: domain.Role(r.Role)}
	}

	if err := h.rules.Replace(c.Request().Context(), rules); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Access rules updated"})
}
