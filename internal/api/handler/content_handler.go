package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smart-city-lviv/civic-backend/internal/core/domain"
	"github.com/smart-city-lviv/civic-backend/internal/core/ports"
)

// ContentHandler exposes generic CRUD over the content collections. The
// collection path segment is parsed into the typed enum before anything
// touches a service.
type ContentHandler struct {
	content ports.ContentService
}

func NewContentHandler(content ports.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

type idResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func collectionParam(c echo.Context) (domain.Collection, error) {
	coll, err := domain.ParseCollection(c.Param("collection"))
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return coll, nil
}

// List handles GET /api/:collection.
//
// @Summary      List all documents of a collection
// @Tags         content
// @Produce      json
// @Security     BasicAuth
// @Param        collection  path      string  true  "projects | news | messages | users"
// @Success      200         {array}   map[string]any
// @Failure      400         {object}  map[string]string
// @Router       /api/{collection} [get]
func (h *ContentHandler) List(c echo.Context) error {
	coll, err := collectionParam(c)
	if err != nil {
		return err
	}
	docs, err := h.content.List(c.Request().Context(), coll)
	if err != nil {
		return err
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return c.JSON(http.StatusOK, docs)
}

// Get handles GET /api/:collection/:id.
//
// @Summary      Get a document by id
// @Tags         content
// @Produce      json
// @Security     BasicAuth
// @Param        collection  path      string  true  "projects | news | messages | users"
// @Param        id          path      string  true  "Document id"
// @Success      200         {object}  map[string]any
// @Failure      400         {object}  map[string]string
// @Router       /api/{collection}/{id} [get]
func (h *ContentHandler) Get(c echo.Context) error {
	coll, err := collectionParam(c)
	if err != nil {
		return err
	}
	doc, err := h.content.Get(c.Request().Context(), coll, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

// Create handles POST /api/:collection. The body is the document itself; an
// optional "src" field carries a base64 data-url image.
//
// @Summary      Create a document
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        collection  path      string          true  "projects | news | messages | users"
// @Param        body        body      map[string]any  true  "Document body"
// @Success      200         {object}  idResponse
// @Failure      400         {object}  map[string]string
// @Router       /api/{collection} [post]
func (h *ContentHandler) Create(c echo.Context) error {
	coll, err := collectionParam(c)
	if err != nil {
		return err
	}

	var doc domain.Document
	if err := c.Bind(&doc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(doc) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "empty document")
	}

	id, err := h.content.Create(c.Request().Context(), coll, doc)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, idResponse{ID: id, Message: "Document created"})
}

// Update handles PUT /api/:collection/:id with a partial document.
//
// @Summary      Update a document
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        collection  path      string          true  "projects | news | messages | users"
// @Param        id          path      string          true  "Document id"
// @Param        body        body      map[string]any  true  "Fields to set"
// @Success      200         {object}  messageResponse
// @Failure      400         {object}  map[string]string
// @Router       /api/{collection}/{id} [put]
func (h *ContentHandler) Update(c echo.Context) error {
	coll, err := collectionParam(c)
	if err != nil {
		return err
	}

	var doc domain.Document
	if err := c.Bind(&doc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(doc) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "empty document")
	}

	if err := h.content.Update(c.Request().Context(), coll, c.Param("id"), doc); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Document updated"})
}

// Delete handles DELETE /api/:collection/:id.
//
// @Summary      Delete a document
// @Tags         content
// @Produce      json
// @Security     BasicAuth
// @Param        collection  path      string  true  "projects | news | messages | users"
// @Param        id          path      string  true  "Document id"
// @Success      200         {object}  messageResponse
// @Failure      400         {object}  map[string]string
// @Router       /api/{collection}/{id} [delete]
func (h *ContentHandler) Delete(c echo.Context) error {
	coll, err := collectionParam(c)
	if err != nil {
		return err
	}
	if c.Param("id") == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "to delete an item you need to enter id")
	}

	if err := h.content.Delete(c.Request().Context(), coll, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Document deleted"})
}
