package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/catalog/internal/domain/entities"
	"github.com/storefront/catalog/internal/infrastructure/logger"
	"github.com/storefront/catalog/internal/ports"
)

// ProductHandler handles the JSON API under /api/products
type ProductHandler struct {
	productService ports.ProductService
	logger         *logger.Logger
}

// NewProductHandler creates a new product API handler
func NewProductHandler(productService ports.ProductService, logger *logger.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(c echo.Context) error {
	products, err := h.productService.List(c.Request().Context())
	if err != nil {
		h.logger.Error("List products failed", "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /api/products/:id
func (h *ProductHandler) GetProduct(c echo.Context) error {
	product, err := h.productService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, product)
}

// createProductPayload is the API creation body. The API surface has
// always used "title" where the page form uses "name".
type createProductPayload struct {
	Title     string `json:"title" validate:"required"`
	Price     any    `json:"price" validate:"required"`
	Thumbnail string `json:"thumbnail" validate:"required"`
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var payload createProductPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing data. Product needs Title, Price and Thumbnail.")
	}

	product, err := h.productService.Create(c.Request().Context(), ports.CreateProductRequest{
		Title:     payload.Title,
		Price:     payload.Price,
		Thumbnail: payload.Thumbnail,
	})
	if err != nil {
		h.logger.Error("Create product failed", "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/products/:id
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	var patch ports.ProductPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	product, err := h.productService.Edit(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		h.logger.Error("Update product failed", "error", err, "id", c.Param("id"))
		return httpError(err)
	}
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id := c.Param("id")
	if err := h.productService.Delete(c.Request().Context(), id); err != nil {
		h.logger.Error("Delete product failed", "error", err, "id", id)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "product " + id + " deleted"})
}

// MessageResponse is a plain confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the API error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// httpError maps domain errors onto HTTP status codes.
func httpError(err error) error {
	switch {
	case errors.Is(err, entities.ErrProductNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, entities.ErrMissingFields), errors.Is(err, entities.ErrBadNumber):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
