package http

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/catalog/internal/domain/entities"
	"github.com/storefront/catalog/internal/infrastructure/logger"
	"github.com/storefront/catalog/internal/ports"
)

// PageHandler serves the server-rendered pages: the main page with the
// add/edit forms and the catalog listing.
type PageHandler struct {
	productService ports.ProductService
	logger         *logger.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(productService ports.ProductService, logger *logger.Logger) *PageHandler {
	return &PageHandler{
		productService: productService,
		logger:         logger,
	}
}

// MainPageData drives the main template's success/failure banners.
type MainPageData struct {
	SuccessfulAdd    bool
	AddedProduct     string
	SuccessfulEdit   bool
	EditedProduct    string
	UnsuccessfulEdit bool
	EditError        string
	ProductList      []entities.Product
}

// MainPage handles GET /
func (h *PageHandler) MainPage(c echo.Context) error {
	return c.Render(http.StatusOK, "main", MainPageData{})
}

// CreateFromForm handles POST /. The index form requires more fields
// than the API does: category and stock on top of name, price and
// thumbnail. A missing field is a 400 with a plain error message.
func (h *PageHandler) CreateFromForm(c echo.Context) error {
	if c.FormValue("name") == "" || c.FormValue("price") == "" ||
		c.FormValue("thumbnail") == "" || c.FormValue("category") == "" ||
		c.FormValue("stock") == "" {
		return c.String(http.StatusBadRequest, "Missing data. Product needs name, Price, Thumbnail, Category and Stock.")
	}

	product, err := h.productService.Create(c.Request().Context(), ports.CreateProductRequest{
		Name:        c.FormValue("name"),
		Category:    c.FormValue("category"),
		Subcategory: c.FormValue("subcategory"),
		Description: c.FormValue("description"),
		Price:       c.FormValue("price"),
		Stock:       c.FormValue("stock"),
		Thumbnail:   c.FormValue("thumbnail"),
	})
	if err != nil {
		h.logger.Error("Form create failed", "error", err)
		return c.String(http.StatusBadRequest, err.Error())
	}

	added, _ := json.Marshal(product)
	return c.Render(http.StatusOK, "main", MainPageData{
		SuccessfulAdd: true,
		AddedProduct:  string(added),
	})
}

// EditFromForm handles POST /edit. Failures render the main page in the
// unsuccessful-edit state rather than returning an error status.
func (h *PageHandler) EditFromForm(c echo.Context) error {
	id := c.FormValue("id")
	if id == "" {
		return c.Render(http.StatusOK, "main", MainPageData{
			UnsuccessfulEdit: true,
			EditError:        "No ID was provided",
		})
	}

	product, err := h.productService.Edit(c.Request().Context(), id, ports.ProductPatch{
		Timestamp:   c.FormValue("timestamp"),
		Category:    c.FormValue("category"),
		Subcategory: c.FormValue("subcategory"),
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Price:       c.FormValue("price"),
		Stock:       c.FormValue("stock"),
		Thumbnail:   c.FormValue("thumbnail"),
	})
	if err != nil {
		h.logger.Error("Form edit failed", "error", err, "id", id)
		return c.Render(http.StatusOK, "main", MainPageData{
			UnsuccessfulEdit: true,
			EditError:        err.Error(),
		})
	}

	edited, _ := json.MarshalIndent(product, "", "  ")
	return c.Render(http.StatusOK, "main", MainPageData{
		SuccessfulEdit: true,
		EditedProduct:  string(edited),
	})
}

// ProductsPage handles GET /products
func (h *PageHandler) ProductsPage(c echo.Context) error {
	products, err := h.productService.List(c.Request().Context())
	if err != nil {
		h.logger.Error("Products page failed", "error", err)
		return c.String(http.StatusOK, err.Error())
	}
	return c.Render(http.StatusOK, "products", MainPageData{ProductList: products})
}
