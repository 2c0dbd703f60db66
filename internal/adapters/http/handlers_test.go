package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/catalog/internal/domain/entities"
	"github.com/storefront/catalog/internal/infrastructure/logger"
	"github.com/storefront/catalog/internal/ports"
)

// stubProductService returns canned results so handler behavior can be
// tested without touching the filesystem.
type stubProductService struct {
	products []entities.Product
	err      error
}

func (s *stubProductService) List(ctx context.Context) ([]entities.Product, error) {
	return s.products, s.err
}

func (s *stubProductService) Get(ctx context.Context, id string) (entities.Product, error) {
	if s.err != nil {
		return entities.Product{}, s.err
	}
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return entities.Product{}, entities.ErrProductNotFound
}

func (s *stubProductService) Create(ctx context.Context, req ports.CreateProductRequest) (entities.Product, error) {
	if s.err != nil {
		return entities.Product{}, s.err
	}
	return entities.Product{
		ID:        "p-1",
		Name:      req.DisplayName(),
		Thumbnail: req.Thumbnail,
		Price:     1.5,
		Stock:     10,
	}, nil
}

func (s *stubProductService) Edit(ctx context.Context, id string, patch ports.ProductPatch) (entities.Product, error) {
	if s.err != nil {
		return entities.Product{}, s.err
	}
	return s.Get(ctx, id)
}

func (s *stubProductService) Delete(ctx context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return nil
}

// stubValidator mirrors the server's CustomValidator wiring.
type stubValidator struct{ v *validator.Validate }

func (sv *stubValidator) Validate(i interface{}) error { return sv.v.Struct(i) }

// stubRenderer records which template was rendered and with what data.
type stubRenderer struct {
	name string
	data interface{}
}

func (r *stubRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	r.name = name
	r.data = data
	_, err := fmt.Fprintf(w, "rendered:%s", name)
	return err
}

func newTestEcho() (*echo.Echo, *stubRenderer) {
	e := echo.New()
	e.Validator = &stubValidator{v: validator.New()}
	renderer := &stubRenderer{}
	e.Renderer = renderer
	return e, renderer
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func TestListProducts(t *testing.T) {
	e, _ := newTestEcho()
	h := NewProductHandler(&stubProductService{
		products: []entities.Product{{ID: "p-1", Name: "Pen", Price: 1.5, Thumbnail: "x.png"}},
	}, logger.NewNop())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/products", nil), rec)

	require.NoError(t, h.ListProducts(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got []entities.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 1)
	assert.Equal(t, "Pen", got[0].Name)
}

func TestGetProduct_NotFound(t *testing.T) {
	e, _ := newTestEcho()
	h := NewProductHandler(&stubProductService{}, logger.NewNop())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetPath("/api/products/:id")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	err := h.GetProduct(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestCreateProduct(t *testing.T) {
	e, _ := newTestEcho()
	h := NewProductHandler(&stubProductService{}, logger.NewNop())

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/products",
		`{"title":"Pen","price":"1.5","thumbnail":"x.png"}`), rec)

	require.NoError(t, h.CreateProduct(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var got entities.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Pen", got.Name)
	assert.NotEmpty(t, got.ID)
}

func TestCreateProduct_MissingFields(t *testing.T) {
	e, _ := newTestEcho()
	h := NewProductHandler(&stubProductService{}, logger.NewNop())

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/products", `{"title":"Pen"}`), rec)

	err := h.CreateProduct(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestDeleteProduct(t *testing.T) {
	e, _ := newTestEcho()
	h := NewProductHandler(&stubProductService{
		products: []entities.Product{{ID: "p-1", Name: "Pen", Price: 1.5, Thumbnail: "x.png"}},
	}, logger.NewNop())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), rec)
	c.SetPath("/api/products/:id")
	c.SetParamNames("id")
	c.SetParamValues("p-1")

	require.NoError(t, h.DeleteProduct(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "deleted")
}

func TestCreateFromForm_MissingField(t *testing.T) {
	e, _ := newTestEcho()
	h := NewPageHandler(&stubProductService{}, logger.NewNop())

	form := url.Values{}
	form.Set("name", "Pen")
	form.Set("price", "1.5")
	// thumbnail, category and stock missing

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/", form), rec)

	require.NoError(t, h.CreateFromForm(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing data")
}

func TestCreateFromForm_Success(t *testing.T) {
	e, renderer := newTestEcho()
	h := NewPageHandler(&stubProductService{}, logger.NewNop())

	form := url.Values{}
	form.Set("name", "Pen")
	form.Set("price", "1.5")
	form.Set("thumbnail", "x.png")
	form.Set("category", "office")
	form.Set("stock", "10")

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/", form), rec)

	require.NoError(t, h.CreateFromForm(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "main", renderer.name)

	data, ok := renderer.data.(MainPageData)
	require.True(t, ok)
	assert.True(t, data.SuccessfulAdd)
	assert.Contains(t, data.AddedProduct, "Pen")
}

func TestEditFromForm_MissingID(t *testing.T) {
	e, renderer := newTestEcho()
	h := NewPageHandler(&stubProductService{}, logger.NewNop())

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/edit", url.Values{}), rec)

	require.NoError(t, h.EditFromForm(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	data, ok := renderer.data.(MainPageData)
	require.True(t, ok)
	assert.True(t, data.UnsuccessfulEdit)
	assert.Equal(t, "No ID was provided", data.EditError)
}

func TestEditFromForm_UnknownID(t *testing.T) {
	e, renderer := newTestEcho()
	h := NewPageHandler(&stubProductService{}, logger.NewNop())

	form := url.Values{}
	form.Set("id", "missing")
	form.Set("price", "2")

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/edit", form), rec)

	require.NoError(t, h.EditFromForm(c))

	data, ok := renderer.data.(MainPageData)
	require.True(t, ok)
	assert.True(t, data.UnsuccessfulEdit)
}

func TestProductsPage(t *testing.T) {
	e, renderer := newTestEcho()
	h := NewPageHandler(&stubProductService{
		products: []entities.Product{{ID: "p-1", Name: "Pen", Price: 1.5, Thumbnail: "x.png"}},
	}, logger.NewNop())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/products", nil), rec)

	require.NoError(t, h.ProductsPage(c))
	assert.Equal(t, "products", renderer.name)

	data, ok := renderer.data.(MainPageData)
	require.True(t, ok)
	assert.Len(t, data.ProductList, 1)
}
