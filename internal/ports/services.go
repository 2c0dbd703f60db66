package ports

import (
	"context"

	"github.com/storefront/catalog/internal/domain/entities"
)

// ProductService interface for catalog operations
type ProductService interface {
	List(ctx context.Context) ([]entities.Product, error)
	Get(ctx context.Context, id string) (entities.Product, error)
	Create(ctx context.Context, req CreateProductRequest) (entities.Product, error)
	Edit(ctx context.Context, id string, patch ProductPatch) (entities.Product, error)
	Delete(ctx context.Context, id string) error
}

// MessageService interface for the chat log
type MessageService interface {
	List(ctx context.Context) ([]entities.Message, error)
	Append(ctx context.Context, message entities.Message) ([]entities.Message, error)
}

// CreateProductRequest carries the raw creation input. Numeric fields
// arrive as strings from forms and as either type from JSON clients, so
// they are kept untyped until normalization.
type CreateProductRequest struct {
	Name        string `json:"name" form:"name"`
	Title       string `json:"title" form:"title"`
	Category    string `json:"category" form:"category"`
	Subcategory string `json:"subcategory" form:"subcategory"`
	Description string `json:"description" form:"description"`
	Price       any    `json:"price"`
	Stock       any    `json:"stock"`
	Thumbnail   string `json:"thumbnail" form:"thumbnail"`
}

// DisplayName resolves the name/title duality of the two creation
// surfaces: the page form posts "name", the API posts "title".
func (r CreateProductRequest) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Title
}

// ProductPatch is a partial update. Empty strings mean "field absent,
// keep the stored value"; numeric fields are overlaid only when their
// representation parses.
type ProductPatch struct {
	Timestamp   string `json:"timestamp" form:"timestamp"`
	Category    string `json:"category" form:"category"`
	Subcategory string `json:"subcategory" form:"subcategory"`
	Name        string `json:"name" form:"name"`
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Price       any    `json:"price"`
	Stock       any    `json:"stock"`
	Thumbnail   string `json:"thumbnail" form:"thumbnail"`
}

// DisplayName returns whichever of name/title the caller supplied.
func (p ProductPatch) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Title
}
