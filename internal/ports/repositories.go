package ports

import (
	"context"

	"github.com/storefront/catalog/internal/domain/entities"
)

// ProductRepository defines the interface for product persistence. Every
// call re-reads the backing file; there is no cross-request cache.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]entities.Product, error)
	GetByID(ctx context.Context, id string) (entities.Product, error)
	Save(ctx context.Context, product entities.Product) (entities.Product, error)
	Update(ctx context.Context, product entities.Product) (entities.Product, error)
	DeleteByID(ctx context.Context, id string) error
}

// MessageRepository defines the interface for the ordered chat log.
type MessageRepository interface {
	GetAll(ctx context.Context) ([]entities.Message, error)
	Append(ctx context.Context, message entities.Message) ([]entities.Message, error)
}
