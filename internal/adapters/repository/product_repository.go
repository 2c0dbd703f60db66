package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/storefront/catalog/internal/domain/entities"
	"github.com/storefront/catalog/internal/infrastructure/logger"
	"github.com/storefront/catalog/internal/ports"
)

// ProductFileRepository implements ProductRepository on top of a single
// JSON file holding the whole collection. Every operation takes the
// repository's mutex: mutations are a read-modify-write of the full
// file, and reads hold the same lock so overlapping writers cannot
// lose updates and readers never observe a rewrite in flight. The
// file itself stays the source of truth: reads always go back to disk.
type ProductFileRepository struct {
	path string
	log  *logger.Logger
	mu   sync.Mutex
}

// NewProductFileRepository creates a repository backed by the given file.
func NewProductFileRepository(path string, log *logger.Logger) *ProductFileRepository {
	return &ProductFileRepository{path: path, log: log.WithComponent("store")}
}

// Path returns the backing file path.
func (r *ProductFileRepository) Path() string {
	return r.path
}

func (r *ProductFileRepository) GetAll(ctx context.Context) ([]entities.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readAll()
}

func (r *ProductFileRepository) GetByID(ctx context.Context, id string) (entities.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.readAll()
	if err != nil {
		return entities.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return entities.Product{}, entities.ErrProductNotFound
}

func (r *ProductFileRepository) Save(ctx context.Context, product entities.Product) (entities.Product, error) {
	if !product.Valid() {
		return entities.Product{}, entities.ErrMissingFields
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.readAll()
	if err != nil {
		return entities.Product{}, err
	}

	product.ID = uuid.NewString()
	for hasID(products, product.ID) {
		product.ID = uuid.NewString()
	}
	if product.Timestamp == "" {
		product.Timestamp = entities.NewTimestamp()
	}

	products = append(products, product)
	if err := r.writeAll(products); err != nil {
		return entities.Product{}, err
	}
	return product, nil
}

func (r *ProductFileRepository) Update(ctx context.Context, product entities.Product) (entities.Product, error) {
	if !product.Valid() {
		return entities.Product{}, entities.ErrMissingFields
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.readAll()
	if err != nil {
		return entities.Product{}, err
	}

	found := false
	for i, p := range products {
		if p.ID == product.ID {
			products[i] = product
			found = true
			break
		}
	}
	if !found {
		return entities.Product{}, entities.ErrProductNotFound
	}

	if err := r.writeAll(products); err != nil {
		return entities.Product{}, err
	}
	return product, nil
}

func (r *ProductFileRepository) DeleteByID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.readAll()
	if err != nil {
		return err
	}

	remaining := products[:0]
	for _, p := range products {
		if p.ID != id {
			remaining = append(remaining, p)
		}
	}
	if len(remaining) == len(products) {
		return entities.ErrProductNotFound
	}

	return r.writeAll(remaining)
}

func (r *ProductFileRepository) readAll() ([]entities.Product, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		err = fmt.Errorf("%w: %s: %v", entities.ErrStorageRead, r.path, err)
		r.log.LogStoreOp("read", r.path, err)
		return nil, err
	}

	var products []entities.Product
	if err := json.Unmarshal(data, &products); err != nil {
		err = fmt.Errorf("%w: %s: %v", entities.ErrStorageRead, r.path, err)
		r.log.LogStoreOp("read", r.path, err)
		return nil, err
	}
	return products, nil
}

func (r *ProductFileRepository) writeAll(products []entities.Product) error {
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrStorageWrite, err)
	}
	if err := replaceFile(r.path, data); err != nil {
		err = fmt.Errorf("%w: %s: %v", entities.ErrStorageWrite, r.path, err)
		r.log.LogStoreOp("write", r.path, err)
		return err
	}
	r.log.LogStoreOp("write", r.path, nil)
	return nil
}

func hasID(products []entities.Product, id string) bool {
	for _, p := range products {
		if p.ID == id {
			return true
		}
	}
	return false
}

var _ ports.ProductRepository = (*ProductFileRepository)(nil)
