package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/asaskevich/EventBus"
	"github.com/spf13/cast"

	"github.com/storefront/catalog/internal/domain/entities"
	"github.com/storefront/catalog/internal/infrastructure/logger"
	"github.com/storefront/catalog/internal/ports"
)

// Bus topics published after successful mutations. The realtime
// coordinator subscribes to these to fan fresh state out to clients.
const (
	TopicProductsChanged = "products:changed"
	TopicMessagesChanged = "messages:changed"
)

// ProductService handles catalog operations: input normalization,
// field-merge semantics for partial updates, and change notification.
type ProductService struct {
	repo   ports.ProductRepository
	bus    EventBus.Bus
	logger *logger.Logger
}

// NewProductService creates a new product service
func NewProductService(repo ports.ProductRepository, bus EventBus.Bus, logger *logger.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

// List returns the full product collection.
func (s *ProductService) List(ctx context.Context) ([]entities.Product, error) {
	return s.repo.GetAll(ctx)
}

// Get returns a single product by ID.
func (s *ProductService) Get(ctx context.Context, id string) (entities.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Create normalizes and validates the creation input, persists the new
// record, and announces the change. Name (or title), price and thumbnail
// are required; a malformed number is a hard failure here, unlike Edit.
func (s *ProductService) Create(ctx context.Context, req ports.CreateProductRequest) (entities.Product, error) {
	name := strings.TrimSpace(req.DisplayName())
	thumbnail := strings.TrimSpace(req.Thumbnail)
	if name == "" || thumbnail == "" || isAbsent(req.Price) {
		return entities.Product{}, entities.ErrMissingFields
	}

	price, err := cast.ToFloat64E(req.Price)
	if err != nil {
		return entities.Product{}, fmt.Errorf("%w: price %v", entities.ErrBadNumber, req.Price)
	}
	if price == 0 {
		// A bare JSON zero fails the required-price check, but the
		// form's "0" string is a supplied value and is stored as is.
		if _, supplied := req.Price.(string); !supplied {
			return entities.Product{}, entities.ErrMissingFields
		}
	}

	stock := 0
	if !isAbsent(req.Stock) {
		stock, err = cast.ToIntE(req.Stock)
		if err != nil {
			return entities.Product{}, fmt.Errorf("%w: stock %v", entities.ErrBadNumber, req.Stock)
		}
	}

	product := entities.Product{
		Category:    strings.TrimSpace(req.Category),
		Subcategory: orBlank(req.Subcategory),
		Name:        name,
		Description: orBlank(req.Description),
		Price:       price,
		Stock:       stock,
		Thumbnail:   thumbnail,
	}

	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return entities.Product{}, err
	}

	s.logger.Infow("Product created", "id", saved.ID, "name", saved.Name)
	s.bus.Publish(TopicProductsChanged)
	return saved, nil
}

// Edit overlays the patch onto the stored record. Fields absent from the
// patch keep their prior values. Numeric fields are overlaid only when
// their supplied representation parses; an unparseable number silently
// keeps the old value rather than failing the whole edit.
func (s *ProductService) Edit(ctx context.Context, id string, patch ports.ProductPatch) (entities.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Product{}, err
	}

	product.Timestamp = entities.NewTimestamp()
	if patch.Timestamp != "" {
		product.Timestamp = patch.Timestamp
	}
	if v := strings.TrimSpace(patch.DisplayName()); v != "" {
		product.Name = v
	}
	if patch.Category != "" {
		product.Category = patch.Category
	}
	if patch.Subcategory != "" {
		product.Subcategory = patch.Subcategory
	}
	if patch.Description != "" {
		product.Description = patch.Description
	}
	if patch.Thumbnail != "" {
		product.Thumbnail = patch.Thumbnail
	}
	if !isAbsent(patch.Price) {
		if price, err := cast.ToFloat64E(patch.Price); err == nil {
			product.Price = price
		}
	}
	if !isAbsent(patch.Stock) {
		if stock, err := cast.ToIntE(patch.Stock); err == nil {
			product.Stock = stock
		}
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return entities.Product{}, err
	}

	s.logger.Infow("Product edited", "id", updated.ID)
	s.bus.Publish(TopicProductsChanged)
	return updated, nil
}

// Delete removes a product and announces the change.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("Product deleted", "id", id)
	s.bus.Publish(TopicProductsChanged)
	return nil
}

// isAbsent reports whether an untyped numeric input was not supplied.
func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// orBlank keeps the historical single-space placeholder for optional
// text fields the caller left empty.
func orBlank(v string) string {
	if strings.TrimSpace(v) == "" {
		return entities.BlankField
	}
	return v
}

var _ ports.ProductService = (*ProductService)(nil)
