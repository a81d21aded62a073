package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"product-catalog/internal/domain"
	"product-catalog/internal/repository"

	"github.com/google/uuid"
)

// ProductAttributeInput carries the writable fields of a single product-attribute link
type ProductAttributeInput struct {
	ProductID   uuid.UUID
	AttributeID uuid.UUID
	Value       string
}

// ProductAttributeService manages individual product-attribute links
type ProductAttributeService interface {
	Create(ctx context.Context, input ProductAttributeInput) (*domain.ProductAttribute, error)
	Update(ctx context.Context, id uuid.UUID, input ProductAttributeInput) (*domain.ProductAttribute, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*domain.ProductAttribute, error)
	List(ctx context.Context, filter repository.ProductAttributeFilter) ([]*domain.ProductAttribute, error)
}

type productAttributeService struct {
	repos repository.Repositories
	now   func() time.Time
}

// NewProductAttributeService creates a new instance of ProductAttributeService
func NewProductAttributeService(repos repository.Repositories) ProductAttributeService {
	return &productAttributeService{
		repos: repos,
		now:   time.Now,
	}
}

func (s *productAttributeService) Create(ctx context.Context, input ProductAttributeInput) (*domain.ProductAttribute, error) {
	link := &domain.ProductAttribute{ID: uuid.Must(uuid.NewV7())}
	if err := s.resolve(ctx, link, input); err != nil {
		return nil, err
	}
	stamp(s.now, link)

	if err := s.repos.ProductAttributes.Create(ctx, link); err != nil {
		return nil, err
	}

	return link, nil
}

func (s *productAttributeService) Update(ctx context.Context, id uuid.UUID, input ProductAttributeInput) (*domain.ProductAttribute, error) {
	link, err := s.repos.ProductAttributes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.resolve(ctx, link, input); err != nil {
		return nil, err
	}
	stamp(s.now, link)

	if err := s.repos.ProductAttributes.Update(ctx, link); err != nil {
		return nil, err
	}

	return link, nil
}

func (s *productAttributeService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repos.ProductAttributes.Delete(ctx, id)
}

func (s *productAttributeService) Get(ctx context.Context, id uuid.UUID) (*domain.ProductAttribute, error) {
	return s.repos.ProductAttributes.FindByID(ctx, id)
}

func (s *productAttributeService) List(ctx context.Context, filter repository.ProductAttributeFilter) ([]*domain.ProductAttribute, error) {
	return s.repos.ProductAttributes.List(ctx, filter)
}

// resolve checks both references and copies input onto link
func (s *productAttributeService) resolve(ctx context.Context, link *domain.ProductAttribute, input ProductAttributeInput) error {
	if _, err := s.repos.Products.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return fmt.Errorf("%w: product %s", repository.ErrInvalidReference, input.ProductID)
		}
		return err
	}

	attribute, err := s.repos.Attributes.FindByID(ctx, input.AttributeID)
	if err != nil {
		if errors.Is(err, repository.ErrAttributeNotFound) {
			return fmt.Errorf("%w: attribute %s", repository.ErrInvalidReference, input.AttributeID)
		}
		return err
	}

	link.ProductID = input.ProductID
	link.AttributeID = attribute.ID
	link.Value = input.Value
	link.Attribute = *attribute
	return nil
}
