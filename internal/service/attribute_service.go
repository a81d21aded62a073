package service

import (
	"context"
	"time"

	"product-catalog/internal/domain"
	"product-catalog/internal/repository"

	"github.com/google/uuid"
)

// AttributeInput carries the writable attribute fields
type AttributeInput struct {
	Name      string
	IsVisible bool
	IsVariant bool
}

// AttributeService defines the interface for attribute business logic
type AttributeService interface {
	Create(ctx context.Context, input AttributeInput) (*domain.Attribute, error)
	Update(ctx context.Context, id uuid.UUID, input AttributeInput) (*domain.Attribute, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Attribute, error)
	List(ctx context.Context, filter repository.AttributeFilter) ([]*domain.Attribute, error)
}

type attributeService struct {
	attributeRepo repository.AttributeRepository
	now           func() time.Time
}

// NewAttributeService creates a new instance of AttributeService
func NewAttributeService(attributeRepo repository.AttributeRepository) AttributeService {
	return &attributeService{
		attributeRepo: attributeRepo,
		now:           time.Now,
	}
}

func (s *attributeService) Create(ctx context.Context, input AttributeInput) (*domain.Attribute, error) {
	attribute := &domain.Attribute{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      input.Name,
		IsVisible: input.IsVisible,
		IsVariant: input.IsVariant,
	}
	stamp(s.now, attribute)

	if err := s.attributeRepo.Create(ctx, attribute); err != nil {
		return nil, err
	}

	return attribute, nil
}

func (s *attributeService) Update(ctx context.Context, id uuid.UUID, input AttributeInput) (*domain.Attribute, error) {
	attribute, err := s.attributeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	attribute.Name = input.Name
	attribute.IsVisible = input.IsVisible
	attribute.IsVariant = input.IsVariant
	stamp(s.now, attribute)

	if err := s.attributeRepo.Update(ctx, attribute); err != nil {
		return nil, err
	}

	return attribute, nil
}

// Delete removes an attribute and every product link using it
func (s *attributeService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.attributeRepo.Delete(ctx, id)
}

func (s *attributeService) Get(ctx context.Context, id uuid.UUID) (*domain.Attribute, error) {
	return s.attributeRepo.FindByID(ctx, id)
}

func (s *attributeService) List(ctx context.Context, filter repository.AttributeFilter) ([]*domain.Attribute, error) {
	return s.attributeRepo.List(ctx, filter)
}
