package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bonus-tma/internal/data/entity"
	"bonus-tma/internal/data/repository"
	"bonus-tma/internal/dto/request"
	"bonus-tma/internal/dto/response"
	"bonus-tma/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CatalogService interface {
	ListActive(ctx context.Context) (*response.ServiceListResponse, error)

	ListAll(ctx context.Context) (*response.ServiceListResponse, error)
	Create(ctx context.Context, req *request.CreateServiceRequest) (*response.ServiceEnvelope, error)
	Update(ctx context.Context, serviceID string, req *request.UpdateServiceRequest) (*response.ServiceEnvelope, error)
}

type catalogService struct {
	serviceRepo repository.ServiceRepository
	log         *zap.Logger
}

func NewCatalogService(serviceRepo repository.ServiceRepository, log *zap.Logger) CatalogService {
	return &catalogService{
		serviceRepo: serviceRepo,
		log:         log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) ListActive(ctx context.Context) (*response.ServiceListResponse, error) {
	services, err := s.serviceRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active services: %w", err)
	}

	resp := response.ServicesToResponse(services)
	return &resp, nil
}

func (s *catalogService) ListAll(ctx context.Context) (*response.ServiceListResponse, error) {
	services, err := s.serviceRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	resp := response.ServicesToResponse(services)
	return &resp, nil
}

func (s *catalogService) Create(ctx context.Context, req *request.CreateServiceRequest) (*response.ServiceEnvelope, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", utils.ErrValidation)
	}
	if req.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", utils.ErrValidation)
	}

	now := time.Now()
	service := &entity.Service{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:       title,
		Partner:     blankToNil(req.Partner),
		Price:       req.Price,
		Description: blankToNil(req.Description),
		Active:      true,
	}

	if err := s.serviceRepo.Create(ctx, service); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	s.log.Info("Service created",
		zap.String("service_id", service.ID.String()),
		zap.String("title", service.Title),
		zap.Int64("price", service.Price),
	)

	return &response.ServiceEnvelope{Service: response.ServiceToResponse(service)}, nil
}

func (s *catalogService) Update(ctx context.Context, serviceID string, req *request.UpdateServiceRequest) (*response.ServiceEnvelope, error) {
	id, err := uuid.Parse(serviceID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid service ID %s", utils.ErrValidation, serviceID)
	}
	if req.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", utils.ErrValidation)
	}

	var title *string
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: title must not be blank", utils.ErrValidation)
		}
		title = &trimmed
	}
	if req.Price != nil && *req.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", utils.ErrValidation)
	}

	// only the sent fields change; the row is locked while they are applied
	service, err := s.serviceRepo.Update(ctx, id, func(service *entity.Service) {
		if title != nil {
			service.Title = *title
		}
		if req.Partner != nil {
			service.Partner = blankToNil(req.Partner)
		}
		if req.Price != nil {
			service.Price = *req.Price
		}
		if req.Description != nil {
			service.Description = blankToNil(req.Description)
		}
		if req.Active != nil {
			service.Active = req.Active.Bool()
		}
		service.UpdatedAt = time.Now()
	})
	if err != nil {
		return nil, fmt.Errorf("update service: %w", err)
	}
	if service == nil {
		return nil, fmt.Errorf("%w: service %s", utils.ErrNotFound, serviceID)
	}

	s.log.Info("Service updated",
		zap.String("service_id", serviceID),
		zap.Bool("active", service.Active),
	)

	return &response.ServiceEnvelope{Service: response.ServiceToResponse(service)}, nil
}

// blankToNil stores empty optional text as NULL
func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
