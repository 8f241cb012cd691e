package response

import (
	"time"

	"bonus-tma/internal/data/entity"
)

type ServiceResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Partner     *string   `json:"partner"`
	Price       int64     `json:"price"`
	Description *string   `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

type ServiceEnvelope struct {
	Service ServiceResponse `json:"service"`
}

func ServiceToResponse(service *entity.Service) ServiceResponse {
	return ServiceResponse{
		ID:          service.ID.String(),
		Title:       service.Title,
		Partner:     service.Partner,
		Price:       service.Price,
		Description: service.Description,
		Active:      service.Active,
		CreatedAt:   service.CreatedAt,
		UpdatedAt:   service.UpdatedAt,
	}
}

func ServicesToResponse(services []*entity.Service) ServiceListResponse {
	out := make([]ServiceResponse, 0, len(services))
	for _, s := range services {
		out = append(out, ServiceToResponse(s))
	}
	return ServiceListResponse{Services: out}
}
