package response

import (
	"time"

	"bonus-tma/internal/data/entity"
)

type PurchaseResponse struct {
	ID          string    `json:"id"`
	ServiceID   string    `json:"service_id"`
	Title       string    `json:"title"`
	Partner     *string   `json:"partner"`
	Description *string   `json:"description"`
	Price       int64     `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
}

// RedeemResponse reports the balance left after a redemption.
type RedeemResponse struct {
	Balance  int64            `json:"balance"`
	Purchase PurchaseResponse `json:"purchase"`
}

func PurchaseToResponse(p *entity.PurchaseDetail) PurchaseResponse {
	return PurchaseResponse{
		ID:          p.ID.String(),
		ServiceID:   p.ServiceID.String(),
		Title:       p.Title,
		Partner:     p.Partner,
		Description: p.Description,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
	}
}

func PurchasesToResponse(purchases []*entity.PurchaseDetail) PurchaseListResponse {
	items := make([]PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		items = append(items, PurchaseToResponse(p))
	}
	return PurchaseListResponse{Items: items}
}
