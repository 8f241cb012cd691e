package response

import (
	"time"

	"bonus-tma/internal/data/entity"
)

type CreditResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Phone     string    `json:"phone"`
	Amount    int64     `json:"amount"`
	Note      *string   `json:"note"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type CreditListResponse struct {
	Items []CreditResponse `json:"items"`
}

func CreditToResponse(credit *entity.BonusCredit) CreditResponse {
	return CreditResponse{
		ID:        credit.ID.String(),
		UserID:    credit.UserID.String(),
		Phone:     credit.Phone,
		Amount:    credit.Amount,
		Note:      credit.Note,
		CreatedBy: credit.CreatedBy,
		CreatedAt: credit.CreatedAt,
	}
}

func CreditsToResponse(credits []*entity.BonusCredit) CreditListResponse {
	items := make([]CreditResponse, 0, len(credits))
	for _, c := range credits {
		items = append(items, CreditToResponse(c))
	}
	return CreditListResponse{Items: items}
}

// CreditResultResponse is returned after an admin credit.
type CreditResultResponse struct {
	User   UserResponse   `json:"user"`
	Credit CreditResponse `json:"credit"`
}
