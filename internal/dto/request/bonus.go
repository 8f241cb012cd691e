package request

// CreditBonusRequest adjusts the balance of the user owning Phone.
// Negative amounts are corrections and may not take the balance below zero.
type CreditBonusRequest struct {
	Phone  string  `json:"phone" validate:"required,e164"`
	Amount int64   `json:"amount" validate:"ne=0"`
	Note   *string `json:"note,omitempty" validate:"omitempty,max=500"`
}
