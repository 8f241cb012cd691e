package request

type SetPhoneRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
}

type RedeemRequest struct {
	ServiceID string `json:"serviceId" validate:"required,uuid"`
}
