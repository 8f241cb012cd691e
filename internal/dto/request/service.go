package request

import (
	"fmt"
	"strings"
)

type CreateServiceRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Partner     *string `json:"partner,omitempty" validate:"omitempty,max=100"`
	Price       int64   `json:"price" validate:"gt=0"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// UpdateServiceRequest is a partial update; absent fields keep their value.
type UpdateServiceRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Partner     *string `json:"partner,omitempty" validate:"omitempty,max=100"`
	Price       *int64  `json:"price,omitempty" validate:"omitempty,gt=0"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Active      *Flag   `json:"active,omitempty"`
}

func (r UpdateServiceRequest) IsEmpty() bool {
	return r.Title == nil && r.Partner == nil && r.Price == nil && r.Description == nil && r.Active == nil
}

// Flag is a boolean that also accepts 0 and 1, as the admin client sends
// when toggling a service.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch strings.TrimSpace(string(data)) {
	case "true", "1":
		*f = true
	case "false", "0":
		*f = false
	default:
		return fmt.Errorf("invalid flag %s", data)
	}
	return nil
}

func (f Flag) Bool() bool {
	return bool(f)
}
