package entity

// Service is a partner offer that can be redeemed for bonus points.
// Services are hidden with Active=false, never deleted.
type Service struct {
	BaseNoDelete
	Title       string  `db:"title"`
	Partner     *string `db:"partner"`
	Price       int64   `db:"price"`
	Description *string `db:"description"`
	Active      bool    `db:"active"`
}
