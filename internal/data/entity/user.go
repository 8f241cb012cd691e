package entity

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is a loyalty program member. TelegramID stays nil for rows created by an
// admin bonus credit.
type User struct {
	BaseSimple
	TelegramID *string  `db:"tg_id"`
	Phone      *string  `db:"phone"`
	Balance    int64    `db:"balance"`
	Role       UserRole `db:"role"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
