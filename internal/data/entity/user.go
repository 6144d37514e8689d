package entity

import "time"

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleSeller   UserRole = "seller"
	RoleAdmin    UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	Model
	Name               string     `db:"name"`
	Email              string     `db:"email"`
	PasswordHash       string     `db:"password_hash"`
	Role               UserRole   `db:"role"`
	ResetCode          *string    `db:"reset_code"`
	ResetCodeExpiresAt *time.Time `db:"reset_code_expires_at"`
	IsActive           bool       `db:"is_active"`
}

// ResetCodeValid reports whether code matches an unexpired reset code.
func (u *User) ResetCodeValid(code string, now time.Time) bool {
	if u.ResetCode == nil || u.ResetCodeExpiresAt == nil {
		return false
	}
	return *u.ResetCode == code && now.Before(*u.ResetCodeExpiresAt)
}
