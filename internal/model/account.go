package model

import (
	"strings"
	"time"
)

// Account is a person who can log in and be attributed sales and adjustments.
type Account struct {
	BaseModel
	Username     string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	Role         Role       `gorm:"type:varchar(20);not null" json:"role"`
	FirstName    string     `gorm:"type:varchar(100)" json:"first_name"`
	LastName     string     `gorm:"type:varchar(100)" json:"last_name"`
	TokenVersion string     `gorm:"type:varchar(64);default:''" json:"-"` // For single session enforcement
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

func (a *Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Privileges derives codes from the stored role so role edits apply on the next request.
func (a *Account) Privileges() []string {
	return a.Role.Privileges()
}

func (a *Account) HasPrivilege(code string) bool {
	return a.Role.Can(code)
}
