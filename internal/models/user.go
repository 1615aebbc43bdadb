package models

import "time"

// User represents the user model in the database. The password column holds
// a bcrypt hash and is never serialized. LoginAttempts counts consecutive
// failed logins; it is advisory only and no threshold blocks a login.
type User struct {
	Base
	Username         string     `gorm:"uniqueIndex;not null" json:"username"`
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	Password         string     `gorm:"not null" json:"-"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	LoginAttempts    int        `gorm:"default:0" json:"login_attempts"`
	LastLoginAttempt *time.Time `json:"last_login_attempt,omitempty"`
	Accounts         []Account  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"accounts,omitempty"`
}
