// Package models contains data structures for the application's domain models.
package models

import "time"

// LoginType distinguishes password accounts from accounts backed by a social provider.
type LoginType string

const (
	LoginTypeNormal LoginType = "normal"
	LoginTypeSocial LoginType = "social"
)

// User is an identity and credential holder. Rows are never physically removed.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Fullname    string    `gorm:"size:100" json:"fullname"`
	Username    string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email       string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password    *string   `gorm:"size:255" json:"-"`
	CountryCode string    `gorm:"size:10" json:"country_code"`
	Phone       *string   `gorm:"size:20;uniqueIndex" json:"phone"`
	ProfilePic  string    `gorm:"size:255" json:"profile_pic"`
	LoginType   LoginType `gorm:"size:10;not null;default:normal" json:"login_type"`
	SocialID    *string   `gorm:"size:255" json:"-"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	IsVerified  bool      `gorm:"not null;default:false" json:"is_verified"`
	IsLogin     bool      `gorm:"not null;default:false" json:"is_login"`
	IsDeleted   bool      `gorm:"not null;default:false" json:"is_deleted"`
	Step        int       `gorm:"not null;default:0" json:"step"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName keeps the historical table name.
func (User) TableName() string { return "tbl_user" }

// IsNormalLogin reports whether the account authenticates with a password.
func (u *User) IsNormalLogin() bool {
	return u.LoginType == LoginTypeNormal
}

// PasswordHash returns the stored hash, or "" for social accounts.
func (u *User) PasswordHash() string {
	if u.Password == nil {
		return ""
	}
	return *u.Password
}

// PhoneNumber returns the phone number, or "" when none is stored.
func (u *User) PhoneNumber() string {
	if u.Phone == nil {
		return ""
	}
	return *u.Phone
}
