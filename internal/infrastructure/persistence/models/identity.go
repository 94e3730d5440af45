package models

import (
	"time"

	"github.com/invoicing/backend/internal/domain/identity"
	"github.com/invoicing/backend/internal/domain/shared/valueobject"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	AggregateModel
	Email             string               `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash      string               `gorm:"type:varchar(100);not null"`
	Name              string               `gorm:"type:varchar(200);not null"`
	BusinessName      string               `gorm:"type:varchar(200)"`
	Address           string               `gorm:"type:text"`
	Phone             string               `gorm:"type:varchar(50)"`
	Currency          valueobject.Currency `gorm:"type:varchar(3);not null;default:'IDR'"`
	Status            identity.UserStatus  `gorm:"type:varchar(20);not null;default:'pending'"`
	EmailVerifiedAt   *time.Time
	LastLoginAt       *time.Time
	FailedAttempts    int `gorm:"not null;default:0"`
	LockedUntil       *time.Time
	PasswordChangedAt *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Name:              m.Name,
		BusinessName:      m.BusinessName,
		Address:           m.Address,
		Phone:             m.Phone,
		Currency:          m.Currency,
		Status:            m.Status,
		EmailVerifiedAt:   m.EmailVerifiedAt,
		LastLoginAt:       m.LastLoginAt,
		FailedAttempts:    m.FailedAttempts,
		LockedUntil:       m.LockedUntil,
		PasswordChangedAt: m.PasswordChangedAt,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.Name = u.Name
	m.BusinessName = u.BusinessName
	m.Address = u.Address
	m.Phone = u.Phone
	m.Currency = u.Currency
	m.Status = u.Status
	m.EmailVerifiedAt = u.EmailVerifiedAt
	m.LastLoginAt = u.LastLoginAt
	m.FailedAttempts = u.FailedAttempts
	m.LockedUntil = u.LockedUntil
	m.PasswordChangedAt = u.PasswordChangedAt
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
