package models

import (
	"time"

	"github.com/invoicing/backend/internal/domain/partner"
)

// ClientModel is the persistence model for the Client domain entity.
type ClientModel struct {
	OwnedAggregateModel
	Name              string                    `gorm:"type:varchar(200);not null"`
	Email             string                    `gorm:"type:varchar(200);index"`
	Phone             string                    `gorm:"type:varchar(50);index"`
	Address           string                    `gorm:"type:text"`
	PaymentPreference partner.PaymentPreference `gorm:"type:varchar(20);not null;default:'TRANSFER'"`
	Notes             string                    `gorm:"type:text"`
	DeletedAt         *time.Time                `gorm:"index"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *partner.Client {
	return &partner.Client{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		Name:               m.Name,
		Email:              m.Email,
		Phone:              m.Phone,
		Address:            m.Address,
		PaymentPreference:  m.PaymentPreference,
		Notes:              m.Notes,
		DeletedAt:          m.DeletedAt,
	}
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *partner.Client) {
	m.FromDomainOwnedAggregateRoot(c.OwnedAggregateRoot)
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
	m.Address = c.Address
	m.PaymentPreference = c.PaymentPreference
	m.Notes = c.Notes
	m.DeletedAt = c.DeletedAt
}

// ClientModelFromDomain creates a new persistence model from a domain Client entity.
func ClientModelFromDomain(c *partner.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}
