package store

import (
	"strings"
	"time"

	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/shared"
)

// Store is a retail outlet record.
//
// Identifier policy: immutable after creation.
type Store struct {
	shared.BaseAggregateRoot
	StoreID      string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string `gorm:"type:varchar(200);not null"`
	AddressLine1 string `gorm:"type:text;not null"`
	AddressLine2 string `gorm:"type:text"`
	PinCode      string `gorm:"type:varchar(10)"`
	City         string `gorm:"type:varchar(100);not null"`
	State        string `gorm:"type:varchar(100);not null"`
	Approved     bool   `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (Store) TableName() string {
	return "stores"
}

// NewStore creates a store with an already-allocated identifier.
func NewStore(storeID numbering.Identifier, name, addressLine1, city, state string) (*Store, error) {
	if storeID == "" {
		return nil, shared.NewDomainError("INVALID_STORE_ID", "Store ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Store name cannot be empty")
	}
	if strings.TrimSpace(addressLine1) == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address line 1 cannot be empty")
	}
	if strings.TrimSpace(city) == "" {
		return nil, shared.NewDomainError("INVALID_CITY", "City cannot be empty")
	}
	if strings.TrimSpace(state) == "" {
		return nil, shared.NewDomainError("INVALID_STATE", "State cannot be empty")
	}

	return &Store{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StoreID:           storeID.String(),
		Name:              name,
		AddressLine1:      strings.TrimSpace(addressLine1),
		City:              strings.TrimSpace(city),
		State:             strings.TrimSpace(state),
	}, nil
}

// Update replaces the store's editable details.
func (s *Store) Update(name, addressLine1, addressLine2, pinCode, city, state string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Store name cannot be empty")
	}
	s.Name = name
	s.AddressLine1 = addressLine1
	s.AddressLine2 = addressLine2
	s.PinCode = pinCode
	s.City = city
	s.State = state
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// SetApproved sets the approval flag. Updates by non-super users always
// reset it to false.
func (s *Store) SetApproved(approved bool) {
	s.Approved = approved
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
