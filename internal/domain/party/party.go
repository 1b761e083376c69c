package party

import (
	"regexp"
	"strings"
	"time"

	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/shared"
)

// Type classifies a party.
type Type string

const (
	TypeIndividual Type = "Individual"
	TypeCompany    Type = "Company"
)

// TradeRole is the side of trade a party sits on.
type TradeRole string

const (
	RoleBuyer  TradeRole = "Buyer"
	RoleSeller TradeRole = "Seller"
)

// Party is a customer or counterparty record. Its customer identifier is
// allocated from the party numbering space at creation time.
//
// Identifier policy: mutable. Updating identity-relevant attributes
// (type, company name, consignee names) re-derives and reassigns the
// customer identifier; see Service.Update.
type Party struct {
	shared.BaseAggregateRoot
	CustomerID     string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	Type           Type      `gorm:"type:varchar(20);not null;default:'Individual'"`
	TradeRole      TradeRole `gorm:"type:varchar(20)"`
	CompanyName    string    `gorm:"type:varchar(200)"`
	ConsigneeNames string    `gorm:"type:text"` // newline-separated list
	ContactNumber  string    `gorm:"type:varchar(50)"`
	Email          string    `gorm:"type:varchar(200);index"`
	GSTIN          string    `gorm:"type:varchar(20)"`
	ShippedTo      string    `gorm:"type:text"`
	BillTo         string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Party) TableName() string {
	return "parties"
}

// NewParty creates a party with an already-allocated customer identifier.
func NewParty(customerID numbering.Identifier, partyType Type, companyName string, consigneeNames []string) (*Party, error) {
	if customerID == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_ID", "Customer ID cannot be empty")
	}
	if err := validateType(partyType); err != nil {
		return nil, err
	}
	if partyType == TypeCompany && strings.TrimSpace(companyName) == "" && len(consigneeNames) == 0 {
		return nil, shared.NewDomainError("INVALID_PARTY", "Company parties need a company name or a consignee")
	}

	return &Party{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID.String(),
		Type:              partyType,
		CompanyName:       strings.TrimSpace(companyName),
		ConsigneeNames:    joinConsignees(consigneeNames),
	}, nil
}

// Consignees returns the consignee names as a slice.
func (p *Party) Consignees() []string {
	if p.ConsigneeNames == "" {
		return nil
	}
	return strings.Split(p.ConsigneeNames, "\n")
}

// Prefix derives the identifier prefix for this party's current attributes.
func (p *Party) Prefix() numbering.Prefix {
	return numbering.PartyPrefix(string(p.Type), p.CompanyName, p.Consignees())
}

// UpdateIdentity replaces the identity-relevant attributes. It reports
// whether the identifier prefix changed, in which case the caller must
// reassign the customer identifier.
func (p *Party) UpdateIdentity(partyType Type, companyName string, consigneeNames []string) (bool, error) {
	if err := validateType(partyType); err != nil {
		return false, err
	}
	oldPrefix := p.Prefix()

	p.Type = partyType
	p.CompanyName = strings.TrimSpace(companyName)
	p.ConsigneeNames = joinConsignees(consigneeNames)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return p.Prefix() != oldPrefix, nil
}

// ReassignIdentifier overwrites the customer identifier after an identity
// change. Deliberate policy carried from the party update flow: the
// identifier follows the party's current attributes.
func (p *Party) ReassignIdentifier(customerID numbering.Identifier) error {
	if customerID == "" {
		return shared.NewDomainError("INVALID_CUSTOMER_ID", "Customer ID cannot be empty")
	}
	p.CustomerID = customerID.String()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetContact sets contact details.
func (p *Party) SetContact(contactNumber, email string) error {
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}
	p.ContactNumber = contactNumber
	p.Email = email
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetTradeRole sets the buyer/seller role.
func (p *Party) SetTradeRole(role TradeRole) error {
	switch role {
	case RoleBuyer, RoleSeller, "":
	default:
		return shared.NewDomainError("INVALID_ROLE", "Trade role must be 'Buyer' or 'Seller'")
	}
	p.TradeRole = role
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetAddresses sets the shipping and billing addresses.
func (p *Party) SetAddresses(shippedTo, billTo string) {
	p.ShippedTo = shippedTo
	p.BillTo = billTo
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetGSTIN sets the GST identification number.
func (p *Party) SetGSTIN(gstin string) error {
	if gstin != "" && len(gstin) > 20 {
		return shared.NewDomainError("INVALID_GSTIN", "GSTIN cannot exceed 20 characters")
	}
	p.GSTIN = strings.ToUpper(gstin)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

func joinConsignees(names []string) string {
	trimmed := make([]string, 0, len(names))
	for _, n := range names {
		if s := strings.TrimSpace(n); s != "" {
			trimmed = append(trimmed, s)
		}
	}
	return strings.Join(trimmed, "\n")
}

func validateType(t Type) error {
	switch t {
	case TypeIndividual, TypeCompany:
		return nil
	default:
		return shared.NewDomainError("INVALID_TYPE", "Party type must be 'Individual' or 'Company'")
	}
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if len(email) > 200 || !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
