package party

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParty(t *testing.T) {
	p, err := NewParty("AC001", TypeCompany, "Acme Industries", []string{"Ravi"})
	require.NoError(t, err)

	assert.Equal(t, "AC001", p.CustomerID)
	assert.Equal(t, TypeCompany, p.Type)
	assert.Equal(t, []string{"Ravi"}, p.Consignees())
	assert.Equal(t, 1, p.GetVersion())
}

func TestNewPartyValidation(t *testing.T) {
	_, err := NewParty("", TypeCompany, "Acme", nil)
	assert.Error(t, err)

	_, err = NewParty("CU001", "Partnership", "", nil)
	assert.Error(t, err)

	_, err = NewParty("CU001", TypeCompany, "  ", nil)
	assert.Error(t, err, "company party needs a name or consignee")
}

func TestUpdateIdentityReportsPrefixChange(t *testing.T) {
	p, err := NewParty("AC001", TypeCompany, "Acme Industries", nil)
	require.NoError(t, err)

	// Same leading characters, prefix unchanged.
	changed, err := p.UpdateIdentity(TypeCompany, "Acme Traders", nil)
	require.NoError(t, err)
	assert.False(t, changed)

	// Different leading characters, identifier must be reassigned.
	changed, err = p.UpdateIdentity(TypeCompany, "Zenith Corp", nil)
	require.NoError(t, err)
	assert.True(t, changed)

	require.NoError(t, p.ReassignIdentifier("ZE001"))
	assert.Equal(t, "ZE001", p.CustomerID)
}

func TestSetContactValidatesEmail(t *testing.T) {
	p, err := NewParty("CU001", TypeIndividual, "", []string{"Ravi"})
	require.NoError(t, err)

	assert.Error(t, p.SetContact("99999", "not-an-email"))
	assert.NoError(t, p.SetContact("99999", "ravi@example.com"))
	assert.Equal(t, "ravi@example.com", p.Email)
}
