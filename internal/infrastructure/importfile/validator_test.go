package importfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func storeRules() []FieldRule {
	return []FieldRule{
		Field("name").Required().Build(),
		Field("address_line1").Required().Build(),
		Field("city").Required().Build(),
		Field("state").Required().Build(),
	}
}

func makeRow(number int, data map[string]string) *Row {
	return &Row{Number: number, Data: data}
}

func TestValidateAllReportsFirstFailure(t *testing.T) {
	rows := []*Row{
		makeRow(1, map[string]string{"name": "Acme", "address_line1": "12 Main St", "city": "Pune", "state": "MH"}),
		makeRow(2, map[string]string{"name": "Globex", "address_line1": "9 Hill Rd", "city": "", "state": "MH"}),
		makeRow(3, map[string]string{"name": "", "address_line1": "", "city": "", "state": ""}),
	}

	v := NewFieldValidator(storeRules(), 100)
	first := v.ValidateAll(rows)

	require.NotNil(t, first)
	assert.Equal(t, 2, first.Row)
	assert.Equal(t, "city", first.Field)
	assert.Equal(t, ErrCodeImportRequiredField, first.Code)
}

func TestValidateAllPassesCleanRows(t *testing.T) {
	rows := []*Row{
		makeRow(1, map[string]string{"name": "Acme", "address_line1": "12 Main St", "city": "Pune", "state": "MH"}),
		makeRow(2, map[string]string{"name": "Globex", "address_line1": "9 Hill Rd", "city": "Mumbai", "state": "MH"}),
	}

	v := NewFieldValidator(storeRules(), 100)
	assert.Nil(t, v.ValidateAll(rows))
	assert.False(t, v.Errors().HasErrors())
}

func TestValidateRowChecksRulesInDeclarationOrder(t *testing.T) {
	// Two failing fields in one row: the reported failure is always the
	// first declared rule, not whichever a map yields first.
	row := makeRow(1, map[string]string{"name": "", "address_line1": "", "city": "Pune", "state": "MH"})

	for range 20 {
		v := NewFieldValidator(storeRules(), 100)
		v.ValidateRow(row)
		first := v.Errors().First()
		require.NotNil(t, first)
		assert.Equal(t, "name", first.Field)
	}
}

func TestValidateRowTypeChecks(t *testing.T) {
	rules := []FieldRule{
		Field("name").Required().Build(),
		Field("quantity").Required().Int().Build(),
		Field("price").Required().Decimal().Build(),
		Field("email").Email().Build(),
	}

	t.Run("Invalid int", func(t *testing.T) {
		v := NewFieldValidator(rules, 100)
		v.ValidateRow(makeRow(1, map[string]string{"name": "Bolt", "quantity": "ten", "price": "5.50"}))

		first := v.Errors().First()
		require.NotNil(t, first)
		assert.Equal(t, "quantity", first.Field)
		assert.Equal(t, ErrCodeImportInvalidType, first.Code)
	})

	t.Run("Invalid decimal", func(t *testing.T) {
		v := NewFieldValidator(rules, 100)
		v.ValidateRow(makeRow(1, map[string]string{"name": "Bolt", "quantity": "10", "price": "abc"}))

		first := v.Errors().First()
		require.NotNil(t, first)
		assert.Equal(t, "price", first.Field)
	})

	t.Run("Empty optional field skipped", func(t *testing.T) {
		v := NewFieldValidator(rules, 100)
		ok := v.ValidateRow(makeRow(1, map[string]string{"name": "Bolt", "quantity": "10", "price": "5.50", "email": ""}))
		assert.True(t, ok)
	})
}

func TestValidateRowUniqueWithinFile(t *testing.T) {
	rules := []FieldRule{
		Field("email").Required().Email().Unique().Build(),
	}

	v := NewFieldValidator(rules, 100)
	assert.True(t, v.ValidateRow(makeRow(1, map[string]string{"email": "a@example.com"})))
	assert.True(t, v.ValidateRow(makeRow(2, map[string]string{"email": "b@example.com"})))
	assert.False(t, v.ValidateRow(makeRow(3, map[string]string{"email": "a@example.com"})))

	first := v.Errors().First()
	require.NotNil(t, first)
	assert.Equal(t, 3, first.Row)
	assert.Equal(t, ErrCodeImportDuplicateInFile, first.Code)
	assert.Contains(t, first.Message, "first seen in row 1")
}

func TestValidateRowCustomRule(t *testing.T) {
	rules := []FieldRule{
		Field("agent_type").Required().Custom(func(value string) error {
			if value != "buyer" && value != "supplier" {
				return assert.AnError
			}
			return nil
		}).Build(),
	}

	v := NewFieldValidator(rules, 100)
	assert.True(t, v.ValidateRow(makeRow(1, map[string]string{"agent_type": "buyer"})))
	assert.False(t, v.ValidateRow(makeRow(2, map[string]string{"agent_type": "wholesaler"})))
}

func TestValidatorReset(t *testing.T) {
	rules := []FieldRule{Field("name").Required().Unique().Build()}

	v := NewFieldValidator(rules, 100)
	v.ValidateRow(makeRow(1, map[string]string{"name": "Acme"}))
	v.ValidateRow(makeRow(2, map[string]string{"name": "Acme"}))
	assert.True(t, v.Errors().HasErrors())

	v.Reset()
	assert.False(t, v.Errors().HasErrors())
	assert.True(t, v.ValidateRow(makeRow(1, map[string]string{"name": "Acme"})))
}
