package user

import (
	"imovelhub/pkg/customerror"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func brokerData() Professional {
	return Professional{
		CreciNumber:       "12345-F",
		CreciState:        "RJ",
		DocumentType:      "creci_fisico",
		DocumentNumber:    "12345",
		DocumentUrl:       "https://example.com/creci.pdf",
		ProofOfAddressUrl: "https://example.com/address.pdf",
		YearsOfExperience: "8",
		ServiceRegions:    "Zona Sul",
		Specialties:       "Residencial",
		ContactPreference: "whatsapp",
	}
}

func TestValidateSubmissionBroker(t *testing.T) {
	assert.NoError(t, ValidateSubmission(AccountCorretor, "21912345678", brokerData()))

	data := brokerData()
	data.CreciNumber = ""
	var fields customerror.ValidationErrors
	require.ErrorAs(t, ValidateSubmission(AccountCorretor, "", data), &fields)
	assert.Equal(t, requiredMessage, fields["creci_number"])
	assert.Equal(t, requiredMessage, fields["phone"])
	assert.Len(t, fields, 2)
}

func TestValidateSubmissionAgencyNeedsCompanyData(t *testing.T) {
	var fields customerror.ValidationErrors
	require.ErrorAs(t, ValidateSubmission(AccountImobiliaria, "31988776655", brokerData()), &fields)
	for _, key := range []string{"company_name", "cnpj", "team_size"} {
		assert.Contains(t, fields, key)
	}

	data := brokerData()
	data.CompanyName = "Imobiliária Dias Ltda."
	data.Cnpj = "12.345.678/0001-90"
	data.TeamSize = "18"
	assert.NoError(t, ValidateSubmission(AccountImobiliaria, "31988776655", data))
}

func TestValidateSubmissionRejectsPrivateAccounts(t *testing.T) {
	var fields customerror.ValidationErrors
	require.ErrorAs(t, ValidateSubmission(AccountParticular, "1", brokerData()), &fields)
	assert.Contains(t, fields, "account_type")
}

func TestValidateRegistration(t *testing.T) {
	assert.NoError(t, ValidateRegistration("Ana", "ana@email.com", "password123", AccountParticular))

	var fields customerror.ValidationErrors
	require.ErrorAs(t, ValidateRegistration(" ", "not-an-email", "123", "investidor"), &fields)
	assert.Len(t, fields, 4)
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword(strings.Repeat("a", 72)))

	var fields customerror.ValidationErrors
	require.ErrorAs(t, ValidatePassword(strings.Repeat("a", 73)), &fields)
	assert.Contains(t, fields, "password")
	require.ErrorAs(t, ValidatePassword("12345"), &fields)
	assert.Contains(t, fields, "password")
}

func TestPatchAdminFields(t *testing.T) {
	name := "Ana Maria"
	assert.False(t, Patch{Name: &name}.TouchesAdminFields())
	status := StatusBlocked
	patch := Patch{Status: &status}
	assert.True(t, patch.TouchesAdminFields())

	account := User{Name: "Ana", Status: StatusActive}
	account.Apply(patch)
	assert.True(t, account.IsBlocked())
}
