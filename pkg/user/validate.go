package user

import (
	"imovelhub/pkg/customerror"
	"net/mail"
	"strings"
)

const requiredMessage = "field is required"

// ValidateSubmission checks the registration data a professional sends for review.
func ValidateSubmission(accountType AccountType, phone string, professional Professional) error {
	fields := customerror.ValidationErrors{}
	if accountType != AccountCorretor && accountType != AccountImobiliaria {
		fields["account_type"] = "only brokers and agencies submit registration data"
		return fields
	}
	required := map[string]string{
		"phone":                phone,
		"document_type":        professional.DocumentType,
		"document_number":      professional.DocumentNumber,
		"document_url":         professional.DocumentUrl,
		"years_of_experience":  professional.YearsOfExperience,
		"service_regions":      professional.ServiceRegions,
		"specialties":          professional.Specialties,
		"contact_preference":   professional.ContactPreference,
		"creci_number":         professional.CreciNumber,
		"creci_state":          professional.CreciState,
		"proof_of_address_url": professional.ProofOfAddressUrl,
	}
	if accountType == AccountImobiliaria {
		required["company_name"] = professional.CompanyName
		required["cnpj"] = professional.Cnpj
		required["team_size"] = professional.TeamSize
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			fields[field] = requiredMessage
		}
	}
	return fields.OrNil()
}

// ValidateRegistration checks the sign up form.
func ValidateRegistration(name, email, password string, accountType AccountType) error {
	fields := customerror.ValidationErrors{}
	if strings.TrimSpace(name) == "" {
		fields["name"] = requiredMessage
	}
	if _, err := mail.ParseAddress(email); err != nil {
		fields["email"] = "invalid email"
	}
	if problem := passwordProblem(password); problem != "" {
		fields["password"] = problem
	}
	if !accountType.Valid() {
		fields["account_type"] = "must be particular, corretor or imobiliaria"
	}
	return fields.OrNil()
}

// bcrypt refuses longer input.
const maxPasswordBytes = 72

func passwordProblem(password string) string {
	if len(password) < 6 {
		return "password must have at least 6 characters"
	}
	if len(password) > maxPasswordBytes {
		return "password must have at most 72 bytes"
	}
	return ""
}

// ValidatePassword checks a new password on its own, as on reset.
func ValidatePassword(password string) error {
	if problem := passwordProblem(password); problem != "" {
		return customerror.ValidationErrors{"password": problem}
	}
	return nil
}
