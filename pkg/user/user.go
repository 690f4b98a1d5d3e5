package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type AccountType string

const (
	AccountParticular  AccountType = "particular"
	AccountCorretor    AccountType = "corretor"
	AccountImobiliaria AccountType = "imobiliaria"
)

func (accountType AccountType) Valid() bool {
	switch accountType {
	case AccountParticular, AccountCorretor, AccountImobiliaria:
		return true
	}
	return false
}

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (role Role) Valid() bool {
	return role == RoleUser || role == RoleAdmin
}

type Status string

const (
	StatusActive  Status = "active"
	StatusBlocked Status = "blocked"
)

func (status Status) Valid() bool {
	return status == StatusActive || status == StatusBlocked
}

type ValidationStatus string

const (
	ValidationNotSubmitted ValidationStatus = "not_submitted"
	ValidationPending      ValidationStatus = "pending"
	ValidationApproved     ValidationStatus = "approved"
	ValidationRejected     ValidationStatus = "rejected"
)

func (status ValidationStatus) Valid() bool {
	switch status {
	case ValidationNotSubmitted, ValidationPending, ValidationApproved, ValidationRejected:
		return true
	}
	return false
}

// Professional groups the registration fields brokers and agencies submit for review.
type Professional struct {
	CreciNumber          string `json:"creci_number" yaml:"creci_number"`
	CreciState           string `json:"creci_state" yaml:"creci_state"`
	CompanyName          string `json:"company_name" yaml:"company_name"`
	Cnpj                 string `json:"cnpj" yaml:"cnpj"`
	DocumentType         string `json:"document_type" yaml:"document_type"`
	DocumentNumber       string `json:"document_number" yaml:"document_number"`
	DocumentUrl          string `json:"document_url" yaml:"document_url"`
	ProofOfAddressUrl    string `json:"proof_of_address_url" yaml:"proof_of_address_url"`
	YearsOfExperience    string `json:"years_of_experience" yaml:"years_of_experience"`
	ServiceRegions       string `json:"service_regions" yaml:"service_regions"`
	Specialties          string `json:"specialties" yaml:"specialties"`
	ProfessionalWebsite  string `json:"professional_website" yaml:"professional_website"`
	ContactPreference    string `json:"contact_preference" yaml:"contact_preference"`
	PreferredContactTime string `json:"preferred_contact_time" yaml:"preferred_contact_time"`
	AdditionalNotes      string `json:"additional_notes" yaml:"additional_notes"`
	TeamSize             string `json:"team_size" yaml:"team_size"`
}

// User is the public account record. Secrets live in Credential.
type User struct {
	UUID             uuid.UUID        `json:"id"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	AccountType      AccountType      `json:"account_type"`
	Role             Role             `json:"role"`
	Status           Status           `json:"status"`
	ValidationStatus ValidationStatus `json:"validation_status"`
	Professional
	CreatedAt     time.Time `json:"created_at"`
	JWTVersion    uint      `json:"-"`
	PropertyCount *int      `json:"property_count,omitempty"`
}

func (user *User) IsAdmin() bool {
	return user.Role == RoleAdmin
}

func (user *User) IsBlocked() bool {
	return user.Status == StatusBlocked
}

func (user *User) IsProfessional() bool {
	return user.AccountType == AccountCorretor || user.AccountType == AccountImobiliaria
}

type Credential struct {
	UserId             uuid.UUID
	PasswordHash       string
	ResetHash          string
	ResetHashCreatedAt sql.NullTime
	ResetHashAttempts  int32
}

// Patch is a partial profile update. Role, status and validation are applied only for administrators.
type Patch struct {
	Name             *string           `json:"name"`
	Phone            *string           `json:"phone"`
	Professional     *Professional     `json:"professional"`
	Role             *Role             `json:"role"`
	Status           *Status           `json:"status"`
	ValidationStatus *ValidationStatus `json:"validation_status"`
}

func (patch Patch) TouchesAdminFields() bool {
	return patch.Role != nil || patch.Status != nil || patch.ValidationStatus != nil
}

func (user *User) Apply(patch Patch) {
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}
	if patch.Professional != nil {
		user.Professional = *patch.Professional
	}
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	if patch.Status != nil {
		user.Status = *patch.Status
	}
	if patch.ValidationStatus != nil {
		user.ValidationStatus = *patch.ValidationStatus
	}
}
