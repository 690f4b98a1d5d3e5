package settings

import "imovelhub/pkg/customerror"

type Settings struct {
	ListingPrice      float64 `json:"listing_price" yaml:"listing_price"`
	AdminContactPhone string  `json:"admin_contact_phone" yaml:"admin_contact_phone"`
}

type Patch struct {
	ListingPrice      *float64 `json:"listing_price"`
	AdminContactPhone *string  `json:"admin_contact_phone"`
}

func (settings *Settings) Apply(patch Patch) {
	if patch.ListingPrice != nil {
		settings.ListingPrice = *patch.ListingPrice
	}
	if patch.AdminContactPhone != nil {
		settings.AdminContactPhone = *patch.AdminContactPhone
	}
}

func (settings *Settings) Validate() error {
	fields := customerror.ValidationErrors{}
	if settings.ListingPrice < 0 {
		fields["listing_price"] = "listing price cannot be negative"
	}
	return fields.OrNil()
}
