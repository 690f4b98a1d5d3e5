package property

import (
	"imovelhub/pkg/customerror"
	"strings"
)

// Validate checks the listing invariants. knownTypes is the current catalog; nil skips the type check.
func (property *Property) Validate(knownTypes []string) error {
	fields := customerror.ValidationErrors{}
	if strings.TrimSpace(property.Title) == "" {
		fields["title"] = "title is required"
	}
	if strings.TrimSpace(property.City) == "" {
		fields["city"] = "city is required"
	}
	if knownTypes != nil && !containsFold(knownTypes, property.Type) {
		fields["type"] = "unknown property type"
	}
	if property.Price < 0 {
		fields["price"] = "price cannot be negative"
	}
	if property.CondoFee < 0 {
		fields["condo_fee"] = "condo fee cannot be negative"
	}
	if property.Iptu < 0 {
		fields["iptu"] = "iptu cannot be negative"
	}
	if property.Area < 0 {
		fields["area"] = "area cannot be negative"
	}
	if property.Bedrooms < 0 {
		fields["bedrooms"] = "bedrooms cannot be negative"
	}
	if property.Suites < 0 {
		fields["suites"] = "suites cannot be negative"
	}
	if property.Bathrooms < 0 {
		fields["bathrooms"] = "bathrooms cannot be negative"
	}
	if property.GarageSpots < 0 {
		fields["garage_spots"] = "garage spots cannot be negative"
	}
	if _, ok := fields["suites"]; !ok && property.Suites > property.Bedrooms {
		fields["suites"] = "suites cannot exceed bedrooms"
	}
	if !property.Status.Valid() {
		fields["status"] = "unknown status"
	}
	if !property.ContactOverride.Valid() {
		fields["contact_override"] = "must be owner or admin"
	}
	if property.Status == StatusActive && len(property.Images) == 0 {
		fields["images"] = "at least one image is required before publishing"
	}
	return fields.OrNil()
}

func containsFold(values []string, value string) bool {
	for _, candidate := range values {
		if strings.EqualFold(candidate, value) {
			return true
		}
	}
	return false
}
