package propertytype

import (
	"imovelhub/pkg/customerror"
	"strings"

	"github.com/google/uuid"
)

type PropertyType struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Normalize trims the name and checks it against the existing catalog. except skips the entry being renamed.
func Normalize(name string, existing []PropertyType, except uuid.UUID) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", customerror.ValidationErrors{"name": "field is required"}
	}
	for _, propertyType := range existing {
		if propertyType.Id != except && strings.EqualFold(propertyType.Name, name) {
			return "", customerror.ValidationErrors{"name": "property type already exists"}
		}
	}
	return name, nil
}

func Names(types []PropertyType) []string {
	names := make([]string, 0, len(types))
	for _, propertyType := range types {
		names = append(names, propertyType.Name)
	}
	return names
}
