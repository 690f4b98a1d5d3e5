package property

import (
	"sort"
	"strings"
	"time"
)

// Filter narrows the public feed. Zero values mean "no constraint".
type Filter struct {
	Type     string   `json:"type,omitempty"`
	City     string   `json:"city,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
	MaxArea  *float64 `json:"max_area,omitempty"`
	Query    string   `json:"q,omitempty"`
	Offset   int      `json:"offset,omitempty"`
	Limit    int      `json:"limit,omitempty"`
}

func (filter Filter) Matches(property Property) bool {
	if filter.Type != "" && property.Type != filter.Type {
		return false
	}
	if filter.City != "" && !strings.Contains(strings.ToLower(property.City), strings.ToLower(filter.City)) {
		return false
	}
	if filter.MaxPrice != nil && property.Price > *filter.MaxPrice {
		return false
	}
	if filter.MaxArea != nil && property.Area > *filter.MaxArea {
		return false
	}
	if filter.Query != "" {
		query := strings.ToLower(filter.Query)
		found := false
		for _, field := range []string{property.Title, property.Description, property.City, property.Neighborhood} {
			if strings.Contains(strings.ToLower(field), query) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Public returns the visible listings matching filter, newest first, paged.
func Public(properties []Property, filter Filter, now time.Time) []Property {
	result := []Property{}
	for _, property := range properties {
		if property.IsPubliclyVisible(now) && filter.Matches(property) {
			result = append(result, property)
		}
	}
	SortNewestFirst(result)
	return Page(result, filter.Offset, filter.Limit)
}

func SortNewestFirst(properties []Property) {
	sort.SliceStable(properties, func(i, j int) bool {
		return properties[i].CreatedAt.After(properties[j].CreatedAt)
	})
}

// Page slices by offset and limit. A non-positive limit returns everything after offset.
func Page(properties []Property, offset int, limit int) []Property {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(properties) {
		return []Property{}
	}
	properties = properties[offset:]
	if limit > 0 && limit < len(properties) {
		properties = properties[:limit]
	}
	return properties
}

// StillVisible drops entries that are no longer visible at now.
func StillVisible(properties []Property, now time.Time) []Property {
	result := make([]Property, 0, len(properties))
	for _, property := range properties {
		if property.IsPubliclyVisible(now) {
			result = append(result, property)
		}
	}
	return result
}
