package matchers

import (
	"strings"

	"github.com/alena0604/data-techniques/enums"
)

type ItemTypeFilters struct {
	ItemTypes        []string
	ExcludeItemTypes []string
}

func (f ItemTypeFilters) Empty() bool {
	return len(f.ItemTypes) == 0 && len(f.ExcludeItemTypes) == 0
}

func MatchesItemType(f ItemTypeFilters, itemType enums.ItemType) bool {
	// Check exclude list first
	for _, excluded := range f.ExcludeItemTypes {
		if strings.EqualFold(excluded, string(itemType)) {
			return false
		}
	}

	// If include list is empty, allow all (that weren't excluded)
	if len(f.ItemTypes) == 0 {
		return true
	}

	for _, included := range f.ItemTypes {
		if strings.EqualFold(included, string(itemType)) {
			return true
		}
	}

	return false
}
