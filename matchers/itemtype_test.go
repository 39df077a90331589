package matchers

import (
	"testing"

	"github.com/alena0604/data-techniques/enums"
	"github.com/stretchr/testify/assert"
)

func TestMatchesItemType_NoFilters(t *testing.T) {
	f := ItemTypeFilters{}

	assert.True(t, f.Empty())
	assert.True(t, MatchesItemType(f, enums.ItemTypeStory))
	assert.True(t, MatchesItemType(f, enums.ItemTypeUnknown))
}

func TestMatchesItemType_IncludeList(t *testing.T) {
	f := ItemTypeFilters{ItemTypes: []string{"story", "JOB"}}

	assert.True(t, MatchesItemType(f, enums.ItemTypeStory))
	assert.True(t, MatchesItemType(f, enums.ItemTypeJob))
	assert.False(t, MatchesItemType(f, enums.ItemTypeComment))
	assert.False(t, MatchesItemType(f, enums.ItemTypeUnknown))
}

func TestMatchesItemType_ExcludeWins(t *testing.T) {
	f := ItemTypeFilters{
		ItemTypes:        []string{"story", "comment"},
		ExcludeItemTypes: []string{"comment"},
	}

	assert.True(t, MatchesItemType(f, enums.ItemTypeStory))
	assert.False(t, MatchesItemType(f, enums.ItemTypeComment), "exclude list is checked before include list")
}

func TestMatchesItemType_ExcludeOnly(t *testing.T) {
	f := ItemTypeFilters{ExcludeItemTypes: []string{"pollopt"}}

	assert.True(t, MatchesItemType(f, enums.ItemTypePoll))
	assert.False(t, MatchesItemType(f, enums.ItemTypePollOpt))
}
