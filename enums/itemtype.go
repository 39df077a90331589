package enums

type ItemType string

const (
	ItemTypeUnknown ItemType = ""

	ItemTypeStory   ItemType = "story"
	ItemTypeComment ItemType = "comment"
	ItemTypeJob     ItemType = "job"
	ItemTypePoll    ItemType = "poll"

	// ItemTypePollOpt is a single option of a poll. Its parent is the poll item.
	ItemTypePollOpt ItemType = "pollopt"
)

func (t ItemType) Known() bool {
	switch t {
	case ItemTypeStory, ItemTypeComment, ItemTypeJob, ItemTypePoll, ItemTypePollOpt:
		return true
	}
	return false
}
