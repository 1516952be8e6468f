package models

import "slices"

// Lifecycle is an ordered, forward-only list of statuses.
type Lifecycle []string

var (
	AdvocacyLifecycle       = Lifecycle{"pending", "in-progress", "closed"}
	StoryLifecycle          = Lifecycle{"pending", "approved"}
	CrowdFundingLifecycle   = Lifecycle{"pending", "active", "closed"}
	PaymentRequestLifecycle = Lifecycle{"pending", "paid"}
)

// Initial is the status new documents start in.
func (l Lifecycle) Initial() string { return l[0] }

// Terminal is the last status.
func (l Lifecycle) Terminal() string { return l[len(l)-1] }

// Knows reports whether status belongs to the lifecycle.
func (l Lifecycle) Knows(status string) bool { return slices.Contains(l, status) }

// Advance moves status one step forward. At the terminal status it returns
// the status unchanged and false. Unknown statuses also return false.
func (l Lifecycle) Advance(status string) (string, bool) {
	i := slices.Index(l, status)
	if i < 0 || i == len(l)-1 {
		return status, false
	}
	return l[i+1], true
}
