package models

// Group is a set of members sharing expenses.
type Group struct {
	// ID is the numeric id used in group URLs.
	ID int64 `json:"id"`

	// UUID is the invite code used to join the group.
	UUID string `json:"uuid"`

	Name        string   `json:"name"`
	Description string   `json:"description"`
	CreatedAt   string   `json:"created_at"`
	Members     []Member `json:"members"`

	// AlreadyMember is set when the group is looked up through an invite.
	AlreadyMember bool `json:"already_member,omitempty"`
}

// HasMember reports whether memberID belongs to the group.
func (g *Group) HasMember(memberID int64) bool {
	for _, m := range g.Members {
		if m.ID == memberID {
			return true
		}
	}
	return false
}
