package models

// Contact is a single notification recipient.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Group is a named collection of contacts that alerts are dispatched to.
type Group struct {
	Name     string    `json:"name"`
	Contacts []Contact `json:"contacts"`
}

// HasContact reports whether the group already contains a contact with the
// given phone number.
func (g *Group) HasContact(phone string) bool {
	for _, c := range g.Contacts {
		if c.Phone == phone {
			return true
		}
	}
	return false
}
