package model

// Card mirrors a Trello card. IDBoard is denormalized so events can be
// routed to the owning board's channel without an extra lookup.
type Card struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Desc    string `json:"desc"`
	IDList  string `json:"idList"`
	IDBoard string `json:"idBoard"`
	URL     string `json:"url,omitempty"`
	Due     string `json:"due,omitempty"`

	// Closed marks the card archived. Production mode never hard-deletes
	// through this layer, it only sets Closed.
	Closed bool `json:"closed"`
}

// CardPatch is a partial card update. Nil fields are left untouched.
// Changing IDList moves the card between lists.
type CardPatch struct {
	Name    *string `json:"name,omitempty"`
	Desc    *string `json:"desc,omitempty"`
	IDList  *string `json:"idList,omitempty"`
	IDBoard *string `json:"idBoard,omitempty"`
	Closed  *bool   `json:"closed,omitempty"`
	Due     *string `json:"due,omitempty"`
}

// IsEmpty reports whether the patch carries no changes.
func (p CardPatch) IsEmpty() bool {
	return p.Name == nil && p.Desc == nil && p.IDList == nil &&
		p.IDBoard == nil && p.Closed == nil && p.Due == nil
}

// Clone returns a copy of the card.
func (c *Card) Clone() *Card {
	if c == nil {
		return nil
	}
	copied := *c
	return &copied
}
