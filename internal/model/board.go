package model

// Board mirrors a Trello board. The remote service owns boards in
// production mode; fixture mode keeps them in process memory.
type Board struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Desc   string  `json:"desc"`
	URL    string  `json:"url,omitempty"`
	Closed bool    `json:"closed"`
	Lists  []*List `json:"lists,omitempty"`

	// Cards is populated on board reads in production mode, where
	// Trello returns open cards alongside lists rather than nested
	// under them.
	Cards []*Card `json:"cards,omitempty"`
}

// List is an ordered column of cards on a board. Order among lists is
// significant for rendering but not enforced here.
type List struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	IDBoard string  `json:"idBoard"`
	Closed  bool    `json:"closed"`
	Cards   []*Card `json:"cards"`
}

// Clone returns a deep copy of the board, including lists and cards.
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	copied := *b
	if b.Lists != nil {
		copied.Lists = make([]*List, len(b.Lists))
		for i, l := range b.Lists {
			copied.Lists[i] = l.Clone()
		}
	}
	if b.Cards != nil {
		copied.Cards = make([]*Card, len(b.Cards))
		for i, c := range b.Cards {
			copied.Cards[i] = c.Clone()
		}
	}
	return &copied
}

// Clone returns a deep copy of the list and its card sequence.
func (l *List) Clone() *List {
	if l == nil {
		return nil
	}
	copied := *l
	copied.Cards = make([]*Card, len(l.Cards))
	for i, c := range l.Cards {
		copied.Cards[i] = c.Clone()
	}
	return &copied
}
