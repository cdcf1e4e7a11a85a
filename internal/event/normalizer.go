package event

import (
	"encoding/json"

	"github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/util"
)

// Delivery is an inbound Trello webhook payload: the action that
// happened plus a reference to the model the webhook is registered on.
type Delivery struct {
	Action Action    `json:"action"`
	Model  *ModelRef `json:"model"`
}

// ModelRef references the entity a webhook was registered against,
// which for this layer is always a board.
type ModelRef struct {
	ID string `json:"id"`
}

// Action is a single Trello action record. The entity payloads stay as
// raw JSON so unrecognized shapes survive normalization unchanged.
type Action struct {
	Type          string     `json:"type"`
	Date          string     `json:"date"`
	Data          ActionData `json:"data"`
	MemberCreator *Member    `json:"memberCreator"`

	raw json.RawMessage
}

// UnmarshalJSON keeps a copy of the raw action bytes alongside the
// parsed fields.
func (a *Action) UnmarshalJSON(data []byte) error {
	type actionAlias Action
	var alias actionAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*a = Action(alias)
	a.raw = append(json.RawMessage(nil), data...)
	return nil
}

// ActionData is the nested, shape-shifting part of an action. Which of
// these appear depends entirely on the action type.
type ActionData struct {
	Board      json.RawMessage `json:"board,omitempty"`
	Card       json.RawMessage `json:"card,omitempty"`
	List       json.RawMessage `json:"list,omitempty"`
	ListBefore json.RawMessage `json:"listBefore,omitempty"`
	ListAfter  json.RawMessage `json:"listAfter,omitempty"`
	Old        map[string]any  `json:"old,omitempty"`

	raw json.RawMessage
}

// UnmarshalJSON keeps the raw data bytes so UNKNOWN events can carry
// the payload through untouched.
func (d *ActionData) UnmarshalJSON(data []byte) error {
	type dataAlias ActionData
	var alias dataAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*d = ActionData(alias)
	d.raw = append(json.RawMessage(nil), data...)
	return nil
}

// entityRef is the subset of entity fields needed for routing.
type entityRef struct {
	ID      string `json:"id"`
	IDBoard string `json:"idBoard"`
}

func ref(raw json.RawMessage) entityRef {
	var e entityRef
	if len(raw) > 0 {
		// Malformed refs resolve to empty IDs, never to an error.
		_ = json.Unmarshal(raw, &e)
	}
	return e
}

// builders maps the external action-type string to the variant it
// produces. Types absent from this table fall through to UNKNOWN.
var builders = map[string]func(a Action, base Event) Event{
	"createCard": func(a Action, base Event) Event {
		base.Type = CardCreated
		base.Data = a.Data.Card
		base.ListID = ref(a.Data.List).ID
		return base
	},
	"updateCard": func(a Action, base Event) Event {
		base.Type = CardUpdated
		base.Data = a.Data.Card
		base.Changes = oldOrEmpty(a)
		base.ListBefore = a.Data.ListBefore
		base.ListAfter = a.Data.ListAfter
		return base
	},
	"deleteCard": func(a Action, base Event) Event {
		base.Type = CardDeleted
		var cardID any
		if id := ref(a.Data.Card).ID; id != "" {
			cardID = id
		}
		base.Data = map[string]any{"id": cardID}
		base.ListID = ref(a.Data.List).ID
		return base
	},
	"createBoard": func(a Action, base Event) Event {
		base.Type = BoardCreated
		base.Data = a.Data.Board
		return base
	},
	"updateBoard": func(a Action, base Event) Event {
		base.Type = BoardUpdated
		base.Data = a.Data.Board
		base.Changes = oldOrEmpty(a)
		return base
	},
	"createList": func(a Action, base Event) Event {
		base.Type = ListCreated
		base.Data = a.Data.List
		return base
	},
	"updateList": func(a Action, base Event) Event {
		base.Type = ListUpdated
		base.Data = a.Data.List
		base.Changes = oldOrEmpty(a)
		return base
	},
}

// Normalize maps a raw webhook delivery to one normalized event. It
// never fails: a payload it can't make sense of becomes a global
// UNKNOWN event carrying the raw data, because inbound deliveries must
// always be acknowledged.
func Normalize(d Delivery) Event {
	a := d.Action

	base := Event{
		Timestamp: a.Date,
		BoardID:   resolveBoardID(d),
		Member:    a.MemberCreator,
		Raw:       a.raw,
	}
	if base.Timestamp == "" {
		base.Timestamp = util.NowISO()
	}

	if build, ok := builders[a.Type]; ok {
		return build(a, base)
	}

	base.Type = Unknown
	base.Data = a.Data.raw
	return base
}

// resolveBoardID probes the places a board reference can hide, in
// order: explicit board payload, card's embedded board, list's
// embedded board, top-level model. First match wins; no match means
// the event broadcasts globally.
func resolveBoardID(d Delivery) string {
	if id := ref(d.Action.Data.Board).ID; id != "" {
		return id
	}
	if id := ref(d.Action.Data.Card).IDBoard; id != "" {
		return id
	}
	if id := ref(d.Action.Data.List).IDBoard; id != "" {
		return id
	}
	if d.Model != nil {
		return d.Model.ID
	}
	return ""
}

func oldOrEmpty(a Action) map[string]any {
	if a.Data.Old == nil {
		return map[string]any{}
	}
	return a.Data.Old
}
