// Package event defines the normalized event schema shared by both the
// webhook path and REST-triggered broadcasts, plus the normalizer that
// maps raw Trello webhook deliveries onto it.
package event

import "encoding/json"

// Type tags the normalized event union.
type Type string

const (
	CardCreated  Type = "CARD_CREATED"
	CardUpdated  Type = "CARD_UPDATED"
	CardDeleted  Type = "CARD_DELETED"
	BoardCreated Type = "BOARD_CREATED"
	BoardUpdated Type = "BOARD_UPDATED"
	ListCreated  Type = "LIST_CREATED"
	ListUpdated  Type = "LIST_UPDATED"
	Unknown      Type = "UNKNOWN"
)

// Member identifies the Trello user whose action produced an event.
type Member struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	FullName string `json:"fullName,omitempty"`
}

// Event is the uniform broadcast schema. BoardID is the routing key:
// events with one are delivered only to that board's subscribers,
// events without one go to every connected client.
type Event struct {
	Type      Type   `json:"type"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
	BoardID   string `json:"boardId,omitempty"`
	ListID    string `json:"listId,omitempty"`

	// Changes holds the pre-update values for update variants, taken
	// from the action's "old" sub-record.
	Changes map[string]any `json:"changes,omitempty"`

	ListBefore json.RawMessage `json:"listBefore,omitempty"`
	ListAfter  json.RawMessage `json:"listAfter,omitempty"`

	Member *Member `json:"member,omitempty"`

	// OriginalData carries the pre-mutation entity on REST-origin
	// update and delete broadcasts.
	OriginalData any `json:"originalData,omitempty"`

	// Raw is the inbound action exactly as Trello delivered it.
	// Only set on webhook-origin events.
	Raw json.RawMessage `json:"raw,omitempty"`
}
