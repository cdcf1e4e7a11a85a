package event

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, raw string) Delivery {
	t.Helper()
	var d Delivery
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatalf("Failed to decode delivery: %v", err)
	}
	return d
}

func TestNormalize_CreateCard(t *testing.T) {
	d := decode(t, `{
		"action": {
			"type": "createCard",
			"date": "2026-03-01T10:00:00.000Z",
			"data": {
				"card": {"id": "card_1", "name": "Task A", "idBoard": "board_1"},
				"list": {"id": "list_1", "name": "To Do"}
			},
			"memberCreator": {"id": "member_1", "username": "alice"}
		}
	}`)

	evt := Normalize(d)

	if evt.Type != CardCreated {
		t.Errorf("Expected CARD_CREATED, got %s", evt.Type)
	}
	if evt.BoardID != "board_1" {
		t.Errorf("Expected board_1 routing, got %q", evt.BoardID)
	}
	if evt.ListID != "list_1" {
		t.Errorf("Expected list_1, got %q", evt.ListID)
	}
	if evt.Timestamp != "2026-03-01T10:00:00.000Z" {
		t.Errorf("Expected action date as timestamp, got %q", evt.Timestamp)
	}
	if evt.Member == nil || evt.Member.Username != "alice" {
		t.Errorf("Expected member alice, got %+v", evt.Member)
	}
}

func TestNormalize_BoardIDProbeOrder(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			"explicit board wins",
			`{"action":{"type":"updateBoard","data":{
				"board":{"id":"board_a"},
				"card":{"id":"c","idBoard":"board_b"}}}}`,
			"board_a",
		},
		{
			"card board when no explicit board",
			`{"action":{"type":"updateCard","data":{
				"card":{"id":"c","idBoard":"board_b"},
				"list":{"id":"l","idBoard":"board_c"}}}}`,
			"board_b",
		},
		{
			"list board when card has none",
			`{"action":{"type":"createCard","data":{
				"card":{"id":"c"},
				"list":{"id":"l","idBoard":"board_c"}}}}`,
			"board_c",
		},
		{
			"model as last resort",
			`{"action":{"type":"updateList","data":{"list":{"id":"l"}}},
			  "model":{"id":"board_d"}}`,
			"board_d",
		},
		{
			"no match broadcasts globally",
			`{"action":{"type":"updateList","data":{"list":{"id":"l"}}}}`,
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt := Normalize(decode(t, tt.raw))
			if evt.BoardID != tt.want {
				t.Errorf("Expected boardId %q, got %q", tt.want, evt.BoardID)
			}
		})
	}
}

func TestNormalize_TypeMapping(t *testing.T) {
	tests := []struct {
		actionType string
		want       Type
	}{
		{"createCard", CardCreated},
		{"updateCard", CardUpdated},
		{"deleteCard", CardDeleted},
		{"createBoard", BoardCreated},
		{"updateBoard", BoardUpdated},
		{"createList", ListCreated},
		{"updateList", ListUpdated},
		{"addMemberToCard", Unknown},
		{"commentCard", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.actionType, func(t *testing.T) {
			d := decode(t, `{"action":{"type":"`+tt.actionType+`","data":{}}}`)
			if evt := Normalize(d); evt.Type != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, evt.Type)
			}
		})
	}
}

func TestNormalize_UnknownPreservesPayload(t *testing.T) {
	raw := `{"action":{"type":"addAttachmentToCard","data":{"attachment":{"id":"att_1","url":"https://example.com/f.png"},"card":{"id":"card_1"}}}}`
	evt := Normalize(decode(t, raw))

	if evt.Type != Unknown {
		t.Fatalf("Expected UNKNOWN, got %s", evt.Type)
	}

	data, ok := evt.Data.(json.RawMessage)
	if !ok {
		t.Fatalf("Expected raw payload, got %T", evt.Data)
	}

	var got, want map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unknown payload not valid JSON: %v", err)
	}
	json.Unmarshal([]byte(`{"attachment":{"id":"att_1","url":"https://example.com/f.png"},"card":{"id":"card_1"}}`), &want)
	if got["attachment"].(map[string]any)["url"] != want["attachment"].(map[string]any)["url"] {
		t.Error("Unknown event should round-trip the payload unchanged")
	}
}

func TestNormalize_UpdateCarriesChanges(t *testing.T) {
	d := decode(t, `{"action":{"type":"updateCard","data":{
		"card":{"id":"card_1","idBoard":"board_1","idList":"list_2"},
		"old":{"idList":"list_1"},
		"listBefore":{"id":"list_1","name":"To Do"},
		"listAfter":{"id":"list_2","name":"Done"}}}}`)

	evt := Normalize(d)

	if evt.Changes["idList"] != "list_1" {
		t.Errorf("Expected old idList in changes, got %v", evt.Changes)
	}
	if len(evt.ListBefore) == 0 || len(evt.ListAfter) == 0 {
		t.Error("Expected listBefore/listAfter on card moves")
	}
}

func TestNormalize_UpdateWithoutOldHasEmptyChanges(t *testing.T) {
	d := decode(t, `{"action":{"type":"updateBoard","data":{"board":{"id":"board_1","name":"Renamed"}}}}`)

	evt := Normalize(d)
	if evt.Changes == nil {
		t.Fatal("Changes should be an empty map, not nil")
	}
	if len(evt.Changes) != 0 {
		t.Errorf("Expected empty changes, got %v", evt.Changes)
	}
}

func TestNormalize_DeleteCardPayload(t *testing.T) {
	d := decode(t, `{"action":{"type":"deleteCard","data":{
		"card":{"id":"card_1","idBoard":"board_1"},
		"list":{"id":"list_1"}}}}`)

	evt := Normalize(d)

	data, ok := evt.Data.(map[string]any)
	if !ok {
		t.Fatalf("Expected id-only payload, got %T", evt.Data)
	}
	if data["id"] != "card_1" {
		t.Errorf("Expected card_1, got %v", data["id"])
	}
	if evt.ListID != "list_1" {
		t.Errorf("Expected list_1, got %q", evt.ListID)
	}
}

func TestNormalize_MissingDateFallsBackToNow(t *testing.T) {
	d := decode(t, `{"action":{"type":"createBoard","data":{"board":{"id":"board_1"}}}}`)

	if evt := Normalize(d); evt.Timestamp == "" {
		t.Error("Expected a fallback timestamp")
	}
}

func TestNormalize_RawActionAttached(t *testing.T) {
	d := decode(t, `{"action":{"type":"createCard","date":"2026-03-01T10:00:00.000Z","data":{"card":{"id":"card_1"}}}}`)

	evt := Normalize(d)
	if len(evt.Raw) == 0 {
		t.Fatal("Expected the raw action on the event")
	}
	var raw struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(evt.Raw, &raw); err != nil || raw.Type != "createCard" {
		t.Errorf("Raw action should be the original record: %s", evt.Raw)
	}
}
