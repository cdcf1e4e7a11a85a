package id

import (
	"time"

	fid "github.com/amterp/flexid"
)

var generator *fid.Generator

func init() {
	epoch := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	config := fid.NewConfig().
		WithEpoch(epoch).
		WithTickSize(10 * time.Millisecond).
		WithNumRandomChars(3)

	generator = fid.MustNewGenerator(config)
}

// Generate returns a new unique ID.
func Generate() string {
	return generator.MustGenerate()
}

// Prefixed identifiers mark which entity kind a fixture-mode ID belongs
// to, so logs and test output stay readable.

func NewBoard() string {
	return "board_" + Generate()
}

func NewList() string {
	return "list_" + Generate()
}

func NewCard() string {
	return "card_" + Generate()
}

func NewWebhook() string {
	return "webhook_" + Generate()
}
