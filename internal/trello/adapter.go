// Package trello adapts board, card and webhook operations onto the
// Trello REST API, or onto an in-memory fixture when running without
// credentials.
package trello

import (
	"context"

	"github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/config"
	"github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/model"
	"github.com/rs/zerolog"
)

// CreateCardRequest carries the fields needed to create a card.
// BoardID is optional; ListID and Name are required.
type CreateCardRequest struct {
	BoardID string `json:"boardId"`
	ListID  string `json:"listId"`
	Name    string `json:"name"`
	Desc    string `json:"desc"`
}

// Adapter is the surface the HTTP layer talks to. Operations either
// proxy to the Trello REST API with injected credentials or, in
// fixture mode, mutate an in-process store. Failures are typed: see
// internal/errors for the not-found / validation / upstream taxonomy.
// No operation retries.
type Adapter interface {
	CreateBoard(ctx context.Context, name string, defaultLists bool) (*model.Board, error)
	GetBoard(ctx context.Context, boardID string) (*model.Board, error)
	GetBoardLists(ctx context.Context, boardID string) ([]*model.List, error)

	CreateCard(ctx context.Context, req CreateCardRequest) (*model.Card, error)
	GetCard(ctx context.Context, cardID string) (*model.Card, error)
	UpdateCard(ctx context.Context, cardID string, patch model.CardPatch) (*model.Card, error)
	DeleteCard(ctx context.Context, cardID string) error

	CreateWebhook(ctx context.Context, callbackURL, modelID string) (*model.Webhook, error)
	ListWebhooks(ctx context.Context) ([]*model.Webhook, error)
	DeleteWebhook(ctx context.Context, webhookID string) error
}

// New picks the adapter implementation for the given settings: the
// live client when credentials are configured, the fixture otherwise.
func New(cfg *config.Settings, log zerolog.Logger) Adapter {
	if cfg.FixtureMode() {
		log.Warn().Msg("test mode enabled, using in-memory fixture instead of the Trello API")
		return NewFixture(log)
	}
	log.Info().Msg("trello API configured with credentials")
	return NewClient(cfg.TrelloAPIKey, cfg.TrelloAPIToken, log)
}
