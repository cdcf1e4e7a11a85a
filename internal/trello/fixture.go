package trello

import (
	"context"
	"sort"
	"sync"

	apperrors "github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/errors"
	"github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/id"
	"github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/model"
	"github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/util"
	"github.com/rs/zerolog"
)

// defaultListNames is the fixed ordered set of lists a new fixture
// board gets when defaultLists is requested.
var defaultListNames = []string{
	"To Do",
	"High Priority",
	"In Progress",
	"Review / QA",
	"Blocked",
	"On Hold",
	"Ideas / Brainstorm",
	"Done",
}

// Fixture is the in-memory Adapter implementation used in test mode.
// It is a test fixture, not a storage engine: nothing survives a
// restart.
//
// One mutex guards all state. Card moves splice the card out of one
// list and into another inside a single critical section, so no reader
// ever observes the card in both lists or in neither. Reads return
// deep copies; callers marshal them without racing later mutations.
type Fixture struct {
	mu       sync.Mutex
	boards   map[string]*model.Board
	cards    map[string]*model.Card
	webhooks map[string]*model.Webhook
	log      zerolog.Logger
}

// NewFixture creates an empty fixture store.
func NewFixture(log zerolog.Logger) *Fixture {
	return &Fixture{
		boards:   make(map[string]*model.Board),
		cards:    make(map[string]*model.Card),
		webhooks: make(map[string]*model.Webhook),
		log:      log.With().Str("component", "fixture").Logger(),
	}
}

func (f *Fixture) CreateBoard(ctx context.Context, name string, defaultLists bool) (*model.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	boardID := id.NewBoard()
	board := &model.Board{
		ID:    boardID,
		Name:  name,
		URL:   "https://trello.com/b/" + boardID + "/" + util.Slug(name),
		Lists: []*model.List{},
	}

	if defaultLists {
		for _, listName := range defaultListNames {
			board.Lists = append(board.Lists, &model.List{
				ID:      id.NewList(),
				Name:    listName,
				IDBoard: boardID,
				Cards:   []*model.Card{},
			})
		}
	}

	f.boards[boardID] = board
	f.log.Info().Str("board", boardID).Str("name", name).Msg("board created")
	return board.Clone(), nil
}

func (f *Fixture) GetBoard(ctx context.Context, boardID string) (*model.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	board, ok := f.boards[boardID]
	if !ok {
		return nil, apperrors.BoardNotFound(boardID)
	}
	return board.Clone(), nil
}

func (f *Fixture) GetBoardLists(ctx context.Context, boardID string) ([]*model.List, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	board, ok := f.boards[boardID]
	if !ok {
		return nil, apperrors.BoardNotFound(boardID)
	}

	lists := make([]*model.List, len(board.Lists))
	for i, l := range board.Lists {
		lists[i] = l.Clone()
	}
	return lists, nil
}

func (f *Fixture) CreateCard(ctx context.Context, req CreateCardRequest) (*model.Card, error) {
	if req.ListID == "" || req.Name == "" {
		return nil, apperrors.MissingFields("listId", "name")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	cardID := id.NewCard()
	card := &model.Card{
		ID:      cardID,
		Name:    req.Name,
		Desc:    req.Desc,
		IDList:  req.ListID,
		IDBoard: req.BoardID,
		URL:     "https://trello.com/c/" + cardID,
	}

	f.cards[cardID] = card
	if list := f.findList(req.BoardID, req.ListID); list != nil {
		list.Cards = append(list.Cards, card)
	}

	f.log.Info().Str("card", cardID).Str("name", req.Name).Msg("card created")
	return card.Clone(), nil
}

func (f *Fixture) GetCard(ctx context.Context, cardID string) (*model.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	card, ok := f.cards[cardID]
	if !ok {
		return nil, apperrors.CardNotFound(cardID)
	}
	return card.Clone(), nil
}

func (f *Fixture) UpdateCard(ctx context.Context, cardID string, patch model.CardPatch) (*model.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	card, ok := f.cards[cardID]
	if !ok {
		return nil, apperrors.CardNotFound(cardID)
	}

	// A list change is a move: splice out of the old sequence and into
	// the new one before the remaining patch fields apply. Both steps
	// happen under the lock held above, so the card is never visible
	// in zero or two lists.
	if patch.IDList != nil && *patch.IDList != card.IDList {
		if old := f.findList(card.IDBoard, card.IDList); old != nil {
			old.Cards = removeCard(old.Cards, cardID)
		}
		if next := f.findList(card.IDBoard, *patch.IDList); next != nil {
			next.Cards = append(next.Cards, card)
		}
		card.IDList = *patch.IDList
	}

	if patch.Name != nil {
		card.Name = *patch.Name
	}
	if patch.Desc != nil {
		card.Desc = *patch.Desc
	}
	if patch.IDBoard != nil {
		card.IDBoard = *patch.IDBoard
	}
	if patch.Closed != nil {
		card.Closed = *patch.Closed
	}
	if patch.Due != nil {
		card.Due = *patch.Due
	}

	f.log.Info().Str("card", cardID).Msg("card updated")
	return card.Clone(), nil
}

func (f *Fixture) DeleteCard(ctx context.Context, cardID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	card, ok := f.cards[cardID]
	if !ok {
		// Repeat deletes land here: state stays untouched and the
		// caller gets a typed not-found, not a generic failure.
		return apperrors.CardNotFound(cardID)
	}

	delete(f.cards, cardID)
	if list := f.findList(card.IDBoard, card.IDList); list != nil {
		list.Cards = removeCard(list.Cards, cardID)
	}

	f.log.Info().Str("card", cardID).Msg("card deleted")
	return nil
}

func (f *Fixture) CreateWebhook(ctx context.Context, callbackURL, modelID string) (*model.Webhook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	wh := &model.Webhook{
		ID:          id.NewWebhook(),
		Description: "Trello Real-time Sync Webhook",
		IDModel:     modelID,
		CallbackURL: callbackURL,
		Active:      true,
	}
	f.webhooks[wh.ID] = wh

	f.log.Info().Str("webhook", wh.ID).Str("model", modelID).Msg("webhook registered")
	return wh.Clone(), nil
}

func (f *Fixture) ListWebhooks(ctx context.Context) ([]*model.Webhook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	webhooks := make([]*model.Webhook, 0, len(f.webhooks))
	for _, wh := range f.webhooks {
		webhooks = append(webhooks, wh.Clone())
	}
	sort.Slice(webhooks, func(i, j int) bool { return webhooks[i].ID < webhooks[j].ID })
	return webhooks, nil
}

func (f *Fixture) DeleteWebhook(ctx context.Context, webhookID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.webhooks[webhookID]; !ok {
		return apperrors.WebhookNotFound(webhookID)
	}
	delete(f.webhooks, webhookID)
	return nil
}

// findList resolves a board/list pair to the stored list, or nil when
// either side is unknown. Callers hold f.mu.
func (f *Fixture) findList(boardID, listID string) *model.List {
	board, ok := f.boards[boardID]
	if !ok {
		return nil
	}
	for _, list := range board.Lists {
		if list.ID == listID {
			return list
		}
	}
	return nil
}

func removeCard(cards []*model.Card, cardID string) []*model.Card {
	kept := cards[:0]
	for _, c := range cards {
		if c.ID != cardID {
			kept = append(kept, c)
		}
	}
	return kept
}
