package trello

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/errors"
	"github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/model"
	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://api.trello.com/1"

// Client is the live Adapter implementation against the Trello REST
// API. Credentials ride along as query parameters on every call, the
// way Trello's API expects them.
type Client struct {
	httpc   *http.Client
	baseURL string
	key     string
	token   string
	log     zerolog.Logger
}

// NewClient creates a live Trello API client.
func NewClient(key, token string, log zerolog.Logger) *Client {
	return &Client{
		httpc:   &http.Client{Timeout: 30 * time.Second},
		baseURL: defaultBaseURL,
		key:     key,
		token:   token,
		log:     log.With().Str("component", "trello").Logger(),
	}
}

// do performs one API call. Params become query parameters alongside
// the credentials. A non-2xx response or transport failure comes back
// as an UpstreamError carrying Trello's own error payload.
func (c *Client) do(ctx context.Context, operation, method, path string, params url.Values, out any) error {
	q := url.Values{}
	q.Set("key", c.key)
	q.Set("token", c.token)
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return apperrors.Upstream(operation, 0, err.Error())
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return apperrors.Upstream(operation, 0, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Upstream(operation, resp.StatusCode, err.Error())
	}

	if resp.StatusCode > 299 {
		c.log.Error().
			Str("op", operation).
			Int("status", resp.StatusCode).
			Msg("trello API call failed")
		return apperrors.Upstream(operation, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return apperrors.Upstream(operation, resp.StatusCode, fmt.Sprintf("decoding response: %v", err))
		}
	}
	return nil
}

// notFoundAs maps Trello's 404 onto the typed not-found error so the
// HTTP layer can answer 404 instead of 500.
func notFoundAs(err error, replacement error) error {
	if apperrors.UpstreamStatus(err) == http.StatusNotFound {
		return replacement
	}
	return err
}

func (c *Client) CreateBoard(ctx context.Context, name string, defaultLists bool) (*model.Board, error) {
	params := url.Values{}
	params.Set("name", name)
	params.Set("defaultLists", strconv.FormatBool(defaultLists))

	var board model.Board
	if err := c.do(ctx, "create board", http.MethodPost, "/boards", params, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

func (c *Client) GetBoard(ctx context.Context, boardID string) (*model.Board, error) {
	params := url.Values{}
	params.Set("lists", "open")
	params.Set("cards", "open")

	var board model.Board
	err := c.do(ctx, "get board", http.MethodGet, "/boards/"+boardID, params, &board)
	if err != nil {
		return nil, notFoundAs(err, apperrors.BoardNotFound(boardID))
	}
	return &board, nil
}

func (c *Client) GetBoardLists(ctx context.Context, boardID string) ([]*model.List, error) {
	var lists []*model.List
	err := c.do(ctx, "get board lists", http.MethodGet, "/boards/"+boardID+"/lists", nil, &lists)
	if err != nil {
		return nil, notFoundAs(err, apperrors.BoardNotFound(boardID))
	}
	return lists, nil
}

func (c *Client) CreateCard(ctx context.Context, req CreateCardRequest) (*model.Card, error) {
	if req.ListID == "" || req.Name == "" {
		return nil, apperrors.MissingFields("listId", "name")
	}

	params := url.Values{}
	params.Set("idList", req.ListID)
	params.Set("name", req.Name)
	params.Set("desc", req.Desc)

	var card model.Card
	if err := c.do(ctx, "create card", http.MethodPost, "/cards", params, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) GetCard(ctx context.Context, cardID string) (*model.Card, error) {
	var card model.Card
	err := c.do(ctx, "get card", http.MethodGet, "/cards/"+cardID, nil, &card)
	if err != nil {
		return nil, notFoundAs(err, apperrors.CardNotFound(cardID))
	}
	return &card, nil
}

func (c *Client) UpdateCard(ctx context.Context, cardID string, patch model.CardPatch) (*model.Card, error) {
	params := url.Values{}
	if patch.Name != nil {
		params.Set("name", *patch.Name)
	}
	if patch.Desc != nil {
		params.Set("desc", *patch.Desc)
	}
	if patch.IDList != nil {
		params.Set("idList", *patch.IDList)
	}
	if patch.IDBoard != nil {
		params.Set("idBoard", *patch.IDBoard)
	}
	if patch.Closed != nil {
		params.Set("closed", strconv.FormatBool(*patch.Closed))
	}
	if patch.Due != nil {
		params.Set("due", *patch.Due)
	}

	var card model.Card
	err := c.do(ctx, "update card", http.MethodPut, "/cards/"+cardID, params, &card)
	if err != nil {
		return nil, notFoundAs(err, apperrors.CardNotFound(cardID))
	}
	return &card, nil
}

// DeleteCard archives the card rather than deleting it: the remote
// service never hard-deletes through this layer's update path.
func (c *Client) DeleteCard(ctx context.Context, cardID string) error {
	params := url.Values{}
	params.Set("closed", "true")

	var card model.Card
	err := c.do(ctx, "delete card", http.MethodPut, "/cards/"+cardID, params, &card)
	if err != nil {
		return notFoundAs(err, apperrors.CardNotFound(cardID))
	}
	return nil
}

func (c *Client) CreateWebhook(ctx context.Context, callbackURL, modelID string) (*model.Webhook, error) {
	params := url.Values{}
	params.Set("callbackURL", callbackURL)
	params.Set("idModel", modelID)
	params.Set("description", "Trello Real-time Sync Webhook")

	var wh model.Webhook
	if err := c.do(ctx, "create webhook", http.MethodPost, "/webhooks", params, &wh); err != nil {
		return nil, err
	}
	return &wh, nil
}

func (c *Client) ListWebhooks(ctx context.Context) ([]*model.Webhook, error) {
	var webhooks []*model.Webhook
	if err := c.do(ctx, "list webhooks", http.MethodGet, "/members/me/webhooks", nil, &webhooks); err != nil {
		return nil, err
	}
	return webhooks, nil
}

func (c *Client) DeleteWebhook(ctx context.Context, webhookID string) error {
	err := c.do(ctx, "delete webhook", http.MethodDelete, "/webhooks/"+webhookID, nil, nil)
	if err != nil {
		return notFoundAs(err, apperrors.WebhookNotFound(webhookID))
	}
	return nil
}
