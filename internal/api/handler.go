package api

import (
	"encoding/json"
	"net/http"

	"github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/bus"
	apperrors "github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/errors"
	"github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/event"
	"github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/model"
	"github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/trello"
	"github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/util"
	"github.com/rs/zerolog"
)

// Channel event names clients subscribe on. These wrap the normalized
// event in the websocket envelope; the event's own type tag is inside.
const (
	EventBoardCreated = "board-created"
	EventCardCreated  = "card-created"
	EventCardUpdated  = "card-updated"
	EventCardDeleted  = "card-deleted"
	EventTrello       = "trello-event"
)

// Handler contains all HTTP handlers for the API.
//
// Mutating handlers run validate -> adapter call -> best-effort bus
// publish, in that order. A publish that can't be routed (or fails) is
// logged and dropped, never surfaced to the HTTP caller: the mutation
// already succeeded by then.
type Handler struct {
	adapter trello.Adapter
	bus     *bus.Bus
	log     zerolog.Logger
}

// NewHandler creates a new handler with the given dependencies.
func NewHandler(adapter trello.Adapter, b *bus.Bus, log zerolog.Logger) *Handler {
	return &Handler{
		adapter: adapter,
		bus:     b,
		log:     log.With().Str("component", "api").Logger(),
	}
}

// RegisterRoutes registers all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/boards", h.createBoard)
	mux.HandleFunc("GET /api/boards/{boardId}", h.getBoard)
	mux.HandleFunc("GET /api/boards/{boardId}/lists", h.getBoardLists)

	mux.HandleFunc("POST /api/tasks", h.createTask)
	mux.HandleFunc("GET /api/tasks/{cardId}", h.getTask)
	mux.HandleFunc("PUT /api/tasks/{cardId}", h.updateTask)
	mux.HandleFunc("DELETE /api/tasks/{cardId}", h.deleteTask)

	// GET patterns also serve HEAD, which covers Trello's webhook
	// verification probe.
	mux.HandleFunc("POST /api/webhooks/trello", h.receiveWebhook)
	mux.HandleFunc("GET /api/webhooks/trello", h.verifyWebhook)
	mux.HandleFunc("POST /api/webhooks/register", h.registerWebhook)
	mux.HandleFunc("GET /api/webhooks", h.listWebhooks)
	mux.HandleFunc("DELETE /api/webhooks/{webhookId}", h.deleteWebhook)

	mux.HandleFunc("GET /health", h.health)
}

// publish hands an event to the fanout bus. Failures here must never
// fail the HTTP response.
func (h *Handler) publish(name string, evt event.Event) {
	h.bus.Publish(name, evt)
	h.log.Debug().Str("event", name).Str("board", evt.BoardID).Msg("broadcast")
}

// Boards

func (h *Handler) createBoard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name"`
		DefaultLists *bool  `json:"defaultLists"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		MissingFields(w, "Board name is required", "name")
		return
	}
	if req.Name == "" {
		MissingFields(w, "Board name is required", "name")
		return
	}

	defaultLists := true
	if req.DefaultLists != nil {
		defaultLists = *req.DefaultLists
	}

	board, err := h.adapter.CreateBoard(r.Context(), req.Name, defaultLists)
	if err != nil {
		Error(w, "Failed to create board", err)
		return
	}

	// Board creation broadcasts globally: nobody is subscribed to a
	// board that didn't exist a moment ago.
	h.publish(EventBoardCreated, event.Event{
		Type:      event.BoardCreated,
		Data:      board,
		Timestamp: util.NowISO(),
	})

	Success(w, http.StatusCreated, board, "Board created successfully")
}

func (h *Handler) getBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.adapter.GetBoard(r.Context(), r.PathValue("boardId"))
	if err != nil {
		Error(w, "Failed to get board", err)
		return
	}
	Success(w, http.StatusOK, board, "")
}

func (h *Handler) getBoardLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.adapter.GetBoardLists(r.Context(), r.PathValue("boardId"))
	if err != nil {
		Error(w, "Failed to get board lists", err)
		return
	}
	Success(w, http.StatusOK, lists, "")
}

// Tasks

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	var req trello.CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		MissingFields(w, "listId and name are required", "listId", "name")
		return
	}
	if req.ListID == "" || req.Name == "" {
		MissingFields(w, "listId and name are required", "listId", "name")
		return
	}

	card, err := h.adapter.CreateCard(r.Context(), req)
	if err != nil {
		Error(w, "Failed to create task", err)
		return
	}

	if req.BoardID != "" {
		h.publish(EventCardCreated, event.Event{
			Type:      event.CardCreated,
			Data:      card,
			BoardID:   req.BoardID,
			Timestamp: util.NowISO(),
		})
	}

	Success(w, http.StatusCreated, card, "Task created successfully")
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	card, err := h.adapter.GetCard(r.Context(), r.PathValue("cardId"))
	if err != nil {
		Error(w, "Failed to get task", err)
		return
	}
	Success(w, http.StatusOK, card, "")
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	cardID := r.PathValue("cardId")

	var patch model.CardPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		Error(w, "Failed to update task", apperrors.InvalidInput("invalid request body"))
		return
	}

	// Fetch the pre-mutation card to learn its board for routing. A
	// failure here degrades to "no broadcast", not an aborted update.
	original, err := h.adapter.GetCard(r.Context(), cardID)
	if err != nil {
		h.log.Warn().Str("card", cardID).Err(err).Msg("could not fetch card for broadcast routing")
	}

	updated, err := h.adapter.UpdateCard(r.Context(), cardID, patch)
	if err != nil {
		Error(w, "Failed to update task", err)
		return
	}

	if original != nil && original.IDBoard != "" {
		h.publish(EventCardUpdated, event.Event{
			Type:         event.CardUpdated,
			Data:         updated,
			OriginalData: original,
			BoardID:      original.IDBoard,
			Timestamp:    util.NowISO(),
		})
	}

	Success(w, http.StatusOK, updated, "Task updated successfully")
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	cardID := r.PathValue("cardId")

	original, err := h.adapter.GetCard(r.Context(), cardID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			Error(w, "Card not found", err)
			return
		}
		h.log.Warn().Str("card", cardID).Err(err).Msg("could not fetch card for broadcast routing")
	}

	if err := h.adapter.DeleteCard(r.Context(), cardID); err != nil {
		if apperrors.IsNotFound(err) {
			Error(w, "Card not found", err)
			return
		}
		Error(w, "Failed to delete task", err)
		return
	}

	if original != nil && original.IDBoard != "" {
		h.publish(EventCardDeleted, event.Event{
			Type:         event.CardDeleted,
			Data:         map[string]string{"id": cardID},
			OriginalData: original,
			BoardID:      original.IDBoard,
			Timestamp:    util.NowISO(),
		})
	}

	Success(w, http.StatusOK, map[string]string{"id": cardID}, "Task deleted successfully")
}

// Webhooks

// receiveWebhook is the Trello callback endpoint. It acknowledges
// every delivery with 200, including ones it can't parse: a failure
// status would make Trello retry the delivery over and over.
func (h *Handler) receiveWebhook(w http.ResponseWriter, r *http.Request) {
	defer ack(w)

	var delivery event.Delivery
	if err := json.NewDecoder(r.Body).Decode(&delivery); err != nil {
		h.log.Error().Err(err).Msg("couldn't decode webhook delivery")
		return
	}
	if delivery.Action.Type == "" {
		h.log.Warn().Msg("webhook delivery without an action type")
		return
	}

	evt := event.Normalize(delivery)
	h.log.Info().
		Str("action", delivery.Action.Type).
		Str("type", string(evt.Type)).
		Str("board", evt.BoardID).
		Msg("webhook received")

	h.publish(EventTrello, evt)
}

func ack(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// verifyWebhook answers Trello's endpoint verification probe.
func (h *Handler) verifyWebhook(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Webhook endpoint ready"))
}

func (h *Handler) registerWebhook(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CallbackURL string `json:"callbackURL"`
		ModelID     string `json:"modelId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		MissingFields(w, "callbackURL and modelId are required", "callbackURL", "modelId")
		return
	}
	if req.CallbackURL == "" || req.ModelID == "" {
		MissingFields(w, "callbackURL and modelId are required", "callbackURL", "modelId")
		return
	}

	webhook, err := h.adapter.CreateWebhook(r.Context(), req.CallbackURL, req.ModelID)
	if err != nil {
		Error(w, "Failed to register webhook", err)
		return
	}
	Success(w, http.StatusCreated, webhook, "Webhook registered successfully")
}

func (h *Handler) listWebhooks(w http.ResponseWriter, r *http.Request) {
	webhooks, err := h.adapter.ListWebhooks(r.Context())
	if err != nil {
		Error(w, "Failed to get webhooks", err)
		return
	}
	Success(w, http.StatusOK, webhooks, "")
}

func (h *Handler) deleteWebhook(w http.ResponseWriter, r *http.Request) {
	webhookID := r.PathValue("webhookId")
	if err := h.adapter.DeleteWebhook(r.Context(), webhookID); err != nil {
		Error(w, "Failed to delete webhook", err)
		return
	}
	Success(w, http.StatusOK, map[string]string{"id": webhookID}, "Webhook deleted successfully")
}

// Health

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": util.NowISO(),
	})
}
