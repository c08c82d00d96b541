package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/amterp/elysian/internal/model"
	"github.com/amterp/elysian/internal/service"
	"github.com/amterp/elysian/internal/session"
)

// maxImportBytes caps the body of a bulk import request.
const maxImportBytes = 1 << 20

// Handler contains all HTTP handlers for the API.
//
// One DeckService backs every request, so all clients see the same decks.
// Study sessions are per client and live in the registry until deleted or
// the server stops.
type Handler struct {
	decks    *service.DeckService
	sessions *SessionRegistry
}

// NewHandler creates a new handler with the given dependencies.
func NewHandler(decks *service.DeckService, sessions *SessionRegistry) *Handler {
	return &Handler{
		decks:    decks,
		sessions: sessions,
	}
}

// RegisterRoutes sets up all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Deck routes
	mux.HandleFunc("GET /api/v1/decks", h.ListDecks)
	mux.HandleFunc("POST /api/v1/decks", h.CreateDeck)

	// Card routes
	mux.HandleFunc("GET /api/v1/decks/{deck}/cards", h.ListCards)
	mux.HandleFunc("POST /api/v1/decks/{deck}/cards", h.CreateCard)
	mux.HandleFunc("PUT /api/v1/decks/{deck}/cards/{index}", h.UpdateCard)
	mux.HandleFunc("DELETE /api/v1/decks/{deck}/cards/{index}", h.DeleteCard)
	mux.HandleFunc("POST /api/v1/decks/{deck}/import", h.ImportCards)

	// Session routes
	mux.HandleFunc("POST /api/v1/sessions", h.CreateSession)
	mux.HandleFunc("GET /api/v1/sessions/{id}", h.GetSession)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}", h.DeleteSession)
	mux.HandleFunc("POST /api/v1/sessions/{id}/select", h.SelectDeck)
	mux.HandleFunc("POST /api/v1/sessions/{id}/next", h.sessionAction(nextCard))
	mux.HandleFunc("POST /api/v1/sessions/{id}/prev", h.sessionAction(prevCard))
	mux.HandleFunc("POST /api/v1/sessions/{id}/flip", h.sessionAction(flipCard))
	mux.HandleFunc("POST /api/v1/sessions/{id}/goal", h.SetGoal)
	mux.HandleFunc("POST /api/v1/sessions/{id}/timer/reset", h.ResetTimer)
	mux.HandleFunc("POST /api/v1/sessions/{id}/timer/start", h.sessionAction(startTimer))
	mux.HandleFunc("POST /api/v1/sessions/{id}/timer/stop", h.sessionAction(stopTimer))

	// Current-card routes
	mux.HandleFunc("POST /api/v1/sessions/{id}/cards", h.AddSessionCard)
	mux.HandleFunc("PUT /api/v1/sessions/{id}/card", h.EditSessionCard)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}/card", h.DeleteSessionCard)
}

// --- Deck Handlers ---

// DeckSummary describes one deck in a listing.
type DeckSummary struct {
	Name  string `json:"name"`
	Cards int    `json:"cards"`
}

// ListDecks returns all decks in collection order.
func (h *Handler) ListDecks(w http.ResponseWriter, r *http.Request) {
	names := h.decks.Decks()
	decks := make([]DeckSummary, 0, len(names))
	for _, name := range names {
		cards, err := h.decks.Cards(name)
		if err != nil {
			continue // Removed by a reload mid-listing
		}
		decks = append(decks, DeckSummary{Name: name, Cards: len(cards)})
	}
	JSON(w, http.StatusOK, map[string]any{"decks": decks})
}

// CreateDeckRequest is the JSON body for creating a deck.
// A missing name creates the next "Deck N".
type CreateDeckRequest struct {
	Name *string `json:"name,omitempty"`
}

// CreateDeck creates an empty deck.
func (h *Handler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var req CreateDeckRequest
	if err := decodeOptional(r, &req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	var name string
	var err error
	if req.Name == nil {
		name, err = h.decks.AddNextDeck()
	} else {
		name, err = h.decks.AddDeck(*req.Name)
	}
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusCreated, DeckSummary{Name: name})
}

// --- Card Handlers ---

// CardRequest is the JSON body for creating or replacing a card.
type CardRequest struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// ListCards returns a deck's cards in order.
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	deck := r.PathValue("deck")

	cards, err := h.decks.Cards(deck)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]any{"deck": deck, "cards": cards})
}

// CreateCard appends a card to a deck.
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	deck := r.PathValue("deck")

	var req CardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	card, err := h.decks.AddCard(deck, req.Q, req.A)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusCreated, card)
}

// UpdateCard replaces the card at an index.
func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	deck := r.PathValue("deck")
	index, ok := parseIndex(w, r)
	if !ok {
		return
	}

	var req CardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	changed, err := h.decks.UpdateCard(deck, index, req.Q, req.A)
	if err != nil {
		Error(w, err)
		return
	}

	cards, err := h.decks.Cards(deck)
	if err != nil || index >= len(cards) {
		JSON(w, http.StatusOK, map[string]any{"changed": changed})
		return
	}
	JSON(w, http.StatusOK, map[string]any{"card": cards[index], "changed": changed})
}

// DeleteCard removes the card at an index.
func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	deck := r.PathValue("deck")
	index, ok := parseIndex(w, r)
	if !ok {
		return
	}

	removed, err := h.decks.DeleteCard(deck, index)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]model.Card{"deleted": removed})
}

// ImportCards bulk-adds "question: answer" lines from a plain text body.
func (h *Handler) ImportCards(w http.ResponseWriter, r *http.Request) {
	deck := r.PathValue("deck")

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		BadRequest(w, "import body too large or unreadable")
		return
	}

	added, err := h.decks.BulkImport(deck, string(raw))
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]int{"added": added})
}

// --- Session Handlers ---

// SessionResponse is the JSON response for session operations.
type SessionResponse struct {
	View    session.View `json:"view"`
	Changed []string     `json:"changed"`
}

func respond(view session.View, change session.Change) SessionResponse {
	return SessionResponse{View: view, Changed: change.Names()}
}

// CreateSessionRequest is the JSON body for starting a session.
type CreateSessionRequest struct {
	Deck string `json:"deck,omitempty"`
	Goal int    `json:"goal,omitempty"`
}

// CreateSession starts a study session.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := decodeOptional(r, &req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	study, err := h.sessions.Create(req.Deck, req.Goal)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusCreated, respond(study.View(), session.ChangeNone))
}

// GetSession returns the session's current view.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	study, ok := h.study(w, r)
	if !ok {
		return
	}
	JSON(w, http.StatusOK, respond(study.View(), session.ChangeNone))
}

// DeleteSession ends a session.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Remove(r.PathValue("id")); err != nil {
		Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectDeckRequest is the JSON body for switching decks.
type SelectDeckRequest struct {
	Deck string `json:"deck"`
}

// SelectDeck switches the session to another deck.
func (h *Handler) SelectDeck(w http.ResponseWriter, r *http.Request) {
	study, ok := h.study(w, r)
	if !ok {
		return
	}

	var req SelectDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	view, change, err := study.Select(req.Deck)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, respond(view, change))
}

// GoalRequest is the JSON body for setting the daily goal.
type GoalRequest struct {
	Goal int `json:"goal"`
}

// SetGoal sets the session's daily goal.
func (h *Handler) SetGoal(w http.ResponseWriter, r *http.Request) {
	study, ok := h.study(w, r)
	if !ok {
		return
	}

	var req GoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	view, change, err := study.SetGoal(req.Goal)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, respond(view, change))
}

// TimerRequest is the JSON body for resetting the timer.
type TimerRequest struct {
	Seconds int `json:"seconds"`
}

// ResetTimer stops the timer and sets its length.
func (h *Handler) ResetTimer(w http.ResponseWriter, r *http.Request) {
	study, ok := h.study(w, r)
	if !ok {
		return
	}

	var req TimerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	view, change, err := study.ResetTimer(req.Seconds)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, respond(view, change))
}

// AddSessionCard appends a card to the session's deck.
func (h *Handler) AddSessionCard(w http.ResponseWriter, r *http.Request) {
	study, ok := h.study(w, r)
	if !ok {
		return
	}

	var req CardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	view, change, err := study.AddCard(req.Q, req.A)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusCreated, respond(view, change))
}

// EditSessionCard replaces the card the session is showing.
func (h *Handler) EditSessionCard(w http.ResponseWriter, r *http.Request) {
	study, ok := h.study(w, r)
	if !ok {
		return
	}

	var req CardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body")
		return
	}

	view, change, err := study.EditCurrent(req.Q, req.A)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, respond(view, change))
}

// DeleteSessionCard removes the card the session is showing.
func (h *Handler) DeleteSessionCard(w http.ResponseWriter, r *http.Request) {
	study, ok := h.study(w, r)
	if !ok {
		return
	}

	view, change, err := study.DeleteCurrent()
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, respond(view, change))
}

// studyAction is a session operation that cannot fail.
type studyAction func(*service.StudyService) (session.View, session.Change)

func nextCard(s *service.StudyService) (session.View, session.Change)   { return s.Next() }
func prevCard(s *service.StudyService) (session.View, session.Change)   { return s.Prev() }
func flipCard(s *service.StudyService) (session.View, session.Change)   { return s.Flip() }
func startTimer(s *service.StudyService) (session.View, session.Change) { return s.StartTimer() }
func stopTimer(s *service.StudyService) (session.View, session.Change)  { return s.StopTimer() }

// sessionAction adapts a body-less session operation to a handler.
func (h *Handler) sessionAction(action studyAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		study, ok := h.study(w, r)
		if !ok {
			return
		}
		view, change := action(study)
		JSON(w, http.StatusOK, respond(view, change))
	}
}

// study looks up the session named in the path, writing a 404 if missing.
func (h *Handler) study(w http.ResponseWriter, r *http.Request) (*service.StudyService, bool) {
	study, err := h.sessions.Get(r.PathValue("id"))
	if err != nil {
		Error(w, err)
		return nil, false
	}
	return study, true
}

// decodeOptional decodes a JSON body that may be absent.
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// parseIndex reads the {index} path value, writing a 400 if it isn't a number.
func parseIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		BadRequest(w, "card index must be a number")
		return 0, false
	}
	return index, true
}
