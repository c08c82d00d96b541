package api

import (
	"sync"

	elyerr "github.com/amterp/elysian/internal/errors"
	"github.com/amterp/elysian/internal/id"
	"github.com/amterp/elysian/internal/service"
	"github.com/amterp/elysian/internal/session"
)

// SessionRegistry holds the live study sessions of a running server.
// Sessions live in memory only and are lost on restart.
type SessionRegistry struct {
	decks        *service.DeckService
	defaultGoal  int
	timerSeconds int

	mu       sync.RWMutex
	sessions map[string]*service.StudyService
	order    []string
}

// NewSessionRegistry creates an empty registry. New sessions start with the
// given goal and timer length.
func NewSessionRegistry(decks *service.DeckService, defaultGoal, timerSeconds int) *SessionRegistry {
	return &SessionRegistry{
		decks:        decks,
		defaultGoal:  defaultGoal,
		timerSeconds: timerSeconds,
		sessions:     make(map[string]*service.StudyService),
	}
}

// Create starts a session on deck. An empty deck name picks the first deck;
// a goal below one uses the registry default.
func (r *SessionRegistry) Create(deck string, goal int) (*service.StudyService, error) {
	if deck != "" && !r.decks.Has(deck) {
		return nil, elyerr.UnknownDeck(deck)
	}
	if goal < 1 {
		goal = r.defaultGoal
	}

	study := service.NewStudyService(r.decks, id.NewSessionID(), deck, goal)
	if r.timerSeconds != session.DefaultTimerSeconds {
		if _, _, err := study.ResetTimer(r.timerSeconds); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.sessions[study.ID()] = study
	r.order = append(r.order, study.ID())
	r.mu.Unlock()

	return study, nil
}

// Get returns the session with the given ID.
func (r *SessionRegistry) Get(sessionID string) (*service.StudyService, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	study, ok := r.sessions[sessionID]
	if !ok {
		return nil, elyerr.UnknownSession(sessionID)
	}
	return study, nil
}

// Remove ends a session.
func (r *SessionRegistry) Remove(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sessionID]; !ok {
		return elyerr.UnknownSession(sessionID)
	}
	delete(r.sessions, sessionID)
	for i, sid := range r.order {
		if sid == sessionID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// All returns the live sessions in creation order.
func (r *SessionRegistry) All() []*service.StudyService {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*service.StudyService, 0, len(r.order))
	for _, sid := range r.order {
		out = append(out, r.sessions[sid])
	}
	return out
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// RefreshAll re-validates every session against the current collection.
// Returns the views of sessions that changed.
func (r *SessionRegistry) RefreshAll() []session.View {
	var changed []session.View
	for _, study := range r.All() {
		if view, change := study.Refresh(); change != session.ChangeNone {
			changed = append(changed, view)
		}
	}
	return changed
}
