package chat

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Store keeps one conversation per browser session in memory. Nothing is persisted
type Store struct {
	conversations map[string]*Conversation
	mutex         sync.RWMutex
	now           func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		conversations: make(map[string]*Conversation),
		now:           time.Now,
	}
}

// Get returns the conversation for a session, if one exists
func (s *Store) Get(sessionID string) (*Conversation, bool) {
	s.mutex.RLock()
	conv, ok := s.conversations[sessionID]
	s.mutex.RUnlock()

	if ok {
		conv.touch()
	}
	return conv, ok
}

// GetOrCreate returns the conversation for a session, creating an empty one if needed
func (s *Store) GetOrCreate(sessionID string) *Conversation {
	if conv, ok := s.Get(sessionID); ok {
		return conv
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	// Another request may have created it in the meantime
	if conv, ok := s.conversations[sessionID]; ok {
		return conv
	}

	conv := newConversation(sessionID, s.now)
	s.conversations[sessionID] = conv
	return conv
}

// Reset discards a session's conversation. A reply still in flight is dropped
func (s *Store) Reset(sessionID string) {
	s.mutex.Lock()
	conv, ok := s.conversations[sessionID]
	delete(s.conversations, sessionID)
	s.mutex.Unlock()

	if ok {
		conv.reset()
	}
}

// Sweep removes idle conversations unused for longer than ttl and returns how many were removed
func (s *Store) Sweep(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	removed := 0
	for id, conv := range s.conversations {
		if conv.idleSince(cutoff) {
			delete(s.conversations, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live conversations
func (s *Store) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.conversations)
}

// Sweeper periodically expires idle conversations on a cron schedule
type Sweeper struct {
	store *Store
	ttl   time.Duration
	cron  *cron.Cron
}

// NewSweeper schedules Sweep with the given cron spec (e.g. "@every 5m")
func NewSweeper(store *Store, spec string, ttl time.Duration) (*Sweeper, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", ttl)
	}

	s := &Sweeper{
		store: store,
		ttl:   ttl,
		cron:  cron.New(),
	}

	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid session sweep schedule '%s': %w", spec, err)
	}

	return s, nil
}

// run performs one sweep
func (s *Sweeper) run() {
	if removed := s.store.Sweep(s.ttl); removed > 0 {
		log.Printf("[SESSIONS]: Expired %d idle conversation(s), %d remaining", removed, s.store.Len())
	}
}

// Start begins the schedule
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop ends the schedule and waits for a running sweep to finish
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}
