package customize

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dixieflatline76/Muralist/util/log"
)

// sessionRecord is the persisted slice of a session: enough to
// rehydrate the customer's inputs after a restart, not the derived
// geometry (that is recomputed from events).
type sessionRecord struct {
	SessionID       string  `json:"session_id"`
	ProductID       string  `json:"product_id"`
	WidthRaw        string  `json:"width_raw"`
	HeightRaw       string  `json:"height_raw"`
	MaterialID      string  `json:"material_id,omitempty"`
	CroppingEnabled bool    `json:"cropping_enabled"`
	Total           float64 `json:"total"`
}

// Store is a thread-safe registry of live customization sessions with
// debounced snapshot persistence.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	cachePath string
	asyncSave bool

	saveTimer *time.Timer
	saveMu    sync.Mutex

	// Testing hook
	saveFunc func()

	debounceDuration time.Duration
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions:         make(map[string]*Session),
		asyncSave:        true,
		debounceDuration: 2 * time.Second,
	}
}

// SetDebounceDuration overrides the save debounce, mainly for tests.
func (s *Store) SetDebounceDuration(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debounceDuration = d
}

// SetAsyncSave toggles debounced saving; off means save-on-write.
func (s *Store) SetAsyncSave(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asyncSave = enabled
}

// SetCachePath sets where snapshots are written. Empty disables
// persistence.
func (s *Store) SetCachePath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cachePath = path
}

// Add registers a session. Returns false if the ID already exists.
func (s *Store) Add(sess *Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sess.ID()]; exists {
		return false
	}
	s.sessions[sess.ID()] = sess
	s.scheduleSaveLocked()
	return true
}

// Get returns the session with the given ID.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Remove drops a session, typically after commit or expiry.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[id]; !exists {
		return false
	}
	delete(s.sessions, id)
	s.scheduleSaveLocked()
	return true
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Touch schedules a snapshot save after a session mutation.
func (s *Store) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduleSaveLocked()
}

// scheduleSaveLocked handles persistence.
// CALLER MUST HOLD s.mu (at least read for snapshotLocked).
func (s *Store) scheduleSaveLocked() {
	if s.cachePath == "" && s.saveFunc == nil {
		return
	}
	if !s.asyncSave {
		records := s.snapshotLocked()
		s.saveRecords(records)
		return
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	s.saveTimer = time.AfterFunc(s.debounceDuration, func() {
		s.Save()
	})
}

// snapshotLocked builds persistable records. Caller must hold s.mu.
func (s *Store) snapshotLocked() []sessionRecord {
	records := make([]sessionRecord, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sess.mu.Lock()
		rec := sessionRecord{
			SessionID:       sess.id,
			ProductID:       sess.product.ID,
			WidthRaw:        sess.widthRaw,
			HeightRaw:       sess.heightRaw,
			CroppingEnabled: sess.croppingEnabled,
			Total:           sess.quote.Total,
		}
		if sess.material != nil {
			rec.MaterialID = sess.material.ID
		}
		sess.mu.Unlock()
		records = append(records, rec)
	}
	return records
}

// Save writes the current snapshot immediately.
func (s *Store) Save() {
	s.mu.RLock()
	records := s.snapshotLocked()
	s.mu.RUnlock()
	s.saveRecords(records)
}

func (s *Store) saveRecords(records []sessionRecord) {
	if s.saveFunc != nil {
		s.saveFunc()
		return
	}
	if s.cachePath == "" {
		return
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		log.Printf("Failed to marshal session snapshot: %v", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.cachePath), 0755); err != nil {
		log.Printf("Failed to create snapshot directory: %v", err)
		return
	}
	if err := os.WriteFile(s.cachePath, data, 0644); err != nil {
		log.Printf("Failed to write session snapshot: %v", err)
	}
}
