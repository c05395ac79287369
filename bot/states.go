package bot

import "sync"

type State int

const (
	StateIdle State = iota
	StateAwaitingURL
	StateAwaitingCookiesFile
	StateAwaitingBackupIndex
)

func NewStateTracker() *StateTracker {
	return &StateTracker{
		states:  make(map[int64]State),
		backups: make(map[int64][]string),
	}
}

// StateTracker remembers which conversational flow each user is in. A user
// is in at most one flow at a time.
type StateTracker struct {
	mut     sync.Mutex
	states  map[int64]State
	backups map[int64][]string
}

func (s *StateTracker) Get(userID int64) State {
	s.mut.Lock()
	defer s.mut.Unlock()
	return s.states[userID]
}

func (s *StateTracker) Set(userID int64, state State) {
	s.mut.Lock()
	defer s.mut.Unlock()
	s.states[userID] = state
}

// Clear resets the user to idle and reports whether they were mid-flow.
func (s *StateTracker) Clear(userID int64) bool {
	s.mut.Lock()
	defer s.mut.Unlock()
	_, active := s.states[userID]
	delete(s.states, userID)
	delete(s.backups, userID)
	return active
}

// SetBackups stashes the backup listing offered to the user so a numeric
// reply can be resolved against the same ordering.
func (s *StateTracker) SetBackups(userID int64, files []string) {
	s.mut.Lock()
	defer s.mut.Unlock()
	s.backups[userID] = files
}

func (s *StateTracker) Backups(userID int64) []string {
	s.mut.Lock()
	defer s.mut.Unlock()
	return s.backups[userID]
}
