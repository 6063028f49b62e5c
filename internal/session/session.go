// Package session holds the state of the displayed document: the current
// re-segmented HTML, the loading flag, the last error and the transient
// export status.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// IdleLabel is shown on the copy control when no status is displayed.
const IdleLabel = "Kopyala"

// DefaultStatusDuration is how long an export status stays visible.
const DefaultStatusDuration = 2 * time.Second

// Phase is the lifecycle stage of the session.
type Phase int

// Session phases. Displayed and Failed are reached from Loading only.
const (
	Idle Phase = iota
	Loading
	Displayed
	Failed
)

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Displayed:
		return "displayed"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Timer is the handle of a scheduled status revert.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d.
type AfterFunc func(d time.Duration, f func()) Timer

func systemAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Snapshot is a point-in-time copy of the session state.
type Snapshot struct {
	Phase      Phase     `json:"-"`
	PhaseName  string    `json:"phase"`
	Loading    bool      `json:"loading"`
	DocumentID string    `json:"documentId,omitempty"`
	Document   string    `json:"document"`
	Error      string    `json:"error,omitempty"`
	Status     string    `json:"status,omitempty"`
	CopyLabel  string    `json:"copyLabel"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// HasDocument reports whether a document is displayed.
func (s Snapshot) HasDocument() bool {
	return s.DocumentID != ""
}

// Option configures a Store.
type Option func(*Store)

// WithStatusDuration sets how long export statuses stay visible.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithStatusDuration(d time.Duration) Option {
	if d <= 0 {
		panic("session: WithStatusDuration duration must be positive")
	}
	return func(s *Store) {
		s.statusDuration = d
	}
}

// WithAfterFunc replaces time.AfterFunc for status reverts.
func WithAfterFunc(f AfterFunc) Option {
	return func(s *Store) {
		s.afterFunc = f
	}
}

// WithClock sets the time source for UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator sets the document ID generator.
func WithIDGenerator(next func() string) Option {
	return func(s *Store) {
		s.newID = next
	}
}

// Store is the session state. It is safe for concurrent use.
type Store struct {
	mu sync.Mutex

	phase      Phase
	inflight   int
	document   string
	documentID string
	errMsg     string
	updatedAt  time.Time

	status         string
	statusVersion  uint64
	statusTimer    Timer
	statusDuration time.Duration

	afterFunc AfterFunc
	now       func() time.Time
	newID     func() string
}

// New creates an idle Store with no document.
func New(opts ...Option) *Store {
	s := &Store{
		statusDuration: DefaultStatusDuration,
		afterFunc:      systemAfterFunc,
		now:            time.Now,
		newID:          uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.updatedAt = s.now()
	return s
}

// Reject records an error without touching the document or the loading
// flag. Used for input rejected before any conversion starts.
func (s *Store) Reject(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.errMsg = message
	s.touch()
}

// BeginUpload enters Loading and clears the previous error and status.
// The displayed document stays until a conversion completes.
func (s *Store) BeginUpload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inflight++
	s.phase = Loading
	s.errMsg = ""
	s.clearStatusLocked()
	s.touch()
}

// Complete replaces the document wholesale. With overlapping uploads the
// last one to complete wins. Returns the new document ID.
func (s *Store) Complete(document string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.document = document
	s.documentID = s.newID()
	s.errMsg = ""
	s.finishLocked(Displayed)
	return s.documentID
}

// Fail records a conversion failure. No partial document is stored and
// any previous document is kept.
func (s *Store) Fail(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.errMsg = message
	s.finishLocked(Failed)
}

func (s *Store) finishLocked(outcome Phase) {
	if s.inflight > 0 {
		s.inflight--
	}
	if s.inflight > 0 {
		s.phase = Loading
	} else {
		s.phase = outcome
	}
	s.touch()
}

// ShowStatus displays an export status and schedules its revert to the
// idle label. A newer status cancels the pending revert of an older one.
// Returns the status version.
func (s *Store) ShowStatus(status string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.statusTimer != nil {
		s.statusTimer.Stop()
	}
	s.statusVersion++
	version := s.statusVersion
	s.status = status
	s.statusTimer = s.afterFunc(s.statusDuration, func() {
		s.ExpireStatus(version)
	})
	s.touch()
	return version
}

// ExpireStatus clears the status if version is still the current one.
// Reports whether the status was cleared.
func (s *Store) ExpireStatus(version uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if version != s.statusVersion || s.status == "" {
		return false
	}
	s.status = ""
	s.statusTimer = nil
	s.touch()
	return true
}

func (s *Store) clearStatusLocked() {
	if s.statusTimer != nil {
		s.statusTimer.Stop()
		s.statusTimer = nil
	}
	if s.status != "" {
		s.statusVersion++
		s.status = ""
	}
}

// Document returns the displayed document and whether one exists.
func (s *Store) Document() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.document, s.documentID != ""
}

// CopyLabel returns the current status, or IdleLabel when none is shown.
func (s *Store) CopyLabel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLabelLocked()
}

func (s *Store) copyLabelLocked() string {
	if s.status != "" {
		return s.status
	}
	return IdleLabel
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Phase:      s.phase,
		PhaseName:  s.phase.String(),
		Loading:    s.inflight > 0,
		DocumentID: s.documentID,
		Document:   s.document,
		Error:      s.errMsg,
		Status:     s.status,
		CopyLabel:  s.copyLabelLocked(),
		UpdatedAt:  s.updatedAt,
	}
}

// Close stops a pending status revert.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statusTimer != nil {
		s.statusTimer.Stop()
		s.statusTimer = nil
	}
}

func (s *Store) touch() {
	s.updatedAt = s.now()
}
