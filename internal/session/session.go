// Package session holds the in-memory prompt session and its workflow.
//
// A Session is owned by a single event loop (the TUI's Update, or the
// headless enhance command). None of its methods lock; callers must not share
// a Session across goroutines. Asynchronous work (the rephrase request and the
// clipboard write) runs elsewhere and reports back through Complete, Copied
// and CopyFailed on the owning loop.
package session

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fakeyudi/promptperfect/internal/store"
)

// CopyAckWindow is how long CopyAcknowledged stays true after a copy.
const CopyAckWindow = 2 * time.Second

// FailureNotice is the message shown once after a failed request.
const FailureNotice = "An error occurred. Please try again."

// Validation errors returned by Enhance. The TUI never surfaces these; it
// simply disables the action.
var (
	ErrBlankInput = errors.New("input is empty")
	ErrBusy       = errors.New("a request is already in progress")
)

// Status is the derived workflow phase.
type Status int

const (
	StatusIdle Status = iota
	StatusBusy
	StatusReady
	// StatusError is display-only: reported by DisplayStatus while a failure
	// notice is pending. It is never stored.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusBusy:
		return "busy"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Request identifies one submitted rephrase. Gen ties the eventual result to
// the submit that produced it.
type Request struct {
	ID   string
	Gen  uint64
	Text string
}

// AckToken identifies one copy acknowledgment window.
type AckToken uint64

// Session is the in-memory record of the current prompt and result.
type Session struct {
	input   string
	output  string
	busy    bool
	version int
	gen     uint64 // bumped by Submit and Clear; completions must match it
	notice  error

	// pending is the generation of the call still on the wire, 0 for none.
	// Clear leaves it set, so no second call starts until the first returns.
	pending uint64

	copyAck   bool
	copyToken AckToken

	store  store.Store
	logger *zap.Logger
}

// Load builds a Session from whatever st holds. Read failures are logged and
// treated as an empty value.
func Load(st store.Store, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{store: st, logger: logger}
	s.input = s.restore(store.KeyPrompt)
	s.output = s.restore(store.KeyOutput)
	logger.Debug("Session restored",
		zap.Int("input_chars", len(s.input)),
		zap.Int("output_chars", len(s.output)))
	return s
}

func (s *Session) restore(key string) string {
	v, err := s.store.Get(key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("Failed to restore session value", zap.String("key", key), zap.Error(err))
		}
		return ""
	}
	return v
}

// Input returns the current prompt text.
func (s *Session) Input() string { return s.input }

// Output returns the last accepted result.
func (s *Session) Output() string { return s.output }

// Version is incremented each time a new output is accepted.
func (s *Session) Version() int { return s.version }

// InputLength is the prompt length in characters.
func (s *Session) InputLength() int { return utf8.RuneCountInString(s.input) }

// CopyAcknowledged reports whether a copy succeeded within the last CopyAckWindow.
func (s *Session) CopyAcknowledged() bool { return s.copyAck }

// Notice returns the pending failure, if any.
func (s *Session) Notice() error { return s.notice }

// DismissNotice acknowledges the pending failure.
func (s *Session) DismissNotice() { s.notice = nil }

// Status derives the workflow phase from the session fields.
func (s *Session) Status() Status {
	switch {
	case s.busy:
		return StatusBusy
	case s.output != "":
		return StatusReady
	default:
		return StatusIdle
	}
}

// DisplayStatus is Status, except StatusError while a failure notice is pending.
func (s *Session) DisplayStatus() Status {
	if s.notice != nil && !s.busy {
		return StatusError
	}
	return s.Status()
}

// CanSubmit reports whether Submit would issue a request.
func (s *Session) CanSubmit() bool {
	return !s.InFlight() && strings.TrimSpace(s.input) != ""
}

// InFlight reports whether an enhancement call is still outstanding. After a
// Clear during Busy this stays true until the discarded call returns.
func (s *Session) InFlight() bool { return s.busy || s.pending != 0 }

// CanClear reports whether there is anything to clear.
func (s *Session) CanClear() bool {
	return s.input != "" || s.output != ""
}

// CanCopy reports whether the copy action is offered.
func (s *Session) CanCopy() bool {
	return s.output != "" && !s.busy
}

// Edit replaces the prompt and persists it.
func (s *Session) Edit(text string) {
	s.input = text
	s.persist(store.KeyPrompt, text)
}

// Submit moves the session to Busy and returns the request to send. It
// returns false without changing anything when the input is blank or a
// request is already outstanding.
func (s *Session) Submit() (Request, bool) {
	if !s.CanSubmit() {
		return Request{}, false
	}
	s.gen++
	s.busy = true
	s.pending = s.gen
	s.notice = nil
	req := Request{ID: uuid.New().String(), Gen: s.gen, Text: s.input}
	s.logger.Info("Submitting prompt",
		zap.String("request_id", req.ID),
		zap.Uint64("generation", req.Gen),
		zap.Int("chars", len(req.Text)))
	return req, true
}

// Complete applies the outcome of req. It returns false when req is no longer
// current (the session was cleared or resubmitted since) and the outcome was
// discarded.
func (s *Session) Complete(req Request, result string, err error) bool {
	log := s.logger.With(zap.String("request_id", req.ID), zap.Uint64("generation", req.Gen))
	if req.Gen == s.pending {
		s.pending = 0
	}
	if !s.busy || req.Gen != s.gen {
		log.Debug("Discarding stale completion", zap.Uint64("current_generation", s.gen), zap.Error(err))
		return false
	}
	s.busy = false

	if err == nil && result == "" {
		err = errors.New("empty result")
	}
	if err != nil {
		log.Error("Rephrase request failed", zap.Error(err))
		s.notice = err
		return true
	}

	s.output = result
	s.version++
	s.persist(store.KeyOutput, result)
	log.Info("Rephrase request succeeded", zap.Int("version", s.version), zap.Int("chars", len(result)))
	return true
}

// Clear empties both fields, removes both stored entries and invalidates any
// outstanding request. The request keeps running; Submit stays unavailable
// until its discarded result arrives.
func (s *Session) Clear() {
	if s.busy {
		s.logger.Info("Clearing session with a request in flight", zap.Uint64("generation", s.gen))
	}
	s.gen++
	s.busy = false
	s.input = ""
	s.output = ""
	s.notice = nil
	for _, key := range []string{store.KeyPrompt, store.KeyOutput} {
		if err := s.store.Remove(key); err != nil {
			s.logger.Warn("Failed to remove stored value", zap.String("key", key), zap.Error(err))
		}
	}
}

// CopyText returns the text to copy, or false when there is none.
func (s *Session) CopyText() (string, bool) {
	if s.output == "" {
		return "", false
	}
	return s.output, true
}

// Copied records a successful copy and opens a new acknowledgment window. The
// returned token must be passed to ExpireCopyAck when the window elapses; a
// later copy supersedes it.
func (s *Session) Copied() AckToken {
	s.copyToken++
	s.copyAck = true
	return s.copyToken
}

// CopyFailed logs a clipboard failure. It changes nothing else.
func (s *Session) CopyFailed(err error) {
	s.logger.Warn("Failed to copy", zap.Error(err))
}

// ExpireCopyAck closes the acknowledgment window opened by tok. It returns
// false when a later copy has restarted the window.
func (s *Session) ExpireCopyAck(tok AckToken) bool {
	if tok != s.copyToken {
		return false
	}
	s.copyAck = false
	return true
}

// persist writes a value through to the store. Empty outputs are never
// written. Failures are logged and otherwise ignored.
func (s *Session) persist(key, value string) {
	if key == store.KeyOutput && value == "" {
		return
	}
	if err := s.store.Set(key, value); err != nil {
		s.logger.Warn("Failed to persist session value", zap.String("key", key), zap.Error(err))
	}
}
