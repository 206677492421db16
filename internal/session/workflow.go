package session

import (
	"context"

	"github.com/fakeyudi/promptperfect/internal/enhance"
)

// Enhancer performs one rephrase call. *enhance.Client satisfies it.
type Enhancer interface {
	Enhance(ctx context.Context, text string) (string, error)
}

// Run issues req through e and returns the raw outcome. It does not touch the
// session, so it may run off the owning loop; the caller passes the result to
// Complete.
func Run(ctx context.Context, e Enhancer, req Request) (string, error) {
	return e.Enhance(enhance.WithRequestID(ctx, req.ID), req.Text)
}

// Enhance submits the current input and waits for the result on the calling
// goroutine. It returns ErrBlankInput or ErrBusy when the submit guard
// rejects the call, and the request error when the call fails.
func (s *Session) Enhance(ctx context.Context, e Enhancer) error {
	req, ok := s.Submit()
	if !ok {
		if s.InFlight() {
			return ErrBusy
		}
		return ErrBlankInput
	}
	result, err := Run(ctx, e, req)
	s.Complete(req, result, err)
	if notice := s.Notice(); notice != nil {
		// Returned to the caller directly; nothing left to acknowledge.
		s.DismissNotice()
		return notice
	}
	return nil
}
