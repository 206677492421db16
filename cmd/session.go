package cmd

import (
	"fmt"

	"github.com/fakeyudi/promptperfect/internal/enhance"
	"github.com/fakeyudi/promptperfect/internal/session"
	"github.com/fakeyudi/promptperfect/internal/store"
)

// openSession opens the configured store and restores the session from it.
// The caller closes the store.
func openSession() (store.Store, *session.Session, error) {
	dir, err := store.DataDir()
	if err != nil {
		return nil, nil, fmt.Errorf("resolving data directory: %w", err)
	}
	st, err := store.Open(cfg.Store, dir)
	if err != nil {
		return nil, nil, err
	}
	return st, session.Load(st, logger), nil
}

// newClient builds the rephrase client from cfg.
func newClient() *enhance.Client {
	return enhance.New(cfg.APIURL,
		enhance.WithTimeout(cfg.Timeout()),
		enhance.WithLogger(logger),
	)
}
