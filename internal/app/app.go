package app

import (
	"errors"
	"math/rand/v2"
	"time"

	"lecturehub/pkg/store"
)

// Lecture code bounds; codes are human-shareable 6-digit numbers.
const (
	codeMin = 100000
	codeMax = 999999

	defaultCodeAttempts = 25
)

// Config holds the dependencies of the core application.
type Config struct {
	Store    store.Store
	Sessions store.SessionStore

	// CodeAttempts bounds the lecture code allocation loop. Zero means
	// the default.
	CodeAttempts int
}

// App is the workflow layer keeping lectures, invitations, attendance,
// feedback, and discussions consistent on top of single-document storage
// operations. It holds no locks of its own: every operation may run
// concurrently with any other, and all consistency comes from the store's
// per-record atomicity plus idempotent sub-steps.
type App struct {
	store        store.Store
	sessions     store.SessionStore
	codeAttempts int

	// test seams
	drawCode func() int
	now      func() time.Time
}

// New constructs the application core.
func New(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("session store is required")
	}
	attempts := cfg.CodeAttempts
	if attempts <= 0 {
		attempts = defaultCodeAttempts
	}
	return &App{
		store:        cfg.Store,
		sessions:     cfg.Sessions,
		codeAttempts: attempts,
		drawCode: func() int {
			return codeMin + rand.IntN(codeMax-codeMin+1)
		},
		now: time.Now,
	}, nil
}

func (a *App) nowMillis() int64 {
	return a.now().UnixMilli()
}
