package lock

import (
	"context"
	"sync"
	"time"
)

// UserLocker serializes lifecycle operations (anonymize/restore) per user id.
// Concurrent admin actions on the same account would otherwise race on the
// lifecycle fields.
type UserLocker interface {
	// Acquire blocks until the lock for key is held, then returns a release
	// function. ttl bounds how long a crashed holder can wedge the key on
	// distributed implementations.
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// LocalLocker is the in-process fallback used when Redis is not configured.
// It only protects against races inside a single instance.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*entry)}
}

func (l *LocalLocker) Acquire(ctx context.Context, key string, _ time.Duration) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	release := func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
	return release, nil
}
