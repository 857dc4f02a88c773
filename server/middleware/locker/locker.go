// Package locker provides an HTTP middleware which allows a route tree to be
// locked, returning 423 (locked).  Locking the instrument during a long
// acquisition keeps other clients from disturbing the trigger setup.
package locker

import (
	"net/http"
	"strings"
	"sync"

	"goji.io/pat"

	"github.com/openwave-gw/godso/generichttp"
)

// Inject adds GET and POST /lock routes to an HTTPer which manipulate l
func Inject(other generichttp.HTTPer, l *Locker) {
	rt := other.RT()
	rt[pat.Get("/lock")] = generichttp.GetBool(func() (bool, error) { return l.Locked(), nil })
	rt[pat.Post("/lock")] = generichttp.SetBool(l.lock, l.unlock)
}

// Locker behaves like a mutex without the blocking, and holds a list of
// route substrings to leave unprotected
type Locker struct {
	mu       sync.Mutex
	isLocked bool

	// DoNotProtect is a list of paths not to apply the lock to
	DoNotProtect []string
}

// New returns a new Locker with DoNotProtect prepopulated with "lock"
func New() *Locker {
	return &Locker{DoNotProtect: []string{"lock"}}
}

// Lock the locker
func (l *Locker) Lock() {
	l.mu.Lock()
	l.isLocked = true
	l.mu.Unlock()
}

// Unlock the locker
func (l *Locker) Unlock() {
	l.mu.Lock()
	l.isLocked = false
	l.mu.Unlock()
}

// Locked returns true if the locker is locked
func (l *Locker) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.isLocked
}

func (l *Locker) lock() error {
	l.Lock()
	return nil
}

func (l *Locker) unlock() error {
	l.Unlock()
	return nil
}

// Check is an HTTP middleware that returns http.StatusLocked while the
// locker is held, except for paths on the DoNotProtect list
func (l *Locker) Check(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.Locked() {
			protected := true
			for _, str := range l.DoNotProtect {
				if strings.Contains(r.URL.Path, str) {
					protected = false
				}
			}
			if protected {
				w.WriteHeader(http.StatusLocked)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
