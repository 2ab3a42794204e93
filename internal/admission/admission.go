// Package admission issues and consumes single-use, time-limited upload tokens.
package admission

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 24 * time.Hour

// ErrInvalidToken is returned when the token was never issued (or was cleared).
var ErrInvalidToken = errors.New("invalid token")

// ErrTokenExpiredOrUsed is returned when the token is past its expiry or already consumed.
var ErrTokenExpiredOrUsed = errors.New("token expired or used")

// ErrTokenInUse is returned when another upload currently holds the token.
var ErrTokenInUse = errors.New("token in use")

// Token is a single admission grant.
type Token struct {
	ID     string    `json:"token"`
	Expiry time.Time `json:"expiry"`
	Used   bool      `json:"-"`
}

type record struct {
	expiry   time.Time
	used     bool
	reserved bool
}

// Controller holds all outstanding tokens in memory.
type Controller struct {
	mu     sync.Mutex
	tokens map[string]*record
	ttl    time.Duration
	now    func() time.Time
}

// NewController creates a Controller. A nil clock means time.Now.
func NewController(clock func() time.Time) *Controller {
	if clock == nil {
		clock = time.Now
	}
	return &Controller{
		tokens: make(map[string]*record),
		ttl:    TokenTTL,
		now:    clock,
	}
}

// Issue creates a fresh token. Existing tokens are left untouched.
func (c *Controller) Issue() Token {
	id := uuid.NewString()
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	c.tokens[id] = &record{expiry: expiry}
	c.mu.Unlock()

	log.Printf("admission: issued token %s (expires %s)", id, expiry.Format(time.RFC3339))
	return Token{ID: id, Expiry: expiry}
}

// Reserve checks that the token exists, is unexpired and unused, and holds it
// for the caller until MarkUsed or Release. The token is not consumed here.
func (c *Controller) Reserve(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.tokens[id]
	if !ok {
		return ErrInvalidToken
	}
	if rec.used || c.now().After(rec.expiry) {
		return ErrTokenExpiredOrUsed
	}
	if rec.reserved {
		return ErrTokenInUse
	}
	rec.reserved = true
	return nil
}

// MarkUsed consumes the token. Calling it again, or for an unknown id, does nothing.
func (c *Controller) MarkUsed(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if rec, ok := c.tokens[id]; ok {
		rec.used = true
		rec.reserved = false
	}
}

// Release gives a reserved token back without consuming it.
func (c *Controller) Release(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if rec, ok := c.tokens[id]; ok {
		rec.reserved = false
	}
}

// ClearAll discards every token regardless of state.
func (c *Controller) ClearAll() {
	c.mu.Lock()
	n := len(c.tokens)
	c.tokens = make(map[string]*record)
	c.mu.Unlock()

	log.Printf("admission: cleared %d tokens", n)
}

// Len returns the number of tracked tokens.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tokens)
}
