// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/churchcms/internal/model"
	"github.com/olegiv/churchcms/internal/store"
)

// KeyUserID is the scs key holding the signed-in user's id.
const KeyUserID = "user_id"

// Session is the resolved identity of a request.
type Session struct {
	User    store.User
	IsAdmin bool
}

// ChangeKind says what happened to a session.
type ChangeKind int

const (
	SignedIn ChangeKind = iota + 1
	SignedOut
)

func (k ChangeKind) String() string {
	switch k {
	case SignedIn:
		return "signed_in"
	case SignedOut:
		return "signed_out"
	default:
		return "unknown"
	}
}

// Change is published to subscribers after a sign-in or sign-out.
type Change struct {
	Kind   ChangeKind
	UserID int64
	Email  string
	IP     string
	At     time.Time
}

// UserStore is the subset of store.Queries the provider needs.
type UserStore interface {
	GetUserByID(ctx context.Context, id int64) (store.User, error)
	UpdateUserLastSignIn(ctx context.Context, id int64, at time.Time) error
}

type subscriber struct {
	id int
	fn func(Change)
}

// Provider is the single process-wide source of the current session.
// Handlers receive the resolved *Session through the request context rather
// than loading the user themselves.
type Provider struct {
	sm    *scs.SessionManager
	users UserStore

	mu     sync.RWMutex
	subs   []subscriber
	nextID int
}

// NewProvider creates a provider over sm and users.
func NewProvider(sm *scs.SessionManager, users UserStore) *Provider {
	return &Provider{sm: sm, users: users}
}

// Manager exposes the underlying scs manager for LoadAndSave and flash messages.
func (p *Provider) Manager() *scs.SessionManager {
	return p.sm
}

// Current resolves the signed-in user. Any failure is treated as no session.
func (p *Provider) Current(ctx context.Context) *Session {
	userID := p.sm.GetInt64(ctx, KeyUserID)
	if userID == 0 {
		return nil
	}
	user, err := p.users.GetUserByID(ctx, userID)
	if err != nil {
		slog.Debug("session user lookup failed", "user_id", userID, "error", err)
		return nil
	}
	return &Session{User: user, IsAdmin: IsAdmin(user)}
}

// IsAdmin reports whether user may use the admin dashboard.
func IsAdmin(user store.User) bool {
	return model.IsAdminRole(user.Role)
}

// SignIn starts a session for user and notifies subscribers.
func (p *Provider) SignIn(ctx context.Context, user store.User, ip string) error {
	if err := p.sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	p.sm.Put(ctx, KeyUserID, user.ID)

	now := time.Now().UTC()
	if err := p.users.UpdateUserLastSignIn(ctx, user.ID, now); err != nil {
		slog.Warn("failed to record sign-in time", "user_id", user.ID, "error", err)
	}

	p.publish(Change{Kind: SignedIn, UserID: user.ID, Email: user.Email, IP: ip, At: now})
	return nil
}

// SignOut destroys the current session and notifies subscribers.
// Signing out without a session is a no-op.
func (p *Provider) SignOut(ctx context.Context, ip string) error {
	current := p.Current(ctx)
	if err := p.sm.Destroy(ctx); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	if current == nil {
		return nil
	}
	p.publish(Change{Kind: SignedOut, UserID: current.User.ID, Email: current.User.Email, IP: ip, At: time.Now().UTC()})
	return nil
}

// Subscribe registers fn for session changes and returns a function that
// removes it. Subscribers run synchronously in subscription order.
func (p *Provider) Subscribe(fn func(Change)) (unsubscribe func()) {
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.subs = append(p.subs, subscriber{id: id, fn: fn})
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			for i, s := range p.subs {
				if s.id == id {
					p.subs = append(p.subs[:i:i], p.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (p *Provider) publish(c Change) {
	p.mu.RLock()
	subs := make([]subscriber, len(p.subs))
	copy(subs, p.subs)
	p.mu.RUnlock()

	for _, s := range subs {
		s.fn(c)
	}
}

type contextKey struct{}

// NewContext returns ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored by NewContext, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey{}).(*Session)
	return s
}
