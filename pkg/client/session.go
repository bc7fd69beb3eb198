package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ikkim/member-directory/internal/directory"
)

// ErrNoSession is returned when an operation needs a hydrated session.
var ErrNoSession = errors.New("session not hydrated")

// Session holds the signed-in member. It is passed explicitly to whatever
// needs the viewer.
type Session struct {
	client   *Client
	email    string
	password string

	mu     sync.RWMutex
	viewer *directory.Record
}

func NewSession(c *Client, email, password string) *Session {
	return &Session{client: c, email: email, password: password}
}

func (s *Session) Client() *Client {
	return s.client
}

// Hydrate logs in and loads the viewer's full record.
func (s *Session) Hydrate(ctx context.Context) error {
	login, err := s.client.MemberLogin(ctx, s.email, s.password)
	if err != nil {
		return err
	}

	var account struct {
		ID uint `json:"mid"`
	}
	if err := json.Unmarshal(login.Account, &account); err != nil {
		return fmt.Errorf("failed to read member id: %w", err)
	}

	viewer, err := s.client.Member(ctx, account.ID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.viewer = &viewer
	s.mu.Unlock()
	return nil
}

// Viewer returns a copy of the signed-in member, or nil before Hydrate.
func (s *Session) Viewer() *directory.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.viewer == nil {
		return nil
	}
	v := *s.viewer
	return &v
}

// Clear logs out and drops the viewer.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.viewer = nil
	s.mu.Unlock()
	return s.client.Logout(ctx)
}
