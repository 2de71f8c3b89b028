package client

import (
	"Foodies-Backend/domain"
	"context"
	"sync"
)

type (
	State struct {
		User      *domain.UserResponse
		IsLoading bool
	}

	// Session is the process-wide holder of the signed-in user. It starts
	// loading and becomes ready once Load has read the store.
	Session struct {
		mu             sync.RWMutex
		client         *Client
		store          Store
		user           *domain.UserResponse
		loading        bool
		onUnauthorized func()
	}
)

// NewSession builds a session and its API client over store. onUnauthorized
// runs after any 401, once the stored auth and the in-memory user are gone.
func NewSession(baseURL string, store Store, onUnauthorized func()) *Session {
	s := &Session{store: store, loading: true, onUnauthorized: onUnauthorized}
	s.client = New(Config{BaseURL: baseURL, Store: store, OnUnauthorized: s.unauthorized})
	return s
}

func (s *Session) Client() *Client {
	return s.client
}

func (s *Session) unauthorized() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	if s.onUnauthorized != nil {
		s.onUnauthorized()
	}
}

// Load restores the user when both token and user were persisted.
func (s *Session) Load() error {
	auth, err := s.store.Load()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		return err
	}
	if auth.Token != "" && auth.User != nil {
		s.user = auth.User
	}
	return nil
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{User: s.user, IsLoading: s.loading}
}

func (s *Session) IsAuthenticated() bool {
	return s.State().User != nil
}

func (s *Session) Login(ctx context.Context, req domain.LoginRequest) error {
	res, err := s.client.Login(ctx, req)
	if err != nil {
		return err
	}
	return s.signIn(res)
}

func (s *Session) Register(ctx context.Context, req domain.RegisterRequest) error {
	res, err := s.client.Register(ctx, req)
	if err != nil {
		return err
	}
	return s.signIn(res)
}

func (s *Session) signIn(res *domain.AuthResponse) error {
	user := res.User
	if err := s.store.Save(Auth{Token: res.Token, User: &user}); err != nil {
		return err
	}
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return nil
}

// Logout tells the server best effort; local state is cleared regardless.
func (s *Session) Logout(ctx context.Context) error {
	_ = s.client.Logout(ctx)

	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	return s.store.Clear()
}
