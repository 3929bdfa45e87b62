// Package auth manages the signed-in session on this device: the bearer token
// lives in the OS keyring and the active email in the local store.
package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/julianstephens/habitgarden/internal/errors"
	"github.com/julianstephens/habitgarden/internal/keyring"
	"github.com/julianstephens/habitgarden/internal/logger"
	"github.com/julianstephens/habitgarden/internal/models"
	"github.com/julianstephens/habitgarden/internal/remote"
	"github.com/julianstephens/habitgarden/internal/store"
)

// ErrNotLoggedIn is returned by operations that need a session.
var ErrNotLoggedIn = fmt.Errorf("not logged in")

// TokenStore persists bearer tokens per account.
type TokenStore interface {
	Get(email string) (string, error)
	Set(email, token string) error
	Delete(email string) error
}

// KeyringTokens stores tokens in the OS keyring.
type KeyringTokens struct{}

func (KeyringTokens) Get(email string) (string, error) { return keyring.GetSessionToken(email) }

func (KeyringTokens) Set(email, token string) error { return keyring.SetSessionToken(email, token) }

func (KeyringTokens) Delete(email string) error { return keyring.DeleteSessionToken(email) }

// SessionTokens is a remote.TokenSource returning the current account's token.
type SessionTokens struct {
	Store  *store.Store
	Tokens TokenStore
}

func (s SessionTokens) Token() (string, error) {
	email, err := s.Store.CurrentUser()
	if err != nil || email == "" {
		return "", err
	}
	token, err := s.Tokens.Get(email)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return token, nil
}

type Manager struct {
	client *remote.Client
	store  *store.Store
	tokens TokenStore
}

func NewManager(client *remote.Client, s *store.Store, tokens TokenStore) *Manager {
	return &Manager{client: client, store: s, tokens: tokens}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", errors.NewValidation("Email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", errors.NewValidation(fmt.Sprintf("Invalid email address %q", email))
	}
	return email, nil
}

func (m *Manager) Register(ctx context.Context, email, password, name string) (remote.AuthUser, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return remote.AuthUser{}, err
	}
	if password == "" {
		return remote.AuthUser{}, errors.NewValidation("Password is required")
	}
	res, err := m.client.Register(ctx, remote.RegisterRequest{Email: email, Password: password, Name: strings.TrimSpace(name)})
	if err != nil {
		return remote.AuthUser{}, describe("Registration failed", err)
	}
	if err := m.establish(res); err != nil {
		return remote.AuthUser{}, err
	}
	logger.Info("Account registered", "email", res.User.Email)
	return res.User, nil
}

func (m *Manager) Login(ctx context.Context, email, password string) (remote.AuthUser, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return remote.AuthUser{}, err
	}
	res, err := m.client.Login(ctx, remote.LoginRequest{Email: email, Password: password})
	if err != nil {
		return remote.AuthUser{}, describe("Login failed", err)
	}
	if err := m.establish(res); err != nil {
		return remote.AuthUser{}, err
	}
	logger.Info("Logged in", "email", res.User.Email)
	return res.User, nil
}

// describe turns API rejections into the server's message.
func describe(prefix string, err error) error {
	var re *remote.RemoteError
	if errors.As(err, &re) {
		if msg := re.Message(); msg != "" {
			return fmt.Errorf("%s: %s: %w", prefix, msg, err)
		}
	}
	return fmt.Errorf("%s: %w", prefix, err)
}

func (m *Manager) establish(res remote.AuthResult) error {
	if res.Token == "" {
		return fmt.Errorf("server did not return a session token")
	}
	email := strings.ToLower(res.User.Email)
	if email == "" {
		return fmt.Errorf("server did not return the account email")
	}
	if err := m.tokens.Set(email, res.Token); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	if err := m.store.SetCurrentUser(email); err != nil {
		return err
	}

	loggedIn := true
	premium := res.User.IsPremium
	name := res.User.Name
	_, err := m.store.UpdatePreferences(email, models.PreferencesPatch{
		IsLoggedIn: &loggedIn,
		UserEmail:  &email,
		UserName:   &name,
		IsPremium:  &premium,
	})
	return err
}

// Logout forgets the session token and returns the device to guest mode.
// Cached habits of the account stay on disk.
func (m *Manager) Logout() error {
	email, err := m.store.CurrentUser()
	if err != nil {
		return err
	}
	if email == "" {
		return ErrNotLoggedIn
	}
	if err := m.tokens.Delete(email); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	if err := m.store.ClearCurrentUser(); err != nil {
		return err
	}
	loggedIn := false
	if _, err := m.store.UpdatePreferences(email, models.PreferencesPatch{IsLoggedIn: &loggedIn}); err != nil {
		return err
	}
	logger.Info("Logged out", "email", email)
	return nil
}

// Current returns the active identity. A current user whose token has gone
// missing is treated as a guest.
func (m *Manager) Current() (models.Identity, error) {
	email, err := m.store.CurrentUser()
	if err != nil {
		return models.Identity{}, err
	}
	if email == "" {
		return models.Guest(), nil
	}
	if _, err := m.tokens.Get(email); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			logger.Warn("Session token missing, continuing as guest", "email", email)
			return models.Guest(), nil
		}
		return models.Identity{}, err
	}
	return models.Account(email), nil
}

// Me asks the server who the current token belongs to.
func (m *Manager) Me(ctx context.Context) (remote.AuthUser, error) {
	id, err := m.Current()
	if err != nil {
		return remote.AuthUser{}, err
	}
	if !id.Authenticated {
		return remote.AuthUser{}, ErrNotLoggedIn
	}
	return m.client.Me(ctx)
}
