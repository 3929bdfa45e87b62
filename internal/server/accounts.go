package server

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/errors"
	"github.com/julianstephens/habitgarden/internal/storage"
	"github.com/julianstephens/habitgarden/internal/store"
)

const minPasswordLength = 6

var (
	errBadCredentials   = errors.NewValidation("Invalid email or password")
	errDuplicateAccount = errors.NewValidation("An account with this email already exists")
)

// account is the server-side user record, kept under "user_<email>".
type account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"passwordHash"`
	IsPremium    bool      `json:"isPremium"`
	CreatedAt    time.Time `json:"createdAt"`
}

type accountView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsPremium bool      `json:"isPremium"`
	CreatedAt time.Time `json:"createdAt"`
}

func (a account) view() accountView {
	return accountView{ID: a.ID, Email: a.Email, Name: a.Name, IsPremium: a.IsPremium, CreatedAt: a.CreatedAt}
}

type accounts struct {
	backend storage.Backend
	mu      sync.Mutex
	cost    int
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", errors.NewValidation("Email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", errors.NewValidation("Invalid email address")
	}
	return email, nil
}

func accountKey(email string) string {
	return store.Key(constants.CollectionUsers, email)
}

func (a *accounts) get(email string) (account, error) {
	data, err := a.backend.Get(accountKey(email))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return account{}, errors.NotFoundf("account %s", email)
		}
		return account{}, err
	}
	var acct account
	if err := json.Unmarshal(data, &acct); err != nil {
		return account{}, fmt.Errorf("failed to decode account %s: %w", email, err)
	}
	return acct, nil
}

func (a *accounts) register(email, password, name string, now time.Time) (account, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return account{}, err
	}
	if len(password) < minPasswordLength {
		return account{}, errors.NewValidation(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := a.get(email); err == nil {
		return account{}, errDuplicateAccount
	} else if !errors.Is(err, errors.ErrNotFound) {
		return account{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return account{}, fmt.Errorf("failed to hash password: %w", err)
	}
	acct := account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	data, err := json.Marshal(acct)
	if err != nil {
		return account{}, err
	}
	if err := a.backend.Set(accountKey(email), data); err != nil {
		return account{}, fmt.Errorf("failed to save account: %w", err)
	}
	return acct, nil
}

// authenticate never reveals whether the email exists.
func (a *accounts) authenticate(email, password string) (account, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return account{}, errBadCredentials
	}
	acct, err := a.get(email)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return account{}, errBadCredentials
		}
		return account{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return account{}, errBadCredentials
	}
	return acct, nil
}
