// Package service provides the session and shopping-list business logic,
// delegating persistence to repository interfaces.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/atinyakov/ShopKeeper/internal/models"
	"github.com/google/uuid"
)

// FederatedPassword is stored for accounts created through federated login.
const FederatedPassword = "google-auth"

// AuthRepository defines the persistence operations
// required by the authentication service.
type AuthRepository interface {
	// RegisteredUsers returns the registered-user table in insertion order.
	RegisteredUsers(ctx context.Context) []models.StoredUser
	// SaveRegisteredUsers replaces the whole registered-user table.
	SaveRegisteredUsers(ctx context.Context, users []models.StoredUser)
	// ActiveSession returns the active session user or nil.
	ActiveSession(ctx context.Context) *models.User
	// SaveSession persists the active session user.
	SaveSession(ctx context.Context, u models.User)
	// ClearSession removes the active session.
	ClearSession(ctx context.Context)
}

// AuthService implements registration, login and the active session
// by delegating to an AuthRepository.
type AuthService struct {
	// repo performs the data-layer operations.
	repo  AuthRepository
	newID func() string
}

// NewAuthService constructs a new AuthService using the provided repository.
func NewAuthService(repo AuthRepository) *AuthService {
	return &AuthService{repo: repo, newID: uuid.NewString}
}

// Register creates a local account and makes it the active session.
// It fails with ErrDuplicateEmail when email is already registered
// (exact, case-sensitive comparison).
func (s *AuthService) Register(ctx context.Context, name, email, password string) (models.User, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return models.User{}, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}

	users := s.repo.RegisteredUsers(ctx)
	if _, ok := findByEmail(users, email); ok {
		return models.User{}, ErrDuplicateEmail
	}

	stored := models.StoredUser{
		ID:       s.newID(),
		Name:     name,
		Email:    email,
		Password: password,
		Provider: models.ProviderLocal,
	}
	users = append(users, stored)
	s.repo.SaveRegisteredUsers(ctx, users)

	u := stored.Public()
	s.repo.SaveSession(ctx, u)
	return u, nil
}

// Login makes the first account matching email and password the active session.
// On ErrInvalidCredentials the active session is left as it was.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, error) {
	if email == "" || password == "" {
		return models.User{}, ErrInvalidCredentials
	}

	for _, su := range s.repo.RegisteredUsers(ctx) {
		if su.Email == email && su.Password == password {
			u := su.Public()
			s.repo.SaveSession(ctx, u)
			return u, nil
		}
	}
	return models.User{}, ErrInvalidCredentials
}

// LoginWithFederatedAccount signs in with an account picked from the
// federated provider, registering it on first use.
func (s *AuthService) LoginWithFederatedAccount(ctx context.Context, account models.FederatedAccount) (models.User, error) {
	if account.Email == "" {
		return models.User{}, fmt.Errorf("%w: account email is required", ErrInvalidInput)
	}

	users := s.repo.RegisteredUsers(ctx)
	existing, ok := findByEmail(users, account.Email)
	if !ok {
		id := account.ID
		if id == "" {
			id = s.newID()
		}
		existing = models.StoredUser{
			ID:       id,
			Name:     account.Name,
			Email:    account.Email,
			Password: FederatedPassword,
			Provider: models.ProviderGoogle,
			PhotoURL: account.PhotoURL,
		}
		users = append(users, existing)
		s.repo.SaveRegisteredUsers(ctx, users)
	}

	u := existing.Public()
	u.Provider = models.ProviderGoogle
	s.repo.SaveSession(ctx, u)
	return u, nil
}

// Logout clears the active session. Registered users are kept.
func (s *AuthService) Logout(ctx context.Context) {
	s.repo.ClearSession(ctx)
}

// ActiveSession returns the active session user, or nil when logged out.
func (s *AuthService) ActiveSession(ctx context.Context) *models.User {
	return s.repo.ActiveSession(ctx)
}

// State returns the authentication view of the active session.
func (s *AuthService) State(ctx context.Context) models.AuthState {
	u := s.repo.ActiveSession(ctx)
	return models.AuthState{User: u, IsAuthenticated: u != nil}
}

// FederatedAccounts lists the accounts offered by the mock account picker.
func (s *AuthService) FederatedAccounts() []models.FederatedAccount {
	out := make([]models.FederatedAccount, len(federatedAccounts))
	copy(out, federatedAccounts)
	return out
}

var federatedAccounts = []models.FederatedAccount{
	{
		ID:       "google-account-1",
		Name:     "João Silva",
		Email:    "joao.silva@gmail.com",
		PhotoURL: "https://ui-avatars.com/api/?name=João+Silva&background=random",
	},
	{
		ID:       "google-account-2",
		Name:     "Maria Souza",
		Email:    "maria.souza@gmail.com",
		PhotoURL: "https://ui-avatars.com/api/?name=Maria+Souza&background=random",
	},
	{
		ID:       "google-account-3",
		Name:     "Pedro Santos",
		Email:    "pedro.santos@gmail.com",
		PhotoURL: "https://ui-avatars.com/api/?name=Pedro+Santos&background=random",
	},
}

// findByEmail returns the first user with the given email in insertion order.
func findByEmail(users []models.StoredUser, email string) (models.StoredUser, bool) {
	for _, u := range users {
		if u.Email == email {
			return u, true
		}
	}
	return models.StoredUser{}, false
}
