package service

import (
	"context"
	"errors"
	"testing"

	"github.com/atinyakov/ShopKeeper/internal/kv"
	"github.com/atinyakov/ShopKeeper/internal/models"
	"github.com/atinyakov/ShopKeeper/internal/repository"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockAuthRepo struct {
	users   []models.StoredUser
	session *models.User

	saveUsersCalls   int
	saveSessionCalls int
}

func (m *mockAuthRepo) RegisteredUsers(context.Context) []models.StoredUser {
	return append([]models.StoredUser{}, m.users...)
}

func (m *mockAuthRepo) SaveRegisteredUsers(_ context.Context, users []models.StoredUser) {
	m.saveUsersCalls++
	m.users = append([]models.StoredUser{}, users...)
}

func (m *mockAuthRepo) ActiveSession(context.Context) *models.User { return m.session }

func (m *mockAuthRepo) SaveSession(_ context.Context, u models.User) {
	m.saveSessionCalls++
	m.session = &u
}

func (m *mockAuthRepo) ClearSession(context.Context) { m.session = nil }

func newTestAuthService(repo AuthRepository) *AuthService {
	svc := NewAuthService(repo)
	n := 0
	svc.newID = func() string {
		n++
		return "id-" + string(rune('0'+n))
	}
	return svc
}

func TestRegister_Success(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := newTestAuthService(repo)

	u, err := svc.Register(context.Background(), "Ann", "a@x.com", "secret")
	require.NoError(t, err)

	want := models.User{ID: "id-1", Name: "Ann", Email: "a@x.com", Provider: models.ProviderLocal}
	if diff := cmp.Diff(want, u); diff != "" {
		t.Errorf("Register() mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, repo.users, 1)
	assert.Equal(t, "secret", repo.users[0].Password)
	require.NotNil(t, repo.session)
	assert.Equal(t, want, *repo.session)
	assert.Equal(t, 1, repo.saveUsersCalls)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := newTestAuthService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "A", "a@x.com", "secret")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "A2", "a@x.com", "other")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	count := 0
	for _, u := range repo.users {
		if u.Email == "a@x.com" {
			count++
		}
	}
	assert.Equal(t, 1, count, "registered-user table must keep exactly one entry for the email")
	assert.Equal(t, 1, repo.saveUsersCalls)
}

func TestRegister_EmailIsCaseSensitive(t *testing.T) {
	svc := newTestAuthService(&mockAuthRepo{})
	ctx := context.Background()

	_, err := svc.Register(ctx, "A", "a@x.com", "secret")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "A", "A@x.com", "secret")
	assert.NoError(t, err)
}

func TestRegister_InvalidInput(t *testing.T) {
	tests := []struct {
		name, user, email, password string
	}{
		{"blank name", " ", "a@x.com", "p"},
		{"blank email", "A", "", "p"},
		{"empty password", "A", "a@x.com", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockAuthRepo{}
			_, err := newTestAuthService(repo).Register(context.Background(), tt.user, tt.email, tt.password)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Zero(t, repo.saveUsersCalls)
			assert.Nil(t, repo.session)
		})
	}
}

func TestLogin_AfterRegister(t *testing.T) {
	svc := newTestAuthService(repository.NewKVAuthRepository(kv.NewMemory(), nil))
	ctx := context.Background()

	_, err := svc.Register(ctx, "A", "a@x.com", "secret")
	require.NoError(t, err)
	svc.Logout(ctx)
	require.Nil(t, svc.ActiveSession(ctx))

	u, err := svc.Login(ctx, "a@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)

	session := svc.ActiveSession(ctx)
	require.NotNil(t, session)
	assert.Equal(t, "a@x.com", session.Email)
}

func TestLogin_WrongPasswordKeepsSession(t *testing.T) {
	svc := newTestAuthService(repository.NewKVAuthRepository(kv.NewMemory(), nil))
	ctx := context.Background()

	_, err := svc.Register(ctx, "A", "a@x.com", "secret")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "B", "b@x.com", "pw")
	require.NoError(t, err)
	before := svc.ActiveSession(ctx)

	_, err = svc.Login(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, before, svc.ActiveSession(ctx))
}

func TestLogin_EmptyCredentials(t *testing.T) {
	repo := &mockAuthRepo{users: []models.StoredUser{{ID: "1", Email: "", Password: ""}}}
	_, err := newTestAuthService(repo).Login(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, repo.session)
}

func TestLogin_FirstMatchWins(t *testing.T) {
	repo := &mockAuthRepo{users: []models.StoredUser{
		{ID: "first", Email: "a@x.com", Password: "p"},
		{ID: "second", Email: "a@x.com", Password: "p"},
	}}

	u, err := newTestAuthService(repo).Login(context.Background(), "a@x.com", "p")
	require.NoError(t, err)
	assert.Equal(t, "first", u.ID)
}

func TestSessionNeverStoresPassword(t *testing.T) {
	store := kv.NewMemory()
	svc := newTestAuthService(repository.NewKVAuthRepository(store, nil))
	ctx := context.Background()

	_, err := svc.Register(ctx, "A", "a@x.com", "topsecret")
	require.NoError(t, err)

	raw, ok, err := store.Get(ctx, repository.SessionKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, raw, "topsecret")
	assert.NotContains(t, raw, "password")
}

func TestLoginWithFederatedAccount_CreatesOnce(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := newTestAuthService(repo)
	ctx := context.Background()
	account := svc.FederatedAccounts()[0]

	u, err := svc.LoginWithFederatedAccount(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, account.ID, u.ID)
	assert.Equal(t, models.ProviderGoogle, u.Provider)
	assert.Equal(t, account.PhotoURL, u.PhotoURL)
	require.Len(t, repo.users, 1)
	assert.Equal(t, FederatedPassword, repo.users[0].Password)

	svc.Logout(ctx)
	again, err := svc.LoginWithFederatedAccount(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, u, again)
	assert.Len(t, repo.users, 1)
	assert.Equal(t, 1, repo.saveUsersCalls)
	require.NotNil(t, repo.session)
	assert.Equal(t, account.Email, repo.session.Email)
}

func TestLoginWithFederatedAccount_ExistingLocalUser(t *testing.T) {
	repo := &mockAuthRepo{users: []models.StoredUser{
		{ID: "local-1", Name: "Maria", Email: "maria.souza@gmail.com", Password: "pw", Provider: models.ProviderLocal},
	}}
	svc := newTestAuthService(repo)

	u, err := svc.LoginWithFederatedAccount(context.Background(), models.FederatedAccount{
		ID: "google-account-2", Name: "Maria Souza", Email: "maria.souza@gmail.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "local-1", u.ID)
	assert.Equal(t, models.ProviderGoogle, u.Provider)
	assert.Zero(t, repo.saveUsersCalls)
}

func TestLoginWithFederatedAccount_MissingEmail(t *testing.T) {
	_, err := newTestAuthService(&mockAuthRepo{}).LoginWithFederatedAccount(context.Background(), models.FederatedAccount{ID: "x"})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestLogoutKeepsRegisteredUsers(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := newTestAuthService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "A", "a@x.com", "secret")
	require.NoError(t, err)
	svc.Logout(ctx)

	assert.Nil(t, repo.session)
	assert.Len(t, repo.users, 1)
}

func TestState(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := newTestAuthService(repo)
	ctx := context.Background()

	assert.Equal(t, models.AuthState{}, svc.State(ctx))

	_, err := svc.Register(ctx, "A", "a@x.com", "secret")
	require.NoError(t, err)
	st := svc.State(ctx)
	assert.True(t, st.IsAuthenticated)
	assert.False(t, st.IsLoading)
	require.NotNil(t, st.User)
	assert.Equal(t, "a@x.com", st.User.Email)
}

func TestFederatedAccounts_ReturnsCopy(t *testing.T) {
	svc := newTestAuthService(&mockAuthRepo{})
	accounts := svc.FederatedAccounts()
	require.Len(t, accounts, 3)
	accounts[0].Email = "changed"
	assert.Equal(t, "joao.silva@gmail.com", svc.FederatedAccounts()[0].Email)
}

func TestGetActiveSession_CorruptStore(t *testing.T) {
	store := kv.NewMemory()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, repository.SessionKey, "{{"))
	svc := NewAuthService(repository.NewKVAuthRepository(store, nil))

	assert.Nil(t, svc.ActiveSession(ctx))
	assert.False(t, svc.State(ctx).IsAuthenticated)
}
