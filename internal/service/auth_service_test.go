package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"securesphere/internal/apperr"
	"securesphere/internal/model"
)

func newAuthEnv(t *testing.T) (*AuthService, *fakeUserRepo, *fakeInvitationRepo) {
	t.Helper()
	users := newFakeUserRepo()
	invitations := newFakeInvitationRepo(newClock())
	svc := NewAuthService(users, invitations, "test-secret", testLogger())
	return svc, users, invitations
}

func seedUser(t *testing.T, users *fakeUserRepo, username, password string, role model.Role) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{
		Username:     username,
		Email:        username + "@example.test",
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestLoginIssuesValidToken(t *testing.T) {
	t.Parallel()
	svc, users, _ := newAuthEnv(t)
	user := seedUser(t, users, "alice", "Sup3rSecret", model.RoleClient)

	resp, err := svc.Login(context.Background(), "alice", "Sup3rSecret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.UserID)
	assert.Equal(t, model.RoleClient, resp.Role)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, model.RoleClient, claims.Role)

	// Last login is recorded.
	stored, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()
	svc, users, _ := newAuthEnv(t)
	seedUser(t, users, "alice", "Sup3rSecret", model.RoleClient)

	_, err := svc.Login(context.Background(), "alice", "wrong")
	assert.True(t, apperr.IsUnauthorized(err))

	_, err = svc.Login(context.Background(), "nobody", "Sup3rSecret")
	assert.True(t, apperr.IsUnauthorized(err))
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	t.Parallel()
	svc, users, _ := newAuthEnv(t)
	user := seedUser(t, users, "alice", "Sup3rSecret", model.RoleClient)
	user.IsActive = false
	require.NoError(t, users.Update(context.Background(), user))

	_, err := svc.Login(context.Background(), "alice", "Sup3rSecret")
	assert.True(t, apperr.IsUnauthorized(err))
}

func TestValidateTokenRejectsForgeries(t *testing.T) {
	t.Parallel()
	svc, users, _ := newAuthEnv(t)
	seedUser(t, users, "alice", "Sup3rSecret", model.RoleClient)

	resp, err := svc.Login(context.Background(), "alice", "Sup3rSecret")
	require.NoError(t, err)

	other := NewAuthService(users, newFakeInvitationRepo(newClock()), "different-secret", testLogger())
	_, err = other.ValidateToken(resp.Token)
	assert.Error(t, err)

	_, err = svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func seedInvitation(t *testing.T, invitations *fakeInvitationRepo, email string, role model.Role, expires time.Time) *model.Invitation {
	t.Helper()
	inv := &model.Invitation{
		Token:     "tok-" + email,
		Email:     email,
		Role:      role,
		InvitedBy: "admin-1",
		ExpiresAt: expires,
	}
	require.NoError(t, invitations.Create(context.Background(), inv))
	return inv
}

func TestRegisterRedeemsInvitation(t *testing.T) {
	t.Parallel()
	svc, _, invitations := newAuthEnv(t)
	inv := seedInvitation(t, invitations, "new@example.test", model.RoleLead, time.Now().Add(time.Hour))

	user, err := svc.Register(context.Background(), RegisterInput{
		Token:    inv.Token,
		Username: "newlead",
		Email:    "New@Example.Test", // case-insensitive match
		Password: "Str0ngPass",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleLead, user.Role)
	assert.True(t, user.FirstLogin)
	assert.True(t, user.IsActive)

	// The invitation is spent.
	stored, err := invitations.GetByID(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsUsed)

	// And the new credentials work.
	resp, err := svc.Login(context.Background(), "newlead", "Str0ngPass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.UserID)
}

func TestRegisterRejectsBadInvitations(t *testing.T) {
	t.Parallel()
	svc, users, invitations := newAuthEnv(t)
	seedUser(t, users, "existing", "Sup3rSecret", model.RoleClient)

	expired := seedInvitation(t, invitations, "late@example.test", model.RoleClient, time.Now().Add(-time.Hour))
	valid := seedInvitation(t, invitations, "ok@example.test", model.RoleClient, time.Now().Add(time.Hour))

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{name: "unknown token", in: RegisterInput{Token: "bogus", Username: "u", Email: "ok@example.test", Password: "Str0ngPass"}},
		{name: "expired token", in: RegisterInput{Token: expired.Token, Username: "u", Email: "late@example.test", Password: "Str0ngPass"}},
		{name: "email mismatch", in: RegisterInput{Token: valid.Token, Username: "u", Email: "other@example.test", Password: "Str0ngPass"}},
		{name: "missing username", in: RegisterInput{Token: valid.Token, Email: "ok@example.test", Password: "Str0ngPass"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.in)
			assert.True(t, apperr.IsValidation(err))
		})
	}

	_, err := svc.Register(context.Background(), RegisterInput{
		Token: valid.Token, Username: "existing", Email: "ok@example.test", Password: "Str0ngPass",
	})
	assert.True(t, apperr.IsConflict(err))
}

func TestPasswordPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		ok       bool
	}{
		{name: "good", password: "Str0ngPass", ok: true},
		{name: "too short", password: "Ab1", ok: false},
		{name: "no uppercase", password: "weakpass1", ok: false},
		{name: "no lowercase", password: "WEAKPASS1", ok: false},
		{name: "no digit", password: "WeakPassword", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := checkPasswordPolicy(tt.password)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperr.IsValidation(err))
			}
		})
	}
}

func TestChangePassword(t *testing.T) {
	t.Parallel()
	svc, users, _ := newAuthEnv(t)
	user := seedUser(t, users, "alice", "Sup3rSecret", model.RoleClient)
	user.FirstLogin = true
	require.NoError(t, users.Update(context.Background(), user))

	err := svc.ChangePassword(context.Background(), user.ID, "wrong", "N3wPassword")
	assert.True(t, apperr.IsUnauthorized(err))

	err = svc.ChangePassword(context.Background(), user.ID, "Sup3rSecret", "weak")
	assert.True(t, apperr.IsValidation(err))

	require.NoError(t, svc.ChangePassword(context.Background(), user.ID, "Sup3rSecret", "N3wPassword"))

	resp, err := svc.Login(context.Background(), "alice", "N3wPassword")
	require.NoError(t, err)
	assert.False(t, resp.FirstLogin)
}
