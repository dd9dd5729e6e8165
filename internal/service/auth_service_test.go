package service

import (
	"context"
	"testing"
	"time"

	"stockroom/internal/config"
	"stockroom/internal/dto"
	"stockroom/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func buildAuthSvc(t *testing.T) (AuthService, *stubUserRepo, *model.User) {
	t.Helper()
	repo := newStubUserRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{Username: "admin", FullName: "Admin", PasswordHash: string(hash), Role: model.RoleAdmin, Active: true}
	require.NoError(t, repo.Create(context.Background(), u))

	cfg := &config.Config{JWTSecret: testSecret, JWTExpirationHours: 8}
	return NewAuthService(repo, cfg), repo, u
}

func TestLogin_IssuesSignedToken(t *testing.T) {
	svc, _, u := buildAuthSvc(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "password"})
	require.NoError(t, err)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, model.RoleAdmin, resp.User.Role)

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, u.ID.String(), claims["user_id"])
	assert.Equal(t, "admin", claims["username"])
	assert.Equal(t, model.RoleAdmin, claims["role"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(8*time.Hour), exp.Time, time.Minute)
}

func TestLogin_Rejects(t *testing.T) {
	svc, repo, _ := buildAuthSvc(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, dto.LoginRequest{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "ghost", Password: "password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	repo.users["admin"].Active = false
	_, err = svc.Login(ctx, dto.LoginRequest{Username: "admin", Password: "password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdatePassword(t *testing.T) {
	svc, repo, u := buildAuthSvc(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.UpdatePasswordRequest
		want error
	}{
		{"mismatch", dto.UpdatePasswordRequest{CurrentPassword: "password", NewPassword: "abcdef", ConfirmPassword: "abcdeg"}, ErrPasswordMismatch},
		{"too short", dto.UpdatePasswordRequest{CurrentPassword: "password", NewPassword: "abc", ConfirmPassword: "abc"}, ErrPasswordTooShort},
		{"wrong current", dto.UpdatePasswordRequest{CurrentPassword: "nope", NewPassword: "abcdef", ConfirmPassword: "abcdef"}, ErrWrongPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, svc.UpdatePassword(ctx, u.ID, tc.req), tc.want)
		})
	}

	err := svc.UpdatePassword(ctx, u.ID, dto.UpdatePasswordRequest{CurrentPassword: "password", NewPassword: "s3cret!", ConfirmPassword: "s3cret!"})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users["admin"].PasswordHash), []byte("s3cret!")))

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "admin", Password: "s3cret!"})
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.UpdatePassword(ctx, uuid.New(), dto.UpdatePasswordRequest{NewPassword: "abcdef", ConfirmPassword: "abcdef"}), ErrUserNotFound)
}

func TestCreateUser(t *testing.T) {
	svc, _, _ := buildAuthSvc(t)
	ctx := context.Background()

	resp, err := svc.CreateUser(ctx, dto.CreateUserRequest{Username: "manager", Password: "password", Role: model.RoleManager})
	require.NoError(t, err)
	assert.Equal(t, "manager", resp.Username)
	assert.True(t, resp.Active)

	_, err = svc.CreateUser(ctx, dto.CreateUserRequest{Username: "manager", Password: "password", Role: model.RoleManager})
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestCreateUser_UsernameUniquenessIgnoresStatusAndEmail(t *testing.T) {
	svc, repo, admin := buildAuthSvc(t)
	ctx := context.Background()
	email := "ops@shop.example"
	repo.users[admin.Username].Email = &email
	require.NoError(t, repo.Create(ctx, &model.User{Username: "former", Role: model.RoleManager, Active: false}))

	_, err := svc.CreateUser(ctx, dto.CreateUserRequest{Username: "former", Password: "password", Role: model.RoleManager})
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	resp, err := svc.CreateUser(ctx, dto.CreateUserRequest{Username: "ops@shop.example", Password: "password", Role: model.RoleManager})
	require.NoError(t, err)
	assert.Equal(t, "ops@shop.example", resp.Username)
}
