package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/livan116/shopcart-backend/internal/users"
	pkgAuth "github.com/livan116/shopcart-backend/pkg/auth"
	"github.com/livan116/shopcart-backend/pkg/config"
	"github.com/livan116/shopcart-backend/pkg/db/models"
	pkgerrors "github.com/livan116/shopcart-backend/pkg/errors"
	"github.com/livan116/shopcart-backend/pkg/security"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "shopcart",
		ExpirationMinutes: 30,
	}
}

func buildTestService(user *models.User) (Service, *stubUserRepo, *stubSessionManager, error) {
	userRepo := &stubUserRepo{user: user}
	sessionMgr := &stubSessionManager{refreshToken: "refresh-token"}
	svc, err := NewService(ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionMgr,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: config.PasswordConfig{},
	})
	return svc, userRepo, sessionMgr, err
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func TestServiceSignupCreatesUser(t *testing.T) {
	svc, repo, _, err := buildTestService(nil)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Signup(context.Background(), SignupRequest{
		Name:     "Liv",
		Email:    "Liv@Example.com",
		Password: "s3cret99",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if resp.Message == "" {
		t.Fatalf("expected confirmation message")
	}
	if repo.created == nil {
		t.Fatalf("expected user to be created")
	}
	if repo.created.Email != "liv@example.com" {
		t.Fatalf("expected lowercased email, got %s", repo.created.Email)
	}
	if repo.created.PasswordHash == "s3cret99" {
		t.Fatalf("expected password to be hashed")
	}
}

func TestServiceSignupRejectsDuplicateEmail(t *testing.T) {
	existing := &models.User{ID: uuid.New(), Email: "taken@example.com"}
	svc, _, _, err := buildTestService(existing)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Signup(context.Background(), SignupRequest{
		Name:     "Dup",
		Email:    "taken@example.com",
		Password: "s3cret99",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for duplicate email, got %v", err)
	}
}

func TestServiceLoginReturnsTokenPairAndUser(t *testing.T) {
	password := "s3cret99"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "liv@example.com",
		Name:         "Liv",
		PasswordHash: mustHashPassword(t, password),
	}
	svc, repo, _, err := buildTestService(user)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.Token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id claim %s, got %s", user.ID, claims.UserID)
	}
	if resp.RefreshToken == "" {
		t.Fatalf("expected refresh token to be set")
	}
	if resp.User.Name != "Liv" || resp.User.Email != "liv@example.com" {
		t.Fatalf("unexpected user summary: %+v", resp.User)
	}
	if repo.lastLoginAt == nil {
		t.Fatalf("expected last login to be recorded")
	}
}

func TestServiceLoginUnknownEmailIsNotFound(t *testing.T) {
	svc, _, _, err := buildTestService(nil)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "missing@example.com",
		Password: "whatever",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestServiceLoginWrongPasswordIsUnauthorized(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "liv@example.com",
		PasswordHash: mustHashPassword(t, "correct"),
	}
	svc, _, _, err := buildTestService(user)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "incorrect",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceRefreshRotatesSession(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "liv@example.com",
		PasswordHash: mustHashPassword(t, "s3cret99"),
	}
	svc, _, sessionMgr, err := buildTestService(user)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	accessToken, err := pkgAuth.MintAccessToken(testJWTConfig(), time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		JTI:    "old-access-id",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), accessToken, RefreshRequest{RefreshToken: "refresh-token"})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if resp.Token == "" || resp.RefreshToken == "" {
		t.Fatalf("expected rotated token pair, got %+v", resp)
	}
	if sessionMgr.rotatedFrom != "old-access-id" {
		t.Fatalf("expected rotation from old access id, got %s", sessionMgr.rotatedFrom)
	}
}

func TestServiceLogoutRevokesSession(t *testing.T) {
	svc, _, sessionMgr, err := buildTestService(nil)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	if err := svc.Logout(context.Background(), "access-id"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if sessionMgr.revoked != "access-id" {
		t.Fatalf("expected revoke for access-id, got %s", sessionMgr.revoked)
	}
}

type stubUserRepo struct {
	user        *models.User
	created     *models.User
	lastLoginAt *time.Time
}

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	s.created = user
	return user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLoginAt = &at
	return nil
}

type stubSessionManager struct {
	refreshToken string
	rotatedFrom  string
	revoked      string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	return s.refreshToken, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	s.rotatedFrom = oldAccessID
	return "new-access-id", "new-refresh-token", nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = accessID
	return nil
}
