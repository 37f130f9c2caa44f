package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/emre/educore/internal/app/models"
	"github.com/emre/educore/internal/app/models/dto"
	"github.com/emre/educore/internal/pkg/apperrors"
	pkgauth "github.com/emre/educore/internal/pkg/auth"
)

type fakeUserStore struct {
	nextID int64
	users  map[int64]*models.User
	perms  map[int64][]models.Permission
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: make(map[int64]*models.User), perms: make(map[int64][]models.Permission)}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User, perms []models.Permission) (int64, error) {
	for _, u := range f.users {
		if u.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	id := f.nextID
	f.nextID++
	stored := *user
	stored.ID = id
	f.users[id] = &stored
	f.perms[id] = perms
	return id, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) GetPermissions(_ context.Context, userID int64) ([]models.Permission, error) {
	return f.perms[userID], nil
}

type fakeTokenStore struct {
	tokens map[string]*models.RefreshToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]*models.RefreshToken)}
}

func (f *fakeTokenStore) Store(_ context.Context, userID int64, token string, expiresAt time.Time) error {
	f.tokens[token] = &models.RefreshToken{Token: token, UserID: userID, ExpiresAt: expiresAt}
	return nil
}

func (f *fakeTokenStore) Get(_ context.Context, token string) (*models.RefreshToken, error) {
	rt, ok := f.tokens[token]
	if !ok {
		return nil, apperrors.ErrTokenNotFound
	}
	copied := *rt
	return &copied, nil
}

func (f *fakeTokenStore) Revoke(_ context.Context, token string) error {
	rt, ok := f.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	rt.Revoked = true
	return nil
}

func authFixture(t *testing.T) (*fakeUserStore, *fakeTokenStore, AuthService) {
	t.Helper()
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	jwt := pkgauth.NewJWTService(pkgauth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 720 * time.Hour,
		TokenIssuer:     "educore.test",
	})
	return users, tokens, NewAuthService(users, tokens, jwt)
}

func TestRegisterInstructorGrantsCoursePermissions(t *testing.T) {
	users, _, svc := authFixture(t)

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email: "ada@example.com", Password: "s3cret-pass",
		FirstName: "Ada", LastName: "Lovelace", Role: "INSTRUCTOR",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(resp.Permissions) != len(models.InstructorPermissions) {
		t.Errorf("permissions = %v, want all instructor grants", resp.Permissions)
	}
	if len(users.perms[resp.ID]) != 4 {
		t.Errorf("stored grants = %v", users.perms[resp.ID])
	}
}

func TestRegisterStudentGetsNoPermissions(t *testing.T) {
	users, _, svc := authFixture(t)

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email: "stu@example.com", Password: "s3cret-pass",
		FirstName: "Stu", LastName: "Dent", Role: "STUDENT",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(users.perms[resp.ID]) != 0 {
		t.Errorf("student grants = %v, want none", users.perms[resp.ID])
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	users, _, svc := authFixture(t)

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email: "a@b.com", Password: "plaintext-pass",
		FirstName: "A", LastName: "B", Role: "STUDENT",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if users.users[resp.ID].PasswordHash == "plaintext-pass" {
		t.Error("password stored in plaintext")
	}
}

func TestLoginIssuesAndStoresTokenPair(t *testing.T) {
	_, tokens, svc := authFixture(t)

	if _, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email: "ada@example.com", Password: "s3cret-pass",
		FirstName: "Ada", LastName: "Lovelace", Role: "INSTRUCTOR",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	pair, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "ada@example.com", Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.AccessToken == "" || pair.TokenType != "Bearer" {
		t.Errorf("pair = %+v", pair)
	}
	if _, ok := tokens.tokens[pair.RefreshToken]; !ok {
		t.Error("refresh token not persisted")
	}
}

func TestLoginWrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	_, _, svc := authFixture(t)

	if _, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email: "ada@example.com", Password: "s3cret-pass",
		FirstName: "Ada", LastName: "Lovelace", Role: "STUDENT",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, errWrongPass := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "ada@example.com", Password: "bad-pass",
	})
	_, errNoUser := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "ghost@example.com", Password: "bad-pass",
	})

	if !errors.Is(errWrongPass, apperrors.ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v", errWrongPass)
	}
	if !errors.Is(errNoUser, apperrors.ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v", errNoUser)
	}
}

func TestRefreshTokenRotates(t *testing.T) {
	_, tokens, svc := authFixture(t)

	svc.Register(context.Background(), &dto.RegisterRequest{
		Email: "ada@example.com", Password: "s3cret-pass",
		FirstName: "Ada", LastName: "Lovelace", Role: "INSTRUCTOR",
	})
	pair, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "ada@example.com", Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	fresh, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: pair.RefreshToken})
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if fresh.RefreshToken == pair.RefreshToken {
		t.Error("refresh token not rotated")
	}
	if !tokens.tokens[pair.RefreshToken].Revoked {
		t.Error("old refresh token not revoked")
	}

	// The revoked token cannot be used again.
	if _, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: pair.RefreshToken}); !errors.Is(err, apperrors.ErrTokenRevoked) {
		t.Errorf("reuse err = %v, want ErrTokenRevoked", err)
	}
}

func TestRefreshTokenExpired(t *testing.T) {
	_, tokens, svc := authFixture(t)

	svc.Register(context.Background(), &dto.RegisterRequest{
		Email: "ada@example.com", Password: "s3cret-pass",
		FirstName: "Ada", LastName: "Lovelace", Role: "STUDENT",
	})
	pair, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "ada@example.com", Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	tokens.tokens[pair.RefreshToken].ExpiresAt = time.Now().Add(-time.Minute)

	if _, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: pair.RefreshToken}); !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}
