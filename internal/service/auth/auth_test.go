package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ShewonGun/FarmerBackup/internal/app_errors"
	"github.com/ShewonGun/FarmerBackup/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type nopLog struct{}

func (nopLog) Debug(string, ...interface{})           {}
func (nopLog) Info(string, ...interface{})            {}
func (nopLog) Warn(string, ...interface{})            {}
func (nopLog) Error(string, ...interface{})           {}
func (nopLog) ErrorErr(string, error, ...interface{}) {}
func (nopLog) Fatal(string, ...interface{})           {}
func (nopLog) FatalErr(string, error, ...interface{}) {}

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*models.User{}}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, app_errors.ErrUserExists
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = &user
	return &user, nil
}

func (r *fakeUserRepo) UserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, app_errors.ErrUserNotFound
}

func (r *fakeUserRepo) UserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, exists := r.users[id]
	if !exists {
		return nil, app_errors.ErrUserNotFound
	}
	return u, nil
}

func newAuthService(users *fakeUserRepo) *AuthService {
	manager := NewJWTManager("test-secret", "farmer-backup", time.Hour)
	return NewAuthService(nopLog{}, manager, users)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	users := newFakeUserRepo()
	s := newAuthService(users)

	_, err := s.Register(context.Background(), models.User{
		Name: "Sunil", Email: "sunil@example.com", Password: "abc",
	})
	assert.ErrorIs(t, err, app_errors.ErrInvalidPassword)
	assert.NotErrorIs(t, err, app_errors.ErrIncorrectPassword)
	assert.Empty(t, users.users)
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	users := newFakeUserRepo()
	s := newAuthService(users)

	_, err := s.Register(context.Background(), models.User{
		Name: "Sunil", Email: "sunil@example.com", Password: strings.Repeat("x", 73),
	})
	assert.ErrorIs(t, err, app_errors.ErrInvalidPassword)
}

func TestRegisterHashesPasswordAndAppliesDefaults(t *testing.T) {
	users := newFakeUserRepo()
	s := newAuthService(users)

	created, err := s.Register(context.Background(), models.User{
		Name: "Sunil", Email: "  Sunil@Example.COM ", Password: "growbeans",
	})
	require.NoError(t, err)
	assert.Equal(t, "sunil@example.com", created.Email)
	assert.Equal(t, models.FarmerRole, created.Role)
	assert.True(t, created.IsActive)
	assert.NotEqual(t, "growbeans", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("growbeans")))
}

func TestLoginWrongPassword(t *testing.T) {
	users := newFakeUserRepo()
	s := newAuthService(users)

	_, err := s.Register(context.Background(), models.User{
		Name: "Sunil", Email: "sunil@example.com", Password: "growbeans",
	})
	require.NoError(t, err)

	_, _, err = s.Login(context.Background(), "sunil@example.com", "growpeas")
	assert.ErrorIs(t, err, app_errors.ErrIncorrectPassword)
}

func TestLoginReturnsToken(t *testing.T) {
	users := newFakeUserRepo()
	s := newAuthService(users)

	created, err := s.Register(context.Background(), models.User{
		Name: "Sunil", Email: "sunil@example.com", Password: "growbeans",
	})
	require.NoError(t, err)

	token, user, err := s.Login(context.Background(), "sunil@example.com", "growbeans")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, created.ID, user.ID)

	userID, role, err := s.AccessClaims(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, userID)
	assert.Equal(t, models.FarmerRole, role)
}
