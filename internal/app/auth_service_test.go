package app

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"excel-analytics/internal/access"
	"excel-analytics/internal/pkg/jwtutil"
	"excel-analytics/internal/platform/database"
	"excel-analytics/internal/repository"
)

func newAuthService(t *testing.T, allowAdmin bool) *AuthService {
	t.Helper()
	db, err := database.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return NewAuthService(repository.NewUserRepository(db), "test-secret", time.Hour, allowAdmin)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(t, false)

	registered, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "Ana@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", registered.User.Email)
	assert.Equal(t, "user", registered.User.Role)

	claims, err := jwtutil.ParseToken("test-secret", registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)
	assert.Equal(t, "user", claims.Role)

	loggedIn, err := svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	_, err = svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = svc.Register(ctx, RegisterInput{Name: "Ana 2", Email: "ana@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestRegisterConcurrentSameEmail(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	svc := NewAuthService(repository.NewUserRepository(db), "test-secret", time.Hour, false)

	const attempts = 4
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "password123"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrEmailExists)
	}
	assert.Equal(t, 1, succeeded)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		allowAdmin bool
		input      RegisterInput
		want       error
	}{
		{name: "short password", input: RegisterInput{Name: "A", Email: "a@x.io", Password: "short"}, want: ErrInvalidInput},
		{name: "missing name", input: RegisterInput{Email: "a@x.io", Password: "password123"}, want: ErrInvalidInput},
		{name: "unknown role", input: RegisterInput{Name: "A", Email: "a@x.io", Password: "password123", Role: "owner"}, want: ErrInvalidInput},
		{name: "admin disabled", input: RegisterInput{Name: "A", Email: "a@x.io", Password: "password123", Role: "admin"}, want: ErrForbidden},
		{name: "admin enabled", allowAdmin: true, input: RegisterInput{Name: "A", Email: "a@x.io", Password: "password123", Role: "Admin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newAuthService(t, tt.allowAdmin)
			res, err := svc.Register(ctx, tt.input)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "admin", res.User.Role)
		})
	}
}

func TestDashboardMessage(t *testing.T) {
	msg, err := DashboardMessage(access.Caller{UserID: 7, Role: access.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "Welcome, user 7 with role admin", msg)

	_, err = DashboardMessage(access.Caller{UserID: 7, Role: "guest"})
	assert.ErrorIs(t, err, ErrForbidden)
}
