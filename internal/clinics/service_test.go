package clinics

import (
	"context"
	"testing"
	"time"

	"queuely/internal/shared/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeClinicRepository struct {
	byID map[uuid.UUID]*Clinic
}

func newFakeClinicRepository() *fakeClinicRepository {
	return &fakeClinicRepository{byID: make(map[uuid.UUID]*Clinic)}
}

func (f *fakeClinicRepository) CreateClinic(ctx context.Context, clinic *Clinic) error {
	if clinic.ID == uuid.Nil {
		clinic.ID = uuid.New()
	}
	stored := *clinic
	f.byID[clinic.ID] = &stored
	return nil
}

func (f *fakeClinicRepository) GetClinicByID(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	clinic, ok := f.byID[id]
	if !ok {
		return nil, ErrClinicNotFound
	}
	copied := *clinic
	return &copied, nil
}

func (f *fakeClinicRepository) GetClinicByEmail(ctx context.Context, email string) (*Clinic, error) {
	for _, clinic := range f.byID {
		if clinic.Email == email {
			copied := *clinic
			return &copied, nil
		}
	}
	return nil, ErrClinicNotFound
}

func (f *fakeClinicRepository) GetClinicByDomain(ctx context.Context, domain string) (*Clinic, error) {
	for _, clinic := range f.byID {
		if clinic.Domain == domain {
			copied := *clinic
			return &copied, nil
		}
	}
	return nil, ErrClinicNotFound
}

func (f *fakeClinicRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := f.GetClinicByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeClinicRepository) DomainExists(ctx context.Context, domain string) (bool, error) {
	_, err := f.GetClinicByDomain(ctx, domain)
	return err == nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		BaseDomain: "queuely.local",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			JWTExpiresIn:     15 * time.Minute,
			RefreshExpiresIn: 24 * time.Hour,
		},
	}
}

func newTestClinicService() (Service, *fakeClinicRepository) {
	repo := newFakeClinicRepository()
	return NewService(repo, testConfig()), repo
}

func TestSignup(t *testing.T) {
	svc, repo := newTestClinicService()
	ctx := context.Background()

	resp, err := svc.Signup(ctx, &SignupRequest{
		Name:     "Dr. Patel's Clinic",
		Email:    "patel@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	assert.Equal(t, "dr-patels-clinic.queuely.local", resp.Clinic.Domain)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	// Password is stored as a bcrypt hash, never plain text.
	stored, err := repo.GetClinicByEmail(ctx, "patel@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("s3cret-pass")))
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := newTestClinicService()
	ctx := context.Background()

	req := &SignupRequest{Name: "City Care", Email: "city@example.com", Password: "password1"}
	_, err := svc.Signup(ctx, req)
	require.NoError(t, err)

	_, err = svc.Signup(ctx, &SignupRequest{Name: "Other Name", Email: "city@example.com", Password: "password2"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestSignupDuplicateDomain(t *testing.T) {
	svc, _ := newTestClinicService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, &SignupRequest{Name: "City Care", Email: "one@example.com", Password: "password1"})
	require.NoError(t, err)

	// Different email, same name slug.
	_, err = svc.Signup(ctx, &SignupRequest{Name: "city care", Email: "two@example.com", Password: "password2"})
	assert.ErrorIs(t, err, ErrDomainAlreadyExists)
}

func TestLogin(t *testing.T) {
	svc, repo := newTestClinicService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, &SignupRequest{Name: "City Care", Email: "city@example.com", Password: "password1"})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(ctx, &LoginRequest{Email: "city@example.com", Password: "password1"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)

		claims, err := svc.ValidateToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "access", claims.Type)
		assert.Equal(t, "city@example.com", claims.Email)
		assert.Equal(t, string(RoleDoctor), claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginRequest{Email: "city@example.com", Password: "nope"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginRequest{Email: "ghost@example.com", Password: "password1"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive clinic", func(t *testing.T) {
		clinic, err := repo.GetClinicByEmail(ctx, "city@example.com")
		require.NoError(t, err)
		repo.byID[clinic.ID].IsActive = false
		defer func() { repo.byID[clinic.ID].IsActive = true }()

		_, err = svc.Login(ctx, &LoginRequest{Email: "city@example.com", Password: "password1"})
		assert.ErrorIs(t, err, ErrClinicInactive)
	})
}

func TestRefreshToken(t *testing.T) {
	svc, _ := newTestClinicService()
	ctx := context.Background()

	signup, err := svc.Signup(ctx, &SignupRequest{Name: "City Care", Email: "city@example.com", Password: "password1"})
	require.NoError(t, err)

	t.Run("refresh token yields a new pair", func(t *testing.T) {
		pair, err := svc.RefreshToken(ctx, signup.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
	})

	t.Run("access token is rejected", func(t *testing.T) {
		_, err := svc.RefreshToken(ctx, signup.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := svc.RefreshToken(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
