package clinics

import (
	"context"
	"errors"
	"time"

	"queuely/internal/shared/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrClinicNotFound      = errors.New("clinic not found")
	ErrEmailAlreadyExists  = errors.New("email already registered")
	ErrDomainAlreadyExists = errors.New("clinic domain already exists, try a different name")
	ErrClinicInactive      = errors.New("clinic account is inactive")
	ErrInvalidToken        = errors.New("invalid token")
)

type Service interface {
	Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	GetClinicByID(ctx context.Context, id uuid.UUID) (*Clinic, error)
	GetClinicByDomain(ctx context.Context, domain string) (*Clinic, error)
	ValidateToken(tokenString string) (*JWTClaims, error)
}

type service struct {
	repo   Repository
	config *config.Config
}

func NewService(repo Repository, cfg *config.Config) Service {
	return &service{
		repo:   repo,
		config: cfg,
	}
}

func (s *service) Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error) {
	// Check if clinic already exists
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	// The slugified name becomes the queue subdomain
	domain := Slugify(req.Name) + "." + s.config.BaseDomain
	domainExists, err := s.repo.DomainExists(ctx, domain)
	if err != nil {
		return nil, err
	}
	if domainExists {
		return nil, ErrDomainAlreadyExists
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	clinic := &Clinic{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
		Domain:   domain,
		Plan:     "free",
		Role:     RoleDoctor,
		IsActive: true,
	}

	if err := s.repo.CreateClinic(ctx, clinic); err != nil {
		return nil, err
	}

	tokenPair, err := s.generateTokenPair(clinic.ID.String(), clinic.Email, string(clinic.Role))
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Clinic:       toClinicResponse(clinic),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

func (s *service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	clinic, err := s.repo.GetClinicByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrClinicNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(clinic.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !clinic.IsActive {
		return nil, ErrClinicInactive
	}

	tokenPair, err := s.generateTokenPair(clinic.ID.String(), clinic.Email, string(clinic.Role))
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Clinic:       toClinicResponse(clinic),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.validateToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if claims.Type != "refresh" {
		return nil, ErrInvalidToken
	}

	clinicID, err := uuid.Parse(claims.ClinicID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// Verify clinic still exists and is active
	clinic, err := s.repo.GetClinicByID(ctx, clinicID)
	if err != nil {
		return nil, ErrClinicNotFound
	}
	if !clinic.IsActive {
		return nil, ErrClinicInactive
	}

	return s.generateTokenPair(clinic.ID.String(), clinic.Email, string(clinic.Role))
}

func (s *service) GetClinicByID(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	return s.repo.GetClinicByID(ctx, id)
}

func (s *service) GetClinicByDomain(ctx context.Context, domain string) (*Clinic, error) {
	return s.repo.GetClinicByDomain(ctx, domain)
}

func (s *service) ValidateToken(tokenString string) (*JWTClaims, error) {
	return s.validateToken(tokenString)
}

func (s *service) generateTokenPair(clinicID, email, role string) (*TokenPair, error) {
	now := time.Now()

	accessClaims := JWTClaims{
		ClinicID: clinicID,
		Email:    email,
		Role:     role,
		Type:     "access",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.JWT.JWTExpiresIn)),
			Issuer:    "queuely",
			Subject:   clinicID,
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessTokenString, err := accessToken.SignedString([]byte(s.config.JWT.Secret))
	if err != nil {
		return nil, err
	}

	refreshClaims := JWTClaims{
		ClinicID: clinicID,
		Email:    email,
		Role:     role,
		Type:     "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.JWT.RefreshExpiresIn)),
			Issuer:    "queuely",
			Subject:   clinicID,
		},
	}

	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshTokenString, err := refreshToken.SignedString([]byte(s.config.JWT.Secret))
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenString,
		ExpiresIn:    int64(s.config.JWT.JWTExpiresIn.Seconds()),
	}, nil
}

func (s *service) validateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.config.JWT.Secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
