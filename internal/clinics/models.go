package clinics

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Role determines which queue capabilities a clinic login carries
type Role string

const (
	// RoleDoctor may advance and skip the queue
	RoleDoctor Role = "DOCTOR"
	// RoleStaff may issue and edit tickets but not drive the queue
	RoleStaff Role = "STAFF"
)

// IsValidRole checks if the role string is a known role
func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleDoctor, RoleStaff:
		return true
	default:
		return false
	}
}

// Clinic is the tenant: one clinic, one queue. All ordering and
// notification guarantees are scoped to a clinic.
type Clinic struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"type:varchar(120);not null"`
	Email     string    `json:"email" gorm:"type:varchar(120);not null;uniqueIndex"`
	Password  string    `json:"-" gorm:"type:varchar(120);not null"` // bcrypt hash, never plain text
	Domain    string    `json:"domain" gorm:"type:varchar(160);not null;uniqueIndex"`
	Plan      string    `json:"plan" gorm:"type:varchar(20);not null;default:'free'"`
	Role      Role      `json:"role" gorm:"type:varchar(20);not null;default:'DOCTOR'"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// JWTClaims represents JWT token claims
type JWTClaims struct {
	ClinicID string `json:"clinic_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Type     string `json:"type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
