package clinics

import "time"

// ClinicResponse represents clinic data in responses (without sensitive info)
type ClinicResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Domain    string    `json:"domain"`
	Plan      string    `json:"plan"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Clinic       ClinicResponse `json:"clinic"`
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	ExpiresIn    int64          `json:"expires_in"`
}

func toClinicResponse(clinic *Clinic) ClinicResponse {
	return ClinicResponse{
		ID:        clinic.ID.String(),
		Name:      clinic.Name,
		Email:     clinic.Email,
		Domain:    clinic.Domain,
		Plan:      clinic.Plan,
		Role:      string(clinic.Role),
		IsActive:  clinic.IsActive,
		CreatedAt: clinic.CreatedAt,
		UpdatedAt: clinic.UpdatedAt,
	}
}
