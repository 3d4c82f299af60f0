package clinics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "City Care", "city-care"},
		{"apostrophes and dots", "Dr. Patel's Clinic", "dr-patels-clinic"},
		{"surrounding whitespace", "  Green Valley  ", "green-valley"},
		{"whitespace runs", "North   Side    Clinic", "north-side-clinic"},
		{"repeated dashes collapse", "A -- B", "a-b"},
		{"leading and trailing dashes trimmed", "-Walk In-", "walk-in"},
		{"already a slug", "walk-in-care", "walk-in-care"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole("DOCTOR"))
	assert.True(t, IsValidRole("STAFF"))
	assert.False(t, IsValidRole("doctor"))
	assert.False(t, IsValidRole("ADMIN"))
	assert.False(t, IsValidRole(""))
}
