package tickets

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a ticket
type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusSkipped    Status = "skipped"
)

// IsValid checks if the ticket status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusWaiting, StatusInProgress, StatusCompleted, StatusSkipped:
		return true
	default:
		return false
	}
}

// IsTerminal returns true for states with no outgoing transitions
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusSkipped
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	validTransitions := map[Status][]Status{
		StatusWaiting:    {StatusInProgress, StatusSkipped},
		StatusInProgress: {StatusCompleted, StatusSkipped},
		StatusCompleted:  {}, // Terminal state
		StatusSkipped:    {}, // Terminal state
	}

	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Ticket represents a single queued request for service within a clinic
type Ticket struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClinicID       uuid.UUID  `json:"clinic_id" gorm:"type:uuid;not null;index"`
	SequenceNumber int        `json:"sequence_number" gorm:"not null"`
	HolderName     string     `json:"holder_name" gorm:"type:varchar(120);not null"`
	Contact        string     `json:"contact" gorm:"type:varchar(60)"`
	Priority       bool       `json:"priority" gorm:"not null;default:false"`
	Status         Status     `json:"status" gorm:"type:varchar(20);not null;index"`
	Notes          string     `json:"notes" gorm:"type:text"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// IsWaiting returns true if the ticket is still in the waiting line
func (t *Ticket) IsWaiting() bool {
	return t.Status == StatusWaiting
}

// IsInProgress returns true if the ticket is currently being served
func (t *Ticket) IsInProgress() bool {
	return t.Status == StatusInProgress
}
