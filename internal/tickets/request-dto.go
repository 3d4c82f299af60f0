package tickets

// CreateTicketRequest is the payload for issuing a new ticket
type CreateTicketRequest struct {
	HolderName string `json:"holder_name" binding:"required,min=1,max=120"`
	Contact    string `json:"contact" binding:"omitempty,max=60"`
	Priority   bool   `json:"priority"`
	Notes      string `json:"notes" binding:"omitempty,max=1000"`
}

// UpdateTicketRequest overwrites the provided fields directly
type UpdateTicketRequest struct {
	Status   *string `json:"status" binding:"omitempty,oneof=waiting in-progress completed skipped"`
	Priority *bool   `json:"priority"`
	Notes    *string `json:"notes" binding:"omitempty,max=1000"`
}
