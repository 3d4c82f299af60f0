package tickets

// QueueStatusResponse is the display view of a clinic's queue: the ticket
// being served plus the next five in serving order.
type QueueStatusResponse struct {
	CurrentTicket  *Ticket  `json:"current_ticket"`
	WaitingTickets []Ticket `json:"waiting_tickets"`
}

// WaitTimeResponse carries the estimated minutes per ticket
type WaitTimeResponse struct {
	AverageWaitMinutes int `json:"average_wait_time"`
}

// DeleteTicketResponse confirms a permanent removal
type DeleteTicketResponse struct {
	Message string `json:"message"`
}
