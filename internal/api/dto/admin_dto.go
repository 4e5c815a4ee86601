package dto

import (
	"time"

	"github.com/quickstop/cafebot/internal/domain"
)

// TicketSummary is the admin-surface view of one ticket.
type TicketSummary struct {
	ID              int                 `json:"id"`
	RequesterID     string              `json:"requester_id"`
	ServiceName     string              `json:"service_name"`
	Status          domain.TicketStatus `json:"status"`
	AssignedStaffID string              `json:"assigned_staff_id,omitempty"`
	Paid            bool                `json:"paid"`
	QueuePosition   int                 `json:"queue_position"`
	DetailCount     int                 `json:"detail_count"`
	CreatedAt       time.Time           `json:"created_at"`
	ClosedAt        *time.Time          `json:"closed_at,omitempty"`
}

// TakeTicketRequest is the body of POST /take.
type TakeTicketRequest struct {
	TicketID   int    `json:"ticket_id"`
	StaffLabel string `json:"staff_label"`
}

// TicketIDRequest is the body of POST /done and POST /verify-payment.
type TicketIDRequest struct {
	TicketID int `json:"ticket_id"`
}
