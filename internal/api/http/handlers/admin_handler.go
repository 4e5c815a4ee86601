package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quickstop/cafebot/internal/api/dto"
	"github.com/quickstop/cafebot/internal/domain"
	"github.com/quickstop/cafebot/internal/queue"
	"github.com/quickstop/cafebot/internal/service"
	apperrors "github.com/quickstop/cafebot/pkg/util"
)

// AdminHandler manages the secret-protected staff endpoints.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: adminService}
}

// ListQueue GET /queue.
func (h *AdminHandler) ListQueue(c *fiber.Ctx) error {
	tickets, err := h.admin.ListOpen(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	position := 0
	for _, ticket := range tickets {
		pos := queue.PositionNotFound
		if ticket.Status == domain.TicketStatusWaiting {
			position++
			pos = position
		}
		items = append(items, ticketSummary(ticket, pos))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Take POST /take.
func (h *AdminHandler) Take(c *fiber.Ctx) error {
	var req dto.TakeTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TicketID <= 0 || req.StaffLabel == "" {
		return apperrors.NewValidationError("ticket_id and staff_label required", nil)
	}
	ticket, err := h.admin.Take(c.UserContext(), req.TicketID, req.StaffLabel)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket, queue.PositionNotFound)})
}

// Done POST /done.
func (h *AdminHandler) Done(c *fiber.Ctx) error {
	var req dto.TicketIDRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TicketID <= 0 {
		return apperrors.NewValidationError("ticket_id required", nil)
	}
	ticket, err := h.admin.Done(c.UserContext(), req.TicketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket, queue.PositionNotFound)})
}

// VerifyPayment POST /verify-payment.
func (h *AdminHandler) VerifyPayment(c *fiber.Ctx) error {
	var req dto.TicketIDRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TicketID <= 0 {
		return apperrors.NewValidationError("ticket_id required", nil)
	}
	ticket, err := h.admin.VerifyPayment(c.UserContext(), req.TicketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket, queue.PositionNotFound)})
}

func ticketSummary(ticket *domain.Ticket, position int) dto.TicketSummary {
	return dto.TicketSummary{
		ID:              ticket.ID,
		RequesterID:     ticket.RequesterID,
		ServiceName:     ticket.ServiceName,
		Status:          ticket.Status,
		AssignedStaffID: ticket.AssignedStaffID,
		Paid:            ticket.Paid,
		QueuePosition:   position,
		DetailCount:     len(ticket.DetailMessages),
		CreatedAt:       ticket.CreatedAt,
		ClosedAt:        ticket.ClosedAt,
	}
}
