package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"essence/storefront/internal/domain"
	"essence/storefront/internal/validate"
	"essence/storefront/internal/xid"
)

func (s *Service) CreateTicket(ctx context.Context, customerID string, req domain.TicketCreateRequest) (*domain.SupportTicket, error) {
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	req.Category = strings.ToLower(strings.TrimSpace(req.Category))
	req.Priority = strings.ToLower(strings.TrimSpace(req.Priority))
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	if req.Category == "" {
		req.Category = domain.TicketCategoryOther
	}
	if !domain.IsValidTicketCategory(req.Category) {
		return nil, domain.Validationf("unknown ticket category %q", req.Category)
	}
	if req.Priority == "" {
		req.Priority = domain.TicketPriorityMedium
	}
	if !domain.IsValidTicketPriority(req.Priority) {
		return nil, domain.Validationf("unknown ticket priority %q", req.Priority)
	}

	customer, err := s.resolveCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ticket := domain.SupportTicket{
		ID:             xid.New("tkt"),
		CustomerID:     customer.ID,
		CustomerName:   customer.Name,
		CustomerEmail:  customer.Email,
		Subject:        req.Subject,
		Message:        req.Message,
		Category:       req.Category,
		Priority:       req.Priority,
		Status:         domain.TicketStatusOpen,
		Responses:      []domain.TicketResponse{},
		OrderReference: strings.TrimSpace(req.OrderReference),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := withNumber(s.ticketNumbers, func(number string) (*domain.SupportTicket, error) {
		ticket.TicketNumber = number
		return s.repo.CreateTicket(ctx, ticket)
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: could not allocate a ticket number", domain.ErrConflict)
		}
		return nil, err
	}

	s.logAudit(ctx, "ticket.create", "ticket", created.TicketNumber, fmt.Sprintf("category=%s priority=%s", created.Category, created.Priority))
	if err := s.notifier.TicketOpened(ctx, *created); err != nil {
		log.WithField("ticket_number", created.TicketNumber).WithError(err).Warn("ticket notification failed")
	}
	return created, nil
}

// AddResponse appends a reply to the ticket thread. The first admin reply on
// an open ticket moves it to in-progress.
func (s *Service) AddResponse(ctx context.Context, ticketNumber string, message string, author string, isAdmin bool) (*domain.SupportTicket, error) {
	ticket, err := s.GetTicket(ctx, ticketNumber)
	if err != nil {
		return nil, err
	}
	return s.appendResponse(ctx, ticket, message, author, isAdmin)
}

// ReplyAsCustomer adds a customer reply to one of their own tickets.
func (s *Service) ReplyAsCustomer(ctx context.Context, customerID string, ticketNumber string, message string) (*domain.SupportTicket, error) {
	ticket, err := s.GetCustomerTicket(ctx, customerID, ticketNumber)
	if err != nil {
		return nil, err
	}
	return s.appendResponse(ctx, ticket, message, ticket.CustomerName, false)
}

func (s *Service) appendResponse(ctx context.Context, ticket *domain.SupportTicket, message string, author string, isAdmin bool) (*domain.SupportTicket, error) {
	message = strings.TrimSpace(message)
	if err := validate.Struct(domain.TicketReplyRequest{Message: message}); err != nil {
		return nil, err
	}
	author = strings.TrimSpace(author)
	if author == "" {
		author = "customer"
		if isAdmin {
			author = "support"
		}
	}

	now := s.now()
	ticket.Responses = append(ticket.Responses, domain.TicketResponse{
		Message:   message,
		Author:    author,
		Timestamp: now,
		IsAdmin:   isAdmin,
	})
	if isAdmin && ticket.Status == domain.TicketStatusOpen {
		ticket.Status = domain.TicketStatusInProgress
	}
	ticket.UpdatedAt = now

	updated, err := s.repo.UpdateTicket(ctx, *ticket)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, "ticket.reply", "ticket", updated.TicketNumber, fmt.Sprintf("admin=%t status=%s", isAdmin, updated.Status))
	return updated, nil
}

// UpdateTicketStatus sets the status directly; any valid status may follow
// any other.
func (s *Service) UpdateTicketStatus(ctx context.Context, ticketNumber string, req domain.TicketStatusUpdateRequest) (*domain.SupportTicket, error) {
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if !domain.IsValidTicketStatus(req.Status) {
		return nil, domain.Validationf("unknown ticket status %q", req.Status)
	}

	ticket, err := s.GetTicket(ctx, ticketNumber)
	if err != nil {
		return nil, err
	}

	previous := ticket.Status
	ticket.Status = req.Status
	if req.AssignedTo != nil {
		assignee := strings.TrimSpace(*req.AssignedTo)
		if assignee == "" {
			ticket.AssignedTo = nil
		} else {
			ticket.AssignedTo = &assignee
		}
	}
	ticket.UpdatedAt = s.now()

	updated, err := s.repo.UpdateTicket(ctx, *ticket)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, "ticket.status", "ticket", updated.TicketNumber, fmt.Sprintf("status %s -> %s", previous, updated.Status))
	return updated, nil
}

func (s *Service) GetTicket(ctx context.Context, ticketNumber string) (*domain.SupportTicket, error) {
	ticketNumber = strings.TrimSpace(ticketNumber)
	if ticketNumber == "" {
		return nil, domain.Validationf("ticket number is required")
	}
	return s.repo.GetTicketByNumber(ctx, ticketNumber)
}

func (s *Service) GetCustomerTicket(ctx context.Context, customerID string, ticketNumber string) (*domain.SupportTicket, error) {
	ticket, err := s.GetTicket(ctx, ticketNumber)
	if err != nil {
		return nil, err
	}
	if ticket.CustomerID != customerID {
		return nil, domain.NotFoundf("ticket %s", ticketNumber)
	}
	return ticket, nil
}

func (s *Service) ListTickets(ctx context.Context, filter domain.TicketFilter) ([]domain.SupportTicket, error) {
	if filter.Status != "" && !domain.IsValidTicketStatus(filter.Status) {
		return nil, domain.Validationf("unknown ticket status %q", filter.Status)
	}
	if filter.Priority != "" && !domain.IsValidTicketPriority(filter.Priority) {
		return nil, domain.Validationf("unknown ticket priority %q", filter.Priority)
	}
	if filter.Category != "" && !domain.IsValidTicketCategory(filter.Category) {
		return nil, domain.Validationf("unknown ticket category %q", filter.Category)
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, domain.Validationf("limit and offset must not be negative")
	}
	return s.repo.ListTickets(ctx, filter)
}

func (s *Service) ListTicketsForCustomer(ctx context.Context, customerID string, filter domain.TicketFilter) ([]domain.SupportTicket, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, domain.Validationf("customer_id is required")
	}
	filter.CustomerID = customerID
	return s.ListTickets(ctx, filter)
}
