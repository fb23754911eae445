package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"essence/storefront/internal/domain"
)

func (a *API) handleProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	query := r.URL.Query()
	minPrice, err := parseNonNegative(query.Get("min_price"), "min_price")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	maxPrice, err := parseNonNegative(query.Get("max_price"), "max_price")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	offset, err := parseNonNegative(query.Get("offset"), "offset")
	if err != nil {
		writeServiceError(w, err)
		return
	}

	products, err := a.service.ListProducts(r.Context(), domain.ProductFilter{
		Category:      query.Get("category"),
		Query:         query.Get("q"),
		MinPriceCents: minPrice,
		MaxPriceCents: maxPrice,
		Sort:          strings.TrimSpace(query.Get("sort")),
		Limit:         parsePositiveLimit(query.Get("limit"), 50, 200),
		Offset:        int(offset),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products, "count": len(products)})
}

func (a *API) handleProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	segments := pathSegments(r.URL.Path, "/api/v1/products/")
	if len(segments) != 1 {
		writeError(w, http.StatusNotFound, errors.New("product not found"))
		return
	}

	product, err := a.service.GetProduct(r.Context(), segments[0])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product": product})
}

func (a *API) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	if !a.chatLimiter.Allow("chat:" + clientKey(r)) {
		writeError(w, http.StatusTooManyRequests, errors.New("too many chat messages"))
		return
	}

	var req domain.ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := a.service.Chat(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleCart(w http.ResponseWriter, r *http.Request) {
	customerID := actorFrom(r).CustomerID

	switch r.Method {
	case http.MethodGet:
		view, err := a.service.GetCart(r.Context(), customerID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	case http.MethodDelete:
		if err := a.service.ClearCart(r.Context(), customerID); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleCartItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req domain.AddCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	view, err := a.service.AddItem(r.Context(), actorFrom(r).CustomerID, req.ProductID, req.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) handleCartItem(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r.URL.Path, "/api/v1/cart/items/")
	if len(segments) != 1 {
		writeError(w, http.StatusBadRequest, errors.New("cart item id required"))
		return
	}
	customerID := actorFrom(r).CustomerID

	switch r.Method {
	case http.MethodPatch:
		var req domain.UpdateCartItemRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		view, err := a.service.UpdateQuantity(r.Context(), customerID, segments[0], req.Quantity)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	case http.MethodDelete:
		view, err := a.service.RemoveItem(r.Context(), customerID, segments[0])
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleOrders(w http.ResponseWriter, r *http.Request) {
	customerID := actorFrom(r).CustomerID

	switch r.Method {
	case http.MethodPost:
		var req domain.CheckoutRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		order, err := a.service.Checkout(r.Context(), customerID, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"order": order})
	case http.MethodGet:
		filter, err := orderFilterFrom(r)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		orders, err := a.service.ListOrdersForCustomer(r.Context(), customerID, filter)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, domain.OrderListResponse{Orders: orders, Count: len(orders)})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleOrderActions(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r.URL.Path, "/api/v1/orders/")
	customerID := actorFrom(r).CustomerID

	switch {
	case len(segments) == 1 && r.Method == http.MethodGet:
		order, err := a.service.GetCustomerOrder(r.Context(), customerID, segments[0])
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"order": order})
	case len(segments) == 2 && segments[1] == "cancel":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w)
			return
		}
		order, err := a.service.CancelOrder(r.Context(), customerID, segments[0])
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"order": order})
	case len(segments) == 1:
		writeMethodNotAllowed(w)
	default:
		writeError(w, http.StatusNotFound, errors.New("unknown order action"))
	}
}

func (a *API) handleTickets(w http.ResponseWriter, r *http.Request) {
	customerID := actorFrom(r).CustomerID

	switch r.Method {
	case http.MethodPost:
		var req domain.TicketCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		ticket, err := a.service.CreateTicket(r.Context(), customerID, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"ticket": ticket})
	case http.MethodGet:
		filter, err := ticketFilterFrom(r)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		tickets, err := a.service.ListTicketsForCustomer(r.Context(), customerID, filter)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, domain.TicketListResponse{Tickets: tickets, Count: len(tickets)})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleTicketActions(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r.URL.Path, "/api/v1/support/tickets/")
	customerID := actorFrom(r).CustomerID

	switch {
	case len(segments) == 1 && r.Method == http.MethodGet:
		ticket, err := a.service.GetCustomerTicket(r.Context(), customerID, segments[0])
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ticket": ticket})
	case len(segments) == 2 && segments[1] == "responses":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w)
			return
		}
		var req domain.TicketReplyRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		ticket, err := a.service.ReplyAsCustomer(r.Context(), customerID, segments[0], req.Message)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ticket": ticket})
	case len(segments) == 1:
		writeMethodNotAllowed(w)
	default:
		writeError(w, http.StatusNotFound, errors.New("unknown ticket action"))
	}
}

func (a *API) handleAdminOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	filter, err := orderFilterFrom(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	filter.CustomerID = strings.TrimSpace(r.URL.Query().Get("customer_id"))

	orders, err := a.service.ListOrders(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.OrderListResponse{Orders: orders, Count: len(orders)})
}

func (a *API) handleAdminOrderActions(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r.URL.Path, "/api/v1/admin/orders/")

	switch {
	case len(segments) == 1 && r.Method == http.MethodGet:
		order, err := a.service.GetOrder(r.Context(), segments[0])
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"order": order})
	case len(segments) == 2 && segments[1] == "status":
		if r.Method != http.MethodPatch {
			writeMethodNotAllowed(w)
			return
		}
		var req domain.OrderStatusUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		order, err := a.service.UpdateOrderStatus(r.Context(), segments[0], req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"order": order})
	case len(segments) == 1:
		writeMethodNotAllowed(w)
	default:
		writeError(w, http.StatusNotFound, errors.New("unknown order action"))
	}
}

func (a *API) handleAdminTickets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	filter, err := ticketFilterFrom(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	filter.CustomerID = strings.TrimSpace(r.URL.Query().Get("customer_id"))

	tickets, err := a.service.ListTickets(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.TicketListResponse{Tickets: tickets, Count: len(tickets)})
}

func (a *API) handleAdminTicketActions(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r.URL.Path, "/api/v1/admin/tickets/")

	switch {
	case len(segments) == 1 && r.Method == http.MethodGet:
		ticket, err := a.service.GetTicket(r.Context(), segments[0])
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ticket": ticket})
	case len(segments) == 2 && segments[1] == "responses":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w)
			return
		}
		var req domain.TicketReplyRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		ticket, err := a.service.AddResponse(r.Context(), segments[0], req.Message, actorFrom(r).Username, true)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ticket": ticket})
	case len(segments) == 2 && segments[1] == "status":
		if r.Method != http.MethodPatch {
			writeMethodNotAllowed(w)
			return
		}
		var req domain.TicketStatusUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		ticket, err := a.service.UpdateTicketStatus(r.Context(), segments[0], req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ticket": ticket})
	case len(segments) == 1:
		writeMethodNotAllowed(w)
	default:
		writeError(w, http.StatusNotFound, errors.New("unknown ticket action"))
	}
}

func (a *API) handleAuditLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	limit := parsePositiveLimit(r.URL.Query().Get("limit"), 100, 500)
	logs, err := a.service.ListAuditLogs(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"logs": logs})
}

func orderFilterFrom(r *http.Request) (domain.OrderFilter, error) {
	query := r.URL.Query()
	offset, err := parseNonNegative(query.Get("offset"), "offset")
	if err != nil {
		return domain.OrderFilter{}, err
	}
	return domain.OrderFilter{
		Status: strings.TrimSpace(query.Get("status")),
		Limit:  parsePositiveLimit(query.Get("limit"), 50, 200),
		Offset: int(offset),
	}, nil
}

func ticketFilterFrom(r *http.Request) (domain.TicketFilter, error) {
	query := r.URL.Query()
	offset, err := parseNonNegative(query.Get("offset"), "offset")
	if err != nil {
		return domain.TicketFilter{}, err
	}
	return domain.TicketFilter{
		Status:   strings.TrimSpace(query.Get("status")),
		Priority: strings.TrimSpace(query.Get("priority")),
		Category: strings.TrimSpace(query.Get("category")),
		Limit:    parsePositiveLimit(query.Get("limit"), 50, 200),
		Offset:   int(offset),
	}, nil
}
