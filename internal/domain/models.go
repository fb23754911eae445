package domain

import "time"

type ScentNotes struct {
	Top    []string `json:"top"`
	Middle []string `json:"middle"`
	Base   []string `json:"base"`
}

type Product struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Brand              string     `json:"brand"`
	Category           string     `json:"category"`
	PriceCents         int64      `json:"price_cents"`
	OriginalPriceCents int64      `json:"original_price_cents,omitempty"`
	Description        string     `json:"description"`
	Notes              ScentNotes `json:"notes"`
	Size               string     `json:"size"`
	Stock              int        `json:"stock"`
	Rating             float64    `json:"rating"`
	Reviews            int        `json:"reviews"`
}

// ProductFilter narrows catalog listings. Zero values mean "no constraint".
type ProductFilter struct {
	Category      string
	Query         string
	MinPriceCents int64
	MaxPriceCents int64
	Sort          string
	Limit         int
	Offset        int
}

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CartItem struct {
	ID       string    `json:"id"`
	Product  Product   `json:"product"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

type Cart struct {
	CustomerID string     `json:"customer_id"`
	Items      []CartItem `json:"items"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type CartSummary struct {
	SubtotalCents int64 `json:"subtotal_cents"`
	ShippingCents int64 `json:"shipping_cents"`
	TaxCents      int64 `json:"tax_cents"`
	TotalCents    int64 `json:"total_cents"`
	ItemCount     int   `json:"item_count"`
}

type CartView struct {
	Items   []CartItem  `json:"items"`
	Summary CartSummary `json:"summary"`
}

type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type OrderItem struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	Brand          string `json:"brand"`
	Size           string `json:"size"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
	LineTotalCents int64  `json:"line_total_cents"`
}

type ShippingAddress struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Street   string `json:"street" validate:"required"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state" validate:"required"`
	ZipCode  string `json:"zip_code" validate:"required"`
	Country  string `json:"country" validate:"required"`
}

type Order struct {
	ID                string          `json:"id"`
	OrderNumber       string          `json:"order_number"`
	UserID            string          `json:"user_id"`
	Items             []OrderItem     `json:"items"`
	TotalAmountCents  int64           `json:"total_amount_cents"`
	ShippingCents     int64           `json:"shipping_cents"`
	TaxCents          int64           `json:"tax_cents"`
	GrandTotalCents   int64           `json:"grand_total_cents"`
	Status            string          `json:"status"`
	PaymentStatus     string          `json:"payment_status"`
	ShippingAddress   ShippingAddress `json:"shipping_address"`
	OrderDate         time.Time       `json:"order_date"`
	EstimatedDelivery time.Time       `json:"estimated_delivery"`
	TrackingNumber    *string         `json:"tracking_number"`
	Notes             string          `json:"notes,omitempty"`
	UpdatedAt         time.Time       `json:"updated_at"`
	CancelledAt       *time.Time      `json:"cancelled_at,omitempty"`
}

type OrderFilter struct {
	CustomerID string
	Status     string
	Limit      int
	Offset     int
}

type CheckoutRequest struct {
	ShippingAddress ShippingAddress `json:"shipping_address"`
	Notes           string          `json:"notes,omitempty" validate:"max=500"`
}

type OrderStatusUpdateRequest struct {
	Status         string  `json:"status"`
	TrackingNumber *string `json:"tracking_number,omitempty"`
	PaymentStatus  string  `json:"payment_status,omitempty"`
	Override       bool    `json:"override"`
}

type OrderListResponse struct {
	Orders []Order `json:"orders"`
	Count  int     `json:"count"`
}

type TicketResponse struct {
	Message   string    `json:"message"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	IsAdmin   bool      `json:"is_admin"`
}

type SupportTicket struct {
	ID             string           `json:"id"`
	TicketNumber   string           `json:"ticket_number"`
	CustomerID     string           `json:"customer_id"`
	CustomerName   string           `json:"customer_name"`
	CustomerEmail  string           `json:"customer_email"`
	Subject        string           `json:"subject"`
	Message        string           `json:"message"`
	Category       string           `json:"category"`
	Priority       string           `json:"priority"`
	Status         string           `json:"status"`
	AssignedTo     *string          `json:"assigned_to"`
	Responses      []TicketResponse `json:"responses"`
	OrderReference string           `json:"order_reference,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

type TicketFilter struct {
	CustomerID string
	Status     string
	Priority   string
	Category   string
	Limit      int
	Offset     int
}

type TicketCreateRequest struct {
	Subject        string `json:"subject" validate:"required,max=200"`
	Message        string `json:"message" validate:"required,max=5000"`
	Category       string `json:"category,omitempty"`
	Priority       string `json:"priority,omitempty"`
	OrderReference string `json:"order_reference,omitempty"`
}

type TicketReplyRequest struct {
	Message string `json:"message" validate:"required,max=5000"`
}

type TicketStatusUpdateRequest struct {
	Status     string  `json:"status" validate:"required"`
	AssignedTo *string `json:"assigned_to,omitempty"`
}

type TicketListResponse struct {
	Tickets []SupportTicket `json:"tickets"`
	Count   int             `json:"count"`
}

type ChatPreferences struct {
	ScentFamily string `json:"scent_family,omitempty"`
	Occasion    string `json:"occasion,omitempty"`
	Experience  string `json:"experience,omitempty"`
	Budget      string `json:"budget,omitempty"`
}

type ChatRequest struct {
	Message     string          `json:"message" validate:"max=1000"`
	IsQuiz      bool            `json:"is_quiz"`
	QuizStep    int             `json:"quiz_step"`
	Preferences ChatPreferences `json:"preferences"`
}

type QuizOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type QuizQuestion struct {
	Step     int          `json:"step"`
	Key      string       `json:"key"`
	Question string       `json:"question"`
	Options  []QuizOption `json:"options"`
}

type ChatResponse struct {
	Response     string          `json:"response"`
	Suggestions  []Product       `json:"suggestions"`
	QuizQuestion *QuizQuestion   `json:"quiz_question,omitempty"`
	QuizStep     int             `json:"quiz_step"`
	Preferences  ChatPreferences `json:"preferences"`
	QuizComplete bool            `json:"quiz_complete"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	CustomerID  string `json:"customer_id,omitempty"`
	ExpiresAt   string `json:"expires_at"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=4,max=64"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty" validate:"max=32"`
}

type RegisterResponse struct {
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	CustomerID string    `json:"customer_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type Actor struct {
	Username   string
	Role       string
	CustomerID string
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	Username   string
	Password   string
	Role       string
	CustomerID string
	Active     bool
	CreatedAt  time.Time
}

type AuditLog struct {
	ID            string    `json:"id"`
	ActorUsername string    `json:"actor_username"`
	ActorRole     string    `json:"actor_role"`
	Action        string    `json:"action"`
	EntityType    string    `json:"entity_type"`
	EntityID      string    `json:"entity_id"`
	Detail        string    `json:"detail"`
	CreatedAt     time.Time `json:"created_at"`
}

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

const (
	CategoryMen    = "men"
	CategoryWomen  = "women"
	CategoryUnisex = "unisex"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in-progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

const (
	TicketPriorityLow    = "low"
	TicketPriorityMedium = "medium"
	TicketPriorityHigh   = "high"
	TicketPriorityUrgent = "urgent"
)

const (
	TicketCategoryOrder    = "order"
	TicketCategoryProduct  = "product"
	TicketCategoryShipping = "shipping"
	TicketCategoryReturn   = "return"
	TicketCategoryPayment  = "payment"
	TicketCategoryAccount  = "account"
	TicketCategoryOther    = "other"
)

func IsValidCategory(category string) bool {
	switch category {
	case CategoryMen, CategoryWomen, CategoryUnisex:
		return true
	}
	return false
}

func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func IsValidPaymentStatus(status string) bool {
	switch status {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

func IsValidTicketStatus(status string) bool {
	switch status {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

func IsValidTicketPriority(priority string) bool {
	switch priority {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

func IsValidTicketCategory(category string) bool {
	switch category {
	case TicketCategoryOrder, TicketCategoryProduct, TicketCategoryShipping, TicketCategoryReturn,
		TicketCategoryPayment, TicketCategoryAccount, TicketCategoryOther:
		return true
	}
	return false
}
