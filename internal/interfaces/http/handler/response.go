package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sopas/backend/internal/domain/agent"
	"github.com/sopas/backend/internal/domain/catalog"
	"github.com/sopas/backend/internal/domain/identity"
	"github.com/sopas/backend/internal/domain/party"
	"github.com/sopas/backend/internal/domain/store"
	"github.com/sopas/backend/internal/domain/trade"
)

// PartyResponse represents a party in API responses
type PartyResponse struct {
	ID             string   `json:"id"`
	CustomerID     string   `json:"customer_id"`
	Type           string   `json:"type"`
	TradeRole      string   `json:"trade_role,omitempty"`
	CompanyName    string   `json:"company_name,omitempty"`
	ConsigneeNames []string `json:"consignee_names,omitempty"`
	ContactNumber  string   `json:"contact_number,omitempty"`
	Email          string   `json:"email,omitempty"`
	GSTIN          string   `json:"gstin,omitempty"`
	ShippedTo      string   `json:"shipped_to,omitempty"`
	BillTo         string   `json:"bill_to,omitempty"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
	Version        int      `json:"version"`
}

func toPartyResponse(p *party.Party) PartyResponse {
	return PartyResponse{
		ID:             p.ID.String(),
		CustomerID:     p.CustomerID,
		Type:           string(p.Type),
		TradeRole:      string(p.TradeRole),
		CompanyName:    p.CompanyName,
		ConsigneeNames: p.Consignees(),
		ContactNumber:  p.ContactNumber,
		Email:          p.Email,
		GSTIN:          p.GSTIN,
		ShippedTo:      p.ShippedTo,
		BillTo:         p.BillTo,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      p.UpdatedAt.Format(time.RFC3339),
		Version:        p.Version,
	}
}

func toPartyListResponse(parties []party.Party) []PartyResponse {
	out := make([]PartyResponse, len(parties))
	for i := range parties {
		out[i] = toPartyResponse(&parties[i])
	}
	return out
}

// AgentResponse represents an agent in API responses
type AgentResponse struct {
	ID            string `json:"id"`
	AgentID       string `json:"agent_id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	ContactNumber string `json:"contact_number,omitempty"`
	Email         string `json:"email,omitempty"`
	Company       string `json:"company,omitempty"`
	GSTIN         string `json:"gstin,omitempty"`
	AddressLine1  string `json:"address_line1,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	Approved      bool   `json:"approved"`
	CreatedAt     string `json:"created_at"`
}

func toAgentResponse(a *agent.Agent) AgentResponse {
	return AgentResponse{
		ID:            a.ID.String(),
		AgentID:       a.AgentID,
		Name:          a.Name,
		Type:          string(a.AgentType),
		ContactNumber: a.ContactNumber,
		Email:         a.Email,
		Company:       a.Company,
		GSTIN:         a.GSTIN,
		AddressLine1:  a.AddressLine1,
		City:          a.City,
		State:         a.State,
		Approved:      a.Approved,
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}
}

func toAgentListResponse(agents []agent.Agent) []AgentResponse {
	out := make([]AgentResponse, len(agents))
	for i := range agents {
		out[i] = toAgentResponse(&agents[i])
	}
	return out
}

// StoreResponse represents a store in API responses
type StoreResponse struct {
	ID           string `json:"id"`
	StoreID      string `json:"store_id"`
	Name         string `json:"name"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	PinCode      string `json:"pin_code,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Approved     bool   `json:"approved"`
	CreatedAt    string `json:"created_at"`
}

func toStoreResponse(s *store.Store) StoreResponse {
	return StoreResponse{
		ID:           s.ID.String(),
		StoreID:      s.StoreID,
		Name:         s.Name,
		AddressLine1: s.AddressLine1,
		AddressLine2: s.AddressLine2,
		PinCode:      s.PinCode,
		City:         s.City,
		State:        s.State,
		Approved:     s.Approved,
		CreatedAt:    s.CreatedAt.Format(time.RFC3339),
	}
}

func toStoreListResponse(stores []store.Store) []StoreResponse {
	out := make([]StoreResponse, len(stores))
	for i := range stores {
		out[i] = toStoreResponse(&stores[i])
	}
	return out
}

// OrderResponse represents a purchase order in API responses
type OrderResponse struct {
	ID              string          `json:"id"`
	OrderID         string          `json:"order_id"`
	UserID          string          `json:"user_id"`
	PartyID         *string         `json:"party_id,omitempty"`
	ProductName     string          `json:"product_name"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	SaleStatus      string          `json:"sale_status"`
	AssignedComment string          `json:"assigned_comment,omitempty"`
	DesignFileURL   string          `json:"design_file_url,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

func toOrderResponse(o *trade.PurchaseOrder) OrderResponse {
	resp := OrderResponse{
		ID:              o.ID.String(),
		OrderID:         o.OrderID,
		UserID:          o.UserID.String(),
		ProductName:     o.ProductName,
		Quantity:        o.Quantity,
		Price:           o.Price,
		SaleStatus:      string(o.SaleStatus),
		AssignedComment: o.AssignedComment,
		DesignFileURL:   o.DesignFileURL,
		CreatedAt:       o.CreatedAt.Format(time.RFC3339),
	}
	if o.PartyID != nil {
		partyID := o.PartyID.String()
		resp.PartyID = &partyID
	}
	return resp
}

func toOrderListResponse(orders []trade.PurchaseOrder) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = toOrderResponse(&orders[i])
	}
	return out
}

// ProductResponse represents a catalog product in API responses
type ProductResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	UOM       string          `json:"uom,omitempty"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt string          `json:"created_at"`
}

func toProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID.String(),
		ProductID: p.ProductID,
		Name:      p.Name,
		Category:  p.Category,
		UOM:       p.UOM,
		Price:     p.Price,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

func toProductListResponse(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = toProductResponse(&products[i])
	}
	return out
}

// UserResponse represents a user account in API responses. The password
// hash never leaves the domain layer.
type UserResponse struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name,omitempty"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	IsSuper     bool   `json:"is_super"`
	IsVerified  bool   `json:"is_verified"`
	LastLoginAt string `json:"last_login_at,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func toUserResponse(u *identity.User) UserResponse {
	resp := UserResponse{
		ID:         u.ID.String(),
		EmployeeID: u.EmployeeID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Phone:      u.Phone,
		IsSuper:    u.IsSuper,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
	}
	if u.LastLoginAt != nil {
		resp.LastLoginAt = u.LastLoginAt.Format(time.RFC3339)
	}
	return resp
}

// SubscriptionResponse represents a subscription order in API responses
type SubscriptionResponse struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Plan      string          `json:"plan"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Status    string          `json:"status"`
	Period    string          `json:"period"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date,omitempty"`
}

func toSubscriptionResponse(o *identity.SubscriptionOrder) SubscriptionResponse {
	resp := SubscriptionResponse{
		ID:        o.ID.String(),
		UserID:    o.UserID.String(),
		Plan:      string(o.Plan),
		Amount:    o.Amount,
		Currency:  o.Currency,
		Status:    string(o.Status),
		Period:    string(o.Period),
		StartDate: o.StartDate.Format(time.RFC3339),
	}
	if o.EndDate != nil {
		resp.EndDate = o.EndDate.Format(time.RFC3339)
	}
	return resp
}

func toSubscriptionListResponse(orders []identity.SubscriptionOrder) []SubscriptionResponse {
	out := make([]SubscriptionResponse, len(orders))
	for i := range orders {
		out[i] = toSubscriptionResponse(&orders[i])
	}
	return out
}
