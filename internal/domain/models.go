package domain

import (
	"encoding/json"
	"time"
)

type Product struct {
	ID           string  `db:"id" json:"_id"`
	Name         string  `db:"name" json:"name"`
	Price        int64   `db:"price" json:"price"` // cents
	Image        string  `db:"image" json:"image"`
	Stock        int     `db:"stock" json:"stock"`
	Category     string  `db:"category" json:"category"`
	ShippingCost int64   `db:"shipping_cost" json:"shippingCost"` // cents
	TaxRate      float64 `db:"tax_rate" json:"taxRate"`           // percent
	CreatedAt    string  `db:"created_at" json:"createdAt"`
}

// CartItem is one line of a user's cart. Product is always populated on read.
type CartItem struct {
	ID        string   `db:"id" json:"_id"`
	ProductID string   `db:"product_id" json:"-"`
	Product   *Product `db:"product" json:"productId"`
	Qty       int      `db:"qty" json:"qty"`
	UserID    string   `db:"user_id" json:"userId"`
	CreatedAt string   `db:"created_at" json:"createdAt"`
}

type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Receipt is the priced result of a checkout. It is not persisted by itself.
type Receipt struct {
	Subtotal     int64           `json:"subtotal"`
	Shipping     int64           `json:"shipping"`
	Tax          float64         `json:"tax"`
	Total        float64         `json:"total"`
	Timestamp    string          `json:"timestamp"`
	Items        json.RawMessage `json:"items"`
	CustomerInfo CustomerInfo    `json:"customerInfo"`
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type Order struct {
	ID        string          `json:"_id"`
	UserID    string          `json:"userId"`
	UserEmail string          `json:"userEmail"`
	UserName  string          `json:"userName"`
	Items     json.RawMessage `json:"items"`
	Subtotal  int64           `json:"subtotal"`
	Shipping  int64           `json:"shipping"`
	Tax       float64         `json:"tax"`
	Total     float64         `json:"total"`
	Status    OrderStatus     `json:"status"`
	OrderDate string          `json:"orderDate"`
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty"`
}

// TimeLayout is fixed-width so stored timestamps sort lexicographically.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

func Now() string { return time.Now().UTC().Format(TimeLayout) }
