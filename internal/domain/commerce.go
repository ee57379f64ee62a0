package domain

import "time"

// OrderStatus enumerates storefront order states surfaced on the dashboard.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// Order is the slice of the storefront order needed for dashboard
// aggregates and reports. Checkout itself lives outside this service.
type Order struct {
	ID         string
	CustomerID string
	Status     OrderStatus
	Total      float64
	CreatedAt  time.Time
}

// Product carries the catalog fields the dashboard aggregates over.
type Product struct {
	ID        string
	Name      string
	Price     float64
	Stock     int
	CreatedAt time.Time
}
