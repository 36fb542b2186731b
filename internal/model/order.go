package model

import "time"

// OrderStatus は注文ステータス。
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// Valid はステータスが定義済みの値かどうかを返す。
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// Order は注文を表す。
// ProductIDsとUserIDはIDによる参照のみで、参照先の存在は検証しない。
type Order struct {
	ID         string
	ProductIDs []string
	UserID     string
	Quantity   int
	TotalPrice float64
	Status     OrderStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
