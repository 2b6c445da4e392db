package models

import "time"

// Known order statuses. The column itself is free-form.
const (
	StatusDelivered = "Delivered"
	StatusCancelled = "Cancelled"
)

// Order is a row of the orders table.
type Order struct {
	OrderID     int64      `gorm:"primaryKey;autoIncrement:false" json:"order_id"`
	UserID      int64      `gorm:"index:idx_orders_user_id" json:"user_id"`
	Status      *string    `gorm:"size:32;index" json:"status"`
	Gender      *string    `gorm:"size:16" json:"gender"`
	CreatedAt   *time.Time `gorm:"index;autoCreateTime:false" json:"created_at"`
	ReturnedAt  *time.Time `json:"returned_at"`
	ShippedAt   *time.Time `json:"shipped_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
	NumOfItem   *int64     `json:"num_of_item"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderWithOwner is an order annotated with its owner's name and email.
type OrderWithOwner struct {
	Order     `gorm:"embedded"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
}

// OrderDetail is an order with the full owning customer record.
type OrderDetail struct {
	Order
	Customer *Customer `json:"customer"`
}
