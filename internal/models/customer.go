package models

import "time"

// Customer is a row of the users table. Every column except the id is nullable
// because the bulk import copies whatever the source file holds.
type Customer struct {
	ID            int64      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	FirstName     *string    `gorm:"size:128" json:"first_name"`
	LastName      *string    `gorm:"size:128" json:"last_name"`
	Email         *string    `gorm:"size:255" json:"email"`
	Age           *int64     `json:"age"`
	Gender        *string    `gorm:"size:16" json:"gender"`
	State         *string    `gorm:"size:128" json:"state"`
	StreetAddress *string    `gorm:"size:255" json:"street_address"`
	PostalCode    *string    `gorm:"size:32" json:"postal_code"`
	City          *string    `gorm:"size:128" json:"city"`
	Country       *string    `gorm:"size:128" json:"country"`
	Latitude      *float64   `json:"latitude"`
	Longitude     *float64   `json:"longitude"`
	TrafficSource *string    `gorm:"size:64" json:"traffic_source"`
	CreatedAt     *time.Time `gorm:"autoCreateTime:false" json:"created_at"`
}

func (Customer) TableName() string {
	return "users"
}

// CustomerSummary is the list projection of a customer together with its
// order count.
type CustomerSummary struct {
	ID         int64   `json:"id"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Email      *string `json:"email"`
	Age        *int64  `json:"age"`
	Gender     *string `json:"gender"`
	State      *string `json:"state"`
	City       *string `json:"city"`
	Country    *string `json:"country"`
	OrderCount int64   `json:"order_count"`
}

// OrderStatistics breaks a customer's orders down by status.
type OrderStatistics struct {
	TotalOrders     int64 `json:"total_orders"`
	DeliveredOrders int64 `json:"delivered_orders"`
	CancelledOrders int64 `json:"cancelled_orders"`
}

// CustomerDetail is a customer row plus its order statistics.
type CustomerDetail struct {
	Customer        `gorm:"embedded"`
	OrderStatistics `gorm:"embedded"`
}
