// Package storetest provides in-memory databases and fixtures for tests.
package storetest

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"customer-orders-api/internal/models"
	"customer-orders-api/internal/store"
)

// Epoch is the created_at of customer 1; later ids are one hour apart.
var Epoch = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

// NewDB opens an empty in-memory database with the schema applied and closes
// it when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open memory database: %v", err)
	}
	t.Cleanup(func() { store.Close(db) })
	return db
}

func Ptr[T any](v T) *T {
	return &v
}

// Customer builds a fully populated customer with the given id.
func Customer(id int64) models.Customer {
	created := Epoch.Add(time.Duration(id) * time.Hour)
	return models.Customer{
		ID:            id,
		FirstName:     Ptr(fmt.Sprintf("First%03d", id)),
		LastName:      Ptr(fmt.Sprintf("Last%03d", id)),
		Email:         Ptr(fmt.Sprintf("customer%03d@example.com", id)),
		Age:           Ptr(int64(20 + id%50)),
		Gender:        Ptr("F"),
		State:         Ptr("Texas"),
		StreetAddress: Ptr(fmt.Sprintf("%d Main St", id)),
		PostalCode:    Ptr("73301"),
		City:          Ptr("Austin"),
		Country:       Ptr("United States"),
		Latitude:      Ptr(30.2672),
		Longitude:     Ptr(-97.7431),
		TrafficSource: Ptr("Search"),
		CreatedAt:     &created,
	}
}

// Order builds an order owned by userID, created minutesAfterEpoch after Epoch.
func Order(orderID, userID int64, status string, minutesAfterEpoch int) models.Order {
	created := Epoch.Add(time.Duration(minutesAfterEpoch) * time.Minute)
	return models.Order{
		OrderID:   orderID,
		UserID:    userID,
		Status:    Ptr(status),
		Gender:    Ptr("F"),
		CreatedAt: &created,
		NumOfItem: Ptr(int64(1)),
	}
}

// SeedCustomers inserts customers with ids 1..n.
func SeedCustomers(t testing.TB, db *gorm.DB, n int) []models.Customer {
	t.Helper()
	customers := make([]models.Customer, 0, n)
	for i := 1; i <= n; i++ {
		customers = append(customers, Customer(int64(i)))
	}
	if n > 0 {
		if err := db.Create(&customers).Error; err != nil {
			t.Fatalf("seed customers: %v", err)
		}
	}
	return customers
}

func SeedOrders(t testing.TB, db *gorm.DB, orders ...models.Order) {
	t.Helper()
	if len(orders) == 0 {
		return
	}
	if err := db.Create(&orders).Error; err != nil {
		t.Fatalf("seed orders: %v", err)
	}
}
