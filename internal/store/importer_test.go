package store

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-orders-api/internal/config"
	"customer-orders-api/internal/models"
)

const usersCSV = "\ufeffid,first_name,last_name,email,age,gender,state,street_address,postal_code,city,country,latitude,longitude,traffic_source,created_at\n" +
	"1,Ada,Lovelace,ada@example.com,36,F,London,12 St James Sq,SW1Y,London,United Kingdom,51.5074,-0.1278,Search,2023-01-01 00:00:00+00:00\n" +
	"2,Alan,,alan@example.com,,M,,,,,,,,Email,\n" +
	"x,Broken,Row,broken@example.com,1,F,,,,,,,,,\n" +
	"3,Grace,Hopper,grace@example.com,85.0,F,NY,1 Navy Way,10001,New York,United States,40.7128,-74.0060,Organic,2022-06-15T12:30:00Z\n"

const ordersCSV = "order_id,user_id,status,gender,created_at,returned_at,shipped_at,delivered_at,num_of_item\n" +
	"10,1,Delivered,F,2023-02-01 10:00:00+00:00,,2023-02-02 10:00:00+00:00,2023-02-04 10:00:00+00:00,2\n" +
	"11,1,Cancelled,F,2023-03-01 10:00:00,,,,1\n" +
	"12,3,Shipped,F,2023-04-01,,,,\n" +
	",3,Shipped,F,2023-04-01,,,,1\n"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFixtures(t *testing.T) ImportConfig {
	t.Helper()
	dir := t.TempDir()
	users := filepath.Join(dir, "users.csv")
	orders := filepath.Join(dir, "orders.csv")
	require.NoError(t, os.WriteFile(users, []byte(usersCSV), 0o644))
	require.NoError(t, os.WriteFile(orders, []byte(ordersCSV), 0o644))
	return ImportConfig{UsersCSV: users, OrdersCSV: orders, BatchSize: 2}
}

func TestBootstrap_ImportsBothFiles(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })

	res, err := NewImporter(db, writeFixtures(t), discardLogger()).Bootstrap(context.Background())
	require.NoError(t, err)

	assert.False(t, res.Skipped)
	assert.Equal(t, 3, res.Customers)
	assert.Equal(t, 3, res.Orders)

	customers, orders, err := TableCounts(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, int64(3), customers)
	assert.Equal(t, int64(3), orders)

	var ada models.Customer
	require.NoError(t, db.Take(&ada, "id = ?", 1).Error)
	assert.Equal(t, "Ada", *ada.FirstName)
	assert.Equal(t, int64(36), *ada.Age)
	assert.InDelta(t, 51.5074, *ada.Latitude, 1e-9)
	require.NotNil(t, ada.CreatedAt)
	assert.True(t, ada.CreatedAt.Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))

	var alan models.Customer
	require.NoError(t, db.Take(&alan, "id = ?", 2).Error)
	assert.Nil(t, alan.LastName)
	assert.Nil(t, alan.Age)
	assert.Nil(t, alan.City)
	assert.Nil(t, alan.Latitude)
	assert.Nil(t, alan.CreatedAt)

	var grace models.Customer
	require.NoError(t, db.Take(&grace, "id = ?", 3).Error)
	assert.Equal(t, int64(85), *grace.Age)

	var delivered models.Order
	require.NoError(t, db.Take(&delivered, "order_id = ?", 10).Error)
	assert.Equal(t, "Delivered", *delivered.Status)
	assert.Nil(t, delivered.ReturnedAt)
	require.NotNil(t, delivered.DeliveredAt)
	assert.True(t, delivered.DeliveredAt.Equal(time.Date(2023, 2, 4, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, int64(2), *delivered.NumOfItem)

	var shipped models.Order
	require.NoError(t, db.Take(&shipped, "order_id = ?", 12).Error)
	assert.Nil(t, shipped.NumOfItem)
	require.NotNil(t, shipped.CreatedAt)
	assert.True(t, shipped.CreatedAt.Equal(time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)))
}

func TestBootstrap_SkipsPopulatedDatabase(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })

	cfg := writeFixtures(t)
	_, err = NewImporter(db, cfg, discardLogger()).Bootstrap(context.Background())
	require.NoError(t, err)

	res, err := NewImporter(db, cfg, discardLogger()).Bootstrap(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	customers, orders, err := TableCounts(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, int64(3), customers)
	assert.Equal(t, int64(3), orders)
}

func TestBootstrap_MissingFile(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })

	cfg := writeFixtures(t)
	cfg.OrdersCSV = filepath.Join(t.TempDir(), "missing.csv")

	_, err = NewImporter(db, cfg, discardLogger()).Bootstrap(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read orders")

	customers, _, err := TableCounts(context.Background(), db)
	require.NoError(t, err)
	assert.Zero(t, customers)
}

func TestBootstrap_Cancelled(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewImporter(db, writeFixtures(t), discardLogger()).Bootstrap(ctx)
	assert.Error(t, err)
}

func TestReadCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := readCSV(context.Background(), path, parseCustomer)
	assert.ErrorContains(t, err, "empty file")
}

func TestRecordTimestamp(t *testing.T) {
	header := map[string]int{"at": 0}
	tests := []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{"2023-01-02T03:04:05.123Z", time.Date(2023, 1, 2, 3, 4, 5, 123000000, time.UTC), true},
		{"2023-01-02 03:04:05+02:00", time.Date(2023, 1, 2, 1, 4, 5, 0, time.UTC), true},
		{"2023-01-02 03:04:05 UTC", time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC), true},
		{"2023-01-02 03:04:05", time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC), true},
		{"2023-01-02", time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"yesterday", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		got := record{header: header, fields: []string{tt.raw}}.timestamp("at")
		if !tt.ok {
			assert.Nil(t, got, tt.raw)
			continue
		}
		require.NotNil(t, got, tt.raw)
		assert.True(t, tt.want.Equal(*got), "%s parsed as %s", tt.raw, got)
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "oracle", DSN: "whatever"})
	assert.ErrorContains(t, err, `unsupported database driver "oracle"`)
}
