package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"customer-orders-api/internal/models"
)

const defaultBatchSize = 1000

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ImportConfig names the flat files the tables are provisioned from.
type ImportConfig struct {
	UsersCSV  string
	OrdersCSV string
	BatchSize int
}

// ImportResult reports what a bootstrap run did.
type ImportResult struct {
	Skipped   bool
	Customers int
	Orders    int
	Duration  time.Duration
}

// Importer provisions the users and orders tables from CSV files.
type Importer struct {
	db     *gorm.DB
	cfg    ImportConfig
	logger *slog.Logger
}

func NewImporter(db *gorm.DB, cfg ImportConfig, logger *slog.Logger) *Importer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	return &Importer{db: db, cfg: cfg, logger: logger}
}

// Bootstrap imports both files unless the users table already holds rows, so
// running it on every start is safe.
func (im *Importer) Bootstrap(ctx context.Context) (ImportResult, error) {
	start := time.Now()

	var existing int64
	if err := im.db.WithContext(ctx).Model(&models.Customer{}).Count(&existing).Error; err != nil {
		return ImportResult{}, fmt.Errorf("count customers: %w", err)
	}
	if existing > 0 {
		im.logger.Info("database already contains data", "customers", existing)
		return ImportResult{Skipped: true}, nil
	}

	var (
		customers []models.Customer
		orders    []models.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := readCSV(gctx, im.cfg.UsersCSV, parseCustomer)
		if err != nil {
			return fmt.Errorf("read users: %w", err)
		}
		customers = rows
		return nil
	})
	g.Go(func() error {
		rows, err := readCSV(gctx, im.cfg.OrdersCSV, parseOrder)
		if err != nil {
			return fmt.Errorf("read orders: %w", err)
		}
		orders = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return ImportResult{}, err
	}

	im.logger.Info("importing data", "customers", len(customers), "orders", len(orders))

	err := im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(customers) > 0 {
			if err := tx.CreateInBatches(&customers, im.cfg.BatchSize).Error; err != nil {
				return fmt.Errorf("insert customers: %w", err)
			}
		}
		if len(orders) > 0 {
			if err := tx.CreateInBatches(&orders, im.cfg.BatchSize).Error; err != nil {
				return fmt.Errorf("insert orders: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	res := ImportResult{
		Customers: len(customers),
		Orders:    len(orders),
		Duration:  time.Since(start),
	}
	im.logger.Info("import complete",
		"customers", res.Customers,
		"orders", res.Orders,
		"duration", res.Duration,
	)
	return res, nil
}

// TableCounts returns the number of rows currently in each table.
func TableCounts(ctx context.Context, db *gorm.DB) (customers, orders int64, err error) {
	if err = db.WithContext(ctx).Model(&models.Customer{}).Count(&customers).Error; err != nil {
		return 0, 0, err
	}
	if err = db.WithContext(ctx).Model(&models.Order{}).Count(&orders).Error; err != nil {
		return 0, 0, err
	}
	return customers, orders, nil
}

// record gives header-addressed access to one CSV line.
type record struct {
	header map[string]int
	fields []string
}

func (r record) str(name string) *string {
	i, ok := r.header[name]
	if !ok || i >= len(r.fields) {
		return nil
	}
	v := strings.TrimSpace(r.fields[i])
	if v == "" {
		return nil
	}
	return &v
}

func (r record) integer(name string) *int64 {
	v := r.str(name)
	if v == nil {
		return nil
	}
	n, err := strconv.ParseInt(*v, 10, 64)
	if err != nil {
		// Spreadsheet exports write integer columns with blanks as floats.
		f, ferr := strconv.ParseFloat(*v, 64)
		if ferr != nil {
			return nil
		}
		n = int64(f)
	}
	return &n
}

func (r record) decimal(name string) *float64 {
	v := r.str(name)
	if v == nil {
		return nil
	}
	f, err := strconv.ParseFloat(*v, 64)
	if err != nil {
		return nil
	}
	return &f
}

func (r record) timestamp(name string) *time.Time {
	v := r.str(name)
	if v == nil {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, *v); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func parseCustomer(r record) (models.Customer, bool) {
	id := r.integer("id")
	if id == nil {
		return models.Customer{}, false
	}
	return models.Customer{
		ID:            *id,
		FirstName:     r.str("first_name"),
		LastName:      r.str("last_name"),
		Email:         r.str("email"),
		Age:           r.integer("age"),
		Gender:        r.str("gender"),
		State:         r.str("state"),
		StreetAddress: r.str("street_address"),
		PostalCode:    r.str("postal_code"),
		City:          r.str("city"),
		Country:       r.str("country"),
		Latitude:      r.decimal("latitude"),
		Longitude:     r.decimal("longitude"),
		TrafficSource: r.str("traffic_source"),
		CreatedAt:     r.timestamp("created_at"),
	}, true
}

func parseOrder(r record) (models.Order, bool) {
	id := r.integer("order_id")
	userID := r.integer("user_id")
	if id == nil || userID == nil {
		return models.Order{}, false
	}
	return models.Order{
		OrderID:     *id,
		UserID:      *userID,
		Status:      r.str("status"),
		Gender:      r.str("gender"),
		CreatedAt:   r.timestamp("created_at"),
		ReturnedAt:  r.timestamp("returned_at"),
		ShippedAt:   r.timestamp("shipped_at"),
		DeliveredAt: r.timestamp("delivered_at"),
		NumOfItem:   r.integer("num_of_item"),
	}, true
}

// readCSV parses every line of path with parse, skipping lines parse rejects.
func readCSV[T any](ctx context.Context, path string, parse func(record) (T, bool)) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	head, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	header := make(map[string]int, len(head))
	for i, name := range head {
		header[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	var rows []T
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line: %w", err)
		}

		if row, ok := parse(record{header: header, fields: fields}); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
