package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"customer-orders-api/internal/config"
	"customer-orders-api/internal/observability"
	"customer-orders-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	var (
		usersCSV   = flag.String("users", cfg.Database.UsersCSV, "path of the users CSV file")
		ordersCSV  = flag.String("orders", cfg.Database.OrdersCSV, "path of the orders CSV file")
		batchSize  = flag.Int("batch", cfg.Database.ImportBatchSize, "batch size for bulk inserts")
		skipImport = flag.Bool("skip-import", false, "only print table counts")
	)
	flag.Parse()

	logger := observability.NewLoggerTo(os.Stderr, cfg.Logger)

	gdb, err := store.Open(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer store.Close(gdb)

	if err := store.EnsureSchema(gdb); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	ctx := context.Background()

	result := store.ImportResult{Skipped: true}
	if !*skipImport {
		importer := store.NewImporter(gdb, store.ImportConfig{
			UsersCSV:  *usersCSV,
			OrdersCSV: *ordersCSV,
			BatchSize: *batchSize,
		}, logger)

		result, err = importer.Bootstrap(ctx)
		if err != nil {
			log.Fatalf("failed to import data: %v", err)
		}
	}

	customers, orders, err := store.TableCounts(ctx, gdb)
	if err != nil {
		log.Fatalf("failed to count rows: %v", err)
	}

	printSummary(result, customers, orders)
}

func printSummary(result store.ImportResult, customers, orders int64) {
	status := "imported"
	if result.Skipped {
		status = "skipped"
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Table", "Imported", "Rows", "Status")
	table.Append([]string{"users", strconv.Itoa(result.Customers), strconv.FormatInt(customers, 10), status})
	table.Append([]string{"orders", strconv.Itoa(result.Orders), strconv.FormatInt(orders, 10), status})
	if err := table.Render(); err != nil {
		log.Printf("failed to render summary: %v", err)
	}

	if !result.Skipped {
		fmt.Printf("import finished in %s\n", result.Duration)
	}
}
