package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/casacalmo/cafeledger/internal/catalog"
	"github.com/casacalmo/cafeledger/internal/config"
	"github.com/casacalmo/cafeledger/internal/cpf"
	"github.com/casacalmo/cafeledger/internal/pos"
	"github.com/casacalmo/cafeledger/internal/storage"
	"github.com/casacalmo/cafeledger/pkg/logger"
	"github.com/casacalmo/cafeledger/pkg/types"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

const usage = `Usage: cafeledger <command>

Commands:
  menu        Print the product catalog
  record      Record an order (JSON on stdin)
  orders      List all recorded orders
  customers   List all customer aggregates
  stats       Print global statistics
  history     Print orders, customers, and statistics together
  rebuild     Re-derive customer aggregates from the order history

Environment:
  CAFELEDGER_DB_PATH       Ledger database file (default ~/.cafeledger/cafeledger.db)
  CAFELEDGER_LOG_LEVEL     debug|info|warn|error (default info)
  CAFELEDGER_LOG_ENCODING  console|json (default console)
`

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("Cafeledger\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", storage.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", storage.DriverName)
		os.Exit(0)
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(os.Args[1], cfg, log); err != nil {
		log.Error("command failed", zap.String("command", os.Args[1]), zap.Error(err))
		os.Exit(1)
	}
}

func run(command string, cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	if command == "menu" {
		// The catalog is static; no database needed
		return printJSON(catalog.List())
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	svc, err := pos.Open(cfg.DBPath, log)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	if err := svc.Initialize(ctx); err != nil {
		return err
	}

	switch command {
	case "record":
		return recordOrder(ctx, svc)
	case "orders":
		orders, err := svc.ListAllOrders(ctx)
		if err != nil {
			return err
		}
		return printJSON(orders)
	case "customers":
		customers, err := svc.ListAllCustomers(ctx)
		if err != nil {
			return err
		}
		views := make([]customerView, 0, len(customers))
		for _, c := range customers {
			views = append(views, customerView{Customer: c, DisplayTaxID: cpf.Format(c.TaxID)})
		}
		return printJSON(views)
	case "stats":
		snapshot, err := svc.Statistics(ctx)
		if err != nil {
			return err
		}
		return printJSON(snapshot)
	case "history":
		history, err := svc.LoadHistory(ctx)
		if err != nil {
			return err
		}
		return printJSON(history)
	case "rebuild":
		if err := svc.Rebuild(ctx); err != nil {
			return err
		}
		log.Info("customer aggregates rebuilt")
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
		return nil
	}
}

// customerView adds the punctuated tax ID the listing prints
type customerView struct {
	*types.Customer
	DisplayTaxID string `json:"display_tax_id"`
}

// recordOrder reads an OrderInput from stdin and records it. An
// aggregation failure is logged by the service but the checkout still
// succeeds: the recorded order is printed and the exit code is zero.
func recordOrder(ctx context.Context, svc *pos.Service) error {
	var in types.OrderInput
	if err := json.NewDecoder(os.Stdin).Decode(&in); err != nil {
		return fmt.Errorf("failed to decode order input: %w", err)
	}

	order, err := svc.RecordOrder(ctx, in)
	if err != nil {
		var aerr *types.AggregationError
		if !errors.As(err, &aerr) {
			return err
		}
		// Order recorded; aggregate repair is `cafeledger rebuild`
	}
	return printJSON(order)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
