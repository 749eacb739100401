// Command orders-export dumps every purchased game as gzip-compressed JSON
// lines, one line per (user, game) pair. Repeat purchases of the same game by
// the same user are dropped with a bloom filter so the export can feed
// recommendation jobs without an expensive DISTINCT over the items table.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/gamehub-store/gamehub/internal/repository"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.0001
	progressEvery = 100_000
)

// exportLine is one deduplicated purchase record.
type exportLine struct {
	UserID      string    `json:"user_id"`
	GameID      int64     `json:"game_id"`
	Name        string    `json:"name"`
	Price       string    `json:"price"`
	PurchasedAt time.Time `json:"purchased_at"`
}

func main() {
	var (
		databaseURL string
		outPath     string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&outPath, "out", "orders.jsonl.gz", "output file path")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, outPath); err != nil {
		slog.Error("orders export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("orders export completed successfully", slog.String("out", outPath))
}

const exportQuery = `
SELECT o.user_id, oi.game_id, oi.name, oi.price, o.created_at
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
ORDER BY o.created_at
`

func run(ctx context.Context, databaseURL, outPath string) error {
	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	defer func() { _ = out.Close() }()

	lines := make(chan exportLine, 1024)

	g, ctx := errgroup.WithContext(ctx)

	// Producer: stream items oldest first so the first sighting of a
	// (user, game) pair is its earliest purchase.
	g.Go(func() error {
		defer close(lines)

		rows, err := pool.Query(ctx, exportQuery)
		if err != nil {
			return errors.Wrap(err, "query order items")
		}
		defer rows.Close()

		seen := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		var scanned, kept int
		for rows.Next() {
			var line exportLine
			var price decimal.Decimal
			if err := rows.Scan(&line.UserID, &line.GameID, &line.Name, &price, &line.PurchasedAt); err != nil {
				return errors.Wrap(err, "scan order item")
			}
			line.Price = price.StringFixed(2)
			scanned++
			if scanned%progressEvery == 0 {
				slog.Info("scanning", slog.Int("rows", scanned), slog.Int("kept", kept))
			}

			key := fmt.Sprintf("%s:%d", line.UserID, line.GameID)
			if seen.TestAndAddString(key) {
				continue
			}
			kept++

			select {
			case lines <- line:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := rows.Err(); err != nil {
			return errors.Wrap(err, "iterate order items")
		}

		slog.Info("scan finished", slog.Int("rows", scanned), slog.Int("kept", kept))
		return nil
	})

	// Writer: gzip-compressed JSON lines.
	g.Go(func() error {
		gz := pgzip.NewWriter(out)
		bw := bufio.NewWriter(gz)
		enc := json.NewEncoder(bw)

		for line := range lines {
			if err := enc.Encode(line); err != nil {
				return errors.Wrap(err, "encode line")
			}
		}

		if err := bw.Flush(); err != nil {
			return errors.Wrap(err, "flush output")
		}
		return errors.Wrap(gz.Close(), "close gzip writer")
	})

	return g.Wait()
}
