package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/picanha/dash/internal/api"
	"github.com/picanha/dash/internal/assets"
	"github.com/picanha/dash/internal/balance"
	"github.com/picanha/dash/internal/coinbase"
	"github.com/picanha/dash/internal/config"
	"github.com/picanha/dash/internal/database"
	"github.com/picanha/dash/internal/export"
	"github.com/picanha/dash/internal/ledger"
	"github.com/picanha/dash/internal/rates"
	"github.com/picanha/dash/internal/snapshot"
	"github.com/picanha/dash/internal/watchlist"
	"github.com/picanha/dash/internal/worker"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// services bundles the core wiring shared by all commands.
type services struct {
	cfg      config.Config
	rates    *rates.Store
	assets   *assets.Service
	ledger   *ledger.Service
	balances *balance.Service
}

func buildServices(cfg config.Config) services {
	client := coinbase.NewClient(cfg.CoinbaseURL, cfg.CoinbaseRetryMax, cfg.CoinbaseRetryBaseDelay)

	var ledgerSource ledger.Source
	if cfg.LedgerURL != "" {
		ledgerSource = ledger.NewClient(cfg.LedgerURL)
	}
	ledgerSvc := ledger.NewService(ledgerSource)

	return services{
		cfg:      cfg,
		rates:    rates.NewStore(client, cfg.BaseCurrency, cfg.RateCacheTTL),
		assets:   assets.NewService(client),
		ledger:   ledgerSvc,
		balances: balance.NewService(ledgerSvc),
	}
}

func main() {
	app := &cli.App{
		Name:  "dash",
		Usage: "Picanha portfolio stats service",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API server and background workers",
				Action: runServe,
			},
			{
				Name:   "balances",
				Usage:  "print the portfolio balances derived from the ledger",
				Action: runBalances,
			},
			{
				Name:  "export",
				Usage: "write a portfolio report as an XLSX workbook",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "out",
						Value: "report.xlsx",
						Usage: "output file path",
					},
				},
				Action: runExport,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runServe(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	svcs := buildServices(cfg)

	// Snapshot persistence is optional; without a database the service
	// still serves rates, assets, balances and the watchlist.
	var snapshotSvc *snapshot.Service
	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()

		migrationsSub, err := fs.Sub(migrationsFS, "migrations")
		if err != nil {
			return fmt.Errorf("creating migrations sub-fs: %w", err)
		}
		if err := database.RunMigrations(ctx, pool, migrationsSub); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}

		snapshotSvc = snapshot.NewService(svcs.balances, snapshot.NewPgRepository(pool))
	} else {
		slog.Warn("DATABASE_URL not set, snapshot persistence disabled")
	}

	rateWorker := worker.NewRateWorker(svcs.rates, cfg.RateWorkerInterval)
	go rateWorker.Run(ctx)

	if snapshotSvc != nil {
		var hook worker.AfterSnapshotHook
		if cfg.SheetsSpreadsheetID != "" && cfg.GoogleCredentialsJSON != "" {
			writer, err := export.NewSheetsWriter(ctx, cfg.SheetsSpreadsheetID, cfg.GoogleCredentialsJSON)
			if err != nil {
				return fmt.Errorf("creating sheets writer: %w", err)
			}
			hook = export.NewService(svcs.ledger, writer)
		}
		snapshotWorker := worker.NewSnapshotWorker(snapshotSvc, cfg.SnapshotWorkerInterval, hook)
		go snapshotWorker.Run(ctx)
	}

	if cfg.AdminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set, generate endpoint is unprotected")
	}

	handler := api.NewHandler(svcs.rates, svcs.assets, svcs.ledger, svcs.balances, watchlist.New())
	var snapshotHandler *api.SnapshotHandler
	if snapshotSvc != nil {
		snapshotHandler = api.NewSnapshotHandler(snapshotSvc)
	}
	srv := api.NewServer(cfg.HTTPPort, handler, snapshotHandler, cfg.AdminAPIKey)

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
	return nil
}

func runBalances(c *cli.Context) error {
	svcs := buildServices(config.Load())

	balances, err := svcs.balances.Balances(c.Context)
	if err != nil {
		return err
	}

	fmt.Printf("Fiat balance:   %12.2f\n", balances.FiatBalance)
	fmt.Printf("Crypto wallet:  %12.2f\n", balances.CryptoBalance)
	fmt.Printf("Total value:    %12.2f\n", balances.TotalValue)
	return nil
}

func runExport(c *cli.Context) error {
	svcs := buildServices(config.Load())

	balances, err := svcs.balances.Balances(c.Context)
	if err != nil {
		return err
	}

	out := c.String("out")
	svc := export.NewService(svcs.ledger, export.NewXLSXWriter(out))
	if err := svc.Export(c.Context, balances); err != nil {
		return err
	}

	log.Printf("report written to %s", out)
	return nil
}
