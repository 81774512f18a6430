package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"stock-reconciliation/internal/config"
	"stock-reconciliation/internal/engine"
	"stock-reconciliation/internal/gateway"
	"stock-reconciliation/internal/httpapi"
	"stock-reconciliation/internal/usecase"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  reconciler report -consignments FILE [-returns FILE,...] [-counterparty ID] [-start YYYY-MM-DD] [-end YYYY-MM-DD] [-return-policy single|multiple] [-xlsx OUT]
  reconciler serve [-config FILE]
`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "report":
		runReport(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	default:
		fmt.Printf("Error: unknown command %q\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func runReport(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	consignmentsFile := fs.String("consignments", "", "Path to the consignments CSV file (required)")
	returnFilesStr := fs.String("returns", "", "Comma-separated list of paths to returns CSV files")
	counterparty := fs.String("counterparty", "", "Counterparty to reconcile (all when empty)")
	startDateStr := fs.String("start", "", "Start of the dispatch date range (YYYY-MM-DD)")
	endDateStr := fs.String("end", "", "End of the dispatch date range, inclusive (YYYY-MM-DD)")
	xlsxOut := fs.String("xlsx", "", "Also write the report as an .xlsx workbook to this path")
	policyStr := fs.String("return-policy", string(engine.MultipleReturns), "Returns allowed per consignment: single or multiple")
	logLevel := fs.String("log-level", "warn", "Log level for diagnostics written to stderr")
	fs.Parse(args)

	if *consignmentsFile == "" {
		fmt.Println("Error: the -consignments flag is required.")
		fs.Usage()
		os.Exit(1)
	}

	startDate, err := parseOptionalDate(*startDateStr)
	if err != nil {
		log.Fatalf("Error parsing start date: %v", err)
	}
	endDate, err := parseOptionalDate(*endDateStr)
	if err != nil {
		log.Fatalf("Error parsing end date: %v", err)
	}

	policy := engine.ReturnPolicy(strings.ToLower(*policyStr))
	if !policy.IsValid() {
		log.Fatalf("Unknown return policy %q", *policyStr)
	}

	var returnFiles []string
	if *returnFilesStr != "" {
		returnFiles = strings.Split(*returnFilesStr, ",")
	}

	logger, err := config.NewLogger(*logLevel, "text", os.Stderr)
	if err != nil {
		log.Fatalf("Invalid logger settings: %v", err)
	}

	ctx := context.Background()

	// 1. Read the ledger from CSV, replaying every row through the rules
	reader := gateway.NewCSVConsignmentReader()
	consignments, err := reader.ReadLedger(ctx, *consignmentsFile, returnFiles, policy)
	if err != nil {
		log.Fatalf("Reading ledger failed: %v", err)
	}

	// 2. Load it into an in-memory store the usecase can query
	repo := gateway.NewMemoryRepository(policy)
	for _, c := range consignments {
		if err := repo.CreateConsignment(ctx, c); err != nil {
			log.Fatalf("Loading consignment %s failed: %v", c.ID, err)
		}
	}

	// 3. Create the usecase and run the reconciliation
	uc := usecase.NewConsignmentUseCase(repo, usecase.WithLogger(logger))
	report, err := uc.Reconcile(ctx, *counterparty, startDate, endDate)
	if err != nil {
		log.Fatalf("Reconciliation failed: %v", err)
	}

	output, err := json.MarshalIndent(report.Rounded(), "", "  ")
	if err != nil {
		log.Fatalf("Failed to generate JSON report: %v", err)
	}
	fmt.Println(string(output))

	if *xlsxOut != "" {
		if err := gateway.SaveReportXLSX(*report, *xlsxOut); err != nil {
			log.Fatalf("Failed to write workbook: %v", err)
		}
	}
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configFile := fs.String("config", "", "Optional config file (yaml, json or toml)")
	fs.Parse(args)

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Loading config failed: %v", err)
	}
	logger, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		log.Fatalf("Invalid logger settings: %v", err)
	}

	policy := engine.ReturnPolicy(cfg.ReturnPolicy)
	repo, closeRepo := openRepository(cfg, policy, logger)
	defer closeRepo()

	table := engine.LooseTransitions
	if cfg.StrictTransitions {
		table = engine.StrictTransitions
	}
	uc := usecase.NewConsignmentUseCase(repo,
		usecase.WithLogger(logger),
		usecase.WithReturnPolicy(policy),
		usecase.WithLifecycle(engine.NewLifecycle(table)),
	)

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(uc, logger, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":   cfg.HTTPAddr,
			"store":  cfg.Store,
			"policy": policy,
		}).Info("server starting")
		serverErrCh <- srv.ListenAndServe()
	}()

	select {
	case <-sigCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}

func openRepository(cfg *config.Config, policy engine.ReturnPolicy, logger *logrus.Logger) (usecase.ConsignmentRepository, func()) {
	if cfg.Store != config.StorePostgres {
		return gateway.NewMemoryRepository(policy), func() {}
	}

	db, err := gateway.OpenPostgres(cfg.PostgresURL)
	if err != nil {
		logger.WithError(err).Fatal("could not connect to postgres")
	}
	if err := gateway.RunMigrations(db, cfg.MigrationsDir); err != nil {
		db.Close()
		logger.WithError(err).Fatal("could not migrate database")
	}
	logger.WithField("dir", cfg.MigrationsDir).Info("migrations applied")
	return gateway.NewPostgresRepository(db, policy), func() { db.Close() }
}

func parseOptionalDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", raw)
}
