package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"redflag/internal/config"
	"redflag/internal/core"
	applog "redflag/internal/log"
	"redflag/internal/report"
	"redflag/internal/services"
	"redflag/internal/ynab"
)

func main() {
	// Load .env for local development (ignore errors in production)
	_ = godotenv.Load()

	var (
		startFlag      = flag.String("start", "", "start date (YYYY-MM-DD, inclusive)")
		endFlag        = flag.String("end", "", "end date (YYYY-MM-DD, inclusive)")
		categoryFlag   = flag.String("category", "", "category ID to filter by")
		accountFlag    = flag.String("account", "", "account ID to filter by")
		formatFlag     = flag.String("format", "all", "output format: csv, xlsx, pdf, or all")
		outFlag        = flag.String("out", "", "output directory (defaults to REPORTS_DIR)")
		sortFlag       = flag.String("sort", "input", "row order: input or newest")
		noCacheFlag    = flag.Bool("no-cache", false, "bypass the response cache")
		listAccounts   = flag.Bool("list-accounts", false, "list accounts and exit")
		listCategories = flag.Bool("list-categories", false, "list category groups and exit")
	)
	flag.Parse()

	cfg := config.Load()
	logger := applog.New(cfg.LogLevel)
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	client, err := ynab.New(ynab.Config{
		Token:    cfg.APIToken,
		BudgetID: cfg.BudgetID,
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.HTTPTimeout,
		CacheTTL: cfg.CacheTTL,
	}, nil)
	if err != nil {
		logger.Error("Failed to initialize budget service client", "error", err)
		os.Exit(1)
	}

	svc := services.NewFlaggedService(client, cfg.CacheTTL)
	ctx := context.Background()

	switch {
	case *listAccounts:
		if err := printAccounts(ctx, svc); err != nil {
			logger.Error("Failed to list accounts", "error", err)
			os.Exit(1)
		}
	case *listCategories:
		if err := printCategories(ctx, svc); err != nil {
			logger.Error("Failed to list categories", "error", err)
			os.Exit(1)
		}
	default:
		if err := generate(ctx, svc, cfg, *startFlag, *endFlag, *categoryFlag, *accountFlag, *formatFlag, *outFlag, *sortFlag, *noCacheFlag); err != nil {
			logger.Error("Report generation failed", "error", err)
			os.Exit(1)
		}
	}
}

func generate(ctx context.Context, svc *services.FlaggedService, cfg *config.Config, start, end, category, account, format, out, sortOrder string, noCache bool) error {
	q := services.Query{CategoryID: category, AccountID: account}

	if start != "" {
		d, err := core.ParseDate(start)
		if err != nil {
			return fmt.Errorf("invalid -start date: %w", err)
		}
		q.StartDate = d
	}
	if end != "" {
		d, err := core.ParseDate(end)
		if err != nil {
			return fmt.Errorf("invalid -end date: %w", err)
		}
		q.EndDate = d
	}

	order := report.OrderInput
	switch sortOrder {
	case "input":
	case "newest":
		order = report.OrderNewestFirst
	default:
		return fmt.Errorf("invalid -sort %q: must be input or newest", sortOrder)
	}

	txns, err := svc.RedFlagged(ctx, q, !noCache)
	if err != nil {
		return err
	}

	rep := report.New(txns)
	dir := out
	if dir == "" {
		dir = cfg.ReportsDir
	}

	stamp := time.Now().Format("20060102_150405")
	base := filepath.Join(dir, "red_flag_report_"+stamp)

	var paths report.ArtifactPaths
	switch format {
	case "csv":
		paths.CSV = base + ".csv"
	case "xlsx":
		paths.XLSX = base + ".xlsx"
	case "pdf":
		paths.PDF = base + ".pdf"
	case "all":
		paths = report.ArtifactPaths{CSV: base + ".csv", XLSX: base + ".xlsx", PDF: base + ".pdf"}
	default:
		return fmt.Errorf("invalid -format %q: must be csv, xlsx, pdf, or all", format)
	}

	if err := rep.ExportAll(paths, order); err != nil {
		return err
	}

	fmt.Printf("Flagged transactions: %d\n", rep.Count())
	fmt.Printf("Total amount: %s\n", rep.Total().StringFixed(2))
	for _, p := range []string{paths.CSV, paths.XLSX, paths.PDF} {
		if p != "" {
			fmt.Printf("Wrote %s\n", p)
		}
	}
	return nil
}

func printAccounts(ctx context.Context, svc *services.FlaggedService) error {
	accounts, err := svc.Accounts(ctx, true)
	if err != nil {
		return err
	}
	for _, a := range accounts {
		status := "open"
		if a.Closed {
			status = "closed"
		}
		fmt.Printf("%s  %-30s %-10s %10s  %s\n", a.ID, a.Name, a.Type, a.Balance.Display(), status)
	}
	return nil
}

func printCategories(ctx context.Context, svc *services.FlaggedService) error {
	groups, err := svc.CategoryGroups(ctx, true)
	if err != nil {
		return err
	}
	for _, g := range groups {
		fmt.Printf("%s  %s\n", g.ID, g.Name)
		for _, c := range g.Categories {
			fmt.Printf("    %s  %s\n", c.ID, c.Name)
		}
	}
	return nil
}
