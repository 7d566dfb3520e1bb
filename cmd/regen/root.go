package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"customderiv/internal/bootstrap"
	"customderiv/internal/domain"
	"customderiv/internal/infra"
	"customderiv/internal/regen"
)

type regenFlags struct {
	types       []string
	ids         []string
	maxURLs     int
	concurrency int
	maxPages    int
	dryRun      bool
	startAt     int64
}

func newRootCmd() *cobra.Command {
	var flags regenFlags
	cmd := &cobra.Command{
		Use:   "regen",
		Short: "Generate missing custom derivatives",
		Long: `regen scans the gallery catalog for custom derivatives that are not in the
cache yet and requests each one so the gallery builds it.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegen(cmd, flags)
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&flags.types, "types", nil, "derivative types to generate (default: all registered)")
	f.StringSliceVar(&flags.ids, "ids", nil, "restrict to these image ids")
	f.IntVar(&flags.maxURLs, "max-urls", 0, "URLs per scan page (default: DEFAULT_MAX_URLS)")
	f.IntVar(&flags.concurrency, "concurrency", 4, "parallel requests")
	f.IntVar(&flags.maxPages, "max-pages", 0, "stop after this many scan pages (0: until done)")
	f.Int64Var(&flags.startAt, "cursor", 0, "resume a scan from a previous next_page value")
	f.BoolVar(&flags.dryRun, "dry-run", false, "print URLs instead of requesting them")
	return cmd
}

func (f regenFlags) scanRequest() (domain.ScanRequest, error) {
	req := domain.ScanRequest{
		Types:      f.types,
		MaxResults: f.maxURLs,
		Cursor:     f.startAt,
	}
	if f.maxURLs < 0 {
		return req, fmt.Errorf("--max-urls must not be negative")
	}
	if f.startAt < 0 {
		return req, fmt.Errorf("--cursor must not be negative")
	}
	for _, raw := range f.ids {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || id <= 0 {
			return req, fmt.Errorf("invalid image id %q", raw)
		}
		req.ImageIDs = append(req.ImageIDs, id)
	}
	return req, nil
}

func runRegen(cmd *cobra.Command, flags regenFlags) error {
	req, err := flags.scanRequest()
	if err != nil {
		return err
	}

	cfg, err := infra.LoadConfig()
	if err != nil {
		return err
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("metrics flush failed")
		}
	}()

	driver := regen.NewDriver(rt.Scanner, regen.Options{
		Concurrency: flags.concurrency,
		DryRun:      flags.dryRun,
		MaxPages:    flags.maxPages,
		Logger:      logger,
		Metrics:     rt.Metrics,
	})
	sum, runErr := driver.Run(ctx, req)

	out := cmd.OutOrStdout()
	for _, u := range sum.Planned {
		fmt.Fprintln(out, u)
	}
	for _, line := range sum.Lines(regen.ParseLocale(cfg.Locale)) {
		fmt.Fprintln(out, line)
	}
	return runErr
}
