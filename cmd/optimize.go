package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/enersim/gridopt/app"
	"github.com/enersim/gridopt/config"
	"github.com/enersim/gridopt/infra/logger"
	"github.com/enersim/gridopt/internal/scenario"
	"github.com/enersim/gridopt/pkg/export"
)

var (
	scenarioPath string
	outPath      string
	outFormat    string
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Solve one dispatch scenario and export the schedule",
	RunE:  runOptimize,
}

func init() {
	optimizeCmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "", "scenario file (json or yaml)")
	optimizeCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file, - for stdout")
	optimizeCmd.Flags().StringVarP(&outFormat, "format", "f", "json", "output format: json or csv")
	_ = optimizeCmd.MarkFlagRequired("scenario")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sc, err := scenario.Load(scenarioPath)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	req, err := sc.ToRequest()
	if err != nil {
		return err
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	res, err := svc.Optimize(ctx, req)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	switch strings.ToLower(outFormat) {
	case "json":
		return export.WriteJSON(out, res)
	case "csv":
		return export.WriteCSV(out, res.Records)
	}
	return fmt.Errorf("unsupported output format: %s", outFormat)
}
