package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/dig"
	"go.uber.org/fx"

	"github.com/matheus3301/smsarchive/internal/app"
	"github.com/matheus3301/smsarchive/internal/config"
	"github.com/matheus3301/smsarchive/internal/export"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "smsarchive [flags] <sms.db> <output>",
		Short: "Export an SMS/iMessage database to a static HTML archive",
		Long: "smsarchive reads an sms.db or chat.db message store and writes one HTML page\n" +
			"per contact plus an index page into a new output directory.",
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runExport,
	}
	config.RegisterFlags(rootCmd)
	rootCmd.AddCommand(newDemoDBCommand(), newConfigCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if config.IsConfigError(err) {
			fmt.Fprintf(os.Stderr, "\n%s", rootCmd.UsageString())
		}
		os.Exit(1)
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cmd, args)
	if err != nil {
		return err
	}

	var engine *export.Engine
	application := app.New(cfg, fx.Populate(&engine))
	if err := application.Err(); err != nil {
		return dig.RootCause(err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, application.StartTimeout())
	defer cancel()
	if err := application.Start(startCtx); err != nil {
		return dig.RootCause(err)
	}

	_, runErr := engine.Run(ctx)

	stopCtx, cancelStop := context.WithTimeout(context.Background(), application.StopTimeout())
	defer cancelStop()
	if err := application.Stop(stopCtx); err != nil && runErr == nil {
		return err
	}
	if errors.Is(runErr, context.Canceled) {
		return errors.New("interrupted; output is incomplete")
	}
	return runErr
}
