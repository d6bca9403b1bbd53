package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/FairForge/loadplanner/internal/config"
)

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "loadplanner",
		Short:         "Generate load test plans from service profiles and judge the results",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", config.GetEnvOrDefault(config.EnvPrefix+"CONFIG", ""), "path to a YAML config file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "", "log format (json, console)")

	cmd.AddCommand(newPlanCmd(a))
	cmd.AddCommand(newInterpretCmd(a))
	cmd.AddCommand(newValidateCmd(a))
	cmd.AddCommand(newValidatePlanCmd(a))
	cmd.AddCommand(newEventsCmd(a))
	return cmd
}

func Execute() {
	if _, err := config.LoadDotEnv(".env", ".env.local"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
