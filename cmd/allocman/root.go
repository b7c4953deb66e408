package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/viant/allocman"
)

// app holds the manager shared by subcommands
type app struct {
	configURL string
	storeURL  string
	logLevel  string
	service   *allocman.Service
}

func (a *app) open(cmd *cobra.Command) error {
	ctx := cmd.Context()
	config := allocman.DefaultConfig()
	if a.configURL != "" {
		loaded, err := allocman.LoadConfig(ctx, a.configURL)
		if err != nil {
			return err
		}
		config = loaded
	}
	if a.storeURL != "" {
		config.Store.URL = a.storeURL
	}
	if a.logLevel != "" {
		config.Log.Level = a.logLevel
	}
	service, err := allocman.New(ctx, allocman.WithConfig(config))
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	a.service = service
	return nil
}

func (a *app) close(ctx context.Context) error {
	if a.service == nil {
		return nil
	}
	service := a.service
	a.service = nil
	return service.Close(ctx)
}

// Run executes the command tree for args; the manager is closed whether or not the command fails
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{}
	rootCmd := newRootCommand(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	err := rootCmd.ExecuteContext(ctx)
	if closeErr := a.close(context.WithoutCancel(ctx)); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	return err
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "allocman",
		Short: "allocman - allocator lifecycle manager",
		Long: `allocman stores, compiles and runs pluggable allocators: scheduling
strategies written as Go programs that assign jobs to resources.`,
		Version:       fmt.Sprintf("%s (built: %s)", Version, BuildTime),
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configURL, "config", "", "config file URL (YAML)")
	rootCmd.PersistentFlags().StringVar(&a.storeURL, "store", "", "allocator source location, overrides config")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level, overrides config")

	rootCmd.AddCommand(newListCommand(a))
	rootCmd.AddCommand(newNewCommand(a))
	rootCmd.AddCommand(newShowCommand(a))
	rootCmd.AddCommand(newImportCommand(a))
	rootCmd.AddCommand(newCompileCommand(a))
	rootCmd.AddCommand(newDeleteCommand(a))
	rootCmd.AddCommand(newScheduleCommand(a))
	rootCmd.AddCommand(newEventsCommand(a))
	return rootCmd
}
