package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/allocman/model/allocator"
	"github.com/viant/allocman/model/schedule"
	"github.com/viant/allocman/service/event"
	"github.com/viant/allocman/service/messaging"
	"github.com/viant/allocman/service/scaffold"
)

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered allocators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSTATE\tUPDATED")
			for _, record := range a.service.Registry().List(cmd.Context()) {
				fmt.Fprintf(w, "%s\t%s\t%s\n", record.Name, record.State, record.UpdatedAt.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
}

func newNewCommand(a *app) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create an allocator from the skeleton or an existing source (any afs location)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			text, err := scaffold.Source(name)
			if err != nil {
				return err
			}
			if from != "" {
				data, err := afs.New().DownloadWithURL(cmd.Context(), url.Normalize(from, file.Scheme))
				if err != nil {
					return fmt.Errorf("failed to read %v: %w", from, err)
				}
				text = string(data)
			}
			record, err := a.service.Registry().Create(cmd.Context(), name, text)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %v\n", record.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "initial source file")
	return cmd
}

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print persisted allocator source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.service.Registry().Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), text)
			return err
		},
	}
}

func newImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <location>...",
		Short: "Import allocator sources, a directory imports every .go file in it; existing names are replaced",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fs := afs.New()
			failed := 0
			for _, location := range args {
				object, err := fs.Object(ctx, url.Normalize(location, file.Scheme))
				if err != nil {
					return fmt.Errorf("%w: %v", allocator.ErrImport, err)
				}
				if !object.IsDir() {
					record, err := a.service.Registry().Import(ctx, location)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "imported %v\n", record.Name)
					continue
				}
				results, err := a.service.Importer().ImportDir(ctx, location)
				if err != nil {
					return err
				}
				for _, result := range results {
					if result.Err() != nil {
						failed++
						fmt.Fprintf(cmd.ErrOrStderr(), "failed %v: %v\n", result.URL, result.Error)
						continue
					}
					fmt.Fprintf(cmd.OutOrStdout(), "imported %v\n", result.Record.Name)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d imports failed", failed)
			}
			return nil
		},
	}
}

func newCompileCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compile <name>...",
		Short: "Compile allocators",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed []string
			for _, name := range args {
				record, err := a.service.Registry().Compile(cmd.Context(), name)
				var compileErr *allocator.CompileError
				switch {
				case errors.As(err, &compileErr):
					failed = append(failed, name)
					fmt.Fprintf(cmd.ErrOrStderr(), "%v: %v\n%s\n", name, allocator.StateFailed, compileErr.Diagnostics)
				case err != nil:
					return err
				default:
					fmt.Fprintf(cmd.OutOrStdout(), "%v: %v\n", name, record.State)
				}
			}
			if len(failed) > 0 {
				return fmt.Errorf("failed to compile: %v", failed)
			}
			return nil
		},
	}
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete an allocator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.service.Registry().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %v\n", args[0])
			return nil
		},
	}
}

func newScheduleCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule <name> [request.json]",
		Short: "Compile an allocator and run one scheduling round, the request is read from stdin by default",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var reader io.Reader = cmd.InOrStdin()
			if len(args) == 2 {
				f, err := afs.New().OpenURL(ctx, url.Normalize(args[1], file.Scheme))
				if err != nil {
					return err
				}
				defer f.Close()
				reader = f
			}
			request := &schedule.Request{}
			if err := json.NewDecoder(reader).Decode(request); err != nil {
				return fmt.Errorf("invalid request: %w", err)
			}
			if _, err := a.service.Registry().Compile(ctx, args[0]); err != nil {
				return err
			}
			scheduler, err := a.service.Registry().Artifact(ctx, args[0])
			if err != nil {
				return err
			}
			assignment, err := scheduler.Schedule(ctx, request)
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(assignment)
		},
	}
}

func newEventsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Print and acknowledge journaled transitions (fs events vendor)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			config := a.service.Config().Events
			if !config.Enabled || config.Vendor != messaging.VendorFS {
				return fmt.Errorf("events journal requires the %v vendor", messaging.VendorFS)
			}
			events, err := event.New(config)
			if err != nil {
				return err
			}
			publisher, err := event.PublisherOf[allocator.Transition](ctx, events)
			if err != nil {
				return err
			}
			for {
				e, err := publisher.Consume(ctx)
				if err != nil {
					return err
				}
				if e == nil {
					return nil
				}
				t := e.Data
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-10s %-10s -> %-10s %s\n", t.At.Format("2006-01-02 15:04:05"), t.Reason, t.From, t.To, t.Name)
			}
		},
	}
}
