package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/auit-project/layoutsolver/pkg/archive"
)

// runsCommand creates the run archive commands.
func (c *CLI) runsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect archived optimization runs",
	}

	cmd.AddCommand(c.runsListCommand())
	cmd.AddCommand(c.runsShowCommand())
	cmd.AddCommand(c.runsPruneCommand())

	return cmd
}

// runsListCommand creates the "runs list" subcommand.
func (c *CLI) runsListCommand() *cobra.Command {
	var flags archiveFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived runs, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openArchive(cmd.Context(), archiveKind(flags.kind), flags.path)
			if err != nil {
				return err
			}
			defer archive.CloseIfSupported(store)

			runs, err := store.ListRuns(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(c.Out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPHASE\tALGORITHM\tSOLUTIONS\tEVALUATIONS\tSTARTED\tDURATION")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
					run.ID,
					run.Status.Phase,
					run.Spec.Algorithm,
					len(run.Status.Solutions),
					humanize.Comma(int64(run.Status.Evaluations)),
					humanize.Time(run.Status.StartedAt),
					run.Status.CompletedAt.Sub(run.Status.StartedAt).Round(time.Millisecond),
				)
			}
			return w.Flush()
		},
	}
	flags.register(cmd)
	return cmd
}

// runsShowCommand creates the "runs show" subcommand.
func (c *CLI) runsShowCommand() *cobra.Command {
	var flags archiveFlags
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Print an archived run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openArchive(cmd.Context(), archiveKind(flags.kind), flags.path)
			if err != nil {
				return err
			}
			defer archive.CloseIfSupported(store)

			run, ok, err := store.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("run %s not found", args[0])
			}
			return c.writeJSON("", run)
		},
	}
	flags.register(cmd)
	return cmd
}

// runsPruneCommand creates the "runs prune" subcommand.
func (c *CLI) runsPruneCommand() *cobra.Command {
	var (
		flags     archiveFlags
		olderThan time.Duration
	)
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete archived runs older than a duration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openArchive(cmd.Context(), archiveKind(flags.kind), flags.path)
			if err != nil {
				return err
			}
			defer archive.CloseIfSupported(store)

			sqlite, ok := store.(*archive.SQLiteStore)
			if !ok {
				return errors.New("only the sqlite archive can be pruned")
			}
			removed, err := sqlite.Prune(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.Out, "removed %s runs\n", humanize.Comma(removed))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "age of the runs to delete")
	return cmd
}

// archiveKind defaults the inspection commands to the sqlite archive.
func archiveKind(kind string) string {
	if kind == "" {
		return "sqlite"
	}
	return kind
}
