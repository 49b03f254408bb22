// Package cli implements the layoutsolver command-line interface.
package cli

import (
	"context"
	"errors"
	goflag "flag"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/auit-project/layoutsolver/apis/config"
	"github.com/auit-project/layoutsolver/pkg/archive"
	"github.com/auit-project/layoutsolver/pkg/oracle"
)

const appName = "layoutsolver"

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Dialer opens the transport of one optimization run.
type Dialer func(ctx context.Context, endpoint string) (oracle.Transport, io.Closer, error)

// CLI holds shared state for all commands.
type CLI struct {
	Out  io.Writer
	Dial Dialer
}

// New creates a CLI writing results to out and talking to the oracle over
// ZeroMQ.
func New(out io.Writer) *CLI {
	return &CLI{Out: out, Dial: dialZMQ}
}

func dialZMQ(ctx context.Context, endpoint string) (oracle.Transport, io.Closer, error) {
	t, err := oracle.DialZMQ(ctx, endpoint)
	if err != nil {
		return nil, nil, err
	}
	return t, t, nil
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "layoutsolver proposes UI layouts that trade off competing objectives",
		Long:         `layoutsolver searches element poses for a UI layout with a many-objective evolutionary algorithm. Candidate layouts are scored by an external oracle over ZeroMQ and the final population is reduced to a few proposals and one suggested default.`,
		Version:      version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, version, commit, date))

	klogFlags := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(klogFlags)
	root.PersistentFlags().AddGoFlagSet(klogFlags)

	root.AddCommand(c.optimizeCommand())
	root.AddCommand(c.pingCommand())
	root.AddCommand(c.runsCommand())

	return root
}

// archiveFlags are shared by every command touching the run archive.
type archiveFlags struct {
	kind string
	path string
}

func (f *archiveFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "archive", "", `where runs are recorded: "sqlite"`)
	cmd.Flags().StringVar(&f.path, "archive-path", config.DefaultArchivePath, "sqlite database file of the archive")
}

// errMemoryArchive is returned for a memory archive, which would be gone
// before any other command could read it.
var errMemoryArchive = errors.New(`the memory archive does not outlive a command, use --archive=sqlite`)

func openArchive(ctx context.Context, kind, path string) (archive.Store, error) {
	if kind == "memory" {
		return nil, errMemoryArchive
	}
	store, err := archive.NewStore(kind, path)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		_ = archive.CloseIfSupported(store)
		return nil, fmt.Errorf("open %s archive: %w", kind, err)
	}
	return store, nil
}
