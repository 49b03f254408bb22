package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"

	"github.com/auit-project/layoutsolver/apis/config"
	"github.com/auit-project/layoutsolver/apis/layout/v1alpha1"
	"github.com/auit-project/layoutsolver/pkg/archive"
	"github.com/auit-project/layoutsolver/pkg/multiobjective"
	"github.com/auit-project/layoutsolver/pkg/multiobjective/util"
)

type optimizeOptions struct {
	configPath     string
	seed           uint64
	generations    int
	populationSize int
	algorithm      string
	reductionMode  string
	proposals      int
	endpoint       string
	handshake      bool
	archive        archiveFlags
	output         string
	plot           string
}

// optimizeCommand creates the "optimize" command.
func (c *CLI) optimizeCommand() *cobra.Command {
	o := &optimizeOptions{}
	cmd := &cobra.Command{
		Use:   "optimize REQUEST",
		Short: "Optimize the layout of an optimization request",
		Long: `Reads an optimization request (JSON or YAML) holding the number of objectives,
the number of constraints and the initial layout, runs the search against the
oracle and prints the optimization response.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOptimize(cmd, o, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.configPath, "config", "", "optimizer configuration file (YAML or JSON)")
	flags.Uint64Var(&o.seed, "seed", 0, "random seed of the run")
	flags.IntVar(&o.generations, "generations", config.DefaultGenerations, "generation budget")
	flags.IntVar(&o.populationSize, "population-size", config.DefaultPopulationSize, "candidates evaluated per generation")
	flags.StringVar(&o.algorithm, "algorithm", config.DefaultAlgorithm, `solver: "nsga2" or "nsga3"`)
	flags.StringVar(&o.reductionMode, "reduction", string(config.DefaultReductionMode), `reduction mode: "all", "high-tradeoff" or "scalarization"`)
	flags.IntVar(&o.proposals, "proposals", config.DefaultProposalCount, "energy-spread weight vectors of the scalarization reduction")
	flags.StringVar(&o.endpoint, "endpoint", config.DefaultOracleEndpoint, "ZeroMQ endpoint of the oracle")
	flags.BoolVar(&o.handshake, "handshake", false, "send a hello request before optimizing")
	flags.StringVarP(&o.output, "output", "o", "", "write the response to a file instead of stdout")
	flags.StringVar(&o.plot, "plot", "", "write an HTML plot of the final population")
	o.archive.register(cmd)

	return cmd
}

func (c *CLI) runOptimize(cmd *cobra.Command, o *optimizeOptions, requestPath string) error {
	ctx := cmd.Context()
	logger := klog.FromContext(ctx)

	args, err := o.optimizerArgs(cmd.Flags())
	if err != nil {
		return err
	}
	req, err := readRequest(requestPath)
	if err != nil {
		return err
	}

	var opts []multiobjective.Option
	if args.Archive != "" {
		store, err := openArchive(ctx, args.Archive, args.ArchivePath)
		if err != nil {
			return err
		}
		defer archive.CloseIfSupported(store)
		opts = append(opts, multiobjective.WithArchive(store))
	}

	optimizer, err := multiobjective.New(ctx, args, opts...)
	if err != nil {
		return err
	}

	effective := optimizer.Args()

	transport, closer, err := c.Dial(ctx, effective.OracleEndpoint)
	if err != nil {
		return err
	}
	defer closer.Close()

	logger.V(1).Info("Optimizing layout", "elements", req.InitialLayout.Len(), "objectives", req.NObjectives, "constraints", req.NConstraints, "endpoint", effective.OracleEndpoint)
	result, err := optimizer.Optimize(ctx, transport, *req)
	if err != nil {
		return err
	}

	if o.plot != "" {
		if err := writePlot(o.plot, result); err != nil {
			return err
		}
	}
	return c.writeJSON(o.output, result.Response(req.ManagerID))
}

// optimizerArgs loads the configuration file, if any, and applies the flags
// the user set explicitly on top of it.
func (o *optimizeOptions) optimizerArgs(flags *pflag.FlagSet) (*config.OptimizerArgs, error) {
	args := &config.OptimizerArgs{}
	if o.configPath != "" {
		loaded, err := config.LoadFile(o.configPath)
		if err != nil {
			return nil, err
		}
		args = loaded
	}

	if flags.Changed("seed") {
		seed := o.seed
		args.Seed = &seed
	}
	if flags.Changed("generations") {
		args.Generations = o.generations
	}
	if flags.Changed("population-size") {
		args.PopulationSize = o.populationSize
	}
	if flags.Changed("algorithm") {
		args.Algorithm = o.algorithm
	}
	if flags.Changed("reduction") {
		args.ReductionMode = config.ReductionMode(o.reductionMode)
	}
	if flags.Changed("proposals") {
		proposals := o.proposals
		args.ProposalCount = &proposals
	}
	if flags.Changed("endpoint") {
		args.OracleEndpoint = o.endpoint
	}
	if flags.Changed("handshake") {
		args.Handshake = o.handshake
	}
	if flags.Changed("archive") {
		args.Archive = o.archive.kind
	}
	if flags.Changed("archive-path") || (args.Archive == "sqlite" && args.ArchivePath == "") {
		args.ArchivePath = o.archive.path
	}
	config.SetDefaults_OptimizerArgs(args)
	return args, nil
}

func readRequest(path string) (*v1alpha1.OptimizationRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading optimization request: %w", err)
	}
	req := &v1alpha1.OptimizationRequest{}
	if err := yaml.UnmarshalStrict(data, req); err != nil {
		return nil, fmt.Errorf("decoding optimization request: %w", err)
	}
	return req, nil
}

func (c *CLI) writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err = c.Out.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func writePlot(path string, result *multiobjective.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return util.PlotFront(f, result.Population.F, result.SelectedIndices, result.SuggestedIndex, "Pareto front")
}
