package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/auit-project/layoutsolver/apis/config"
	"github.com/auit-project/layoutsolver/pkg/oracle"
)

// pingCommand creates the "ping" command.
func (c *CLI) pingCommand() *cobra.Command {
	var endpoint string
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Send a hello request to the oracle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			transport, closer, err := c.Dial(ctx, endpoint)
			if err != nil {
				return err
			}
			defer closer.Close()

			start := time.Now()
			if err := oracle.NewBridge(transport, 1, 0).Hello(ctx); err != nil {
				return err
			}
			fmt.Fprintf(c.Out, "oracle at %s answered in %s\n", endpoint, time.Since(start).Round(time.Microsecond))
			return nil
		},
	}
	cmd.Flags().StringVar(&endpoint, "endpoint", config.DefaultOracleEndpoint, "ZeroMQ endpoint of the oracle")
	return cmd
}
