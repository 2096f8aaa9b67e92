package cli

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/sdiscovery/discovery"
	"github.com/kbukum/sdiscovery/util"
)

// NewDDiscovery builds the ddiscovery tool: query the registry for services
// by type and pool.
func NewDDiscovery(opts Options) *App {
	rt := newRuntime("ddiscovery", opts)
	root := rt.newRoot("ddiscovery alias|URL", "Find registered services by type and pool")

	var serviceType, pool, output string
	root.Args = positional(argHost)
	root.RunE = func(cmd *cobra.Command, args []string) error {
		format, err := parseOutput(output, OutputJSON, OutputID, OutputTable)
		if err != nil {
			return err
		}
		client, err := rt.client(args[0])
		if err != nil {
			return err
		}
		fl := cmd.Flags()
		services, err := client.GetServices(cmd.Context(), discovery.Query{
			Type: util.PtrIf(fl.Changed("type"), serviceType),
			Pool: util.PtrIf(fl.Changed("pool"), pool),
		})
		if err != nil {
			return err
		}
		return writeServices(cmd.OutOrStdout(), format, services)
	}

	fl := root.Flags()
	fl.StringVarP(&serviceType, "type", "t", "", "service type to match")
	fl.StringVarP(&pool, "pool", "p", "", "service pool to match")
	fl.StringVarP(&output, "output", "o", OutputJSON, "output format: JSON, ID or TABLE")
	return &App{cmd: root, rt: rt}
}
