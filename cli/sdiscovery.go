package cli

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/sdiscovery/discovery"
)

// NewSDiscovery builds the sdiscovery tool: show, add and delete static
// announcements.
func NewSDiscovery(opts Options) *App {
	rt := newRuntime("sdiscovery", opts)
	root := rt.newRoot("sdiscovery", "Manage static service announcements")
	root.AddCommand(
		rt.newShowCommand(),
		rt.newAddCommand(),
		rt.newDeleteCommand(),
	)
	return &App{cmd: root, rt: rt}
}

func (r *runtime) newShowCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show alias|URL",
		Short: "List registered services",
		Args:  positional(argHost),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutput(output, OutputJSON, OutputID, OutputTable)
			if err != nil {
				return err
			}
			client, err := r.client(args[0])
			if err != nil {
				return err
			}
			services, err := client.GetServices(cmd.Context(), discovery.Query{})
			if err != nil {
				return err
			}
			return writeServices(cmd.OutOrStdout(), format, services)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", OutputJSON, "output format: JSON, ID or TABLE")
	return cmd
}

func (r *runtime) newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete alias|URL ID",
		Short: "Delete a static announcement",
		Args:  positional(argHost, "service identifier"),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := r.client(args[0])
			if err != nil {
				return err
			}
			id := args[1]
			return client.StaticDelete(cmd.Context(), &id)
		},
	}
}
