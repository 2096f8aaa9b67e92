package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kbukum/sdiscovery/component"
	"github.com/kbukum/sdiscovery/discovery"
	"github.com/kbukum/sdiscovery/errors"
	"github.com/kbukum/sdiscovery/logger"
	"github.com/kbukum/sdiscovery/util"
)

// stdinName selects standard input for --JSON and --JSONFile.
const stdinName = "-"

type addFlags struct {
	output      string
	environment string
	serviceType string
	pool        string
	location    string
	properties  []string
	rawJSON     string
	jsonFile    string
	hold        bool
}

var definitionFlags = []string{"environment", "type", "pool", "location", "property"}

func (r *runtime) newAddCommand() *cobra.Command {
	f := &addFlags{}
	cmd := &cobra.Command{
		Use:   "add alias|URL",
		Short: "Announce a static service",
		Long: `Announce a static service and print its id.

The service is defined either by -e, -t, -p, -l and -Dkey=value flags or by
raw JSON given with --JSON or --JSONFile ('-' reads standard input).
With --hold the announcement is kept until the process is interrupted and
then deleted.`,
		Args: positional(argHost),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.runAdd(cmd, args[0], f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", OutputJSON, "output format: JSON or ID")
	fl.StringVarP(&f.environment, "environment", "e", "", "service definition: environment")
	fl.StringVarP(&f.serviceType, "type", "t", "", "service definition: type")
	fl.StringVarP(&f.pool, "pool", "p", "", "service definition: pool")
	fl.StringVarP(&f.location, "location", "l", "", "service definition: location")
	fl.StringArrayVarP(&f.properties, "property", "D", nil, "service definition: add key=value property, e.g. -Dhttp=http://host:8080")
	fl.StringVarP(&f.rawJSON, "JSON", "j", "", "service definition: entire raw JSON data, '-' for stdin")
	fl.StringVarP(&f.jsonFile, "JSONFile", "f", "", "service definition: raw JSON data filename, '-' for stdin")
	fl.BoolVar(&f.hold, "hold", false, "keep the announcement until interrupted, then delete it")
	cmd.MarkFlagsMutuallyExclusive("JSON", "JSONFile")
	return cmd
}

func (r *runtime) runAdd(cmd *cobra.Command, host string, f *addFlags) error {
	format, err := parseOutput(f.output, OutputJSON, OutputID)
	if err != nil {
		return err
	}
	a, err := buildAnnouncement(cmd, f)
	if err != nil {
		return err
	}
	client, err := r.client(host)
	if err != nil {
		return err
	}

	if f.hold {
		return r.hold(cmd, client, a, format)
	}
	id, err := client.StaticAnnounce(cmd.Context(), a)
	if err != nil {
		return err
	}
	return writeID(cmd.OutOrStdout(), format, id)
}

// hold runs the announcement as a lifecycle component so it is withdrawn
// on SIGINT or SIGTERM.
func (r *runtime) hold(cmd *cobra.Command, client *discovery.Client, a discovery.Announcement, format string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	announcer := discovery.NewAnnouncer(client, a, r.log)
	reg := component.NewRegistry(r.log)
	if err := reg.Register(announcer); err != nil {
		return err
	}
	if err := reg.StartAll(ctx); err != nil {
		return err
	}
	if err := writeID(cmd.OutOrStdout(), format, announcer.ID()); err != nil {
		_ = reg.StopAll(context.WithoutCancel(ctx))
		return err
	}

	r.log.Info("Holding announcement", logger.Fields("id", announcer.ID()))
	<-ctx.Done()
	return reg.StopAll(context.WithoutCancel(ctx))
}

func writeID(w io.Writer, format, id string) error {
	if format == OutputID {
		_, err := fmt.Fprintln(w, id)
		return err
	}
	return writeJSON(w, map[string]string{"id": id})
}

// buildAnnouncement reads the announcement from raw JSON or from the
// definition flags. Mixing the two is rejected.
func buildAnnouncement(cmd *cobra.Command, f *addFlags) (discovery.Announcement, error) {
	fl := cmd.Flags()
	if fl.Changed("JSON") || fl.Changed("JSONFile") {
		var extra []string
		for _, name := range definitionFlags {
			if !fl.Changed(name) {
				continue
			}
			if name == "property" {
				for _, p := range f.properties {
					extra = append(extra, "-D"+p)
				}
				continue
			}
			extra = append(extra, fmt.Sprintf("--%s=%s", name, fl.Lookup(name).Value.String()))
		}
		if len(extra) > 0 {
			return discovery.Announcement{}, errExtra(extra)
		}
		return readAnnouncement(cmd.InOrStdin(), f)
	}

	switch {
	case !fl.Changed("environment"):
		return discovery.Announcement{}, errMissing("environment")
	case !fl.Changed("type"):
		return discovery.Announcement{}, errMissing("type")
	case !fl.Changed("pool"):
		return discovery.Announcement{}, errMissing("pool")
	}

	props := make(map[string]string, len(f.properties))
	for _, p := range f.properties {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return discovery.Announcement{}, errors.InvalidArgument("-D"+p, "must have the form -Dkey=value")
		}
		props[k] = v
	}

	return discovery.Announcement{
		Environment: util.Ptr(f.environment),
		Type:        util.Ptr(f.serviceType),
		Pool:        util.Ptr(f.pool),
		Location:    util.PtrIf(fl.Changed("location"), f.location),
		Properties:  props,
	}, nil
}

func readAnnouncement(stdin io.Reader, f *addFlags) (discovery.Announcement, error) {
	var (
		data   []byte
		source string
		err    error
	)
	switch {
	case f.jsonFile == stdinName, f.rawJSON == stdinName:
		source = "stdin"
		data, err = io.ReadAll(stdin)
	case f.jsonFile != "":
		source = f.jsonFile
		data, err = os.ReadFile(f.jsonFile)
	default:
		source = "--JSON"
		data = []byte(f.rawJSON)
	}
	if err != nil {
		return discovery.Announcement{}, errors.InvalidArgument(source, "could not be read").WithCause(err)
	}

	var a discovery.Announcement
	if err := json.Unmarshal(data, &a); err != nil {
		return discovery.Announcement{}, errors.InvalidArgument(source, "is not a valid announcement").WithCause(err)
	}
	return a, nil
}
