package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/sdiscovery/config"
	"github.com/kbukum/sdiscovery/discovery"
	"github.com/kbukum/sdiscovery/errors"
	"github.com/kbukum/sdiscovery/failover"
	"github.com/kbukum/sdiscovery/logger"
	"github.com/kbukum/sdiscovery/observability"
	"github.com/kbukum/sdiscovery/security"
	"github.com/kbukum/sdiscovery/util"
	"github.com/kbukum/sdiscovery/version"
)

// Exit codes.
const (
	ExitSuccess = iota
	ExitError
)

// defaultVerbosity is the level used without -v: errors only.
const defaultVerbosity = 3

// envOTLPEndpoint enables telemetry export when --telemetry-endpoint is not given.
const envOTLPEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"

// Options wires the tools to their environment. Zero values mean the
// process streams and the default alias and config file lookup.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// AliasFile overrides ~/.discoveryrc.
	AliasFile string
	// ConfigFile overrides the config file lookup.
	ConfigFile string
}

func (o Options) withDefaults() Options {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	return o
}

// App is one command-line tool.
type App struct {
	cmd *cobra.Command
	rt  *runtime
}

// Command returns the root cobra command.
func (a *App) Command() *cobra.Command { return a.cmd }

// Run executes the tool with args and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	a.cmd.SetArgs(args)
	err := a.cmd.ExecuteContext(ctx)
	a.rt.close()
	if err != nil {
		printError(a.rt.opts.Stderr, a.rt.name, err)
		return ExitError
	}
	return ExitSuccess
}

// runtime holds the state shared by all subcommands of one tool.
type runtime struct {
	name string
	opts Options

	verbose           int
	configFile        string
	aliasFile         string
	timeout           time.Duration
	insecure          bool
	telemetryEndpoint string

	cfg      *config.ClientConfig
	log      *logger.Logger
	shutdown observability.ShutdownFunc
}

func newRuntime(name string, opts Options) *runtime {
	opts = opts.withDefaults()
	return &runtime{
		name:       name,
		opts:       opts,
		configFile: opts.ConfigFile,
		aliasFile:  opts.AliasFile,
		log:        logger.NewNop(),
	}
}

func (r *runtime) newRoot(use, short string) *cobra.Command {
	root := &cobra.Command{
		Use:               use,
		Short:             short,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: r.setup,
	}
	root.SetIn(r.opts.Stdin)
	root.SetOut(r.opts.Stdout)
	root.SetErr(r.opts.Stderr)

	f := root.PersistentFlags()
	f.CountVarP(&r.verbose, "verbose", "v", "more log output; repeat for more (-vvv logs requests)")
	f.StringVar(&r.configFile, "config", r.configFile, "config file (default: ./"+r.name+".yml, ./config.yml, ~/.config/"+r.name+"/config.yml)")
	f.StringVar(&r.aliasFile, "alias-file", r.aliasFile, "host alias file (default: ~/"+config.DefaultAliasFile+")")
	f.DurationVar(&r.timeout, "timeout", 0, "per-request timeout, e.g. 5s")
	f.BoolVarP(&r.insecure, "insecure", "k", false, "skip TLS certificate verification")
	f.StringVar(&r.telemetryEndpoint, "telemetry-endpoint", "", "export traces and metrics over OTLP/HTTP to host:port")

	root.AddCommand(r.newVersionCommand())
	return root
}

// setup loads configuration, builds the logger and installs telemetry.
func (r *runtime) setup(cmd *cobra.Command, _ []string) error {
	var loadOpts []config.LoaderOption
	if r.configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(r.configFile))
	}
	cfg := &config.ClientConfig{}
	if err := config.LoadConfig(r.name, cfg, loadOpts...); err != nil {
		return err
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = logger.LevelFromVerbosity(defaultVerbosity)
	}
	if r.verbose > 0 {
		cfg.Logging.Level = logger.LevelFromVerbosity(defaultVerbosity - r.verbose)
	}
	cfg.Logging.Writer = cmd.ErrOrStderr()
	if cfg.UserAgent == "" {
		cfg.UserAgent = version.UserAgent(r.name)
	}
	if r.timeout > 0 {
		cfg.Timeout = r.timeout
	}
	if r.insecure {
		if cfg.TLS == nil {
			cfg.TLS = &security.TLSConfig{}
		}
		cfg.TLS.SkipVerify = true
	}
	if endpoint := util.Coalesce(r.telemetryEndpoint, os.Getenv(envOTLPEndpoint)); endpoint != "" {
		cfg.Telemetry.Enabled = true
		cfg.Telemetry.Endpoint, cfg.Telemetry.Insecure = otlpHostPort(endpoint, cfg.Telemetry.Insecure)
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = r.name
	}
	cfg.ApplyDefaults()
	if err := cfg.Logging.Validate(); err != nil {
		return errors.InvalidConfig(err.Error())
	}

	r.cfg = cfg
	r.log = logger.New(&cfg.Logging, r.name)
	logger.SetGlobalLogger(r.log)

	shutdown, err := observability.Setup(cmd.Context(), cfg.Telemetry, version.Get().Short())
	if err != nil {
		return err
	}
	r.shutdown = shutdown
	return nil
}

func (r *runtime) close() {
	if r.shutdown == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.shutdown(ctx); err != nil {
		r.log.Warn("telemetry shutdown failed", logger.Fields(logger.FieldError, err.Error()))
	}
	r.shutdown = nil
}

// otlpHostPort strips a URL scheme from endpoint. An http:// endpoint
// implies an insecure exporter.
func otlpHostPort(endpoint string, insecure bool) (string, bool) {
	switch {
	case strings.HasPrefix(endpoint, "http://"):
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "http://"), "/"), true
	case strings.HasPrefix(endpoint, "https://"):
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "https://"), "/"), insecure
	default:
		return endpoint, insecure
	}
}

// client builds a registry client for a host argument.
func (r *runtime) client(hostArg string) (*discovery.Client, error) {
	var aliasOpts []config.AliasOption
	if r.aliasFile != "" {
		aliasOpts = append(aliasOpts, config.WithAliasFile(r.aliasFile))
	}
	hosts, err := config.ResolveHosts(hostArg, aliasOpts...)
	if err != nil {
		return nil, err
	}

	cfg := *r.cfg
	cfg.Endpoints = hosts

	opts := []discovery.Option{discovery.WithLogger(r.log)}
	if metrics, err := observability.NewRegistryMetrics(observability.Meter()); err != nil {
		r.log.Warn("metrics disabled", logger.Fields(logger.FieldError, err.Error()))
	} else {
		opts = append(opts, discovery.WithMetrics(metrics))
	}
	return discovery.New(&cfg, opts...)
}

func (r *runtime) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// version needs no configuration
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", r.name, version.Get())
			return err
		},
	}
}

// printError writes err for a human. Exhausted failovers list every attempt.
func printError(w io.Writer, name string, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		fmt.Fprintf(w, "%s: %v\n", name, err)
		return
	}
	fmt.Fprintf(w, "%s: %s\n", name, appErr.Message)
	for _, a := range failover.AttemptsOf(err) {
		fmt.Fprintf(w, "   %s\n", a)
	}
}
