// Package cli implements crisisctl, a command-line client that loads the
// dataset CSVs and prints filtered views or integrity reports.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/crisis-data-service/internal/adapter/csvsource"
	"github.com/couchcryptid/crisis-data-service/internal/domain"
	"github.com/couchcryptid/crisis-data-service/internal/observability"
	"github.com/couchcryptid/crisis-data-service/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "crisisctl v0.1.0"

// Flag defaults match the service's SOCIAL_CSV, SENSOR_CSV and FACILITY_CSV.
const (
	defaultSocialCSV   = "social_media_with_temporal_score.csv"
	defaultSensorCSV   = "sensor_readings.csv"
	defaultFacilityCSV = "final_df.csv"
)

// options is the state shared by every subcommand of one root command.
type options struct {
	v       *viper.Viper
	cfgFile string
	verbose bool
	metrics *observability.Metrics
}

// Execute runs crisisctl with os.Args.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// NewRootCmd builds the crisisctl command tree. Each call has its own viper
// instance, so commands built in tests do not share configuration.
func NewRootCmd() *cobra.Command {
	opts := &options{
		v:       viper.New(),
		metrics: observability.NewUnregisteredMetrics(),
	}

	root := &cobra.Command{
		Use:   "crisisctl",
		Short: "Query the crisis datasets from the command line",
		Long: `crisisctl loads the social, sensor and facility CSV exports, normalizes
them and prints filtered views or integrity reports.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (CRISIS_*)
3. Config file (~/.crisisctl/config.yaml)
4. Defaults`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return opts.initConfig()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.cfgFile, "config", "", "config file (default: $HOME/.crisisctl/config.yaml)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log load progress to stderr")
	pf.String("social-csv", defaultSocialCSV, "social media CSV export")
	pf.String("sensor-csv", defaultSensorCSV, "sensor readings CSV export")
	pf.String("facility-csv", defaultFacilityCSV, "facility CSV export")
	for _, name := range []string{"social-csv", "sensor-csv", "facility-csv"} {
		_ = opts.v.BindPFlag(name, pf.Lookup(name))
	}

	root.AddCommand(newVersionCmd(), newViewCmd(opts), newValidateCmd(opts))
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

// initConfig reads the config file and CRISIS_* environment variables.
// A missing default config file is not an error; a missing --config file is.
func (o *options) initConfig() error {
	o.v.SetEnvPrefix("CRISIS")
	o.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	o.v.AutomaticEnv()

	if o.cfgFile != "" {
		o.v.SetConfigFile(o.cfgFile)
		if err := o.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", o.cfgFile, err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	o.v.AddConfigPath(filepath.Join(home, ".crisisctl"))
	o.v.SetConfigName("config")
	o.v.SetConfigType("yaml")
	if err := o.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func (o *options) paths() csvsource.Paths {
	return csvsource.Paths{
		Social:   o.v.GetString("social-csv"),
		Sensor:   o.v.GetString("sensor-csv"),
		Facility: o.v.GetString("facility-csv"),
	}
}

func (o *options) logger(w io.Writer) *slog.Logger {
	return observability.NewCLILogger(w, o.verbose)
}

// loadStore runs the load pipeline once without exporting.
func (o *options) loadStore(ctx context.Context, logger *slog.Logger) (*domain.Store, error) {
	p := pipeline.New(csvsource.New(o.paths(), logger), nil, logger, o.metrics, 0)
	store, err := p.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("load datasets: %w", err)
	}
	return store, nil
}
