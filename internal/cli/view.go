package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/crisis-data-service/internal/domain"
	"github.com/couchcryptid/crisis-data-service/internal/view"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type viewFlags struct {
	dataset  string
	category string
	zone     string
	start    string
	end      string
	output   string
}

func newViewCmd(opts *options) *cobra.Command {
	var f viewFlags
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Print a filtered view of one dataset",
		Long: `View loads all three datasets, applies the category, zone and date filters
to the selected one and prints its records, map markers and summary.

Omitted dates default to the earliest and latest dates across all datasets.`,
		Example: `  crisisctl view --dataset sensor --category Flood --zone "Zone C"
  crisisctl view --dataset social --start 2024-04-26 --end 2024-04-27 -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd, opts, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.dataset, "dataset", "", "dataset to query: social, sensor or facility")
	flags.StringVar(&f.category, "category", domain.All, "label, disaster or facility to keep")
	flags.StringVar(&f.zone, "zone", domain.All, `zone to keep, e.g. "Zone A" or Unknown`)
	flags.StringVar(&f.start, "start", "", "first day to include (YYYY-MM-DD)")
	flags.StringVar(&f.end, "end", "", "last day to include (YYYY-MM-DD)")
	flags.StringVarP(&f.output, "output", "o", "json", "output format: json or yaml")
	_ = cmd.MarkFlagRequired("dataset")
	return cmd
}

func runView(cmd *cobra.Command, opts *options, f viewFlags) error {
	kind, err := domain.ParseKind(f.dataset)
	if err != nil {
		return err
	}
	if err := checkFormat(f.output); err != nil {
		return err
	}
	filters := domain.Filters{Category: f.category, Zone: f.zone}
	if filters.DateStart, err = parseDateFlag("start", f.start); err != nil {
		return err
	}
	if filters.DateEnd, err = parseDateFlag("end", f.end); err != nil {
		return err
	}

	logger := opts.logger(cmd.ErrOrStderr())
	store, err := opts.loadStore(cmd.Context(), logger)
	if err != nil {
		return err
	}

	bundle, err := view.NewAssembler(store, logger, opts.metrics).BuildView(kind, filters)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), f.output, bundle)
}

func parseDateFlag(name, v string) (domain.Date, error) {
	if v == "" {
		return domain.Date{}, nil
	}
	d, err := domain.ParseDate(v)
	if err != nil {
		return domain.Date{}, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}

func checkFormat(format string) error {
	switch strings.ToLower(format) {
	case "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want json or yaml)", format)
	}
}

func writeOutput(w io.Writer, format string, v any) error {
	if strings.EqualFold(format, "yaml") {
		return writeYAML(w, v)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML goes through JSON first so YAML keys match the json tags of the
// API types.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("convert to yaml: %w", err)
	}
	blockStyle(&doc)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// blockStyle clears the flow style JSON input leaves on mappings and
// sequences. Scalars keep their quoting.
func blockStyle(n *yaml.Node) {
	if n.Kind != yaml.ScalarNode {
		n.Style = 0
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}
