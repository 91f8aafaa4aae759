package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/crisis-data-service/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spf13/cobra"
)

var errValidationFailed = errors.New("validation failed")

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the loaded datasets for integrity problems",
		Long: `Validate loads the three datasets and checks that:
- every zone belongs to the zone vocabulary
- record IDs are well formed
- summary and cross-tab totals equal the record counts
- normalizing a table's raw form reproduces the table

It exits non-zero when any check fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := opts.loadStore(cmd.Context(), opts.logger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			phases := validateStore(store)
			if !report(cmd.OutOrStdout(), store, phases) {
				return errValidationFailed
			}
			return nil
		},
	}
}

func validateStore(s *domain.Store) []*phase {
	tables := make([]domain.Table, 0, len(domain.Kinds))
	for _, k := range domain.Kinds {
		t, err := s.Table(k)
		if err != nil {
			continue
		}
		tables = append(tables, t)
	}
	return []*phase{
		checkZones(tables),
		checkIDs(tables),
		checkTotals(tables),
		checkFixedPoint(tables),
	}
}

func report(w io.Writer, s *domain.Store, phases []*phase) bool {
	fmt.Fprintln(w, "=== Crisis Data Integrity Validation ===")
	fmt.Fprintln(w)

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-36s %s\n", p.name, status)
	}

	counts := s.Counts()
	first, last := s.DateRange()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records: %d sensor, %d facility, %d social (%s to %s)\n",
		counts[domain.KindSensor], counts[domain.KindFacility], counts[domain.KindSocial], first, last)

	for _, p := range phases {
		for _, n := range p.notes {
			fmt.Fprintf(w, "  Note: %s\n", n)
		}
	}
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
	} else {
		fmt.Fprintln(w, "\nValidation FAILED.")
	}
	return allPassed
}

// ── Phase 1: Zone vocabulary ──

func checkZones(tables []domain.Table) *phase {
	p := &phase{name: "Phase 1: Zone vocabulary"}
	for _, t := range tables {
		unknown := 0
		for i := range t.Len() {
			r := t.Record(i)
			switch {
			case r.Zone == domain.ZoneUnknown:
				unknown++
			case !r.Zone.Known():
				p.errorf("%s record %s: zone %q outside vocabulary", t.Kind(), r.ID, r.Zone)
			}
		}
		if unknown > 0 {
			p.notef("%s: %d of %d records have no resolvable zone", t.Kind(), unknown, t.Len())
		}
	}
	return p
}

// ── Phase 2: Record IDs ──
// Identical rows share an ID; those are reported as notes, not failures.

func checkIDs(tables []domain.Table) *phase {
	p := &phase{name: "Phase 2: Record IDs"}
	for _, t := range tables {
		prefix := t.Kind().String() + "-"
		seen := make(map[string]bool, t.Len())
		dupes := 0
		for i := range t.Len() {
			r := t.Record(i)
			if !strings.HasPrefix(r.ID, prefix) {
				p.errorf("%s record %d: id %q lacks prefix %q", t.Kind(), i, r.ID, prefix)
			}
			if seen[r.ID] {
				dupes++
			}
			seen[r.ID] = true
		}
		if dupes > 0 {
			p.notef("%s: %d duplicate record(s)", t.Kind(), dupes)
		}
	}
	return p
}

// ── Phase 3: Summary totals ──

func checkTotals(tables []domain.Table) *phase {
	p := &phase{name: "Phase 3: Summary totals"}
	for _, t := range tables {
		b := domain.Summarize(t)
		if b.Summary.Total != t.Len() {
			p.errorf("%s: summary total %d, table has %d records", t.Kind(), b.Summary.Total, t.Len())
		}
		sum := 0
		for _, c := range b.Summary.Counts {
			sum += c.Count
		}
		if sum != b.Summary.Total {
			p.errorf("%s: counts by %s sum to %d, want %d", t.Kind(), b.Summary.CountsBy, sum, b.Summary.Total)
		}
		if b.CrossTab != nil && b.CrossTab.Total() != b.Summary.Total {
			p.errorf("%s: %s x %s cross-tab sums to %d, want %d",
				t.Kind(), b.CrossTab.RowKey, b.CrossTab.ColumnKey, b.CrossTab.Total(), b.Summary.Total)
		}
	}
	return p
}

// ── Phase 4: Normalization fixed point ──

func checkFixedPoint(tables []domain.Table) *phase {
	p := &phase{name: "Phase 4: Normalization fixed point"}
	for _, t := range tables {
		again := domain.Normalize(t.Raw(), t.Kind())
		if again.Dropped() != 0 {
			p.errorf("%s: re-normalizing dropped %d rows", t.Kind(), again.Dropped())
		}
		if diff := cmp.Diff(t.Records(), again.Records(), cmpopts.EquateEmpty()); diff != "" {
			p.errorf("%s: re-normalized records differ (-loaded +renormalized):\n%s", t.Kind(), diff)
		}
	}
	return p
}
