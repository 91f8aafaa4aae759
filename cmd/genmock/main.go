// Command genmock writes synthetic social, sensor and facility CSV exports for
// local runs and load tests. Output is reproducible for a given seed. After
// writing, it loads the files through the real normalizer and prints the
// counts test assertions depend on.
//
// Usage:
//
//	go run ./cmd/genmock -out-dir data/mock -rows 500 -seed 42
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/couchcryptid/crisis-data-service/internal/adapter/csvsource"
	"github.com/couchcryptid/crisis-data-service/internal/domain"
)

var baseTime = time.Date(2024, time.April, 26, 0, 0, 0, 0, time.UTC)

// Coordinates are scattered around this point.
const (
	centerLat = 12.97
	centerLon = 77.59
)

var fileNames = map[domain.Kind]string{
	domain.KindSocial:   "social_media_with_temporal_score.csv",
	domain.KindSensor:   "sensor_readings.csv",
	domain.KindFacility: "final_df.csv",
}

type genOptions struct {
	rows    int
	days    int
	badRate float64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "", "directory to write the three CSV files to")
	rows := flag.Int("rows", 200, "rows per dataset")
	days := flag.Int("days", 3, "number of days the timestamps span")
	seed := flag.Uint64("seed", 1, "random seed")
	badRate := flag.Float64("bad-rate", 0.02, "fraction of rows written with an unparseable timestamp")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out-dir")
	}
	if *rows < 0 || *days < 1 {
		return fmt.Errorf("-rows must be >= 0 and -days >= 1")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	opts := genOptions{rows: *rows, days: *days, badRate: *badRate}
	rng := rand.New(rand.NewPCG(*seed, *seed))

	tables := make([]domain.Table, 0, len(domain.Kinds))
	for _, kind := range domain.Kinds {
		path := filepath.Join(*outDir, fileNames[kind])
		if err := writeFile(path, kind, opts, rng); err != nil {
			return fmt.Errorf("writing %s: %w", kind, err)
		}
		table, err := loadFile(path, kind)
		if err != nil {
			return fmt.Errorf("reloading %s: %w", kind, err)
		}
		log.Printf("%s: wrote %s (%d rows, %d unparseable)", kind, path, table.Len()+table.Dropped(), table.Dropped())
		tables = append(tables, table)
	}

	printStats(tables)
	return nil
}

func writeFile(path string, kind domain.Kind, opts genOptions, rng *rand.Rand) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := generate(f, kind, opts, rng); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func loadFile(path string, kind domain.Kind) (domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Table{}, err
	}
	defer f.Close()

	raw, err := csvsource.ReadTable(f)
	if err != nil {
		return domain.Table{}, err
	}
	return domain.Normalize(raw, kind), nil
}

// generate writes one dataset's CSV, header included.
func generate(w io.Writer, kind domain.Kind, opts genOptions, rng *rand.Rand) error {
	g := generator{rng: rng, opts: opts}
	var header []string
	var row func(i int) []string
	switch kind {
	case domain.KindSocial:
		header = []string{domain.ColTimestamp, domain.ColZone, domain.ColLatitude, domain.ColLongitude, domain.ColText, domain.ColTemporalScore}
		row = g.socialRow
	case domain.KindSensor:
		header = []string{domain.ColTimestamp, domain.ColZone, domain.ColLatitude, domain.ColLongitude, domain.ColDisaster, domain.ColSeverity}
		row = g.sensorRow
	case domain.KindFacility:
		header = []string{domain.ColTimestamp, domain.ColZone, domain.ColInfraLatitude, domain.ColInfraLongitude, domain.ColInfrastructureType, domain.ColName, domain.ColPredictedImpact}
		row = g.facilityRow
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownDataset, kind)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := range opts.rows {
		if err := cw.Write(row(i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type generator struct {
	rng  *rand.Rand
	opts genOptions
}

var (
	zoneLetters = []string{"A", "B", "C", "D"}
	disasters   = []string{"Flood", "Fire", "Earthquake", "Hurricane"}
	levels      = []string{"Low", "Medium", "High"}
	infraCodes  = []string{"hospital", "shelter", "fire_station", "clinic"}
	zonePosts   = []string{
		"Flooding reported near Zone %s",
		"Need drinking water at the Zone %s shelter",
		"Building collapsed in Zone %s, people trapped",
	}
	plainPosts = []string{
		"Power lines down on the main road",
		"Roads blocked, send help",
	}
)

func (g generator) pick(values []string) string {
	return values[g.rng.IntN(len(values))]
}

func (g generator) timestamp() string {
	if g.rng.Float64() < g.opts.badRate {
		return "NaT"
	}
	offset := time.Duration(g.rng.IntN(g.opts.days*24*60)) * time.Minute
	return baseTime.Add(offset).Format("2006-01-02 15:04:05")
}

func (g generator) coord(center float64) string {
	return strconv.FormatFloat(center+(g.rng.Float64()-0.5)*0.2, 'f', 6, 64)
}

func (g generator) zone() string {
	return "Zone " + g.pick(zoneLetters)
}

// socialRow leaves the zone cell empty for about half the posts so the
// zone has to come from the text, when the text names one.
func (g generator) socialRow(_ int) []string {
	text := g.pick(plainPosts)
	if g.rng.IntN(3) > 0 {
		text = fmt.Sprintf(g.pick(zonePosts), g.pick(zoneLetters))
	}
	zone := ""
	if g.rng.IntN(2) == 0 {
		zone = g.zone()
	}
	score := "0"
	if g.rng.IntN(5) < 3 {
		score = "1"
	}
	return []string{g.timestamp(), zone, g.coord(centerLat), g.coord(centerLon), text, score}
}

func (g generator) sensorRow(_ int) []string {
	severity := g.pick(levels)
	if g.rng.IntN(20) == 0 {
		severity = ""
	}
	return []string{g.timestamp(), g.zone(), g.coord(centerLat), g.coord(centerLon), g.pick(disasters), severity}
}

func (g generator) facilityRow(i int) []string {
	code := g.pick(infraCodes)
	name := fmt.Sprintf("%s %d", code, i+1)
	return []string{g.timestamp(), g.zone(), g.coord(centerLat), g.coord(centerLon), code, name, g.pick(levels)}
}

// printStats reports the figures test assertions are usually written against.
func printStats(tables []domain.Table) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	for _, t := range tables {
		b := domain.Summarize(t)
		fmt.Printf("%s: %d records, %d dropped\n", t.Kind(), b.Summary.Total, t.Dropped())

		zones := map[domain.Zone]int{}
		for i := range t.Len() {
			zones[t.Record(i).Zone]++
		}
		fmt.Print("  by zone:")
		for _, z := range append(slices.Clone(domain.Zones), domain.ZoneUnknown) {
			fmt.Printf(" %s=%d", z, zones[z])
		}
		fmt.Println()

		fmt.Printf("  by %s:", b.Summary.CountsBy)
		for _, c := range b.Summary.Counts {
			fmt.Printf(" %s=%d", c.Label, c.Count)
		}
		fmt.Println()
	}
}
