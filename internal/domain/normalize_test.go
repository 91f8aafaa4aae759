package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Social(t *testing.T) {
	table := Normalize(socialRaw(), KindSocial)

	require.Equal(t, 3, table.Len())
	assert.Equal(t, 1, table.Dropped())
	assert.Equal(t, KindSocial, table.Kind())

	t.Run("zone inferred from text", func(t *testing.T) {
		r := table.Record(0)
		assert.Equal(t, LabelLikelyReal, r.Label)
		assert.Equal(t, ZoneB, r.Zone)
		assert.Equal(t, "Flooding near Zone B", r.Text)
		assert.Equal(t, 12.97, r.Latitude)
		assert.Equal(t, 77.59, r.Longitude)
		assert.Equal(t, Date{2024, time.April, 26}, r.Date)
		assert.Equal(t, time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC), r.Timestamp)
	})

	t.Run("native zone wins", func(t *testing.T) {
		r := table.Record(1)
		assert.Equal(t, ZoneA, r.Zone)
		assert.Equal(t, LabelPossiblyFake, r.Label)
	})

	t.Run("unresolvable zone defaults to Unknown", func(t *testing.T) {
		r := table.Record(2)
		assert.Equal(t, ZoneUnknown, r.Zone)
		assert.Equal(t, LabelLikelyReal, r.Label, "1.0 counts as a score of 1")
	})
}

func TestNormalize_Sensor(t *testing.T) {
	table := Normalize(sensorRaw(), KindSensor)

	require.Equal(t, 4, table.Len())
	assert.Equal(t, 1, table.Dropped())

	r := table.Record(3)
	assert.Equal(t, "Earthquake", r.Disaster)
	assert.Equal(t, ZoneUnknown, r.Zone)
	assert.Equal(t, Unknown, r.Severity)
}

func TestNormalize_SensorWithoutZoneColumn(t *testing.T) {
	raw := RawTable{
		Columns: []string{ColTimestamp, ColLatitude, ColLongitude, ColDisaster, ColSeverity},
		Rows: []RawRow{
			{ColTimestamp: testTS1, ColDisaster: "Flood in Zone C", ColSeverity: "High"},
			{ColTimestamp: testTS1, ColDisaster: "Fire", ColSeverity: "Low"},
		},
	}

	table := Normalize(raw, KindSensor)

	require.Equal(t, 2, table.Len())
	assert.Equal(t, ZoneC, table.Record(0).Zone)
	assert.Equal(t, ZoneUnknown, table.Record(1).Zone)
}

func TestNormalize_Facility(t *testing.T) {
	table := Normalize(facilityRaw(), KindFacility)

	require.Equal(t, 4, table.Len())

	tests := []struct {
		name     string
		index    int
		facility string
		zone     Zone
		impact   string
	}{
		{"upper-case code", 0, FacilityHospital, ZoneA, "High"},
		{"lower-case code", 1, FacilityShelter, ZoneB, "Low"},
		{"unmapped code", 2, Unknown, ZoneUnknown, "High"},
		{"mixed-case code and blank impact", 3, FacilityFireStation, ZoneA, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := table.Record(tt.index)
			assert.Equal(t, tt.facility, r.Facility)
			assert.Equal(t, tt.zone, r.Zone)
			assert.Equal(t, tt.impact, r.PredictedImpact)
		})
	}

	t.Run("coordinates come from facility location", func(t *testing.T) {
		r := table.Record(0)
		assert.Equal(t, 12.91, r.Latitude)
		assert.Equal(t, 77.51, r.Longitude)
	})
}

func TestNormalize_ZoneAlwaysDefined(t *testing.T) {
	for _, tc := range []struct {
		kind Kind
		raw  RawTable
	}{
		{KindSocial, socialRaw()},
		{KindSensor, sensorRaw()},
		{KindFacility, facilityRaw()},
	} {
		t.Run(string(tc.kind), func(t *testing.T) {
			for _, r := range Normalize(tc.raw, tc.kind).Records() {
				assert.True(t, r.Zone.Known() || r.Zone == ZoneUnknown, "zone %q outside vocabulary", r.Zone)
			}
		})
	}
}

func TestNormalize_FixedPoint(t *testing.T) {
	for _, tc := range []struct {
		kind Kind
		raw  RawTable
	}{
		{KindSocial, socialRaw()},
		{KindSensor, sensorRaw()},
		{KindFacility, facilityRaw()},
	} {
		t.Run(string(tc.kind), func(t *testing.T) {
			once := Normalize(tc.raw, tc.kind)
			twice := Normalize(once.Raw(), tc.kind)

			assert.Zero(t, twice.Dropped())
			if diff := cmp.Diff(once.Records(), twice.Records()); diff != "" {
				t.Fatalf("renormalized table differs (-once +twice):\n%s", diff)
			}
		})
	}
}

func TestNormalize_DoesNotModifyInput(t *testing.T) {
	raw := facilityRaw()
	before := raw.Rows[0][ColInfrastructureType]

	_ = Normalize(raw, KindFacility)

	assert.Equal(t, before, raw.Rows[0][ColInfrastructureType])
	assert.Len(t, raw.Rows, 4)
}

func TestNormalize_InvalidKind(t *testing.T) {
	table := Normalize(sensorRaw(), Kind("weather"))
	assert.Zero(t, table.Len())
	assert.Equal(t, 5, table.Dropped())
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   time.Time
		wantOK bool
	}{
		{"naive datetime", "2024-04-26 15:10:00", time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC), true},
		{"RFC 3339 UTC", "2024-04-26T15:10:00Z", time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC), true},
		{"date only", "2024-04-26", time.Date(2024, 4, 26, 0, 0, 0, 0, time.UTC), true},
		{"surrounding whitespace", "  2024-04-26 15:10:00 ", time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"NaT", "NaT", time.Time{}, false},
		{"garbage", "yesterday-ish", time.Time{}, false},
		{"no year", "April 26", time.Time{}, false},
		{"bare year", "2024", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseTimestamp(tt.input)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			}
		})
	}
}

func TestDateOf_KeepsWallClockDate(t *testing.T) {
	ts, ok := parseTimestamp("2024-04-26T23:30:00-05:00")
	require.True(t, ok)
	assert.Equal(t, Date{2024, time.April, 26}, DateOf(ts))
}

func TestDeriveFacility(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"HOSPITAL", FacilityHospital},
		{"Hospital", FacilityHospital},
		{"shelter", FacilityShelter},
		{"fire_station", FacilityFireStation},
		{" FIRE_STATION ", FacilityFireStation},
		{"clinic", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveFacility(tt.code))
		})
	}
}

func TestDeriveLabel(t *testing.T) {
	assert.Equal(t, LabelLikelyReal, deriveLabel(1))
	assert.Equal(t, LabelPossiblyFake, deriveLabel(0))
	assert.Equal(t, LabelPossiblyFake, deriveLabel(0.5))
}

func TestGenerateID(t *testing.T) {
	table := Normalize(sensorRaw(), KindSensor)

	t.Run("includes dataset prefix", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(table.Record(0).ID, "sensor-"))
	})

	t.Run("deterministic", func(t *testing.T) {
		again := Normalize(sensorRaw(), KindSensor)
		assert.Equal(t, table.Record(0).ID, again.Record(0).ID)
	})

	t.Run("different rows produce different IDs", func(t *testing.T) {
		assert.NotEqual(t, table.Record(0).ID, table.Record(1).ID)
	})
}
