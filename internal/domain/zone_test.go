package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseZone(t *testing.T) {
	tests := []struct {
		input  string
		want   Zone
		wantOK bool
	}{
		{"Zone A", ZoneA, true},
		{"zone b", ZoneB, true},
		{"  ZONE   C ", ZoneC, true},
		{"Zone D", ZoneD, true},
		{"Zone E", "", false},
		{"Unknown", "", false},
		{"", "", false},
		{"North", "", false},
		{"near Zone A", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseZone(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractZone(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   Zone
		wantOK bool
	}{
		{"mention in sentence", "Flooding near Zone B", ZoneB, true},
		{"extra spacing", "Fire spreading to Zone  D now", ZoneD, true},
		{"first mention wins", "Zone A evacuating into Zone C", ZoneA, true},
		{"letter outside vocabulary", "Zone Q blackout", "", false},
		{"skips mention outside vocabulary", "Zone Q then Zone B", ZoneB, true},
		{"lower-case is not a mention", "zone b flooding", "", false},
		{"no mention", "power outage downtown", "", false},
		{"ozone is not a zone", "ozone levels high", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractZone(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestZoneKnown(t *testing.T) {
	for _, z := range Zones {
		assert.True(t, z.Known())
	}
	assert.False(t, ZoneUnknown.Known())
}
