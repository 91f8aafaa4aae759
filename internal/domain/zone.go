package domain

import (
	"regexp"
	"strings"
)

// Zone is a coarse geographic partition label shared by all datasets.
type Zone string

const (
	ZoneA       Zone = "Zone A"
	ZoneB       Zone = "Zone B"
	ZoneC       Zone = "Zone C"
	ZoneD       Zone = "Zone D"
	ZoneUnknown Zone = "Unknown"
)

// Zones is the fixed zone vocabulary, excluding the Unknown fallback.
var Zones = []Zone{ZoneA, ZoneB, ZoneC, ZoneD}

var (
	// zoneMentionRe finds a zone mentioned inside free text, e.g.
	// "Flooding near Zone B" -> "B". Matching is case-sensitive so ordinary
	// words like "ozone" are never read as zones.
	zoneMentionRe = regexp.MustCompile(`Zone\s+([A-Z])`)

	// zoneValueRe matches a whole cell holding a zone label, tolerating case
	// and spacing differences between exports: "zone  c" -> "c".
	zoneValueRe = regexp.MustCompile(`(?i)^zone\s+([a-z])$`)
)

// ParseZone canonicalizes a zone cell value. It reports false for blank
// values, for "Unknown" and for letters outside the vocabulary.
func ParseZone(s string) (Zone, bool) {
	matches := zoneValueRe.FindStringSubmatch(strings.TrimSpace(s))
	if len(matches) != 2 {
		return "", false
	}
	return zoneFromLetter(matches[1])
}

// ExtractZone returns the first in-vocabulary zone mentioned in text.
// Mentions of letters outside the vocabulary (e.g. "Zone Q") are skipped.
func ExtractZone(text string) (Zone, bool) {
	for _, m := range zoneMentionRe.FindAllStringSubmatch(text, -1) {
		if z, ok := zoneFromLetter(m[1]); ok {
			return z, true
		}
	}
	return "", false
}

// Known reports whether z is part of the vocabulary.
func (z Zone) Known() bool {
	for _, known := range Zones {
		if z == known {
			return true
		}
	}
	return false
}

func zoneFromLetter(letter string) (Zone, bool) {
	z := Zone("Zone " + strings.ToUpper(letter))
	if !z.Known() {
		return "", false
	}
	return z, true
}
