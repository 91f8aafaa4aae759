package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDataset is returned when a dataset selector is outside the closed
// set of kinds. It signals a caller bug, never a data problem.
var ErrUnknownDataset = errors.New("unknown dataset")

// Kind selects one of the three datasets.
type Kind string

const (
	KindSocial   Kind = "social"
	KindSensor   Kind = "sensor"
	KindFacility Kind = "facility"
)

// Kinds lists every dataset in display order.
var Kinds = []Kind{KindSensor, KindFacility, KindSocial}

// ParseKind resolves a dataset selector. Matching ignores case and
// surrounding whitespace.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDataset, s)
	}
	return k, nil
}

// Valid reports whether k is one of the known datasets.
func (k Kind) Valid() bool {
	switch k {
	case KindSocial, KindSensor, KindFacility:
		return true
	default:
		return false
	}
}

func (k Kind) String() string { return string(k) }
