package model

import (
	"errors"
	"fmt"
	"strings"
)

// Category classifies an entity as an anatomical site or a clinical observation.
type Category string

const (
	CategoryAnatomy     Category = "Anatomy"
	CategoryObservation Category = "Observation"
)

// Certainty qualifies whether a finding is asserted present, absent or uncertain.
type Certainty string

const (
	CertaintyPresent   Certainty = "definitely present"
	CertaintyAbsent    Certainty = "definitely absent"
	CertaintyUncertain Certainty = "uncertain"
)

// TypeLabelSeparator separates category and certainty in a raw type label,
// e.g. "Observation::definitely absent".
const TypeLabelSeparator = "::"

// ErrUnknownTypeLabel is returned when a type label falls outside the fixed
// category/certainty enumerations.
var ErrUnknownTypeLabel = errors.New("unknown type label")

// shortLabels maps the compact labels used by RadGraph exports onto the
// long form. Anatomy spans are only ever annotated as definitely present.
var shortLabels = map[string]struct {
	Category  Category
	Certainty Certainty
}{
	"ANAT-DP": {CategoryAnatomy, CertaintyPresent},
	"OBS-DP":  {CategoryObservation, CertaintyPresent},
	"OBS-DA":  {CategoryObservation, CertaintyAbsent},
	"OBS-U":   {CategoryObservation, CertaintyUncertain},
}

// Entity is one annotated token span in a radiology report.
type Entity struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	StartIx   int       `json:"start_ix"`
	EndIx     int       `json:"end_ix"`
	Category  Category  `json:"category"`
	Certainty Certainty `json:"certainty"`
}

// IsObservation reports whether the entity is a clinical observation.
func (e *Entity) IsObservation() bool {
	return e.Category == CategoryObservation
}

// ParseTypeLabel splits a raw type label into its category and certainty.
// Both the long form ("Observation::uncertain") and the compact RadGraph
// form ("OBS-U") are accepted. A bare "Anatomy" label defaults to
// definitely present. Anything else fails with ErrUnknownTypeLabel.
func ParseTypeLabel(label string) (Category, Certainty, error) {
	if short, ok := shortLabels[label]; ok {
		return short.Category, short.Certainty, nil
	}

	category, certainty, found := strings.Cut(label, TypeLabelSeparator)
	if !found {
		if Category(label) == CategoryAnatomy {
			return CategoryAnatomy, CertaintyPresent, nil
		}
		return "", "", fmt.Errorf("%w: %q", ErrUnknownTypeLabel, label)
	}

	switch Category(category) {
	case CategoryAnatomy, CategoryObservation:
	default:
		return "", "", fmt.Errorf("%w: category %q", ErrUnknownTypeLabel, category)
	}

	switch Certainty(certainty) {
	case CertaintyPresent, CertaintyAbsent, CertaintyUncertain:
	default:
		return "", "", fmt.Errorf("%w: certainty %q", ErrUnknownTypeLabel, certainty)
	}

	return Category(category), Certainty(certainty), nil
}
