// Package models defines the client-side data model of the mood journal:
// catalog moods, mood entries and the derived day groups.
package models

import (
	"encoding/json"
	"fmt"
)

// Category is one of four fixed energy/valence combinations.
type Category string

const (
	HighEnergyPleasant   Category = "high_energy_pleasant"
	HighEnergyUnpleasant Category = "high_energy_unpleasant"
	LowEnergyPleasant    Category = "low_energy_pleasant"
	LowEnergyUnpleasant  Category = "low_energy_unpleasant"
)

// Categories lists every category in display order.
var Categories = []Category{HighEnergyPleasant, HighEnergyUnpleasant, LowEnergyPleasant, LowEnergyUnpleasant}

// Energy is the arousal half of a Category.
type Energy string

const (
	EnergyHigh Energy = "high"
	EnergyLow  Energy = "low"
)

func (c Category) Valid() bool {
	switch c {
	case HighEnergyPleasant, HighEnergyUnpleasant, LowEnergyPleasant, LowEnergyUnpleasant:
		return true
	}
	return false
}

func (c Category) Energy() Energy {
	if c == HighEnergyPleasant || c == HighEnergyUnpleasant {
		return EnergyHigh
	}
	return EnergyLow
}

func (c Category) Pleasant() bool {
	return c == HighEnergyPleasant || c == LowEnergyPleasant
}

// Label is the human readable form, e.g. "High energy, pleasant".
func (c Category) Label() string {
	if !c.Valid() {
		return string(c)
	}
	energy := "Low energy"
	if c.Energy() == EnergyHigh {
		energy = "High energy"
	}
	valence := "unpleasant"
	if c.Pleasant() {
		valence = "pleasant"
	}
	return energy + ", " + valence
}

func (c *Category) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if !Category(s).Valid() {
		return fmt.Errorf("unknown mood category %q", s)
	}
	*c = Category(s)
	return nil
}

// Mood is a catalog entry. Name is unique within a catalog and doubles as
// the identifier stored on entries.
type Mood struct {
	Name           string   `json:"name"`
	Category       Category `json:"category"`
	HappinessIndex float64  `json:"happiness_index"`
	IntensityLevel int      `json:"intensity_level"`
	Emoji          string   `json:"emoji"`
	Description    string   `json:"description"`
}
