package framework

import (
	"fmt"
	"strings"
)

// Rating is a qualitative performance tier. Higher values are worse.
type Rating int

const (
	RatingExcellent Rating = iota
	RatingGood
	RatingMedium
	RatingPoor
	RatingVeryPoor
)

var ratingNames = [...]string{"Excellent", "Good", "Medium", "Poor", "VeryPoor"}

func (r Rating) String() string {
	if r < RatingExcellent || r > RatingVeryPoor {
		return fmt.Sprintf("Rating(%d)", int(r))
	}
	return ratingNames[r]
}

// MarshalText encodes the rating by name.
func (r Rating) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a rating name, ignoring case.
func (r *Rating) UnmarshalText(text []byte) error {
	name := strings.TrimSpace(string(text))
	for i, candidate := range ratingNames {
		if strings.EqualFold(candidate, name) {
			*r = Rating(i)
			return nil
		}
	}
	return fmt.Errorf("unknown rating %q", name)
}

// Tiers holds the inclusive ceilings of the first four ratings.
type Tiers struct {
	Excellent int `json:"excellent" yaml:"excellent" validate:"gte=0,ltefield=Good"`
	Good      int `json:"good" yaml:"good" validate:"gte=0,ltefield=Medium"`
	Medium    int `json:"medium" yaml:"medium" validate:"gte=0,ltefield=Poor"`
	Poor      int `json:"poor" yaml:"poor" validate:"gte=0"`
}

// Rate returns the best rating whose ceiling is at least value.
func Rate(value int, tiers Tiers) Rating {
	switch {
	case value <= tiers.Excellent:
		return RatingExcellent
	case value <= tiers.Good:
		return RatingGood
	case value <= tiers.Medium:
		return RatingMedium
	case value <= tiers.Poor:
		return RatingPoor
	}
	return RatingVeryPoor
}

// Metric names one PerformanceStats field.
type Metric string

const (
	MetricChains          Metric = "chains"
	MetricTransforms      Metric = "transforms"
	MetricColliders       Metric = "colliders"
	MetricCollisionChecks Metric = "collision_checks"
	MetricContacts        Metric = "contacts"
)

// Metrics lists every metric in report order.
var Metrics = []Metric{MetricChains, MetricTransforms, MetricColliders, MetricCollisionChecks, MetricContacts}

// Value returns the stats field for metric.
func (s PerformanceStats) Value(metric Metric) int {
	switch metric {
	case MetricChains:
		return s.ChainCount
	case MetricTransforms:
		return s.TransformCount
	case MetricColliders:
		return s.ColliderCount
	case MetricCollisionChecks:
		return s.CollisionCheckCount
	case MetricContacts:
		return s.ContactCount
	}
	return 0
}

// ThresholdTable holds one Tiers per metric for a target platform.
type ThresholdTable struct {
	Platform        string `json:"platform" yaml:"platform" validate:"required"`
	Chains          Tiers  `json:"chains" yaml:"chains"`
	Transforms      Tiers  `json:"transforms" yaml:"transforms"`
	Colliders       Tiers  `json:"colliders" yaml:"colliders"`
	CollisionChecks Tiers  `json:"collision_checks" yaml:"collision_checks"`
	Contacts        Tiers  `json:"contacts" yaml:"contacts"`
}

// Tiers returns the ceilings configured for metric.
func (t ThresholdTable) Tiers(metric Metric) Tiers {
	switch metric {
	case MetricChains:
		return t.Chains
	case MetricTransforms:
		return t.Transforms
	case MetricColliders:
		return t.Colliders
	case MetricCollisionChecks:
		return t.CollisionChecks
	case MetricContacts:
		return t.Contacts
	}
	return Tiers{}
}

// StatsRating holds one rating per metric.
type StatsRating struct {
	Chains          Rating `json:"chains"`
	Transforms      Rating `json:"transforms"`
	Colliders       Rating `json:"colliders"`
	CollisionChecks Rating `json:"collision_checks"`
	Contacts        Rating `json:"contacts"`
}

// Rate maps every field of stats through the table.
func (t ThresholdTable) Rate(stats PerformanceStats) StatsRating {
	return StatsRating{
		Chains:          Rate(stats.ChainCount, t.Chains),
		Transforms:      Rate(stats.TransformCount, t.Transforms),
		Colliders:       Rate(stats.ColliderCount, t.Colliders),
		CollisionChecks: Rate(stats.CollisionCheckCount, t.CollisionChecks),
		Contacts:        Rate(stats.ContactCount, t.Contacts),
	}
}

// Get returns the rating of metric.
func (s StatsRating) Get(metric Metric) Rating {
	switch metric {
	case MetricChains:
		return s.Chains
	case MetricTransforms:
		return s.Transforms
	case MetricColliders:
		return s.Colliders
	case MetricCollisionChecks:
		return s.CollisionChecks
	case MetricContacts:
		return s.Contacts
	}
	return RatingExcellent
}

// Overall is the worst of the five ratings.
func (s StatsRating) Overall() Rating {
	worst := RatingExcellent
	for _, metric := range Metrics {
		if r := s.Get(metric); r > worst {
			worst = r
		}
	}
	return worst
}
