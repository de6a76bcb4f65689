package framework

import (
	"sort"

	"gonum.org/v1/gonum/interp"
)

// Keyframe is one sample of a Curve.
type Keyframe struct {
	Time  float64 `json:"time" yaml:"time"`
	Value float64 `json:"value" yaml:"value"`
}

// Curve is a keyed scalar function evaluated with linear interpolation and
// clamped outside its key range.
type Curve struct {
	keys []Keyframe
	fit  *interp.PiecewiseLinear
}

// NewCurve sorts keys by time. When several keys share a time the last one
// wins.
func NewCurve(keys ...Keyframe) *Curve {
	sorted := make([]Keyframe, len(keys))
	copy(sorted, keys)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	unique := sorted[:0]
	for _, k := range sorted {
		if n := len(unique); n > 0 && unique[n-1].Time == k.Time {
			unique[n-1] = k
			continue
		}
		unique = append(unique, k)
	}

	c := &Curve{keys: unique}
	if len(unique) >= 2 {
		xs := make([]float64, len(unique))
		ys := make([]float64, len(unique))
		for i, k := range unique {
			xs[i], ys[i] = k.Time, k.Value
		}
		var pl interp.PiecewiseLinear
		if err := pl.Fit(xs, ys); err == nil {
			c.fit = &pl
		}
	}
	return c
}

// Keys returns the normalized keyframes.
func (c *Curve) Keys() []Keyframe {
	if c == nil {
		return nil
	}
	return c.keys
}

// Evaluate samples the curve at t. An empty curve evaluates to 0 and a single
// key is constant.
func (c *Curve) Evaluate(t float64) float64 {
	if c == nil || len(c.keys) == 0 {
		return 0
	}
	first, last := c.keys[0], c.keys[len(c.keys)-1]
	switch {
	case t <= first.Time:
		return first.Value
	case t >= last.Time:
		return last.Value
	case c.fit == nil:
		return first.Value
	}
	return c.fit.Predict(t)
}

// Max returns the largest key value. Linear segments never exceed their
// endpoints, so this is the curve's maximum.
func (c *Curve) Max() float64 {
	if c == nil || len(c.keys) == 0 {
		return 0
	}
	peak := c.keys[0].Value
	for _, k := range c.keys[1:] {
		if k.Value > peak {
			peak = k.Value
		}
	}
	return peak
}
