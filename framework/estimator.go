package framework

import (
	"errors"
	"time"
)

// ErrNilRoot is returned when an estimation is requested without a root.
var ErrNilRoot = errors.New("estimation root is nil")

// SkipReason explains why a chain was left out of the counts.
type SkipReason string

const (
	SkipNone     SkipReason = ""
	SkipNil      SkipReason = "nil"
	SkipEmpty    SkipReason = "empty"
	SkipExcluded SkipReason = "excluded"
)

// PerformanceStats is the estimated runtime cost of a rig.
type PerformanceStats struct {
	ChainCount          int `json:"chain_count" yaml:"chain_count"`
	TransformCount      int `json:"transform_count" yaml:"transform_count"`
	ColliderCount       int `json:"collider_count" yaml:"collider_count"`
	CollisionCheckCount int `json:"collision_check_count" yaml:"collision_check_count"`
	ContactCount        int `json:"contact_count" yaml:"contact_count"`
}

// ChainReport is the per-chain breakdown of an estimation.
type ChainReport struct {
	Name string `json:"name"`
	Root string `json:"root,omitempty"`
	// InactiveRoot is set when the chain root is disabled in the host.
	InactiveRoot bool       `json:"inactive_root,omitempty"`
	Skipped      bool       `json:"skipped"`
	SkipReason   SkipReason `json:"skip_reason,omitempty"`
	Transforms   int        `json:"transforms"`
	// MultiChildRoots counts nodes with more than one simulated child.
	MultiChildRoots int `json:"multi_child_roots"`
	// Endpoints counts leaves that gain a virtual endpoint node.
	Endpoints int `json:"endpoints"`
	// CollisionTransforms is the node count each collider is checked
	// against, after multi-child and endpoint adjustments.
	CollisionTransforms int     `json:"collision_transforms"`
	Colliders           int     `json:"colliders"`
	CollisionChecks     int     `json:"collision_checks"`
	MaxRadius           float32 `json:"max_radius"`
}

// Estimation bundles the totals with the per-chain breakdown.
type Estimation struct {
	Stats  PerformanceStats `json:"stats"`
	Chains []ChainReport    `json:"chains"`
}

// EstimateRequest is one immutable snapshot to estimate.
type EstimateRequest struct {
	// Scene labels telemetry; it does not affect the counts.
	Scene     string
	Root      *Node
	Chains    []BoneChain
	Colliders []*Collider
	Contacts  []*Contact
}

// Estimator computes PerformanceStats. The zero value is ready to use.
type Estimator struct {
	Telemetry Telemetry
}

func (e *Estimator) emit(event Event) {
	if e == nil || e.Telemetry == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	e.Telemetry.Emit(event)
}

// Estimate counts the runtime cost of req. Nothing in req is modified.
func (e *Estimator) Estimate(req EstimateRequest) (*Estimation, error) {
	if req.Root == nil {
		return nil, ErrNilRoot
	}
	e.emit(Event{Type: EventEstimateStart, Scene: req.Scene, Metadata: map[string]interface{}{
		"chains":    len(req.Chains),
		"colliders": len(req.Colliders),
		"contacts":  len(req.Contacts),
	}})

	actualColliders := actualColliderSet(req)
	est := &Estimation{Chains: make([]ChainReport, 0, len(req.Chains))}
	referenced := make(map[*Collider]struct{})
	for _, chain := range req.Chains {
		report, ok := e.estimateChain(req, chain, actualColliders, referenced)
		est.Chains = append(est.Chains, report)
		if !ok {
			continue
		}
		est.Stats.ChainCount++
		est.Stats.TransformCount += report.Transforms
		est.Stats.CollisionCheckCount += report.CollisionChecks
	}
	est.Stats.ColliderCount = len(referenced)
	est.Stats.ContactCount = countContacts(req.Contacts)

	e.emit(Event{Type: EventEstimateFinish, Scene: req.Scene, Metadata: map[string]interface{}{
		"chain_count":           est.Stats.ChainCount,
		"transform_count":       est.Stats.TransformCount,
		"collider_count":        est.Stats.ColliderCount,
		"collision_check_count": est.Stats.CollisionCheckCount,
		"contact_count":         est.Stats.ContactCount,
	}})
	return est, nil
}

func (e *Estimator) estimateChain(req EstimateRequest, chain BoneChain, actualColliders, referenced map[*Collider]struct{}) (ChainReport, bool) {
	if chain == nil {
		report := ChainReport{Skipped: true, SkipReason: SkipNil}
		e.emit(Event{Type: EventChainSkipped, Scene: req.Scene, Message: "nil chain"})
		return report, false
	}
	report := ChainReport{Name: chain.Name()}
	root := chain.RootTransform()
	switch {
	case chain.Empty() || root == nil:
		report.Skipped, report.SkipReason = true, SkipEmpty
	case IsFinallyExcluded(req.Root, root):
		report.Skipped, report.SkipReason = true, SkipExcluded
	}
	if root != nil {
		report.Root = root.Name
		report.InactiveRoot = !root.Active
	}
	if report.Skipped {
		e.emit(Event{Type: EventChainSkipped, Scene: req.Scene, Chain: report.Name, Metadata: map[string]interface{}{
			"reason": string(report.SkipReason),
		}})
		return report, false
	}

	w := newChainWalk(root, chain.IgnoreTransforms())
	report.Transforms = w.transforms()
	report.MultiChildRoots, report.Endpoints = w.virtualNodes()

	total := report.Transforms - 1
	for _, n := range w.multiChildRoots {
		total -= len(n.Children())
	}
	if chain.MultiChildType() != MultiChildIgnore {
		total += report.MultiChildRoots
	}
	if chain.EndpointPosition().Len() != 0 {
		total += report.Endpoints
	} else {
		report.Endpoints = 0
	}
	if total < 0 {
		total = 0
	}
	report.CollisionTransforms = total

	for _, collider := range chain.Colliders() {
		if _, ok := actualColliders[collider]; !ok {
			continue
		}
		referenced[collider] = struct{}{}
		report.Colliders++
	}
	report.CollisionChecks = report.CollisionTransforms * report.Colliders

	radius := chain.Radius()
	if curve := chain.RadiusCurve(); curve != nil && len(curve.Keys()) > 0 {
		radius *= float32(curve.Max())
	}
	report.MaxRadius = radius

	e.emit(Event{Type: EventChainEstimated, Scene: req.Scene, Chain: report.Name, Metadata: map[string]interface{}{
		"transforms":       report.Transforms,
		"collision_checks": report.CollisionChecks,
	}})
	return report, true
}

// countContacts ignores node exclusion: a contact on a stripped node still
// counts unless it is local-only.
func countContacts(contacts []*Contact) int {
	count := 0
	for _, contact := range contacts {
		if contact == nil || contact.LocalOnly {
			continue
		}
		count++
	}
	return count
}

// actualColliderSet holds the listed colliders that survive the build.
func actualColliderSet(req EstimateRequest) map[*Collider]struct{} {
	actual := make(map[*Collider]struct{}, len(req.Colliders))
	for _, collider := range req.Colliders {
		if collider == nil || IsFinallyExcluded(req.Root, collider.Node) {
			continue
		}
		actual[collider] = struct{}{}
	}
	return actual
}

// chainWalk enumerates the nodes one chain simulates.
type chainWalk struct {
	root    *Node
	ignores map[*Node]struct{}

	nodes           []*Node
	multiChildRoots []*Node
}

func newChainWalk(root *Node, ignores []*Node) *chainWalk {
	w := &chainWalk{root: root, ignores: make(map[*Node]struct{}, len(ignores))}
	for _, n := range ignores {
		w.ignores[n] = struct{}{}
	}
	w.collect(root)
	return w
}

// ignored reports whether n is an ignore entry or lies below one.
func (w *chainWalk) ignored(n *Node) bool {
	if _, ok := w.ignores[n]; ok {
		return true
	}
	for ignore := range w.ignores {
		if n.IsDescendantOf(ignore) {
			return true
		}
	}
	return false
}

// collect gathers the root plus every descendant that is neither ignored nor
// tagged. Ancestors of a visited child already passed the tag check, so the
// child's own tag decides.
func (w *chainWalk) collect(n *Node) {
	w.nodes = append(w.nodes, n)
	for _, child := range n.Children() {
		if child.ExcludeTag || w.ignored(child) {
			continue
		}
		w.collect(child)
	}
}

func (w *chainWalk) transforms() int {
	return len(w.nodes)
}

// virtualNodes finds the multi-child roots and the leaves of the walk.
func (w *chainWalk) virtualNodes() (multiChild, leaves int) {
	w.multiChildRoots = w.multiChildRoots[:0]
	for _, n := range w.nodes {
		children := n.Children()
		if len(children) == 0 {
			leaves++
			continue
		}
		simulated := 0
		for _, child := range children {
			if !w.ignored(child) {
				simulated++
			}
		}
		if simulated > 1 {
			w.multiChildRoots = append(w.multiChildRoots, n)
		}
	}
	return len(w.multiChildRoots), leaves
}
