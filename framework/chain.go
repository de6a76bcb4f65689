package framework

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// MultiChildType selects how a chain simulates a node with several children.
type MultiChildType int

const (
	// MultiChildIgnore simulates nothing for the branching node's children
	// as a group.
	MultiChildIgnore MultiChildType = iota
	// MultiChildFirst follows the first child with one virtual node.
	MultiChildFirst
	// MultiChildAverage follows the averaged children with one virtual node.
	MultiChildAverage
)

func (m MultiChildType) String() string {
	switch m {
	case MultiChildIgnore:
		return "ignore"
	case MultiChildFirst:
		return "first"
	case MultiChildAverage:
		return "average"
	default:
		return fmt.Sprintf("MultiChildType(%d)", int(m))
	}
}

// ParseMultiChildType converts a text form into a MultiChildType. Empty input
// means ignore.
func ParseMultiChildType(s string) (MultiChildType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ignore":
		return MultiChildIgnore, nil
	case "first":
		return MultiChildFirst, nil
	case "average":
		return MultiChildAverage, nil
	}
	return MultiChildIgnore, fmt.Errorf("unknown multi-child type %q", s)
}

// DynamicBone is the raw configuration of one simulated bone chain as the
// host stores it.
type DynamicBone struct {
	Name string
	// Node owns the chain component. It doubles as the chain root when Root
	// is unset.
	Node             *Node
	Root             *Node
	Ignores          []*Node
	EndpointPosition mgl32.Vec3
	MultiChildType   MultiChildType
	// Colliders may hold nil slots and duplicates.
	Colliders   []*Collider
	Radius      float32
	RadiusCurve *Curve
}

// BoneChain is a read-only view of one simulated bone chain's configuration.
type BoneChain interface {
	// Name labels the chain in reports.
	Name() string
	// Owner is the node carrying the chain component.
	Owner() *Node
	// RootTransform is the first simulated node. It is nil only for an empty
	// chain.
	RootTransform() *Node
	// IgnoreTransforms lists subtree roots excluded from simulation.
	IgnoreTransforms() []*Node
	EndpointPosition() mgl32.Vec3
	MultiChildType() MultiChildType
	// Colliders lists the referenced colliders without nils or duplicates.
	Colliders() []*Collider
	Radius() float32
	RadiusCurve() *Curve
	// ClearColliderAt drops the collider reference at index when the chain
	// has a single backing collection; otherwise it does nothing.
	ClearColliderAt(index int)
	// Empty reports a chain with no effect at all.
	Empty() bool
}

// SingleChain exposes one DynamicBone as a BoneChain.
type SingleChain struct {
	bone *DynamicBone
}

var _ BoneChain = (*SingleChain)(nil)

// NewSingleChain wraps bone. A nil bone yields an empty chain.
func NewSingleChain(bone *DynamicBone) *SingleChain {
	return &SingleChain{bone: bone}
}

// Name returns the bone name, falling back to the owner's name.
func (c *SingleChain) Name() string {
	if c.bone == nil {
		return ""
	}
	if c.bone.Name != "" {
		return c.bone.Name
	}
	if c.bone.Node != nil {
		return c.bone.Node.Name
	}
	return ""
}

func (c *SingleChain) Owner() *Node {
	if c.bone == nil {
		return nil
	}
	return c.bone.Node
}

// RootTransform returns the configured root or the owner node.
func (c *SingleChain) RootTransform() *Node {
	if c.bone == nil {
		return nil
	}
	if c.bone.Root != nil {
		return c.bone.Root
	}
	return c.bone.Node
}

func (c *SingleChain) IgnoreTransforms() []*Node {
	if c.bone == nil {
		return nil
	}
	return appendDistinct(nil, c.bone.Ignores...)
}

func (c *SingleChain) EndpointPosition() mgl32.Vec3 {
	if c.bone == nil {
		return mgl32.Vec3{}
	}
	return c.bone.EndpointPosition
}

func (c *SingleChain) MultiChildType() MultiChildType {
	if c.bone == nil {
		return MultiChildIgnore
	}
	return c.bone.MultiChildType
}

func (c *SingleChain) Colliders() []*Collider {
	if c.bone == nil {
		return nil
	}
	return appendDistinct(nil, c.bone.Colliders...)
}

func (c *SingleChain) Radius() float32 {
	if c.bone == nil {
		return 0
	}
	return c.bone.Radius
}

func (c *SingleChain) RadiusCurve() *Curve {
	if c.bone == nil {
		return nil
	}
	return c.bone.RadiusCurve
}

// ClearColliderAt sets the underlying collider slot to nil. Out of range
// indexes are ignored.
func (c *SingleChain) ClearColliderAt(index int) {
	if c.bone == nil || index < 0 || index >= len(c.bone.Colliders) {
		return
	}
	c.bone.Colliders[index] = nil
}

func (c *SingleChain) Empty() bool {
	return c.bone == nil || c.RootTransform() == nil
}

// appendDistinct appends the non-nil items of src to dst, skipping items dst
// already holds. Order of first occurrence is kept.
func appendDistinct[T any](dst []*T, src ...*T) []*T {
	seen := make(map[*T]struct{}, len(dst)+len(src))
	for _, item := range dst {
		seen[item] = struct{}{}
	}
	for _, item := range src {
		if item == nil {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		dst = append(dst, item)
	}
	return dst
}

// DetachColliders clears every collider reference of chain for which keep
// returns false and reports how many references were cleared. Chains without
// a single backing collection are left untouched.
func DetachColliders(chain BoneChain, keep func(*Collider) bool) int {
	single, ok := chain.(*SingleChain)
	if !ok || single.bone == nil {
		return 0
	}
	cleared := 0
	for i, collider := range single.bone.Colliders {
		if collider == nil || keep(collider) {
			continue
		}
		chain.ClearColliderAt(i)
		cleared++
	}
	return cleared
}

// PruneColliders detaches, from every chain of req, the collider references
// that are not listed in req.Colliders or are stripped from the build. It
// returns the number of references cleared. Counts are unaffected since
// Estimate already ignores those references.
func PruneColliders(req EstimateRequest) int {
	actual := actualColliderSet(req)
	keep := func(c *Collider) bool {
		_, ok := actual[c]
		return ok
	}
	cleared := 0
	for _, chain := range req.Chains {
		if chain == nil {
			continue
		}
		cleared += DetachColliders(chain, keep)
	}
	return cleared
}
