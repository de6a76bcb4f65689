package framework

import (
	"github.com/go-gl/mathgl/mgl32"
)

// MemberAccessor discovers the bones merged under an owner node. Hosts keep
// merge membership in their own storage; the accessor is the only way the
// estimator reaches it.
type MemberAccessor interface {
	Members(owner *Node) []*DynamicBone
}

// MemberAccessorFunc adapts a function to MemberAccessor.
type MemberAccessorFunc func(owner *Node) []*DynamicBone

// Members calls f.
func (f MemberAccessorFunc) Members(owner *Node) []*DynamicBone {
	return f(owner)
}

// StaticMembers returns an accessor that always yields bones.
func StaticMembers(bones ...*DynamicBone) MemberAccessor {
	return MemberAccessorFunc(func(*Node) []*DynamicBone { return bones })
}

// MergedChain presents several bones as one chain. Colliders and ignore
// lists are unions; every scalar property comes from the first member.
type MergedChain struct {
	name    string
	owner   *Node
	members []*SingleChain
}

var _ BoneChain = (*MergedChain)(nil)

// NewMergedChain resolves the members of owner once. Nil members are dropped;
// a nil accessor or an empty member list yields an empty chain.
func NewMergedChain(name string, owner *Node, accessor MemberAccessor) *MergedChain {
	m := &MergedChain{name: name, owner: owner}
	if accessor == nil {
		return m
	}
	for _, bone := range accessor.Members(owner) {
		if bone == nil {
			continue
		}
		m.members = append(m.members, NewSingleChain(bone))
	}
	return m
}

// Members returns the resolved member chains in discovery order.
func (m *MergedChain) Members() []*SingleChain {
	return m.members
}

func (m *MergedChain) first() *SingleChain {
	if len(m.members) == 0 {
		return nil
	}
	return m.members[0]
}

func (m *MergedChain) Name() string {
	if m.name != "" {
		return m.name
	}
	if m.owner != nil {
		return m.owner.Name
	}
	return ""
}

func (m *MergedChain) Owner() *Node {
	return m.owner
}

// RootTransform returns the first member's root, or the owner when there are
// no members.
func (m *MergedChain) RootTransform() *Node {
	if first := m.first(); first != nil {
		return first.RootTransform()
	}
	return m.owner
}

func (m *MergedChain) IgnoreTransforms() []*Node {
	var ignores []*Node
	for _, member := range m.members {
		ignores = appendDistinct(ignores, member.IgnoreTransforms()...)
	}
	return ignores
}

func (m *MergedChain) EndpointPosition() mgl32.Vec3 {
	if first := m.first(); first != nil {
		return first.EndpointPosition()
	}
	return mgl32.Vec3{}
}

func (m *MergedChain) MultiChildType() MultiChildType {
	if first := m.first(); first != nil {
		return first.MultiChildType()
	}
	return MultiChildIgnore
}

func (m *MergedChain) Colliders() []*Collider {
	var colliders []*Collider
	for _, member := range m.members {
		colliders = appendDistinct(colliders, member.Colliders()...)
	}
	return colliders
}

func (m *MergedChain) Radius() float32 {
	if first := m.first(); first != nil {
		return first.Radius()
	}
	return 0
}

func (m *MergedChain) RadiusCurve() *Curve {
	if first := m.first(); first != nil {
		return first.RadiusCurve()
	}
	return nil
}

// ClearColliderAt is a no-op: the union has no single collection to edit.
func (m *MergedChain) ClearColliderAt(int) {}

func (m *MergedChain) Empty() bool {
	return len(m.members) == 0
}
