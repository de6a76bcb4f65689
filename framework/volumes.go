package framework

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ColliderShape enumerates the collision volume primitives.
type ColliderShape string

const (
	ColliderShapeSphere  ColliderShape = "sphere"
	ColliderShapeCapsule ColliderShape = "capsule"
	ColliderShapePlane   ColliderShape = "plane"
)

// ParseColliderShape converts a text form into a ColliderShape. Empty input
// means sphere.
func ParseColliderShape(s string) (ColliderShape, error) {
	switch ColliderShape(strings.ToLower(strings.TrimSpace(s))) {
	case "", ColliderShapeSphere:
		return ColliderShapeSphere, nil
	case ColliderShapeCapsule:
		return ColliderShapeCapsule, nil
	case ColliderShapePlane:
		return ColliderShapePlane, nil
	}
	return "", fmt.Errorf("unknown collider shape %q", s)
}

// Collider describes one collision volume. Estimation compares colliders by
// pointer identity only; the shape parameters are informational.
type Collider struct {
	Name     string
	Node     *Node
	Shape    ColliderShape
	Radius   float32
	Height   float32
	Position mgl32.Vec3
	// InsideBounds keeps bones inside the volume instead of outside.
	InsideBounds bool
}

// ContactKind distinguishes the two proximity trigger roles.
type ContactKind string

const (
	ContactKindSender   ContactKind = "sender"
	ContactKindReceiver ContactKind = "receiver"
)

// ParseContactKind converts a text form into a ContactKind. Empty input means
// receiver.
func ParseContactKind(s string) (ContactKind, error) {
	switch ContactKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", ContactKindReceiver:
		return ContactKindReceiver, nil
	case ContactKindSender:
		return ContactKindSender, nil
	}
	return "", fmt.Errorf("unknown contact kind %q", s)
}

// Contact describes a proximity trigger volume.
type Contact struct {
	Name string
	Node *Node
	Kind ContactKind
	// LocalOnly contacts only run for the local player and never count
	// toward the contact metric.
	LocalOnly bool
}
