package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSceneFindByPath(t *testing.T) {
	root := NewNode("Armature")
	hips := root.Child("Hips")
	head := hips.Child("Spine").Child("Head")
	hips.Child("Spine")

	scene := NewScene(root)
	found, ok := scene.Find("Armature/Hips/Spine/Head")
	require.True(t, ok)
	assert.Same(t, head, found)
	assert.Equal(t, "Armature/Hips/Spine/Head", head.Path())

	found, ok = scene.Find("/Armature/Hips/")
	require.True(t, ok)
	assert.Same(t, hips, found)

	_, ok = scene.Find("Armature/Tail")
	assert.False(t, ok)
}

func TestNodeAddChildReparents(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	c := a.Child("c")
	b.AddChild(c)
	assert.Empty(t, a.Children())
	assert.Equal(t, []*Node{c}, b.Children())
	assert.Same(t, b, c.Parent())
	assert.True(t, c.IsDescendantOf(b))
	assert.False(t, c.IsDescendantOf(a))
	assert.False(t, c.IsDescendantOf(c))
}

func TestNodeWalkSkipsSubtree(t *testing.T) {
	root := NewNode("r")
	skip := root.Child("skip")
	skip.Child("hidden")
	root.Child("seen")

	var names []string
	root.Walk(func(n *Node) bool {
		names = append(names, n.Name)
		return n != skip
	})
	assert.Equal(t, []string{"r", "skip", "seen"}, names)
}

func TestIsFinallyExcluded(t *testing.T) {
	scene := NewNode("Scene")
	rig := scene.Child("Rig")
	props := rig.Child("Props")
	hat := props.Child("Hat")
	body := rig.Child("Body")

	assert.False(t, IsFinallyExcluded(rig, hat))
	assert.False(t, IsFinallyExcluded(rig, nil))

	props.ExcludeTag = true
	assert.True(t, IsFinallyExcluded(rig, hat))
	assert.True(t, IsFinallyExcluded(rig, props))
	assert.False(t, IsFinallyExcluded(rig, body))
}

// TestIsFinallyExcludedStopsAtRoot keeps a tag above the estimation root from
// leaking into the rig.
func TestIsFinallyExcludedStopsAtRoot(t *testing.T) {
	scene := NewNode("Scene")
	group := scene.Child("Group")
	group.ExcludeTag = true
	rig := group.Child("Rig")
	bone := rig.Child("Hips").Child("Spine")

	assert.False(t, IsFinallyExcluded(rig, bone))
	assert.True(t, IsFinallyExcluded(scene, bone))

	rig.ExcludeTag = true
	assert.False(t, IsFinallyExcluded(rig, bone))
	assert.True(t, IsFinallyExcluded(rig, rig))
}
