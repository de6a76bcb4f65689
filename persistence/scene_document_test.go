package persistence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexcodex/bonebudget/framework"
)

func TestLoadSceneDocumentBuildsRequest(t *testing.T) {
	doc, err := LoadSceneDocument("testdata/avatar.yaml")
	require.NoError(t, err)
	assert.Equal(t, "avatar", doc.Name)

	req, err := doc.Build()
	require.NoError(t, err)
	assert.Equal(t, "avatar", req.Scene)
	require.Len(t, req.Chains, 3)
	assert.Equal(t, "hair", req.Chains[0].Name())
	assert.Equal(t, "tail", req.Chains[1].Name())
	assert.Equal(t, "skirt", req.Chains[2].Name())
	assert.Equal(t, framework.MultiChildAverage, req.Chains[1].MultiChildType())

	merged, ok := req.Chains[2].(*framework.MergedChain)
	require.True(t, ok)
	assert.Len(t, merged.Members(), 2)

	require.Len(t, req.Colliders, 1)
	assert.Equal(t, framework.ColliderShapeSphere, req.Colliders[0].Shape)
	assert.InDelta(t, 0.2, req.Colliders[0].Position.Y(), 1e-6)
	require.Len(t, req.Contacts, 3)
	assert.Equal(t, framework.ContactKindSender, req.Contacts[1].Kind)
}

func TestSceneDocumentEstimate(t *testing.T) {
	doc, err := LoadSceneDocument("testdata/avatar.yaml")
	require.NoError(t, err)
	req, err := doc.Build()
	require.NoError(t, err)

	est, err := (&framework.Estimator{}).Estimate(req)
	require.NoError(t, err)
	assert.Equal(t, framework.PerformanceStats{
		ChainCount:          2,
		TransformCount:      4,
		ColliderCount:       1,
		CollisionCheckCount: 3,
		ContactCount:        2,
	}, est.Stats)

	hair := est.Chains[0]
	assert.Equal(t, 3, hair.Transforms)
	assert.Equal(t, 1, hair.Endpoints)
	assert.InDelta(t, 0.1, hair.MaxRadius, 1e-6)
	assert.Equal(t, framework.SkipExcluded, est.Chains[1].SkipReason)
}

func TestDecodeSceneDocumentErrors(t *testing.T) {
	cases := map[string]string{
		"empty":        "",
		"missing root": "name: x\nroot: {}\n",
		"bad endpoint": "root: {name: A}\ndynamic_bones:\n  - {name: b, node: A, endpoint: [1, 2]}\n",
		"bad policy":   "root: {name: A}\ndynamic_bones:\n  - {name: b, node: A, multi_child: sideways}\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeSceneDocument(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}

func TestSceneDocumentBuildErrors(t *testing.T) {
	cases := map[string]string{
		"unknown node":     "root: {name: A}\ndynamic_bones:\n  - {name: b, node: A/B}\n",
		"unknown collider": "root: {name: A}\ndynamic_bones:\n  - {name: b, node: A, colliders: [c]}\n",
		"unknown member":   "root: {name: A}\nmerged_chains:\n  - {name: m, node: A, members: [b]}\n",
		"duplicate bone":   "root: {name: A}\ndynamic_bones:\n  - {name: b, node: A}\n  - {name: b, node: A}\n",
		"bad shape":        "root: {name: A}\ncolliders:\n  - {name: c, node: A, shape: cube}\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			doc, err := DecodeSceneDocument(strings.NewReader(input))
			require.NoError(t, err)
			_, err = doc.Build()
			assert.Error(t, err)
		})
	}
}

func TestDecodeSceneDocumentAcceptsJSON(t *testing.T) {
	doc, err := DecodeSceneDocument(strings.NewReader(`{"name":"j","root":{"name":"A","children":[{"name":"B","active":false}]}}`))
	require.NoError(t, err)
	req, err := doc.Build()
	require.NoError(t, err)
	require.Len(t, req.Root.Children(), 1)
	assert.False(t, req.Root.Children()[0].Active)
}
