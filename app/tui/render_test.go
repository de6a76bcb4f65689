package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexcodex/bonebudget/framework"
	"github.com/lexcodex/bonebudget/persistence"
)

func sampleEstimation() *framework.Estimation {
	return &framework.Estimation{
		Stats: framework.PerformanceStats{ChainCount: 6, TransformCount: 20, ColliderCount: 1, CollisionCheckCount: 12, ContactCount: 3},
		Chains: []framework.ChainReport{
			{Name: "hair", Root: "Hair", Transforms: 20, MultiChildRoots: 1, Endpoints: 2, CollisionTransforms: 12, Colliders: 1, CollisionChecks: 12, MaxRadius: 0.05},
			{Name: "tail", Root: "Tail", Skipped: true, SkipReason: framework.SkipExcluded},
		},
	}
}

func TestRenderEstimation(t *testing.T) {
	table, err := framework.DefaultThresholds().Get("android")
	require.NoError(t, err)
	report := persistence.NewReport("avatar", table, sampleEstimation())
	report.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	out := RenderEstimation(report)
	assert.Contains(t, out, "avatar")
	assert.Contains(t, out, "android")
	assert.Contains(t, out, "collision_checks")
	assert.Contains(t, out, "Medium")
	assert.Contains(t, out, "overall Medium")

	assert.Contains(t, RenderEstimation(nil), "no report")
}

func TestRenderChains(t *testing.T) {
	out := RenderChains(sampleEstimation().Chains)
	assert.Contains(t, out, "hair")
	assert.Contains(t, out, "1 branch, 2 endpoint")
	assert.Contains(t, out, "skipped: excluded")
	assert.Contains(t, RenderChains(nil), "no chains")

	inactive := framework.ChainReport{Name: "cape", Root: "Cape", InactiveRoot: true, Transforms: 3}
	assert.Contains(t, RenderChains([]framework.ChainReport{inactive}), "inactive")
	assert.Contains(t, renderChainDetail(inactive), "root active          false")
}

func TestRenderThresholds(t *testing.T) {
	table, err := framework.DefaultThresholds().Get("pc")
	require.NoError(t, err)
	out := RenderThresholds(table)
	assert.Contains(t, out, "pc")
	assert.Contains(t, out, "512")
	assert.Contains(t, out, "Excellent")
}

func TestModelCyclesPlatforms(t *testing.T) {
	m, err := NewModel("avatar", sampleEstimation(), framework.DefaultThresholds(), "android")
	require.NoError(t, err)
	assert.Equal(t, "android", m.Platform())
	assert.Equal(t, framework.RatingMedium, m.Report().Overall)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	assert.Equal(t, "pc", m.Platform())
	assert.Equal(t, framework.RatingGood, m.Report().Overall)
	assert.Contains(t, m.View(), "platform: pc")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestNewModelUnknownPlatform(t *testing.T) {
	_, err := NewModel("avatar", sampleEstimation(), nil, "switch")
	assert.ErrorIs(t, err, framework.ErrUnknownPlatform)
}
