package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexcodex/bonebudget/persistence"
)

const rigYAML = `root:
  name: Armature
  children:
    - name: Hair
      children:
        - name: H1
          children:
            - name: H2
    - name: Ears
      exclude: true
      children:
        - name: EarL
dynamic_bones:
  - name: hair
    node: Armature/Hair
    colliders: [head]
  - name: ear
    node: Armature/Ears/EarL
colliders:
  - name: head
    node: Armature
    radius: 0.1
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeRig(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(rigYAML), 0o644))
	return path
}

func TestEstimateCommandJSON(t *testing.T) {
	dir := t.TempDir()
	scene := writeRig(t, dir, "avatar")

	out, err := runCLI(t, "--workspace", dir, "--platform", "android", "estimate", scene, "--json", "--save")
	require.NoError(t, err)

	var report persistence.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "avatar", report.Scene)
	assert.Equal(t, "android", report.Platform)
	assert.Equal(t, 1, report.Stats.ChainCount)
	assert.Equal(t, 3, report.Stats.TransformCount)
	assert.Equal(t, 1, report.Stats.ColliderCount)
	assert.Equal(t, 2, report.Stats.CollisionCheckCount)
	require.Len(t, report.Chains, 2)
	assert.True(t, report.Chains[1].Skipped)

	out, err = runCLI(t, "--workspace", dir, "report", "list")
	require.NoError(t, err)
	assert.Contains(t, out, report.ID)

	out, err = runCLI(t, "--workspace", dir, "report", "show", report.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "avatar")

	_, err = runCLI(t, "--workspace", dir, "report", "delete", report.ID)
	require.NoError(t, err)
	_, err = runCLI(t, "--workspace", dir, "report", "show", report.ID)
	assert.ErrorIs(t, err, persistence.ErrReportNotFound)
}

func TestEstimateCommandFailOn(t *testing.T) {
	dir := t.TempDir()
	scene := writeRig(t, dir, "avatar")

	_, err := runCLI(t, "--workspace", dir, "--platform", "android", "estimate", scene, "--fail-on", "good")
	assert.ErrorIs(t, err, errBudgetExceeded)

	out, err := runCLI(t, "--workspace", dir, "--platform", "pc", "estimate", scene, "--fail-on", "medium")
	require.NoError(t, err)
	assert.Contains(t, out, "hair")
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeRig(t, dir, "first")
	b := writeRig(t, dir, "second")

	out, err := runCLI(t, "--workspace", dir, "batch", a, b, "--parallel", "2", "--json")
	require.NoError(t, err)
	var reports []persistence.Report
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, "first", reports[0].Scene)
	assert.Equal(t, "second", reports[1].Scene)
	assert.Equal(t, "pc", reports[0].Platform)
}

func TestThresholdsCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, "--workspace", dir, "thresholds", "android")
	require.NoError(t, err)
	assert.Contains(t, out, "android")
	assert.NotContains(t, out, "pc")

	_, err = runCLI(t, "--workspace", dir, "thresholds", "switch")
	assert.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, "--workspace", dir, "config", "set", "platform", "android")
	require.NoError(t, err)
	out, err := runCLI(t, "--workspace", dir, "config", "get", "platform")
	require.NoError(t, err)
	assert.Equal(t, "android\n", out)

	_, err = runCLI(t, "--workspace", dir, "config", "set", "store", "redis")
	assert.Error(t, err)

	scene := writeRig(t, dir, "avatar")
	out, err = runCLI(t, "--workspace", dir, "estimate", scene, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"platform": "android"`)
}

const guardedRigYAML = `name: guarded
root:
  name: Armature
  children:
    - name: Hair
      children:
        - name: H1
    - name: Ears
      exclude: true
dynamic_bones:
  - name: hair
    node: Armature/Hair
    colliders: [head, ear_guard]
colliders:
  - name: head
    node: Armature
  - name: ear_guard
    node: Armature/Ears
`

func TestEstimateCommandPruneColliders(t *testing.T) {
	dir := t.TempDir()
	scene := filepath.Join(dir, "guarded.yaml")
	require.NoError(t, os.WriteFile(scene, []byte(guardedRigYAML), 0o644))

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"--workspace", dir, "estimate", scene, "--json", "--prune-colliders"})
	require.NoError(t, root.Execute())

	assert.Contains(t, errOut.String(), "cleared=1")
	var report persistence.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, 1, report.Stats.ColliderCount)
	assert.Equal(t, 1, report.Stats.CollisionCheckCount)
}
