package logic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionStoreSelectUnselect(t *testing.T) {
	s := NewMemorySelectionStore()
	s.Replace(nil, []string{"core"})

	s.Select("a", "b", "core")
	assert.True(t, s.IsSelected("a"))
	assert.True(t, s.IsEffectivelySelected("core"))

	s.Unselect("a", "core")
	assert.False(t, s.IsSelected("a"))
	assert.True(t, s.IsSelected("b"))
	assert.True(t, s.IsRequired("core"), "unselect never touches required")
	assert.True(t, s.IsEffectivelySelected("core"))
}

func TestSelectionStoreReplace(t *testing.T) {
	s := NewMemorySelectionStore()
	s.Select("old")
	s.SetExpanded("cat", true)

	s.Replace([]string{"new"}, []string{"req"})

	snap := s.Snapshot()
	assert.Equal(t, map[string]bool{"new": true}, snap.Selected)
	assert.Equal(t, map[string]bool{"req": true}, snap.Required)
	assert.Equal(t, map[string]bool{"cat": true}, snap.Expanded, "expansion survives a sync")
}

func TestSelectionStorePrune(t *testing.T) {
	s := NewMemorySelectionStore()
	s.Replace([]string{"keep", "gone-a"}, []string{"gone-b", "keep-req"})
	s.SetAllExpanded([]string{"cat", "gone-cat"})

	dropped := s.Prune(
		func(id string) bool { return !strings.HasPrefix(id, "gone") },
		func(id string) bool { return id == "cat" },
	)

	assert.ElementsMatch(t, []string{"gone-a", "gone-b"}, dropped)
	snap := s.Snapshot()
	assert.Equal(t, map[string]bool{"keep": true}, snap.Selected)
	assert.Equal(t, map[string]bool{"keep-req": true}, snap.Required)
	assert.Equal(t, map[string]bool{"cat": true}, snap.Expanded)
}

func TestSelectionStoreExpanded(t *testing.T) {
	s := NewMemorySelectionStore()
	s.SetExpanded("a", true)
	assert.True(t, s.IsExpanded("a"))
	s.SetExpanded("a", false)
	assert.False(t, s.IsExpanded("a"))
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewMemorySelectionStore()
	s.Select("a")

	snap := s.Snapshot()
	snap.Selected["b"] = true

	assert.False(t, s.IsSelected("b"))
}
