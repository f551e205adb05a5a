//go:build e2e && unix

package main

import (
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpCommand(t *testing.T) {
	t.Parallel()

	if _, err := os.Stat(binPath); os.IsNotExist(err) {
		t.Skip("Test binary not found - TestMain may not have run yet")
	}

	// not through a PTY, --help exits right away
	out, err := exec.Command(binPath, "--help").CombinedOutput()
	require.NoError(t, err, "Help command should run without error")

	output := string(out)
	assert.Contains(t, output, "Usage")
	assert.Contains(t, output, "--catalogue")
	assert.Contains(t, output, "unselect")
}

func TestHelpPager(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	_, err := tf.CreateTestWorkspace()
	require.NoError(t, err)
	require.NoError(t, tf.StartApp())
	require.True(t, tf.Ready(), "Should receive ready signal")

	require.NoError(t, tf.OpenHelp())
	if !tf.SeePlain("Markers") {
		tf.DumpTailOnFail(t, "help-pager", 4096)
		t.Fatal("help pager should list the markers")
	}

	// q leaves the pager, a second q leaves the app
	require.NoError(t, tf.Quit())
	require.True(t, tf.SeePlain("E2E Suite"), "tree should be back after the pager")
}
