package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compgrip/internal/config"
	"compgrip/internal/resolver"
)

const fixture = "../catalogue/testdata/components.xml"

// run executes the root command against the test component list with a private config and log
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	base := []string{
		"--config", filepath.Join(dir, config.DefaultFileName),
		"--log", filepath.Join(dir, "compgrip.log"),
		"--catalogue", fixture,
	}

	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(base, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "compgrip", cmd.Use)

	for _, name := range []string{"tree", "deps", "dependants", "plan", "unselect"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"config", "channel", "catalogue", "log"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "c", cmd.PersistentFlags().Lookup("config").Shorthand)
}

func TestTree(t *testing.T) {
	out, err := run(t, "tree", "--select", "extras-media-codecs")
	require.NoError(t, err)

	want := "[x] Core (core)\n" +
		"  [#] Runtime (core-runtime) 1.0 KiB\n" +
		"  [#] Launcher (core-launcher) 2.0 KiB\n" +
		"[-] Extras (extras)\n" +
		"  [x] Media (extras-media)\n" +
		"    [x] Player (extras-media-player) 500 B\n" +
		"    [x] Codecs (extras-media-codecs) 300 B\n" +
		"  [ ] Themes (extras-themes) 100 B\n" +
		"[ ] Empty (empty)\n"
	assert.Equal(t, want, out)
}

func TestDepsAndDependants(t *testing.T) {
	out, err := run(t, "deps", "extras-media-codecs")
	require.NoError(t, err)
	assert.Equal(t, "core-runtime\nextras-media-codecs\nextras-media-player\n", out)

	out, err = run(t, "dependants", "core-runtime")
	require.NoError(t, err)
	assert.Equal(t, "extras-media-codecs\nextras-media-player\n", out, "required components never show up")

	_, err = run(t, "deps", "nope")
	assert.ErrorIs(t, err, resolver.ErrUnknownNode)
}

func TestPlanJSON(t *testing.T) {
	out, err := run(t, "plan", "--select", "extras-themes,core-runtime", "--json")
	require.NoError(t, err)

	var plan resolver.Plan
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	ids := make([]string, len(plan.Components))
	for i, item := range plan.Components {
		ids[i] = item.ID
	}
	assert.Equal(t, []string{"core-runtime", "core-launcher", "extras-themes"}, ids)
	assert.Equal(t, uint64(1024+2048+100), plan.DownloadSize)
	assert.True(t, plan.Components[0].Required)
	assert.False(t, plan.Components[2].Required)
}

func TestPlanText(t *testing.T) {
	out, err := run(t, "plan")
	require.NoError(t, err)
	assert.Contains(t, out, "* core-runtime")
	assert.Contains(t, out, "2 components, 3.0 KiB download")
}

func TestUnselectWithYes(t *testing.T) {
	out, err := run(t, "unselect", "extras-media-player", "--select", "extras-media-codecs", "--yes")
	require.NoError(t, err)

	assert.NotContains(t, out, "Kept")
	assert.Contains(t, out, "    [ ] Player (extras-media-player)")
	assert.Contains(t, out, "    [ ] Codecs (extras-media-codecs)")
}

func TestUnselectDeclined(t *testing.T) {
	asked := 0
	prev := runForm
	runForm = func(ctx context.Context, form *huh.Form) error {
		asked++
		return huh.ErrUserAborted
	}
	t.Cleanup(func() { runForm = prev })

	out, err := run(t, "unselect", "extras-media-player", "--select", "extras-media-codecs")
	require.NoError(t, err)

	assert.Equal(t, 1, asked)
	assert.Contains(t, out, "Kept extras-media-player selected")
	assert.Contains(t, out, "    [x] Player (extras-media-player)")
	assert.Contains(t, out, "    [x] Codecs (extras-media-codecs)")
}

func TestUnselectWithoutDependantsDoesNotAsk(t *testing.T) {
	prev := runForm
	runForm = func(ctx context.Context, form *huh.Form) error {
		t.Fatal("no prompt expected")
		return nil
	}
	t.Cleanup(func() { runForm = prev })

	out, err := run(t, "unselect", "extras-themes", "--select", "extras-themes")
	require.NoError(t, err)
	assert.Contains(t, out, "  [ ] Themes (extras-themes)")
}

func TestUnknownChannel(t *testing.T) {
	dir := t.TempDir()
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{
		"tree",
		"--config", filepath.Join(dir, config.DefaultFileName),
		"--log", filepath.Join(dir, "compgrip.log"),
		"--channel", "Nightly",
	})
	assert.ErrorIs(t, cmd.Execute(), config.ErrUnknownChannel)
}
