//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"path/filepath"
)

const testComponents = `<?xml version="1.0" encoding="UTF-8"?>
<list url="https://example.org/components/">
  <category id="core" title="Core" required="1">
    <component id="runtime" title="Runtime" download-size="1024" install-size="4096"/>
  </category>
  <category id="extras" title="Extras">
    <component id="player" title="Player" download-size="500" install-size="1500" depends="core-runtime"/>
    <component id="codecs" title="Codecs" download-size="300" install-size="900" depends="extras-player"/>
    <component id="themes" title="Themes" download-size="100" install-size="200"/>
  </category>
</list>
`

const testConfig = `name = "E2E Suite"

[ui]
show_sizes = true
expand_all = %t
`

// CreateTestWorkspace writes a component list and config into a fresh directory
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	return tf.createWorkspace(false)
}

// CreateExpandedWorkspace is CreateTestWorkspace with every category open on start
func (tf *TUITestFramework) CreateExpandedWorkspace() (string, error) {
	return tf.createWorkspace(true)
}

func (tf *TUITestFramework) createWorkspace(expandAll bool) (string, error) {
	dir, err := os.MkdirTemp("", "compgrip-e2e-*")
	if err != nil {
		return "", fmt.Errorf("failed to create workspace: %w", err)
	}
	tf.workspace = dir

	if err := os.WriteFile(filepath.Join(dir, "components.xml"), []byte(testComponents), 0644); err != nil {
		return "", err
	}
	cfg := fmt.Sprintf(testConfig, expandAll)
	if err := os.WriteFile(filepath.Join(dir, "compgrip.toml"), []byte(cfg), 0644); err != nil {
		return "", err
	}
	return dir, nil
}
