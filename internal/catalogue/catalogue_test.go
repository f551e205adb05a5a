package catalogue

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compgrip/internal/eventbus"
)

func TestParseRewritesIDs(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "components.xml"))
	require.NoError(t, err)
	defer f.Close()

	cat, err := Parse(f)
	require.NoError(t, err)

	assert.Equal(t, "https://example.org/components/", cat.URL)
	require.Len(t, cat.Categories, 3)

	core := cat.Categories[0]
	assert.Equal(t, "core", core.ID)
	assert.Equal(t, "Core", core.Name)
	assert.True(t, core.Required)
	assert.Equal(t, "Files needed to start the launcher", core.Description)

	launcher := cat.FindComponent("core-launcher")
	require.NotNil(t, launcher)
	assert.Equal(t, []string{"core-runtime"}, launcher.DependsOn)
	assert.True(t, launcher.Required)
	assert.Equal(t, uint64(2048), launcher.DownloadSize)
	assert.Equal(t, uint64(8192), launcher.InstallSize)
	assert.Equal(t, "Launcher", launcher.Path)

	runtime := cat.FindComponent("core-runtime")
	require.NotNil(t, runtime)
	assert.Equal(t, "A1B2C3D4", runtime.Hash)
	assert.False(t, runtime.Required)

	assert.NotNil(t, cat.FindCategory("extras-media"))
	assert.NotNil(t, cat.FindComponent("extras-media-codecs"))
	assert.NotNil(t, cat.FindComponent("extras-themes"))
	assert.Equal(t, []string{"extras-media-player", "extras-media-codecs", "extras-themes"},
		cat.CategoryComponents("extras"))
	assert.Empty(t, cat.CategoryComponents("empty"))
}

func TestParseRequiredFlagOnlyAcceptsOne(t *testing.T) {
	cat, err := ParseString(`<list url="u">
  <category id="a" title="A" required="true">
    <component id="x" title="X" required="yes"/>
    <component id="y" title="Y" required="1"/>
    <component id="z" title="Z" required="0"/>
  </category>
</list>`)
	require.NoError(t, err)

	assert.False(t, cat.Categories[0].Required)
	assert.False(t, cat.FindComponent("a-x").Required)
	assert.True(t, cat.FindComponent("a-y").Required)
	assert.False(t, cat.FindComponent("a-z").Required)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed", `<list><category id="a"`},
		{"missing category id", `<list><category title="A"/></list>`},
		{"missing component id", `<list><category id="a"><component title="X"/></category></list>`},
		{"bad size", `<list><category id="a"><component id="x" download-size="big"/></category></list>`},
		{"duplicate id", `<list><category id="a"><component id="x"/><component id="x"/></category></list>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.doc)
			assert.Error(t, err)
		})
	}
}

func TestLoaderReadsFile(t *testing.T) {
	cat, err := NewLoader(nil).Load(context.Background(), filepath.Join("testdata", "components.xml"))
	require.NoError(t, err)
	assert.Len(t, cat.Components(), 5)
}

func TestLoaderFetchesOverHTTP(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "components.xml"))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/components.xml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	l := NewLoader(srv.Client())

	cat, err := l.Load(context.Background(), srv.URL+"/components.xml")
	require.NoError(t, err)
	assert.NotNil(t, cat.FindComponent("extras-themes"))

	_, err = l.Load(context.Background(), srv.URL+"/missing.xml")
	assert.ErrorContains(t, err, "404")
}

func TestLoaderRejectsEmptySource(t *testing.T) {
	_, err := NewLoader(nil).Load(context.Background(), "")
	assert.Error(t, err)
}

func TestWatchServicePublishesReplacement(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "components.xml")
	require.NoError(t, os.WriteFile(path, []byte(`<list url="u"><category id="a" title="A"><component id="x" title="X"/></category></list>`), 0644))

	bus := eventbus.New()
	defer bus.Close()

	changed := make(chan eventbus.CatalogueChangedEvent, 4)
	bus.Subscribe(eventbus.EventCatalogueChanged, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.CatalogueChangedEvent); ok {
			changed <- ev
		}
	})

	ws := NewWatchService(bus, NewLoader(nil))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, ws.Start(ctx, path))
	defer ws.Stop()

	assert.Error(t, ws.Start(ctx, path), "second watch should be rejected")

	require.NoError(t, os.WriteFile(path, []byte(`<list url="u"><category id="a" title="A"><component id="y" title="Y"/></category></list>`), 0644))

	select {
	case ev := <-changed:
		require.NotNil(t, ev.Catalogue)
		assert.True(t, ev.Catalogue.HasComponent("a-y"))
		assert.False(t, ev.Catalogue.HasComponent("a-x"))
	case <-time.After(3 * time.Second):
		t.Fatal("no change event published")
	}
}

func TestWatchServiceRejectsRemote(t *testing.T) {
	ws := NewWatchService(eventbus.New(), NewLoader(nil))
	assert.Error(t, ws.Start(context.Background(), "https://example.org/components.xml"))
}
