package overlay_test

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"log"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/plus3/spritereload/asset"
	"github.com/plus3/spritereload/ecs"
	"github.com/plus3/spritereload/ecs/debugui"
	"github.com/plus3/spritereload/overlay"
	"github.com/plus3/spritereload/sprite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePanel records what was drawn and clicks the named buttons.
type fakePanel struct {
	open    bool
	clicks  map[string]int
	lines   []string
	windows []string
	depth   int
}

func newFakePanel() *fakePanel {
	return &fakePanel{open: true, clicks: make(map[string]int)}
}

func (p *fakePanel) Begin(title string) bool {
	p.depth++
	p.windows = append(p.windows, title)
	return p.open
}

func (p *fakePanel) Text(text string) { p.lines = append(p.lines, text) }

func (p *fakePanel) Separator() { p.lines = append(p.lines, "---") }

func (p *fakePanel) Button(label string) bool {
	if p.clicks[label] > 0 {
		p.clicks[label]--
		return true
	}
	return false
}

func (p *fakePanel) End() { p.depth-- }

func (p *fakePanel) reset() {
	p.lines = nil
	p.windows = nil
}

func (p *fakePanel) contains(prefix string) []string {
	var out []string
	for _, line := range p.lines {
		if strings.HasPrefix(line, prefix) {
			out = append(out, line)
		}
	}
	return out
}

type fixture struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	server    *asset.Server
	panel     *fakePanel
}

func newFixture(t *testing.T, files fstest.MapFS) *fixture {
	t.Helper()
	registry := ecs.NewComponentRegistry()
	sprite.RegisterComponents(registry)
	debugui.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)
	scheduler := ecs.NewScheduler(storage)

	server := asset.NewServer(asset.Config{Source: files, Logger: log.New(io.Discard, "", 0)})
	t.Cleanup(func() { server.Close() })

	panel := newFakePanel()
	sprite.Install(storage, scheduler, server, sprite.Options{})
	overlay.Install(storage, scheduler, server, panel)
	return &fixture{storage: storage, scheduler: scheduler, server: server, panel: panel}
}

func (f *fixture) frame() {
	f.panel.reset()
	f.scheduler.Once(1.0 / 60)
}

func (f *fixture) markers() []ecs.EntityId {
	var ids []ecs.EntityId
	for item := range ecs.NewView[sprite.Marker](f.storage).Values() {
		ids = append(ids, item.Id)
	}
	return ids
}

func TestStatusWindowReportsMarker(t *testing.T) {
	f := newFixture(t, fstest.MapFS{})
	f.frame()

	ids := f.markers()
	require.Len(t, ids, 1)
	assert.Equal(t, []string{"Entity: " + ids[0].String()}, f.panel.contains("Entity: "))
	assert.Equal(t, []string{"Texture: None"}, f.panel.contains("Texture: "))
	assert.Equal(t, []string{"Texture Load Status: NotLoaded"}, f.panel.contains("Texture Load Status: "))
	assert.Zero(t, f.panel.depth, "every Begin is matched by End")
}

func TestStatusWindowReportsFailure(t *testing.T) {
	f := newFixture(t, fstest.MapFS{})
	require.Eventually(t, func() bool {
		f.frame()
		lines := f.panel.contains("Texture Load Status: ")
		return len(lines) == 1 && lines[0] == "Texture Load Status: Failed"
	}, 2*time.Second, time.Millisecond)
}

func TestStatusWindowReportsEveryMarker(t *testing.T) {
	f := newFixture(t, fstest.MapFS{})
	f.frame()
	f.storage.Spawn(sprite.ReloadableSprite{})
	f.storage.Spawn(sprite.ReloadableSprite{})

	f.frame()
	assert.Len(t, f.panel.contains("Entity: "), 3)
}

func TestStatusWindowWithoutMarkers(t *testing.T) {
	f := newFixture(t, fstest.MapFS{})
	f.frame()
	for _, id := range f.markers() {
		f.storage.Delete(id)
	}

	f.frame()
	assert.Empty(t, f.panel.contains("Entity: "))
	assert.Equal(t, []string{"No sprites"}, f.panel.contains("No sprites"))

	f.panel.clicks["Recreate"] = 1
	f.frame()
	assert.Empty(t, f.markers(), "nothing to replace")
}

func TestRecreateReplacesEachMarker(t *testing.T) {
	f := newFixture(t, fstest.MapFS{})
	f.frame()
	f.storage.Spawn(sprite.ReloadableSprite{})
	before := f.markers()
	require.Len(t, before, 2)

	f.panel.clicks["Recreate"] = 1
	f.frame()

	after := f.markers()
	require.Len(t, after, 2)
	for _, id := range before {
		assert.NotContains(t, after, id)
		assert.False(t, f.storage.Alive(id))
	}

	f.frame()
	assert.ElementsMatch(t, after, f.markers(), "a single click reloads once")
}

func TestCollapsedWindowStillEnds(t *testing.T) {
	f := newFixture(t, fstest.MapFS{})
	f.panel.open = false
	f.panel.clicks["Recreate"] = 1
	f.frame()

	assert.Empty(t, f.panel.lines)
	assert.Zero(t, f.panel.depth)
	assert.Equal(t, 1, f.panel.clicks["Recreate"], "button not drawn while collapsed")
}

func TestAssetBrowser(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))

	server := asset.NewServer(asset.Config{
		Source: fstest.MapFS{"icon.png": {Data: buf.Bytes()}},
		Logger: log.New(io.Discard, "", 0),
	})
	t.Cleanup(func() { server.Close() })

	ok := server.Load("icon.png")
	bad := server.Load("missing.png")
	require.Eventually(t, func() bool {
		return server.LoadState(ok) == asset.Loaded && server.LoadState(bad) == asset.Failed
	}, 2*time.Second, time.Millisecond)

	panel := newFakePanel()
	browser := &overlay.AssetBrowser{Server: server, Panel: panel}
	browser.Render()

	assert.Equal(t, []string{"Assets"}, panel.windows)
	assert.Equal(t, "Loading: 0  Loaded: 1  Failed: 1", panel.lines[0])
	require.Len(t, panel.lines, 4)
	assert.True(t, strings.HasPrefix(panel.lines[2], ok.String()+"  Loaded"))
	assert.True(t, strings.HasPrefix(panel.lines[3], bad.String()+"  Failed"))
	assert.Contains(t, panel.lines[3], "missing.png")
}
