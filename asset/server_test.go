package asset_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"log"
	"testing"
	"testing/fstest"
	"time"

	"github.com/plus3/spritereload/asset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestServer(t *testing.T, files fstest.MapFS, decoder asset.Decoder) *asset.Server {
	t.Helper()
	server := asset.NewServer(asset.Config{
		Source:  files,
		Decoder: decoder,
		Logger:  log.New(io.Discard, "", 0),
	})
	t.Cleanup(func() { server.Close() })
	return server
}

func waitForState(t *testing.T, server *asset.Server, h asset.Handle, want asset.LoadState) {
	t.Helper()
	require.Eventually(t, func() bool {
		return server.LoadState(h) == want
	}, 2*time.Second, time.Millisecond, "handle %v never reached %v (now %v)", h, want, server.LoadState(h))
}

func TestLoadStateNames(t *testing.T) {
	assert.Equal(t, "NotLoaded", asset.NotLoaded.String())
	assert.Equal(t, "Loading", asset.Loading.String())
	assert.Equal(t, "Loaded", asset.Loaded.String())
	assert.Equal(t, "Failed", asset.Failed.String())
	assert.Equal(t, "LoadState(9)", asset.LoadState(9).String())
}

func TestServerLoad(t *testing.T) {
	files := fstest.MapFS{
		"icon.png":    {Data: encodePNG(t, 4, 2)},
		"corrupt.png": {Data: []byte("not a png")},
	}

	t.Run("existing file loads", func(t *testing.T) {
		server := newTestServer(t, files, nil)
		h := server.Load("icon.png")
		require.True(t, h.Valid())
		assert.Equal(t, "icon.png", h.Path)

		waitForState(t, server, h, asset.Loaded)
		img, ok := server.Get(h)
		require.True(t, ok)
		assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
		assert.NoError(t, server.Err(h))
	})

	t.Run("missing file fails", func(t *testing.T) {
		server := newTestServer(t, files, nil)
		h := server.Load("nope.png")

		waitForState(t, server, h, asset.Failed)
		assert.ErrorIs(t, server.Err(h), fs.ErrNotExist)
		_, ok := server.Get(h)
		assert.False(t, ok)
	})

	t.Run("undecodable file fails", func(t *testing.T) {
		server := newTestServer(t, files, nil)
		h := server.Load("corrupt.png")
		waitForState(t, server, h, asset.Failed)
		assert.ErrorIs(t, server.Err(h), image.ErrFormat)
	})

	t.Run("escaping path fails", func(t *testing.T) {
		server := newTestServer(t, files, nil)
		h := server.Load("../icon.png")
		waitForState(t, server, h, asset.Failed)
		assert.ErrorIs(t, server.Err(h), fs.ErrInvalid)
	})

	t.Run("each load issues a fresh handle", func(t *testing.T) {
		server := newTestServer(t, files, nil)
		a := server.Load("icon.png")
		b := server.Load("icon.png")
		assert.NotEqual(t, a.Id, b.Id)
		waitForState(t, server, a, asset.Loaded)
		waitForState(t, server, b, asset.Loaded)
	})

	t.Run("unknown handle is not loaded", func(t *testing.T) {
		server := newTestServer(t, files, nil)
		assert.Equal(t, asset.NotLoaded, server.LoadState(asset.Handle{}))
		assert.Equal(t, asset.NotLoaded, server.LoadState(asset.Handle{Id: 42, Path: "icon.png"}))
	})
}

func TestServerReleaseDiscardsInFlightLoad(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	blocking := func(r io.Reader) (image.Image, error) {
		started <- struct{}{}
		<-release
		return asset.DecodeImage(r)
	}

	server := newTestServer(t, fstest.MapFS{"icon.png": {Data: encodePNG(t, 1, 1)}}, blocking)
	h := server.Load("icon.png")
	<-started
	assert.Equal(t, asset.Loading, server.LoadState(h))

	assert.True(t, server.Release(h))
	close(release)
	require.NoError(t, server.Close())

	assert.Equal(t, asset.NotLoaded, server.LoadState(h))
	assert.Empty(t, server.Entries())
}

func TestServerRetain(t *testing.T) {
	server := newTestServer(t, fstest.MapFS{"icon.png": {Data: encodePNG(t, 1, 1)}}, nil)

	keep := server.Load("icon.png")
	drop1 := server.Load("icon.png")
	drop2 := server.Load("missing.png")

	released := server.Retain(map[asset.HandleId]struct{}{keep.Id: {}})
	assert.Equal(t, 2, released)

	waitForState(t, server, keep, asset.Loaded)
	assert.Equal(t, asset.NotLoaded, server.LoadState(drop1))
	assert.Equal(t, asset.NotLoaded, server.LoadState(drop2))

	entries := server.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, keep, entries[0].Handle)
	assert.Equal(t, asset.Stats{Loaded: 1}, server.Stats())
}

func TestServerClose(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 4)
	blocking := func(r io.Reader) (image.Image, error) {
		started <- struct{}{}
		<-release
		return asset.DecodeImage(r)
	}

	files := fstest.MapFS{"icon.png": {Data: encodePNG(t, 1, 1)}}
	server := asset.NewServer(asset.Config{
		Source:  files,
		Workers: 1,
		Decoder: blocking,
		Logger:  log.New(io.Discard, "", 0),
	})

	running := server.Load("icon.png")
	<-started
	queued := server.Load("icon.png")

	done := make(chan struct{})
	go func() {
		server.Close()
		close(done)
	}()

	// the queued load gives up once the server is cancelled
	waitForState(t, server, queued, asset.Failed)

	close(release)
	<-done

	assert.Equal(t, asset.Loaded, server.LoadState(running))

	late := server.Load("icon.png")
	assert.Equal(t, asset.Failed, server.LoadState(late))
	assert.ErrorIs(t, server.Err(late), asset.ErrClosed)
}
