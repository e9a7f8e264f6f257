package asset

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"io/fs"
	"log"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kamstrup/intmap"
	"golang.org/x/sync/semaphore"
)

// ErrClosed is reported for loads requested after Close.
var ErrClosed = errors.New("asset: server closed")

// Decoder turns raw file bytes into an image.
type Decoder func(r io.Reader) (image.Image, error)

// DecodeImage decodes any format registered with the image package.
func DecodeImage(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	return img, err
}

// Config configures a Server.
type Config struct {
	// Source is the asset root. Paths passed to Load are resolved inside it.
	Source fs.FS
	// Workers bounds how many files are read and decoded at once. Defaults to 2.
	Workers int64
	// Decoder defaults to DecodeImage.
	Decoder Decoder
	// Logger receives load failures. Defaults to log.Default().
	Logger *log.Logger
}

type entry struct {
	handle    Handle
	state     LoadState
	image     image.Image
	err       error
	requested time.Time
	elapsed   time.Duration
}

// Entry is a snapshot of one handle's state.
type Entry struct {
	Handle  Handle
	State   LoadState
	Err     error
	Elapsed time.Duration
}

// Stats counts handles by state.
type Stats struct {
	Loading int
	Loaded  int
	Failed  int
}

// Server issues handles and loads their images on background goroutines.
type Server struct {
	source fs.FS
	decode Decoder
	logger *log.Logger
	sem    *semaphore.Weighted
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	entries *intmap.Map[HandleId, *entry]
	nextId  HandleId
	closed  bool
}

// NewServer creates a server reading from cfg.Source.
func NewServer(cfg Config) *Server {
	if cfg.Source == nil {
		panic("asset: Config.Source is required")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.Decoder == nil {
		cfg.Decoder = DecodeImage
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		source:  cfg.Source,
		decode:  cfg.Decoder,
		logger:  cfg.Logger,
		sem:     semaphore.NewWeighted(cfg.Workers),
		ctx:     ctx,
		cancel:  cancel,
		entries: intmap.New[HandleId, *entry](16),
	}
}

// Load issues a new handle for name and starts reading it in the background.
// Every call re-reads the file, so loading the same path twice yields two
// independent handles.
func (s *Server) Load(name string) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextId++
	h := Handle{Id: s.nextId, Path: name}
	e := &entry{handle: h, state: Loading, requested: time.Now()}
	s.entries.Put(h.Id, e)

	if s.closed {
		e.state = Failed
		e.err = ErrClosed
		return h
	}

	s.wg.Add(1)
	go s.load(h)
	return h
}

func (s *Server) load(h Handle) {
	defer s.wg.Done()

	if err := s.sem.Acquire(s.ctx, 1); err != nil {
		s.finish(h, nil, fmt.Errorf("load %s: %w", h.Path, err))
		return
	}
	defer s.sem.Release(1)

	img, err := s.read(h.Path)
	s.finish(h, img, err)
}

func (s *Server) read(name string) (image.Image, error) {
	name = strings.TrimPrefix(path.Clean(name), "/")
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("load %s: %w", name, fs.ErrInvalid)
	}

	f, err := s.source.Open(name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	defer f.Close()

	img, err := s.decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return img, nil
}

// finish records a load result. Results for released handles are discarded.
func (s *Server) finish(h Handle, img image.Image, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries.Get(h.Id)
	if !ok {
		return
	}

	e.elapsed = time.Since(e.requested)
	if err != nil {
		e.state = Failed
		e.err = err
		s.logger.Printf("asset: %v", err)
		return
	}
	e.state = Loaded
	e.image = img
}

// LoadState returns the state of h. Unknown and released handles are NotLoaded.
func (s *Server) LoadState(h Handle) LoadState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.entries.Get(h.Id); ok {
		return e.state
	}
	return NotLoaded
}

// Get returns the decoded image once h is Loaded.
func (s *Server) Get(h Handle) (image.Image, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries.Get(h.Id)
	if !ok || e.state != Loaded {
		return nil, false
	}
	return e.image, true
}

// Err returns the failure reason of a Failed handle.
func (s *Server) Err(h Handle) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.entries.Get(h.Id); ok {
		return e.err
	}
	return nil
}

// Release forgets h. A load still in flight for it completes and is dropped.
func (s *Server) Release(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.entries.Del(h.Id)
}

// Retain releases every handle not present in keep and returns how many were released.
func (s *Server) Retain(keep map[HandleId]struct{}) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var drop []HandleId
	s.entries.ForEach(func(id HandleId, _ *entry) bool {
		if _, ok := keep[id]; !ok {
			drop = append(drop, id)
		}
		return true
	})
	for _, id := range drop {
		s.entries.Del(id)
	}
	return len(drop)
}

// Entries returns a snapshot of all live handles ordered by id.
func (s *Server) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, s.entries.Len())
	s.entries.ForEach(func(_ HandleId, e *entry) bool {
		out = append(out, Entry{Handle: e.handle, State: e.state, Err: e.err, Elapsed: e.elapsed})
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Handle.Id < out[j].Handle.Id })
	return out
}

// Stats counts live handles by state.
func (s *Server) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st Stats
	s.entries.ForEach(func(_ HandleId, e *entry) bool {
		switch e.state {
		case Loading:
			st.Loading++
		case Loaded:
			st.Loaded++
		case Failed:
			st.Failed++
		}
		return true
	})
	return st
}

// Close cancels queued loads and waits for running ones to finish.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	return nil
}
