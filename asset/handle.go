// Package asset loads image assets in the background and tracks their load
// state by handle. Callers never block on a load; they poll LoadState.
package asset

import "fmt"

// HandleId identifies one load request. Zero is never issued.
type HandleId uint64

// Handle is an opaque reference to an asynchronously loaded image.
type Handle struct {
	Id   HandleId
	Path string
}

// Valid reports whether the handle was issued by a Server.
func (h Handle) Valid() bool {
	return h.Id != 0
}

func (h Handle) String() string {
	return fmt.Sprintf("Handle<Image>(%d, %q)", h.Id, h.Path)
}

// LoadState is the lifecycle of a handle's asset.
type LoadState uint8

const (
	NotLoaded LoadState = iota
	Loading
	Loaded
	Failed
)

func (s LoadState) String() string {
	switch s {
	case NotLoaded:
		return "NotLoaded"
	case Loading:
		return "Loading"
	case Loaded:
		return "Loaded"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("LoadState(%d)", uint8(s))
	}
}
