//go:generate mockgen -destination=./mocks/pack.go -package=mocks . Enumerator,Reporter

package pack

import (
	"io/fs"
)

// Entry is one filesystem object discovered below a Source.
type Entry struct {
	Path  string
	IsDir bool
	Info  fs.FileInfo
}

// Enumerator lists the filesystem objects below a source directory.
type Enumerator interface {
	Enumerate(root *Source) ([]Entry, error)
}

// Reporter receives one Event per archived entry.
type Reporter interface {
	Report(event Event)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(Event)

// Report calls f(event).
func (f ReporterFunc) Report(event Event) {
	f(event)
}

// EntryKind distinguishes directory markers from file entries.
type EntryKind int

const (
	KindFile EntryKind = iota
	KindDirectory
)

func (k EntryKind) String() string {
	if k == KindDirectory {
		return "D"
	}
	return "F"
}

// Event reports a single archived entry.
type Event struct {
	// Path is the absolute path of the entry on disk.
	Path string
	// Name is the entry name inside the archive.
	Name          string
	Kind          EntryKind
	BytesWritten  int64
	ContentLength int64
}

// Ratio returns compressed bytes per content byte, or 0 for empty content.
func (e Event) Ratio() float64 {
	if e.ContentLength <= 0 {
		return 0
	}
	return float64(e.BytesWritten) / float64(e.ContentLength)
}

// State is the lifecycle state of an Archiver.
type State int

const (
	StateConfigured State = iota
	StateReady
	StateRunning
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConfigured:
		return "configured"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result summarizes a successful packaging run.
type Result struct {
	ArchivePath   string
	Files         int
	Directories   int
	BytesWritten  int64
	ContentLength int64
}
