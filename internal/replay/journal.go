// Package replay records game events as zstd-compressed JSON lines and
// reads them back.
package replay

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Extension is appended to journal file names.
const Extension = ".jsonl.zst"

// Entry is one journal line.
type Entry struct {
	Kind  string  `json:"kind"`
	AtMS  int64   `json:"at_ms"`
	Rank  int     `json:"rank"`
	Label string  `json:"label,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Score int     `json:"score"`

	// Session entries only.
	Game    string    `json:"game,omitempty"`
	Seed    int64     `json:"seed,omitempty"`
	Started time.Time `json:"started,omitzero"`
}

// KindSession marks the start of a game session in a journal.
const KindSession = "session"

// Writer appends entries to a compressed journal. It is safe for
// concurrent use.
type Writer struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// Create opens a new journal file in dir named after the game and the
// current time.
func Create(dir, game string, now time.Time) (*Writer, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("replay: create dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s%s", game, now.UTC().Format("20060102-150405"), Extension)
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, "", fmt.Errorf("replay: open journal: %w", err)
	}
	w, err := NewWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, "", err
	}
	w.f = f
	return w, path, nil
}

// NewWriter writes a journal to dst. Closing the Writer does not close dst.
func NewWriter(dst io.Writer) (*Writer, error) {
	enc, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("replay: zstd writer: %w", err)
	}
	return &Writer{
		enc: enc,
		w:   bufio.NewWriterSize(enc, 32*1024),
	}, nil
}

// Write appends one entry.
func (w *Writer) Write(e Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.enc == nil {
		return errors.New("replay: writer closed")
	}
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("replay: marshal: %w", err)
	}
	if _, err := w.w.Write(b); err != nil {
		return fmt.Errorf("replay: write: %w", err)
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("replay: write: %w", err)
	}
	return nil
}

// Flush pushes buffered entries through the encoder as a complete block,
// so a reader of the destination sees them before Close.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.enc == nil {
		return errors.New("replay: writer closed")
	}
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("replay: flush: %w", err)
	}
	if err := w.enc.Flush(); err != nil {
		return fmt.Errorf("replay: flush: %w", err)
	}
	return nil
}

// Close flushes the journal and closes the file if Create opened it.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.enc == nil {
		return nil
	}
	var errs []error
	if err := w.w.Flush(); err != nil {
		errs = append(errs, err)
	}
	if err := w.enc.Close(); err != nil {
		errs = append(errs, err)
	}
	w.enc = nil
	if w.f != nil {
		if err := w.f.Close(); err != nil {
			errs = append(errs, err)
		}
		w.f = nil
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("replay: close: %w", err)
	}
	return nil
}

// Scan decodes the journal in r, calling fn for each entry in order.
// Scanning stops at the first error returned by fn.
func Scan(r io.Reader, fn func(Entry) error) error {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return fmt.Errorf("replay: zstd reader: %w", err)
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return fmt.Errorf("replay: line %d: %w", line, err)
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("replay: read: %w", err)
	}
	return nil
}

// ReadFile loads every entry of a journal file.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: open: %w", err)
	}
	defer f.Close()

	var out []Entry
	err = Scan(f, func(e Entry) error {
		out = append(out, e)
		return nil
	})
	return out, err
}
