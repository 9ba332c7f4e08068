package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"taskcenter/internal/fileutil"
	"taskcenter/internal/logging"
	"taskcenter/internal/services"
)

const (
	documentMode  = 0o644
	lockRetryWait = 50 * time.Millisecond
	indent        = "  "
)

// Store keeps one JSON document per collection under a directory. Writers
// are serialized in-process by a mutex and across processes by a lock file
// per collection; the last completed write wins.
type Store struct {
	dir    string
	logger *slog.Logger
	mu     sync.Mutex
}

// Open prepares dir for document storage.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if dir == "" {
		return nil, errors.New("store: data directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create data directory: %w", err)
	}
	return &Store{dir: dir, logger: logging.NewComponentLogger(logger, "store")}, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file backing c.
func (s *Store) Path(c Collection) string {
	return filepath.Join(s.dir, c.FileName())
}

func (s *Store) lockPath(c Collection) string {
	return filepath.Join(s.dir, "."+string(c)+".lock")
}

// Get returns the stored document for c in compact form. Missing, empty, and
// unreadable documents yield the collection's empty value; unreadable ones
// are logged.
func (s *Store) Get(c Collection) (json.RawMessage, error) {
	data, err := os.ReadFile(s.Path(c))
	if errors.Is(err, fs.ErrNotExist) {
		return c.EmptyValue(), nil
	}
	if err != nil {
		logging.WarnWithContext(s.logger, "document unreadable; serving empty value", "document_read_failed",
			logging.String("collection", string(c)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "client receives an empty collection"),
		)
		return c.EmptyValue(), nil
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		logging.WarnWithContext(s.logger, "document is not valid JSON; serving empty value", "document_corrupt",
			logging.String("collection", string(c)),
			logging.String("path", s.Path(c)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "repair or remove the file"),
			logging.String(logging.FieldImpact, "client receives an empty collection"),
		)
		return c.EmptyValue(), nil
	}
	if isEmptyDocument(compact.Bytes()) {
		return c.EmptyValue(), nil
	}
	return compact.Bytes(), nil
}

// Snapshot is every collection in one object, in Collections order.
type Snapshot struct {
	Tasks    json.RawMessage `json:"tasks"`
	Memos    json.RawMessage `json:"memos"`
	Projects json.RawMessage `json:"projects"`
	Meetings json.RawMessage `json:"meetings"`
	Planner  json.RawMessage `json:"planner"`
}

// Snapshot reads all collections.
func (s *Store) Snapshot() (Snapshot, error) {
	var snap Snapshot
	for _, c := range Collections {
		doc, err := s.Get(c)
		if err != nil {
			return Snapshot{}, err
		}
		*snap.field(c) = doc
	}
	return snap, nil
}

func (snap *Snapshot) field(c Collection) *json.RawMessage {
	switch c {
	case Tasks:
		return &snap.Tasks
	case Memos:
		return &snap.Memos
	case Projects:
		return &snap.Projects
	case Meetings:
		return &snap.Meetings
	default:
		return &snap.Planner
	}
}

// Save replaces the document for c with body. The body must be valid JSON;
// it is stored re-indented with two spaces, keeping key order and literal
// non-ASCII text.
func (s *Store) Save(ctx context.Context, c Collection, body []byte) error {
	var formatted bytes.Buffer
	if err := json.Indent(&formatted, bytes.TrimSpace(body), "", indent); err != nil {
		return services.Wrap(services.ErrValidation, "store", "Invalid JSON: "+err.Error(), err)
	}
	formatted.WriteByte('\n')
	return s.write(ctx, c, formatted.Bytes())
}

// SaveAll stores every collection key present in the JSON object body and
// reports which collections were written. Unknown keys are ignored.
func (s *Store) SaveAll(ctx context.Context, body []byte) ([]Collection, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, services.Wrap(services.ErrValidation, "store", "Invalid JSON: "+err.Error(), err)
	}
	var saved []Collection
	for _, c := range Collections {
		doc, ok := fields[string(c)]
		if !ok {
			continue
		}
		if err := s.Save(ctx, c, doc); err != nil {
			return saved, err
		}
		saved = append(saved, c)
	}
	return saved, nil
}

func (s *Store) write(ctx context.Context, c Collection, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock := flock.New(s.lockPath(c))
	locked, err := lock.TryLockContext(ctx, lockRetryWait)
	if err != nil {
		return services.Wrap(services.ErrTransient, "store", "failed to lock "+string(c), err)
	}
	if !locked {
		return services.Wrap(services.ErrTimeout, "store", "timed out waiting for "+string(c)+" lock", ctx.Err())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("document lock release failed",
				logging.String("collection", string(c)),
				logging.Error(err),
			)
		}
	}()

	if err := fileutil.WriteFileAtomic(s.Path(c), data, documentMode); err != nil {
		return services.Wrap(services.ErrTransient, "store", "failed to save "+string(c), err)
	}
	s.logger.Debug("document saved",
		logging.String(logging.FieldEventType, "document_saved"),
		logging.String("collection", string(c)),
		logging.Int("bytes", len(data)),
	)
	return nil
}

// DocumentInfo describes one collection's backing file.
type DocumentInfo struct {
	Collection Collection
	Path       string
	Exists     bool
	Size       int64
	ModTime    time.Time
}

// Info reports file metadata for every collection.
func (s *Store) Info() ([]DocumentInfo, error) {
	infos := make([]DocumentInfo, 0, len(Collections))
	for _, c := range Collections {
		info := DocumentInfo{Collection: c, Path: s.Path(c)}
		stat, err := os.Stat(info.Path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("store: stat %s: %w", c, err)
		default:
			info.Exists = true
			info.Size = stat.Size()
			info.ModTime = stat.ModTime()
		}
		infos = append(infos, info)
	}
	return infos, nil
}
