// Package resume stores per-job resume records and tracks whether each job has one requested or written.
package resume

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/alanbriolat/swarmkeeper/internal/engine"
	"github.com/alanbriolat/swarmkeeper/internal/sync_"
)

// DefaultSizeLimit is the largest resume file Read will load.
const DefaultSizeLimit = 8000000

const fileExt = ".resume"

var (
	ErrTooLarge = errors.New("resume file too large")
)

// Store reads and writes resume files under one directory, named by job identity. Access to each identity's file is
// serialized.
type Store struct {
	dir       string
	sizeLimit int64
	locks     *sync_.KeyedMutex[engine.Identity]
	log       *zap.SugaredLogger
}

func NewStore(dir string, sizeLimit int64) *Store {
	if sizeLimit <= 0 {
		sizeLimit = DefaultSizeLimit
	}
	return &Store{
		dir:       dir,
		sizeLimit: sizeLimit,
		locks:     sync_.NewKeyedMutex[engine.Identity](),
		log:       zap.S().Named("resume"),
	}
}

func (s *Store) Dir() string {
	return s.dir
}

// Path is the resume file location for id.
func (s *Store) Path(id engine.Identity) string {
	return filepath.Join(s.dir, id.String()+fileExt)
}

// Write truncates and rewrites the resume file for id. A crash part way through can leave a truncated file.
func (s *Store) Write(id engine.Identity, data []byte) error {
	unlock := s.locks.Lock(id)
	defer unlock()
	if err := os.WriteFile(s.Path(id), data, 0o644); err != nil {
		return fmt.Errorf("write resume file for %s: %w", id, err)
	}
	s.log.Debugf("wrote resume file for %s (%d bytes)", id, len(data))
	return nil
}

// Read returns the resume file for id. A missing file is reported with ok == false and no error.
func (s *Store) Read(id engine.Identity) (data []byte, ok bool, err error) {
	unlock := s.locks.Lock(id)
	defer unlock()
	f, err := os.Open(s.Path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}
	defer f.Close()
	data, err = io.ReadAll(io.LimitReader(f, s.sizeLimit+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(data)) > s.sizeLimit {
		return nil, false, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, s.Path(id), s.sizeLimit)
	}
	return data, true, nil
}

// Exists reports whether a resume file is present for id.
func (s *Store) Exists(id engine.Identity) bool {
	_, err := os.Stat(s.Path(id))
	return err == nil
}
