package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/quotedoc/internal/interfaces"
)

// Saver writes documents into a directory. Files appear atomically: data is
// written to a temp file in the same directory and renamed into place.
type Saver struct {
	dir    string
	logger arbor.ILogger
}

// Compile-time assertion
var _ interfaces.DocumentSaver = (*Saver)(nil)

// NewSaver creates a saver for dir, creating it when missing
func NewSaver(dir string, logger arbor.ILogger) (*Saver, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Saver{dir: dir, logger: logger}, nil
}

// Dir returns the output directory
func (s *Saver) Dir() string {
	return s.dir
}

// Save writes data as dir/fileName, replacing any existing file
func (s *Saver) Save(ctx context.Context, fileName string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name := filepath.Base(fileName)
	if name == "." || name == string(filepath.Separator) || strings.TrimSpace(name) == "" {
		return fmt.Errorf("invalid file name %q", fileName)
	}
	target := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions on %s: %w", name, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move %s into place: %w", name, err)
	}

	s.logger.Info().
		Str("path", target).
		Int("size", len(data)).
		Msg("Document saved")

	return nil
}
