package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteRequest is one document handed to a Sink.
type WriteRequest struct {
	Key             string
	Data            []byte
	ContentType     string
	ContentEncoding string
}

// Sink stores exported documents.
type Sink interface {
	Write(ctx context.Context, req WriteRequest) error
	// Location describes where key ends up, for the export log.
	Location(key string) string
}

// FileSink writes documents below a local directory.
type FileSink struct {
	dir string
}

// NewFileSink returns a sink writing into dir. The directory is created on
// first write.
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

func (s *FileSink) Write(ctx context.Context, req WriteRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req.Key == "" {
		return fmt.Errorf("empty key")
	}
	if !filepath.IsLocal(req.Key) {
		return fmt.Errorf("key %q escapes the export directory", req.Key)
	}

	path := s.Location(req.Key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	// Write through a temp file so readers never see a partial document.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, req.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

func (s *FileSink) Location(key string) string {
	return filepath.Join(s.dir, filepath.FromSlash(strings.TrimLeft(key, "/")))
}
