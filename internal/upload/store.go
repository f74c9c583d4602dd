// Package upload persists caller-supplied documents in a process-lifetime
// scratch directory and resolves opaque tokens back to files on demand.
package upload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cloudwego/eino-ext/components/document/loader/file"
	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/components/document/parser"
	"github.com/google/uuid"

	"auditgo/internal/models"
)

// BinaryContent is the sentinel returned by ReadText when a file holds no
// recoverable text.
const BinaryContent = "[binary content]"

// tokenPattern guards Resolve against glob injection via malformed ids.
var tokenPattern = regexp.MustCompile(`^[0-9a-f]{12}$`)

// newID returns a 12-character lowercase-hex token. 48 bits of a v4 UUID is
// collision-resistant enough for a scratch store that lives with the process.
func newID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:12]
}

// Store maps generated tokens to files under a scratch directory. Files are
// written once under a fresh unique name, so concurrent saves need no locking.
type Store struct {
	dir    string
	loader *file.FileLoader
	logger *slog.Logger
}

// NewStore creates the scratch directory and prepares the document loader
// used for text extraction. Loader setup failure degrades ReadText to a plain
// UTF-8 read rather than failing the store.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	s := &Store{dir: dir, logger: slog.Default()}

	parserExt, err := parser.NewExtParser(context.Background(), &parser.ExtParserConfig{
		FallbackParser: parser.TextParser{},
	})
	if err != nil {
		s.logger.Warn("document parser unavailable, falling back to plain reads", "error", err)
		return s, nil
	}
	loader, err := file.NewFileLoader(context.Background(), &file.FileLoaderConfig{
		UseNameAsID: true,
		Parser:      parserExt,
	})
	if err != nil {
		s.logger.Warn("file loader unavailable, falling back to plain reads", "error", err)
		return s, nil
	}
	s.loader = loader
	return s, nil
}

// Dir returns the scratch directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the content under a freshly generated token and returns the
// stored file's metadata.
func (s *Store) Save(r io.Reader, originalFilename string) (*models.UploadedFile, error) {
	id := newID()
	name := filepath.Base(originalFilename)
	destPath := filepath.Join(s.dir, id+"_"+name)

	dest, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("create upload %s: %w", destPath, err)
	}
	size, err := io.Copy(dest, r)
	closeErr := dest.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(destPath)
		return nil, fmt.Errorf("write upload %s: %w", destPath, err)
	}

	return &models.UploadedFile{
		ID:         id,
		FileName:   name,
		StoredPath: destPath,
		Size:       size,
		CreatedAt:  time.Now(),
	}, nil
}

// Resolve maps tokens back to stored files. Unknown or malformed ids are
// skipped, not errors: a client may reference a file that expired or was
// mistyped, and the audit degrades gracefully by omitting it.
func (s *Store) Resolve(ids []string) []*models.UploadedFile {
	resolved := make([]*models.UploadedFile, 0, len(ids))
	for _, id := range ids {
		if !tokenPattern.MatchString(id) {
			continue
		}
		matches, err := filepath.Glob(filepath.Join(s.dir, id+"_*"))
		if err != nil || len(matches) == 0 {
			continue
		}
		path := matches[0]
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		resolved = append(resolved, &models.UploadedFile{
			ID:         id,
			FileName:   strings.TrimPrefix(filepath.Base(path), id+"_"),
			StoredPath: path,
			Size:       info.Size(),
			CreatedAt:  info.ModTime(),
		})
	}
	return resolved
}

// ReadText extracts the file's text content. It never fails: undecodable or
// unreadable files yield the BinaryContent sentinel.
func (s *Store) ReadText(ctx context.Context, path string) string {
	if s.loader != nil {
		docs, err := s.loader.Load(ctx, document.Source{URI: path})
		if err == nil {
			var b strings.Builder
			for _, doc := range docs {
				content := strings.TrimSpace(doc.Content)
				if content == "" {
					continue
				}
				b.WriteString(content)
				b.WriteString("\n\n")
			}
			if text := strings.TrimSpace(b.String()); text != "" && utf8.ValidString(text) {
				return text
			}
		} else {
			s.logger.Debug("document loader failed, falling back to plain read", "path", path, "error", err)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil || !utf8.Valid(raw) {
		return BinaryContent
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return BinaryContent
	}
	return text
}
