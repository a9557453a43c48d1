package localfs

import (
	"context"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"chartsrv/internal/pkg/errors"
	"chartsrv/internal/ports"
)

const imageExt = ".png"

// LocalFS implements ports.ImageStore on a single flat directory.
type LocalFS struct {
	root string
}

func New(root string) *LocalFS {
	return &LocalFS{root: root}
}

func (l *LocalFS) Provider() string { return "localfs" }

// Dir is the backing directory.
func (l *LocalFS) Dir() string { return l.root }

func (l *LocalFS) EnsureDir() error {
	if err := os.MkdirAll(l.root, 0o755); err != nil {
		return errors.WrapWithCode(err, errors.CodeStorage, "localfs.ensure_dir", "cannot create image directory "+l.root)
	}
	return nil
}

// PutImage writes data under a fresh <uuid>.png name.
func (l *LocalFS) PutImage(ctx context.Context, data []byte) (ports.PutImageOutput, error) {
	if err := ctx.Err(); err != nil {
		return ports.PutImageOutput{}, errors.WrapWithCode(err, errors.CodeStorage, "localfs.put", "")
	}

	name := uuid.NewString() + imageExt
	dst := filepath.Join(l.root, name)
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		_ = os.Remove(dst)
		return ports.PutImageOutput{}, errors.WrapWithCode(err, errors.CodeStorage, "localfs.put", "")
	}

	return ports.PutImageOutput{Filename: name, Size: int64(len(data))}, nil
}

func (l *LocalFS) OpenImage(ctx context.Context, filename string) (ports.ImageObject, error) {
	p, ok := l.path(filename)
	if !ok {
		return ports.ImageObject{}, errors.NotFound("image", filename)
	}

	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return ports.ImageObject{}, errors.NotFound("image", filename)
		}
		return ports.ImageObject{}, errors.WrapWithCode(err, errors.CodeStorage, "localfs.open", "")
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return ports.ImageObject{}, errors.WrapWithCode(err, errors.CodeStorage, "localfs.open", "")
	}
	if st.IsDir() {
		_ = f.Close()
		return ports.ImageObject{}, errors.NotFound("image", filename)
	}

	// Prefer extension-based type. If empty, sniff first bytes.
	contentType := mime.TypeByExtension(filepath.Ext(p))
	if contentType == "" {
		buf := make([]byte, 512)
		n, _ := f.Read(buf)
		_, _ = f.Seek(0, 0)
		contentType = http.DetectContentType(buf[:n])
	}

	return ports.ImageObject{
		Content:     f,
		ContentType: contentType,
		Size:        st.Size(),
		ModTime:     st.ModTime(),
	}, nil
}

// ListImages returns the regular files in the directory. Subdirectories are
// skipped, and entries that vanish mid-listing are ignored.
func (l *LocalFS) ListImages(ctx context.Context) ([]ports.ImageInfo, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeStorage, "localfs.list", "")
	}

	out := make([]ports.ImageInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, ports.ImageInfo{
			Filename: e.Name(),
			Size:     info.Size(),
			ModTime:  info.ModTime(),
		})
	}
	return out, nil
}

func (l *LocalFS) DeleteImage(ctx context.Context, filename string) error {
	p, ok := l.path(filename)
	if !ok {
		return errors.NotFound("image", filename)
	}
	if err := os.Remove(p); err != nil {
		if os.IsNotExist(err) {
			return errors.NotFound("image", filename)
		}
		return errors.WrapWithCode(err, errors.CodeStorage, "localfs.delete", "")
	}
	return nil
}

// path resolves a bare filename inside root. Names with separators or
// parent references are rejected.
func (l *LocalFS) path(filename string) (string, bool) {
	if filename == "" || filename == "." || filename == ".." ||
		strings.ContainsAny(filename, `/\`) || strings.Contains(filename, "..") ||
		strings.ContainsRune(filename, 0) {
		return "", false
	}
	return filepath.Join(l.root, filename), true
}
