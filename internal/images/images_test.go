package images

import (
	"context"
	stderrors "errors"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartsrv/internal/adapters/storage/localfs"
	"chartsrv/internal/pkg/errors"
	"chartsrv/internal/ports"
)

func TestPersistWritesAndReturnsURL(t *testing.T) {
	dir := t.TempDir()
	p := NewPersister(localfs.New(dir), "https://charts.example.com")

	url, err := p.Persist(context.Background(), []byte("png"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "https://charts.example.com/images/"))

	name := path.Base(url)
	b, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "png", string(b))
}

func TestURLTrimsTrailingSlash(t *testing.T) {
	p := NewPersister(localfs.New(t.TempDir()), "http://localhost:3200/")
	assert.Equal(t, "http://localhost:3200/images/a.png", p.URL("a.png"))
}

type failingStore struct {
	ports.ImageStore
}

func (failingStore) Provider() string { return "failing" }

func (failingStore) PutImage(context.Context, []byte) (ports.PutImageOutput, error) {
	return ports.PutImageOutput{}, stderrors.New("disk full: /var/lib/images")
}

func TestPersistFailureHidesCause(t *testing.T) {
	p := NewPersister(failingStore{}, "http://localhost:3200")

	url, err := p.Persist(context.Background(), []byte("png"))
	require.Error(t, err)
	assert.Empty(t, url)
	assert.True(t, errors.IsCode(err, errors.CodeStorage))
	assert.Equal(t, StoreFailedMessage, errors.PublicMessage(err, ""))
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, "failing", errors.GetFields(err)["provider"])
}
