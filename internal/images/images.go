// Package images stores rendered PNGs and builds their public URLs.
package images

import (
	"context"
	"strings"

	"chartsrv/internal/pkg/errors"
	"chartsrv/internal/ports"
)

// StoreFailedMessage is returned to clients when an image cannot be stored.
// The underlying cause is logged, not exposed.
const StoreFailedMessage = "failed to store rendered image"

// RoutePrefix is the path under which images are served.
const RoutePrefix = "/images/"

type Persister struct {
	store      ports.ImageStore
	publicHost string
}

func NewPersister(store ports.ImageStore, publicHost string) *Persister {
	return &Persister{store: store, publicHost: strings.TrimRight(publicHost, "/")}
}

// Persist stores data and returns its public URL.
func (p *Persister) Persist(ctx context.Context, data []byte) (string, error) {
	out, err := p.store.PutImage(ctx, data)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.CodeStorage, "images.persist", StoreFailedMessage).
			WithField("provider", p.store.Provider())
	}
	return p.URL(out.Filename), nil
}

// URL is <publicHost>/images/<filename>.
func (p *Persister) URL(filename string) string {
	return p.publicHost + RoutePrefix + filename
}
