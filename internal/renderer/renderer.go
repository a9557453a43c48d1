// Package renderer turns chart specs into PNG bytes.
//
// The Engine is the rasterizing collaborator; Adapter is what the HTTP layer
// calls. Adapter always releases the engine's image handle after copying the
// bytes out.
package renderer

import (
	"context"

	"chartsrv/internal/chart"
	"chartsrv/internal/pkg/errors"
)

// Image is a rendered image owned by the engine until Release is called.
// Bytes must not be used after Release.
type Image interface {
	Bytes() []byte
	Release()
}

// Engine renders a decoded spec.
type Engine interface {
	Render(ctx context.Context, spec chart.Spec) (Image, error)
}

type Adapter struct {
	engine Engine
}

func NewAdapter(engine Engine) *Adapter {
	return &Adapter{engine: engine}
}

// Render decodes req, renders it and returns a copy of the image bytes. Every
// failure carries errors.CodeRender and the renderer's own message.
func (a *Adapter) Render(ctx context.Context, req *chart.Request) ([]byte, error) {
	spec, err := req.Spec()
	if err != nil {
		return nil, err
	}

	img, err := a.renderSafely(ctx, spec)
	if img != nil {
		defer img.Release()
	}
	if err != nil {
		return nil, asRenderError(err)
	}
	if img == nil {
		return nil, errors.Render("renderer returned no image")
	}

	b := img.Bytes()
	if len(b) == 0 {
		return nil, errors.Render("renderer produced an empty image")
	}

	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (a *Adapter) renderSafely(ctx context.Context, spec chart.Spec) (img Image, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			img = nil
			err = errors.Renderf("renderer panicked: %v", rec)
		}
	}()
	return a.engine.Render(ctx, spec)
}

func asRenderError(err error) error {
	if errors.IsCode(err, errors.CodeRender) {
		return err
	}
	return errors.WrapWithCode(err, errors.CodeRender, "renderer.render", "")
}
