package sources_test

import (
	"context"
	"io"

	"github.com/deppmann/biocards/pkg/sources"
)

type stubSource struct {
	id sources.ID
}

func (s stubSource) ID() sources.ID { return s.id }

func (s stubSource) List(context.Context) ([]sources.File, error) { return nil, nil }

func (s stubSource) Download(context.Context, sources.File, io.Writer) error { return nil }
