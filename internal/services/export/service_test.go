package export

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/quotedoc/internal/interfaces"
	"github.com/ternarybob/quotedoc/internal/models"
	"github.com/ternarybob/quotedoc/internal/services/composer"
)

type fakeTarget struct {
	id         string
	registry   *Registry
	mountErr   error
	rasterErr  error
	released   atomic.Int32
	mounted    string
	attachedAt bool
}

func (f *fakeTarget) ID() string { return f.id }

func (f *fakeTarget) Mount(_ context.Context, html string) error {
	f.mounted = html
	if f.registry != nil {
		for _, id := range f.registry.Active() {
			if id == f.id {
				f.attachedAt = true
			}
		}
	}
	return f.mountErr
}

func (f *fakeTarget) Rasterize(context.Context, interfaces.RasterOptions) (*models.Raster, error) {
	if f.rasterErr != nil {
		return nil, f.rasterErr
	}
	return &models.Raster{Data: []byte("jpeg:" + f.id), Width: 10, Height: 14, Scale: 2}, nil
}

func (f *fakeTarget) Release() error {
	f.released.Add(1)
	return nil
}

type fakeProvider struct {
	mu        sync.Mutex
	next      int
	targets   []*fakeTarget
	acquire   error
	mountErr  error
	rasterErr error
	registry  *Registry
}

func (p *fakeProvider) Acquire(context.Context) (interfaces.RenderTarget, error) {
	if p.acquire != nil {
		return nil, p.acquire
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next++
	t := &fakeTarget{
		id:        fmt.Sprintf("target-%d", p.next),
		registry:  p.registry,
		mountErr:  p.mountErr,
		rasterErr: p.rasterErr,
	}
	p.targets = append(p.targets, t)
	return t, nil
}

type fakeAssembler struct {
	mu   sync.Mutex
	err  error
	meta models.DocumentMeta
}

func (a *fakeAssembler) Assemble(raster *models.Raster, meta models.DocumentMeta) ([]byte, error) {
	if a.err != nil {
		return nil, a.err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.meta = meta
	return append([]byte("%PDF-"), raster.Data...), nil
}

type fakeInspector struct{ err error }

func (i *fakeInspector) Inspect(data []byte) (*interfaces.PDFMetadata, error) {
	if i.err != nil {
		return nil, i.err
	}
	return &interfaces.PDFMetadata{PageCount: 1, FileSize: int64(len(data))}, nil
}

type fakeSaver struct {
	mu    sync.Mutex
	err   error
	saved map[string][]byte
}

func (s *fakeSaver) Save(_ context.Context, fileName string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved == nil {
		s.saved = make(map[string][]byte)
	}
	s.saved[fileName] = data
	return s.err
}

type panicSaver struct{}

type saverFunc func(ctx context.Context, fileName string, data []byte) error

func (f saverFunc) Save(ctx context.Context, fileName string, data []byte) error {
	return f(ctx, fileName, data)
}

func (panicSaver) Save(context.Context, string, []byte) error { panic("saver exploded") }

type fixture struct {
	service   *Service
	provider  *fakeProvider
	assembler *fakeAssembler
	inspector *fakeInspector
	saver     *fakeSaver
}

func newFixture() *fixture {
	logger := arbor.NewLogger()
	f := &fixture{
		provider:  &fakeProvider{},
		assembler: &fakeAssembler{},
		inspector: &fakeInspector{},
		saver:     &fakeSaver{},
	}
	f.service = NewService(
		composer.NewService(composer.Options{}, logger),
		f.provider, f.assembler, f.inspector, f.saver,
		DefaultOptions(), logger,
	)
	f.provider.registry = f.service.Registry()
	return f
}

func exampleQuotation() *models.Quotation {
	return &models.Quotation{
		QuotationNumber: "QT-202312-0001",
		CreatedAt:       "2023-12-05T10:30:00.000Z",
		Items:           models.ItemsOf(models.RawLineItem{Name: "Helmet", Price: 100, Quantity: 5, UnitType: "Each"}),
		TaxRate:         15,
		Total:           500,
	}
}

func TestExport_SavesNamedDocument(t *testing.T) {
	f := newFixture()

	err := f.service.Export(context.Background(), exampleQuotation(), &models.Company{Name: "Acme Ltd"})
	require.NoError(t, err)

	require.Contains(t, f.saver.saved, "Quotation-QT-202312-0001.pdf")
	assert.Equal(t, []byte("%PDF-jpeg:target-1"), f.saver.saved["Quotation-QT-202312-0001.pdf"])

	require.Len(t, f.provider.targets, 1)
	target := f.provider.targets[0]
	assert.True(t, target.attachedAt, "target is registered while mounted")
	assert.Contains(t, target.mounted, "QT-202312-0001")
	assert.EqualValues(t, 1, target.released.Load())
	assert.Empty(t, f.service.Registry().Active())

	assert.Equal(t, "Quotation QT-202312-0001", f.assembler.meta.Title)
	assert.Equal(t, "Acme Ltd", f.assembler.meta.Author)
	assert.Equal(t, "quotedoc", f.assembler.meta.Creator)
}

func TestExport_ReleasesOnFailure(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name  string
		setup func(f *fixture)
	}{
		{name: "mount", setup: func(f *fixture) { f.provider.mountErr = boom }},
		{name: "rasterize", setup: func(f *fixture) { f.provider.rasterErr = boom }},
		{name: "assemble", setup: func(f *fixture) { f.assembler.err = boom }},
		{name: "validate", setup: func(f *fixture) { f.inspector.err = boom }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(f)

			err := f.service.Export(context.Background(), exampleQuotation(), nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, boom)

			assert.Empty(t, f.saver.saved, "saver is not called after a failure")
			require.Len(t, f.provider.targets, 1)
			assert.EqualValues(t, 1, f.provider.targets[0].released.Load())
			assert.Zero(t, f.service.Registry().Count())
		})
	}
}

func TestExport_SaveFailureIsReturned(t *testing.T) {
	f := newFixture()
	f.saver.err = errors.New("disk full")

	err := f.service.Export(context.Background(), exampleQuotation(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, f.saver.err)
	assert.EqualValues(t, 1, f.provider.targets[0].released.Load())
	assert.Zero(t, f.service.Registry().Count())
}

func TestExport_TargetHeldUntilSaveReturns(t *testing.T) {
	f := newFixture()

	var attached int
	var released int32 = -1
	saver := saverFunc(func(context.Context, string, []byte) error {
		attached = f.service.Registry().Count()
		released = f.provider.targets[0].released.Load()
		return nil
	})

	require.NoError(t, f.service.ExportTo(context.Background(), exampleQuotation(), nil, saver))

	assert.Equal(t, 1, attached, "target is registered while saving")
	assert.EqualValues(t, 0, released, "target is not released while saving")
	assert.EqualValues(t, 1, f.provider.targets[0].released.Load())
	assert.Zero(t, f.service.Registry().Count())
}

func TestExport_PanicInSaverStillReleases(t *testing.T) {
	f := newFixture()

	assert.Panics(t, func() {
		_ = f.service.ExportTo(context.Background(), exampleQuotation(), nil, panicSaver{})
	})
	assert.EqualValues(t, 1, f.provider.targets[0].released.Load())
	assert.Zero(t, f.service.Registry().Count())
}

func TestExport_NoRenderTarget(t *testing.T) {
	f := newFixture()
	f.provider.acquire = errors.New("pool exhausted")

	err := f.service.Export(context.Background(), exampleQuotation(), nil)
	assert.ErrorIs(t, err, ErrNoRenderTarget)
	assert.ErrorIs(t, err, f.provider.acquire)
	assert.Empty(t, f.saver.saved)

	service := NewService(composer.NewService(composer.Options{}, arbor.NewLogger()), nil, &fakeAssembler{}, nil, &fakeSaver{}, DefaultOptions(), arbor.NewLogger())
	assert.ErrorIs(t, service.Export(context.Background(), exampleQuotation(), nil), ErrNoRenderTarget)
}

func TestExport_NoSaver(t *testing.T) {
	logger := arbor.NewLogger()
	service := NewService(composer.NewService(composer.Options{}, logger), &fakeProvider{}, &fakeAssembler{}, nil, nil, DefaultOptions(), logger)

	assert.ErrorIs(t, service.Export(context.Background(), exampleQuotation(), nil), ErrNoSaver)
}

func TestExport_ConcurrentExportsAreIsolated(t *testing.T) {
	f := newFixture()
	const n = 8

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q := exampleQuotation()
			q.QuotationNumber = models.Text(fmt.Sprintf("QT-%02d", i))
			errs[i] = f.service.Export(context.Background(), q, nil)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Len(t, f.saver.saved, n)
	require.Len(t, f.provider.targets, n)
	for _, target := range f.provider.targets {
		assert.EqualValues(t, 1, target.released.Load(), target.id)
	}
	assert.Zero(t, f.service.Registry().Count())
}

func TestRegistry_DetachRemovesOnlyOwnHandle(t *testing.T) {
	r := NewRegistry()
	r.Attach("a")
	r.Attach("b")
	r.Detach("a")
	r.Detach("missing")

	assert.Equal(t, []string{"b"}, r.Active())
	assert.Equal(t, 1, r.Count())
}
