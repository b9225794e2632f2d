package pdf

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/quotedoc/internal/models"
)

func jpegRaster(t *testing.T, width, height int) *models.Raster {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y += 10 {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 98}))
	return &models.Raster{Data: buf.Bytes(), Width: width, Height: height, Scale: 2}
}

func TestAssembler_Pages(t *testing.T) {
	logger := arbor.NewLogger()
	assembler := NewAssembler(DefaultMarginMM, logger)
	inspector := NewInspector(logger)

	tests := []struct {
		name      string
		width     int
		height    int
		wantPages int
	}{
		{name: "A4 at 1x", width: 794, height: 1123, wantPages: 1},
		{name: "A4 at 2x", width: 1588, height: 2246, wantPages: 1},
		{name: "short document", width: 794, height: 400, wantPages: 1},
		{name: "long table", width: 794, height: 2600, wantPages: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := assembler.Assemble(jpegRaster(t, tt.width, tt.height), models.DocumentMeta{
				Title:   "Quotation QT-1",
				Author:  "Acme Ltd",
				Creator: "quotedoc",
			})
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

			meta, err := inspector.Inspect(data)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPages, meta.PageCount)
			assert.Equal(t, int64(len(data)), meta.FileSize)
			assert.False(t, meta.IsEncrypted)
		})
	}
}

func TestAssembler_RejectsBadInput(t *testing.T) {
	assembler := NewAssembler(0, arbor.NewLogger())

	_, err := assembler.Assemble(nil, models.DocumentMeta{})
	assert.ErrorIs(t, err, ErrEmptyRaster)

	_, err = assembler.Assemble(&models.Raster{Data: []byte("not an image")}, models.DocumentMeta{})
	assert.Error(t, err)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 10, 10))))
	_, err = assembler.Assemble(&models.Raster{Data: buf.Bytes()}, models.DocumentMeta{})
	assert.Error(t, err, "only JPEG rasters are accepted")
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 1, pageCount(0, 287))
	assert.Equal(t, 1, pageCount(287, 287))
	assert.Equal(t, 1, pageCount(287.4, 287))
	assert.Equal(t, 2, pageCount(288, 287))
	assert.Equal(t, 3, pageCount(600, 287))
}

func TestInspector_RejectsGarbage(t *testing.T) {
	_, err := NewInspector(arbor.NewLogger()).Inspect([]byte("%PDF-1.4 garbage"))
	assert.Error(t, err)
}

func TestInspector_ReadsPageCount(t *testing.T) {
	logger := arbor.NewLogger()

	data, err := NewAssembler(DefaultMarginMM, logger).Assemble(jpegRaster(t, 794, 2600), models.DocumentMeta{Title: "Quotation"})
	require.NoError(t, err)

	meta, err := NewInspector(logger).Inspect(data)
	require.NoError(t, err)
	assert.Equal(t, 3, meta.PageCount)
	assert.EqualValues(t, len(data), meta.FileSize)
	assert.False(t, meta.IsEncrypted)
}
