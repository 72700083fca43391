package media_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/central-university-dev/go-wanbit/internal/bot/media"
)

// 1×1 lossy WebP.
const tinyWebP = "UklGRiIAAABXRUJQVlA4IBYAAAAwAQCdASoBAAEADsD+JaQAA3AAAAAA"

func solidPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

func TestFitImage_Landscape(t *testing.T) {
	out, err := media.FitImage(solidPNG(t, 200, 100))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, media.StickerSize, media.StickerSize), img.Bounds())

	_, _, _, topAlpha := img.At(256, 10).RGBA()
	assert.Zero(t, topAlpha, "полосы сверху и снизу прозрачные")

	_, _, _, centerAlpha := img.At(256, 256).RGBA()
	assert.Equal(t, uint32(0xffff), centerAlpha)
}

func TestFitImage_Portrait(t *testing.T) {
	out, err := media.FitImage(solidPNG(t, 50, 400))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	_, _, _, sideAlpha := img.At(5, 256).RGBA()
	assert.Zero(t, sideAlpha)

	_, _, _, centerAlpha := img.At(256, 256).RGBA()
	assert.Equal(t, uint32(0xffff), centerAlpha)
}

func TestFitImage_Garbage(t *testing.T) {
	_, err := media.FitImage([]byte("not an image"))
	require.Error(t, err)
}

func TestWebPToPNG(t *testing.T) {
	data, err := base64.StdEncoding.DecodeString(tinyWebP)
	require.NoError(t, err)

	out, err := media.WebPToPNG(data)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1, 1), img.Bounds())

	_, err = media.WebPToPNG(solidPNG(t, 2, 2))
	require.Error(t, err)
}

func TestTranscoder_MissingBinary(t *testing.T) {
	transcoder := media.NewTranscoder("/nonexistent/ffmpeg", slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := transcoder.ImageSticker(context.Background(), solidPNG(t, 10, 10))
	require.Error(t, err)
}

func TestTranscoder_ImageSticker(t *testing.T) {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		t.Skip("ffmpeg не установлен")
	}

	transcoder := media.NewTranscoder(path, slog.New(slog.NewTextHandler(io.Discard, nil)))

	out, err := transcoder.ImageSticker(context.Background(), solidPNG(t, 300, 120))
	require.NoError(t, err)

	require.Greater(t, len(out), 12)
	assert.Equal(t, "RIFF", string(out[:4]))
	assert.Equal(t, "WEBP", string(out[8:12]))
}
