package media

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// StickerSize - сторона квадратного холста стикера WhatsApp.
const StickerSize = 512

// FitImage вписывает изображение в прозрачный квадрат StickerSize с сохранением пропорций
// и возвращает результат в PNG.
func FitImage(data []byte) ([]byte, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("не удалось декодировать изображение: %w", err)
	}

	bounds := src.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("пустое изображение формата %s", format)
	}

	dst := image.NewRGBA(image.Rect(0, 0, StickerSize, StickerSize))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	draw.CatmullRom.Scale(dst, fitRect(bounds.Dx(), bounds.Dy(), StickerSize), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("не удалось закодировать PNG: %w", err)
	}

	return buf.Bytes(), nil
}

// fitRect возвращает прямоугольник w×h, вписанный по центру в квадрат size.
func fitRect(w, h, size int) image.Rectangle {
	dw, dh := size, size

	if w > h {
		dh = h * size / w
	} else if h > w {
		dw = w * size / h
	}

	if dw < 1 {
		dw = 1
	}

	if dh < 1 {
		dh = 1
	}

	x := (size - dw) / 2
	y := (size - dh) / 2

	return image.Rect(x, y, x+dw, y+dh)
}

// WebPToPNG декодирует статичный стикер WebP в PNG.
func WebPToPNG(data []byte) ([]byte, error) {
	img, err := webp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("не удалось декодировать WebP: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("не удалось закодировать PNG: %w", err)
	}

	return buf.Bytes(), nil
}
