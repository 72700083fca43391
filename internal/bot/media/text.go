package media

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	textPadding     = 24
	maxFontSize     = 120
	minFontSize     = 24
	fontSizeStep    = 8
	textFrameDelay  = 10
	textAlphaCutoff = 0x80
)

// rainbow - цвета кадров анимированного текста.
var rainbow = []color.RGBA{
	{R: 0xff, G: 0x00, B: 0x00, A: 0xff},
	{R: 0xff, G: 0x8c, B: 0x00, A: 0xff},
	{R: 0xff, G: 0xee, B: 0x00, A: 0xff},
	{R: 0x00, G: 0xd2, B: 0x3f, A: 0xff},
	{R: 0x00, G: 0xa2, B: 0xff, A: 0xff},
	{R: 0x6a, G: 0x3d, B: 0xff, A: 0xff},
	{R: 0xe0, G: 0x2d, B: 0xff, A: 0xff},
}

// RainbowTextGIF рисует текст по центру квадрата StickerSize и возвращает GIF,
// в котором цвет текста перебирает радугу.
func RainbowTextGIF(text string) ([]byte, error) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil, fmt.Errorf("пустой текст")
	}

	parsed, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("не удалось загрузить шрифт: %w", err)
	}

	face, lines, err := fitText(parsed, text)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	mask := renderMask(face, lines)

	anim := &gif.GIF{LoopCount: 0}

	for _, c := range rainbow {
		frame := image.NewPaletted(mask.Bounds(), color.Palette{color.Transparent, c})

		for i, a := range mask.Pix {
			if a >= textAlphaCutoff {
				frame.Pix[i] = 1
			}
		}

		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, textFrameDelay)
		anim.Disposal = append(anim.Disposal, gif.DisposalBackground)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, fmt.Errorf("не удалось закодировать GIF: %w", err)
	}

	return buf.Bytes(), nil
}

// fitText подбирает наибольший кегль, при котором перенесенный по словам текст
// помещается в холст.
func fitText(parsed *opentype.Font, text string) (font.Face, []string, error) {
	width := StickerSize - 2*textPadding

	for size := maxFontSize; size >= minFontSize; size -= fontSizeStep {
		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    float64(size),
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("не удалось создать начертание: %w", err)
		}

		lines, ok := wrapText(face, text, width)

		height := len(lines) * face.Metrics().Height.Ceil()
		if ok && height <= width {
			return face, lines, nil
		}

		face.Close()
	}

	return nil, nil, fmt.Errorf("текст не помещается в стикер")
}

// wrapText переносит текст по словам; ok=false, если одно слово шире строки.
func wrapText(face font.Face, text string, width int) ([]string, bool) {
	var (
		lines   []string
		current string
	)

	for _, word := range strings.Fields(text) {
		if font.MeasureString(face, word).Ceil() > width {
			return nil, false
		}

		candidate := word
		if current != "" {
			candidate = current + " " + word
		}

		if font.MeasureString(face, candidate).Ceil() <= width {
			current = candidate
			continue
		}

		lines = append(lines, current)
		current = word
	}

	if current != "" {
		lines = append(lines, current)
	}

	return lines, true
}

func renderMask(face font.Face, lines []string) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, StickerSize, StickerSize))

	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	top := (StickerSize - len(lines)*lineHeight) / 2

	drawer := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
	}

	for i, line := range lines {
		x := (StickerSize - drawer.MeasureString(line).Ceil()) / 2
		y := top + i*lineHeight + metrics.Ascent.Ceil()

		drawer.Dot = fixed.P(x, y)
		drawer.DrawString(line)
	}

	return mask
}
