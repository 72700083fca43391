package media

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const maxVideoSeconds = "10"

// Transcoder кодирует стикеры WebP внешним процессом ffmpeg.
type Transcoder struct {
	ffmpegPath string
	logger     *slog.Logger
}

func NewTranscoder(ffmpegPath string, logger *slog.Logger) *Transcoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}

	return &Transcoder{
		ffmpegPath: ffmpegPath,
		logger:     logger,
	}
}

// ImageSticker вписывает изображение в 512×512 и кодирует его в WebP.
func (t *Transcoder) ImageSticker(ctx context.Context, data []byte) ([]byte, error) {
	fitted, err := FitImage(data)
	if err != nil {
		return nil, err
	}

	return t.run(ctx, bytes.NewReader(fitted),
		"-f", "png_pipe", "-i", "pipe:0",
		"-vcodec", "libwebp", "-lossless", "0", "-q:v", "80",
		"-f", "webp", "pipe:1",
	)
}

// VideoSticker обрезает видео до 10 секунд и кодирует анимированный WebP 512×512.
// Контейнеры вроде mp4 требуют перемотки, поэтому вход пишется во временный файл.
func (t *Transcoder) VideoSticker(ctx context.Context, data []byte) ([]byte, error) {
	dir, err := os.MkdirTemp("", "wanbit-sticker-")
	if err != nil {
		return nil, fmt.Errorf("не удалось создать временный каталог: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input")
	if err := os.WriteFile(input, data, 0o600); err != nil {
		return nil, fmt.Errorf("не удалось записать временный файл: %w", err)
	}

	return t.run(ctx, nil,
		"-i", input,
		"-t", maxVideoSeconds,
		"-vcodec", "libwebp",
		"-vf", "scale=512:512:force_original_aspect_ratio=decrease,fps=15,"+
			"pad=512:512:-1:-1:color=0x00000000,format=yuva420p",
		"-loop", "0", "-preset", "default", "-an", "-vsync", "0",
		"-f", "webp", "pipe:1",
	)
}

func (t *Transcoder) run(ctx context.Context, stdin *bytes.Reader, args ...string) ([]byte, error) {
	full := append([]string{"-hide_banner", "-loglevel", "error", "-y"}, args...)

	cmd := exec.CommandContext(ctx, t.ffmpegPath, full...)

	var stdout, stderr bytes.Buffer

	if stdin != nil {
		cmd.Stdin = stdin
	}

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		t.logger.Error("Ошибка ffmpeg",
			"error", err,
			"stderr", strings.TrimSpace(stderr.String()),
		)

		return nil, fmt.Errorf("ffmpeg завершился с ошибкой: %w", err)
	}

	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg не вернул данных")
	}

	return stdout.Bytes(), nil
}

// TextSticker рисует анимированный радужный текст и кодирует его в WebP.
func (t *Transcoder) TextSticker(ctx context.Context, text string) ([]byte, error) {
	animated, err := RainbowTextGIF(text)
	if err != nil {
		return nil, err
	}

	return t.run(ctx, bytes.NewReader(animated),
		"-f", "gif", "-i", "pipe:0",
		"-vcodec", "libwebp", "-lossless", "0", "-q:v", "80",
		"-pix_fmt", "yuva420p", "-loop", "0", "-an", "-vsync", "0",
		"-f", "webp", "pipe:1",
	)
}
