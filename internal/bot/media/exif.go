package media

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/go-faster/jx"
	"golang.org/x/image/webp"
)

const (
	vp8xFlagAlpha = 0x10
	vp8xFlagExif  = 0x08

	vp8lAlphaBit = 0x10
)

// exifHeader - заголовок TIFF с одной записью 0x5741, в которой WhatsApp ищет JSON пака.
// Длина JSON записывается в байты 14..17.
var exifHeader = []byte{
	0x49, 0x49, 0x2a, 0x00, 0x08, 0x00, 0x00, 0x00,
	0x01, 0x00, 0x41, 0x57, 0x07, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x16, 0x00, 0x00, 0x00,
}

// StickerMetadata - подпись пака, которую WhatsApp показывает под стикером.
type StickerMetadata struct {
	PackID    string
	PackName  string
	Publisher string
	Emojis    []string
}

func (m StickerMetadata) exif() []byte {
	var e jx.Encoder

	e.ObjStart()
	e.FieldStart("sticker-pack-id")
	e.Str(m.PackID)
	e.FieldStart("sticker-pack-name")
	e.Str(m.PackName)
	e.FieldStart("sticker-pack-publisher")
	e.Str(m.Publisher)
	e.FieldStart("sticker-pack-version")
	e.Str("1")
	e.FieldStart("sticker-pack-copyright")
	e.Str(m.Publisher)
	e.FieldStart("emojis")
	e.ArrStart()

	for _, emoji := range m.Emojis {
		e.Str(emoji)
	}

	e.ArrEnd()
	e.ObjEnd()

	payload := make([]byte, 0, len(exifHeader)+len(e.Bytes()))
	payload = append(payload, exifHeader...)
	payload = append(payload, e.Bytes()...)

	binary.LittleEndian.PutUint32(payload[14:18], uint32(len(e.Bytes())))

	return payload
}

type riffChunk struct {
	fourCC  string
	payload []byte
}

// WithExif встраивает метаданные пака в стикер WebP. Простой формат VP8/VP8L
// переводится в расширенный VP8X; старый чанк EXIF заменяется.
func WithExif(data []byte, meta StickerMetadata) ([]byte, error) {
	chunks, err := parseWebP(data)
	if err != nil {
		return nil, err
	}

	out := make([]riffChunk, 0, len(chunks)+2)

	switch chunks[0].fourCC {
	case "VP8X":
		header := append([]byte(nil), chunks[0].payload...)
		header[0] |= vp8xFlagExif
		out = append(out, riffChunk{fourCC: "VP8X", payload: header})
	case "VP8 ", "VP8L":
		header, err := extendedHeader(data, chunks[0])
		if err != nil {
			return nil, err
		}

		out = append(out, riffChunk{fourCC: "VP8X", payload: header})
		out = append(out, chunks[0])
	default:
		return nil, fmt.Errorf("неизвестный формат WebP: %q", chunks[0].fourCC)
	}

	for _, chunk := range chunks[1:] {
		if chunk.fourCC != "EXIF" {
			out = append(out, chunk)
		}
	}

	out = append(out, riffChunk{fourCC: "EXIF", payload: meta.exif()})

	return buildWebP(out), nil
}

func extendedHeader(data []byte, first riffChunk) ([]byte, error) {
	cfg, err := webp.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать размеры WebP: %w", err)
	}

	if cfg.Width < 1 || cfg.Height < 1 {
		return nil, fmt.Errorf("некорректные размеры WebP: %dx%d", cfg.Width, cfg.Height)
	}

	header := make([]byte, 10)
	header[0] = vp8xFlagExif

	if first.fourCC == "VP8L" && len(first.payload) >= 5 && first.payload[4]&vp8lAlphaBit != 0 {
		header[0] |= vp8xFlagAlpha
	}

	putUint24(header[4:7], uint32(cfg.Width-1))
	putUint24(header[7:10], uint32(cfg.Height-1))

	return header, nil
}

func parseWebP(data []byte) ([]riffChunk, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		return nil, fmt.Errorf("данные не являются WebP")
	}

	var chunks []riffChunk

	for rest := data[12:]; len(rest) >= 8; {
		size := int(binary.LittleEndian.Uint32(rest[4:8]))
		if size > len(rest)-8 {
			return nil, fmt.Errorf("поврежденный чанк WebP %q", rest[0:4])
		}

		chunks = append(chunks, riffChunk{
			fourCC:  string(rest[0:4]),
			payload: rest[8 : 8+size],
		})

		next := 8 + size + size%2
		if next > len(rest) {
			break
		}

		rest = rest[next:]
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("WebP без чанков")
	}

	return chunks, nil
}

func buildWebP(chunks []riffChunk) []byte {
	var body bytes.Buffer

	body.WriteString("WEBP")

	for _, chunk := range chunks {
		var size [4]byte
		binary.LittleEndian.PutUint32(size[:], uint32(len(chunk.payload)))

		body.WriteString(chunk.fourCC)
		body.Write(size[:])
		body.Write(chunk.payload)

		if len(chunk.payload)%2 == 1 {
			body.WriteByte(0)
		}
	}

	out := make([]byte, 8, 8+body.Len())
	copy(out, "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(body.Len()))

	return append(out, body.Bytes()...)
}

func putUint24(dst []byte, v uint32) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
}
