package avatars

import (
	"bytes"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultSize      = 128
	defaultBlockSize = 16
)

// Generator produces identicon avatars and writes them under a directory.
type Generator struct {
	dir       string
	size      int
	blockSize int
}

// NewGenerator creates a Generator writing PNG files into dir. The directory
// is created if missing.
func NewGenerator(dir string) (*Generator, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create avatar directory: %w", err)
	}
	return &Generator{dir: dir, size: defaultSize, blockSize: defaultBlockSize}, nil
}

// Generate renders the identicon for text, writes it as <filename>.png under
// the generator's directory, and returns the file path.
func (g *Generator) Generate(text, filename string) (string, error) {
	img := g.render(text)

	path := filepath.Join(g.dir, filename+".png")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create avatar file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("failed to encode avatar: %w", err)
	}
	return path, nil
}

// DataURI renders the identicon for text and returns it as an inline
// data:image/png;base64 URI.
func (g *Generator) DataURI(text string) (string, error) {
	img := g.render(text)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode avatar: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// SaveDataURI decodes an inline data:image/png;base64 URI supplied by a
// client, writes it as <filename>.png under the generator's directory, and
// returns the file path.
func (g *Generator) SaveDataURI(dataURI, filename string) (string, error) {
	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(dataURI, prefix) {
		return "", fmt.Errorf("unsupported image data URI")
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURI, prefix))
	if err != nil {
		return "", fmt.Errorf("failed to decode image data URI: %w", err)
	}
	if _, err := png.Decode(bytes.NewReader(raw)); err != nil {
		return "", fmt.Errorf("image data URI is not a valid PNG: %w", err)
	}

	path := filepath.Join(g.dir, filename+".png")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write avatar file: %w", err)
	}
	return path, nil
}

// render draws the mirrored block pattern for text.
func (g *Generator) render(text string) image.Image {
	sum := md5.Sum([]byte(text))
	hashHex := hex.EncodeToString(sum[:])

	// First three digest bytes are the block color.
	blockColor := color.RGBA{R: sum[0], G: sum[1], B: sum[2], A: 0xff}

	img := image.NewRGBA(image.Rect(0, 0, g.size, g.size))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	numBlocks := g.size / g.blockSize
	for y := 0; y < numBlocks; y++ {
		for x := 0; x < numBlocks/2; x++ {
			nibble := hashHex[(x+y*numBlocks)%len(hashHex)]
			on := hexDigitValue(nibble)%2 == 0
			if !on {
				continue
			}
			g.fillBlock(img, x, y, blockColor)
			// Mirror horizontally.
			g.fillBlock(img, numBlocks-x-1, y, blockColor)
		}
	}
	return img
}

func (g *Generator) fillBlock(img *image.RGBA, bx, by int, c color.RGBA) {
	rect := image.Rect(bx*g.blockSize, by*g.blockSize, (bx+1)*g.blockSize, (by+1)*g.blockSize)
	draw.Draw(img, rect, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

func hexDigitValue(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	}
	return 0
}
