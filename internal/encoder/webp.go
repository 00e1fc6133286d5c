package encoder

import (
	"fmt"
	"image"
	"os"
	"os/exec"
	"strconv"
	"sync"

	"github.com/disintegration/imaging"
)

// WebPEncoder encodes previews by shelling out to cwebp. Go has a WebP
// decoder but no encoder. Quality 100 asks cwebp for lossless output.
// Install: brew install webp / apt install webp
type WebPEncoder struct {
	once      sync.Once
	available bool
	cwebpPath string
}

func (e *WebPEncoder) Format() string       { return "webp" }
func (e *WebPEncoder) Extensions() []string { return []string{"webp"} }

func (e *WebPEncoder) Available() bool {
	e.once.Do(func() {
		path, err := exec.LookPath("cwebp")
		if err == nil {
			e.available = true
			e.cwebpPath = path
		}
	})
	return e.available
}

func (e *WebPEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if !e.Available() {
		return nil, fmt.Errorf("cwebp not found in PATH; install with: brew install webp")
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	dir, err := os.MkdirTemp("", "texturec-webp-*")
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	defer os.RemoveAll(dir)

	srcPath := dir + "/src.png"
	dstPath := dir + "/dst.webp"
	if err := imaging.Save(img, srcPath); err != nil {
		return nil, fmt.Errorf("encode temp png: %w", err)
	}

	args := []string{"-quiet", "-m", "6"}
	if quality == 100 {
		args = append(args, "-lossless", "-exact")
	} else {
		args = append(args, "-q", strconv.Itoa(quality))
	}
	args = append(args, srcPath, "-o", dstPath)
	if out, err := exec.Command(e.cwebpPath, args...).CombinedOutput(); err != nil {
		return nil, fmt.Errorf("cwebp: %w: %s", err, string(out))
	}
	return os.ReadFile(dstPath)
}
