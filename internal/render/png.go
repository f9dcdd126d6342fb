package render

import (
	"image"
	"image/png"
	"os"

	"github.com/pkg/errors"
)

// WritePNG encodes img to path, replacing any existing file.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create snapshot")
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "encode %s", path)
	}
	return errors.Wrap(f.Close(), "close snapshot")
}
