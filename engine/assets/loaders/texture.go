package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	"github.com/spaghettifunk/trainyard/engine/core"
	"github.com/spaghettifunk/trainyard/engine/renderer/metadata"
	"github.com/spaghettifunk/trainyard/engine/scene"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type TextureLoader struct{}

/**
 * @brief Decodes an image file into a scene texture. params may be nil,
 * a metadata.ImageResourceParams or a pointer to one.
 */
func (tl *TextureLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	var p metadata.ImageResourceParams
	switch v := params.(type) {
	case nil:
	case metadata.ImageResourceParams:
		p = v
	case *metadata.ImageResourceParams:
		if v != nil {
			p = *v
		}
	default:
		return nil, fmt.Errorf("texture loader: unexpected params type %T", params)
	}

	// Open and decode the texture image file
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding '%s': %w", path, err)
	}
	rgba := toRGBA(img, p.MaxDimension)
	if p.FlipY {
		rgba = transform.FlipV(rgba)
	}

	tex := &scene.Texture{
		ID:         core.NewIdentifier(),
		Name:       filepath.Base(path),
		Image:      rgba,
		Width:      rgba.Rect.Dx(),
		Height:     rgba.Rect.Dy(),
		ColorSpace: scene.ColorSpaceLinear,
		FlipY:      p.FlipY,
	}
	if p.SRGB {
		tex.ColorSpace = scene.ColorSpaceSRGB
	}
	core.LogDebug("decoded %s texture '%s' %dx%d", format, tex.Name, tex.Width, tex.Height)

	return &metadata.Resource{
		FullPath: path,
		DataSize: uint64(info.Size()),
		Data:     tex,
	}, nil
}

func (tl *TextureLoader) Unload(res *metadata.Resource) error {
	if res != nil {
		res.Data = nil
	}
	return nil
}

// toRGBA converts img to RGBA with its origin at 0,0, scaling it down when
// one side exceeds maxDim.
func toRGBA(img image.Image, maxDim int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim > 0 && (w > maxDim || h > maxDim) {
		if w >= h {
			h = max(1, h*maxDim/w)
			w = maxDim
		} else {
			w = max(1, w*maxDim/h)
			h = maxDim
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		return dst
	}
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	return clone.AsRGBA(img)
}
