// Package codec adapts the JPEG image format to the narrow interface
// imgfs's operations consume: decode, thumbnail-resize, encode and
// dimensions. It is the external collaborator named in the spec's scope
// boundary - imgfs never touches image.Image directly.
/*
 * Copyright (c) 2018, NVIDIA CORPORATION. All rights reserved.
 */
package codec

import (
	"bytes"
	"image"
	"image/jpeg"

	"github.com/imaneoujja/IMGFS/cmn"
)

// Image is the in-memory decoded form produced by Decode and consumed by
// Thumbnail and Encode.
type Image = image.Image

// JPEGQuality is the quality imgfs re-encodes resized derivatives at.
const JPEGQuality = 90

// Decode parses JPEG bytes into an Image. Returns KindImgLib on any
// decode failure (truncated buffer, non-JPEG content, ...).
func Decode(buf []byte) (Image, error) {
	img, err := jpeg.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, cmn.WrapErr(cmn.KindImgLib, err, "decode jpeg")
	}
	return img, nil
}

// Dimensions reads only the width and height of a JPEG buffer.
func Dimensions(buf []byte) (width, height uint32, err error) {
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return 0, 0, cmn.WrapErr(cmn.KindImgLib, err, "read jpeg dimensions")
	}
	return uint32(cfg.Width), uint32(cfg.Height), nil
}

// Thumbnail resizes img to exactly width x height using nearest-neighbour
// sampling. imgfs never requests the resize kernel be more sophisticated
// than this: resized_res targets are small, fixed, and cached after first
// materialisation, so resample quality is not on the store's critical path.
func Thumbnail(img Image, width, height uint32) Image {
	if width == 0 || height == 0 {
		return img
	}
	src := img.Bounds()
	srcW, srcH := src.Dx(), src.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	for y := 0; y < int(height); y++ {
		sy := src.Min.Y + y*srcH/int(height)
		for x := 0; x < int(width); x++ {
			sx := src.Min.X + x*srcW/int(width)
			dst.Set(x, y, img.At(sx, sy))
		}
	}
	return dst
}

// Encode re-serialises img as a JPEG byte buffer.
func Encode(img Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, cmn.WrapErr(cmn.KindImgLib, err, "encode jpeg")
	}
	return buf.Bytes(), nil
}
