package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

const tgaHeaderSize = 18

var errTGATruncated = errors.New("TGA data truncated")

// DecodeTGA decodes a TGA image file.
// Supports uncompressed true-color (type 2) and RLE compressed (type 10) TGA
// files at 24 or 32 bits per pixel.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("TGA data too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("unsupported TGA type %d (only uncompressed/RLE true-color supported)", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d (only 24/32 supported)", bpp)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, errTGATruncated
	}

	d := tgaDecoder{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		pix:         data[offset:],
		width:       width,
		height:      height,
		bytesPerPix: bpp / 8,
		topToBottom: descriptor&0x20 != 0, // bit 5: origin at top
	}

	var err error
	if imageType == TGATypeUncompressed {
		err = d.decodeRaw()
	} else {
		err = d.decodeRLE()
	}
	if err != nil {
		return nil, err
	}
	return d.img, nil
}

type tgaDecoder struct {
	img         *image.RGBA
	pix         []byte
	width       int
	height      int
	bytesPerPix int
	topToBottom bool
}

// colorAt reads one BGR(A) pixel at byte offset i.
func (d *tgaDecoder) colorAt(i int) color.RGBA {
	c := color.RGBA{B: d.pix[i], G: d.pix[i+1], R: d.pix[i+2], A: 255}
	if d.bytesPerPix == 4 {
		c.A = d.pix[i+3]
	}
	return c
}

// put stores the n-th pixel in file order.
func (d *tgaDecoder) put(n int, c color.RGBA) {
	x := n % d.width
	y := n / d.width
	if !d.topToBottom {
		y = d.height - 1 - y
	}
	d.img.SetRGBA(x, y, c)
}

func (d *tgaDecoder) decodeRaw() error {
	count := d.width * d.height
	if len(d.pix) < count*d.bytesPerPix {
		return errTGATruncated
	}
	for n := 0; n < count; n++ {
		d.put(n, d.colorAt(n*d.bytesPerPix))
	}
	return nil
}

func (d *tgaDecoder) decodeRLE() error {
	count := d.width * d.height
	n := 0
	i := 0

	for n < count {
		if i >= len(d.pix) {
			return errTGATruncated
		}
		packet := d.pix[i]
		i++
		run := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// Run-length packet: one pixel repeated
			if i+d.bytesPerPix > len(d.pix) {
				return errTGATruncated
			}
			c := d.colorAt(i)
			i += d.bytesPerPix
			for k := 0; k < run && n < count; k++ {
				d.put(n, c)
				n++
			}
			continue
		}

		// Raw packet: run literal pixels
		for k := 0; k < run && n < count; k++ {
			if i+d.bytesPerPix > len(d.pix) {
				return errTGATruncated
			}
			d.put(n, d.colorAt(i))
			i += d.bytesPerPix
			n++
		}
	}
	return nil
}
