package common

// WritePixel writes one RGB triple into dst at the given pixel index,
// packing it according to format. dst must be at least
// (index+1)*format.BytesPerPixel() bytes long.
//
// Parameters:
//   - dst: the destination canvas slice
//   - index: the pixel index (not byte offset) within dst
//   - r, g, b: the channel values to write
//   - format: the pixel layout to pack into
func WritePixel(dst []byte, index int, r, g, b byte, format PixelFormat) {
	off := index * format.BytesPerPixel()
	switch format {
	case XRGB8888:
		dst[off+0] = b
		dst[off+1] = g
		dst[off+2] = r
		dst[off+3] = 0xff
	case XBGR8888:
		dst[off+0] = r
		dst[off+1] = g
		dst[off+2] = b
		dst[off+3] = 0xff
	case RGB888:
		dst[off+0] = r
		dst[off+1] = g
		dst[off+2] = b
	case BGR888:
		dst[off+0] = b
		dst[off+1] = g
		dst[off+2] = r
	}
}

// ReadPixel unpacks one RGB triple from src at the given pixel index,
// according to format.
//
// Parameters:
//   - src: the source canvas slice
//   - index: the pixel index (not byte offset) within src
//   - format: the pixel layout to unpack from
//
// Returns:
//   - r, g, b: the unpacked channel values
func ReadPixel(src []byte, index int, format PixelFormat) (r, g, b byte) {
	off := index * format.BytesPerPixel()
	switch format {
	case XRGB8888:
		return src[off+2], src[off+1], src[off+0]
	case XBGR8888:
		return src[off+0], src[off+1], src[off+2]
	case RGB888:
		return src[off+0], src[off+1], src[off+2]
	case BGR888:
		return src[off+2], src[off+1], src[off+0]
	}
	return 0, 0, 0
}

// Fill writes color to every pixel of a width*height canvas in format.
//
// Parameters:
//   - dst: the destination canvas slice, sized width*height*format.BytesPerPixel()
//   - width, height: the canvas dimensions in pixels
//   - color: the solid color to fill with
//   - format: the pixel layout to pack into
func Fill(dst []byte, width, height int, color Color, format PixelFormat) {
	n := width * height
	for i := 0; i < n; i++ {
		WritePixel(dst, i, color[0], color[1], color[2], format)
	}
}
