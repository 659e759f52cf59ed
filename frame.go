// Core frame and pixel types used across the aom package.
package aom

// PixelFormat represents the layout of an uncompressed picture.
//
// The set mirrors the image formats the native engine accepts; formats
// with the 16 suffix carry high bit-depth samples stored as two bytes
// per sample, low byte first.
type PixelFormat int

const (
	PixelFormatI420   PixelFormat = iota // YUV 4:2:0 planar, 8-bit
	PixelFormatI422                      // YUV 4:2:2 planar, 8-bit
	PixelFormatI444                      // YUV 4:4:4 planar, 8-bit
	PixelFormatNV12                      // YUV 4:2:0 semi-planar (Y + interleaved UV)
	PixelFormatI42016                    // YUV 4:2:0 planar, 10/12-bit in 16-bit samples
	PixelFormatI42216                    // YUV 4:2:2 planar, 10/12-bit in 16-bit samples
	PixelFormatI44416                    // YUV 4:4:4 planar, 10/12-bit in 16-bit samples
)

func (p PixelFormat) String() string {
	switch p {
	case PixelFormatI420:
		return "I420"
	case PixelFormatI422:
		return "I422"
	case PixelFormatI444:
		return "I444"
	case PixelFormatNV12:
		return "NV12"
	case PixelFormatI42016:
		return "I42016"
	case PixelFormatI42216:
		return "I42216"
	case PixelFormatI44416:
		return "I44416"
	default:
		return "Unknown"
	}
}

// PlaneCount returns the number of planes for this pixel format.
func (p PixelFormat) PlaneCount() int {
	switch p {
	case PixelFormatNV12:
		return 2 // Y, UV
	case PixelFormatI420, PixelFormatI422, PixelFormatI444,
		PixelFormatI42016, PixelFormatI42216, PixelFormatI44416:
		return 3 // Y, U, V
	default:
		return 0
	}
}

// ChromaShift returns the horizontal and vertical chroma subsampling
// shifts (log2 of the subsampling factor).
func (p PixelFormat) ChromaShift() (x, y int) {
	switch p {
	case PixelFormatI420, PixelFormatNV12, PixelFormatI42016:
		return 1, 1
	case PixelFormatI422, PixelFormatI42216:
		return 1, 0
	case PixelFormatI444, PixelFormatI44416:
		return 0, 0
	default:
		return 0, 0
	}
}

// BytesPerSample returns 1 for 8-bit formats and 2 for high bit-depth
// formats.
func (p PixelFormat) BytesPerSample() int {
	switch p {
	case PixelFormatI42016, PixelFormatI42216, PixelFormatI44416:
		return 2
	default:
		return 1
	}
}

// HighBitDepth reports whether samples are stored as 16-bit values.
func (p PixelFormat) HighBitDepth() bool { return p.BytesPerSample() == 2 }

// ColorPrimaries identifies the chromaticity coordinates of the source
// primaries (ITU-T H.273 code points, value-compatible with the native
// enum).
type ColorPrimaries int

const (
	ColorPrimariesBT709       ColorPrimaries = 1
	ColorPrimariesUnspecified ColorPrimaries = 2
	ColorPrimariesBT470M      ColorPrimaries = 4
	ColorPrimariesBT470BG     ColorPrimaries = 5
	ColorPrimariesBT601       ColorPrimaries = 6
	ColorPrimariesSMPTE240    ColorPrimaries = 7
	ColorPrimariesFilm        ColorPrimaries = 8
	ColorPrimariesBT2020      ColorPrimaries = 9
	ColorPrimariesXYZ         ColorPrimaries = 10
	ColorPrimariesSMPTE431    ColorPrimaries = 11
	ColorPrimariesSMPTE432    ColorPrimaries = 12
	ColorPrimariesEBU3213     ColorPrimaries = 22
)

// TransferCharacteristics identifies the opto-electronic transfer
// function (ITU-T H.273 code points).
type TransferCharacteristics int

const (
	TransferBT709       TransferCharacteristics = 1
	TransferUnspecified TransferCharacteristics = 2
	TransferBT470M      TransferCharacteristics = 4
	TransferBT470BG     TransferCharacteristics = 5
	TransferBT601       TransferCharacteristics = 6
	TransferSMPTE240    TransferCharacteristics = 7
	TransferLinear      TransferCharacteristics = 8
	TransferSRGB        TransferCharacteristics = 13
	TransferBT2020_10   TransferCharacteristics = 14
	TransferBT2020_12   TransferCharacteristics = 15
	TransferSMPTE2084   TransferCharacteristics = 16
	TransferHLG         TransferCharacteristics = 18
)

// MatrixCoefficients identifies the matrix used to derive luma and
// chroma (ITU-T H.273 code points).
type MatrixCoefficients int

const (
	MatrixIdentity    MatrixCoefficients = 0
	MatrixBT709       MatrixCoefficients = 1
	MatrixUnspecified MatrixCoefficients = 2
	MatrixFCC         MatrixCoefficients = 4
	MatrixBT470BG     MatrixCoefficients = 5
	MatrixBT601       MatrixCoefficients = 6
	MatrixSMPTE240    MatrixCoefficients = 7
	MatrixBT2020NCL   MatrixCoefficients = 9
	MatrixBT2020CL    MatrixCoefficients = 10
)

// Frame represents a raw video frame.
//
// The Data slices hold the plane storage; Stride gives the distance in
// bytes between the starts of consecutive rows of each plane. Planes
// passed to Encode only need to stay valid for the duration of that
// call.
type Frame struct {
	Data   [][]byte    // Plane data (2 or 3 planes depending on format)
	Stride []int       // Stride for each plane in bytes
	Width  int         // Display width in pixels
	Height int         // Display height in pixels
	Format PixelFormat // Pixel format
	PTS    int64       // Presentation timestamp in timebase units

	Primaries ColorPrimaries
	Transfer  TransferCharacteristics
	Matrix    MatrixCoefficients

	// UserData carries caller-supplied data attached on Decode and
	// returned on the matching NextFrame. Nil otherwise.
	UserData any
}

// NewFrame allocates a zero-filled frame with tightly packed planes for
// the given format and dimensions.
func NewFrame(width, height int, format PixelFormat) *Frame {
	sx, sy := format.ChromaShift()
	bps := format.BytesPerSample()

	yStride := width * bps
	cWidth := (width + (1 << sx) - 1) >> sx
	cHeight := (height + (1 << sy) - 1) >> sy

	f := &Frame{
		Width:     width,
		Height:    height,
		Format:    format,
		Primaries: ColorPrimariesUnspecified,
		Transfer:  TransferUnspecified,
		Matrix:    MatrixUnspecified,
	}

	switch format.PlaneCount() {
	case 2: // NV12: full-width interleaved chroma rows
		f.Data = [][]byte{
			make([]byte, yStride*height),
			make([]byte, yStride*cHeight),
		}
		f.Stride = []int{yStride, yStride}
	case 3:
		cStride := cWidth * bps
		f.Data = [][]byte{
			make([]byte, yStride*height),
			make([]byte, cStride*cHeight),
			make([]byte, cStride*cHeight),
		}
		f.Stride = []int{yStride, cStride, cStride}
	}
	return f
}

// Clone creates a deep copy of the frame. UserData is carried over by
// reference.
func (f *Frame) Clone() *Frame {
	clone := *f
	clone.Data = make([][]byte, len(f.Data))
	clone.Stride = make([]int, len(f.Stride))
	copy(clone.Stride, f.Stride)
	for i, plane := range f.Data {
		if plane != nil {
			clone.Data[i] = make([]byte, len(plane))
			copy(clone.Data[i], plane)
		}
	}
	return &clone
}

// PlaneHeight returns the number of pixel rows in the given plane.
func (f *Frame) PlaneHeight(plane int) int {
	if plane == 0 {
		return f.Height
	}
	_, sy := f.Format.ChromaShift()
	return (f.Height + (1 << sy) - 1) >> sy
}

// PlaneRowBytes returns the number of payload bytes per row in the
// given plane (excluding stride padding).
func (f *Frame) PlaneRowBytes(plane int) int {
	bps := f.Format.BytesPerSample()
	if plane == 0 {
		return f.Width * bps
	}
	sx, _ := f.Format.ChromaShift()
	w := (f.Width + (1 << sx) - 1) >> sx
	if f.Format == PixelFormatNV12 {
		w *= 2 // interleaved U and V
	}
	return w * bps
}
