package aom

import "testing"

func TestNewFrameI420(t *testing.T) {
	f := NewFrame(4, 4, PixelFormatI420)

	if got := len(f.Data); got != 3 {
		t.Fatalf("plane count = %d, want 3", got)
	}
	if len(f.Data[0]) != 16 {
		t.Errorf("Y plane size = %d, want 16", len(f.Data[0]))
	}
	if len(f.Data[1]) != 4 || len(f.Data[2]) != 4 {
		t.Errorf("chroma plane sizes = %d, %d, want 4, 4", len(f.Data[1]), len(f.Data[2]))
	}
	if f.Stride[0] != 4 || f.Stride[1] != 2 || f.Stride[2] != 2 {
		t.Errorf("strides = %v, want [4 2 2]", f.Stride)
	}
	if f.Primaries != ColorPrimariesUnspecified || f.Transfer != TransferUnspecified || f.Matrix != MatrixUnspecified {
		t.Error("color metadata should default to unspecified")
	}
}

func TestNewFrameOddDimensions(t *testing.T) {
	// Chroma planes round up for odd dimensions.
	f := NewFrame(5, 5, PixelFormatI420)

	if f.Stride[1] != 3 {
		t.Errorf("chroma stride = %d, want 3", f.Stride[1])
	}
	if len(f.Data[1]) != 9 {
		t.Errorf("chroma plane size = %d, want 9", len(f.Data[1]))
	}
	if got := f.PlaneHeight(1); got != 3 {
		t.Errorf("PlaneHeight(1) = %d, want 3", got)
	}
}

func TestNewFrameNV12(t *testing.T) {
	f := NewFrame(4, 4, PixelFormatNV12)

	if got := len(f.Data); got != 2 {
		t.Fatalf("plane count = %d, want 2", got)
	}
	if f.Stride[1] != 4 {
		t.Errorf("UV stride = %d, want 4", f.Stride[1])
	}
	if len(f.Data[1]) != 8 {
		t.Errorf("UV plane size = %d, want 8", len(f.Data[1]))
	}
	if got := f.PlaneRowBytes(1); got != 4 {
		t.Errorf("PlaneRowBytes(1) = %d, want 4", got)
	}
}

func TestNewFrameHighBitDepth(t *testing.T) {
	f := NewFrame(4, 4, PixelFormatI42016)

	if !f.Format.HighBitDepth() {
		t.Fatal("I42016 should be high bit depth")
	}
	if f.Stride[0] != 8 {
		t.Errorf("Y stride = %d, want 8", f.Stride[0])
	}
	if len(f.Data[0]) != 32 {
		t.Errorf("Y plane size = %d, want 32", len(f.Data[0]))
	}
}

func TestFrameClone(t *testing.T) {
	f := NewFrame(4, 4, PixelFormatI420)
	f.PTS = 42
	f.Primaries = ColorPrimariesBT709
	f.Data[0][0] = 0xAA

	c := f.Clone()
	if c.PTS != 42 || c.Primaries != ColorPrimariesBT709 {
		t.Error("metadata not carried over")
	}
	if c.Data[0][0] != 0xAA {
		t.Error("pixel data not copied")
	}

	// Mutating the clone must not affect the original.
	c.Data[0][0] = 0xBB
	if f.Data[0][0] != 0xAA {
		t.Error("clone shares plane storage with original")
	}
}

func TestPixelFormatProperties(t *testing.T) {
	tests := []struct {
		format PixelFormat
		planes int
		sx, sy int
		bps    int
	}{
		{PixelFormatI420, 3, 1, 1, 1},
		{PixelFormatI422, 3, 1, 0, 1},
		{PixelFormatI444, 3, 0, 0, 1},
		{PixelFormatNV12, 2, 1, 1, 1},
		{PixelFormatI42016, 3, 1, 1, 2},
		{PixelFormatI42216, 3, 1, 0, 2},
		{PixelFormatI44416, 3, 0, 0, 2},
	}
	for _, tt := range tests {
		if got := tt.format.PlaneCount(); got != tt.planes {
			t.Errorf("%v: PlaneCount = %d, want %d", tt.format, got, tt.planes)
		}
		sx, sy := tt.format.ChromaShift()
		if sx != tt.sx || sy != tt.sy {
			t.Errorf("%v: ChromaShift = %d,%d, want %d,%d", tt.format, sx, sy, tt.sx, tt.sy)
		}
		if got := tt.format.BytesPerSample(); got != tt.bps {
			t.Errorf("%v: BytesPerSample = %d, want %d", tt.format, got, tt.bps)
		}
	}
}
