//go:build cgo

package aom

import (
	"errors"
	"runtime"
	"testing"
)

// createTestFrame creates an I420 frame filled with a gradient pattern.
func createTestFrame(width, height int) *Frame {
	f := NewFrame(width, height, PixelFormatI420)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			f.Data[0][y*f.Stride[0]+x] = byte((x + y) % 256)
		}
	}
	for y := 0; y < f.PlaneHeight(1); y++ {
		for x := 0; x < f.PlaneRowBytes(1); x++ {
			f.Data[1][y*f.Stride[1]+x] = 128
			f.Data[2][y*f.Stride[2]+x] = 128
		}
	}
	return f
}

// setupEncoder builds a one-pass constrained-quality encoder, the
// configuration the drain and roundtrip tests share.
func setupEncoder(t *testing.T, w, h int) *Encoder {
	t.Helper()

	cfg, err := NewEncoderConfig(UsageGoodQuality)
	if err != nil {
		t.Fatalf("NewEncoderConfig failed: %v", err)
	}
	cfg.Width(w).Height(h).
		Timebase(1, 1000).
		Threads(4).
		Pass(PassSingle).
		RateControl(RateControlCQ).
		MinQuantizer(0).
		MaxQuantizer(63)

	enc, err := cfg.NewEncoder()
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}
	if err := enc.Control(ControlCQLevel, 4); err != nil {
		enc.Close()
		t.Fatalf("Control(CQLevel) failed: %v", err)
	}
	if err := enc.Control(ControlCPUUsed, 8); err != nil {
		enc.Close()
		t.Fatalf("Control(CPUUsed) failed: %v", err)
	}
	return enc
}

// drainPackets pulls packets until the cursor is exhausted.
func drainPackets(e *Encoder) []Packet {
	var out []Packet
	for {
		p := e.NextPacket()
		if p == nil {
			return out
		}
		out = append(out, p)
	}
}

func TestEncoderCreateValidSizes(t *testing.T) {
	sizes := []struct{ w, h int }{
		{64, 64},
		{128, 96},
		{200, 200},
		{320, 240},
	}
	for _, s := range sizes {
		enc := setupEncoder(t, s.w, s.h)
		enc.Close()
	}
}

func TestEncoderInvalidConfig(t *testing.T) {
	cfg, err := NewEncoderConfig(UsageGoodQuality)
	if err != nil {
		t.Fatalf("NewEncoderConfig failed: %v", err)
	}
	cfg.Width(0).Height(0)

	_, err = cfg.NewEncoder()
	if err == nil {
		t.Fatal("expected error for zero dimensions")
	}
	var initErr *InitError
	if !errors.As(err, &initErr) {
		t.Fatalf("error type = %T, want *InitError", err)
	}
	if initErr.Code == CodeOK {
		t.Error("InitError should carry a non-OK native code")
	}
}

// TestEncoderScenario encodes 100 synthetic frames with a forced
// keyframe at index 0 and verifies output is produced, the first
// compressed frame is a keyframe, and the drain is idempotent once
// exhausted.
func TestEncoderScenario(t *testing.T) {
	enc := setupEncoder(t, 200, 200)
	defer enc.Close()

	frame := createTestFrame(200, 200)

	var frames []*FramePacket
	collect := func() {
		for _, p := range drainPackets(enc) {
			if fp, ok := p.(*FramePacket); ok {
				frames = append(frames, fp)
			}
		}
	}

	enc.ForceKeyframe()
	for i := 0; i < 100; i++ {
		frame.PTS = int64(i)
		if err := enc.Encode(frame); err != nil {
			t.Fatalf("Encode frame %d failed: %v", i, err)
		}
		collect()
	}

	if err := enc.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	collect()

	if len(frames) == 0 {
		t.Fatal("no compressed frames produced")
	}
	if !frames[0].Keyframe {
		t.Error("first compressed frame should be a keyframe")
	}
	if frames[0].PTS != 0 {
		t.Errorf("first frame PTS = %d, want 0", frames[0].PTS)
	}
	for _, fp := range frames {
		if len(fp.Data) == 0 {
			t.Fatal("compressed frame with empty payload")
		}
	}

	// Exhausted drain stays empty.
	if p := enc.NextPacket(); p != nil {
		t.Errorf("NextPacket after exhaustion = %T, want nil", p)
	}
	if p := enc.NextPacket(); p != nil {
		t.Errorf("repeated NextPacket after exhaustion = %T, want nil", p)
	}
}

func TestEncoderForcedKeyframeInterval(t *testing.T) {
	const total, interval = 30, 10

	enc := setupEncoder(t, 128, 96)
	defer enc.Close()

	frame := createTestFrame(128, 96)

	var keyIndexes []int
	idx := 0
	collect := func() {
		for _, p := range drainPackets(enc) {
			fp, ok := p.(*FramePacket)
			if !ok {
				continue
			}
			if fp.Keyframe {
				keyIndexes = append(keyIndexes, idx)
			}
			idx++
		}
	}

	for i := 0; i < total; i++ {
		if i%interval == 0 {
			enc.ForceKeyframe()
		}
		frame.PTS = int64(i)
		if err := enc.Encode(frame); err != nil {
			t.Fatalf("Encode frame %d failed: %v", i, err)
		}
		collect()
	}
	if err := enc.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	collect()

	if idx != total {
		t.Fatalf("compressed frames = %d, want %d", idx, total)
	}
	// At least one keyframe inside every forced window.
	for w := 0; w < total/interval; w++ {
		found := false
		for _, k := range keyIndexes {
			if k >= w*interval && k < (w+1)*interval {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("no keyframe in window [%d, %d)", w*interval, (w+1)*interval)
		}
	}
}

func TestEncoderControlRejected(t *testing.T) {
	enc := setupEncoder(t, 64, 64)
	defer enc.Close()

	err := enc.Control(ControlCQLevel, 200) // valid range is 0..63
	if err == nil {
		t.Fatal("expected out-of-range control to be rejected")
	}
	var ctlErr *ControlError
	if !errors.As(err, &ctlErr) {
		t.Fatalf("error type = %T, want *ControlError", err)
	}
	if ctlErr.ID != ControlCQLevel || ctlErr.Value != 200 {
		t.Errorf("ControlError = %+v, want id/value echoed back", ctlErr)
	}

	// The session stays usable after a rejected control.
	if err := enc.Encode(createTestFrame(64, 64)); err != nil {
		t.Errorf("Encode after rejected control failed: %v", err)
	}
}

func TestEncoderClosed(t *testing.T) {
	enc := setupEncoder(t, 64, 64)
	if err := enc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Close is idempotent.
	if err := enc.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	if err := enc.Encode(createTestFrame(64, 64)); !errors.Is(err, ErrClosed) {
		t.Errorf("Encode after Close = %v, want ErrClosed", err)
	}
	if err := enc.Flush(); !errors.Is(err, ErrClosed) {
		t.Errorf("Flush after Close = %v, want ErrClosed", err)
	}
	if p := enc.NextPacket(); p != nil {
		t.Error("NextPacket after Close should return nil")
	}
}

// TestEncoderTwoPass runs a full statistics round: a first-pass
// session emits StatsPackets, whose concatenated bytes feed a
// second-pass session that produces the compressed frames.
func TestEncoderTwoPass(t *testing.T) {
	const w, h, count = 64, 64, 8

	newPassConfig := func(p Pass) *EncoderConfig {
		cfg, err := NewEncoderConfig(UsageGoodQuality)
		if err != nil {
			t.Fatalf("NewEncoderConfig failed: %v", err)
		}
		return cfg.Width(w).Height(h).
			Timebase(1, 1000).
			Pass(p).
			RateControl(RateControlVBR).
			TargetBitrate(200)
	}

	first, err := newPassConfig(PassFirst).NewEncoder()
	if err != nil {
		t.Fatalf("first pass NewEncoder failed: %v", err)
	}
	if err := first.Control(ControlCPUUsed, 8); err != nil {
		first.Close()
		t.Fatalf("Control(CPUUsed) failed: %v", err)
	}

	frame := createTestFrame(w, h)

	var stats []byte
	collectStats := func() {
		for _, p := range drainPackets(first) {
			if sp, ok := p.(*StatsPacket); ok {
				stats = append(stats, sp.Data...)
			}
		}
	}
	for i := 0; i < count; i++ {
		frame.PTS = int64(i)
		if err := first.Encode(frame); err != nil {
			t.Fatalf("first pass Encode frame %d failed: %v", i, err)
		}
		collectStats()
	}
	if err := first.Flush(); err != nil {
		t.Fatalf("first pass Flush failed: %v", err)
	}
	collectStats()
	first.Close()

	if len(stats) == 0 {
		t.Fatal("first pass produced no statistics")
	}

	second, err := newPassConfig(PassSecond).TwoPassStatsIn(stats).NewEncoder()
	if err != nil {
		t.Fatalf("second pass NewEncoder failed: %v", err)
	}
	defer second.Close()
	if err := second.Control(ControlCPUUsed, 8); err != nil {
		t.Fatalf("Control(CPUUsed) failed: %v", err)
	}

	frames := 0
	collectFrames := func() {
		for _, p := range drainPackets(second) {
			if fp, ok := p.(*FramePacket); ok {
				if len(fp.Data) == 0 {
					t.Fatal("second pass frame with empty payload")
				}
				frames++
			}
		}
	}
	for i := 0; i < count; i++ {
		frame.PTS = int64(i)
		if err := second.Encode(frame); err != nil {
			t.Fatalf("second pass Encode frame %d failed: %v", i, err)
		}
		collectFrames()
	}
	if err := second.Flush(); err != nil {
		t.Fatalf("second pass Flush failed: %v", err)
	}
	collectFrames()

	if frames != count {
		t.Errorf("second pass produced %d frames, want %d", frames, count)
	}
}

func TestEncoderInvalidConfigWithStats(t *testing.T) {
	cfg, err := NewEncoderConfig(UsageGoodQuality)
	if err != nil {
		t.Fatalf("NewEncoderConfig failed: %v", err)
	}
	cfg.Width(0).Height(0).
		Pass(PassSecond).
		TwoPassStatsIn([]byte{1, 2, 3}).
		FirstPassMBStatsIn([]byte{4, 5, 6})

	// The failed init path must release the stats copies it made.
	_, err = cfg.NewEncoder()
	if err == nil {
		t.Fatal("expected error for zero dimensions")
	}
	var initErr *InitError
	if !errors.As(err, &initErr) {
		t.Fatalf("error type = %T, want *InitError", err)
	}
}

func TestEncoderPSNR(t *testing.T) {
	cfg, err := NewEncoderConfig(UsageGoodQuality)
	if err != nil {
		t.Fatalf("NewEncoderConfig failed: %v", err)
	}
	cfg.Width(64).Height(64).
		Timebase(1, 1000).
		RateControl(RateControlCQ).
		MinQuantizer(0).
		MaxQuantizer(63).
		PSNR(true)

	enc, err := cfg.NewEncoder()
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}
	defer enc.Close()
	if err := enc.Control(ControlCQLevel, 4); err != nil {
		t.Fatalf("Control(CQLevel) failed: %v", err)
	}
	if err := enc.Control(ControlCPUUsed, 8); err != nil {
		t.Fatalf("Control(CPUUsed) failed: %v", err)
	}

	frame := createTestFrame(64, 64)

	var metrics []*PSNRPacket
	collect := func() {
		for _, p := range drainPackets(enc) {
			if pp, ok := p.(*PSNRPacket); ok {
				metrics = append(metrics, pp)
			}
		}
	}
	for i := 0; i < 5; i++ {
		frame.PTS = int64(i)
		if err := enc.Encode(frame); err != nil {
			t.Fatalf("Encode frame %d failed: %v", i, err)
		}
		collect()
	}
	if err := enc.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	collect()

	if len(metrics) == 0 {
		t.Fatal("no PSNR packets produced")
	}
	for _, m := range metrics {
		if m.Samples[0] == 0 {
			t.Error("PSNR packet with zero samples")
		}
		if m.PSNR[0] <= 0 {
			t.Errorf("overall PSNR = %f, want > 0", m.PSNR[0])
		}
	}
}

// The native context holds its configuration across calls; the session
// must stay valid through garbage collection.
func TestEncoderAfterGC(t *testing.T) {
	enc := setupEncoder(t, 64, 64)
	defer enc.Close()

	runtime.GC()

	if err := enc.Encode(createTestFrame(64, 64)); err != nil {
		t.Fatalf("Encode after GC failed: %v", err)
	}
	if err := enc.Flush(); err != nil {
		t.Fatalf("Flush after GC failed: %v", err)
	}
	if len(drainPackets(enc)) == 0 {
		t.Fatal("no output after GC")
	}
}

func TestVersion(t *testing.T) {
	major, _, _ := Version()
	if major < 1 {
		t.Errorf("library major version = %d", major)
	}
	if VersionString() == "" {
		t.Error("empty version string")
	}
}
