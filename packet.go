package aom

// Packet is one unit of encoder output. The concrete type is one of
// FramePacket, StatsPacket, MBStatsPacket, PSNRPacket or CustomPacket;
// the set is closed and fixed by the ABI revision this package targets.
//
// All packet payloads are copies. They stay valid after further calls
// into the session.
type Packet interface {
	isPacket()
}

// FramePacket carries one compressed frame.
type FramePacket struct {
	Data     []byte // compressed payload
	PTS      int64  // presentation timestamp in timebase units
	Duration uint64 // duration in timebase units
	Keyframe bool   // frame is decodable without references
}

// StatsPacket carries a two-pass statistics buffer produced during the
// first encoding pass.
type StatsPacket struct {
	Data []byte
}

// MBStatsPacket carries first-pass macroblock statistics.
type MBStatsPacket struct {
	Data []byte
}

// PSNRPacket carries per-frame PSNR metrics. Index 0 aggregates all
// planes; indices 1-3 are Y, U and V.
type PSNRPacket struct {
	Samples [4]uint32 // number of samples
	SSE     [4]uint64 // sum of squared errors
	PSNR    [4]float64
}

// CustomPacket carries algorithm-private data emitted by the encoder.
type CustomPacket struct {
	Data []byte
}

func (*FramePacket) isPacket()   {}
func (*StatsPacket) isPacket()   {}
func (*MBStatsPacket) isPacket() {}
func (*PSNRPacket) isPacket()    {}
func (*CustomPacket) isPacket()  {}
