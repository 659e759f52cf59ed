package aom

import (
	"sync"

	"github.com/pion/rtp"
	"github.com/pion/rtp/codecs"
)

// AV1Packetizer splits encoder output into RTP packets using the AV1
// RTP payload format, via pion's AV1Payloader.
type AV1Packetizer struct {
	ssrc        uint32
	payloadType uint8
	mtu         int
	sequencer   rtp.Sequencer
	payloader   *codecs.AV1Payloader
	mu          sync.Mutex
}

// NewAV1Packetizer creates a packetizer for the given RTP stream
// parameters.
func NewAV1Packetizer(ssrc uint32, payloadType uint8, mtu int) *AV1Packetizer {
	if mtu <= 0 {
		mtu = 1200
	}
	return &AV1Packetizer{
		ssrc:        ssrc,
		payloadType: payloadType,
		mtu:         mtu,
		sequencer:   rtp.NewRandomSequencer(),
		payloader:   &codecs.AV1Payloader{},
	}
}

// Packetize converts one compressed frame into RTP packets. The frame
// data must be a sequence of OBUs, which is what Encoder emits.
// timestamp is the frame's RTP timestamp (90 kHz clock).
func (p *AV1Packetizer) Packetize(frame *FramePacket, timestamp uint32) ([]*rtp.Packet, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if frame == nil || len(frame.Data) == 0 {
		return nil, nil
	}

	payloads := p.payloader.Payload(uint16(p.mtu-12), frame.Data)
	if len(payloads) == 0 {
		return nil, nil
	}

	packets := make([]*rtp.Packet, len(payloads))
	for i, payload := range payloads {
		packets[i] = &rtp.Packet{
			Header: rtp.Header{
				Version:        2,
				Marker:         i == len(payloads)-1, // marker on last packet of the frame
				PayloadType:    p.payloadType,
				SequenceNumber: p.sequencer.NextSequenceNumber(),
				Timestamp:      timestamp,
				SSRC:           p.ssrc,
			},
			Payload: payload,
		}
	}
	return packets, nil
}

// PacketizeToBytes converts one compressed frame to marshaled RTP
// packet bytes.
func (p *AV1Packetizer) PacketizeToBytes(frame *FramePacket, timestamp uint32) ([][]byte, error) {
	packets, err := p.Packetize(frame, timestamp)
	if err != nil {
		return nil, err
	}
	result := make([][]byte, len(packets))
	for i, pkt := range packets {
		result[i], err = pkt.Marshal()
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (p *AV1Packetizer) SSRC() uint32       { p.mu.Lock(); defer p.mu.Unlock(); return p.ssrc }
func (p *AV1Packetizer) PayloadType() uint8 { p.mu.Lock(); defer p.mu.Unlock(); return p.payloadType }
func (p *AV1Packetizer) MTU() int           { p.mu.Lock(); defer p.mu.Unlock(); return p.mtu }
func (p *AV1Packetizer) SetMTU(mtu int)     { p.mu.Lock(); p.mtu = mtu; p.mu.Unlock() }

// AV1Depacketizer reassembles frames from RTP packets. It parses the
// AV1 RTP aggregation format with pion's AV1Packet, then reframes the
// OBUs with explicit size fields so the result feeds straight into
// Decoder.Decode.
type AV1Depacketizer struct {
	av1Packet codecs.AV1Packet
	obuBuffer []byte
	seqHeader []byte // cached sequence header, prepended to delta frames that lack one
	timestamp uint32
	keyframe  bool

	lastCompletedTS   uint32
	hasCompletedFrame bool
	mu                sync.Mutex
}

// NewAV1Depacketizer creates an empty depacketizer.
func NewAV1Depacketizer() *AV1Depacketizer {
	return &AV1Depacketizer{}
}

// Depacketize consumes one RTP packet. When the packet completes a
// frame it returns the frame's OBU data and whether it is a keyframe;
// until then it returns nil data. Corrupt payloads are dropped
// silently, matching RTP loss semantics.
func (d *AV1Depacketizer) Depacketize(pkt *rtp.Packet) (data []byte, keyframe bool, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(pkt.Payload) < 1 {
		return nil, false, nil
	}

	// Discard late-arriving packets for already completed frames.
	if d.hasCompletedFrame && rtpTimestampOlder(pkt.Header.Timestamp, d.lastCompletedTS) {
		return nil, false, nil
	}

	// A timestamp change means a new frame started; drop any partial
	// accumulation.
	if d.timestamp != 0 && d.timestamp != pkt.Header.Timestamp {
		d.obuBuffer = d.obuBuffer[:0]
	}
	d.timestamp = pkt.Header.Timestamp

	obus, err := d.av1Packet.Unmarshal(pkt.Payload)
	if err != nil {
		return nil, false, nil
	}

	if d.av1Packet.N {
		d.keyframe = true
	}

	for _, obu := range d.av1Packet.OBUElements {
		if len(obu) > 0 {
			d.obuBuffer = append(d.obuBuffer, ensureOBUSize(obu)...)
		}
	}
	if len(obus) > 0 {
		d.obuBuffer = append(d.obuBuffer, ensureOBUSize(obus)...)
	}

	if !pkt.Header.Marker {
		return nil, false, nil
	}

	// Frame complete. Cache the sequence header from keyframes so
	// delta frames that arrive without one stay decodable.
	if d.keyframe {
		if hdr := extractSequenceHeader(d.obuBuffer); hdr != nil {
			d.seqHeader = hdr
		}
	}
	data = normalizeOBUs(d.obuBuffer, d.seqHeader, d.keyframe)
	keyframe = d.keyframe

	d.lastCompletedTS = d.timestamp
	d.hasCompletedFrame = true
	d.obuBuffer = d.obuBuffer[:0]
	d.keyframe = false
	return data, keyframe, nil
}

// Reset clears any buffered partial frame.
func (d *AV1Depacketizer) Reset() {
	d.mu.Lock()
	d.obuBuffer = d.obuBuffer[:0]
	d.timestamp = 0
	d.keyframe = false
	d.lastCompletedTS = 0
	d.hasCompletedFrame = false
	d.mu.Unlock()
}

// rtpTimestampOlder reports whether ts1 is not newer than ts2 under
// 32-bit wraparound: ts1 is older when (ts2 - ts1) < 2^31.
func rtpTimestampOlder(ts1, ts2 uint32) bool {
	if ts1 == ts2 {
		return true
	}
	return ts2-ts1 < 0x80000000
}

// extractSequenceHeader returns the sequence header OBU from size-
// framed OBU data, or nil if none is present.
func extractSequenceHeader(data []byte) []byte {
	offset := 0
	for offset < len(data) {
		header := data[offset]
		forbidden := (header >> 7) & 0x01
		obuType := (header >> 3) & 0x0F
		extFlag := (header >> 2) & 0x01
		hasSize := (header >> 1) & 0x01

		if forbidden != 0 {
			break
		}

		headerSize := 1
		if extFlag == 1 {
			headerSize = 2
		}
		if offset+headerSize > len(data) {
			break
		}

		if hasSize == 0 {
			// OBU without size field extends to the end of the buffer.
			if obuType == 1 {
				return data[offset:]
			}
			break
		}

		sizeOffset := offset + headerSize
		if sizeOffset >= len(data) {
			break
		}
		payloadSize, sizeBytes := readLEB128(data[sizeOffset:])
		if sizeBytes == 0 {
			break
		}
		total := headerSize + sizeBytes + int(payloadSize)
		if offset+total > len(data) {
			break
		}
		if obuType == 1 {
			return data[offset : offset+total]
		}
		offset += total
	}
	return nil
}

// normalizeOBUs prefixes a temporal delimiter and, for delta frames
// missing one, the cached sequence header, yielding the low-overhead
// OBU stream the decoder expects.
func normalizeOBUs(data []byte, seqHeader []byte, keyframe bool) []byte {
	if len(data) == 0 {
		return nil
	}

	// Temporal delimiter OBU: type 2, has-size set, empty payload.
	result := []byte{0x12, 0x00}

	if !keyframe && seqHeader != nil {
		hasSeqHdr := (data[0]>>7)&0x01 == 0 && (data[0]>>3)&0x0F == 1
		if !hasSeqHdr {
			result = append(result, seqHeader...)
		}
	}
	return append(result, data...)
}

// ensureOBUSize returns the OBU with its has-size bit set and a LEB128
// size field in place; OBUs that already carry one pass through
// unchanged.
func ensureOBUSize(obu []byte) []byte {
	if len(obu) == 0 {
		return obu
	}

	header := obu[0]
	hasSize := (header >> 1) & 0x01
	extFlag := (header >> 2) & 0x01

	if hasSize == 1 {
		return obu
	}

	headerSize := 1
	if extFlag == 1 {
		headerSize = 2
	}
	if len(obu) < headerSize {
		return obu
	}
	payloadLen := len(obu) - headerSize

	result := []byte{header | 0x02}
	if extFlag == 1 {
		result = append(result, obu[1])
	}
	result = append(result, writeLEB128(uint64(payloadLen))...)
	return append(result, obu[headerSize:]...)
}

// readLEB128 reads a LEB128 encoded value, returning the value and the
// number of bytes consumed (0 on malformed input).
func readLEB128(data []byte) (uint64, int) {
	var value uint64
	for i := 0; i < len(data) && i < 8; i++ {
		b := data[i]
		value |= uint64(b&0x7F) << (i * 7)
		if b&0x80 == 0 {
			return value, i + 1
		}
	}
	return 0, 0
}

// writeLEB128 encodes a value as LEB128.
func writeLEB128(value uint64) []byte {
	if value == 0 {
		return []byte{0}
	}
	var result []byte
	for value > 0 {
		b := byte(value & 0x7F)
		value >>= 7
		if value > 0 {
			b |= 0x80
		}
		result = append(result, b)
	}
	return result
}
