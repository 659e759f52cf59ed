// Package aom provides Go bindings for the libaom AV1 codec.
//
// Key pieces include:
//   - EncoderConfig: a chainable builder over the native encoder
//     configuration (rate control, keyframe policy, tiling, threading,
//     super-resolution, two-pass statistics)
//   - Encoder/Decoder: one native codec context each, with a pull-based
//     packet/frame drain protocol
//   - Frame and Packet value types, fully copied out of native memory
//   - AV1Packetizer/AV1Depacketizer: RTP payloading of encoder output
//     via pion/rtp
//   - Bitstream detection and runtime library probing
//
// # Sessions
//
//   Encode: NewEncoderConfig -> NewEncoder -> Encode/Flush -> NextPacket until nil -> Close
//   Decode: NewDecoder -> Decode/Flush -> NextFrame until exhausted -> Close
//
// Every Encode, Decode and Flush call resets the session's drain
// cursor; always drain to exhaustion before the next submission if all
// output is needed. A session is owned by one goroutine at a time:
// calls are synchronous and the package adds no locking. Distinct
// sessions are fully independent and may run on separate goroutines.
// The engine itself may spawn worker threads internally (see
// EncoderConfig.Threads and DecoderConfig.Threads); that is opaque to
// the caller.
//
// # Native Library
//
// The sessions link against the system libaom with cgo and pin the
// encoder/decoder ABI versions at build time; initialization fails
// with an InitError on mismatch rather than proceeding. Available and
// RuntimeVersion probe the shared library without cgo via purego.
package aom
