package aom

// BitstreamFormat identifies how a compressed AV1 buffer is framed.
type BitstreamFormat int

const (
	BitstreamUnknown BitstreamFormat = iota
	BitstreamOBU                     // raw low-overhead OBU stream, decoder input format
	BitstreamIVF                     // IVF container ("DKIF" with AV01 fourcc)
)

func (f BitstreamFormat) String() string {
	switch f {
	case BitstreamOBU:
		return "OBU"
	case BitstreamIVF:
		return "IVF"
	default:
		return "Unknown"
	}
}

// DetectBitstream probes the first bytes of a compressed buffer and
// reports how it is framed. Returns BitstreamUnknown if the data does
// not look like AV1.
func DetectBitstream(data []byte) BitstreamFormat {
	if len(data) >= 32 && string(data[0:4]) == "DKIF" && string(data[8:12]) == "AV01" {
		return BitstreamIVF
	}
	if isOBU(data) {
		return BitstreamOBU
	}
	return BitstreamUnknown
}

// isOBU checks for a plausible AV1 OBU header.
// Per the AV1 bitstream specification, section 5.3.2, the header is:
//   - obu_forbidden_bit (1 bit): must be 0
//   - obu_type (4 bits): valid types are 1-8 and 15
//   - obu_extension_flag (1 bit)
//   - obu_has_size_field (1 bit)
func isOBU(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	forbidden := (data[0] >> 7) & 0x01
	obuType := (data[0] >> 3) & 0x0F
	if forbidden != 0 {
		return false
	}
	return (obuType >= 1 && obuType <= 8) || obuType == 15
}
