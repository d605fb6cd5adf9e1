package commands

import "encoding/binary"

const RawCommandHeaderSize = 18

// EventID values carried in the low nibble of the info header.
const (
	NoEvent                   byte = 0
	OutputDevicesChangedEvent byte = 1
)

type RawCommandHeaderBuffer = [RawCommandHeaderSize]byte

type RawCommandHeader struct {
	ApiVersion  byte
	InfoHeader  byte
	RequestId   int64
	OperationId uint32
	ContentSize uint32
}

type UnpackedRawCommandHeader struct {
	RawCommandHeader

	// Parsed from InfoHeader.
	IsOperationComplete bool
	EventID             byte
}

func UnpackReplyHeader(rawheader RawCommandHeaderBuffer) (UnpackedRawCommandHeader, error) {
	var unpacked UnpackedRawCommandHeader

	var header RawCommandHeader
	if _, err := binary.Decode(rawheader[:], binary.BigEndian, &header); err != nil {
		return unpacked, err
	}

	unpacked.RawCommandHeader = header

	flags := (header.InfoHeader >> 4) & 0x0f
	unpacked.IsOperationComplete = flags&0x01 > 0
	unpacked.EventID = header.InfoHeader & 0x0f

	return unpacked, nil
}

// PackReplyHeader encodes a reply header, as written by the native helper.
func PackReplyHeader(header RawCommandHeader, complete bool, eventID byte) (RawCommandHeaderBuffer, error) {
	var raw RawCommandHeaderBuffer

	header.InfoHeader = eventID & 0x0f
	if complete {
		header.InfoHeader |= 0x01 << 4
	}

	_, err := binary.Encode(raw[:], binary.BigEndian, header)

	return raw, err
}
