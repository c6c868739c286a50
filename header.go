package boundrand

import (
	"encoding/binary"

	brerrors "github.com/tamirms/boundrand/errors"
)

const (
	// magic number for boundrand capture files
	// "BRND" in little-endian
	magic = uint32(0x42524E44)

	// version is the current capture format version
	version = uint16(0x0001)

	// headerSize is the exact size of the serialized header (32 bytes)
	headerSize = 32

	// footerSize is the exact size of the serialized footer (16 bytes)
	footerSize = 16

	// sampleSize is the size of one recorded draw (little-endian uint32)
	sampleSize = 4

	// minFileSize is the smallest structurally valid capture: header and
	// footer with zero recorded draws.
	minFileSize = headerSize + footerSize
)

// header is the 32-byte capture file header.
//
// Layout:
//
//	Offset  Size  Field     Type
//	0       4     Magic     0x42524E44 ("BRND")
//	4       2     Version   0x0001
//	6       4     Bound     uint32_le (exclusive upper bound of the run)
//	10      8     Count     uint64_le (number of recorded draws)
//	18      8     Seed      uint64_le (caller-supplied run seed, 0 if unset)
//	26      6     Reserved  [6]byte (zero)
//
// A capture records the raw 32-bit draws a sampler run consumed, not its
// outputs; Bound and Seed are metadata that let the run be re-derived.
type header struct {
	Magic    uint32  // 4 bytes: magic number 0x42524E44
	Version  uint16  // 2 bytes: format version
	Bound    uint32  // 4 bytes: exclusive upper bound used by the run
	Count    uint64  // 8 bytes: number of recorded draws
	Seed     uint64  // 8 bytes: run seed, informational
	Reserved [6]byte // 6 bytes: reserved (zero)
}

// encodeTo serializes the header to an existing buffer.
func (h *header) encodeTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	binary.LittleEndian.PutUint32(buf[6:10], h.Bound)
	binary.LittleEndian.PutUint64(buf[10:18], h.Count)
	binary.LittleEndian.PutUint64(buf[18:26], h.Seed)
	copy(buf[26:32], h.Reserved[:])
}

// decodeHeader parses a 32-byte header.
func decodeHeader(buf []byte) (*header, error) {
	if len(buf) < headerSize {
		return nil, brerrors.ErrTruncatedFile
	}

	h := &header{
		Magic:   binary.LittleEndian.Uint32(buf[0:4]),
		Version: binary.LittleEndian.Uint16(buf[4:6]),
		Bound:   binary.LittleEndian.Uint32(buf[6:10]),
		Count:   binary.LittleEndian.Uint64(buf[10:18]),
		Seed:    binary.LittleEndian.Uint64(buf[18:26]),
	}
	copy(h.Reserved[:], buf[26:32])

	if h.Magic != magic {
		return nil, brerrors.ErrInvalidMagic
	}
	if h.Version != version {
		return nil, brerrors.ErrInvalidVersion
	}
	if h.Bound == 0 {
		return nil, brerrors.ErrInvalidRange
	}
	return h, nil
}

// footer is the 16-byte capture file footer.
//
// Layout:
//
//	Offset  Size  Field           Type
//	0       8     SampleRegionHash uint64_le (xxHash64 of the sample region)
//	8       8     Reserved         [8]byte (zero)
type footer struct {
	SampleRegionHash uint64  // 8 bytes: xxHash64 of all recorded draws
	Reserved         [8]byte // 8 bytes: reserved for future use
}

// encodeTo serializes the footer to an existing buffer.
func (f *footer) encodeTo(buf []byte) {
	binary.LittleEndian.PutUint64(buf[0:8], f.SampleRegionHash)
	copy(buf[8:16], f.Reserved[:])
}

// decodeFooter parses a 16-byte footer.
func decodeFooter(buf []byte) (*footer, error) {
	if len(buf) < footerSize {
		return nil, brerrors.ErrTruncatedFile
	}
	f := &footer{
		SampleRegionHash: binary.LittleEndian.Uint64(buf[0:8]),
	}
	copy(f.Reserved[:], buf[8:16])
	return f, nil
}
