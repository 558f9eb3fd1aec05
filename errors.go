package fitcore

import (
	"errors"

	"github.com/mharder/fitcore/wire"
)

// Error kinds returned by the reader and writer. All are fatal to the current
// file: decoding or encoding aborts immediately on the first one encountered,
// per the no-partial-activity propagation rule.
var (
	// ErrBadHeader covers a buffer too short to hold a header and trailer, a
	// header size other than 12 or 14, or a missing ".FIT" signature.
	ErrBadHeader = errors.New("fitcore: bad header")

	// ErrBadCRC means the whole-file CRC did not reduce to zero.
	ErrBadCRC = errors.New("fitcore: bad crc")

	// ErrTruncatedData means the buffer is shorter than header length +
	// data length + trailer.
	ErrTruncatedData = errors.New("fitcore: truncated data")

	// ErrReadPastEnd and ErrWritePastEnd are positional overruns against the
	// logical read window or the write buffer.
	ErrReadPastEnd  = errors.New("fitcore: read past end")
	ErrWritePastEnd = errors.New("fitcore: write past end")

	// ErrOutOfBounds is raised by the byte codec when pos+width exceeds the
	// buffer length. It is the same sentinel wire.ErrOutOfBounds so callers
	// can errors.Is against either package's name for it.
	ErrOutOfBounds = wire.ErrOutOfBounds

	// ErrUnknownMessageDefinition means a data record referenced a local-id
	// with no prior definition.
	ErrUnknownMessageDefinition = errors.New("fitcore: unknown message definition")

	// ErrUnknownDevField means a developer-field value referenced an
	// (developer-data-index, field-number) pair never described.
	ErrUnknownDevField = errors.New("fitcore: unknown developer field")

	// ErrUnknownBaseType means a definition referenced a type code outside
	// the registry.
	ErrUnknownBaseType = errors.New("fitcore: unknown base type")

	// ErrNotAnActivity means a decoded file-id message declared a non-activity
	// file type.
	ErrNotAnActivity = errors.New("fitcore: not an activity file")

	// ErrBadHeaderByte means a definition record carried an architecture
	// byte other than 0 (little-endian) or 1 (big-endian).
	ErrBadHeaderByte = errors.New("fitcore: bad record header byte")
)
