package wire

import "github.com/tormoder/fit/dyncrc16"

// Checksum computes the FIT nibble-table CRC-16 over buf, delegating to the
// same checksum routine the teacher repository uses in parseFITBytes and
// parseHeader. Verifying a whole file's CRC must produce 0, since the stored
// CRC occupies the buffer's last two bytes; a writer finalises by computing
// this over [0, mark) and appending the result.
func Checksum(buf []byte) uint16 {
	return dyncrc16.Checksum(buf)
}
