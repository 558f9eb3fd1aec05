package fitcore

import "github.com/mharder/fitcore/profile"

// fitEpochMarker is the timestamp value devices use to mean "no real
// timestamp recorded yet" — distinct from the uint32 invalid sentinel
// (0xFFFFFFFF), which the type registry already elides to "no value" before
// the clock ever sees it.
const fitEpochMarker = 0

// Clock is the dispatcher's {start-timestamp, current-timestamp} state
// (§3). current-timestamp never moves backwards within a stream.
type Clock struct {
	startTimestamp   uint32
	currentTimestamp uint32
	hasStart         bool
	hasCurrent       bool
}

// Current returns the clock's current-timestamp and whether one has been
// observed yet.
func (c *Clock) Current() (uint32, bool) { return c.currentTimestamp, c.hasCurrent }

// Start returns the clock's start-timestamp and whether one has been
// observed yet.
func (c *Clock) Start() (uint32, bool) { return c.startTimestamp, c.hasStart }

// ExpandCompressedTimestamp implements §4.5 step 5 / §8's testable
// expansion formula: offset is the 5-bit field from a compressed-timestamp
// header; base is current with its low 5 bits zeroed. If offset is at or
// past current's own low-5-bit remainder, the offset lands in the same
// 32-second window; otherwise it has rolled over into the next one.
func ExpandCompressedTimestamp(current, offset uint32) uint32 {
	base := current - (current % 32)
	if offset >= current%32 {
		return base + offset
	}
	return base + offset + 32
}

// hasStartTimeField reports whether global's schema defines a start_time
// field at all — only session, lap, and length messages do (field 2 in
// each; Record's field 2 is altitude, and most other kinds have no field 2
// in this shape whatsoever), so the fill in UpdateTimestamp is restricted
// to those three kinds.
func hasStartTimeField(kind profile.Kind) bool {
	switch kind {
	case profile.KindSession, profile.KindLap, profile.KindLength:
		return true
	default:
		return false
	}
}

// UpdateTimestamp is the dispatcher's pre-step (§4.5), applied to every
// record before routing:
//  1. A timestamp field equal to the FIT epoch marker is discarded and
//     replaced with current-timestamp, if one exists.
//  2. Otherwise current-timestamp advances to max(record.timestamp,
//     current-timestamp) — monotone, never backwards.
//  3. start-timestamp is initialised on the first valid timestamp.
//  4. A missing or epoch-marker start-time is filled from
//     current-timestamp.
//  5. A compressed-timestamp field, when current-timestamp exists, is
//     expanded into a timestamp field.
func (c *Clock) UpdateTimestamp(msg *Message) {
	if ts, ok := msg.Get("timestamp"); ok && !ts.IsNone() {
		raw := uint32(ts.Int)
		if raw == fitEpochMarker {
			msg.RemoveAll("timestamp")
			if c.hasCurrent {
				msg.Append("timestamp", Value{Kind: KindInt, Int: int64(c.currentTimestamp)})
			}
		} else {
			if !c.hasCurrent || raw > c.currentTimestamp {
				c.currentTimestamp = raw
			}
			c.hasCurrent = true
			if !c.hasStart {
				c.startTimestamp = c.currentTimestamp
				c.hasStart = true
			}
		}
	}

	if hasStartTimeField(msg.Kind) && c.hasCurrent {
		if st, ok := msg.Get("start_time"); !ok || st.IsNone() || uint32(st.Int) == fitEpochMarker {
			msg.RemoveAll("start_time")
			msg.Append("start_time", Value{Kind: KindInt, Int: int64(c.currentTimestamp)})
		}
	}

	if cts, ok := msg.Get("compressed-timestamp"); ok && !cts.IsNone() && c.hasCurrent {
		offset := uint32(cts.Int) & 0x1F
		full := ExpandCompressedTimestamp(c.currentTimestamp, offset)
		msg.RemoveAll("timestamp")
		msg.Append("timestamp", Value{Kind: KindInt, Int: int64(full)})
		if full > c.currentTimestamp {
			c.currentTimestamp = full
		}
		c.hasCurrent = true
	}
}
