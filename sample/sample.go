package sample

import (
	"log/slog"

	"gitlab.com/gomidi/midi/v2/smf"
)

func min(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

// Create copies mf keeping only the first maxNotes notes that start at or
// after ticksOffset. Notes still sounding when the limit is hit keep their
// note-offs so nothing hangs. Non-note events are kept with their delta
// shortened to at most one tick.
func Create(mf *smf.SMF, ticksOffset uint64, maxNotes int) *smf.SMF {
	var res smf.SMF
	res.TimeFormat = mf.TimeFormat

	for _, track := range mf.Tracks {
		var newTrack smf.Track
		var absTicks uint64
		var started int
		sounding := make(map[uint8]bool)

	TrackEventLoop:
		for _, evt := range track {
			absTicks += uint64(evt.Delta)
			var ch, key, vel uint8
			switch {
			case evt.Message.GetNoteOn(&ch, &key, &vel) && vel > 0:
				if absTicks < ticksOffset || started >= maxNotes {
					continue
				}
				newTrack = append(newTrack, evt)
				sounding[key] = true
				started++
			case evt.Message.GetNoteOn(&ch, &key, &vel), evt.Message.GetNoteOff(&ch, &key, &vel):
				if !sounding[key] {
					continue
				}
				newTrack = append(newTrack, evt)
				delete(sounding, key)
				if started >= maxNotes && len(sounding) == 0 {
					newTrack.Close(0)
					break TrackEventLoop
				}
			default:
				evt.Delta = min(evt.Delta, 1)
				newTrack = append(newTrack, evt)
			}
		}

		res.Tracks = append(res.Tracks, newTrack)
	}

	slog.Debug("created midi excerpt", "tracks", len(res.Tracks), "from_tick", ticksOffset, "max_notes", maxNotes)
	return &res
}
