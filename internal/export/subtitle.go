package export

import (
	"strconv"
	"strings"

	"github.com/royfrenk/cursor-transcribe/internal/models"
)

// RenderSRT produces a SubRip document with one numbered cue per segment.
func RenderSRT(r *models.TranscriptionResult) string {
	var lines []string
	for i, seg := range r.Segments {
		lines = append(lines,
			strconv.Itoa(i+1),
			FormatTimestamp(seg.Start)+" --> "+FormatTimestamp(seg.End),
			speakerPrefix(r.Speakers, seg)+seg.Text,
			"",
		)
	}
	return strings.Join(lines, "\n")
}

// RenderVTT produces a WebVTT document. Cues carry no index.
func RenderVTT(r *models.TranscriptionResult) string {
	lines := []string{"WEBVTT", ""}
	for _, seg := range r.Segments {
		lines = append(lines,
			FormatVTTTimestamp(seg.Start)+" --> "+FormatVTTTimestamp(seg.End),
			speakerPrefix(r.Speakers, seg)+seg.Text,
			"",
		)
	}
	return strings.Join(lines, "\n")
}

// speakerPrefix returns "<speaker_id>: " for the first turn whose start and end
// equal the segment's exactly, or "" when none does. Equality is exact float
// comparison; turns produced from segment timings always match, re-timed ones may not.
func speakerPrefix(speakers []models.SpeakerTurn, seg models.Segment) string {
	for _, s := range speakers {
		if s.Start == seg.Start && s.End == seg.End {
			return s.SpeakerID + ": "
		}
	}
	return ""
}
