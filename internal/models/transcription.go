package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Segment is a timed span of transcript text. Start and End are offsets in seconds.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// SpeakerTurn attributes a time range to a speaker. Start and End are the join
// key against Segment; Text is informational only.
type SpeakerTurn struct {
	SpeakerID string  `json:"speaker_id"`
	Text      string  `json:"text"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
}

// TranscriptionResult is the aggregate produced by the transcription collaborators
// and consumed by the export renderers.
type TranscriptionResult struct {
	Text      string        `json:"text"`
	Segments  []Segment     `json:"segments,omitempty"`
	Speakers  []SpeakerTurn `json:"speakers,omitempty"`
	Language  string        `json:"language,omitempty"`
	Summary   string        `json:"summary,omitempty"`
	KeyPoints string        `json:"key_points,omitempty"`

	// Extra holds top-level fields that have no dedicated field above. They are
	// preserved across a JSON round trip.
	Extra map[string]json.RawMessage `json:"-"`
}

type transcriptionResultFields TranscriptionResult

var knownResultKeys = map[string]bool{
	"text":       true,
	"segments":   true,
	"speakers":   true,
	"language":   true,
	"summary":    true,
	"key_points": true,
}

// MarshalJSON emits the known fields first, followed by Extra sorted by key.
func (r TranscriptionResult) MarshalJSON() ([]byte, error) {
	base, err := marshalUnescaped(transcriptionResultFields(r))
	if err != nil {
		return nil, err
	}
	if len(r.Extra) == 0 {
		return base, nil
	}

	keys := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		if !knownResultKeys[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(base[:len(base)-1])
	for _, k := range keys {
		name, err := marshalUnescaped(k)
		if err != nil {
			return nil, err
		}
		if !json.Valid(r.Extra[k]) {
			return nil, fmt.Errorf("extra field %q: invalid JSON value", k)
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(r.Extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalUnescaped is json.Marshal without HTML escaping, so transcript text
// keeps &, < and > as spoken.
func marshalUnescaped(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON fills the known fields and collects everything else into Extra.
func (r *TranscriptionResult) UnmarshalJSON(data []byte) error {
	var fields transcriptionResultFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		if knownResultKeys[k] {
			continue
		}
		if fields.Extra == nil {
			fields.Extra = make(map[string]json.RawMessage)
		}
		fields.Extra[k] = v
	}

	*r = TranscriptionResult(fields)
	return nil
}
