// Package export renders transcription results into downloadable text formats.
//
// Every function here is pure: inputs are never modified and nothing is
// retained between calls, so renderers may run concurrently without coordination.
package export

import (
	"fmt"
	"strings"

	"github.com/royfrenk/cursor-transcribe/internal/models"
)

// Format names accepted by Render. Matching is case-insensitive.
const (
	FormatTXT  = "txt"
	FormatSRT  = "srt"
	FormatVTT  = "vtt"
	FormatJSON = "json"
)

// FormatInfo describes how a rendered document is delivered to a client.
type FormatInfo struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Extension   string `json:"extension"`
}

var formats = []FormatInfo{
	{Name: FormatTXT, ContentType: "text/plain", Extension: ".txt"},
	{Name: FormatSRT, ContentType: "text/plain", Extension: ".srt"},
	{Name: FormatVTT, ContentType: "text/vtt", Extension: ".vtt"},
	{Name: FormatJSON, ContentType: "application/json", Extension: ".json"},
}

// UnsupportedFormatError is returned when a format name is not one of the
// recognised export formats.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported export format: %s", e.Format)
}

// Formats lists the supported export formats in a stable order.
func Formats() []FormatInfo {
	out := make([]FormatInfo, len(formats))
	copy(out, formats)
	return out
}

// LookupFormat returns the delivery details for a format name.
func LookupFormat(name string) (FormatInfo, error) {
	lower := strings.ToLower(name)
	for _, f := range formats {
		if f.Name == lower {
			return f, nil
		}
	}
	return FormatInfo{}, &UnsupportedFormatError{Format: name}
}

// Render serializes r in the named format.
func Render(format string, r *models.TranscriptionResult) (string, error) {
	if r == nil {
		r = &models.TranscriptionResult{}
	}

	switch strings.ToLower(format) {
	case FormatTXT:
		return RenderText(r), nil
	case FormatSRT:
		return RenderSRT(r), nil
	case FormatVTT:
		return RenderVTT(r), nil
	case FormatJSON:
		return RenderJSON(r)
	default:
		return "", &UnsupportedFormatError{Format: format}
	}
}

// Filename builds the download name for a rendered transcription.
func Filename(fileID string, f FormatInfo) string {
	return "transcription_" + fileID + f.Extension
}
