package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/royfrenk/cursor-transcribe/internal/export"
	"github.com/royfrenk/cursor-transcribe/internal/models"
)

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Render a transcription result JSON file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "in",
				Usage: "Path to a transcription result JSON file, - for stdin",
				Value: "-",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: txt, srt, vtt, json",
				Value: export.FormatTXT,
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "Output file or directory. Writes to stdout when empty",
			},
			&cli.StringFlag{
				Name:  "id",
				Usage: "Transcription id used to name files written into a directory",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := export.LookupFormat(cmd.String("format"))
			if err != nil {
				return err
			}

			result, err := readResult(cmd.String("in"), cmd.Root().Reader)
			if err != nil {
				return err
			}

			body, err := export.Render(format.Name, result)
			if err != nil {
				return err
			}

			out := cmd.String("out")
			if out == "" {
				_, err := io.WriteString(cmd.Root().Writer, body)
				return err
			}

			path := outputPath(out, cmd.String("id"), cmd.String("in"), format)
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			log.Info("exported", "format", format.Name, "path", path, "segments", len(result.Segments))
			return nil
		},
	}
}

func readResult(in string, stdin io.Reader) (*models.TranscriptionResult, error) {
	r := stdin
	if in != "-" {
		f, err := os.Open(in)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var result models.TranscriptionResult
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode transcription result: %w", err)
	}
	return &result, nil
}

// outputPath resolves out to a file path. A directory gets the download name
// transcription_<id><ext>, with id falling back to the input file's base name.
func outputPath(out, id, in string, format export.FormatInfo) string {
	info, err := os.Stat(out)
	if err != nil || !info.IsDir() {
		return out
	}
	if id == "" {
		id = "stdin"
		if in != "-" {
			id = strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		}
	}
	return filepath.Join(out, export.Filename(id, format))
}
