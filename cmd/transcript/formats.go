package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/royfrenk/cursor-transcribe/internal/export"
)

func formatsCmd() *cli.Command {
	return &cli.Command{
		Name:  "formats",
		Usage: "List supported export formats",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer
			for _, f := range export.Formats() {
				if _, err := fmt.Fprintf(w, "%-5s %-6s %s\n", f.Name, f.Extension, f.ContentType); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func timestampCmd() *cli.Command {
	return &cli.Command{
		Name:      "timestamp",
		Usage:     "Convert seconds to a subtitle timestamp",
		ArgsUsage: "<seconds>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "vtt",
				Usage: "Use the WebVTT separator",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one argument, got %d", cmd.Args().Len())
			}
			seconds, err := strconv.ParseFloat(cmd.Args().First(), 64)
			if err != nil {
				return fmt.Errorf("invalid seconds %q: %w", cmd.Args().First(), err)
			}

			ts := export.FormatTimestamp(seconds)
			if cmd.Bool("vtt") {
				ts = export.FormatVTTTimestamp(seconds)
			}
			_, err = fmt.Fprintln(cmd.Root().Writer, ts)
			return err
		},
	}
}
