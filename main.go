package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"gitlab.com/gomidi/midi/v2/smf"
)

func main() {
	log := logrus.New()

	cmd := &cli.Command{
		Name:  "midi2lrc",
		Usage: "Convert lyrics embedded in a MIDI file into a synchronized LRC file",
		Commands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "Convert a MIDI file to LRC",
				ArgsUsage: "<input.mid> <output.lrc>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "track",
						Value: DefaultTrackName,
						Usage: "name of the track carrying the lyric events",
					},
					&cli.FloatFlag{
						Name:  "threshold",
						Value: DefaultGroupThreshold,
						Usage: "maximum gap in seconds between fragments of one line",
					},
					&cli.BoolFlag{
						Name:  "keep-noise",
						Usage: "keep control/separator events instead of filtering them",
					},
					&cli.BoolFlag{
						Name:  "correct",
						Usage: "run the finished lines through the text correction model",
					},
					&cli.StringFlag{
						Name:  "model",
						Value: "gpt-4o-mini",
						Usage: "model used for text correction",
					},
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "enable debug logging",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 2 {
						return fmt.Errorf("expected <input.mid> <output.lrc> arguments")
					}
					if c.Bool("verbose") {
						log.SetLevel(logrus.DebugLevel)
					}

					opts := DefaultOptions()
					opts.TrackName = c.String("track")
					opts.GroupThreshold = c.Float("threshold")
					opts.KeepNoise = c.Bool("keep-noise")
					opts.Log = log
					if c.Bool("correct") {
						opts.Corrector = &ChatCorrector{
							APIKey: os.Getenv("OPENAI_API_KEY"),
							Model:  c.String("model"),
							Log:    log,
						}
					}

					return convertFile(ctx, c.Args().Get(0), c.Args().Get(1), opts)
				},
			},
			{
				Name:      "tracks",
				Usage:     "List the tracks of a MIDI file to find the lyric track name",
				ArgsUsage: "<input.mid>",
				Action: func(_ context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return fmt.Errorf("expected <input.mid> argument")
					}
					midiFile, err := readMidiFile(c.Args().First())
					if err != nil {
						return err
					}
					printTracks(midiFile, c.Args().First())
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func readMidiFile(filename string) (*smf.SMF, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	midiFile, err := smf.ReadFrom(file)
	if err != nil {
		return nil, fmt.Errorf("error reading MIDI file: %w", err)
	}
	return midiFile, nil
}

func convertFile(ctx context.Context, inputPath, outputPath string, opts Options) error {
	midiFile, err := readMidiFile(inputPath)
	if err != nil {
		return err
	}

	lines, err := Convert(ctx, midiFile, opts)
	if err != nil {
		return err
	}

	// Render in memory first so a failed conversion never leaves a partial
	// output file behind.
	var buf bytes.Buffer
	if err := WriteLRC(&buf, lines); err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("error writing LRC file: %w", err)
	}

	opts.Log.Infof("wrote %d lines to %s", len(lines), outputPath)
	return nil
}

func printTracks(smfData *smf.SMF, filename string) {
	fmt.Printf("MIDI File: %s\n", filename)
	fmt.Printf("Format: %d\n", smfData.Format())
	if tf, ok := smfData.TimeFormat.(smf.MetricTicks); ok {
		fmt.Printf("Ticks per quarter note: %d\n", tf)
	} else {
		fmt.Printf("Time format: %v\n", smfData.TimeFormat)
	}
	fmt.Printf("Number of tracks: %d\n", len(smfData.Tracks))
	fmt.Println()

	for i, track := range smfData.Tracks {
		if name := getTrackName(track); name != "" {
			fmt.Printf("Track %d: %s\n", i, name)
		} else {
			fmt.Printf("Track %d:\n", i)
		}
		fmt.Printf("  Number of events: %d\n", len(track))

		var lyricCount, textCount, sysexCount, tempoCount int
		var preview []string

		for _, event := range track {
			msg := event.Message

			var text string
			var data []byte
			var bpm float64

			switch {
			case msg.GetMetaLyric(&text):
				lyricCount++
				preview = appendPreview(preview, text)
			case msg.GetMetaText(&text):
				textCount++
				preview = appendPreview(preview, text)
			case msg.GetSysEx(&data):
				sysexCount++
				preview = appendPreview(preview, strings.TrimSpace(decodeLatin1(data)))
			case msg.GetMetaTempo(&bpm):
				tempoCount++
			}
		}

		fmt.Printf("  Lyric events: %d\n", lyricCount)
		fmt.Printf("  Text events: %d\n", textCount)
		fmt.Printf("  SysEx events: %d\n", sysexCount)
		fmt.Printf("  Tempo events: %d\n", tempoCount)
		if len(preview) > 0 {
			fmt.Printf("  Text preview: %s\n", strings.Join(preview, " "))
		}
		fmt.Println()
	}
}

// appendPreview collects the first few text fragments of a track for the
// track listing.
func appendPreview(preview []string, text string) []string {
	if text == "" || len(preview) >= 8 {
		return preview
	}
	return append(preview, text)
}
