package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"taskcenter/internal/fileutil"
	"taskcenter/internal/logging"
	"taskcenter/internal/media/ffprobe"
	"taskcenter/internal/services"
	"taskcenter/internal/upload"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var inspect bool
	var format bool
	var outputPath string

	cmd := &cobra.Command{
		Use:   "transcribe <file>",
		Short: "Transcribe a local audio or video file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cliLogger(cfg)
			if err != nil {
				return err
			}

			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			parts, err := buildComponents(cfg, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if inspect {
				probe, err := parts.media.Prober.Inspect(cmd.Context(), path)
				if err != nil {
					return fmt.Errorf("inspect %s: %w", path, err)
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Type", "Codec", "Sample Rate", "Channels"},
					streamRows(probe),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight},
				))
				fmt.Fprintf(out, "Container: %s  Duration: %.1fs  Bit rate: %d  Audio streams: %d  Video streams: %d\n",
					probe.Format.FormatName, probe.DurationSeconds(), probe.BitRate(),
					probe.AudioStreamCount(), probe.VideoStreamCount())
				if probe.AudioStreamCount() == 0 {
					fmt.Fprintln(cmd.ErrOrStderr(), "warning: no audio stream found; transcription will likely fail")
				}
			}

			// No media type: classification falls back to the extension.
			result, err := parts.pipeline.Run(cmd.Context(), upload.Audio{
				Data:     data,
				FileName: filepath.Base(path),
			})
			if err != nil {
				return fmt.Errorf("transcribe %s: %s", filepath.Base(path), services.Message(err))
			}
			logger.Info("transcription complete",
				logging.String(logging.FieldEventType, "transcription_complete"),
				logging.String("format", result.Format.Ext),
				logging.Bool("converted", result.Converted),
				logging.Int("bit_rate", result.BitRate),
				logging.Int64("upload_bytes", result.UploadBytes),
			)

			text := result.Text
			if format {
				text, err = parts.assistant.FormatTranscript(cmd.Context(), text)
				if err != nil {
					return fmt.Errorf("format transcript: %s", services.Message(err))
				}
			}

			if outputPath != "" {
				if err := fileutil.WriteFileAtomic(outputPath, []byte(text+"\n"), 0o644); err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote transcript to %s\n", outputPath)
				return nil
			}
			fmt.Fprintln(out, text)
			return nil
		},
	}

	cmd.Flags().BoolVar(&inspect, "inspect", false, "Print the ffprobe stream listing before transcribing")
	cmd.Flags().BoolVar(&format, "format", false, "Clean up the transcript with the chat model")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the transcript to this file")
	return cmd
}

func streamRows(result ffprobe.Result) [][]string {
	rows := make([][]string, 0, len(result.Streams))
	for _, s := range result.Streams {
		channels := ""
		if s.Channels > 0 {
			channels = strconv.Itoa(s.Channels)
		}
		rows = append(rows, []string{
			strconv.Itoa(s.Index),
			strings.TrimSpace(s.CodecType),
			strings.TrimSpace(s.CodecName),
			strings.TrimSpace(s.SampleRate),
			channels,
		})
	}
	return rows
}
