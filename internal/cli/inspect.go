package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mifi/goclip/internal/core"
)

type inspectFlags struct {
	input         string
	format        string
	showStreams   bool
	showKeyframes bool
}

func newInspectCommand() *cobra.Command {
	f := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Probe a media file and print its format/stream/GOP summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.input, "input", "", "input media path (required)")
	cmd.Flags().StringVar(&f.format, "format", "text", "output format: text|json|yaml")
	cmd.Flags().BoolVar(&f.showStreams, "show-streams", false, "include per-stream detail")
	cmd.Flags().BoolVar(&f.showKeyframes, "show-keyframes", false, "run GOP analysis on the primary video stream")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

type inspectResult struct {
	Format   string         `json:"format" yaml:"format"`
	Duration float64        `json:"duration" yaml:"duration"`
	FileSize int64          `json:"file_size" yaml:"file_size"`
	Streams  []streamResult `json:"streams,omitempty" yaml:"streams,omitempty"`
	GOP      *gopResult     `json:"gop,omitempty" yaml:"gop,omitempty"`
}

type streamResult struct {
	Index       int    `json:"index" yaml:"index"`
	Kind        string `json:"kind" yaml:"kind"`
	Codec       string `json:"codec" yaml:"codec"`
	CopyCapable bool   `json:"copy_capable" yaml:"copy_capable"`
}

type gopResult struct {
	KeyframeCount   int     `json:"keyframe_count" yaml:"keyframe_count"`
	AvgGopDuration  float64 `json:"avg_gop_duration" yaml:"avg_gop_duration"`
	RegularityScore float64 `json:"regularity_score" yaml:"regularity_score"`
	DetectedPattern string  `json:"detected_pattern,omitempty" yaml:"detected_pattern,omitempty"`
}

func runInspect(cmd *cobra.Command, f *inspectFlags) error {
	logger := newLogger()
	defer logger.Sync()

	clipper, _, err := buildClipper(logger)
	if err != nil {
		return err
	}

	ctx := context.Background()
	media, err := clipper.Probe.Probe(ctx, f.input)
	if err != nil {
		printErr(err)
		exitWithCode(err)
	}

	result := inspectResult{
		Format:   media.Format,
		Duration: media.Duration.Seconds(),
		FileSize: media.FileSize,
	}

	if f.showStreams {
		for _, sd := range media.Streams {
			result.Streams = append(result.Streams, streamResult{
				Index:       sd.Index(),
				Kind:        string(sd.Kind),
				Codec:       sd.CodecID(),
				CopyCapable: sd.SupportsStreamCopy(),
			})
		}
	}

	if f.showKeyframes {
		if vs, ok := media.PrimaryVideoStream(); ok {
			kfs, err := clipper.Probe.Keyframes(ctx, f.input, vs.Index())
			if err == nil {
				if analysis, err := core.AnalyzeGOP(kfs.Keyframes, vs.Video.FPS()); err == nil {
					result.GOP = &gopResult{
						KeyframeCount:   len(kfs.Keyframes),
						AvgGopDuration:  analysis.AvgGopDuration,
						RegularityScore: analysis.RegularityScore,
						DetectedPattern: analysis.DetectedPattern,
					}
				}
			}
		}
	}

	return printInspectResult(cmd, f.format, result)
}

func printInspectResult(cmd *cobra.Command, format string, result inspectResult) error {
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	case "yaml":
		data, err := yaml.Marshal(result)
		if err != nil {
			return err
		}
		fmt.Fprint(out, string(data))
	default:
		fmt.Fprintf(out, "format:   %s\n", result.Format)
		fmt.Fprintf(out, "duration: %.3fs\n", result.Duration)
		fmt.Fprintf(out, "size:     %d bytes\n", result.FileSize)
		for _, s := range result.Streams {
			fmt.Fprintf(out, "  stream %d: %s %s (copy-capable: %v)\n", s.Index, s.Kind, s.Codec, s.CopyCapable)
		}
		if result.GOP != nil {
			fmt.Fprintf(out, "gop: %d keyframes, avg %.3fs, regularity %.2f, pattern %q\n",
				result.GOP.KeyframeCount, result.GOP.AvgGopDuration, result.GOP.RegularityScore, result.GOP.DetectedPattern)
		}
	}
	return nil
}
