package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mifi/goclip/internal/core"
	"github.com/mifi/goclip/internal/models"
)

type clipFlags struct {
	input      string
	output     string
	start      string
	end        string
	mode       string
	noAudio    bool
	noSubs     bool
	codec      string
	crf        int
	preset     string
	presetName string
	container  string
	overwrite  bool
	threads    int
}

func newClipCommand() *cobra.Command {
	f := &clipFlags{}

	cmd := &cobra.Command{
		Use:   "clip",
		Short: "Extract a time range from a video",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClip(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.input, "input", "", "input media path (required)")
	cmd.Flags().StringVar(&f.output, "output", "", "output path (default: auto-generated beside input)")
	cmd.Flags().StringVar(&f.start, "start", "", "clip start time (required unless --preset-name supplies it)")
	cmd.Flags().StringVar(&f.end, "end", "", "clip end time (required unless --preset-name supplies it)")
	cmd.Flags().StringVar(&f.mode, "mode", "", "strategy: auto|copy|reencode|hybrid (default: auto)")
	cmd.Flags().BoolVar(&f.noAudio, "no-audio", false, "drop audio streams")
	cmd.Flags().BoolVar(&f.noSubs, "no-subs", false, "drop subtitle streams")
	cmd.Flags().StringVar(&f.codec, "codec", "", "video codec for re-encoded output")
	cmd.Flags().IntVar(&f.crf, "crf", -1, "CRF quality, 0-51 (unset = use config/preset default)")
	cmd.Flags().StringVar(&f.preset, "preset", "", "ffmpeg encode preset")
	cmd.Flags().StringVar(&f.presetName, "preset-name", "", "replay a saved cut range by name instead of --input/--start/--end")
	cmd.Flags().StringVar(&f.container, "container", "", "output container (default: from output extension)")
	cmd.Flags().BoolVar(&f.overwrite, "overwrite", false, "overwrite an existing output file")
	cmd.Flags().IntVar(&f.threads, "threads", 0, "encoder thread count (0 = auto)")

	return cmd
}

func runClip(cmd *cobra.Command, f *clipFlags) error {
	logger := newLogger()
	defer logger.Sync()

	svc, cfg, err := buildServices(logger)
	if err != nil {
		return err
	}

	inputPath, startStr, endStr := f.input, f.start, f.end
	if f.presetName != "" {
		p, presetErr := svc.Preset.GetByName(f.presetName)
		if presetErr != nil {
			printErr(presetErr)
			os.Exit(1)
		}
		if inputPath == "" {
			inputPath = p.InputPath
		}
		if startStr == "" {
			startStr = p.Start
		}
		if endStr == "" {
			endStr = p.End
		}
	}
	if inputPath == "" || startStr == "" || endStr == "" {
		err := fmt.Errorf("--input/--start/--end are required unless --preset-name supplies them")
		printErr(err)
		os.Exit(1)
	}

	start, err := core.ParseTimeSpec(startStr)
	if err != nil {
		printErr(err)
		exitWithCode(err)
	}
	end, err := core.ParseTimeSpec(endStr)
	if err != nil {
		printErr(err)
		exitWithCode(err)
	}

	output := f.output
	if output == "" {
		output = autoOutputName(inputPath, start, end)
	}
	if !f.overwrite {
		if _, statErr := os.Stat(output); statErr == nil {
			err := fmt.Errorf("output already exists: %s (pass --overwrite)", output)
			printErr(err)
			os.Exit(1)
		}
	}

	var crf *int
	if f.crf != -1 {
		if err := core.ValidateCRF(f.crf); err != nil {
			printErr(err)
			exitWithCode(err)
		}
		crf = &f.crf
	}

	req := models.ClipRequest{
		InputPath:  inputPath,
		OutputPath: output,
		Start:      startStr,
		End:        endStr,
		Mode:       f.mode,
		NoAudio:    f.noAudio,
		NoSubs:     f.noSubs,
		VideoCodec: f.codec,
		CRF:        crf,
		Preset:     f.preset,
		Container:  f.container,
		Threads:    firstNonZero(f.threads, cfg.FFmpeg.Threads),
		Verify:     true,
		PresetName: f.presetName,
	}

	resp, err := svc.Clip.Clip(context.Background(), req, func(progress float64) {
		fmt.Fprintf(cmd.OutOrStdout(), "\rprogress: %5.1f%%", progress*100)
	})
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		printErr(err)
		exitWithCode(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s mode, %.2fs, %d bytes)\n",
		output, resp.ModeUsed, resp.Duration, resp.FileSize)
	return nil
}

func autoOutputName(input string, start, end core.TimeSpec) string {
	ext := filepath.Ext(input)
	stem := strings.TrimSuffix(filepath.Base(input), ext)
	startStr := strings.ReplaceAll(start.FormatNoMillis(), ":", "-")
	endStr := strings.ReplaceAll(end.FormatNoMillis(), ":", "-")
	return fmt.Sprintf("%s_clip_%s_%s%s", stem, startStr, endStr, ext)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

func printErr(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
}
