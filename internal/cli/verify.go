package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mifi/goclip/internal/core"
)

type verifyFlags struct {
	input     string
	start     string
	end       string
	mode      string
	tolerance int
}

func newVerifyCommand() *cobra.Command {
	f := &verifyFlags{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Re-check an already-written clip against the cut it claims to be",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.input, "input", "", "output file to verify (required)")
	cmd.Flags().StringVar(&f.start, "start", "", "expected clip start time (required)")
	cmd.Flags().StringVar(&f.end, "end", "", "expected clip end time (required)")
	cmd.Flags().StringVar(&f.mode, "mode", string(core.ModeCopy), "mode the clip was produced with: copy|reencode|hybrid")
	cmd.Flags().IntVar(&f.tolerance, "tolerance", 100, "duration tolerance in milliseconds")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func runVerify(cmd *cobra.Command, f *verifyFlags) error {
	logger := newLogger()
	defer logger.Sync()

	clipper, _, err := buildClipper(logger)
	if err != nil {
		return err
	}

	start, err := core.ParseTimeSpec(f.start)
	if err != nil {
		printErr(err)
		exitWithCode(err)
	}
	end, err := core.ParseTimeSpec(f.end)
	if err != nil {
		printErr(err)
		exitWithCode(err)
	}
	cut, err := core.NewCutRange(start, end)
	if err != nil {
		printErr(err)
		exitWithCode(err)
	}

	verifier := &core.Verifier{
		Probe: clipper.Probe,
		Fs:    clipper.Fs,
		Cfg: core.VerifierConfig{
			DurationTolerance: float64(f.tolerance) / 1000.0,
			MinFileSize:       clipper.VerifierCfg.MinFileSize,
		},
	}

	plan := core.ExecutionPlan{
		Mode:       core.Mode{Kind: core.ModeKind(f.mode)},
		OutputPath: f.input,
		CutRange:   cut,
	}

	report, err := verifier.Verify(context.Background(), plan, 0)
	for _, w := range report.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
	}
	if err != nil {
		printErr(err)
		exitWithCode(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "verified: duration %.3fs, size %d bytes\n", report.Duration.Seconds(), report.FileSize)
	return nil
}
