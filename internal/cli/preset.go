package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mifi/goclip/internal/models"
)

func newPresetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Save and replay named cut ranges",
	}

	cmd.AddCommand(newPresetSaveCommand())
	cmd.AddCommand(newPresetListCommand())
	cmd.AddCommand(newPresetDeleteCommand())

	return cmd
}

type presetSaveFlags struct {
	name     string
	input    string
	start    string
	end      string
	modeHint string
}

func newPresetSaveCommand() *cobra.Command {
	f := &presetSaveFlags{}

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a named cut range for later replay",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			defer logger.Sync()

			svc, _, err := buildServices(logger)
			if err != nil {
				return err
			}

			saved, err := svc.Preset.Create(models.Preset{
				Name:      f.name,
				InputPath: f.input,
				Start:     f.start,
				End:       f.end,
				ModeHint:  f.modeHint,
			})
			if err != nil {
				printErr(err)
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "saved preset %s (%s)\n", saved.Name, saved.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.name, "name", "", "preset name (required)")
	cmd.Flags().StringVar(&f.input, "input", "", "input media path (required)")
	cmd.Flags().StringVar(&f.start, "start", "", "clip start time (required)")
	cmd.Flags().StringVar(&f.end, "end", "", "clip end time (required)")
	cmd.Flags().StringVar(&f.modeHint, "mode", "", "strategy hint to replay with: auto|copy|reencode|hybrid")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newPresetListCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved presets, optionally filtered to one input file",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			defer logger.Sync()

			svc, _, err := buildServices(logger)
			if err != nil {
				return err
			}

			var presets []*models.Preset
			if input != "" {
				presets, err = svc.Preset.ListByInput(input)
			} else {
				presets, err = svc.Preset.List()
			}
			if err != nil {
				printErr(err)
				return err
			}

			for _, p := range presets {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s -> %s\t%s\n", p.ID, p.Name, p.Start, p.End, p.InputPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "filter to presets for this input path")
	return cmd
}

func newPresetDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved preset by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			defer logger.Sync()

			svc, _, err := buildServices(logger)
			if err != nil {
				return err
			}

			if err := svc.Preset.Delete(args[0]); err != nil {
				printErr(err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted preset %s\n", args[0])
			return nil
		},
	}
	return cmd
}
