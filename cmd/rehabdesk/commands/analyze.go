package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iwvelando/rehabdesk/internal/brrrr"
	"github.com/iwvelando/rehabdesk/internal/flip"
	"github.com/iwvelando/rehabdesk/pkg/constants"
	"github.com/iwvelando/rehabdesk/pkg/loans"
	"github.com/iwvelando/rehabdesk/pkg/output"
	"github.com/iwvelando/rehabdesk/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (c *cli) brrrrCmd() *cobra.Command {
	var outputFormat, name string
	cmd := &cobra.Command{
		Use:   "brrrr <file|->",
		Short: "Compute a BRRRR projection from a saved analyzer document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateOutputFormat(outputFormat); err != nil {
				return err
			}
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			var upd brrrr.Update
			if err := json.Unmarshal(data, &upd); err != nil {
				return fmt.Errorf("invalid analyzer document: %w", err)
			}
			if upd.Phase1 == nil {
				upd.Phase1 = []brrrr.LineItem{}
			}
			if upd.Phase2 == nil {
				upd.Phase2 = &brrrr.Phase2{}
			}
			finished := true
			upd.Finished = &finished

			engine := brrrr.NewEngine(c.logger, c.conf.Analyzer.MaxProjectionYears)
			analyzer, err := engine.Apply(brrrr.Analyzer{}, upd, time.Now())
			if err != nil {
				return err
			}
			c.logger.Debug("brrrr projection computed",
				zap.String("op", "commands.brrrr"),
				zap.String("input", args[0]),
			)

			w := cmd.OutOrStdout()
			switch outputFormat {
			case constants.OutputFormatPretty:
				var refi *loans.Refinance
				if r, ok := analyzer.Phase2Inputs.Refinance(); ok {
					refi = &r
				}
				output.PrettyProjection(w, displayName(name, args[0]), *analyzer.Results, refi)
			case constants.OutputFormatCSV:
				output.CsvProjection(w, *analyzer.Results)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputFormat, "output-format", "o", constants.OutputFormatPretty, "output format (pretty or csv)")
	cmd.Flags().StringVar(&name, "name", "", "title used in pretty output (default: the input file name)")
	return cmd
}

func (c *cli) flipCmd() *cobra.Command {
	var outputFormat, name string
	cmd := &cobra.Command{
		Use:   "flip <file|->",
		Short: "Evaluate a flip analyzer document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateOutputFormat(outputFormat); err != nil {
				return err
			}
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			var analyzer flip.Analyzer
			if err := json.Unmarshal(data, &analyzer); err != nil {
				return fmt.Errorf("invalid analyzer document: %w", err)
			}
			eval := analyzer.Evaluate()

			w := cmd.OutOrStdout()
			switch outputFormat {
			case constants.OutputFormatPretty:
				output.PrettyEvaluation(w, displayName(name, args[0]), eval)
			case constants.OutputFormatCSV:
				output.CsvEvaluation(w, eval)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputFormat, "output-format", "o", constants.OutputFormatPretty, "output format (pretty or csv)")
	cmd.Flags().StringVar(&name, "name", "", "title used in pretty output (default: the input file name)")
	return cmd
}

// readInput reads the named file, or stdin when path is "-".
func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return data, nil
}

func displayName(name, path string) string {
	if name != "" {
		return name
	}
	if path == "-" {
		return "stdin"
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
