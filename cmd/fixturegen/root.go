package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Global flag values.
var (
	outDir      string
	seed        int64
	profilePath string
	noColor     bool
)

// rootCmd is the base command for fixturegen.
var rootCmd = &cobra.Command{
	Use:   "fixturegen",
	Short: "Generate the audit dashboard's JSON fixture files",
	Long: `Fixturegen writes the fixture files the audit dashboard serves: one
snapshot per business unit and quarter, one enterprise summary per quarter
and the shared historical-trends series. Output is deterministic for a given
seed, so regenerating with the same flags reproduces the same files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", "./fixtures", "directory to write fixture files into")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 42, "random seed; identical seeds produce identical files")
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "YAML profile overriding trend, volatility and clamp defaults")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(unitsCmd)
	rootCmd.AddCommand(enterpriseCmd)
	rootCmd.AddCommand(trendsCmd)
	rootCmd.AddCommand(allCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func fmtPath(path string) string {
	return fmt.Sprintf("  %s %s", color.GreenString("✓"), path)
}
