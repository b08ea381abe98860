package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"enterprise-audit-dashboard/internal/fixtures"
	"enterprise-audit-dashboard/internal/generator"
)

var genQuarter string

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "Generate the fifteen business-unit snapshot files",
	RunE: func(cmd *cobra.Command, _ []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		quarters, err := selectedQuarters()
		if err != nil {
			return err
		}
		bold := color.New(color.Bold)
		for _, q := range quarters {
			bold.Fprintf(cmd.OutOrStdout(), "business units %s\n", q)
			if _, err := writeUnits(cmd, eng, q); err != nil {
				return err
			}
		}
		return nil
	},
}

var enterpriseCmd = &cobra.Command{
	Use:   "enterprise",
	Short: "Generate the enterprise summary files",
	RunE: func(cmd *cobra.Command, _ []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		quarters, err := selectedQuarters()
		if err != nil {
			return err
		}
		for _, q := range quarters {
			// units are regenerated in memory so the summary agrees with
			// what a units run under the same seed would produce
			units, err := generateUnits(eng, q)
			if err != nil {
				return err
			}
			if err := writeEnterprise(cmd, eng, q, units); err != nil {
				return err
			}
		}
		return nil
	},
}

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Generate the historical-trends file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		return writeTrends(cmd, eng)
	},
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Generate every fixture file for every quarter",
	RunE: func(cmd *cobra.Command, _ []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		bold := color.New(color.Bold)
		for _, q := range fixtures.Quarters {
			bold.Fprintf(cmd.OutOrStdout(), "quarter %s\n", q)
			units, err := writeUnits(cmd, eng, q)
			if err != nil {
				return err
			}
			if err := writeEnterprise(cmd, eng, q, units); err != nil {
				return err
			}
		}
		return writeTrends(cmd, eng)
	},
}

func init() {
	unitsCmd.Flags().StringVar(&genQuarter, "quarter", "", "single quarter to generate (default: all quarters)")
	enterpriseCmd.Flags().StringVar(&genQuarter, "quarter", "", "single quarter to generate (default: all quarters)")
}

func newEngine() (*generator.Engine, error) {
	profile := generator.DefaultProfile()
	if profilePath != "" {
		p, err := generator.LoadProfile(profilePath)
		if err != nil {
			return nil, err
		}
		profile = p
	}
	return generator.New(seed, profile), nil
}

func selectedQuarters() ([]string, error) {
	if genQuarter == "" {
		return fixtures.Quarters, nil
	}
	q := strings.ToLower(strings.TrimSpace(genQuarter))
	if !fixtures.ValidQuarter(q) {
		return nil, fmt.Errorf("unknown quarter %q (known: %s)", genQuarter, strings.Join(fixtures.Quarters, ", "))
	}
	return []string{q}, nil
}

func generateUnits(eng *generator.Engine, quarter string) ([]fixtures.UnitFixture, error) {
	units := make([]fixtures.UnitFixture, 0, len(fixtures.UnitSlugs))
	for _, slug := range fixtures.UnitSlugs {
		u, err := eng.GenerateUnit(slug, quarter)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, nil
}

func writeUnits(cmd *cobra.Command, eng *generator.Engine, quarter string) ([]fixtures.UnitFixture, error) {
	units, err := generateUnits(eng, quarter)
	if err != nil {
		return nil, err
	}
	for _, u := range units {
		path := filepath.Join(outDir, fixtures.UnitPath(u.ID, quarter))
		if err := writeJSONFile(path, u); err != nil {
			return nil, err
		}
		fmt.Fprintln(cmd.OutOrStdout(), fmtPath(path))
	}
	return units, nil
}

func writeEnterprise(cmd *cobra.Command, eng *generator.Engine, quarter string, units []fixtures.UnitFixture) error {
	ent, err := eng.GenerateEnterprise(quarter, units)
	if err != nil {
		return err
	}
	path := filepath.Join(outDir, fixtures.EnterprisePath(quarter))
	if err := writeJSONFile(path, ent); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), fmtPath(path))
	return nil
}

func writeTrends(cmd *cobra.Command, eng *generator.Engine) error {
	path := filepath.Join(outDir, fixtures.TrendsPath)
	if err := writeJSONFile(path, eng.GenerateTrends()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), fmtPath(path))
	return nil
}

func writeJSONFile(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
