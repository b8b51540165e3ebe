package cmd

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/adaptest/internal/catalog"
	"github.com/abhisek/adaptest/internal/report"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and validate challenge catalogs",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Validate a catalog file and print its counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.LoadFile(args[0])
		if err != nil {
			return err
		}
		lipgloss.Fprintln(cmd.OutOrStdout(), report.RenderCatalogStats(cat.Stats()))
		return nil
	},
}

var catalogSkillsCmd = &cobra.Command{
	Use:   "skills FILE",
	Short: "List the skills of a catalog (optionally filtered by tube)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.LoadFile(args[0])
		if err != nil {
			return err
		}

		skills := cat.Skills()
		if tube, _ := cmd.Flags().GetString("tube"); tube != "" {
			if _, ok := cat.Tube(tube); !ok {
				return fmt.Errorf("no tube %q in catalog", tube)
			}
			skills = cat.SkillsInTube(tube)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-24s  %-36s  %5s  %-16s  %10s\n",
			"ID", "Name", "Level", "Tube", "Challenges")
		fmt.Fprintln(out, strings.Repeat("─", 99))

		for _, s := range skills {
			name := s.Name
			if len(name) > 36 {
				name = name[:33] + "..."
			}
			fmt.Fprintf(out, "%-24s  %-36s  %5g  %-16s  %10d\n",
				s.ID, name, s.Difficulty, s.TubeID, len(cat.ChallengesForSkill(s.ID)))
		}

		fmt.Fprintf(out, "\n%d skills\n", len(skills))
		return nil
	},
}

func init() {
	catalogSkillsCmd.Flags().String("tube", "", "Only list the skills of this tube")

	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogSkillsCmd)
}
