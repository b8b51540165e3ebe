package cmd

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/adaptest/internal/catalog"
	"github.com/abhisek/adaptest/internal/report"
	"github.com/abhisek/adaptest/internal/smartrandom"
)

var placeCmd = &cobra.Command{
	Use:   "place",
	Short: "Pick the next placement challenge with the smart-random selector",
	Example: "  adaptest place --catalog catalog.yaml\n" +
		"  adaptest place --catalog catalog.yaml --known a1=validated,b2=invalidated --answers chA1=correct",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cat, err := loadCatalog(cmd)
		if err != nil {
			return err
		}

		known, _ := cmd.Flags().GetStringSlice("known")
		kes, err := parseKnowledgeElements(known)
		if err != nil {
			return err
		}
		answered, _ := cmd.Flags().GetStringSlice("answers")
		answers, err := parseAnswerPairs(answered)
		if err != nil {
			return err
		}
		targets, _ := cmd.Flags().GetStringSlice("targets")
		if len(targets) == 0 {
			for _, s := range cat.Skills() {
				targets = append(targets, s.ID)
			}
		}

		seed, _ := cmd.Flags().GetUint64("seed")
		sel, err := smartrandom.NewSelector(cfg.SmartRandom, rand.New(rand.NewPCG(seed, seed)))
		if err != nil {
			return err
		}
		res, err := sel.SelectNext(smartrandom.Input{
			KnowledgeElements: kes,
			Catalog:           cat,
			TargetSkillIDs:    targets,
			Answers:           answers,
		})
		if err != nil {
			return err
		}
		lipgloss.Fprintln(cmd.OutOrStdout(), report.RenderPlacement(res))
		return nil
	},
}

func splitPair(s string) (string, string, error) {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" || v == "" {
		return "", "", fmt.Errorf("expected key=value, got %q", s)
	}
	return strings.TrimSpace(k), strings.TrimSpace(v), nil
}

func parseKnowledgeElements(pairs []string) ([]catalog.KnowledgeElement, error) {
	kes := make([]catalog.KnowledgeElement, 0, len(pairs))
	for _, p := range pairs {
		skill, status, err := splitPair(p)
		if err != nil {
			return nil, fmt.Errorf("--known: %w", err)
		}
		st := catalog.KnowledgeStatus(status)
		if st != catalog.KnowledgeValidated && st != catalog.KnowledgeInvalidated {
			return nil, fmt.Errorf("--known %s: status must be validated or invalidated", skill)
		}
		kes = append(kes, catalog.KnowledgeElement{SkillID: skill, Status: st})
	}
	return kes, nil
}

func parseAnswerPairs(pairs []string) ([]catalog.Answer, error) {
	answers := make([]catalog.Answer, 0, len(pairs))
	for i, p := range pairs {
		id, result, err := splitPair(p)
		if err != nil {
			return nil, fmt.Errorf("--answers: %w", err)
		}
		r, err := catalog.ParseResult(result)
		if err != nil {
			return nil, err
		}
		answers = append(answers, catalog.Answer{ChallengeID: id, Result: r, Position: i})
	}
	return answers, nil
}

func init() {
	placeCmd.Flags().String("catalog", "", "Challenge catalog file (yaml or json)")
	placeCmd.Flags().StringSlice("targets", nil, "Target skill ids (default: every skill)")
	placeCmd.Flags().StringSlice("known", nil, "Knowledge elements as skill=validated|invalidated")
	placeCmd.Flags().StringSlice("answers", nil, "Previous answers as challenge=result")
	placeCmd.Flags().Uint64("seed", 1, "Random seed")
}
