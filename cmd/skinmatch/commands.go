package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/swanbotanicals/skinmatch/internal/domain"
	"github.com/swanbotanicals/skinmatch/internal/usecase"
)

func newMembershipCmd() *cobra.Command {
	var flags profileFlags

	cmd := &cobra.Command{
		Use:   "membership",
		Short: "Print fuzzy skin-type membership for a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeJSON(cmd.OutOrStdout(), usecase.AnalyzeSkin(flags.profile()))
		},
	}
	flags.register(cmd)
	return cmd
}

// matchOutput is one scored product as printed by the match command.
type matchOutput struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Category   string              `json:"category"`
	Price      float64             `json:"price"`
	MatchScore float64             `json:"matchScore"`
	Percent    int                 `json:"percent"`
	Band       domain.MatchBand    `json:"band"`
	Factors    domain.MatchFactors `json:"factors"`
}

func newMatchCmd() *cobra.Command {
	var (
		flags       profileFlags
		catalogPath string
		category    string
		price       float64
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Score catalog products against a profile, best first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pref, err := checkPrice(price)
			if err != nil {
				return err
			}

			products, err := loadProducts(cmd.Context(), catalogPath)
			if err != nil {
				return err
			}

			profile := flags.profile()
			var matches []domain.ProductMatch
			for _, p := range products {
				if category != "" && !strings.EqualFold(p.Category, category) {
					continue
				}
				matches = append(matches, usecase.ScoreProduct(profile, p, pref))
			}
			usecase.SortMatches(matches)

			if limit > 0 && len(matches) > limit {
				matches = matches[:limit]
			}

			out := make([]matchOutput, 0, len(matches))
			for _, m := range matches {
				out = append(out, matchOutput{
					ID:         m.Product.ID,
					Name:       m.Product.Name,
					Category:   m.Product.Category,
					Price:      m.Product.Price,
					MatchScore: m.MatchScore,
					Percent:    m.Percent(),
					Band:       m.Band(),
					Factors:    m.Factors,
				})
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to a catalog YAML file (embedded catalog when empty)")
	cmd.Flags().StringVar(&category, "category", "", "Only score products in this category")
	cmd.Flags().Float64Var(&price, "price", usecase.DefaultPricePreference, "Price preference")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of products to print (0 prints all)")
	return cmd
}

func newRoutineCmd() *cobra.Command {
	var (
		flags       profileFlags
		catalogPath string
	)

	cmd := &cobra.Command{
		Use:   "routine",
		Short: "Assemble the five-step care routine for a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := loadProducts(cmd.Context(), catalogPath)
			if err != nil {
				return err
			}

			steps, err := usecase.NewMatchingService(usecase.MatchConfig{}).
				AssembleRoutine(cmd.Context(), flags.profile(), products)
			if err != nil {
				return fmt.Errorf("failed to assemble routine: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), steps)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to a catalog YAML file (embedded catalog when empty)")
	return cmd
}

func newIngredientsCmd() *cobra.Command {
	var flags profileFlags

	cmd := &cobra.Command{
		Use:   "ingredients <name>...",
		Short: "Rate ingredients against a profile",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), usecase.EvaluateIngredients(args, flags.profile()))
		},
	}
	flags.register(cmd)
	return cmd
}

func newSentimentCmd() *cobra.Command {
	var skinType string

	cmd := &cobra.Command{
		Use:   "sentiment <review text>",
		Short: "Estimate the sentiment of a product review",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), usecase.EstimateSentiment(strings.Join(args, " "), skinType))
		},
	}
	cmd.Flags().StringVar(&skinType, "skin-type", "", "Reviewer skin type (informational)")
	return cmd
}
