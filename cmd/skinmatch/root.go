package main

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/swanbotanicals/skinmatch/internal/domain"
	"github.com/swanbotanicals/skinmatch/internal/infrastructure/catalog"
)

// profileFlags are shared by every command that needs a skin profile.
type profileFlags struct {
	hydration   float64
	oiliness    float64
	sensitivity float64
	acne        float64
}

func (f *profileFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.hydration, "hydration", 50, "Hydration level (0-100)")
	cmd.Flags().Float64Var(&f.oiliness, "oiliness", 50, "Oiliness level (0-100)")
	cmd.Flags().Float64Var(&f.sensitivity, "sensitivity", 50, "Sensitivity level (0-100)")
	cmd.Flags().Float64Var(&f.acne, "acne", 50, "Acne level (0-100)")
}

func (f *profileFlags) profile() domain.SkinProfile {
	return domain.SkinProfile{
		Hydration:   f.hydration,
		Oiliness:    f.oiliness,
		Sensitivity: f.sensitivity,
		AcneLevel:   f.acne,
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "skinmatch",
		Short:         "Fuzzy skin profile scoring",
		Long:          "skinmatch fuzzifies a skin profile and scores catalog products, routines, ingredients and reviews against it.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMembershipCmd(),
		newMatchCmd(),
		newRoutineCmd(),
		newIngredientsCmd(),
		newSentimentCmd(),
	)
	return root
}

// loadProducts reads the catalog at path, or the embedded catalog when path is empty.
func loadProducts(ctx context.Context, path string) ([]domain.Product, error) {
	var (
		repo *catalog.StaticCatalog
		err  error
	)
	if path == "" {
		repo, err = catalog.Embedded()
	} else {
		repo, err = catalog.LoadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return repo.List(ctx)
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// checkPrice rejects a negative price preference.
func checkPrice(price float64) (float64, error) {
	if price < 0 {
		return 0, fmt.Errorf("price preference must not be negative, got: %v", price)
	}
	return price, nil
}
