package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"stanbrief/internal/core"
)

// defaultCategories is the starter set new installs get. Existing names are
// left untouched.
var defaultCategories = []core.Category{
	{Name: "K-Pop", Icon: "🎵", Color: "#FF6B6B"},
	{Name: "Music", Icon: "🎸", Color: "#C34A36"},
	{Name: "Sports", Icon: "⚽", Color: "#4ECDC4"},
	{Name: "Gaming", Icon: "🎮", Color: "#845EC2"},
	{Name: "Movies & TV", Icon: "🎬", Color: "#F9F871"},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the default categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		cats := make([]core.Category, len(defaultCategories))
		for i, cat := range defaultCategories {
			cat.ID = uuid.New().String()
			cats[i] = cat
		}
		if err := st.SeedCategories(cmd.Context(), cats); err != nil {
			return err
		}

		fmt.Printf("Seeded %d categories\n", len(cats))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
