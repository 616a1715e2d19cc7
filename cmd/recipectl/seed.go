package main

import (
	"fmt"

	gormRepo "github.com/alchemorsel/recipebox/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/recipebox/internal/infrastructure/persistence/sqlite"
	"github.com/spf13/cobra"
)

func newSeedTagsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-tags",
		Short: "Create the default tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.database()
			if err != nil {
				return err
			}

			tags := gormRepo.NewTagRepository(db)
			created, err := sqlite.SeedTags(cmd.Context(), tags, ctx.logger())
			if err != nil {
				return err
			}

			all, err := tags.List(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(all))
			for _, t := range all {
				rows = append(rows, []string{t.Name, t.ID.String()})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Tag", "ID"}, rows, nil))
			fmt.Fprintf(out, "%d created, %d total\n", created, len(all))
			return nil
		},
	}
}
