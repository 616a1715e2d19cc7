package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newRecipesCommand(ctx *commandContext) *cobra.Command {
	var (
		username   string
		query      string
		member     string
		favourites bool
		page       int
	)

	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "List a user's recipes",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := ctx.userID(cmd.Context(), username)
			if err != nil {
				return err
			}
			svc, err := ctx.recipeService()
			if err != nil {
				return err
			}

			list, err := svc.ListRecipes(cmd.Context(), userID, inbound.RecipeFilter{
				Query:          query,
				FavouritesOnly: favourites,
				Member:         member,
				Page:           page,
			})
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(list.Items))
			for _, r := range list.Items {
				fav := ""
				if r.IsFavourite {
					fav = "★"
				}
				names := make([]string, len(r.Tags))
				for i, t := range r.Tags {
					names[i] = t.Name
				}
				rows = append(rows, []string{
					r.ID.String(),
					r.Title,
					strings.Join(names, ", "),
					fav,
					r.UpdatedAt.Format("2006-01-02"),
				})
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No recipes found")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Title", "Tags", "Fav", "Updated"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			fmt.Fprintf(out, "Page %d of %d, %s recipes\n", list.Page, list.Pages, strconv.FormatInt(list.Total, 10))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "Owner's username")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Search title, ingredients and tags")
	cmd.Flags().StringVar(&member, "member", "", "Only recipes this family member likes")
	cmd.Flags().BoolVar(&favourites, "favourites", false, "Only favourite recipes")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	return cmd
}

func newShoppingCommand(ctx *commandContext) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "shopping RECIPE_ID...",
		Short: "Build a combined shopping list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]uuid.UUID, 0, len(args))
			for _, arg := range args {
				id, err := uuid.Parse(arg)
				if err != nil {
					return fmt.Errorf("invalid recipe id %q", arg)
				}
				ids = append(ids, id)
			}

			userID, err := ctx.userID(cmd.Context(), username)
			if err != nil {
				return err
			}
			svc, err := ctx.recipeService()
			if err != nil {
				return err
			}

			list, err := svc.ShoppingList(cmd.Context(), userID, ids)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			titles := make([]string, len(list.Recipes))
			for i, r := range list.Recipes {
				titles[i] = r.Title
			}
			fmt.Fprintf(out, "Shopping for: %s\n", strings.Join(titles, ", "))

			rows := make([][]string, len(list.Items))
			for i, item := range list.Items {
				rows[i] = []string{strconv.Itoa(i + 1), item}
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Ingredient"},
				rows,
				[]columnAlignment{alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "Owner's username")
	return cmd
}
