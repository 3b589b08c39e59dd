package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/heritagebakes/bakebook/internal/offline/api"
	offlinedomain "github.com/heritagebakes/bakebook/internal/offline/domain"
	recipedomain "github.com/heritagebakes/bakebook/internal/recipe/domain"
	"github.com/heritagebakes/bakebook/pkg/fuzzy"
)

// RecipeOptions holds the editable-field flags for add and edit.
type RecipeOptions struct {
	*RootOptions
	Title       string
	Ingredients []string
	Directions  string
	Memory      string
	Photo       string
	Tags        []string
	CookTime    string
}

func addRecipeFlags(cmd *cobra.Command, opts *RecipeOptions) {
	cmd.Flags().StringVar(&opts.Title, "title", "", "recipe title")
	cmd.Flags().StringSliceVar(&opts.Ingredients, "ingredient", nil, "ingredient line (repeatable)")
	cmd.Flags().StringVar(&opts.Directions, "directions", "", "preparation directions")
	cmd.Flags().StringVar(&opts.Memory, "memory", "", "the story behind the recipe")
	cmd.Flags().StringVar(&opts.Photo, "photo", "", "photo reference (URL or base64)")
	cmd.Flags().StringSliceVar(&opts.Tags, "tag", nil, "tag (repeatable)")
	cmd.Flags().StringVar(&opts.CookTime, "cook-time", "", `cook time, e.g. "45 min"`)
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		tag    string
		search string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes (from the server, or the cache when offline)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(rootOpts)
			if err != nil {
				return err
			}
			token, err := e.requireToken(cmd)
			if err != nil {
				return err
			}

			var recipes []*recipedomain.Recipe
			if rootOpts.Offline {
				recipes, err = e.store.LoadRecipes(cmd.Context())
			} else {
				recipes, err = e.client.ListRecipes(cmd.Context(), token)
			}
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tTAGS\tCOOK TIME")
			for _, r := range recipes {
				if tag != "" && !r.HasTag(tag) {
					continue
				}
				if search != "" && !fuzzy.MatchRecipe(search, r) {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.Title, strings.Join(r.Tags, ","), r.CookTime)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "only recipes carrying this tag")
	cmd.Flags().StringVar(&search, "search", "", "typo-tolerant search over titles, tags, ingredients and memories")
	return cmd
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <recipe-id>",
		Short: "Show one recipe in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(rootOpts)
			if err != nil {
				return err
			}
			token, err := e.requireToken(cmd)
			if err != nil {
				return err
			}

			recipe, err := e.client.GetRecipe(cmd.Context(), token, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", recipe.Title)
			if recipe.CookTime != "" {
				fmt.Fprintf(out, "Cook time: %s\n", recipe.CookTime)
			}
			if len(recipe.Tags) > 0 {
				fmt.Fprintf(out, "Tags: %s\n", strings.Join(recipe.Tags, ", "))
			}
			if len(recipe.Ingredients) > 0 {
				fmt.Fprintln(out, "\nIngredients:")
				for _, ing := range recipe.Ingredients {
					fmt.Fprintf(out, "  - %s\n", ing)
				}
			}
			if recipe.Directions != "" {
				fmt.Fprintf(out, "\nDirections:\n%s\n", recipe.Directions)
			}
			if recipe.Memory != "" {
				fmt.Fprintf(out, "\nMemory:\n%s\n", recipe.Memory)
			}
			return nil
		},
	}
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecipeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a recipe, queueing it locally when offline",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(opts.RootOptions)
			if err != nil {
				return err
			}
			token, err := e.requireToken(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			recipe := &recipedomain.Recipe{
				Title:       opts.Title,
				Ingredients: opts.Ingredients,
				Directions:  opts.Directions,
				Memory:      opts.Memory,
				Photo:       opts.Photo,
				Tags:        opts.Tags,
				CookTime:    opts.CookTime,
			}

			if !opts.Offline {
				created, err := e.client.CreateRecipe(ctx, token, recipe)
				if err == nil {
					if err := appendCached(ctx, e, created); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", created.ID)
					return nil
				}
				var apiErr *api.APIError
				if errors.As(err, &apiErr) {
					return err // server rejected the payload; queueing would not help
				}
			}

			// Offline path: temporary id, cache entry, outbox item.
			recipe.ID = offlinedomain.TempID()
			if user, _ := e.store.LoadUser(ctx); user != nil {
				recipe.UserID = user.ID
			}
			if err := appendCached(ctx, e, recipe); err != nil {
				return err
			}
			if _, err := e.queue.Enqueue(ctx, offlinedomain.NewCreate(recipe)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "offline: queued create %s\n", recipe.ID)
			return nil
		},
	}

	addRecipeFlags(cmd, opts)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecipeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit <recipe-id>",
		Short: "Edit a recipe, queueing the change locally when offline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(opts.RootOptions)
			if err != nil {
				return err
			}
			token, err := e.requireToken(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			id := args[0]

			recipe, err := findCached(ctx, e, id)
			if err != nil {
				return err
			}
			applyFlagChanges(cmd, opts, recipe)

			if !opts.Offline {
				updated, err := e.client.UpdateRecipe(ctx, token, id, recipe)
				if err == nil {
					if err := replaceCached(ctx, e, updated); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", updated.ID)
					return nil
				}
				var apiErr *api.APIError
				if errors.As(err, &apiErr) {
					return err
				}
			}

			if err := replaceCached(ctx, e, recipe); err != nil {
				return err
			}
			if _, err := e.queue.Enqueue(ctx, offlinedomain.NewUpdate(id, recipe)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "offline: queued update %s\n", id)
			return nil
		},
	}

	addRecipeFlags(cmd, opts)
	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <recipe-id>",
		Short: "Delete a recipe, queueing the change locally when offline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(rootOpts)
			if err != nil {
				return err
			}
			token, err := e.requireToken(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			id := args[0]

			if !rootOpts.Offline {
				err := e.client.DeleteRecipe(ctx, token, id)
				if err == nil {
					if err := removeCached(ctx, e, id); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
					return nil
				}
				var apiErr *api.APIError
				if errors.As(err, &apiErr) && apiErr.StatusCode != 404 {
					return err
				}
			}

			if err := removeCached(ctx, e, id); err != nil {
				return err
			}
			// Enqueue coalesces against queued creates/updates for this id.
			queuedID, err := e.queue.Enqueue(ctx, offlinedomain.NewDelete(id))
			if err != nil {
				return err
			}
			if queuedID == "" {
				// The recipe never reached the server, so nothing to delete there.
				fmt.Fprintf(cmd.OutOrStdout(), "offline: discarded unsynced recipe %s\n", id)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "offline: queued delete %s\n", id)
			return nil
		},
	}
}

// applyFlagChanges copies only the flags the user actually set.
func applyFlagChanges(cmd *cobra.Command, opts *RecipeOptions, recipe *recipedomain.Recipe) {
	if cmd.Flags().Changed("title") {
		recipe.Title = opts.Title
	}
	if cmd.Flags().Changed("ingredient") {
		recipe.Ingredients = opts.Ingredients
	}
	if cmd.Flags().Changed("directions") {
		recipe.Directions = opts.Directions
	}
	if cmd.Flags().Changed("memory") {
		recipe.Memory = opts.Memory
	}
	if cmd.Flags().Changed("photo") {
		recipe.Photo = opts.Photo
	}
	if cmd.Flags().Changed("tag") {
		recipe.Tags = opts.Tags
	}
	if cmd.Flags().Changed("cook-time") {
		recipe.CookTime = opts.CookTime
	}
}

func findCached(ctx context.Context, e *env, id string) (*recipedomain.Recipe, error) {
	recipes, err := e.store.LoadRecipes(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range recipes {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, fmt.Errorf("recipe %s not found in local cache", id)
}

func appendCached(ctx context.Context, e *env, recipe *recipedomain.Recipe) error {
	recipes, err := e.store.LoadRecipes(ctx)
	if err != nil {
		return err
	}
	return e.store.SaveRecipes(ctx, append(recipes, recipe))
}

func replaceCached(ctx context.Context, e *env, recipe *recipedomain.Recipe) error {
	recipes, err := e.store.LoadRecipes(ctx)
	if err != nil {
		return err
	}
	for i, r := range recipes {
		if r.ID == recipe.ID {
			recipes[i] = recipe
			return e.store.SaveRecipes(ctx, recipes)
		}
	}
	return e.store.SaveRecipes(ctx, append(recipes, recipe))
}

func removeCached(ctx context.Context, e *env, id string) error {
	recipes, err := e.store.LoadRecipes(ctx)
	if err != nil {
		return err
	}
	kept := recipes[:0]
	for _, r := range recipes {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	return e.store.SaveRecipes(ctx, kept)
}
