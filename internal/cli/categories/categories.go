package categories

import (
	"fmt"

	"github.com/julianstephens/tracker/internal/cli"
)

type CategoryCmd struct {
	Add    CategoryAddCmd    `cmd:"" help:"Add a category."`
	List   CategoryListCmd   `cmd:"" help:"List categories." default:"1"`
	Delete CategoryDeleteCmd `cmd:"" help:"Delete an empty category."`
}

type CategoryAddCmd struct {
	Title string `arg:"" help:"Category title."`
}

func (c *CategoryAddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if err := ctx.Repo.AddCategory(c.Title); err != nil {
		return err
	}
	fmt.Printf("Added category: %s\n", c.Title)
	return nil
}

type CategoryListCmd struct{}

func (c *CategoryListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	categories, err := ctx.Repo.Categories()
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		fmt.Println("No categories found.")
		return nil
	}

	for _, category := range categories {
		fmt.Printf("%s (%d)\n", category.Title, len(category.Trackers))
	}
	return nil
}

type CategoryDeleteCmd struct {
	Title string `arg:"" help:"Category title."`
}

func (c *CategoryDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if err := ctx.Repo.DeleteCategory(c.Title); err != nil {
		return err
	}
	fmt.Printf("Deleted category: %s\n", c.Title)
	return nil
}
