package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/naveenspark/tally/internal/browser"
	"github.com/naveenspark/tally/internal/output"
	"github.com/naveenspark/tally/pkg/domain"
)

func newCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "List and manage categories",
	}
	cmd.AddCommand(
		newCategoriesListCmd(),
		newCategoriesAddCmd(),
		newCategoriesEditCmd(),
		newCategoriesRmCmd(),
	)
	return cmd
}

func newCategoriesListCmd() *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your categories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(e *env) error {
				cats := e.client.Categories()
				list := cats.List
				if defaults {
					list = cats.Defaults
				}
				items, err := list(cmd.Context())
				if err != nil {
					return err
				}
				return output.Print(e.out, e.cfg.OutputFormat, output.Categories(items))
			})
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, "only the built-in categories")
	return cmd
}

type categoryFlags struct {
	name, typ, icon, color string
}

func (f *categoryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "category name")
	cmd.Flags().StringVarP(&f.typ, "type", "t", string(domain.Expense), "income or expense")
	cmd.Flags().StringVar(&f.icon, "icon", "", "icon, usually an emoji")
	cmd.Flags().StringVar(&f.color, "color", "", "display color, e.g. #4ade80")
}

// apply copies set flags onto in. all forces every flag, as on add.
func (f *categoryFlags) apply(cmd *cobra.Command, in *domain.CategoryInput, all bool) error {
	set := func(name string) bool { return all || cmd.Flags().Changed(name) }
	if set("name") {
		in.Name = strings.TrimSpace(f.name)
	}
	if set("type") {
		in.Type = domain.TransactionType(strings.ToLower(f.typ))
	}
	if set("icon") {
		in.Icon = f.icon
	}
	if set("color") {
		in.Color = f.color
	}
	return in.Validate()
}

func newCategoriesAddCmd() *cobra.Command {
	var f categoryFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in domain.CategoryInput
			if err := f.apply(cmd, &in, true); err != nil {
				return err
			}
			return withSession(cmd, func(e *env) error {
				cat, err := e.client.Categories().Create(cmd.Context(), in)
				if err != nil {
					return err
				}
				return output.Print(e.out, e.cfg.OutputFormat, output.Categories{*cat})
			})
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCategoriesEditCmd() *cobra.Command {
	var f categoryFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Rename or recolor a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(e *env) error {
				cats := e.client.Categories()
				items, err := cats.List(cmd.Context())
				if err != nil {
					return err
				}
				var current *domain.Category
				for i := range items {
					if items[i].ID == args[0] {
						current = &items[i]
						break
					}
				}
				if current == nil {
					return fmt.Errorf("category %s not found", args[0])
				}
				if current.IsDefault {
					return fmt.Errorf("%s is a default category and cannot be changed", current.Name)
				}

				in := domain.CategoryInput{Name: current.Name, Type: current.Type, Icon: current.Icon, Color: current.Color}
				if err := f.apply(cmd, &in, false); err != nil {
					return err
				}
				cat, err := cats.Update(cmd.Context(), current.ID, in)
				if err != nil {
					return err
				}
				return output.Print(e.out, e.cfg.OutputFormat, output.Categories{*cat})
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newCategoriesRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a category",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(e *env) error {
				if err := e.client.Categories().Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Deleted %s.\n", args[0])
				return nil
			})
		},
	}
}

func newWebCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "web",
		Short: "Open the web app in a browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, nil)
			if err != nil {
				return err
			}
			defer e.Close()
			if e.cfg.WebURL == "" {
				return fmt.Errorf("web_url is not configured: set it in config.yaml or TALLY_WEB_URL")
			}
			fmt.Fprintf(e.out, "Opening %s\n", e.cfg.WebURL)
			return browser.Open(e.cfg.WebURL)
		},
	}
}
