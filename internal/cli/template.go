package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agencykit/runway/model"
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"tpl"},
	Short:   "Inspect workflow templates",
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tenant's templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, config, err := newEngine()
		if err != nil {
			return err
		}
		rt := engine.Runtime()
		templates, err := rt.Templates(cmd.Context(), tenant(config))
		if err != nil {
			return err
		}
		if len(templates) == 0 {
			fmt.Println(mutedStyle.Render("no templates"))
			return nil
		}
		for _, template := range templates {
			fmt.Printf("%s  %s  %s\n",
				titleStyle.Render(template.ID),
				template.Name,
				mutedStyle.Render(fmt.Sprintf("%d steps", len(template.Steps))))
		}
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <template-id>",
	Short: "Show a template's steps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, config, err := newEngine()
		if err != nil {
			return err
		}
		rt := engine.Runtime()
		template, err := rt.Template(cmd.Context(), tenant(config), args[0])
		if err != nil {
			return err
		}
		fmt.Println(titleStyle.Render(template.Name))
		if template.Description != "" {
			fmt.Println(mutedStyle.Render(template.Description))
		}
		for _, step := range template.OrderedSteps() {
			gate := ""
			if step.Policy() != model.GateAuto {
				gate = mutedStyle.Render(fmt.Sprintf("  [%s]", step.Policy()))
			}
			agent := ""
			if step.Agent != "" {
				agent = mutedStyle.Render("  @" + step.Agent)
			}
			fmt.Printf("  %2d. %s%s%s\n", step.Order, step.Name, agent, gate)
		}
		return nil
	},
}

func init() {
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
}
