package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/iot-workbench/iotwb/internal/settings"
	"github.com/iot-workbench/iotwb/internal/telemetry"
	"github.com/iot-workbench/iotwb/internal/template"
)

var listTag string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available templates",
	Long:  `List the templates in the catalog, grouped by tag`,
	Args:  cobra.NoArgs,
	RunE:  tracked("template.list", runListTemplates),
}

func init() {
	templateCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listTag, "tag", "", "Only show templates with this tag")
}

func runListTemplates(cmd *cobra.Command, args []string, op *telemetry.Operation) error {
	s, err := settings.Load()
	if err != nil {
		return err
	}
	store, catalogPath := templateSource(s)
	catalog, err := template.LoadCatalog(store, catalogPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	entries := catalog.ByTag(listTag)
	if len(entries) == 0 {
		color.New(color.FgYellow).Fprintf(out, "No templates found with tag: %s\n", listTag)
		return nil
	}

	// 按 tag 分组，组的顺序与目录中首次出现的顺序一致
	var tags []string
	groups := map[string][]template.Entry{}
	for _, e := range entries {
		if _, ok := groups[e.Tag]; !ok {
			tags = append(tags, e.Tag)
		}
		groups[e.Tag] = append(groups[e.Tag], e)
	}

	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen).SprintFunc()
	for _, tag := range tags {
		cyan.Fprintf(out, "\n=== %s ===\n", tag)
		for _, e := range groups[tag] {
			fmt.Fprintf(out, "  %s\n", green(e.Name))
			if e.Description != "" {
				fmt.Fprintf(out, "    %s\n", e.Description)
			}
		}
	}
	fmt.Fprintf(out, "\nTotal: %d templates\n", len(entries))

	op.Set("count", fmt.Sprint(len(entries)))
	return nil
}
