package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/iot-workbench/iotwb/internal/apperr"
	"github.com/iot-workbench/iotwb/internal/i18n"
	"github.com/iot-workbench/iotwb/internal/project"
	"github.com/iot-workbench/iotwb/internal/telemetry"
	"github.com/iot-workbench/iotwb/internal/template"
)

var (
	newTemplate string
	newTag      string
	newHost     string
	newBoard    string
	newYes      bool
)

var newCmd = &cobra.Command{
	Use:   "new <dir>",
	Short: "Create a project from a template",
	Long: `Create a device project from a catalog template and configure its
development environment. Without --template the template is picked
interactively.`,
	Args: cobra.ExactArgs(1),
	RunE: tracked("project.new", runNew),
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVarP(&newTemplate, "template", "t", "", "Template name")
	newCmd.Flags().StringVar(&newTag, "tag", template.TagDevice, "Template tag")
	newCmd.Flags().StringVar(&newHost, "host", "workspace", "Host type: workspace or container")
	newCmd.Flags().StringVar(&newBoard, "board", "", "Board identifier recorded in the project config")
	newCmd.Flags().BoolVarP(&newYes, "yes", "y", false, "Overwrite existing files without asking")
}

func runNew(cmd *cobra.Command, args []string, op *telemetry.Operation) error {
	host, ok := project.ParseHostType(newHost)
	if !ok {
		return fmt.Errorf("invalid host type %q (use workspace or container)", newHost)
	}
	root, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	deps, _, err := projectDeps()
	if err != nil {
		return err
	}

	name := newTemplate
	if name == "" {
		name, err = pickTemplate(cmd, deps, newTag)
		if err != nil {
			return err
		}
	}
	op.Set("template", name)
	op.Set("host", host.String())

	if err := os.MkdirAll(root, 0755); err != nil {
		return apperr.IO("create", root, err)
	}
	l, err := acquireLock(root)
	if err != nil {
		return err
	}
	defer l.Release()

	_, written, err := project.Create(cmd.Context(), project.CreateOptions{
		Root:     root,
		Tag:      newTag,
		Template: name,
		Host:     host,
		BoardID:  newBoard,
	}, deps, newPrompter(newYes))
	out := cmd.OutOrStdout()
	printWritten(out, written)
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintln(out, "✓ "+i18n.Tf("scaffold.project_done", root))
	return nil
}

// pickTemplate lets the user choose among the catalog entries for tag.
func pickTemplate(cmd *cobra.Command, deps project.Deps, tag string) (string, error) {
	catalog, err := template.LoadCatalog(deps.Templates, deps.CatalogPath)
	if err != nil {
		return "", err
	}
	entries := catalog.ByTag(tag)
	if len(entries) == 0 {
		return "", apperr.NotFound("template", tag+"/*")
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	choice, ok, err := newSelector().Select(cmd.Context(), i18n.T("confirm.select_tpl"), names)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apperr.ErrUserCancelled
	}
	return choice, nil
}
