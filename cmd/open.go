package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iot-workbench/iotwb/internal/i18n"
	"github.com/iot-workbench/iotwb/internal/project"
	"github.com/iot-workbench/iotwb/internal/telemetry"
)

var openDir string

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the project in the editor",
	Long: `Open the project in the configured editor. Container projects are
reopened inside their dev container.`,
	Args: cobra.NoArgs,
	RunE: tracked("project.open", runOpen),
}

func init() {
	rootCmd.AddCommand(openCmd)
	openCmd.Flags().StringVarP(&openDir, "dir", "d", "", "Project directory (default: current directory)")
}

func runOpen(cmd *cobra.Command, args []string, op *telemetry.Operation) error {
	root, err := projectDir(openDir)
	if err != nil {
		return err
	}
	deps, s, err := projectDeps()
	if err != nil {
		return err
	}

	p, host, err := project.Resolve(cmd.Context(), root, deps)
	if err != nil {
		return err
	}
	if p == nil {
		return errors.New(i18n.Tf("config.no_host", root))
	}
	op.Set("host", host.String())
	op.Set("editor", s.Editor)

	app, err := editorApp(s)
	if err != nil {
		return err
	}
	key := "editor.opening"
	if host == project.HostContainer {
		key = "editor.reopening"
	}
	fmt.Fprintln(cmd.OutOrStdout(), i18n.Tf(key, root, app.Name))
	return p.Open(cmd.Context())
}
