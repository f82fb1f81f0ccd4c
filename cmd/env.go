package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/iot-workbench/iotwb/internal/filestore"
	"github.com/iot-workbench/iotwb/internal/i18n"
	"github.com/iot-workbench/iotwb/internal/project"
	"github.com/iot-workbench/iotwb/internal/telemetry"
	"github.com/iot-workbench/iotwb/internal/template"
)

var (
	envDir  string
	envHost string
	envDiff bool
	envYes  bool
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Configure the project's development environment",
	Long: `Write the development environment files for the project's host type
and record the host type in .vscode/iotworkbench.json.

When some of the files already exist you are asked once whether to
overwrite them; files marked as protected by the template are kept.`,
	Args: cobra.NoArgs,
	RunE: tracked("project.env", runEnv),
}

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().StringVarP(&envDir, "dir", "d", "", "Project directory (default: current directory)")
	envCmd.Flags().StringVar(&envHost, "host", "", "Host type: workspace or container (default: recorded host type)")
	envCmd.Flags().BoolVar(&envDiff, "diff", false, "Show differences for files that would be overwritten")
	envCmd.Flags().BoolVarP(&envYes, "yes", "y", false, "Overwrite existing files without asking")
}

func runEnv(cmd *cobra.Command, args []string, op *telemetry.Operation) error {
	root, err := projectDir(envDir)
	if err != nil {
		return err
	}
	host, err := envHostType(root)
	if err != nil {
		return err
	}
	op.Set("host", host.String())

	deps, _, err := projectDeps()
	if err != nil {
		return err
	}

	l, err := acquireLock(root)
	if err != nil {
		return err
	}
	defer l.Release()

	out := cmd.OutOrStdout()
	if envDiff {
		if err := printEnvDiff(out, deps, root, host); err != nil {
			return err
		}
	}

	p, err := project.New(host, root, deps)
	if err != nil {
		return err
	}
	if err := p.Load(cmd.Context(), host.Scope(), false); err != nil {
		return err
	}
	written, err := p.ConfigureEnvironment(cmd.Context(), newPrompter(envYes))
	printWritten(out, written)
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintln(out, "✓ "+i18n.Tf("scaffold.env_done", host.String()))
	return nil
}

// envHostType picks --host, falling back to the host type on record.
func envHostType(root string) (project.HostType, error) {
	if envHost != "" {
		host, ok := project.ParseHostType(envHost)
		if !ok {
			return project.HostUnknown, fmt.Errorf("invalid host type %q (use workspace or container)", envHost)
		}
		return host, nil
	}

	host, err := project.DetectHostType(filestore.NewLocal(), root)
	if err != nil {
		return project.HostUnknown, err
	}
	if host == project.HostUnknown {
		return project.HostUnknown, fmt.Errorf("%s; pass --host", i18n.Tf("config.no_host", root))
	}
	return host, nil
}

// printEnvDiff previews every file the environment template would replace.
func printEnvDiff(out io.Writer, deps project.Deps, root string, host project.HostType) error {
	files, err := template.EnvironmentFiles(deps.Templates, deps.CatalogPath,
		template.TagDevelopmentEnvironment, host.EnvironmentTemplate())
	if err != nil {
		return err
	}

	local := filestore.NewLocal()
	conflicts, err := template.Conflicts(local, root, files)
	if err != nil {
		return err
	}
	for _, c := range conflicts {
		if c.Action != template.ActionOverwrite {
			continue
		}
		diff, err := template.DiffExisting(local, root, c.File)
		if err != nil {
			return err
		}
		color.New(color.FgCyan).Fprintln(out, i18n.Tf("scaffold.diff_header", c.Path))
		fmt.Fprint(out, template.FormatDiffForCLI(diff))
	}
	return nil
}
