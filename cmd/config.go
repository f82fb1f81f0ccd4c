package cmd

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/iot-workbench/iotwb/internal/filestore"
	"github.com/iot-workbench/iotwb/internal/i18n"
	"github.com/iot-workbench/iotwb/internal/project"
	"github.com/iot-workbench/iotwb/internal/telemetry"
)

var configDir string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read or update the project config",
	Long:  `Read or update .vscode/iotworkbench.json of an IoT project`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the project config",
	Args:  cobra.NoArgs,
	RunE:  tracked("config.show", runConfigShow),
}

var configSetHostCmd = &cobra.Command{
	Use:       "set-host <workspace|container>",
	Short:     "Record the project's host type",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"workspace", "container"},
	RunE:      tracked("config.set-host", runConfigSetHost),
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetHostCmd)
	configCmd.PersistentFlags().StringVarP(&configDir, "dir", "d", "", "Project directory (default: current directory)")
}

func runConfigShow(cmd *cobra.Command, args []string, op *telemetry.Operation) error {
	root, err := projectDir(configDir)
	if err != nil {
		return err
	}
	path := project.ConfigPath(root)
	cfg, err := project.GetProjectConfig(filestore.NewLocal(), path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if _, ok := project.ParseHostType(cfg[project.KeyHostType]); !ok {
		color.New(color.FgYellow).Fprintln(out, i18n.Tf("config.no_host", root))
	}
	if len(cfg) == 0 {
		return nil
	}

	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(out, "%s\n", path)
	for _, k := range keys {
		fmt.Fprintf(out, "  %-18s %s\n", k+":", cfg[k])
	}
	return nil
}

func runConfigSetHost(cmd *cobra.Command, args []string, op *telemetry.Operation) error {
	host, ok := project.ParseHostType(args[0])
	if !ok {
		return fmt.Errorf("invalid host type %q (use workspace or container)", args[0])
	}
	root, err := projectDir(configDir)
	if err != nil {
		return err
	}
	op.Set("host", host.String())

	l, err := acquireLock(root)
	if err != nil {
		return err
	}
	defer l.Release()

	if err := project.UpdateHostType(filestore.NewLocal(), project.ConfigPath(root), host); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ "+i18n.Tf("config.host_updated", host.String()))
	return nil
}
