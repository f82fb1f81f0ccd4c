package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iot-workbench/iotwb/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Long:  `显示 iotwb 的版本信息`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "iotwb 版本: %s\n", version.GetVersion())
		fmt.Fprintf(out, "项目配置版本: %s\n", version.WorkbenchVersion)

		if version.GetBuildDate() != "unknown" {
			fmt.Fprintf(out, "构建日期: %s\n", version.GetBuildDate())
		}

		if version.GetGitCommit() != "unknown" {
			fmt.Fprintf(out, "Git 提交: %s\n", version.GetGitCommit())
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
