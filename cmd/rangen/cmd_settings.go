package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rangen-network/rangen/pkg/cli"
	"github.com/rangen-network/rangen/pkg/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage persistent settings",
	Long: `Manage persistent settings stored in ~/.rangen/settings.json.

Settings provide defaults for flags:
  - reference:       Default reference template (--reference)
  - data_dir:        Data directory (--data-dir)
  - sftp_host:       Backup server for ranfetch
  - sftp_user:       Backup server login
  - sftp_remote_dir: Backup directory on the server
  - redis_addr:      Redis address for shared generation history

Examples:
  rangen settings show
  rangen settings set reference 5G-S3-AHEGA.xml
  rangen settings set sftp_host backup.example.net
  rangen settings clear`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.Load()
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}

		fmt.Printf("Settings file: %s\n\n", settings.DefaultSettingsPath())

		t := cli.NewTable("SETTING", "VALUE")
		printSetting := func(name, value string) {
			if value == "" {
				value = "(not set)"
			}
			t.Row(name, value)
		}
		printSetting("reference", s.DefaultReference)
		printSetting("data_dir", s.DataDir)
		printSetting("sftp_host", s.SFTPHost)
		printSetting("sftp_user", s.SFTPUser)
		printSetting("sftp_remote_dir", s.SFTPRemoteDir)
		printSetting("redis_addr", s.RedisAddr)
		t.Flush()
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <setting> <value>",
	Short: "Set a setting value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.Load()
		if err != nil {
			s = &settings.Settings{}
		}

		switch args[0] {
		case "reference":
			s.DefaultReference = args[1]
		case "data_dir":
			s.DataDir = args[1]
		case "sftp_host":
			s.SFTPHost = args[1]
		case "sftp_user":
			s.SFTPUser = args[1]
		case "sftp_remote_dir":
			s.SFTPRemoteDir = args[1]
		case "redis_addr":
			s.RedisAddr = args[1]
		default:
			return fmt.Errorf("unknown setting %q", args[0])
		}

		if err := s.Save(); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		fmt.Printf("%s = %s\n", args[0], args[1])
		return nil
	},
}

var settingsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset all settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := &settings.Settings{}
		s.Clear()
		if err := s.Save(); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		fmt.Println("Settings cleared")
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsClearCmd)
}
