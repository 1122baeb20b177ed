// Ranfetch downloads station configuration backups from the backup SFTP
// server, resolving stations to backup files through a planning index table.
//
// Examples:
//
//	ranfetch --index backups.xlsx Downtown_West 90310
//	ranfetch --index backups.xlsx --host backup.example.net --user rollout Harbor_East
package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rangen-network/rangen/pkg/cli"
	"github.com/rangen-network/rangen/pkg/fetch"
	"github.com/rangen-network/rangen/pkg/settings"
	"github.com/rangen-network/rangen/pkg/util"
	"github.com/rangen-network/rangen/pkg/version"
)

var (
	indexPath string
	host      string
	port      int
	user      string
	remoteDir string
	outDir    string
	listOnly  bool
	verbose   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "ranfetch <station|id>...",
		Short:         "Download station configuration backups",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `Ranfetch resolves stations against a backup index table (CSV or Excel
with Name, ID and Backup_Name columns) and downloads their configuration
backups over SFTP.

Stations may be named (dashes, underscores and case are ignored) or given
by numeric ID. Server defaults come from rangen settings:

  rangen settings set sftp_host backup.example.net
  rangen settings set sftp_user rollout`,
		Version: version.Info(),
		Args:    cobra.MinimumNArgs(1),
		RunE:    run,
	}

	rootCmd.Flags().StringVarP(&indexPath, "index", "i", "", "Backup index table (CSV or Excel)")
	rootCmd.Flags().StringVar(&host, "host", "", "Backup server host")
	rootCmd.Flags().IntVar(&port, "port", 22, "Backup server port")
	rootCmd.Flags().StringVarP(&user, "user", "u", "", "Backup server login")
	rootCmd.Flags().StringVar(&remoteDir, "remote-dir", "", "Backup directory on the server")
	rootCmd.Flags().StringVarP(&outDir, "out", "o", ".", "Download directory")
	rootCmd.Flags().BoolVarP(&listOnly, "list", "l", false, "Resolve stations without downloading")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if verbose {
		util.SetLogLevel("debug")
	} else {
		util.SetLogLevel("warn")
	}

	s, err := settings.Load()
	if err != nil {
		s = &settings.Settings{}
	}
	if host == "" {
		host = s.SFTPHost
	}
	if user == "" {
		user = s.SFTPUser
	}
	if remoteDir == "" {
		remoteDir = s.SFTPRemoteDir
	}

	if indexPath == "" {
		return fmt.Errorf("--index is required")
	}
	data, err := os.ReadFile(indexPath)
	if err != nil {
		return fmt.Errorf("reading index: %w", err)
	}
	ix, err := fetch.LoadIndex(data)
	if err != nil {
		return err
	}

	entries := make([]fetch.BackupEntry, 0, len(args))
	for _, query := range args {
		e, err := ix.Find(query)
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}

	if listOnly {
		t := cli.NewTable("STATION", "ID", "BACKUP")
		for _, e := range entries {
			t.Row(e.Name, e.ID, e.BackupName)
		}
		t.Flush()
		return nil
	}

	if host == "" {
		return fmt.Errorf("--host is required (or: rangen settings set sftp_host <host>)")
	}
	if user == "" {
		return fmt.Errorf("--user is required (or: rangen settings set sftp_user <user>)")
	}

	password, err := promptPassword(fmt.Sprintf("Password for %s@%s: ", user, host))
	if err != nil {
		return err
	}

	client, err := fetch.Dial(fetch.Config{
		Host:      host,
		Port:      port,
		Username:  user,
		Password:  password,
		RemoteDir: remoteDir,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	for _, e := range entries {
		name, err := client.Download(e, outDir)
		if err != nil {
			return fmt.Errorf("downloading %s: %w", e.Name, err)
		}
		fmt.Printf("%s %s\n", cli.Green("Fetched"), name)
	}
	return nil
}

// promptPassword reads a password without echo when stdin is a terminal.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	if term.IsTerminal(int(syscall.Stdin)) {
		defer fmt.Fprintln(os.Stderr)
		pw, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	var pw string
	if _, err := fmt.Fscanln(os.Stdin, &pw); err != nil {
		return "", err
	}
	return pw, nil
}
