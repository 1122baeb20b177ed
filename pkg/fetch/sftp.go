package fetch

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/rangen-network/rangen/pkg/util"
)

// Config locates the backup SFTP server.
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	RemoteDir string
}

// Client is an open SFTP session to the backup server.
type Client struct {
	sshClient  *ssh.Client
	sftpClient *sftp.Client
	remoteDir  string
}

// Dial connects to the backup server.
func Dial(cfg Config) (*Client, error) {
	if cfg.Port == 0 {
		cfg.Port = 22
	}
	sshCfg := &ssh.ClientConfig{
		User: cfg.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(cfg.Password),
		},
		// Backup servers live on the management network and rotate keys on
		// reinstallation.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	sshClient, err := ssh.Dial("tcp", addr, sshCfg)
	if err != nil {
		return nil, fmt.Errorf("SSH dial %s: %w", addr, err)
	}
	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, fmt.Errorf("SFTP session %s: %w", addr, err)
	}

	remoteDir := cfg.RemoteDir
	if remoteDir == "" {
		remoteDir = "/"
	}
	return &Client{sshClient: sshClient, sftpClient: sftpClient, remoteDir: remoteDir}, nil
}

// Close shuts down the SFTP session and the SSH connection under it.
func (c *Client) Close() error {
	c.sftpClient.Close()
	return c.sshClient.Close()
}

// Fetch reads a backup file from the server's backup directory.
func (c *Client) Fetch(backupName string) ([]byte, error) {
	remotePath := path.Join(c.remoteDir, backupName)
	f, err := c.sftpClient.Open(remotePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", remotePath, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

// Download fetches a backup and stores it under the entry's local name in
// dir, returning the stored path.
func (c *Client) Download(entry BackupEntry, dir string) (string, error) {
	data, err := c.Fetch(entry.BackupName)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	local := filepath.Join(dir, entry.LocalName())
	if err := os.WriteFile(local, data, 0o644); err != nil {
		return "", err
	}
	util.WithFields(map[string]interface{}{
		"backup": entry.BackupName,
		"local":  local,
		"size":   len(data),
	}).Info("backup downloaded")
	return local, nil
}
