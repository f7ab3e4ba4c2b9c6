// Package sshx provides the SSH-backed host used by boxup --host: commands
// run over SSH sessions, file access goes through SFTP.
package sshx

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

type Target struct {
	Host     string
	Port     int
	User     string
	Password string
}

type Client struct {
	target     Target
	sshClient  *ssh.Client
	sftpClient *sftp.Client
}

func Connect(t Target) (*Client, error) {
	if t.Port == 0 {
		t.Port = 22
	}
	cfg := &ssh.ClientConfig{
		User:            t.User,
		Auth:            []ssh.AuthMethod{ssh.Password(t.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         20 * time.Second,
	}
	addr := net.JoinHostPort(t.Host, fmt.Sprintf("%d", t.Port))
	c, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return nil, err
	}
	ftp, err := sftp.NewClient(c)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("open sftp channel: %w", err)
	}
	return &Client{target: t, sshClient: c, sftpClient: ftp}, nil
}

func (c *Client) Close() error {
	if c == nil || c.sshClient == nil {
		return nil
	}
	if c.sftpClient != nil {
		c.sftpClient.Close()
	}
	return c.sshClient.Close()
}

func (c *Client) Label() string {
	return fmt.Sprintf("%s@%s", c.target.User, c.target.Host)
}

func (c *Client) Run(cmd string) (string, error) {
	session, err := c.sshClient.NewSession()
	if err != nil {
		return "", err
	}
	defer session.Close()
	out, err := session.CombinedOutput(cmd)
	return string(out), err
}

func (c *Client) ReadFile(path string) ([]byte, error) {
	f, err := c.sftpClient.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (c *Client) WriteFile(path string, data []byte, mode os.FileMode) error {
	if dir := sftpDir(path); dir != "" {
		if err := c.sftpClient.MkdirAll(dir); err != nil {
			return err
		}
	}
	f, err := c.sftpClient.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Chmod(mode); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (c *Client) FileExists(path string) (bool, error) {
	_, err := c.sftpClient.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (c *Client) Glob(pattern string) ([]string, error) {
	return c.sftpClient.Glob(pattern)
}

func (c *Client) MkdirAll(path string, _ os.FileMode) error {
	return c.sftpClient.MkdirAll(path)
}

func (c *Client) Remove(path string) error {
	err := c.sftpClient.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (c *Client) Hostname() (string, error) {
	out, err := c.Run("hostname")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (c *Client) HomeDir() (string, error) {
	out, err := c.Run("printf '%s' \"$HOME\"")
	if err != nil {
		return "", err
	}
	home := strings.TrimSpace(out)
	if home == "" {
		return "", errors.New("remote $HOME is empty")
	}
	return home, nil
}

func (c *Client) Privileged() (bool, error) {
	out, err := c.Run("id -u")
	if err != nil {
		return false, fmt.Errorf("query remote uid: %w", err)
	}
	return strings.TrimSpace(out) == "0", nil
}

// sftpDir mirrors path.Dir for the forward-slash paths sftp speaks.
func sftpDir(p string) string {
	i := strings.LastIndex(p, "/")
	if i <= 0 {
		return ""
	}
	return p[:i]
}
