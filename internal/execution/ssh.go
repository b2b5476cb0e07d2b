package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	scp "github.com/bramvdbogaerde/go-scp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/term"
)

const DefaultSSHPort = 22

// Command-not-found exit status of POSIX shells.
const shellNotFoundExit = 127

// Host describes a remote benchmark host reachable over SSH.
type Host struct {
	IP          string `yaml:"ip" json:"ip"`
	Port        int    `yaml:"port,omitempty" json:"port,omitempty"`
	Username    string `yaml:"username" json:"username"`
	Password    string `yaml:"password,omitempty" json:"password,omitempty"`
	KeyFile     string `yaml:"key_file,omitempty" json:"key_file,omitempty"`
	KeyPassword string `yaml:"key_password,omitempty" json:"key_password,omitempty"`
}

type sshClient struct {
	client *ssh.Client
	host   Host
}

// NewSSHClient connects to the host and returns a Client that runs the
// benchmark binary there.
func NewSSHClient(host Host) (Client, error) {
	client, err := connect(host)
	if err != nil {
		return nil, fmt.Errorf("creating ssh client: %w", err)
	}
	return &sshClient{client: client, host: host}, nil
}

func (c *sshClient) Close() error {
	return c.client.Close()
}

// Run executes the binary on the remote host through the login shell.
// If the context is done before the process exits, a SIGINT is sent to
// the remote process.
func (c *sshClient) Run(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.Path) == "" {
		return Result{ExitCode: -1}, errors.New("empty binary path")
	}

	session, err := c.client.NewSession()
	if err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("creating session: %w", err)
	}
	defer session.Close()

	if req.UsePTY {
		modes := ssh.TerminalModes{
			ssh.ECHO:          1,
			ssh.TTY_OP_ISPEED: 14400,
			ssh.TTY_OP_OSPEED: 14400,
		}
		width, height := termSize()
		if err := session.RequestPty("xterm-256color", height, width, modes); err != nil {
			return Result{ExitCode: -1}, fmt.Errorf("requesting PTY: %w", err)
		}
	}

	capture := newCaptureBuffer()
	dest := outputWriter(req.Stdout, capture)
	session.Stdout = dest
	session.Stderr = dest

	command := buildCommand(req)
	if err := session.Start(command); err != nil {
		return Result{ExitCode: -1}, err
	}

	resultChan := make(chan struct {
		exitCode int
		err      error
	}, 1)

	go func() {
		err := session.Wait()
		exitCode := 0
		if err != nil {
			var exitErr *ssh.ExitError
			if errors.As(err, &exitErr) {
				exitCode = exitErr.ExitStatus()
				err = nil
			} else {
				exitCode = -1
			}
		}
		resultChan <- struct {
			exitCode int
			err      error
		}{exitCode: exitCode, err: err}
	}()

	select {
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGINT)
		return Result{ExitCode: -1, Output: capture.String()}, ctx.Err()
	case res := <-resultChan:
		result := Result{Output: capture.String(), ExitCode: res.exitCode}
		if res.err != nil {
			return result, res.err
		}
		// the remote shell reports a missing binary as exit 127
		if res.exitCode == shellNotFoundExit {
			return result, &NotFoundError{Name: req.Path}
		}
		return result, nil
	}
}

func buildCommand(req Request) string {
	parts := make([]string, 0, len(req.Args)+1)
	parts = append(parts, shellQuote(req.Path))
	for _, a := range req.Args {
		parts = append(parts, shellQuote(a))
	}
	command := strings.Join(parts, " ")
	if req.Dir != "" {
		command = "cd " + shellQuote(req.Dir) + " && " + command
	}
	return command
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Put writes data to a remote path via scp.
func (c *sshClient) Put(ctx context.Context, p string, data []byte, mode fs.FileMode) error {
	if dir := path.Dir(p); dir != "." && dir != "/" {
		session, err := c.client.NewSession()
		if err != nil {
			return fmt.Errorf("creating session: %w", err)
		}
		err = session.Run("mkdir -p " + shellQuote(dir))
		session.Close()
		if err != nil {
			return fmt.Errorf("creating remote directory %s: %w", dir, err)
		}
	}

	client, err := scp.NewClientBySSH(c.client)
	if err != nil {
		return fmt.Errorf("creating scp client: %w", err)
	}
	perms := fmt.Sprintf("%04o", mode.Perm())
	if err := client.Copy(ctx, bytes.NewReader(data), p, perms, int64(len(data))); err != nil {
		return fmt.Errorf("uploading %s: %w", p, err)
	}
	return nil
}

// Fetch copies a file from the remote host to the local filesystem.
func (c *sshClient) Fetch(ctx context.Context, remotePath, localPath string) error {
	client, err := scp.NewClientBySSH(c.client)
	if err != nil {
		return fmt.Errorf("creating scp client: %w", err)
	}
	return fetchToFile(localPath, func(file *os.File) error {
		if err := client.CopyFromRemote(ctx, file, remotePath); err != nil {
			return fmt.Errorf("copying %s: %w", remotePath, err)
		}
		return nil
	})
}

// fetchToFile streams a copy into localPath. A failed copy must not
// leave a partial artifact behind, so the file is removed on the error
// path.
func fetchToFile(localPath string, copy func(*os.File) error) error {
	file, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("creating local file: %w", err)
	}
	if err := copy(file); err != nil {
		file.Close()
		os.Remove(localPath)
		return err
	}
	return file.Close()
}

// Remove deletes a remote file; a missing file is not an error.
func (c *sshClient) Remove(_ context.Context, p string) error {
	session, err := c.client.NewSession()
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	defer session.Close()
	if err := session.Run("rm -f -- " + shellQuote(p)); err != nil {
		return fmt.Errorf("removing %s: %w", p, err)
	}
	return nil
}

// ExpandTilde resolves a leading ~ and any environment variables in a
// path, so host configs can say key_file: ~/.ssh/id_rsa.
func ExpandTilde(p string) string {
	if p == "~" {
		return os.Getenv("HOME")
	}
	if strings.HasPrefix(p, "~/") {
		p = os.Getenv("HOME") + p[1:]
	}
	return os.ExpandEnv(p)
}

func connect(host Host) (*ssh.Client, error) {
	var auth []ssh.AuthMethod

	if host.KeyFile != "" {
		keyData, err := os.ReadFile(ExpandTilde(host.KeyFile))
		if err != nil {
			return nil, fmt.Errorf("reading key file: %w", err)
		}
		var key ssh.Signer
		if host.KeyPassword != "" {
			key, err = ssh.ParsePrivateKeyWithPassphrase(keyData, []byte(host.KeyPassword))
		} else {
			key, err = ssh.ParsePrivateKey(keyData)
		}
		if err != nil {
			return nil, fmt.Errorf("parsing key file: %w", err)
		}
		auth = append(auth, ssh.PublicKeys(key))
	}
	if host.Password != "" {
		auth = append(auth, ssh.Password(host.Password))
	}
	if len(auth) == 0 {
		return nil, errors.New("host needs either key_file or password")
	}

	sshConfig := &ssh.ClientConfig{
		User:            host.Username,
		Auth:            auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	port := host.Port
	if port == 0 {
		port = DefaultSSHPort
	}

	client, err := ssh.Dial("tcp", fmt.Sprintf("%s:%d", host.IP, port), sshConfig)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// termSize returns the local terminal size, with a sane fallback when
// stdout is not a terminal.
func termSize() (width, height int) {
	width, height = 80, 40
	if os.Stdout != nil {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				return w, h
			}
		}
	}
	return width, height
}
