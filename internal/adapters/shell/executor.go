// Package shell runs exec tasks as external commands attached to a PTY.
package shell

import (
	"context"
	"errors"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/creack/pty"
	"go.trai.ch/mint/internal/core/domain"
	"go.trai.ch/mint/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// LocalBinDir is where npm installs project-local tool binaries.
// It is prepended to PATH when present in the task's working directory.
var LocalBinDir = filepath.Join("node_modules", ".bin")

// Process represents a running command.
type Process interface {
	Wait() error
	Resize(rows, cols int) error
}

type ptyProcess struct {
	cmd    *exec.Cmd
	ptmx   *os.File
	ioDone <-chan struct{}
}

func (p *ptyProcess) Wait() error {
	err := p.cmd.Wait()
	<-p.ioDone
	return err
}

func (p *ptyProcess) Resize(rows, cols int) error {
	if rows > math.MaxUint16 || cols > math.MaxUint16 || rows < 0 || cols < 0 {
		return errors.New("terminal size out of bounds")
	}

	return pty.Setsize(p.ptmx, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
}

// Executor implements ports.Executor for exec tasks using os/exec and a PTY.
type Executor struct{}

// NewExecutor creates a new Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Start launches the task's command in a PTY. The PTY merges the command's
// stdout and stderr, so everything is copied to stdout.
// It returns nil for a task without a command.
func (e *Executor) Start(ctx context.Context, task *domain.Task, stdout io.Writer) (Process, error) {
	if len(task.Command) == 0 {
		return nil, nil
	}

	name := task.Command[0]
	args := task.Command[1:]
	dir := task.WorkingDir.String()

	cmdEnv := resolveEnvironment(os.Environ(), toolPaths(dir), task.Environment)

	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // command comes from project configuration
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}
	cmd.Dir = dir
	cmd.Env = cmdEnv

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to start command"), "command", name)
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		defer func() { _ = ptmx.Close() }()
		_, _ = io.Copy(stdout, ptmx)
	}()

	return &ptyProcess{cmd: cmd, ptmx: ptmx, ioDone: ioDone}, nil
}

// Execute runs the task's command and waits for it to complete.
func (e *Executor) Execute(ctx context.Context, task *domain.Task, stdout, _ io.Writer) error {
	proc, err := e.Start(ctx, task, stdout)
	if err != nil {
		return err
	}
	if proc == nil {
		return nil
	}

	if err := proc.Wait(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode)
	}

	return nil
}

// allowListedEnvVars are the system environment variables a task inherits.
// Everything else must be declared in the task's environment.
var allowListedEnvVars = map[string]struct{}{
	"HOME":   {},
	"LANG":   {},
	"PATH":   {},
	"TERM":   {},
	"TMPDIR": {},
	"USER":   {},
}

// resolveEnvironment merges, in increasing priority, the allow-listed system
// variables, the project tool directories (prepended to PATH) and the task overrides.
func resolveEnvironment(sysEnv, tools []string, taskEnv map[string]string) []string {
	envMap := filterSystemEnv(sysEnv)

	if len(tools) > 0 {
		path := strings.Join(tools, string(os.PathListSeparator))
		if sysPath := envMap["PATH"]; sysPath != "" {
			path += string(os.PathListSeparator) + sysPath
		}
		envMap["PATH"] = path
	}

	for k, v := range taskEnv {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

func filterSystemEnv(sysEnv []string) map[string]string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedEnvVars[k]; allowed {
			envMap[k] = v
		}
	}
	return envMap
}

// toolPaths returns the project-local binary directory below dir if it exists.
func toolPaths(dir string) []string {
	if dir == "" {
		return nil
	}
	bin := filepath.Join(dir, LocalBinDir)
	if info, err := os.Stat(bin); err == nil && info.IsDir() {
		return []string{bin}
	}
	return nil
}

// lookPath searches for an executable in the PATH of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if rest, ok := strings.CutPrefix(e, "PATH="); ok {
			path = rest
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
