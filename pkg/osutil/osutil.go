// Copyright 2017 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package osutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

const (
	DefaultFilePerm = 0644
	DefaultExecPerm = 0755
)

// RunStdout runs cmd with the specified timeout and returns its stdout.
// Zero timeout means no timeout.
// Stderr is attached to the returned error, and is also copied to cmd.Stderr if it's set.
// cmd should be created with Command, so that the whole process group is killed on timeout.
func RunStdout(timeout time.Duration, cmd *exec.Cmd) ([]byte, error) {
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd.Stdout = stdout
	if cmd.Stderr != nil {
		cmd.Stderr = io.MultiWriter(stderr, cmd.Stderr)
	} else {
		cmd.Stderr = stderr
	}
	if err := wait(timeout, cmd); err != nil {
		return stdout.Bytes(), verboseError(cmd, err, stderr.Bytes())
	}
	return stdout.Bytes(), nil
}

func wait(timeout time.Duration, cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return &startError{fmt.Errorf("failed to start %v %+v: %w", cmd.Path, cmd.Args, err)}
	}
	if timeout <= 0 {
		return cmd.Wait()
	}
	done := make(chan bool)
	timedout := make(chan bool, 1)
	timer := time.NewTimer(timeout)
	go func() {
		select {
		case <-timer.C:
			timedout <- true
			killPgroup(cmd)
			cmd.Process.Kill()
		case <-done:
			timedout <- false
			timer.Stop()
		}
	}()
	err := cmd.Wait()
	close(done)
	if err != nil && <-timedout {
		return &timeoutError{err}
	}
	return err
}

type startError struct{ err error }

func (err *startError) Error() string { return err.err.Error() }
func (err *startError) Unwrap() error { return err.err }

type timeoutError struct{ err error }

func (err *timeoutError) Error() string { return err.err.Error() }
func (err *timeoutError) Unwrap() error { return err.err }

func verboseError(cmd *exec.Cmd, err error, output []byte) error {
	var startErr *startError
	if errors.As(err, &startErr) {
		return startErr.err
	}
	text := fmt.Sprintf("failed to run %q: %v", cmd.Args, err)
	if _, ok := err.(*timeoutError); ok {
		text = fmt.Sprintf("timedout %q", cmd.Args)
	}
	exitCode := 0
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	return &VerboseError{
		Title:    text,
		Output:   output,
		ExitCode: exitCode,
	}
}

// Command is similar to os/exec.Command, but also sets PDEATHSIG on linux.
func Command(bin string, args ...string) *exec.Cmd {
	cmd := exec.Command(bin, args...)
	setPdeathsig(cmd)
	return cmd
}

type VerboseError struct {
	Title    string
	Output   []byte
	ExitCode int
}

func (err *VerboseError) Error() string {
	if len(err.Output) == 0 {
		return err.Title
	}
	return fmt.Sprintf("%v\n%s", err.Title, err.Output)
}

func PrependContext(ctx string, err error) error {
	switch err1 := err.(type) {
	case *VerboseError:
		err1.Title = fmt.Sprintf("%v: %v", ctx, err1.Title)
		return err1
	default:
		return fmt.Errorf("%v: %w", ctx, err)
	}
}

func WriteFile(filename string, data []byte) error {
	return os.WriteFile(filename, data, DefaultFilePerm)
}

func WriteExecFile(filename string, data []byte) error {
	os.Remove(filename)
	return os.WriteFile(filename, data, DefaultExecPerm)
}
