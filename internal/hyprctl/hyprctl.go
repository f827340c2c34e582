// Package hyprctl provides methods to run hyprctl commands.
package hyprctl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const (
	binaryName       = "hyprctl"
	unknownReqOutput = "unknown request"
	dispatchOK       = "ok"
)

type Client struct {
	BinaryPath string
}

var (
	ErrUnknownRequest = errors.New(unknownReqOutput)
	// ErrDispatch is returned when a dispatcher answers with anything but "ok".
	ErrDispatch = errors.New("dispatch failed")
)

func NewClient() (*Client, error) {
	bp, err := exec.LookPath(binaryName)
	if err != nil {
		return nil, fmt.Errorf("finding full hyprctl binary path: %w", err)
	}

	return &Client{
		BinaryPath: bp,
	}, nil
}

func (c *Client) RunCommandWithUnmarshal(args []string, v any) error {
	a := append([]string{"-j"}, args...)
	out, err := c.RunCommand(a)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(out, v); err != nil {
		return fmt.Errorf("unmarshaling json: %w", err)
	}

	return nil
}

func (c *Client) RunCommand(args []string) ([]byte, error) {
	cmd := exec.Command(c.BinaryPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("running hyprctl %s: %w", strings.Join(args, " "), err)
	}

	out := stdout.Bytes()
	if errStr := strings.TrimSpace(stderr.String()); errStr != "" {
		return nil, errors.New(errStr)
	}

	return out, checkForErr(string(out))
}

// Dispatch runs 'hyprctl dispatch' with args. Hyprland answers "ok" on
// success and a message otherwise.
func (c *Client) Dispatch(args ...string) error {
	out, err := c.RunCommand(append([]string{"dispatch"}, args...))
	if err != nil {
		return err
	}

	if reply := strings.TrimSpace(string(out)); reply != dispatchOK {
		return fmt.Errorf("%w: %s", ErrDispatch, reply)
	}

	return nil
}

func checkForErr(out string) error {
	out = strings.TrimSpace(out)
	switch out {
	case unknownReqOutput:
		return ErrUnknownRequest
	default:
		return nil
	}
}
