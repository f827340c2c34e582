// Package hypr connects to Hyprland's event socket.
package hypr

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
)

const (
	runtimeEnv = "XDG_RUNTIME_DIR"
	sigEnv     = "HYPRLAND_INSTANCE_SIGNATURE"
	sockName   = ".socket2.sock"
)

var ErrMissingEnvs = errors.New("missing hyprland envs")

type SocketConn struct {
	*net.UnixConn
}

// SocketPath returns the path of socket2 for the running Hyprland instance.
func SocketPath() (string, error) {
	runtime := os.Getenv(runtimeEnv)
	sig := os.Getenv(sigEnv)
	if runtime == "" || sig == "" {
		return "", ErrMissingEnvs
	}

	return filepath.Join(runtime, "hypr", sig, sockName), nil
}

func NewSocketConn() (*SocketConn, error) {
	sock, err := SocketPath()
	if err != nil {
		return nil, err
	}

	addr := &net.UnixAddr{
		Name: sock,
		Net:  "unix",
	}

	conn, err := net.DialUnix("unix", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to socket: %w", err)
	}

	return &SocketConn{conn}, nil
}
