package hyprctl

import (
	"fmt"
)

// Monitor is the subset of 'hyprctl -j monitors' output screenpower cares about.
type Monitor struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	DPMSStatus  bool   `json:"dpmsStatus"`
	Disabled    bool   `json:"disabled"`
}

func (c *Client) ListMonitors() ([]Monitor, error) {
	var m []Monitor
	if err := c.RunCommandWithUnmarshal([]string{"monitors"}, &m); err != nil {
		return nil, err
	}

	return m, nil
}

// SetDPMS switches a single output's power on or off.
func (c *Client) SetDPMS(name string, on bool) error {
	if err := c.Dispatch(dpmsArgs(name, on)...); err != nil {
		return fmt.Errorf("setting dpms for %s: %w", name, err)
	}

	return nil
}

func dpmsArgs(name string, on bool) []string {
	state := "off"
	if on {
		state = "on"
	}

	return []string{"dpms", state, name}
}

// MonitorNames returns the names of the monitors that are not disabled.
func MonitorNames(monitors []Monitor) []string {
	names := make([]string, 0, len(monitors))
	for _, m := range monitors {
		if m.Disabled {
			continue
		}
		names = append(names, m.Name)
	}

	return names
}
