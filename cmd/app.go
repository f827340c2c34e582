package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dsrosen6/screenpower/internal/app"
	"github.com/dsrosen6/screenpower/internal/bus"
	"github.com/dsrosen6/screenpower/internal/config"
	"github.com/dsrosen6/screenpower/internal/forwarder"
	"github.com/dsrosen6/screenpower/internal/hyprctl"
)

const (
	version = "0.1.0"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "screenpower",
	Short: "Relay display power transitions to D-Bus",
	Long: `screenpower republishes display power transitions on D-Bus.

For every output Hyprland manages it emits org.kde.kwin.ScreenPower.aboutToTurnOff
before the output is switched off and org.kde.kwin.ScreenPower.wakeUp after it
comes back, with the output name as the only argument.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.InitConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}

		logLevel.Set(cfg.Level())
		if debugForced() {
			logLevel.Set(slog.LevelDebug)
		}
		slog.Debug("initiated config", "path", cfg.Path())
		return nil
	},
}

// Run is the primary entry point of screenpower. It is used both to launch the
// daemon and to handle CLI commands.
func Run() error {
	return rootCmd.Execute()
}

// handleListen is the entry point to the daemon; meant to be run as a systemd
// user unit or as an exec-once in hyprland.
func handleListen(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hc, err := hyprctl.NewClient()
	if err != nil {
		return fmt.Errorf("creating hyprctl client: %w", err)
	}

	conn, err := bus.Connect(cfg.BusKind())
	if err != nil {
		return err
	}

	defer func() {
		if err := conn.Close(); err != nil {
			slog.Error("closing dbus connection", "error", err)
		}
	}()

	pub := bus.NewPublisher(conn, cfg.BusMode(), nil)
	if err := pub.Claim(); err != nil {
		return fmt.Errorf("claiming bus name: %w", err)
	}

	defer func() {
		if err := pub.Release(); err != nil {
			slog.Error("releasing bus name", "error", err)
		}
	}()

	a := app.NewApp(cfg, hc, pub, logLevel)
	a.ForceDebug = debugForced()
	slog.Info("listening for display power events", "bus", cfg.BusKind(), "mode", cfg.BusMode())
	if err := a.Listen(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	slog.Info("shutting down")
	return nil
}

// handleTurnOff is meant for hypridle's on-timeout, before the outputs are
// switched off.
func handleTurnOff(_ *cobra.Command, args []string) error {
	if err := app.SendTurnOffCommand(cfg.SocketPath(), args); err != nil {
		return fmt.Errorf("sending turn off command: %w", err)
	}

	return nil
}

// handleWakeUp is meant for hypridle's on-resume, after the outputs are back.
func handleWakeUp(_ *cobra.Command, args []string) error {
	if err := app.SendWakeUpCommand(cfg.SocketPath(), args); err != nil {
		return fmt.Errorf("sending wake command: %w", err)
	}

	return nil
}

// handleOutputs prints the outputs Hyprland currently reports.
func handleOutputs(cmd *cobra.Command, _ []string) error {
	hc, err := hyprctl.NewClient()
	if err != nil {
		return fmt.Errorf("creating hyprctl client: %w", err)
	}

	monitors, err := hc.ListMonitors()
	if err != nil {
		return fmt.Errorf("listing monitors: %w", err)
	}

	for _, m := range monitors {
		state := "on"
		if !m.DPMSStatus {
			state = "off"
		}
		if m.Disabled {
			state = "disabled"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", m.Name, state, m.Description)
	}

	return nil
}

// handleEmit publishes a single signal straight to the bus, without a daemon.
// Useful for testing consumers.
func handleEmit(_ *cobra.Command, args []string) error {
	m, err := parseMemberArg(args[0])
	if err != nil {
		return err
	}

	conn, err := bus.Connect(cfg.BusKind())
	if err != nil {
		return err
	}

	defer func() {
		if err := conn.Close(); err != nil {
			slog.Error("closing dbus connection", "error", err)
		}
	}()

	return emitSignals(bus.NewPublisher(conn, cfg.BusMode(), nil), m, args[1:])
}

type namedPublisher interface {
	forwarder.Publisher
	Claim() error
	Release() error
}

// emitSignals publishes under the claimed service name, the same as the
// daemon, so consumers matching on the sender see them.
func emitSignals(pub namedPublisher, m forwarder.Member, outputs []string) error {
	if err := pub.Claim(); err != nil {
		return fmt.Errorf("claiming bus name: %w", err)
	}

	defer func() {
		if err := pub.Release(); err != nil {
			slog.Error("releasing bus name", "error", err)
		}
	}()

	for _, name := range outputs {
		if err := pub.Publish(forwarder.NewSignal(m, name)); err != nil {
			return fmt.Errorf("publishing: %w", err)
		}
	}

	return nil
}
