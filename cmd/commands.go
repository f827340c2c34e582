package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dsrosen6/screenpower/internal/forwarder"
)

var (
	listenCmd = &cobra.Command{
		Use:   "listen",
		Short: "Run the daemon",
		Args:  cobra.NoArgs,
		RunE:  handleListen,
	}

	offCmd = &cobra.Command{
		Use:     "off [output...]",
		Aliases: []string{"turn-off"},
		Short:   "Announce that outputs are about to turn off (all outputs if none given)",
		RunE:    handleTurnOff,
	}

	wakeCmd = &cobra.Command{
		Use:     "wake [output...]",
		Aliases: []string{"wake-up"},
		Short:   "Announce that outputs woke up (all outputs if none given)",
		RunE:    handleWakeUp,
	}

	outputsCmd = &cobra.Command{
		Use:   "outputs",
		Short: "List the outputs hyprland reports",
		Args:  cobra.NoArgs,
		RunE:  handleOutputs,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}

	emitCmd = &cobra.Command{
		Use:       "emit <aboutToTurnOff|wakeUp> <output>...",
		Short:     "Publish a signal directly on the bus",
		Args:      cobra.MinimumNArgs(2),
		ValidArgs: []string{string(forwarder.MemberAboutToTurnOff), string(forwarder.MemberWakeUp)},
		RunE:      handleEmit,
	}
)

func init() {
	rootCmd.AddCommand(listenCmd, offCmd, wakeCmd, outputsCmd, emitCmd, versionCmd)
}

func parseMemberArg(s string) (forwarder.Member, error) {
	m, err := forwarder.ParseMember(s)
	if err != nil {
		return "", fmt.Errorf("%w (want %s or %s)", err, forwarder.MemberAboutToTurnOff, forwarder.MemberWakeUp)
	}

	return m, nil
}
