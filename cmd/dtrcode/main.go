// Command dtrcode encodes and decodes DTR date codes from the command line.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	prettyjson "github.com/hokaccha/go-prettyjson"
	"github.com/jonboulle/clockwork"
	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/dtr-datecode/internal/domain"
)

var (
	outWriter io.Writer = os.Stdout
	errWriter io.Writer = os.Stderr

	colorableOut io.Writer = colorable.NewColorableStdout()
	jsonFmt                = prettyjson.NewFormatter()

	clock = clockwork.NewRealClock()
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dtrcode",
		Short:         "Encode and decode DTR shipment date codes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			outWriter = cmd.OutOrStdout()
			errWriter = cmd.ErrOrStderr()

			if outWriter != os.Stdout {
				colorableOut = outWriter
				jsonFmt.DisabledColor = true
			}
			domain.SetClock(clock)
		},
	}
	root.AddCommand(newEncodeCmd(), newDecodeCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(errWriter, err)
		os.Exit(1)
	}
}

// parseTimeFlag parses an RFC 3339 flag value, defaulting to the current time.
func parseTimeFlag(name, v string) (time.Time, error) {
	if v == "" {
		return clock.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return t, nil
}

func printJSON(v any) error {
	b, err := jsonFmt.Marshal(v)
	if err != nil {
		return err
	}
	_, _ = colorableOut.Write(b)
	fmt.Fprintln(outWriter)
	return nil
}
