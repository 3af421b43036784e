package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/dtr-datecode/internal/domain"
)

func newDecodeCmd() *cobra.Command {
	var (
		nowFlag  string
		kindFlag string
		all      bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "decode CODE",
		Short: "Print the date a code most recently stood for",
		Long: `Print the most recent date CODE could stand for relative to --now (RFC 3339),
or the current time. The conveyance kind is taken from the code's shape unless
--kind forces one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			now, err := parseTimeFlag("now", nowFlag)
			if err != nil {
				return err
			}

			res, err := domain.ResolveRequest(domain.DecodeRequest{
				Code:          args[0],
				Kind:          kindFlag,
				ReferenceTime: &now,
			}, nil)
			if err != nil {
				return err
			}

			switch {
			case asJSON:
				return printJSON(res)
			case all:
				for _, t := range res.Candidates {
					fmt.Fprintln(outWriter, t.Format(domain.DisplayLayout))
				}
			case len(res.Candidates) == 0:
				return fmt.Errorf("no date in the last year matches %s", res.Code)
			default:
				fmt.Fprintln(outWriter, res.Display)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&nowFlag, "now", "", "decode relative to this RFC 3339 time instead of now")
	cmd.Flags().StringVarP(&kindFlag, "kind", "k", "", "force a conveyance kind instead of reading the code's shape")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "print every candidate date, oldest first")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}
