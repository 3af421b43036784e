package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/dtr-datecode/internal/datecode"
	"github.com/couchcryptid/dtr-datecode/internal/domain"
)

func newEncodeCmd() *cobra.Command {
	var (
		kindFlag string
		atFlag   string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the date code for a conveyance kind",
		Long: `Print the date code for a conveyance kind at --at (RFC 3339), or now.
Without --kind the code for every kind is printed.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			kinds := datecode.Kinds
			if kindFlag != "" {
				k, err := datecode.ParseKind(kindFlag)
				if err != nil {
					return err
				}
				kinds = []datecode.Kind{k}
			}

			at, err := parseTimeFlag("at", atFlag)
			if err != nil {
				return err
			}

			codes := make([]domain.CurrentCode, 0, len(kinds))
			for _, k := range kinds {
				codes = append(codes, domain.CurrentCode{Kind: k, Code: datecode.Encode(k, at), At: at})
			}

			if asJSON {
				return printJSON(codes)
			}
			if kindFlag != "" {
				fmt.Fprintln(outWriter, codes[0].Code)
				return nil
			}
			for _, c := range codes {
				fmt.Fprintf(outWriter, "%-8s%s\n", c.Kind, c.Code)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindFlag, "kind", "k", "", "conveyance kind: air, surface or ocean")
	cmd.Flags().StringVar(&atFlag, "at", "", "encode this RFC 3339 time instead of now")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
