package main

import (
	"encoding/json"
	"fmt"

	"github.com/joshu-sajeev/stepform/internal/lead"
	"github.com/spf13/cobra"
)

var (
	phoneJSON   bool
	phoneStrict bool
)

var phoneCmd = &cobra.Command{
	Use:   "phone <number>...",
	Short: "Normalize, format and validate Brazilian phone numbers",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		invalid := 0

		for _, raw := range args {
			res := lead.DescribePhone(raw)
			if !res.Valid {
				invalid++
			}

			if phoneJSON {
				b, err := json.Marshal(res)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(b))
				continue
			}

			fmt.Fprintf(out, "%s\tdigits=%s canonical=%s display=%q valid=%t\n",
				raw, res.Digits, res.Canonical, res.Display, res.Valid)
		}

		if phoneStrict && invalid > 0 {
			return fmt.Errorf("%d of %d numbers invalid", invalid, len(args))
		}
		return nil
	},
}

func init() {
	phoneCmd.Flags().BoolVar(&phoneJSON, "json", false, "print one JSON object per number")
	phoneCmd.Flags().BoolVar(&phoneStrict, "strict", false, "exit non-zero when any number is invalid")
}
