package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCheckCmd returns the check command, which validates the site record
// without building.
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validates the site configuration record",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSite()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Site %q is valid (base URL %s, locales %v)\n", s.Title, s.BaseURL, s.I18n.Locales)
			return err
		},
	}
}
