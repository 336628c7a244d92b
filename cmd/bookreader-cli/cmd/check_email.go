package cmd

import (
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/nfrund/bookreader/internal/form"
	"github.com/spf13/cobra"
)

var checkEmailCmd = &cobra.Command{
	Use:   "check-email <email>...",
	Short: "Validate email addresses with the login screen rules",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		invalid, err := checkEmails(cmd.OutOrStdout(), args)
		if err != nil {
			return err
		}
		if invalid > 0 {
			return fmt.Errorf("%d of %d addresses are invalid", invalid, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkEmailCmd)
}

// checkEmails prints one verdict per address and returns how many failed.
func checkEmails(out io.Writer, emails []string) (int, error) {
	v := validator.New()
	if err := form.RegisterTags(v); err != nil {
		return 0, fmt.Errorf("register validation tags: %w", err)
	}

	invalid := 0
	for _, email := range emails {
		if err := v.Var(email, form.EmailTag); err != nil {
			invalid++
			fmt.Fprintf(out, "%q\tinvalid\t%s\n", email, form.EmailError(email))
			continue
		}
		fmt.Fprintf(out, "%q\tvalid\n", email)
	}
	return invalid, nil
}
