package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/nfrund/bookreader/internal/auth"
	"github.com/nfrund/bookreader/internal/config"
	"github.com/nfrund/bookreader/internal/database"
	"github.com/nfrund/bookreader/internal/form"
	"github.com/nfrund/bookreader/internal/logging"
	"github.com/nfrund/bookreader/internal/uiloop"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// passwordEnv is read when --password is not given.
const passwordEnv = "BOOKREADER_PASSWORD"

type accountFlags struct {
	email    string
	password string
}

func newAccountCmd(mode auth.Mode, short string) *cobra.Command {
	flags := &accountFlags{}
	c := &cobra.Command{
		Use:   mode.String(),
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			password := flags.password
			if password == "" {
				password = os.Getenv(passwordEnv)
			}
			return runAccount(cmd.Context(), cmd.OutOrStdout(), mode, flags.email, password)
		},
	}
	c.Flags().StringVar(&flags.email, "email", "", "account email address")
	c.Flags().StringVar(&flags.password, "password", "", "account password (defaults to $"+passwordEnv+")")
	_ = c.MarkFlagRequired("email")
	return c
}

func init() {
	rootCmd.AddCommand(newAccountCmd(auth.SignIn, "Sign in an existing account"))
	rootCmd.AddCommand(newAccountCmd(auth.SignUp, "Create an account and its reader profile"))
}

func runAccount(ctx context.Context, out io.Writer, mode auth.Mode, email, password string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}
	logging.New()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := database.NewDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(context.WithoutCancel(ctx))

	outcome, err := submit(ctx, database.NewIdentityStore(cfg), mode, email, password,
		auth.WithDocumentStore(database.NewDocumentStore(db)),
		auth.WithProfileCollection(cfg.GetProfileCollection()),
		auth.WithTimeout(cfg.GetAuthTimeout()),
	)
	if err != nil {
		return err
	}
	return report(out, outcome)
}

// submit runs one submission through an auth.Controller on a private loop
// and waits for its outcome, including any profile write.
func submit(ctx context.Context, identity auth.IdentityProvider, mode auth.Mode, email, password string, opts ...auth.Option) (auth.Outcome, error) {
	loop := uiloop.New(1)
	loop.Start(ctx)
	defer loop.Stop()

	controller := auth.NewController(identity, loop, opts...)
	defer controller.Wait()

	emailField := form.NewEmailField(email)
	passwordField := form.NewPasswordField(password)
	results := make(chan auth.Outcome, 1)

	var outcome auth.Outcome
	err := loop.Call(ctx, func() {
		outcome = controller.Submit(ctx, mode, emailField, passwordField, auth.Completion{
			OnSuccess: func(session auth.Session) {
				results <- auth.Outcome{Status: auth.Success, Mode: mode, Session: session}
			},
			OnFailure: func(o auth.Outcome) { results <- o },
		})
		if outcome.Status == auth.Idle {
			outcome.Reason = fieldErrors(emailField, passwordField)
		}
	})
	if err != nil {
		return auth.Outcome{}, err
	}
	if outcome.Status == auth.Idle {
		return outcome, nil
	}

	select {
	case outcome = <-results:
		return outcome, nil
	case <-ctx.Done():
		return auth.Outcome{}, ctx.Err()
	}
}

// fieldErrors reveals the first visible field error, as a blur would.
func fieldErrors(fields ...*form.Field) string {
	for _, f := range fields {
		f.SetFocused(true)
		f.SetFocused(false)
		if msg, ok := f.ErrorMessage(); ok {
			return msg
		}
	}
	return ""
}

func report(out io.Writer, outcome auth.Outcome) error {
	title := cases.Title(language.English)
	status := title.String(outcome.Status.String())

	switch outcome.Status {
	case auth.Success:
		fmt.Fprintf(out, "%s: %s (user %s)\n", outcome.Mode, status, outcome.Session.UserID)
		return nil
	case auth.Idle:
		return fmt.Errorf("%s not submitted: %s", outcome.Mode, outcome.Reason)
	default:
		fmt.Fprintf(out, "%s: %s\n", outcome.Mode, status)
		return fmt.Errorf("%s", outcome.Reason)
	}
}
