package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/naveenspark/tally/internal/output"
	"github.com/naveenspark/tally/pkg/client"
	"github.com/naveenspark/tally/pkg/domain"
)

// prompter reads answers line by line from the command's stdin.
type prompter struct {
	raw io.Reader
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	raw := cmd.InOrStdin()
	return &prompter{raw: raw, in: bufio.NewReader(raw), out: cmd.ErrOrStderr()}
}

// ask returns value when set, otherwise prompts for it.
func (p *prompter) ask(label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprintf(p.out, "%s: ", label)
	return p.readLine(label)
}

// secret is ask without echo when stdin is a terminal.
func (p *prompter) secret(label, value string) (string, error) {
	fd, ok := p.terminal()
	if value != "" || !ok {
		return p.ask(label, value)
	}
	fmt.Fprintf(p.out, "%s: ", label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", label, err)
	}
	line := strings.TrimSpace(string(b))
	if line == "" {
		return "", fmt.Errorf("%s is required", label)
	}
	return line, nil
}

func (p *prompter) terminal() (int, bool) {
	f, ok := p.raw.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	return int(f.Fd()), true
}

func (p *prompter) readLine(label string) (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", label, err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("%s is required", label)
	}
	return line, nil
}

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			p := newPrompter(cmd)
			if email, err = p.ask("email", email); err != nil {
				return err
			}
			if password, err = p.secret("password", password); err != nil {
				return err
			}

			resp, err := e.client.Auth().Login(cmd.Context(), domain.Credentials{Email: email, Password: password})
			if err != nil {
				return fmt.Errorf("login failed: %s", client.Message(err))
			}
			return finishAuth(e, resp)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			p := newPrompter(cmd)
			if name, err = p.ask("name", name); err != nil {
				return err
			}
			if email, err = p.ask("email", email); err != nil {
				return err
			}
			if password, err = p.secret("password", password); err != nil {
				return err
			}

			resp, err := e.client.Auth().Register(cmd.Context(), domain.Registration{Name: name, Email: email, Password: password})
			if err != nil {
				return fmt.Errorf("register failed: %s", client.Message(err))
			}
			return finishAuth(e, resp)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func finishAuth(e *env, resp *domain.AuthResponse) error {
	if err := e.store.Login(resp.User, resp.Token); err != nil {
		// The session is live for this process but won't survive it.
		if !e.store.IsAuthenticated() {
			return fmt.Errorf("save session: %w", err)
		}
		fmt.Fprintf(e.errOut, "warning: session not saved: %v\n", err)
	}
	printWelcome(e.out, e.store.User())
	return nil
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			if !e.store.IsAuthenticated() {
				fmt.Fprintln(e.out, "Already logged out.")
				return nil
			}
			if err := e.store.Logout(); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			fmt.Fprintln(e.out, "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(e *env) error {
				u := e.store.User()
				if refresh {
					fresh, err := e.client.Auth().Me(cmd.Context())
					if err != nil {
						return err
					}
					if err := e.store.SetUser(fresh); err != nil {
						e.log.Warn("store refreshed user", zap.Error(err))
					}
					u = fresh
				}
				return output.Print(e.out, e.cfg.OutputFormat, output.Profile{User: u})
			})
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "fetch the profile from the server")
	return cmd
}

func newProfileCmd() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update your name or email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.ProfileUpdate
			if cmd.Flags().Changed("name") {
				n := strings.TrimSpace(name)
				if n == "" {
					return errors.New("name cannot be empty")
				}
				patch.Name = &n
			}
			if cmd.Flags().Changed("email") {
				m := strings.TrimSpace(email)
				if m == "" {
					return errors.New("email cannot be empty")
				}
				patch.Email = &m
			}
			if patch.Empty() {
				return errors.New("nothing to update: pass --name or --email")
			}

			return withSession(cmd, func(e *env) error {
				u, err := e.client.Auth().UpdateProfile(cmd.Context(), patch)
				if err != nil {
					return err
				}
				if u == nil {
					u, err = e.store.UpdateProfile(patch)
				} else {
					err = e.store.SetUser(u)
				}
				if err != nil {
					return fmt.Errorf("save profile: %w", err)
				}
				return output.Print(e.out, e.cfg.OutputFormat, output.Profile{User: u})
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&email, "email", "", "new email")
	return cmd
}
