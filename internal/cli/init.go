package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"portalkombat/internal/config"
)

func newInitCmd() *cobra.Command {
	var (
		path     string
		username string
		hosts    []string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with your portal credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = configFlag(cmd)
			}
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			p := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
			cfg, err := buildInitConfig(p, username, hosts)
			if err != nil {
				return err
			}
			if err := cfg.Save(path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", okColor.Sprint("Wrote"), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Where to write the config (default: XDG config dir)")
	cmd.Flags().StringVarP(&username, "username", "u", "", "Portal username (prompted when empty)")
	cmd.Flags().StringSliceVar(&hosts, "allow-host", nil, "Portal host glob, IP or CIDR allowed to receive credentials (repeatable)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

// buildInitConfig fills a default config from flags and prompts
func buildInitConfig(p *prompter, username string, hosts []string) (*config.Config, error) {
	var err error
	if username == "" {
		if username, err = p.line("Username: "); err != nil {
			return nil, err
		}
	}
	password, err := p.secret("Password: ")
	if err != nil {
		return nil, err
	}

	cfg := config.DefaultConfig()
	cfg.Profile = config.ProfileConfig{Username: strings.TrimSpace(username), Password: password}
	cfg.Portal.AllowedHosts = hosts

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// prompter reads answers from a terminal or, when piped, from lines of in
type prompter struct {
	in     io.Reader
	reader *bufio.Reader
	out    io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: in, reader: bufio.NewReader(in), out: out}
}

func (p *prompter) line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	s, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// secret reads without echo when in is a terminal
func (p *prompter) secret(prompt string) (string, error) {
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(p.out, prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	return p.line(prompt)
}
