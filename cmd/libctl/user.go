package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	var name, email string
	createAdmin := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(c *cobra.Command, _ []string) error {
			password, err := readPassword(c.OutOrStdout(), c.InOrStdin())
			if err != nil {
				return err
			}
			m, err := openMaintenance(c.Context())
			if err != nil {
				return err
			}
			defer m.Close()
			id, err := m.CreateAdmin(c.Context(), name, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "admin %d created for %s\n", id, email)
			return nil
		},
	}
	createAdmin.Flags().StringVar(&name, "name", "", "display name")
	createAdmin.Flags().StringVar(&email, "email", "", "login email")
	_ = createAdmin.MarkFlagRequired("name")  //nolint:errcheck
	_ = createAdmin.MarkFlagRequired("email") //nolint:errcheck
	cmd.AddCommand(createAdmin)
	return cmd
}

// readPassword prompts without echo on a terminal and reads one line otherwise.
func readPassword(out io.Writer, in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(out, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", errors.Wrap(err, "read password")
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", errors.Wrap(err, "read password")
	}
	return strings.TrimSpace(line), nil
}
