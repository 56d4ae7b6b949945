// Command probe walks one session through the auth endpoints of a running
// server and prints each response.
package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

type probeOptions struct {
	url      string
	register bool
	name     string
	email    string
	password string
	role     string
	semester int
	frontend int
	backend  int
}

func main() {
	if err := newProbeCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newProbeCmd() *cobra.Command {
	opts := &probeOptions{}

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Exercise register, login, me and logout against a server",
		Long: `Probe optionally registers an account, logs in with a cookie jar,
calls /api/auth/me, logs out and calls /api/auth/me again.
It fails when the session does not behave as expected.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProbe(cmd.OutOrStdout(), opts)
		},
	}

	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	f := cmd.Flags()
	f.StringVar(&opts.url, "url", apiURL, "backend base URL")
	f.BoolVar(&opts.register, "register", false, "register the account first")
	f.StringVar(&opts.name, "name", "Probe User", "name used with --register")
	f.StringVar(&opts.email, "email", "probe@example.com", "account email")
	f.StringVar(&opts.password, "password", "probe-password", "account password")
	f.StringVar(&opts.role, "role", "TEACHER", "role used with --register (TEACHER or STUDENT)")
	f.IntVar(&opts.semester, "semester", 1, "semester id for a STUDENT registration")
	f.IntVar(&opts.frontend, "frontend", 3, "frontend level for a STUDENT registration")
	f.IntVar(&opts.backend, "backend", 3, "backend level for a STUDENT registration")

	return cmd
}

func runProbe(out io.Writer, opts *probeOptions) error {
	client, err := NewAPIClient(opts.url)
	if err != nil {
		return err
	}

	if opts.register {
		req := RegisterRequest{
			Name:     opts.name,
			Email:    opts.email,
			Password: opts.password,
			Role:     opts.role,
		}
		if opts.role == "STUDENT" {
			req.SemesterID, req.FrontendLevel, req.BackendLevel = &opts.semester, &opts.frontend, &opts.backend
		}
		res, err := client.Register(req)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "register: %s\n", res)
		if res.Status != http.StatusCreated && res.Status != http.StatusConflict {
			return fmt.Errorf("register returned %d", res.Status)
		}
	}

	steps := []struct {
		name string
		call func() (Result, error)
		want int
	}{
		{"login", func() (Result, error) { return client.Login(opts.email, opts.password) }, http.StatusOK},
		{"me", client.Me, http.StatusOK},
		{"logout", client.Logout, http.StatusOK},
		{"me after logout", client.Me, http.StatusUnauthorized},
	}

	for _, step := range steps {
		res, err := step.call()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %s\n", step.name, res)
		if res.Status != step.want {
			return fmt.Errorf("%s returned %d, expected %d", step.name, res.Status, step.want)
		}
	}
	return nil
}
