package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/live-labs/authsession/pkg/authsdk"
	"github.com/live-labs/authsession/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
var BuildVersion = "v0.1.0"

// ErrUsage marks command line mistakes; main exits with status 2 for them.
var ErrUsage = errors.New("usage")

const usage = `usage: authctl [flags] <command> [args]

commands:
  register <username> <password>
  login <username> <password>
  logout
  refresh
  set-roles <username> <role>[,<role>...]
  blacklist <username>
  unblacklist <username>
  session                   print the resumed session
  claims                    decode the access token (unverified)

Every command prints the resulting session as JSON on stdout.`

// Application runs one authctl command against an auth service.
type Application struct {
	cfg    Config
	logger *slog.Logger
	client *authsdk.Client
	out    io.Writer
}

// New builds the client from cfg and resumes the configured session.
func New(cfg Config, out io.Writer) (*Application, error) {
	logger := slogx.New(slogx.Config{
		Service: "authctl",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	client := authsdk.NewClient(cfg.ServerURL,
		authsdk.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		authsdk.WithPaths(cfg.Paths),
		authsdk.WithLogger(logger),
	)

	err := client.Restore(authsdk.Session{
		Username:     cfg.Username,
		AccessToken:  cfg.AccessToken,
		RefreshToken: cfg.RefreshToken,
	})
	if err != nil {
		return nil, fmt.Errorf("resume session: %w", err)
	}

	return &Application{cfg: cfg, logger: logger, client: client, out: out}, nil
}

// Run parses args and executes the command.
func (app *Application) Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("authctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	path := fs.String("path", "", "override the endpoint path for this call")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v\n\n%s", ErrUsage, err, usage)
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("%w: missing command\n\n%s", ErrUsage, usage)
	}
	cmd, params := rest[0], rest[1:]
	at := authsdk.AtPath(*path)

	need := func(n int) error {
		if len(params) != n {
			return fmt.Errorf("%w: %s takes %d argument(s)\n\n%s", ErrUsage, cmd, n, usage)
		}
		return nil
	}

	var err error
	switch cmd {
	case "register":
		if err = need(2); err == nil {
			err = app.client.Register(ctx, params[0], params[1], at)
		}
	case "login":
		if err = need(2); err == nil {
			err = app.client.Login(ctx, params[0], params[1], at)
		}
	case "logout":
		if err = need(0); err == nil {
			err = app.client.Logout(ctx, at)
		}
	case "refresh":
		if err = need(0); err == nil {
			err = app.client.Refresh(ctx, at)
		}
	case "set-roles":
		if err = need(2); err == nil {
			err = app.client.SetRoles(ctx, params[0], splitRoles(params[1]), at)
		}
	case "blacklist":
		if err = need(1); err == nil {
			err = app.client.Blacklist(ctx, params[0], at)
		}
	case "unblacklist":
		if err = need(1); err == nil {
			err = app.client.Unblacklist(ctx, params[0], at)
		}
	case "session":
		err = need(0)
	case "claims":
		if err = need(0); err == nil {
			return app.printClaims()
		}
	default:
		err = fmt.Errorf("%w: unknown command %q\n\n%s", ErrUsage, cmd, usage)
	}
	if err != nil {
		return err
	}

	app.logger.Info("command completed", "command", cmd, "authenticated", app.client.Authenticated())
	return app.print(app.client.Session())
}

func (app *Application) printClaims() error {
	claims, err := app.client.Session().Claims()
	if err != nil {
		return err
	}
	return app.print(claims)
}

func (app *Application) print(v any) error {
	enc := json.NewEncoder(app.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func splitRoles(s string) []string {
	roles := []string{}
	for _, r := range strings.Split(s, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}
