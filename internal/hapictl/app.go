package hapictl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/geauxvirtual/hapi/internal/common"
)

// App drives the interactive commands. Reader and writer are injected so
// tests can script the prompts.
type App struct {
	client *Client
	in     *bufio.Reader
	out    io.Writer
}

func NewApp(client *Client, in io.Reader, out io.Writer) *App {
	return &App{
		client: client,
		in:     bufio.NewReader(in),
		out:    out,
	}
}

// Run dispatches a single command: register, login, or deactivate.
func (a *App) Run(ctx context.Context, command string) error {
	switch command {
	case "register":
		return a.register(ctx)
	case "login":
		return a.login(ctx)
	case "deactivate":
		return a.deactivate(ctx)
	default:
		return fmt.Errorf("unknown command %q (want register, login, or deactivate)", command)
	}
}

func (a *App) register(ctx context.Context) error {
	username, password, err := a.promptCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	err = a.client.Register(ctx, username, string(password))
	if errors.Is(err, common.ErrorConflict) {
		return fmt.Errorf("username %q already exists", username)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "User created")
	return nil
}

func (a *App) login(ctx context.Context) error {
	session, err := a.authenticate(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s (user_id %s)\n", session.Username, session.UserID)
	fmt.Fprintf(a.out, "Access token: %s\n", session.AccessToken)
	return nil
}

func (a *App) deactivate(ctx context.Context) error {
	session, err := a.authenticate(ctx)
	if err != nil {
		return err
	}

	confirm, err := GetSimpleText(a.in, fmt.Sprintf("Deactivate account %q? This cannot be undone. Type yes to continue.", session.Username), a.out)
	if err != nil {
		return err
	}
	if confirm != "yes" {
		fmt.Fprintln(a.out, "Aborted")
		return nil
	}

	if err := a.client.Deactivate(ctx, session); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Account deactivated")
	return nil
}

func (a *App) authenticate(ctx context.Context) (*Session, error) {
	username, password, err := a.promptCredentials()
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(password)

	session, err := a.client.Login(ctx, username, string(password))
	if errors.Is(err, common.ErrorUnauthorized) {
		return nil, errors.New("username or password is incorrect")
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (a *App) promptCredentials() (string, []byte, error) {
	username, err := GetSimpleText(a.in, "Enter username", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return username, password, nil
}
