package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL drives. App implements it;
// tests plug in a recorder.
type execIface interface {
	isLoggedIn() bool
	status() string
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	List(ctx context.Context, tag string) error
	Search(ctx context.Context, term string) error
	Tags(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context, file string) error
}

const (
	guestHelp  = "Available commands: register, login, help, exit"
	memberHelp = "Available commands: (l)ist [tag], search <term>, tags, show <id>, add, edit <id>, delete <id>, export [file], whoami, logout, help, exit"
)

// runREPL reads one command per line from in and dispatches it to a until
// EOF, a cancelled ctx, or "exit"/"quit". Note commands need a session;
// without one the user is told to log in.
//
// Command errors are reported by the commands themselves and don't stop
// the loop.
func runREPL(ctx context.Context, a execIface, in *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Fprintf(w, "nv %s> ", a.status())
		line, err := in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := strings.ToLower(parts[0])
		arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), parts[0]))

		switch cmd {
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, memberHelp)
			} else {
				fmt.Fprintln(w, guestHelp)
			}
			continue
		case "register":
			_ = a.Register(ctx)
			continue
		case "login":
			_ = a.Login(ctx)
			continue
		}

		if !isMemberCommand(cmd) {
			fmt.Fprintln(w, "Unknown command:", cmd)
			continue
		}
		if !a.isLoggedIn() {
			fmt.Fprintln(w, "Please log in first.")
			continue
		}

		switch cmd {
		case "l", "list":
			_ = a.List(ctx, arg)
		case "search":
			_ = a.Search(ctx, arg)
		case "tags":
			_ = a.Tags(ctx)
		case "show":
			_ = a.Show(ctx, arg)
		case "add":
			_ = a.Add(ctx)
		case "edit":
			_ = a.Edit(ctx, arg)
		case "delete", "rm":
			_ = a.Delete(ctx, arg)
		case "export":
			_ = a.Export(ctx, arg)
		case "whoami":
			_ = a.WhoAmI(ctx)
		case "logout":
			_ = a.Logout(ctx)
		}
	}
}

func isMemberCommand(cmd string) bool {
	switch cmd {
	case "l", "list", "search", "tags", "show", "add", "edit", "delete", "rm", "export", "whoami", "logout":
		return true
	}
	return false
}
