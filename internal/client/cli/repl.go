package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// execIface is the command surface the REPL dispatches to. App implements
// it; tests use a recording stub.
type execIface interface {
	isLoggedIn() bool
	status() string
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	CheckIn(ctx context.Context) error
	Lane(ctx context.Context) error
	Refresh(ctx context.Context) error
	Delete(ctx context.Context, args []string) error
	Photo(ctx context.Context, args []string) error
	Voice(ctx context.Context, args []string) error
	Insights(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, help, exit"
	helpLoggedIn  = "Available commands: checkin, (l)ane, refresh, delete <id>, photo <id>, voice <id>, insights, logout, help, exit"
)

var errLoginRequired = errors.New("please log in first")

// runREPL reads commands from reader until EOF, "exit" or "quit". Errors
// returned by handlers are printed and the loop goes on.
//
//	Not logged in:
//	  register, login, help, exit | quit
//
//	Logged in:
//	  checkin          record a new check-in
//	  lane | l         Memory Lane, grouped by day
//	  refresh          reload entries from the server
//	  delete <id>      delete an entry
//	  photo <id>       download an entry's photo
//	  voice <id>       download an entry's voice note
//	  insights         streaks, heatmap and mood statistics
//	  logout
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader, out io.Writer) {
	errColor := color.New(color.FgRed)
	for {
		fmt.Fprintf(out, "mk %s> ", a.status())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			fmt.Fprintln(out, "Bye!")
			return
		}

		if err := dispatch(ctx, a, cmd, args, out); err != nil {
			_, _ = errColor.Fprintf(out, "error: %v\n", err)
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string, out io.Writer) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			fmt.Fprintln(out, helpLoggedIn)
		} else {
			fmt.Fprintln(out, helpLoggedOut)
		}
		return nil
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	}

	if !a.isLoggedIn() {
		switch cmd {
		case "logout", "checkin", "lane", "l", "refresh", "delete", "photo", "voice", "insights":
			return errLoginRequired
		}
	}

	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "checkin":
		return a.CheckIn(ctx)
	case "lane", "l":
		return a.Lane(ctx)
	case "refresh":
		return a.Refresh(ctx)
	case "delete":
		return a.Delete(ctx, args)
	case "photo":
		return a.Photo(ctx, args)
	case "voice":
		return a.Voice(ctx, args)
	case "insights":
		return a.Insights(ctx)
	default:
		fmt.Fprintln(out, "Unknown command:", cmd)
		return nil
	}
}
