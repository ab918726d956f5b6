package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

const (
	helpLoggedOut = "Available commands: register, login, users, search <term>, clear, next, prev, adduser, exit"
	helpLoggedIn  = "Available commands: whoami, users, search <term>, clear, next, prev, adduser, profile, deleteaccount, " +
		"files, upload <path>, download <name> [version], versions <name>, delete <name>, logout, exit"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error

	Users(ctx context.Context) error
	Search(ctx context.Context, term string) error
	ClearSearch(ctx context.Context) error
	NextPage(ctx context.Context) error
	PrevPage(ctx context.Context) error
	AddUser(ctx context.Context) error
	Profile(ctx context.Context) error
	DeleteAccount(ctx context.Context) error

	Files(ctx context.Context) error
	Upload(ctx context.Context, path string) error
	Download(ctx context.Context, filename string, version int) error
	Versions(ctx context.Context, filename string) error
	DeleteFile(ctx context.Context, filename string) error
}

// runREPL starts a read–eval–print loop for the DocuDefense CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Commands that take a file name or search
// term receive the rest of the line, so names may contain spaces. Errors
// returned by handlers are printed and the loop continues. The loop exits
// on EOF or when the user types "exit" or "quit".
//
// The same reader is used by the handlers for their prompts, so the REPL
// reads exactly one line at a time.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("docudefense %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		cmd, rest := splitCommand(line)
		if cmd == "" {
			continue
		}

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "users":
			cmdErr = a.Users(ctx)
		case "search":
			if rest == "" {
				printlnFn("Usage: search <term>")
				continue
			}
			cmdErr = a.Search(ctx, rest)
		case "clear":
			cmdErr = a.ClearSearch(ctx)
		case "next":
			cmdErr = a.NextPage(ctx)
		case "prev":
			cmdErr = a.PrevPage(ctx)
		case "adduser":
			cmdErr = a.AddUser(ctx)
		case "profile":
			cmdErr = a.Profile(ctx)
		case "deleteaccount":
			cmdErr = a.DeleteAccount(ctx)

		case "files":
			cmdErr = a.Files(ctx)
		case "upload":
			if rest == "" {
				printlnFn("Usage: upload <path>")
				continue
			}
			cmdErr = a.Upload(ctx, rest)
		case "download":
			name, version := splitNameVersion(rest)
			if name == "" {
				printlnFn("Usage: download <name> [version]")
				continue
			}
			cmdErr = a.Download(ctx, name, version)
		case "versions":
			if rest == "" {
				printlnFn("Usage: versions <name>")
				continue
			}
			cmdErr = a.Versions(ctx, rest)
		case "delete":
			if rest == "" {
				printlnFn("Usage: delete <name>")
				continue
			}
			cmdErr = a.DeleteFile(ctx, rest)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
		if err != nil {
			return
		}
	}
}

// splitCommand returns the first word of line and the trimmed remainder.
func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", ""
	}
	cmd, rest, _ := strings.Cut(line, " ")
	return strings.ToLower(cmd), strings.TrimSpace(rest)
}

// splitNameVersion treats a trailing positive integer as the version;
// 0 means the current one.
func splitNameVersion(s string) (string, int) {
	s = strings.TrimSpace(s)
	i := strings.LastIndex(s, " ")
	if i < 0 {
		return s, 0
	}
	v, err := strconv.Atoi(s[i+1:])
	if err != nil || v < 1 {
		return s, 0
	}
	return strings.TrimSpace(s[:i]), v
}
