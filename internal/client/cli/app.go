// Package cli implements the srpvault command-line client: account
// registration and SRP login against a running server.
package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dpetukhov/srpvault/internal/client"
	"github.com/dpetukhov/srpvault/internal/common"
)

// Run parses args (excluding the program name) and executes the requested
// command. Output goes to w; the exit code is returned to the caller.
func Run(ctx context.Context, args []string, w io.Writer) int {
	fs := flag.NewFlagSet("srpvault", flag.ContinueOnError)
	fs.SetOutput(w)
	server := fs.String("s", "http://localhost:8080", "server base URL")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(w, "usage: srpvault [-s url] register|login")
		return 2
	}

	c := client.New(*server)
	reader := bufio.NewReader(os.Stdin)

	switch fs.Arg(0) {
	case "register":
		return runRegister(ctx, c, reader, w)
	case "login":
		return runLogin(ctx, c, reader, w)
	default:
		fmt.Fprintf(w, "unknown command: %s\n", fs.Arg(0))
		return 2
	}
}

func runRegister(ctx context.Context, c *client.Client, reader *bufio.Reader, w io.Writer) int {
	email, password, ok := readCredentials(reader, w)
	if !ok {
		return 1
	}
	defer common.WipeByteArray(password)

	if err := c.Register(ctx, email, password); err != nil {
		fmt.Fprintf(w, "registration failed: %v\n", err)
		return 1
	}

	fmt.Fprintln(w, "registered")
	return 0
}

func runLogin(ctx context.Context, c *client.Client, reader *bufio.Reader, w io.Writer) int {
	email, password, ok := readCredentials(reader, w)
	if !ok {
		return 1
	}
	defer common.WipeByteArray(password)

	session, err := c.Login(ctx, email, password)
	if err != nil {
		fmt.Fprintf(w, "login failed: %v\n", err)
		return 1
	}

	fmt.Fprintf(w, "token: %s\n", session.Token)
	return 0
}

func readCredentials(reader *bufio.Reader, w io.Writer) (string, []byte, bool) {
	email, err := GetSimpleText(reader, "Email", w)
	if err != nil || email == "" {
		fmt.Fprintln(w, "email is required")
		return "", nil, false
	}

	password, err := GetPassword(w)
	if err != nil || len(password) == 0 {
		fmt.Fprintln(w, "password is required")
		return "", nil, false
	}

	return email, password, true
}
