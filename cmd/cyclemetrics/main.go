package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// errorMarker prefixes fatal diagnostics so CI renders them as annotations.
const errorMarker = "::error::"

func main() {
	os.Exit(runCLI(os.Args[1:], os.Stdout, os.Stderr))
}

// runCLI reports a fatal error as a single marker line on stdout.
func runCLI(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		msg := strings.Join(strings.Fields(err.Error()), " ")
		fmt.Fprintf(stdout, "%s%s\n", errorMarker, msg)
		return 1
	}
	return 0
}
