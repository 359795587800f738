package main

import (
	"context"
	"errors"
	"fmt"
)

// ErrUsage marks command-line misuse: wrong arguments or unknown
// commands.
var ErrUsage = errors.New("usage error")

// runCLI dispatches to the named command and returns the process exit
// code.
func runCLI(ctx context.Context, args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	command, rest := args[0], args[1:]
	switch command {
	case "generate":
		return runGenerate(ctx, rest, env)
	case "preflight":
		return runPreflight(rest, env)
	case "template":
		return runTemplate(rest, env)
	case "config":
		return runConfig(rest, env)
	case "doctor":
		return runDoctor(rest, env)
	case "version":
		fmt.Fprintf(env.Stdout, "docforge %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "unknown command %q\n\n", command)
		printUsage(env.Stderr)
		return ExitUsage
	}
}

// fail prints the error and maps it to an exit code.
func fail(env *Environment, err error) int {
	fmt.Fprintln(env.Stderr, "Error:", err)
	return exitCodeFor(err)
}
