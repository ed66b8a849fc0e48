package main

import (
	"context"
	"fmt"
)

// run dispatches the top-level command and returns the process exit
// code. Separated from main for testability.
func run(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	switch args[0] {
	case "build":
		ctx, stop := notifyContext(context.Background())
		defer stop()
		return runBuild(ctx, args[1:], env)
	case "check":
		return runCheck(args[1:], env)
	case "version":
		fmt.Fprintf(env.Stdout, "md2site %s\n", Version)
		return ExitSuccess
	case "completion":
		return runCompletion(args[1:], env)
	case "help", "--help", "-h":
		runHelp(args[1:], env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
}
