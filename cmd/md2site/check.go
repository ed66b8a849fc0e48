package main

import (
	"fmt"
	"os"

	md2site "github.com/alnah/go-md2site"
)

// runCheck validates the configuration and every document's frontmatter
// without writing any output. Useful before committing new content.
func runCheck(args []string, env *Environment) int {
	flags, positional, err := parseCheckFlags(args)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}
	if len(positional) > 0 {
		fmt.Fprintf(env.Stderr, "unexpected argument: %s\n\n", positional[0])
		printCheckUsage(env.Stderr)
		return ExitUsage
	}

	warnUnknownEnvVars(env.Stderr, env.Environ())

	cfg, path, err := resolveConfig(flags.common.config, env)
	if err != nil {
		fmt.Fprintf(env.Stderr, "md2site: %v\n", err)
		return exitCodeFor(err)
	}
	applyEnvConfig(loadEnvConfig(env), cfg)

	input := buildInput(cfg)
	if err := input.Validate(); err != nil {
		fmt.Fprintf(env.Stderr, "md2site: %v\n", err)
		return exitCodeFor(err)
	}
	if _, err := md2site.CompileStages(input.Stages); err != nil {
		fmt.Fprintf(env.Stderr, "md2site: %v\n", err)
		return exitCodeFor(err)
	}

	docs, err := md2site.Discover(input.Sources)
	if err != nil {
		fmt.Fprintf(env.Stderr, "md2site: %v\n", err)
		return exitCodeFor(err)
	}

	if path != "" && !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "config: %s\n", path)
	}

	problems := 0
	for _, doc := range docs {
		content, err := os.ReadFile(doc.SourcePath) // #nosec G304 -- path produced by Discover
		if err != nil {
			fmt.Fprintf(env.Stdout, "FAILED %s: %v\n", doc.SourcePath, err)
			problems++
			continue
		}
		if _, _, err := md2site.ParseFrontmatter(string(content)); err != nil {
			fmt.Fprintf(env.Stdout, "FAILED %s: %v\n", doc.SourcePath, err)
			problems++
			continue
		}
		if flags.common.verbose {
			fmt.Fprintf(env.Stdout, "OK %s/%s\n", doc.Collection, doc.Slug)
		}
	}

	fmt.Fprintf(env.Stdout, "checked %d documents, %d problems\n", len(docs), problems)
	if problems > 0 {
		return ExitContent
	}
	return ExitSuccess
}
