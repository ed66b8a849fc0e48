package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2site <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build       Build records, assets, feed and manifest")
	fmt.Fprintln(w, "  check       Validate config and content without writing output")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2site help <command>' for details on a specific command.")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2site build [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build the site content: per-document records, published assets,")
	fmt.Fprintln(w, "the syndication feed and the web app manifest.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -c, --config <path>   Config file path (default: md2site.yaml)")
	fmt.Fprintln(w, "  -o, --output <dir>    Output directory")
	fmt.Fprintln(w, "  -w, --workers <n>     Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Site:")
	fmt.Fprintln(w, "      --title <s>       Site title")
	fmt.Fprintln(w, "      --author <s>      Site author")
	fmt.Fprintln(w, "      --site-url <s>    Absolute site base URL")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Emitters:")
	fmt.Fprintln(w, "      --no-feed         Skip feed emission")
	fmt.Fprintln(w, "      --no-manifest     Skip manifest emission")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet           Only show errors")
	fmt.Fprintln(w, "  -v, --verbose         Show per-document detail")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment: MD2SITE_CONFIG, MD2SITE_OUTPUT, MD2SITE_WORKERS,")
	fmt.Fprintln(w, "MD2SITE_SITE_URL, MD2SITE_TITLE, MD2SITE_AUTHOR. A .env file in")
	fmt.Fprintln(w, "the working directory is loaded automatically.")
}

// printCheckUsage prints usage for the check command.
func printCheckUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2site check [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Validate the configuration, the transform list and every")
	fmt.Fprintln(w, "document's frontmatter. Writes nothing.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <path>   Config file path (default: md2site.yaml)")
	fmt.Fprintln(w, "  -q, --quiet           Only show errors")
	fmt.Fprintln(w, "  -v, --verbose         List every checked document")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "build":
		printBuildUsage(env.Stdout)
	case "check":
		printCheckUsage(env.Stdout)
	case "completion":
		fmt.Fprintln(env.Stdout, "Usage: md2site completion <shell>")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Generate a completion script. Supported shells: bash.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2site version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2site help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
