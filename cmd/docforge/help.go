package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docforge <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  generate   Render a document artifact from a template and data")
	fmt.Fprintln(w, "  preflight  Run structural checks over a finished artifact")
	fmt.Fprintln(w, "  template   List, inspect, and clone template units")
	fmt.Fprintln(w, "  config     Show and edit configuration")
	fmt.Fprintln(w, "  doctor     Report engine availability and environment health")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'docforge help <command>' for details on a specific command.")
}

// printGenerateUsage prints usage for the generate command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docforge generate <format> <template-or-path> <output> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render one artifact. Formats: pdf, docx, pptx, xlsx, html.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  format            Output format")
	fmt.Fprintln(w, "  template-or-path  Template id, file name, or path")
	fmt.Fprintln(w, "  output            Output path; the extension is added when missing,")
	fmt.Fprintln(w, "                    and bare names land in output.defaultDir when set")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --data <doc>        Inline data payload (JSON or YAML)")
	fmt.Fprintln(w, "      --data-file <path>  Data payload file (exactly one source)")
	fmt.Fprintln(w, "      --engine <name>     Engine name, or auto for priority fallback")
	fmt.Fprintln(w, "  -c, --config <name>     Config file name or path")
	fmt.Fprintln(w, "      --no-preflight      Skip preflight after a successful render")
	fmt.Fprintln(w, "      --json              Emit the result as JSON")
	fmt.Fprintln(w, "  -q, --quiet             Only show errors")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes: 0 success, 2 usage, 3 I/O, 4 engine, 5 preflight failed.")
}

// printPreflightUsage prints usage for the preflight command.
func printPreflightUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docforge preflight <file>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Validate finished artifacts. The format comes from the file extension.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --checks <a,b>   Run only the named checks")
	fmt.Fprintln(w, "  -c, --config <name>  Config file name or path")
	fmt.Fprintln(w, "      --json           Emit reports as JSON")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Checks: BrokenLink, FontEmbedding, LayoutOverflow,")
	fmt.Fprintln(w, "        PlaceholderLeakage, TableOverflow")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit 0 iff every artifact passes.")
}

// printTemplateUsage prints usage for the template command.
func printTemplateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docforge template <subcommand> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Subcommands:")
	fmt.Fprintln(w, "  list                        List discoverable templates")
	fmt.Fprintln(w, "  info <id>                   Show one template's details")
	fmt.Fprintln(w, "  clone --from <id> --to <p>  Copy a template source to a new path")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docforge config <subcommand> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Subcommands:")
	fmt.Fprintln(w, "  show               Print the effective configuration")
	fmt.Fprintln(w, "  get <key>          Print one value (dot notation, e.g. render.timeoutSeconds)")
	fmt.Fprintln(w, "  set <key> <value>  Persist one value")
	fmt.Fprintln(w, "  init [path]        Write the default config")
	fmt.Fprintln(w, "  validate           Check the config for errors")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docforge doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Report per-format engine availability, external toolkit paths,")
	fmt.Fprintln(w, "and environment health.")
}

// runHelp shows help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	switch args[0] {
	case "generate":
		printGenerateUsage(env.Stdout)
	case "preflight":
		printPreflightUsage(env.Stdout)
	case "template":
		printTemplateUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version", "help":
		printUsage(env.Stdout)
	default:
		fmt.Fprintf(env.Stderr, "unknown command %q\n\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
