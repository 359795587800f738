package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	flag "github.com/spf13/pflag"

	docforge "github.com/alnah/go-docforge"
)

func runTemplate(args []string, env *Environment) int {
	if len(args) == 0 {
		printTemplateUsage(env.Stderr)
		return ExitUsage
	}

	subcommand, rest := args[0], args[1:]
	switch subcommand {
	case "list":
		return runTemplateList(rest, env)
	case "info":
		return runTemplateInfo(rest, env)
	case "clone":
		return runTemplateClone(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "unknown template subcommand %q\n\n", subcommand)
		printTemplateUsage(env.Stderr)
		return ExitUsage
	}
}

func templateRegistry(configName string) (*docforge.Registry, error) {
	cfg, err := loadConfigOrDefault(configName)
	if err != nil {
		return nil, err
	}
	return docforge.NewRegistry(cfg.Templates.Dir)
}

func runTemplateList(args []string, env *Environment) int {
	configName, err := parseConfigOnlyFlags("template list", args)
	if err != nil {
		return fail(env, err)
	}
	registry, err := templateRegistry(configName)
	if err != nil {
		return fail(env, err)
	}

	tw := tabwriter.NewWriter(env.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FORMAT\tID\tSOURCE\tDESCRIPTION")
	for _, d := range registry.List() {
		source := "builtin"
		if !d.BuiltIn {
			source = d.Path
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Format, d.ID, source, d.Description)
	}
	_ = tw.Flush()
	return ExitSuccess
}

func runTemplateInfo(args []string, env *Environment) int {
	fs := flag.NewFlagSet("template info", flag.ContinueOnError)
	configName := fs.StringP("config", "c", "", "config file name or path")
	if err := fs.Parse(args); err != nil {
		return fail(env, fmt.Errorf("%w: %v", ErrUsage, err))
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(env.Stderr, "Error: template info needs exactly one id")
		return ExitUsage
	}

	registry, err := templateRegistry(*configName)
	if err != nil {
		return fail(env, err)
	}
	d, err := registry.Info(fs.Arg(0))
	if err != nil {
		return fail(env, err)
	}

	fmt.Fprintf(env.Stdout, "ID:           %s\n", d.ID)
	fmt.Fprintf(env.Stdout, "Format:       %s\n", d.Format)
	fmt.Fprintf(env.Stdout, "Path:         %s\n", d.Path)
	fmt.Fprintf(env.Stdout, "Built-in:     %t\n", d.BuiltIn)
	fmt.Fprintf(env.Stdout, "Description:  %s\n", d.Description)
	fmt.Fprintf(env.Stdout, "Capabilities: %s\n", strings.Join(d.Capabilities, ", "))
	return ExitSuccess
}

func runTemplateClone(args []string, env *Environment) int {
	fs := flag.NewFlagSet("template clone", flag.ContinueOnError)
	from := fs.String("from", "", "template id to clone")
	to := fs.String("to", "", "destination path")
	configName := fs.StringP("config", "c", "", "config file name or path")
	if err := fs.Parse(args); err != nil {
		return fail(env, fmt.Errorf("%w: %v", ErrUsage, err))
	}
	if *from == "" || *to == "" {
		fmt.Fprintln(env.Stderr, "Error: template clone needs --from and --to")
		return ExitUsage
	}

	registry, err := templateRegistry(*configName)
	if err != nil {
		return fail(env, err)
	}
	d, err := registry.Clone(*from, *to)
	if err != nil {
		return fail(env, err)
	}
	fmt.Fprintf(env.Stdout, "Cloned %s to %s (id: %s)\n", *from, d.Path, d.ID)
	return ExitSuccess
}

// parseConfigOnlyFlags parses commands whose only flag is --config.
func parseConfigOnlyFlags(name string, args []string) (string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	configName := fs.StringP("config", "c", "", "config file name or path")
	if err := fs.Parse(args); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 0 {
		return "", fmt.Errorf("%w: %s takes no arguments", ErrUsage, name)
	}
	return *configName, nil
}
