package main

import (
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-docforge/internal/config"
	"github.com/alnah/go-docforge/internal/fileutil"
	"github.com/alnah/go-docforge/internal/yamlutil"
)

func runConfig(args []string, env *Environment) int {
	if len(args) == 0 {
		printConfigUsage(env.Stderr)
		return ExitUsage
	}

	subcommand, rest := args[0], args[1:]
	switch subcommand {
	case "show":
		return runConfigShow(rest, env)
	case "get":
		return runConfigGet(rest, env)
	case "set":
		return runConfigSet(rest, env)
	case "init":
		return runConfigInit(rest, env)
	case "validate":
		return runConfigValidate(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "unknown config subcommand %q\n\n", subcommand)
		printConfigUsage(env.Stderr)
		return ExitUsage
	}
}

func runConfigShow(args []string, env *Environment) int {
	configName, err := parseConfigOnlyFlags("config show", args)
	if err != nil {
		return fail(env, err)
	}
	cfg, err := loadConfigOrDefault(configName)
	if err != nil {
		return fail(env, err)
	}
	content, err := yamlutil.Marshal(cfg)
	if err != nil {
		return fail(env, err)
	}
	fmt.Fprint(env.Stdout, string(content))
	return ExitSuccess
}

func runConfigGet(args []string, env *Environment) int {
	fs := flag.NewFlagSet("config get", flag.ContinueOnError)
	configName := fs.StringP("config", "c", "", "config file name or path")
	if err := fs.Parse(args); err != nil {
		return fail(env, fmt.Errorf("%w: %v", ErrUsage, err))
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(env.Stderr, "Error: config get needs exactly one key")
		return ExitUsage
	}

	cfg, err := loadConfigOrDefault(*configName)
	if err != nil {
		return fail(env, err)
	}
	value, err := cfg.Get(fs.Arg(0))
	if err != nil {
		return fail(env, err)
	}
	fmt.Fprintln(env.Stdout, formatConfigValue(value))
	return ExitSuccess
}

func runConfigSet(args []string, env *Environment) int {
	fs := flag.NewFlagSet("config set", flag.ContinueOnError)
	configName := fs.StringP("config", "c", "", "config file name or path")
	if err := fs.Parse(args); err != nil {
		return fail(env, fmt.Errorf("%w: %v", ErrUsage, err))
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(env.Stderr, "Error: config set needs <key> <value>")
		return ExitUsage
	}

	path := *configName
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			return fail(env, err)
		}
		path = defaultPath
	}

	cfg := config.DefaultConfig()
	if fileutil.FileExists(path) {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return fail(env, err)
		}
		cfg = loaded
	}
	updated, err := cfg.Set(fs.Arg(0), fs.Arg(1))
	if err != nil {
		return fail(env, err)
	}
	if err := config.Save(path, updated); err != nil {
		return fail(env, err)
	}
	fmt.Fprintf(env.Stdout, "Set %s = %s in %s\n", fs.Arg(0), fs.Arg(1), path)
	return ExitSuccess
}

func runConfigInit(args []string, env *Environment) int {
	fs := flag.NewFlagSet("config init", flag.ContinueOnError)
	force := fs.Bool("force", false, "overwrite an existing config")
	if err := fs.Parse(args); err != nil {
		return fail(env, fmt.Errorf("%w: %v", ErrUsage, err))
	}

	path := fs.Arg(0)
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			return fail(env, err)
		}
		path = defaultPath
	}

	if fileutil.FileExists(path) && !*force {
		fmt.Fprintf(env.Stderr, "Error: %s already exists (use --force to overwrite)\n", path)
		return ExitUsage
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return fail(env, err)
	}
	fmt.Fprintf(env.Stdout, "Wrote default config to %s\n", path)
	return ExitSuccess
}

func runConfigValidate(args []string, env *Environment) int {
	configName, err := parseConfigOnlyFlags("config validate", args)
	if err != nil {
		return fail(env, err)
	}
	cfg, err := loadConfigOrDefault(configName)
	if err != nil {
		return fail(env, err)
	}
	if err := cfg.Validate(); err != nil {
		return fail(env, err)
	}
	fmt.Fprintln(env.Stdout, "Config is valid.")
	return ExitSuccess
}

func formatConfigValue(value any) string {
	switch v := value.(type) {
	case map[string]any, []any:
		content, err := yamlutil.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(content)
	default:
		return fmt.Sprint(v)
	}
}
