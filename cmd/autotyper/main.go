package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Alia5/autotyper/internal/cmd"
	"github.com/Alia5/autotyper/internal/config"
	"github.com/Alia5/autotyper/internal/configpaths"
	"github.com/Alia5/autotyper/internal/log"
	"github.com/Alia5/autotyper/internal/util"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	userCfg := findUserConfig(args)
	jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths(userCfg)

	var cli config.CLI
	parser, err := kong.New(&cli,
		kong.Name("autotyper"),
		kong.Description("Type a secret into the focused window, keyboard layout aware"),
		kong.UsageOnError(),
		// Load configuration from JSON/YAML/TOML in priority order; flags/env override config values.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "autotyper:", err)
		return cmd.ExitUnexpected
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		var pe *kong.ParseError
		if errors.As(err, &pe) && pe.Context != nil {
			_ = pe.Context.PrintUsage(true)
		}
		_, _ = fmt.Fprintln(os.Stderr, "autotyper:", err)
		return cmd.ExitConfig
	}

	logger, closeFiles, err := log.SetupLogger(cli.Log)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		return cmd.ExitConfig
	}
	defer func() {
		for _, c := range closeFiles {
			_ = c.Close()
		}
	}()

	ctx.Bind(logger)
	err = ctx.Run()
	code := cmd.ExitCode(err)
	if err != nil {
		logger.Error("autotyper failed", "error", err, "exit", code)
	}
	util.PauseIfRunFromGUI()
	return code
}

func findUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if v, ok := strings.CutPrefix(a, "--config="); ok {
			return v
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return os.Getenv(configpaths.EnvConfig)
}
