package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

const version = "0.1.0"

type globalFlags struct {
	ConfigPath string
	JSON       bool
	Help       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	global, args, err := parseGlobalFlags(os.Args[1:])
	if err != nil {
		fatal(err)
	}
	if global.Help || len(args) == 0 {
		printUsage()
		return
	}

	switch args[0] {
	case "validate":
		runValidate(global, args[1:])
	case "run":
		runRun(ctx, global, args[1:])
	case "version":
		fmt.Println(version)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
}

func parseGlobalFlags(args []string) (globalFlags, []string, error) {
	var global globalFlags
	fs := flag.NewFlagSet("agentctl", flag.ContinueOnError)
	fs.StringVar(&global.ConfigPath, "config", "", "path to runtime config file")
	fs.BoolVar(&global.JSON, "json", false, "emit JSON output")
	fs.BoolVar(&global.Help, "help", false, "show usage")
	fs.Usage = printUsage
	if err := fs.Parse(args); err != nil {
		return global, nil, err
	}
	return global, fs.Args(), nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `agentctl - agent manifest validation and one-shot execution

Usage:
  agentctl [flags] <command> [args]

Commands:
  validate <manifest>   check a manifest file for structural and schema problems
  run <manifest>        run one task through an echo agent built from the manifest
  version               print the version

Flags:
  -config <path>   runtime config file (YAML)
  -json            emit JSON output`)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
