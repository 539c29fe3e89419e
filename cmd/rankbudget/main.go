package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/eshaffer321/rankbudget/internal/cli"
	"github.com/eshaffer321/rankbudget/internal/infrastructure/config"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(subcommand string, args []string) error {
	streams := cli.IO{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch subcommand {
	case "optimize", "uniform":
		flags, err := cli.ParseOptimizeFlags(subcommand, args, os.Stderr)
		if err != nil {
			return err
		}
		cfg, err := cli.LoadConfig(flags.ConfigFile)
		if err != nil {
			return err
		}
		if subcommand == "uniform" {
			return cli.RunUniform(ctx, cfg, flags, streams)
		}
		return cli.RunOptimize(ctx, cfg, flags, streams)

	case "analyze":
		flags, err := cli.ParseAnalyzeFlags(args, os.Stderr)
		if err != nil {
			return err
		}
		cfg, err := cli.LoadConfig(flags.ConfigFile)
		if err != nil {
			return err
		}
		return cli.RunAnalyze(ctx, cfg, flags, streams)

	case "serve":
		// serve installs its own signal handling for graceful shutdown
		stop()
		flags, err := cli.ParseServeFlags(args, os.Stderr)
		if err != nil {
			return err
		}
		cfg, err := loadServeConfig(flags.ConfigFile)
		if err != nil {
			return err
		}
		return cli.RunServe(cfg, flags)

	case "help", "-h", "--help":
		printUsage()
		return nil

	default:
		printUsage()
		return fmt.Errorf("unknown subcommand: %s", subcommand)
	}
}

func loadServeConfig(path string) (*config.Config, error) {
	cfg, err := cli.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if key := cfg.GetAPIKey(cfg.LLM.APIKey, "OPENAI_API_KEY", "OPENAI_APIKEY"); key != "" {
		cfg.LLM.APIKey = key
	}
	return cfg, nil
}

func printUsage() {
	fmt.Println("rankbudget - keyword rank allocation under a budget")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  rankbudget <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  optimize   Greedy Downgrade per channel (-input, -pc-budget, -mobile-budget, -objective)")
	fmt.Println("  uniform    One rank for all keywords per channel (-input, -pc-budget, -mobile-budget)")
	fmt.Println("  analyze    Every keyword at fixed ranks (-input, -pc-rank, -mobile-rank)")
	fmt.Println("  serve      Run the HTTP API (-port)")
	fmt.Println()
	fmt.Println("Common Options:")
	fmt.Println("  -config string   Configuration file path (default: config.yaml if present)")
	fmt.Println("  -format string   table or json (optimize, uniform, analyze)")
	fmt.Println("  -save            Store the run in the database")
	fmt.Println("  -verbose         Enable verbose logging")
}
