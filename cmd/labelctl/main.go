// Command labelctl reads product labels and queries the catalog from the
// command line, using the same configuration as the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/consumewise/backend/config"
	"github.com/consumewise/backend/internal/app"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

func main() {
	retries := flag.Uint64("retries", 3, "Retries for extraction and, separately, for storing the extracted record")
	verbose := flag.Bool("v", false, "Log service activity to stderr")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), flag.Args()[1:], *retries, *verbose); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: labelctl [flags] <command> [args]

Commands:
  extract <image-url>...   read a product from label photographs and store it
  search <query>           list products whose name fuzzily matches query
  get <product name>       show the product with exactly this name

Flags:
`)
	flag.PrintDefaults()
}

func run(command string, args []string, retries uint64, verbose bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg.Log.Format = "console"
	logger := config.NewLoggerTo(cfg.Log, os.Stderr)
	if !verbose {
		logger = logger.Level(zerolog.WarnLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	cli := &CLI{
		catalog: application.Catalog,
		out:     os.Stdout,
		policy:  exponentialPolicy(retries),
		spinner: true,
	}

	return cli.Execute(ctx, command, args)
}
