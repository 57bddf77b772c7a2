// Command smtsc is the translator's command-line entry point: it either
// translates one elaborated-program fixture in a single shot, or serves
// the TranslationService gRPC endpoint for an out-of-process elaborator.
// Subcommand dispatch follows the teacher's cmd/funxy/main.go style —
// os.Args inspected directly rather than the flag package, since there are
// only a couple of subcommands and no need for flag's parsing machinery.
package main

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/mattn/go-isatty"
	"google.golang.org/grpc"

	"github.com/modellang/smtts-compiler/internal/cache"
	"github.com/modellang/smtts-compiler/internal/config"
	"github.com/modellang/smtts-compiler/internal/pipeline"
	"github.com/modellang/smtts-compiler/internal/render"
	"github.com/modellang/smtts-compiler/internal/wire"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "translate":
		runTranslate(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	case "-help", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "smtsc: unknown subcommand %q\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  %s translate <program.pb> [config.yaml]
  %s serve <addr> [config.yaml]
`, os.Args[0], os.Args[0])
}

func loadConfig(path string) *config.Config {
	if path == "" {
		return &config.Config{}
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "smtsc: loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func runTranslate(args []string) {
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}
	programPath := args[0]
	var configPath string
	if len(args) > 1 {
		configPath = args[1]
	}
	cfg := loadConfig(configPath)

	data, err := os.ReadFile(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "smtsc: reading %s: %v\n", programPath, err)
		os.Exit(1)
	}
	elaborated, err := wire.DecodeElaboratedProgram(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "smtsc: decoding %s: %v\n", programPath, err)
		os.Exit(1)
	}

	faults, err := cfg.Resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "smtsc: resolving fault model: %v\n", err)
		os.Exit(1)
	}

	pc := pipeline.Standard().Run(&pipeline.PipelineContext{Program: elaborated, FaultConfig: faults})
	if len(pc.Errors) > 0 {
		for _, e := range pc.Errors {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		os.Exit(1)
	}

	if cfg.Cache.Enabled {
		c, err := cache.Open(cfg.Cache.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "smtsc: opening cache: %v\n", err)
			os.Exit(1)
		}
		defer c.Close()
		if err := c.Put(context.Background(), wire.ContentHash(elaborated), pc.Result); err != nil {
			fmt.Fprintf(os.Stderr, "smtsc: writing cache: %v\n", err)
		}
	}

	debug := cfg.Debug && isatty.IsTerminal(os.Stdout.Fd())
	fmt.Print(render.Program(pc.Result, debug))
}

func runServe(args []string) {
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}
	addr := args[0]
	var configPath string
	if len(args) > 1 {
		configPath = args[1]
	}
	cfg := loadConfig(configPath)

	faults, err := cfg.Resolve()
	if err != nil {
		fmt.Fprintf(os.Stderr, "smtsc: resolving fault model: %v\n", err)
		os.Exit(1)
	}

	var programCache wire.ProgramCache
	if cfg.Cache.Enabled {
		c, err := cache.Open(cfg.Cache.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "smtsc: opening cache: %v\n", err)
			os.Exit(1)
		}
		defer c.Close()
		programCache = c
	}

	server := wire.NewTranslationServer(faults, programCache)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "smtsc: listening on %s: %v\n", addr, err)
		os.Exit(1)
	}

	grpcServer := grpc.NewServer()
	grpcServer.RegisterService(server.ServiceDesc(), server)
	fmt.Fprintf(os.Stderr, "smtsc: serving TranslationService on %s\n", addr)
	if err := grpcServer.Serve(lis); err != nil {
		fmt.Fprintf(os.Stderr, "smtsc: %v\n", err)
		os.Exit(1)
	}
}
