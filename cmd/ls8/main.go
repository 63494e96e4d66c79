// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"

	slogmulti "github.com/samber/slog-multi"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
	"github.com/ezrec/ls8/translate"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line, and returns the process exit code.
func run(args []string, stdout io.Writer, stderr io.Writer) int {
	var assemble bool
	var save bool
	var verbose bool
	var trace string
	var limit int

	flags := flag.NewFlagSet("ls8", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.BoolVar(&assemble, "a", false, "Program is assembler source")
	flags.BoolVar(&save, "s", false, "Write the program image to stdout, do not execute")
	flags.BoolVar(&verbose, "v", false, "Verbose mode")
	flags.StringVar(&trace, "t", "", "Write a JSON instruction trace to file")
	flags.IntVar(&limit, "n", 0, "Maximum instructions to execute, 0 for no limit")

	err := flags.Parse(args)
	if err != nil {
		return 2
	}

	if flags.NArg() != 1 {
		translate.Fprintln(stderr, "usage: ls8 [flags] <program>")
		flags.PrintDefaults()
		return 2
	}
	path := flags.Arg(0)

	level := new(slog.LevelVar)
	if verbose {
		level.Set(slog.LevelDebug)
	}
	handlers := []slog.Handler{
		slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}),
	}
	if len(trace) != 0 {
		ouf, err := os.Create(trace)
		if err != nil {
			translate.Fprintln(stderr, "%v: %v", trace, err)
			return 1
		}
		defer ouf.Close()
		handlers = append(handlers, slog.NewJSONHandler(ouf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	logger := slog.New(slogmulti.Fanout(handlers...))

	emu := emulator.NewEmulator()
	emu.Verbose = verbose || len(trace) != 0
	emu.Limit = limit
	emu.Cpu.Log = logger
	emu.Cpu.Output = stdout

	var prog *cpu.Program
	if assemble {
		inf, err := os.Open(path)
		if err != nil {
			translate.Fprintln(stderr, "%v: %v", path, err)
			return 1
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose || len(trace) != 0, Log: logger}
		for equ, value := range emu.Defines() {
			asm.Predefine(equ, value)
		}
		prog, err = asm.Parse(inf)
		if err != nil {
			translate.Fprintln(stderr, "%v: %v", path, err)
			return 1
		}
	} else {
		prog, err = cpu.LoadImage(path)
		if err != nil {
			translate.Fprintln(stderr, "%v: %v", path, err)
			return 1
		}
	}

	if save {
		err = prog.WriteImage(stdout)
		if err != nil {
			translate.Fprintln(stderr, "%v", err)
			return 1
		}
		return 0
	}

	emu.Program = prog
	err = emu.Reset()
	if err != nil {
		translate.Fprintln(stderr, "%v: %v", path, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = emu.Run(ctx)
	if err != nil {
		logger.Debug("ls8: state", "cpu", emu.Cpu.String())
		translate.Fprintln(stderr, "%v: %v", path, err)
		return 1
	}

	return 0
}
