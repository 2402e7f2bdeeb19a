package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"github.com/enumlab/sketch/internal/frontier"
	"github.com/enumlab/sketch/internal/grammar"
	"github.com/enumlab/sketch/internal/library"
	"github.com/enumlab/sketch/internal/parser"
	"github.com/enumlab/sketch/internal/program"
	"github.com/enumlab/sketch/internal/typesystem"
	"github.com/enumlab/sketch/internal/zipper"
)

var (
	programColor = color.New(color.FgGreen)
	scoreColor   = color.New(color.FgYellow)
)

func main() {
	color.NoColor = color.NoColor || !isatty.IsTerminal(os.Stdout.Fd())

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "enumerate":
		err = runEnumerate(os.Args[2:])
	case "complete":
		err = runComplete(os.Args[2:])
	case "sample":
		err = runSample(os.Args[2:])
	case "likelihood":
		err = runLikelihood(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <command> [flags]

Commands:
  enumerate   enumerate programs of a requested type, most likely first
  complete    enumerate completions of a sketch
  sample      draw random programs of a requested type
  likelihood  score a program against the grammar

Run "%s <command> -h" for command flags.
`, os.Args[0], os.Args[0])
}

// loadGrammar builds the registry and grammar, from a YAML library when a
// path is given, otherwise from the built-in vocabulary with uniform
// weights.
func loadGrammar(path string) (*library.Registry, *grammar.Grammar, error) {
	if path == "" {
		reg := library.Bootstrap()
		g, err := grammar.Uniform(reg.Leaves())
		if err != nil {
			return nil, nil, err
		}
		return reg, g, nil
	}
	cfg, err := library.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return cfg.Build()
}

func printScored(ll float64, p program.Program) {
	scoreColor.Printf("%10.4f  ", ll)
	programColor.Println(p.String())
}

func runEnumerate(args []string) error {
	fs := flag.NewFlagSet("enumerate", flag.ExitOnError)
	request := fs.String("request", "", "requested type, e.g. \"int -> int\" (required)")
	libPath := fs.String("library", "", "library YAML file (default: built-in vocabulary)")
	bound := fs.Float64("bound", 8, "enumerate programs with log-likelihood above -bound")
	n := fs.Int("n", 20, "stop after n programs (0: no limit)")
	holes := fs.Bool("holes", false, "also enumerate sketches with open holes")
	dbPath := fs.String("db", "", "save the results as a frontier run in this SQLite file")
	fs.Parse(args)

	if *request == "" {
		return errors.New("-request is required")
	}
	_, g, err := loadGrammar(*libPath)
	if err != nil {
		return err
	}
	req, err := parser.ParseType(*request)
	if err != nil {
		return errors.Wrap(err, "parsing request")
	}

	var entries []frontier.Entry
	count := 0
	for r := range g.Enumerate(typesystem.Empty, nil, req, *bound, *holes) {
		printScored(r.LogLikelihood, r.Program)
		entries = append(entries, frontier.Entry{Program: r.Program.String(), LogLikelihood: r.LogLikelihood})
		count++
		if *n > 0 && count >= *n {
			break
		}
	}

	if *dbPath != "" {
		store, err := frontier.Open(*dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		run := frontier.NewRunID()
		if err := store.SaveRun(run, *request, entries); err != nil {
			return err
		}
		fmt.Printf("saved %d entries as run %s\n", len(entries), run)
	}
	return nil
}

func runComplete(args []string) error {
	fs := flag.NewFlagSet("complete", flag.ExitOnError)
	request := fs.String("request", "", "requested type (required)")
	sketch := fs.String("sketch", "", "sketch to complete, e.g. \"(lambda (+ <HOLE> $0))\" (required)")
	libPath := fs.String("library", "", "library YAML file (default: built-in vocabulary)")
	bound := fs.Float64("bound", 8, "enumerate completions with log-likelihood above -bound")
	n := fs.Int("n", 20, "stop after n completions (0: no limit)")
	fs.Parse(args)

	if *request == "" {
		return errors.New("-request is required")
	}
	if *sketch == "" {
		return errors.New("-sketch is required")
	}
	reg, g, err := loadGrammar(*libPath)
	if err != nil {
		return err
	}
	req, err := parser.ParseType(*request)
	if err != nil {
		return errors.Wrap(err, "parsing request")
	}
	sk, err := parser.Parse(*sketch, reg)
	if err != nil {
		return errors.Wrap(err, "parsing sketch")
	}

	count := 0
	for r := range g.EnumerateSketch(typesystem.Empty, nil, req, sk, *bound, false) {
		printScored(r.LogLikelihood, r.Program)
		count++
		if *n > 0 && count >= *n {
			break
		}
	}
	return nil
}

func runSample(args []string) error {
	fs := flag.NewFlagSet("sample", flag.ExitOnError)
	request := fs.String("request", "", "requested type (required)")
	sketchText := fs.String("sketch", "", "sample completions of this sketch instead of whole programs")
	libPath := fs.String("library", "", "library YAML file (default: built-in vocabulary)")
	n := fs.Int("n", 10, "number of samples")
	attempts := fs.Int("attempts", 50, "retry budget per sample")
	holeProb := fs.Float64("hole-prob", 0, "probability of leaving a hole at each expansion")
	seed := fs.Int64("seed", 0, "random seed (0: time-based)")
	fs.Parse(args)

	if *request == "" {
		return errors.New("-request is required")
	}
	reg, g, err := loadGrammar(*libPath)
	if err != nil {
		return err
	}
	req, err := parser.ParseType(*request)
	if err != nil {
		return errors.Wrap(err, "parsing request")
	}
	var sk program.Program
	if *sketchText != "" {
		if sk, err = parser.Parse(*sketchText, reg); err != nil {
			return errors.Wrap(err, "parsing sketch")
		}
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	for i := 0; i < *n; i++ {
		var p program.Program
		if sk != nil {
			p, err = g.SampleFromSketch(typesystem.Empty, nil, req, sk, *holeProb, rng)
		} else {
			p, err = g.Sample(typesystem.Empty, nil, req, *attempts, *holeProb, rng)
		}
		if err != nil {
			return err
		}
		ll, err := g.LogLikelihood(req, p)
		if err != nil {
			return errors.Wrapf(err, "scoring %s", p)
		}
		printScored(ll, p)
	}
	return nil
}

func runLikelihood(args []string) error {
	fs := flag.NewFlagSet("likelihood", flag.ExitOnError)
	request := fs.String("request", "", "requested type (required)")
	text := fs.String("program", "", "program or sketch to score (required)")
	libPath := fs.String("library", "", "library YAML file (default: built-in vocabulary)")
	fs.Parse(args)

	if *request == "" {
		return errors.New("-request is required")
	}
	if *text == "" {
		return errors.New("-program is required")
	}
	reg, g, err := loadGrammar(*libPath)
	if err != nil {
		return err
	}
	req, err := parser.ParseType(*request)
	if err != nil {
		return errors.Wrap(err, "parsing request")
	}
	p, err := parser.Parse(*text, reg)
	if err != nil {
		return errors.Wrap(err, "parsing program")
	}

	ll, err := g.LogLikelihood(req, p)
	if err != nil {
		return err
	}
	printScored(ll, p)

	if p.HasHoles() {
		zippers, err := zipper.FindHoles(p, req)
		if err != nil {
			return err
		}
		for i, z := range zippers {
			fmt.Printf("  hole %d: %s\n", i, z.Type)
		}
	}
	return nil
}
