// Command abalone-stategen re-derives the successor lists of state files.
// For every <name>.input it writes <name>.board and <name>.move beside it.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/dhruvparekh01/abalone/internal/logging"
	"github.com/dhruvparekh01/abalone/internal/movegen"
	"github.com/dhruvparekh01/abalone/internal/notation"
)

func main() {
	jobs := flag.Int("j", runtime.NumCPU(), "files processed concurrently")
	logLevel := flag.String("log-level", "info", "log level")
	pretty := flag.Bool("pretty", true, "human-readable logs")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-j N] file.input...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := logging.Setup(*logLevel, *pretty); err != nil {
		log.Fatal().Err(err).Msg("logging")
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if err := generateAll(flag.Args(), *jobs); err != nil {
		log.Fatal().Err(err).Msg("state generation failed")
	}
}

// generateAll processes every input, at most jobs at a time, and returns the
// first failure.
func generateAll(paths []string, jobs int) error {
	logger := logging.Component("stategen")
	var g errgroup.Group
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for _, path := range paths {
		path := path
		g.Go(func() error {
			n, err := generateFile(path)
			if err != nil {
				return err
			}
			logger.Info().Str("input", path).Int("successors", n).Msg("generated")
			return nil
		})
	}
	return g.Wait()
}

// outputPaths maps a.input to a.board and a.move. Other extensions keep their
// full name as the stem.
func outputPaths(input string) (string, string) {
	stem := strings.TrimSuffix(input, filepath.Ext(input))
	if filepath.Ext(input) != ".input" {
		stem = input
	}
	return stem + ".board", stem + ".move"
}

// generateFile parses the input before creating any output, so a malformed
// file leaves nothing behind. A failed write removes both outputs.
func generateFile(path string) (int, error) {
	in, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrap(err, "open input")
	}
	input, err := notation.ParseInput(bufio.NewReader(in))
	in.Close()
	if err != nil {
		return 0, errors.Wrap(err, path)
	}
	successors := movegen.GenerateBySize(input.Colour, input.Board)

	boardPath, movePath := outputPaths(path)
	if err := writeOutputs(successors, boardPath, movePath); err != nil {
		os.Remove(boardPath)
		os.Remove(movePath)
		return 0, errors.Wrap(err, path)
	}
	return len(successors), nil
}

func writeOutputs(successors []movegen.Successor, boardPath, movePath string) error {
	boardFile, err := os.Create(boardPath)
	if err != nil {
		return errors.Wrap(err, "create board output")
	}
	defer boardFile.Close()
	moveFile, err := os.Create(movePath)
	if err != nil {
		return errors.Wrap(err, "create move output")
	}
	defer moveFile.Close()

	if err := notation.WriteSuccessors(successors, boardFile, moveFile); err != nil {
		return err
	}
	if err := boardFile.Close(); err != nil {
		return errors.Wrap(err, "close board output")
	}
	if err := moveFile.Close(); err != nil {
		return errors.Wrap(err, "close move output")
	}
	return nil
}
