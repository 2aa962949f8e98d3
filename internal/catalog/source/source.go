// Package source reads the flat game database into lines.
package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// MaxLineSize bounds a single database line.
const MaxLineSize = 1 << 20

// ReadLines splits r into lines, dropping line terminators (including a
// trailing carriage return). Blank lines are kept so line numbers match the
// source.
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading database lines: %w", err)
	}
	return lines, nil
}

// ReadFile reads every line of the database file at path.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()
	lines, err := ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("reading database %s: %w", path, err)
	}
	return lines, nil
}
