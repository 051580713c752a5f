package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Submit runs one entered line.
type Submit func(ctx context.Context, line string)

// RunLines is the non-interactive front end: it reads in line by line
// until EOF, "exit" or "quit", or until ctx is done, and submits every
// non-empty line. prompt is written to out before each line when set.
func RunLines(ctx context.Context, in io.Reader, out io.Writer, prompt string, submit Submit) error {
	scanner := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			return nil
		}
		if prompt != "" {
			fmt.Fprint(out, prompt)
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		submit(ctx, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("console: read input: %w", err)
	}
	return nil
}
