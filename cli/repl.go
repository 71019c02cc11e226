package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PublishedDoonk/notes-so/search"
	"github.com/mattn/go-isatty"
)

const (
	prompt         = "Enter search query (q to quit): "
	noResultsMsg   = "Sorry. No results found."
	savedResultFmt = "Top results saved to %s\n"
)

// Querier runs one query and writes its results document.
type Querier interface {
	Query(query string) (search.Results, error)
}

// IsTerminal reports whether r is an interactive terminal.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// IsQuit reports whether the line asks to leave the loop.
func IsQuit(line string) bool {
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "q" || line == "quit"
}

// Loop reads queries from in until quit, EOF or ctx is done. Each query's
// outcome is reported on out. Query errors are reported and the loop goes on.
func Loop(ctx context.Context, in io.Reader, out io.Writer, q Querier, output string) error {
	showPrompt := IsTerminal(in)
	reader := bufio.NewReader(in)

	fmt.Fprintln(out, "Enter search queries to find notes!")
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		if showPrompt {
			fmt.Fprint(out, prompt)
		}

		// Lines have no length limit; a final line without newline still counts.
		raw, readErr := reader.ReadString('\n')
		if raw != "" {
			line := strings.ToLower(strings.TrimSpace(raw))
			if IsQuit(line) {
				return nil
			}

			_, err := q.Query(line)
			switch {
			case errors.Is(err, search.ErrNoResults):
				fmt.Fprintln(out, noResultsMsg)
			case err != nil:
				fmt.Fprintf(out, "Query failed: %v\n", err)
			default:
				fmt.Fprintf(out, savedResultFmt, output)
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return readErr
		}
	}
}
