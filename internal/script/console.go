package script

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Console is a line-oriented read-eval-print loop over a State.
//
// Each line is run as a chunk. A line starting with "=" is evaluated as an
// expression and its values are printed, as in the stand-alone lua REPL.
type Console struct {
	state  *State
	in     io.Reader
	out    io.Writer
	prompt string
}

// NewConsole creates a console reading from in and writing to out.
func NewConsole(state *State, in io.Reader, out io.Writer) *Console {
	return &Console{state: state, in: in, out: out, prompt: "> "}
}

// SetPrompt changes the prompt. An empty prompt disables it.
func (c *Console) SetPrompt(p string) {
	c.prompt = p
}

// Run processes lines until in is exhausted or ctx is cancelled.
// Script errors are reported to out and do not stop the loop.
func (c *Console) Run(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		c.showPrompt()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			c.Exec(ctx, line)
		}
	}
}

// Exec runs a single console line.
func (c *Console) Exec(ctx context.Context, line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	if expr, ok := strings.CutPrefix(line, "="); ok {
		values, err := c.state.Eval(ctx, "return "+expr)
		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
			return
		}
		c.printValues(values)
		return
	}

	if err := c.state.DoString(ctx, line); err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
	}
}

func (c *Console) printValues(values []lua.LValue) {
	if len(values) == 0 {
		return
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	fmt.Fprintln(c.out, strings.Join(parts, "\t"))
}

func (c *Console) showPrompt() {
	if c.prompt != "" {
		fmt.Fprint(c.out, c.prompt)
	}
}
