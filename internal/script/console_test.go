package script

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

func TestConsoleRun(t *testing.T) {
	s, doc, out := newMapState(t)

	in := strings.NewReader(strings.Join([]string{
		"map.add_row()",
		"",
		"= map.rows(), map.columns()",
		"map.set_tile(99, 1, 1)",
		"print('still running')",
		"= map.undo_text()",
	}, "\n"))

	c := NewConsole(s, in, out)
	c.SetPrompt("")
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{"4\t3\n", "error: ", "still running\n", "Add Row\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
	if doc.Rows() != 4 {
		t.Errorf("rows = %d, want 4", doc.Rows())
	}
}

func TestConsolePrompt(t *testing.T) {
	s, _, out := newMapState(t)

	c := NewConsole(s, strings.NewReader("x = 1\n"), out)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got := out.String(); got != "> > " {
		t.Errorf("output = %q, want two prompts", got)
	}
}

func TestConsoleCancel(t *testing.T) {
	var out bytes.Buffer
	s := newState(t, &out)

	// A reader that never returns keeps the loop waiting on ctx.
	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewConsole(s, r, &out)
	if err := c.Run(ctx); err != context.Canceled {
		t.Errorf("Run error = %v, want Canceled", err)
	}
}
