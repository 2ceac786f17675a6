// Package console implements the interactive terminal used by the agent loop.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/aretw0/sequent/internal/presentation/tui"
)

const (
	userLabel      = "You: "
	assistantLabel = "Claude: "
)

// Terminal reads user input line by line and writes labelled output.
type Terminal struct {
	reader   *bufio.Reader
	out      *termenv.Output
	writer   io.Writer
	renderer tui.Renderer
	limit    int

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// Option configures a Terminal.
type Option func(*Terminal)

// WithRenderer renders assistant replies (markdown) before printing.
func WithRenderer(r tui.Renderer) Option {
	return func(t *Terminal) {
		if r != nil {
			t.renderer = r
		}
	}
}

// WithMaxInputSize overrides the input size limit.
func WithMaxInputSize(n int) Option {
	return func(t *Terminal) {
		t.limit = n
	}
}

// NewTerminal creates a terminal over r and w (os.Stdin and os.Stdout when nil).
func NewTerminal(r io.Reader, w io.Writer, opts ...Option) *Terminal {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	t := &Terminal{
		reader:   bufio.NewReader(r),
		out:      termenv.NewOutput(w),
		writer:   w,
		renderer: tui.PlainRenderer,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func (t *Terminal) initPump() {
	t.startOnce.Do(func() {
		t.inputChan = make(chan inputResult)
		go t.pump()
	})
}

// pump reads lines in the background so ReadInput can honor context cancellation.
func (t *Terminal) pump() {
	for {
		text, err := t.reader.ReadString('\n')
		if text != "" {
			t.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				t.inputChan <- inputResult{err: err}
			}
			close(t.inputChan)
			return
		}
	}
}

// ReadInput prompts for one line and returns it trimmed and sanitized. A blank line yields "".
// Input that fails sanitization is reported and asked for again.
// It returns io.EOF once the input is exhausted and ctx.Err() when ctx is done.
func (t *Terminal) ReadInput(ctx context.Context) (string, error) {
	t.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(t.writer, "\n"+t.out.String(userLabel).Foreground(termenv.ANSIBrightGreen).String())
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-t.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}

			clean, err := Sanitize(strings.TrimSpace(res.text), t.limit)
			if err != nil {
				t.Error(fmt.Errorf("%w. Please try again", err))
				continue
			}
			return clean, nil
		}
	}
}

// Reply prints an assistant reply.
func (t *Terminal) Reply(text string) {
	rendered, err := t.renderer(text)
	if err != nil {
		rendered = text
	}
	label := t.out.String(assistantLabel).Foreground(termenv.ANSIBrightCyan).Bold()
	sep := " "
	if strings.Contains(rendered, "\n") {
		sep = "\n"
	}
	fmt.Fprintf(t.writer, "\n%s%s%s\n", label, sep, rendered)
}

// Notice prints a system message.
func (t *Terminal) Notice(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(t.writer, t.out.String(">>> "+msg).Foreground(termenv.ANSIBlue))
}

// Warn prints a warning.
func (t *Terminal) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(t.writer, t.out.String("Warning: "+msg).Foreground(termenv.ANSIYellow))
}

// Error prints an error.
func (t *Terminal) Error(err error) {
	fmt.Fprintln(t.writer, t.out.String("Error: "+err.Error()).Foreground(termenv.ANSIRed))
}
