// Package terminal implements the session console on a reader/writer pair.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sqlcommenter/internal/core/ports/driven"
)

// Ensure Console implements the interface.
var _ driven.Console = (*Console)(nil)

// ErrNoInput is returned when input ends before an answer is given.
var ErrNoInput = errors.New("no input: stdin closed")

// Console writes styled output to out and reads answers from in.
// Reads happen on a background goroutine started by the first prompt, so a
// prompt can return as soon as its context is cancelled.
type Console struct {
	in     *bufio.Reader
	out    io.Writer
	styles *Styles

	start   sync.Once
	lines   chan string
	readErr error // set before lines is closed
}

// NewConsole creates a console. Colours are only emitted when out is a terminal.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:     bufio.NewReader(in),
		out:    out,
		styles: NewStyles(lipgloss.NewRenderer(out), nil),
		lines:  make(chan string),
	}
}

// Header prints a section heading preceded by a blank line.
func (c *Console) Header(format string, args ...any) {
	fmt.Fprintln(c.out)
	c.line(c.styles.Header, format, args...)
}

// Print writes text verbatim followed by a newline.
func (c *Console) Print(text string) {
	fmt.Fprintln(c.out, text)
}

// Success prints a positive outcome.
func (c *Console) Success(format string, args ...any) {
	c.line(c.styles.Success, format, args...)
}

// Info prints a neutral notice.
func (c *Console) Info(format string, args ...any) {
	c.line(c.styles.Info, format, args...)
}

// Warn prints a non-fatal problem.
func (c *Console) Warn(format string, args ...any) {
	c.line(c.styles.Warning, format, args...)
}

// Error prints a failure.
func (c *Console) Error(format string, args ...any) {
	c.line(c.styles.Error, format, args...)
}

// Ask prompts for a line of text. An empty answer returns def.
func (c *Console) Ask(ctx context.Context, question, def string) (string, error) {
	prompt := c.styles.Prompt.Render(question)
	if def != "" {
		prompt += " " + c.styles.Muted.Render("("+def+")")
	}
	fmt.Fprint(c.out, prompt+": ")

	answer, err := c.readLine(ctx)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Confirm asks a yes/no question, repeating it until the answer is recognised.
func (c *Console) Confirm(ctx context.Context, question string) (bool, error) {
	for {
		fmt.Fprint(c.out, c.styles.Prompt.Render(question)+" "+c.styles.Muted.Render("[y/n]")+": ")

		answer, err := c.readLine(ctx)
		if err != nil {
			return false, err
		}
		if yes, ok := parseYesNo(answer); ok {
			return yes, nil
		}
		c.Warn("Please enter y or n")
	}
}

// WaitForEnter prints message and blocks until a line is read or ctx is done.
func (c *Console) WaitForEnter(ctx context.Context, message string) error {
	fmt.Fprintln(c.out, c.styles.Prompt.Render(message))
	_, err := c.readLine(ctx)
	return err
}

func (c *Console) line(style lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(c.out, style.Render(fmt.Sprintf(format, args...)))
}

// readLine returns the next trimmed line, or ctx.Err() once ctx is done.
// A line that arrives after cancellation is kept for the next prompt.
func (c *Console) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.start.Do(func() { go c.readLoop() })

	select {
	case <-ctx.Done():
		fmt.Fprintln(c.out)
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", c.readErr
		}
		return line, nil
	}
}

// readLoop feeds lines until input ends. A final line without a newline
// still counts; reaching end of input with nothing read is ErrNoInput.
func (c *Console) readLoop() {
	defer close(c.lines)
	for {
		line, err := c.in.ReadString('\n')
		if err == nil {
			c.lines <- strings.TrimSpace(line)
			continue
		}
		if !errors.Is(err, io.EOF) {
			c.readErr = fmt.Errorf("read input: %w", err)
			return
		}
		if line != "" {
			c.lines <- strings.TrimSpace(line)
		}
		c.readErr = ErrNoInput
		return
	}
}

// parseYesNo recognises English and Polish answers.
func parseYesNo(answer string) (yes, ok bool) {
	switch strings.ToLower(answer) {
	case "y", "yes", "t", "tak":
		return true, true
	case "n", "no", "nie":
		return false, true
	default:
		return false, false
	}
}
