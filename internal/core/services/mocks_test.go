package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/custodia-labs/sqlcommenter/internal/adapters/driven/codec"
	"github.com/custodia-labs/sqlcommenter/internal/core/domain"
	"github.com/custodia-labs/sqlcommenter/internal/core/ports/driven"
)

var errConsoleEOF = errors.New("no more scripted answers")

// mockLLMService records chat calls and answers with a fixed reply.
type mockLLMService struct {
	mu       sync.Mutex
	reply    string
	err      error
	model    string
	messages [][]driven.ChatMessage
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, messages)
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLMService) ModelName() string {
	if m.model == "" {
		return "mock-model"
	}
	return m.model
}

func (m *mockLLMService) Ping(_ context.Context) error { return nil }

func (m *mockLLMService) Close() error { return nil }

func (m *mockLLMService) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// mockPromptStore serves prompts from a map.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	p, ok := m.prompts[name]
	if !ok {
		return "", fmt.Errorf("%w: prompt %s", domain.ErrNotFound, name)
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockConsole replays scripted answers and captures every line printed.
// When interruptOn matches a question, interrupt is called at that prompt;
// the prompt then returns ctx.Err() unless answerAfterInterrupt is set.
type mockConsole struct {
	answers []string
	lines   []string
	waits   int

	interruptOn          string
	interrupt            context.CancelFunc
	answerAfterInterrupt bool
}

func newMockConsole(answers ...string) *mockConsole {
	return &mockConsole{answers: answers}
}

func (c *mockConsole) record(kind, format string, args ...any) {
	c.lines = append(c.lines, kind+": "+fmt.Sprintf(format, args...))
}

func (c *mockConsole) Header(format string, args ...any)  { c.record("header", format, args...) }
func (c *mockConsole) Print(text string)                  { c.lines = append(c.lines, "print: "+text) }
func (c *mockConsole) Success(format string, args ...any) { c.record("success", format, args...) }
func (c *mockConsole) Info(format string, args ...any)    { c.record("info", format, args...) }
func (c *mockConsole) Warn(format string, args ...any)    { c.record("warn", format, args...) }
func (c *mockConsole) Error(format string, args ...any)   { c.record("error", format, args...) }

func (c *mockConsole) next(ctx context.Context, question string) (string, error) {
	if c.interruptOn != "" && strings.Contains(question, c.interruptOn) {
		c.interrupt()
		if !c.answerAfterInterrupt {
			return "", ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(c.answers) == 0 {
		return "", errConsoleEOF
	}
	a := c.answers[0]
	c.answers = c.answers[1:]
	return a, nil
}

func (c *mockConsole) Ask(ctx context.Context, question, def string) (string, error) {
	c.record("ask", "%s", question)
	a, err := c.next(ctx, question)
	if err != nil {
		return "", err
	}
	if a == "" {
		return def, nil
	}
	return a, nil
}

func (c *mockConsole) Confirm(ctx context.Context, question string) (bool, error) {
	c.record("confirm", "%s", question)
	a, err := c.next(ctx, question)
	if err != nil {
		return false, err
	}
	return a == "y", nil
}

func (c *mockConsole) WaitForEnter(ctx context.Context, message string) error {
	c.record("wait", "%s", message)
	c.waits++
	if c.interruptOn != "" && strings.Contains(message, c.interruptOn) {
		c.interrupt()
	}
	return ctx.Err()
}

func (c *mockConsole) output() string {
	return strings.Join(c.lines, "\n")
}

// mockOpener simulates the user's editor by rewriting the file it is given.
type mockOpener struct {
	err     error
	content *string
	remove  bool
	opened  []string
}

func (o *mockOpener) Open(path string) error {
	o.opened = append(o.opened, path)
	if o.err != nil {
		return o.err
	}
	if o.remove {
		return os.Remove(path)
	}
	if o.content != nil {
		return os.WriteFile(path, []byte(*o.content), 0o600)
	}
	return nil
}

// mockEditor returns a fixed edit, or the input unchanged when unchanged is set.
type mockEditor struct {
	result    string
	unchanged bool
	calls     int
}

func (e *mockEditor) Edit(_ context.Context, text string) (string, bool) {
	e.calls++
	if e.unchanged {
		return text, false
	}
	return e.result, true
}

// mockProcessor records every path it is asked to process.
type mockProcessor struct {
	paths  []string
	state  domain.FileState
	cancel context.CancelFunc
}

func (p *mockProcessor) Process(_ context.Context, path string) domain.FileResult {
	p.paths = append(p.paths, path)
	if p.cancel != nil {
		p.cancel()
	}
	state := p.state
	if state == "" {
		state = domain.FileStateSkipped
	}
	return domain.FileResult{Path: path, State: state}
}

// mockAIValidator records validated settings.
type mockAIValidator struct {
	err      error
	settings *domain.LLMSettings
}

func (v *mockAIValidator) ValidateLLM(config *domain.LLMSettings) error {
	v.settings = config
	return v.err
}

func strPtr(s string) *string { return &s }

func decoderForTests() driven.TextDecoder {
	return codec.NewDecoder()
}
