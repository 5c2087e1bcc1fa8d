package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/smith3v/tg-word-tutor/pkg/logger"
)

const DefaultMaxIterations = 3

var ErrIterationLimit = errors.New("agent stopped after reaching the iteration limit")

// Generator is the text-generation collaborator.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Tool struct {
	Name        string
	Description string
	Run         func(ctx context.Context, input string) (string, error)
}

type Executor struct {
	gen           Generator
	tools         map[string]Tool
	order         []string
	maxIterations int
	log           *slog.Logger
}

func NewExecutor(gen Generator, log *slog.Logger, tools ...Tool) *Executor {
	e := &Executor{
		gen:           gen,
		tools:         make(map[string]Tool, len(tools)),
		maxIterations: DefaultMaxIterations,
		log:           logger.OrDiscard(log),
	}
	for _, tool := range tools {
		if _, dup := e.tools[tool.Name]; !dup {
			e.order = append(e.order, tool.Name)
		}
		e.tools[tool.Name] = tool
	}
	return e
}

// Run asks the model to complete task, executing tool calls until it gives a
// final answer or the iteration limit is hit.
func (e *Executor) Run(ctx context.Context, task string) (string, error) {
	var scratchpad strings.Builder
	tools := make([]Tool, 0, len(e.order))
	for _, name := range e.order {
		tools = append(tools, e.tools[name])
	}

	for i := 0; i < e.maxIterations; i++ {
		prompt, err := renderAgentPrompt(tools, task, scratchpad.String())
		if err != nil {
			return "", err
		}
		reply, err := e.gen.Generate(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("generate: %w", err)
		}

		switch step := Parse(reply).(type) {
		case FinalAnswer:
			return step.Text, nil
		case ToolInvocation:
			observation := e.invoke(ctx, step)
			scratchpad.WriteString(strings.TrimSpace(reply))
			scratchpad.WriteString("\nObservation: ")
			scratchpad.WriteString(observation)
			scratchpad.WriteString("\n")
		}
	}
	return "", ErrIterationLimit
}

func (e *Executor) invoke(ctx context.Context, call ToolInvocation) string {
	tool, ok := e.tools[call.Name]
	if !ok {
		e.log.Warn("agent requested unknown tool", "tool", call.Name)
		return fmt.Sprintf("unknown tool %q", call.Name)
	}
	out, err := tool.Run(ctx, call.Input)
	if err != nil {
		e.log.Warn("agent tool failed", "tool", call.Name, "error", err)
		return "error: " + err.Error()
	}
	e.log.Debug("agent tool finished", "tool", call.Name)
	return out
}
