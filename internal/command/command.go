// Package command keeps the name-to-handler table shared by slash commands
// and prefix text commands.
package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"ArticleBot/internal/domain"
	"ArticleBot/internal/ports"
)

// Command handles one named command invocation.
type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, ev domain.CommandEvent, r ports.Responder) error
}

// Registry keeps a mapping from command names to their implementations.
type Registry struct {
	commands map[string]Command
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: map[string]Command{}}
}

// Register adds or replaces a command implementation.
func (r *Registry) Register(cmd Command) {
	if r.commands == nil {
		r.commands = map[string]Command{}
	}
	r.commands[strings.ToLower(cmd.Name())] = cmd
}

// Resolve returns a command by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Command, error) {
	if cmd, ok := r.commands[strings.ToLower(strings.TrimSpace(name))]; ok {
		return cmd, nil
	}
	return nil, fmt.Errorf("command %s is not registered", name)
}

// All returns registered commands sorted by name.
func (r *Registry) All() []Command {
	out := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// ParseText splits a prefixed chat message into a command name and the
// remaining arguments. ok is false when content does not start with prefix.
func ParseText(prefix, content string) (name string, args []string, ok bool) {
	content = strings.TrimSpace(content)
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}
