package command

import "strings"

// Registry maps command names and aliases to commands.
type Registry struct {
	byName    map[string]Command
	canonical []Command
}

func NewRegistry() *Registry {
	return &Registry{byName: map[string]Command{}}
}

// Register adds a command under its name and all aliases.
func (r *Registry) Register(cmd Command) {
	r.byName[cmd.Name()] = cmd
	for _, a := range cmd.Aliases() {
		r.byName[a] = cmd
	}
	r.canonical = append(r.canonical, cmd)
}

// Get looks up a command by name or alias, case-insensitively.
func (r *Registry) Get(name string) (Command, bool) {
	cmd, ok := r.byName[strings.ToLower(name)]
	return cmd, ok
}

// All returns every registered command once, in registration order.
func (r *Registry) All() []Command {
	out := make([]Command, len(r.canonical))
	copy(out, r.canonical)
	return out
}
