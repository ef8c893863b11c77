package pipeline

import "context"

// Runner executes a stage.
type Runner func(ctx context.Context, in State, deps Deps) (State, error)

var runners = map[string]Runner{}

// Register adds a stage runner.
func Register(name string, r Runner) {
	runners[name] = r
}

// Run executes a registered stage by name.
func Run(ctx context.Context, name string, in State, deps Deps) (State, error) {
	r, ok := runners[name]
	if !ok {
		return in, ErrUnknown{name: name}
	}
	return r(ctx, in, deps)
}

// ErrUnknown is returned when a stage is not found.
type ErrUnknown struct{ name string }

func (e ErrUnknown) Error() string { return "unknown stage: " + e.name }
