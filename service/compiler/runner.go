package compiler

import (
	"context"

	"github.com/viant/gosh"
	"github.com/viant/gosh/runner"
	"github.com/viant/gosh/runner/local"
)

// Runner runs shell commands in a long-lived session
type Runner interface {
	Run(ctx context.Context, command string, options ...runner.Option) (string, int, error)
	Close() error
}

// RunnerFactory creates a new session
type RunnerFactory func(ctx context.Context, env map[string]string) (Runner, error)

// LocalRunner creates a bash session on the local host
func LocalRunner(ctx context.Context, env map[string]string) (Runner, error) {
	var options []runner.Option
	if len(env) > 0 {
		options = append(options, runner.WithEnvironment(env))
	}
	service, err := gosh.New(ctx, local.New(options...))
	if err != nil {
		return nil, err
	}
	return service, nil
}
