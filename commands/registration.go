// Package commands exposes the container's command handlers to hosts that
// drive them through a go-command registry or dispatcher.
package commands

import (
	"errors"
	"fmt"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	markdowncmd "github.com/goliatone/go-padel/internal/commands/markdown"
	translatecmd "github.com/goliatone/go-padel/internal/commands/translate"
	"github.com/goliatone/go-padel/internal/di"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// RegistrationOptions configures how handlers are registered.
type RegistrationOptions struct {
	Registry   CommandRegistry
	Dispatcher CommandDispatcher
}

// RegistrationResult captures the handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// Close releases every dispatcher subscription.
func (r *RegistrationResult) Close() {
	if r == nil {
		return
	}
	for _, sub := range r.Subscriptions {
		sub.Unsubscribe()
	}
	r.Subscriptions = nil
}

// RegisterContainerCommands collects the command handlers built by container
// and registers them with the optional registry and dispatcher.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	result := &RegistrationResult{
		Handlers:      make([]any, 0, 2),
		Subscriptions: make([]CommandSubscription, 0, 2),
	}
	if container == nil {
		return result, nil
	}

	var errs error
	register := func(handler any) {
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}
		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}
	}

	if handler := container.TranslateHandler(); handler != nil {
		register(handler)
	}
	if handler := container.ImportHandler(); handler != nil {
		register(handler)
	}
	return result, errs
}

// Dispatcher subscribes handlers to the process-wide go-command dispatcher.
type Dispatcher struct {
	// MaxRetries is how many times a failed command is retried.
	MaxRetries int
}

// RegisterCommand implements CommandDispatcher for the handlers this module
// builds.
func (d Dispatcher) RegisterCommand(handler any) (CommandSubscription, error) {
	opts := []runner.Option{}
	if d.MaxRetries > 0 {
		opts = append(opts, runner.WithMaxRetries(d.MaxRetries))
	}
	switch h := handler.(type) {
	case command.Commander[translatecmd.TranslateEntitiesCommand]:
		return dispatcher.SubscribeCommand(h, opts...), nil
	case command.Commander[markdowncmd.ImportMarkdownCommand]:
		return dispatcher.SubscribeCommand(h, opts...), nil
	default:
		return nil, fmt.Errorf("commands: unsupported handler %T", handler)
	}
}
