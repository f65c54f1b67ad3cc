package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-padel/internal/batch"
	"github.com/goliatone/go-padel/internal/catalog"
	translatecmd "github.com/goliatone/go-padel/internal/commands/translate"
	"github.com/goliatone/go-padel/internal/di"
	"github.com/goliatone/go-padel/internal/runtimeconfig"
	"github.com/goliatone/go-padel/internal/translator"
)

type recordingRegistry struct {
	handlers []any
	err      error
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	if r.err != nil {
		return r.err
	}
	r.handlers = append(r.handlers, handler)
	return nil
}

type recordingSubscription struct {
	unsubscribed bool
}

func (s *recordingSubscription) Unsubscribe() { s.unsubscribed = true }

type recordingDispatcher struct {
	subscriptions []*recordingSubscription
}

func (d *recordingDispatcher) RegisterCommand(any) (CommandSubscription, error) {
	sub := &recordingSubscription{}
	d.subscriptions = append(d.subscriptions, sub)
	return sub, nil
}

func newContainer(t *testing.T, opts ...di.Option) *di.Container {
	t.Helper()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = ""
	cfg.Storage.DSN = ""
	cfg.Auth.Enabled = false
	cfg.Logging.Provider = "none"
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	return container
}

func TestRegisterContainerCommandsBuildsHandlers(t *testing.T) {
	registry := &recordingRegistry{}
	recorder := &recordingDispatcher{}

	result, err := RegisterContainerCommands(newContainer(t), RegistrationOptions{
		Registry:   registry,
		Dispatcher: recorder,
	})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}
	if len(result.Handlers) != 2 {
		t.Fatalf("expected 2 handlers, got %d", len(result.Handlers))
	}
	if len(registry.handlers) != len(result.Handlers) {
		t.Fatalf("expected registry to record all handlers, got %d of %d", len(registry.handlers), len(result.Handlers))
	}
	if len(result.Subscriptions) != 2 {
		t.Fatalf("expected 2 subscriptions, got %d", len(result.Subscriptions))
	}

	result.Close()
	for _, sub := range recorder.subscriptions {
		if !sub.unsubscribed {
			t.Fatal("expected Close to unsubscribe")
		}
	}
}

func TestRegisterContainerCommandsJoinsRegistryErrors(t *testing.T) {
	boom := errors.New("registry full")
	result, err := RegisterContainerCommands(newContainer(t), RegistrationOptions{
		Registry: &recordingRegistry{err: boom},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected registry error, got %v", err)
	}
	if len(result.Handlers) != 2 {
		t.Fatalf("expected handlers built despite registry errors, got %d", len(result.Handlers))
	}
}

func TestRegisterContainerCommandsNilContainer(t *testing.T) {
	result, err := RegisterContainerCommands(nil, RegistrationOptions{})
	if err != nil || len(result.Handlers) != 0 {
		t.Fatalf("expected empty result, got %+v, %v", result, err)
	}
}

func TestDispatcherRoutesTranslateCommand(t *testing.T) {
	container := newContainer(t, di.WithTranslator(translator.Noop{}))
	ctx := context.Background()
	if _, err := container.Catalog().Authors.Create(ctx, &catalog.Author{Name: "Ana Lopez", Bio: "Former pro."}); err != nil {
		t.Fatalf("create author: %v", err)
	}

	result, err := RegisterContainerCommands(container, RegistrationOptions{Dispatcher: Dispatcher{}})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	t.Cleanup(result.Close)

	report := &batch.Report{}
	err = dispatcher.Dispatch(ctx, translatecmd.TranslateEntitiesCommand{
		EntityType: "author",
		Locales:    []string{"es"},
		DryRun:     true,
		Report:     report,
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if report.Planned != 1 {
		t.Fatalf("expected 1 planned, got %+v", report)
	}
}

func TestDispatcherRejectsUnknownHandler(t *testing.T) {
	if _, err := (Dispatcher{}).RegisterCommand(struct{}{}); err == nil {
		t.Fatal("expected error for unsupported handler")
	}
}
