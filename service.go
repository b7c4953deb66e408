package allocman

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/viant/afs"
	"github.com/viant/allocman/model/allocator"
	"github.com/viant/allocman/service/compiler"
	"github.com/viant/allocman/service/event"
	"github.com/viant/allocman/service/importer"
	"github.com/viant/allocman/service/registry"
	"github.com/viant/allocman/service/session"
	"github.com/viant/allocman/service/source"
	"github.com/viant/allocman/tracing"
)

// Version is reported in traces
const Version = "0.1.0"

// Service represents allocator manager
type Service struct {
	config    *Config
	fs        afs.Service
	newRunner compiler.RunnerFactory
	compiler  registry.Compiler
	toolchain *compiler.Service
	store     *source.Service
	events    *event.Service
	registry  *registry.Service
	importer  *importer.Service
	traced    bool
}

// Registry returns the lifecycle manager
func (s *Service) Registry() *registry.Service {
	return s.registry
}

// Importer returns the directory importer
func (s *Service) Importer() *importer.Service {
	return s.importer
}

// Store returns the source store
func (s *Service) Store() *source.Service {
	return s.store
}

// Config returns the effective configuration
func (s *Service) Config() *Config {
	return s.config
}

// NewSession creates an editing session
func (s *Service) NewSession() *session.Session {
	return session.New(s.registry)
}

// OnTransition sets the handler of state transitions
func (s *Service) OnTransition(ctx context.Context, handler func(transition *allocator.Transition)) error {
	if s.events == nil {
		return fmt.Errorf("events are disabled")
	}
	return event.SetListenerOf[allocator.Transition](ctx, s.events, func(e *event.Event[allocator.Transition]) {
		handler(&e.Data)
	})
}

// Close closes registry, compiler sessions and listeners
func (s *Service) Close(ctx context.Context) error {
	var errs []error
	if s.registry != nil {
		if err := s.registry.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if s.toolchain != nil {
		if err := s.toolchain.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if s.events != nil {
		s.events.Close()
	}
	if s.traced {
		if err := tracing.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// init wires the services; whatever was started is closed again when it fails
func (s *Service) init(ctx context.Context) (err error) {
	if err = s.config.Validate(); err != nil {
		return err
	}
	defer func() {
		if err == nil {
			return
		}
		if closeErr := s.Close(context.WithoutCancel(ctx)); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close partially initialized services")
		}
	}()
	if level, err := zerolog.ParseLevel(s.config.Log.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	if s.config.Tracing.Enabled {
		if err = tracing.Init("allocman", Version, s.config.Tracing.Output); err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}
		s.traced = true
	}
	if s.store, err = source.New(ctx, s.config.Store.URL, source.WithFS(s.fs)); err != nil {
		return err
	}
	if s.compiler == nil {
		options := []compiler.Option{compiler.WithConfig(s.config.Compiler), compiler.WithFS(s.fs)}
		if s.newRunner != nil {
			options = append(options, compiler.WithRunnerFactory(s.newRunner))
		}
		if s.toolchain, err = compiler.New(ctx, options...); err != nil {
			return err
		}
		s.compiler = s.toolchain
	}
	var options []registry.Option
	if s.config.Events.Enabled {
		if s.events, err = event.New(s.config.Events, event.WithFS(s.fs)); err != nil {
			return err
		}
		publisher, err := event.PublisherOf[allocator.Transition](ctx, s.events)
		if err != nil {
			return err
		}
		options = append(options, registry.WithNotifier(publisher))
	}
	s.registry = registry.New(s.store, s.compiler, options...)
	s.importer = importer.New(s.registry, s.fs)
	loaded, err := s.registry.Load(ctx)
	if err != nil {
		return err
	}
	log.Debug().Str("store", s.store.BaseURL()).Int("allocators", len(loaded)).Msg("registry loaded")
	return nil
}

// New creates allocator manager, persisted allocators are registered as uncompiled
func New(ctx context.Context, options ...Option) (*Service, error) {
	ret := &Service{config: DefaultConfig()}
	for _, option := range options {
		option(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	if err := ret.init(ctx); err != nil {
		return nil, err
	}
	return ret, nil
}
