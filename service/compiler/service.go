package compiler

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/allocman/internal/clock"
	"github.com/viant/allocman/internal/idgen"
	"github.com/viant/allocman/model/allocator"
	"github.com/viant/allocman/tracing"
	"github.com/viant/gosh/runner"
)

const (
	sourceFile = "main.go"
	binFolder  = "bin"
	srcFolder  = "src"
)

// Service compiles allocator sources into executables
type Service struct {
	config    Config
	fs        afs.Service
	newRunner RunnerFactory
	workDir   string //local path of config.WorkURL
	slots     chan struct{}
	idle      chan Runner
	mux       sync.Mutex
	closed    bool
}

// Compile builds text as allocator name; a toolchain rejection is returned
// as *allocator.CompileError carrying the toolchain output verbatim
func (s *Service) Compile(ctx context.Context, name string, text string) (artifact allocator.Artifact, err error) {
	ctx, span := tracing.StartSpan(ctx, "compiler.Compile "+name, tracing.KindClient)
	defer func() { tracing.EndSpan(span, err) }()
	digest := allocator.Digest(text)
	span.WithAttributes(map[string]string{"allocator.name": name, "allocator.digest": digest})

	session, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	healthy := true
	defer func() { s.release(session, healthy) }()

	buildID := idgen.Short()
	buildURL := url.Join(s.config.WorkURL, srcFolder, name, buildID)
	sourceURL := url.Join(buildURL, sourceFile)
	if err = s.fs.Upload(ctx, sourceURL, file.DefaultFileOsMode, strings.NewReader(text)); err != nil {
		return nil, fmt.Errorf("%w: failed to stage %v source: %v", allocator.ErrIO, name, err)
	}
	defer func() {
		if dErr := s.fs.Delete(context.WithoutCancel(ctx), buildURL); dErr != nil {
			log.Warn().Err(dErr).Str("allocator", name).Msg("failed to remove build workspace")
		}
	}()

	buildDir := url.Path(buildURL)
	output := path.Join(s.workDir, binFolder, name+"-"+digest[:12]+"-"+buildID)
	command := expand(s.config.Command, map[string]string{
		SourceVar: quote(path.Join(buildDir, sourceFile)),
		OutputVar: quote(output),
		NameVar:   name,
	})
	started := clock.Now()
	stdout, status, runErr := session.Run(ctx, "cd "+quote(buildDir)+" && "+command+" 2>&1", runner.WithTimeout(s.config.TimeoutMs))
	elapsed := clock.Since(started)
	log.Debug().Str("allocator", name).Int("status", status).Dur("elapsed", elapsed).Msg("toolchain finished")
	// gosh reports an expired read as status 0 with no error, the session is still busy
	timedOut := elapsed >= s.config.Timeout()
	if runErr != nil || timedOut {
		healthy = false
	}
	if timedOut {
		return nil, allocator.NewCompileError(name, status, strings.TrimSpace(fmt.Sprintf("toolchain timed out after %s\n%s", elapsed, strings.TrimSpace(stdout))))
	}
	if runErr != nil {
		return nil, fmt.Errorf("failed to run toolchain for %v: %w", name, runErr)
	}
	if status != 0 {
		return nil, allocator.NewCompileError(name, status, strings.TrimSpace(stdout))
	}
	outputURL := url.Join(s.config.WorkURL, binFolder, path.Base(output))
	exists, err := s.fs.Exists(ctx, outputURL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to check %v artifact: %v", allocator.ErrIO, name, err)
	}
	if !exists {
		return nil, allocator.NewCompileError(name, status, "toolchain succeeded but produced no executable\n"+strings.TrimSpace(stdout))
	}
	return newExecutable(name, digest, output, s.fs, outputURL), nil
}

// acquire blocks until a worker slot is free
func (s *Service) acquire(ctx context.Context) (Runner, error) {
	s.mux.Lock()
	closed := s.closed
	s.mux.Unlock()
	if closed {
		return nil, allocator.ErrClosed
	}
	select {
	case s.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case session := <-s.idle:
		return session, nil
	default:
	}
	session, err := s.newRunner(context.WithoutCancel(ctx), s.config.Env)
	if err != nil {
		<-s.slots
		return nil, fmt.Errorf("failed to start toolchain session: %w", err)
	}
	return session, nil
}

// release returns session to the pool; broken sessions are closed
func (s *Service) release(session Runner, healthy bool) {
	defer func() { <-s.slots }()
	s.mux.Lock()
	if healthy && !s.closed {
		s.idle <- session
		s.mux.Unlock()
		return
	}
	s.mux.Unlock()
	if err := session.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close toolchain session")
	}
}

// Close releases all idle sessions
func (s *Service) Close(ctx context.Context) error {
	s.mux.Lock()
	s.closed = true
	var idle []Runner
	for drained := false; !drained; {
		select {
		case session := <-s.idle:
			idle = append(idle, session)
		default:
			drained = true
		}
	}
	s.mux.Unlock()
	var errs []string
	for _, session := range idle {
		if err := session.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing sessions: %s", strings.Join(errs, "; "))
	}
	return nil
}

func expand(template string, values map[string]string) string {
	for k, v := range values {
		template = strings.ReplaceAll(template, k, v)
	}
	return template
}

func quote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}

// New creates a compiler service
func New(ctx context.Context, options ...Option) (*Service, error) {
	ret := &Service{config: DefaultConfig()}
	for _, option := range options {
		option(ret)
	}
	if err := ret.config.Validate(); err != nil {
		return nil, err
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	if ret.newRunner == nil {
		ret.newRunner = LocalRunner
	}
	ret.config.WorkURL = url.Normalize(ret.config.WorkURL, file.Scheme)
	if scheme := url.Scheme(ret.config.WorkURL, file.Scheme); scheme != file.Scheme {
		return nil, fmt.Errorf("compiler.workURL must be local, but had scheme: %v", scheme)
	}
	ret.workDir = url.Path(ret.config.WorkURL)
	binURL := url.Join(ret.config.WorkURL, binFolder)
	if exists, _ := ret.fs.Exists(ctx, binURL); !exists {
		if err := ret.fs.Create(ctx, binURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("%w: failed to create %v: %v", allocator.ErrIO, binURL, err)
		}
	}
	ret.slots = make(chan struct{}, ret.config.Workers)
	ret.idle = make(chan Runner, ret.config.Workers)
	return ret, nil
}
