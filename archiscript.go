package archiscript

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/loam"

	"github.com/aretw0/archiscript/internal/compiler"
	loamAdapter "github.com/aretw0/archiscript/pkg/adapters/loam"
	"github.com/aretw0/archiscript/pkg/adapters/yamlfile"
	"github.com/aretw0/archiscript/pkg/domain"
	"github.com/aretw0/archiscript/pkg/ports"
	"github.com/aretw0/archiscript/pkg/proxy"
)

// Default lock settings used when a ModelLocker is configured.
const (
	DefaultLockTTL     = 5 * time.Minute
	DefaultLockTimeout = 2 * time.Second
)

// Engine is the high-level entry point for the archiscript library.
// It owns one loaded model and the proxy factory that wraps its nodes.
type Engine struct {
	mu      sync.RWMutex
	model   *domain.Model
	factory *proxy.Factory

	loader      ports.ModelLoader
	locker      ports.ModelLocker
	unlock      ports.UnlockFunc
	registry    *domain.TypeRegistry
	hooks       proxy.Hooks
	logger      *slog.Logger
	readOnly    bool
	lockTTL     time.Duration
	lockTimeout time.Duration

	Name string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a custom ModelLoader, bypassing path based loading.
func WithLoader(l ports.ModelLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRegistry replaces the default ArchiMate type registry.
func WithRegistry(registry *domain.TypeRegistry) Option {
	return func(e *Engine) {
		e.registry = registry
	}
}

// WithHooks registers observability hooks on every proxy the engine hands out.
func WithHooks(hooks proxy.Hooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithReadOnly opens the model read-only. Every mutation then fails with
// domain.ErrModelLocked.
func WithReadOnly(readOnly bool) Option {
	return func(e *Engine) {
		e.readOnly = readOnly
	}
}

// WithLocker coordinates writers across processes. When the lock for the
// model cannot be taken within timeout the model opens read-only.
// Zero durations select DefaultLockTTL and DefaultLockTimeout.
func WithLocker(locker ports.ModelLocker, ttl, timeout time.Duration) Option {
	return func(e *Engine) {
		e.locker = locker
		e.lockTTL = ttl
		e.lockTimeout = timeout
	}
}

// Open loads and assembles a model.
// By default path selects the loader: a directory is read as a Loam
// repository (one document per node), a .yaml, .yml or .json file as a
// single model document. With WithLoader, path only names the model.
func Open(ctx context.Context, path string, opts ...Option) (*Engine, error) {
	eng := &Engine{
		lockTTL:     DefaultLockTTL,
		lockTimeout: DefaultLockTimeout,
	}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.lockTTL <= 0 {
		eng.lockTTL = DefaultLockTTL
	}
	if eng.lockTimeout <= 0 {
		eng.lockTimeout = DefaultLockTimeout
	}
	if path != "" {
		eng.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	if eng.loader == nil {
		loader, err := loaderFor(path)
		if err != nil {
			return nil, err
		}
		eng.loader = loader
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("model", eng.Name)
	}

	m, err := eng.assemble(ctx)
	if err != nil {
		return nil, err
	}
	eng.model = m
	if eng.Name == "" {
		eng.Name = m.Root().ID
	}

	if err := eng.acquire(ctx); err != nil {
		return nil, err
	}
	m.SetReadOnly(eng.readOnly)

	eng.factory = proxy.NewFactory(m.Registry(),
		proxy.WithLogger(eng.logger),
		proxy.WithHooks(eng.hooks),
	)
	eng.logger.Debug("model opened", "nodes", m.Len(), "read_only", eng.readOnly)
	return eng, nil
}

func loaderFor(path string) (ports.ModelLoader, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required when no custom loader is provided")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}

	if !info.IsDir() {
		return yamlfile.New(absPath), nil
	}

	// The engine only reads the repository; read-only mode keeps Loam from
	// creating its development sandbox.
	repo, err := loam.Init(absPath, loam.WithReadOnly(true))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	name := filepath.Base(absPath)
	return loamAdapter.New(loam.NewTypedRepository[loamAdapter.NodeMetadata](repo),
		loamAdapter.WithModel(name, name),
	), nil
}

// acquire takes the cross-process write lock. Losing the race is not an
// error: the model opens read-only.
func (e *Engine) acquire(ctx context.Context) error {
	if e.locker == nil || e.readOnly {
		return nil
	}
	lockCtx, cancel := context.WithTimeout(ctx, e.lockTimeout)
	defer cancel()

	unlock, err := e.locker.Lock(lockCtx, e.model.Root().ID, e.lockTTL)
	switch {
	case err == nil:
		e.unlock = unlock
		return nil
	case errors.Is(err, ports.ErrLockAcquire) && ctx.Err() == nil:
		e.logger.Warn("model is locked by another writer, opening read-only", "err", err)
		e.readOnly = true
		return nil
	default:
		return fmt.Errorf("lock model: %w", err)
	}
}

func (e *Engine) assemble(ctx context.Context) (*domain.Model, error) {
	rec, err := e.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return compiler.NewAssembler(e.registry).Assemble(rec)
}

// Reload loads the model again and swaps it in. Proxies obtained before
// the swap keep pointing at the old model. On error the current model stays.
func (e *Engine) Reload(ctx context.Context) error {
	m, err := e.assemble(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	m.SetReadOnly(e.readOnly)
	e.model = m
	e.factory = proxy.NewFactory(m.Registry(),
		proxy.WithLogger(e.logger),
		proxy.WithHooks(e.hooks),
	)
	e.logger.Info("model reloaded", "nodes", m.Len())
	return nil
}

// Watch returns a channel that signals when the underlying model changes.
// Returns error if the loader does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

// Close releases the write lock, if one is held.
func (e *Engine) Close() error {
	if e.unlock == nil {
		return nil
	}
	unlock := e.unlock
	e.unlock = nil
	ctx, cancel := context.WithTimeout(context.Background(), e.lockTimeout)
	defer cancel()
	return unlock(ctx)
}

// Model returns the assembled model.
func (e *Engine) Model() *domain.Model {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.model
}

// Factory returns the proxy factory bound to the model registry and hooks.
func (e *Engine) Factory() *proxy.Factory {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.factory
}

// ReadOnly reports whether mutations are refused.
func (e *Engine) ReadOnly() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.model.ReadOnly()
}

// Root wraps the model root.
func (e *Engine) Root() proxy.Proxy {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.factory.Wrap(e.model.Root())
}

// Get wraps the node with the given id, or returns the empty proxy.
func (e *Engine) Get(id string) proxy.Proxy {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.factory.Wrap(e.model.Get(id))
}

// Find runs selectors over the whole model.
func (e *Engine) Find(selectors ...string) *proxy.Collection {
	return e.Root().Find(selectors...)
}

// Record returns the flat record form of the current model, suitable for
// yamlfile.Write or a memory loader.
func (e *Engine) Record() *domain.ModelRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return compiler.Record(e.model)
}

// Logger returns the engine logger.
func (e *Engine) Logger() *slog.Logger {
	return e.logger
}
