package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/mitchellh/mapstructure"

	"github.com/dmitrymomot/plugsession/pkg/config"
)

// BackendSpec describes a backend to build: a registered name, its options
// and, for chains, the member specs.
type BackendSpec struct {
	Name    string         `yaml:"name" mapstructure:"name"`
	Options map[string]any `yaml:"options" mapstructure:"options"`
	Chain   []BackendSpec  `yaml:"chain" mapstructure:"chain"`
}

// BackendFactory builds a backend from its spec. reg gives access to the
// registry for nested specs.
type BackendFactory func(ctx context.Context, spec BackendSpec, reg *Registry) (Backend, error)

// Registry maps backend names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]BackendFactory
	logger    *slog.Logger
	metrics   *Metrics
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryMetrics wraps every built backend, chain members included, in
// an InstrumentedBackend labelled with its spec name.
func WithRegistryMetrics(m *Metrics) RegistryOption {
	return func(r *Registry) {
		r.metrics = m
	}
}

// NewRegistry creates a registry with the memory, file, lru and chain
// backends registered.
func NewRegistry(log *slog.Logger, opts ...RegistryOption) *Registry {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Registry{
		factories: make(map[string]BackendFactory),
		logger:    log,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.Register("memory", memoryFactory)
	r.Register("file", fileFactory)
	r.Register("lru", lruFactory)
	r.Register("chain", chainFactory)
	return r
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, f BackendFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Names returns the registered backend names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.factories))
}

// Logger returns the logger handed to factories.
func (r *Registry) Logger() *slog.Logger {
	return r.logger
}

// Build constructs the backend described by spec.
func (r *Registry) Build(ctx context.Context, spec BackendSpec) (Backend, error) {
	r.mu.RLock()
	f, ok := r.factories[spec.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %w: %q", ErrConfiguration, ErrUnknownBackend, spec.Name)
	}

	b, err := f(ctx, spec, r)
	if err != nil {
		return nil, fmt.Errorf("build %s backend: %w", spec.Name, err)
	}
	if r.metrics != nil {
		b = r.metrics.Instrument(spec.Name, b)
	}
	return b, nil
}

// DecodeOptions decodes spec options into out, a pointer to a struct with
// mapstructure tags. Strings are converted to numbers, bools, durations and
// comma-separated lists where the target field asks for them.
func DecodeOptions(options map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if err := dec.Decode(options); err != nil {
		return fmt.Errorf("%w: invalid backend options: %w", ErrConfiguration, err)
	}
	return nil
}

// SpecFromConfig derives the backend spec from session configuration. A
// BackendConfig YAML file takes precedence over the flat settings.
func SpecFromConfig(cfg Config) (BackendSpec, error) {
	if cfg.BackendConfig != "" {
		var spec BackendSpec
		if err := config.LoadYAML(cfg.BackendConfig, &spec); err != nil {
			return BackendSpec{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
		if spec.Name == "" {
			return BackendSpec{}, fmt.Errorf("%w: backend config %s has no name", ErrConfiguration, cfg.BackendConfig)
		}
		return spec, nil
	}

	name := cfg.Backend
	if name == "" {
		name = "memory"
	}
	spec := flatSpec(name, cfg)
	if name == "chain" {
		if len(cfg.Chain) == 0 {
			return BackendSpec{}, fmt.Errorf("%w: chain backend needs members", ErrConfiguration)
		}
		for _, member := range cfg.Chain {
			spec.Chain = append(spec.Chain, flatSpec(member, cfg))
		}
	}
	return spec, nil
}

func flatSpec(name string, cfg Config) BackendSpec {
	spec := BackendSpec{Name: name}
	if name == "file" {
		spec.Options = map[string]any{"path": cfg.FilePath}
	}
	return spec
}

func memoryFactory(_ context.Context, spec BackendSpec, r *Registry) (Backend, error) {
	if err := DecodeOptions(spec.Options, &struct{}{}); err != nil {
		return nil, err
	}
	return NewMemoryBackend(r.Logger()), nil
}

type fileOptions struct {
	Path string `mapstructure:"path"`
}

func fileFactory(_ context.Context, spec BackendSpec, r *Registry) (Backend, error) {
	var opts fileOptions
	if err := DecodeOptions(spec.Options, &opts); err != nil {
		return nil, err
	}
	return NewFileBackend(opts.Path, WithFileLogger(r.Logger()))
}

type lruOptions struct {
	Capacity int `mapstructure:"capacity"`
}

func lruFactory(_ context.Context, spec BackendSpec, _ *Registry) (Backend, error) {
	opts := lruOptions{Capacity: 1024}
	if err := DecodeOptions(spec.Options, &opts); err != nil {
		return nil, err
	}
	return NewLRUBackend(opts.Capacity)
}

type chainOptions struct {
	Backfill bool `mapstructure:"backfill"`
}

func chainFactory(ctx context.Context, spec BackendSpec, r *Registry) (Backend, error) {
	var opts chainOptions
	if err := DecodeOptions(spec.Options, &opts); err != nil {
		return nil, err
	}
	if len(spec.Chain) == 0 {
		return nil, fmt.Errorf("%w: chain backend needs members", ErrConfiguration)
	}

	members := make([]Backend, 0, len(spec.Chain))
	for _, m := range spec.Chain {
		b, err := r.Build(ctx, m)
		if err != nil {
			return nil, err
		}
		members = append(members, b)
	}

	chainOpts := []ChainOption{WithChainLogger(r.Logger())}
	if opts.Backfill {
		chainOpts = append(chainOpts, WithBackfill())
	}
	return NewChainBackend(members, chainOpts...), nil
}
