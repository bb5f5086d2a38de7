package style

import (
	"log/slog"
	"net/http"

	"github.com/jason-crow/cesium/pkg/cache"
	"github.com/jason-crow/cesium/pkg/evaluator"
)

// Options configures expression compilation and style loading.
type Options struct {
	Logger     *slog.Logger
	Debug      bool
	Cache      *cache.Cache
	Defines    map[string]string
	HTTPClient *http.Client
}

// Option mutates Options.
type Option func(*Options)

// WithLogger sets the structured logger used for debug traces and load
// diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithDebug enables per-evaluation debug logging.
func WithDebug(debug bool) Option {
	return func(o *Options) { o.Debug = debug }
}

// WithCache routes expression compilation through a shared LRU cache so
// identical source/defines pairs across styles reuse one parse.
func WithCache(c *cache.Cache) Option {
	return func(o *Options) { o.Cache = c }
}

// WithDefines supplies textual defines substituted into expression source
// before parsing. Style documents carry their own defines block; this
// option serves standalone expressions.
func WithDefines(defines map[string]string) Option {
	return func(o *Options) { o.Defines = defines }
}

// WithHTTPClient sets the client used by LoadStyle for http and https
// references. Defaults to http.DefaultClient.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) { o.HTTPClient = c }
}

func buildOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.HTTPClient == nil {
		o.HTTPClient = http.DefaultClient
	}
	return o
}

func (o Options) evaluator() *evaluator.Evaluator {
	evOpts := []evaluator.Option{evaluator.WithLogger(o.Logger)}
	if o.Debug {
		evOpts = append(evOpts, evaluator.WithDebug(true))
	}
	return evaluator.New(evOpts...)
}
