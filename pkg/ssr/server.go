package ssr

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/introsite/internal/bundle"
	"github.com/vango-dev/introsite/internal/config"
	"github.com/vango-dev/introsite/internal/errors"
	"github.com/vango-dev/introsite/pkg/middleware"
	"github.com/vango-dev/introsite/pkg/module"
)

// ReloadPath is where Options.Reload is mounted.
const ReloadPath = "/_dev/reload"

// Options configures a Server.
type Options struct {
	// Runtime is the immutable startup configuration.
	Runtime config.Runtime

	// Dev is required in development mode and ignored in production.
	Dev DevTool

	// Reload, if set, is mounted at ReloadPath (development live reload).
	Reload http.Handler

	// Loader caches production bundles. A new Loader is created if nil.
	Loader *bundle.Loader

	// Registry receives the server's metrics and backs /metrics. A new
	// registry with Go and process collectors is created if nil.
	Registry *prometheus.Registry

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration
}

// Server is the template server.
type Server struct {
	rt       config.Runtime
	dev      DevTool
	reload   http.Handler
	loader   *bundle.Loader
	registry *prometheus.Registry
	metrics  *middleware.Metrics
	static   *staticFiles
	logger   *slog.Logger
	handler  http.Handler
	shutdown time.Duration
}

// New creates a Server.
func New(opts Options) (*Server, error) {
	if !opts.Runtime.IsProduction() && opts.Dev == nil {
		return nil, fmt.Errorf("ssr: development mode requires a DevTool")
	}
	if opts.Loader == nil {
		opts.Loader = bundle.NewLoader()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
		opts.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		rt:       opts.Runtime,
		reload:   opts.Reload,
		loader:   opts.Loader,
		registry: opts.Registry,
		metrics:  middleware.NewMetrics(middleware.WithRegistry(opts.Registry)),
		logger:   opts.Logger.With("component", "ssr", "mode", string(opts.Runtime.Mode())),
		shutdown: opts.ShutdownTimeout,
	}
	if !opts.Runtime.IsProduction() {
		s.dev = opts.Dev
	}
	s.static = newStaticFiles(
		opts.Runtime.StaticDirs(),
		[]string{opts.Runtime.TemplatePath()},
		opts.Runtime.IsProduction(),
	)
	s.handler = s.routes()
	return s, nil
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler { return s.handler }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Tracing(middleware.WithRequestFilter(func(r *http.Request) bool {
		return r.URL.Path != "/healthz" && r.URL.Path != "/metrics"
	})))
	r.Use(s.metrics.Handler)
	r.Use(middleware.AccessLog(s.logger))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	if s.reload != nil {
		r.Handle(ReloadPath, s.reload)
	}
	r.HandleFunc("/*", s.handlePage)
	return r
}

// handlePage serves a static asset if one matches, otherwise the rendered
// page. Every method is answered as GET.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if s.static.serve(w, r) {
		return
	}

	url := r.URL.RequestURI()
	page, err := s.renderPage(r.Context(), url)
	if err != nil {
		code := errors.Code(err)
		s.metrics.RecordRenderError(code)
		s.logger.Error("render failed", "path", url, "code", code, "error", err)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(page))
}

// renderPage produces the HTML document for url.
func (s *Server) renderPage(ctx context.Context, url string) (string, error) {
	tplPath := s.rt.TemplatePath()
	if s.rt.IsProduction() {
		if _, err := os.Stat(tplPath); err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				return "", errors.New("E201").WithDetail(tplPath)
			}
			return "", errors.New("E201").Wrap(err)
		}
	}

	raw, err := os.ReadFile(tplPath)
	if err != nil {
		return "", err
	}
	template := string(raw)

	if s.dev != nil {
		template, err = s.dev.TransformTemplate(url, template)
		if err != nil {
			return "", err
		}
	}

	render, err := s.resolveRender(ctx)
	if err != nil {
		return "", err
	}

	fragment, err := invoke(render, url)
	if err != nil {
		return "", err
	}

	page, ok := Substitute(template, fragment)
	if !ok {
		s.logger.Warn("template has no placeholder", "template", tplPath, "placeholder", Placeholder)
	}
	return page, nil
}

// resolveRender loads the active module and resolves its render function.
func (s *Server) resolveRender(ctx context.Context) (module.RenderFunc, error) {
	var (
		mod    module.Module
		source string
		err    error
	)
	if s.dev != nil {
		source = s.rt.SourceEntry()
		mod, err = s.dev.LoadSourceModule(ctx, source)
	} else {
		mod, source, err = s.loader.Open(s.rt.BundleCandidates())
	}
	if err != nil {
		return nil, err
	}

	render, shape, err := module.ResolveEntry(mod)
	if err != nil {
		s.logger.Error("no callable render export", "module", source, "exports", mod.Keys())
		return nil, errors.New("E203").WithDetail(source).Wrap(err)
	}
	s.logger.Debug("render entry resolved", "module", source, "shape", string(shape))
	return render, nil
}

// invoke calls render, turning a returned error or a panic into E204.
func invoke(render module.RenderFunc, url string) (html string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.New("E204").Wrap(fmt.Errorf("panic: %v", p))
		}
	}()
	html, err = render(url)
	if err != nil {
		return "", errors.New("E204").Wrap(err)
	}
	return html, nil
}
