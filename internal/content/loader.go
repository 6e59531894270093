package content

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/mdparty/internal/fetch"
	"github.com/ziadkadry99/mdparty/internal/progress"
)

// DefaultConfigLocation is where the site configuration is fetched from.
const DefaultConfigLocation = "config.json"

// Fetcher retrieves remote resources.
type Fetcher interface {
	FetchText(ctx context.Context, ref string) (string, error)
	FetchStructured(ctx context.Context, ref string, out any) error
}

// Loader runs the load sequence: config, sitemap, pages, layout.
type Loader struct {
	fetcher        Fetcher
	converter      Converter
	logger         *zap.SugaredLogger
	progress       progress.Reporter
	configLocation string
	strictSlugs    bool
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the loader's logger.
func WithLogger(l *zap.SugaredLogger) LoaderOption {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithConverter replaces the markdown converter.
func WithConverter(c Converter) LoaderOption {
	return func(ld *Loader) { ld.converter = c }
}

// WithProgress reports document loading to r.
func WithProgress(r progress.Reporter) LoaderOption {
	return func(ld *Loader) {
		if r != nil {
			ld.progress = r
		}
	}
}

// WithConfigLocation overrides DefaultConfigLocation.
func WithConfigLocation(ref string) LoaderOption {
	return func(ld *Loader) {
		if ref != "" {
			ld.configLocation = ref
		}
	}
}

// WithStrictSlugs makes Load fail when two sitemap entries share a slug.
func WithStrictSlugs(strict bool) LoaderOption {
	return func(ld *Loader) { ld.strictSlugs = strict }
}

// NewLoader creates a Loader reading through f.
func NewLoader(f Fetcher, opts ...LoaderOption) *Loader {
	l := &Loader{
		fetcher:        f,
		converter:      NewMarkdownConverter(),
		logger:         zap.NewNop().Sugar(),
		progress:       progress.Nop{},
		configLocation: DefaultConfigLocation,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadConfig fetches the site configuration.
func (l *Loader) LoadConfig(ctx context.Context) (*SiteConfig, error) {
	var cfg SiteConfig
	if err := l.fetcher.FetchStructured(ctx, l.configLocation, &cfg); err != nil {
		return nil, fmt.Errorf("loading site config: %w", err)
	}
	cfg.normalize()
	return &cfg, nil
}

// LoadSitemap fetches the sitemap named by cfg. Entries are returned as-is.
func (l *Loader) LoadSitemap(ctx context.Context, cfg *SiteConfig) (Sitemap, error) {
	var sitemap Sitemap
	if err := l.fetcher.FetchStructured(ctx, cfg.Pages.SitemapLocation, &sitemap); err != nil {
		return nil, fmt.Errorf("loading sitemap: %w", err)
	}
	return sitemap, nil
}

// LoadBatch fetches and converts every source concurrently. It returns as
// soon as one source fails, cancelling the others; no partial table is
// returned. Progress counts from one for each call.
func (l *Loader) LoadBatch(ctx context.Context, sources []Source) (Table, error) {
	return l.loadBatch(ctx, sources, new(atomic.Int64))
}

// loadBatch is LoadBatch counting finished documents in done.
func (l *Loader) loadBatch(ctx context.Context, sources []Source, done *atomic.Int64) (Table, error) {
	g, gctx := errgroup.WithContext(ctx)
	docs := make([]RenderedDocument, len(sources))

	for i, src := range sources {
		g.Go(func() error {
			text, err := l.fetcher.FetchText(gctx, src.URL)
			if err != nil {
				return fmt.Errorf("loading %q: %w", src.Name, err)
			}
			html, title, err := l.converter.Convert([]byte(text))
			if err != nil {
				return fmt.Errorf("loading %q: %w", src.Name, &fetch.ParseError{URL: src.URL, Err: err})
			}
			docs[i] = RenderedDocument{Name: src.Name, HTML: html, Title: title}
			l.progress.Update(int(done.Add(1)), src.Name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	table := make(Table, len(docs))
	for _, doc := range docs {
		table[doc.Name] = doc
	}
	return table, nil
}

// Load runs the four load stages in order. Each stage needs the result of
// the one before it.
func (l *Loader) Load(ctx context.Context) (*Site, error) {
	cfg, err := l.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}
	l.logger.Debugw("loaded site config", "title", cfg.Title, "sitemap", cfg.Pages.SitemapLocation)

	sitemap, err := l.LoadSitemap(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if collisions := SlugCollisions(sitemap); len(collisions) > 0 {
		if l.strictSlugs {
			return nil, &SlugCollisionError{Collisions: collisions}
		}
		for _, c := range collisions {
			l.logger.Warnw("pages share a slug, only the first is reachable", "slug", c.Slug, "pages", c.Names)
		}
	}

	// Pages and layout share one count per run.
	var done atomic.Int64
	l.progress.Start(len(sitemap) + len(cfg.Layout.Parts))
	defer l.progress.Finish()

	pages, err := l.loadBatch(ctx, PageSources(cfg, sitemap), &done)
	if err != nil {
		return nil, fmt.Errorf("loading pages: %w", err)
	}

	layout, err := l.loadBatch(ctx, LayoutSources(cfg), &done)
	if err != nil {
		return nil, fmt.Errorf("loading layout: %w", err)
	}

	l.logger.Infow("site loaded", "title", cfg.Title, "pages", len(pages), "layout_parts", len(layout))
	return &Site{
		Config:  cfg,
		Sitemap: sitemap,
		Pages:   pages,
		Layout:  layout,
	}, nil
}
