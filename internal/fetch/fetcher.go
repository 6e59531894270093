package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// localBase is the base URL used when content is served from a filesystem.
const localBase = "file:///"

// Fetcher retrieves resources relative to a base URL. It keeps no state
// between calls besides its HTTP client.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	base    *url.URL
	logger  *zap.SugaredLogger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// WithLogger sets the logger used for per-request debug output.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// New creates a Fetcher resolving references against base, which must be an
// absolute URL.
func New(base string, opts ...Option) (*Fetcher, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parsing base url %q: %w", base, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("base url %q must be absolute", base)
	}
	// A base without a trailing slash would drop its last segment on resolve.
	if u.Path == "" || u.Path[len(u.Path)-1] != '/' {
		u.Path += "/"
	}

	f := &Fetcher{
		client: &http.Client{},
		base:   u,
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.timeout > 0 {
		// Copy so a caller supplied client is left untouched.
		c := *f.client
		c.Timeout = f.timeout
		f.client = &c
	}
	return f, nil
}

// NewLocal creates a Fetcher that serves every request from fsys. Missing
// files produce a 404 like a remote server would.
func NewLocal(fsys afero.Fs, opts ...Option) (*Fetcher, error) {
	transport := http.NewFileTransport(afero.NewHttpFs(fsys))
	opts = append([]Option{WithHTTPClient(&http.Client{Transport: transport})}, opts...)
	return New(localBase, opts...)
}

// NewDir is NewLocal over a read-only view of the directory dir.
func NewDir(dir string, opts ...Option) (*Fetcher, error) {
	fsys := afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), dir))
	return NewLocal(fsys, opts...)
}

// Base returns the URL references are resolved against.
func (f *Fetcher) Base() *url.URL {
	u := *f.base
	return &u
}

// Resolve turns a reference into an absolute URL the same way a browser
// resolves a relative fetch against the page URL.
func (f *Fetcher) Resolve(ref string) (*url.URL, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("parsing reference %q: %w", ref, err)
	}
	return f.base.ResolveReference(r), nil
}

// FetchText returns the body of ref as a string.
func (f *Fetcher) FetchText(ctx context.Context, ref string) (string, error) {
	body, err := f.fetch(ctx, ref)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchBytes returns the raw body of ref together with its content type.
func (f *Fetcher) FetchBytes(ctx context.Context, ref string) ([]byte, string, error) {
	u, err := f.Resolve(ref)
	if err != nil {
		return nil, "", &FetchError{URL: ref, Err: err}
	}
	resp, err := f.do(ctx, u)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &FetchError{URL: u.String(), Err: err}
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// FetchStructured decodes the body of ref into out. JSON documents are
// decoded as JSON and everything else as YAML.
func (f *Fetcher) FetchStructured(ctx context.Context, ref string, out any) error {
	body, contentType, err := f.FetchBytes(ctx, ref)
	if err != nil {
		return err
	}
	if isJSON(ref, contentType, body) {
		err = json.Unmarshal(body, out)
	} else {
		err = yaml.Unmarshal(body, out)
	}
	if err != nil {
		return &ParseError{URL: ref, Err: err}
	}
	return nil
}

// isJSON reports whether a body should be decoded as JSON. The reference
// extension and the content type decide first. Otherwise a body that opens
// like a JSON object or array and is valid JSON counts.
func isJSON(ref, contentType string, body []byte) bool {
	if u, err := url.Parse(ref); err == nil && strings.EqualFold(path.Ext(u.Path), ".json") {
		return true
	}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		if mt == "application/json" || strings.HasSuffix(mt, "+json") {
			return true
		}
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return false
	}
	return json.Valid(trimmed)
}

func (f *Fetcher) fetch(ctx context.Context, ref string) ([]byte, error) {
	body, _, err := f.FetchBytes(ctx, ref)
	return body, err
}

func (f *Fetcher) do(ctx context.Context, u *url.URL) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &FetchError{URL: u.String(), Err: err}
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: u.String(), Err: err}
	}
	f.logger.Debugw("fetched resource", "url", u.String(), "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &FetchError{URL: u.String(), StatusCode: resp.StatusCode}
	}
	return resp, nil
}
