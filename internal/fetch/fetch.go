// Package fetch retrieves page titles and favicons for links. The
// service is constructed with an explicit HTTP client and cache
// directory so tests can substitute fakes; it keeps no global state.
package fetch

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"

	"github.com/nikbrunner/wb/internal/storage"
)

// maxBodyBytes bounds how much of a page is read looking for <title>.
const maxBodyBytes = 512 * 1024

var (
	ErrNoTitle    = errors.New("page has no title")
	ErrNoFavicon  = errors.New("no favicon available")
	ErrExcluded   = errors.New("host is excluded from fetching")
	ErrInvalidURL = errors.New("invalid URL")
)

// Applier is the slice of the mutation API that fetch results are
// delivered through. Both methods tolerate stale ids and redundant
// values, so late or duplicate deliveries are harmless.
type Applier interface {
	UpdateLinkTitleIfDefault(id, title string) (bool, error)
	UpdateLinkFaviconPath(id, path string) error
}

// Service fetches titles and favicons with per-target deduplication.
type Service struct {
	client   *http.Client
	cacheDir string
	exclude  map[string]bool

	mu       sync.Mutex
	inflight map[string]bool
	wg       sync.WaitGroup
}

// Params holds parameters for creating a Service.
type Params struct {
	Client         *http.Client // nil = default client with 10s timeout
	CacheDir       string       // favicon cache directory
	ExcludeDomains []string     // hosts never fetched from
}

// NewService creates a fetch Service.
func NewService(params Params) *Service {
	client := params.Client
	if client == nil {
		client = &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}

	exclude := make(map[string]bool)
	for _, domain := range params.ExcludeDomains {
		exclude[strings.ToLower(domain)] = true
	}

	return &Service{
		client:   client,
		cacheDir: params.CacheDir,
		exclude:  exclude,
		inflight: make(map[string]bool),
	}
}

// Title fetches the page at rawURL and returns its <title> text.
func (s *Service) Title(rawURL string) (string, error) {
	if _, err := s.checkHost(rawURL); err != nil {
		return "", err
	}

	resp, err := s.get(rawURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetching title: %s", http.StatusText(resp.StatusCode))
	}

	title := extractTitle(io.LimitReader(resp.Body, maxBodyBytes))
	if title == "" {
		return "", ErrNoTitle
	}
	return title, nil
}

// Favicon fetches /favicon.ico for rawURL's host, writes it to the
// cache directory and returns the cache path.
func (s *Service) Favicon(rawURL string) (string, error) {
	host, err := s.checkHost(rawURL)
	if err != nil {
		return "", err
	}

	parsed, _ := url.Parse(rawURL)
	scheme := parsed.Scheme
	if scheme == "" {
		scheme = "https"
	}

	resp, err := s.get(scheme + "://" + host + "/favicon.ico")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", ErrNoFavicon
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrNoFavicon
	}

	if err := os.MkdirAll(s.cacheDir, 0755); err != nil {
		return "", err
	}
	path := storage.FaviconCachePath(s.cacheDir, host)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// QueueTitle fetches the title in the background and delivers it
// through the Applier. Concurrent requests for the same link are
// deduplicated. The delivery runs on the fetch goroutine; the Applier
// is responsible for funneling it into its own update discipline.
func (s *Service) QueueTitle(a Applier, linkID, rawURL string) {
	s.queue("title:"+linkID, func() {
		title, err := s.Title(rawURL)
		if err != nil {
			return
		}
		_, _ = a.UpdateLinkTitleIfDefault(linkID, title)
	})
}

// QueueFavicon fetches the favicon in the background and delivers the
// cache path through the Applier. Deduplicated per host, so many links
// on the same site cause one fetch.
func (s *Service) QueueFavicon(a Applier, linkID, rawURL string) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return
	}
	s.queue("favicon:"+strings.ToLower(parsed.Host), func() {
		path, err := s.Favicon(rawURL)
		if err != nil {
			return
		}
		_ = a.UpdateLinkFaviconPath(linkID, path)
	})
}

// Wait blocks until all queued fetches have completed.
func (s *Service) Wait() {
	s.wg.Wait()
}

// queue runs fn on its own goroutine unless a fetch with the same key
// is already in flight.
func (s *Service) queue(key string, fn func()) {
	s.mu.Lock()
	if s.inflight[key] {
		s.mu.Unlock()
		return
	}
	s.inflight[key] = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.inflight, key)
			s.mu.Unlock()
			s.wg.Done()
		}()
		fn()
	}()
}

// get performs a GET with the HTTP client's noisy protocol logging
// suppressed.
func (s *Service) get(rawURL string) (*http.Response, error) {
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	return s.client.Get(rawURL)
}

// checkHost parses rawURL and rejects excluded hosts.
func (s *Service) checkHost(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "", ErrInvalidURL
	}
	host := strings.ToLower(parsed.Host)
	hostname := host
	if h := parsed.Hostname(); h != "" {
		hostname = strings.ToLower(h)
	}
	if s.exclude[hostname] {
		return "", ErrExcluded
	}
	for domain := range s.exclude {
		if strings.HasSuffix(hostname, "."+domain) {
			return "", ErrExcluded
		}
	}
	return host, nil
}

// extractTitle parses HTML and returns the first <title> text.
func extractTitle(r io.Reader) string {
	doc, err := html.Parse(r)
	if err != nil {
		return ""
	}

	var title string
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, "title") {
			var text strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					text.WriteString(c.Data)
				}
			}
			title = strings.TrimSpace(text.String())
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(doc)
	return title
}

// CachePathFor returns the favicon cache path this service would use
// for the given URL's host.
func (s *Service) CachePathFor(rawURL string) (string, error) {
	host, err := s.checkHost(rawURL)
	if err != nil {
		return "", err
	}
	return storage.FaviconCachePath(s.cacheDir, host), nil
}
