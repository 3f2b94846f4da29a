package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/gocolly/colly/v2"

	"github.com/ilovegorakhpur/portal/internal/config"
	"github.com/ilovegorakhpur/portal/internal/log"
	"github.com/ilovegorakhpur/portal/internal/security"
)

// ErrNoSources indicates the reader was asked to fetch with no configured
// sources.
var ErrNoSources = errors.New("no news sources configured")

// defaultLinkSelector matches any anchor when a source does not configure
// its own selector.
const defaultLinkSelector = "a[href]"

// fetchTimeout bounds a single article fetch.
const fetchTimeout = 15 * time.Second

// Article is one extracted news article.
type Article struct {
	Source    string    `json:"source"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Byline    string    `json:"byline,omitempty"`
	Excerpt   string    `json:"excerpt,omitempty"`
	Text      string    `json:"text"`
	FetchedAt time.Time `json:"fetched_at"`
}

// cacheEntry holds one source's articles and when they were fetched.
type cacheEntry struct {
	articles  []Article
	fetchedAt time.Time
}

// Reader fetches and caches articles from the configured sources.
type Reader struct {
	cfg    config.NewsConfig
	logger log.Logger
	client *http.Client
	guard  *security.URLGuard
	now    func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry // keyed by source URL
}

// NewReader creates a Reader for the given sources. Fetch targets pass
// through an SSRF guard; cfg.AllowLocalSources relaxes it for development
// setups with sources on the local network.
func NewReader(cfg config.NewsConfig, logger log.Logger) *Reader {
	if logger == nil {
		logger = log.NewNop()
	}
	guard := security.NewURLGuard()
	if cfg.AllowLocalSources {
		guard = security.NewPermissiveURLGuard()
	}
	return &Reader{
		cfg:    cfg,
		logger: logger,
		client: &http.Client{Timeout: fetchTimeout},
		guard:  guard,
		now:    time.Now,
		cache:  make(map[string]cacheEntry),
	}
}

// Articles returns articles from every configured source, freshest first
// per source order. Sources served from cache within the TTL are not
// refetched. A source that fails to crawl is logged and skipped; the
// remaining sources still contribute.
func (r *Reader) Articles(ctx context.Context) ([]Article, error) {
	if len(r.cfg.Sources) == 0 {
		return nil, ErrNoSources
	}

	var all []Article
	for _, src := range r.cfg.Sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		articles, err := r.sourceArticles(ctx, src)
		if err != nil {
			r.logger.Warn("news source crawl failed",
				"source", src.Name, "url", src.URL, "error", err)
			continue
		}
		all = append(all, articles...)
	}
	return all, nil
}

// Refresh drops the cache so the next Articles call refetches everything.
func (r *Reader) Refresh() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]cacheEntry)
}

func (r *Reader) sourceArticles(ctx context.Context, src config.NewsSource) ([]Article, error) {
	r.mu.Lock()
	entry, ok := r.cache[src.URL]
	r.mu.Unlock()
	if ok && r.now().Sub(entry.fetchedAt) < r.cfg.CacheTTL {
		return entry.articles, nil
	}

	links, err := r.discoverLinks(src)
	if err != nil {
		return nil, err
	}

	fetchedAt := r.now()
	articles := make([]Article, 0, len(links))
	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		article, err := r.extract(ctx, src, link, fetchedAt)
		if err != nil {
			r.logger.Debug("skipping unreadable article",
				"source", src.Name, "url", link, "error", err)
			continue
		}
		articles = append(articles, article)
	}

	r.mu.Lock()
	r.cache[src.URL] = cacheEntry{articles: articles, fetchedAt: fetchedAt}
	r.mu.Unlock()

	r.logger.Info("news source crawled",
		"source", src.Name, "links", len(links), "articles", len(articles))
	return articles, nil
}

// discoverLinks crawls the source's listing page and returns absolute
// article URLs on the same host, deduplicated, capped at MaxArticles.
func (r *Reader) discoverLinks(src config.NewsSource) ([]string, error) {
	if err := r.guard.Validate(src.URL); err != nil {
		return nil, fmt.Errorf("unsafe source URL: %w", err)
	}
	base, err := url.Parse(src.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing source URL: %w", err)
	}

	selector := src.LinkSelector
	if selector == "" {
		selector = defaultLinkSelector
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(base.Hostname()),
		colly.MaxDepth(1),
	)
	collector.SetRequestTimeout(fetchTimeout)

	var links []string
	seen := make(map[string]bool)
	collector.OnHTML("html", func(e *colly.HTMLElement) {
		e.DOM.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			href, ok := sel.Attr("href")
			if !ok {
				return
			}
			abs := e.Request.AbsoluteURL(strings.TrimSpace(href))
			if abs == "" || abs == src.URL || seen[abs] {
				return
			}
			target, err := url.Parse(abs)
			if err != nil || target.Hostname() != base.Hostname() {
				return
			}
			if r.cfg.MaxArticles > 0 && len(links) >= r.cfg.MaxArticles {
				return
			}
			seen[abs] = true
			links = append(links, abs)
		})
	})

	if err := collector.Visit(src.URL); err != nil {
		return nil, fmt.Errorf("visiting listing page: %w", err)
	}
	collector.Wait()
	return links, nil
}

// extract fetches one article page and reduces it to readable text.
func (r *Reader) extract(ctx context.Context, src config.NewsSource, link string, fetchedAt time.Time) (Article, error) {
	if err := r.guard.Validate(link); err != nil {
		return Article{}, fmt.Errorf("unsafe article URL: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return Article{}, fmt.Errorf("building request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return Article{}, fmt.Errorf("fetching article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Article{}, fmt.Errorf("fetching article: status %d", resp.StatusCode)
	}

	pageURL, err := url.Parse(link)
	if err != nil {
		return Article{}, fmt.Errorf("parsing article URL: %w", err)
	}

	parsed, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		return Article{}, fmt.Errorf("extracting article: %w", err)
	}
	if strings.TrimSpace(parsed.TextContent) == "" {
		return Article{}, errors.New("article has no readable text")
	}

	return Article{
		Source:    src.Name,
		URL:       link,
		Title:     parsed.Title,
		Byline:    parsed.Byline,
		Excerpt:   parsed.Excerpt,
		Text:      strings.TrimSpace(parsed.TextContent),
		FetchedAt: fetchedAt,
	}, nil
}
