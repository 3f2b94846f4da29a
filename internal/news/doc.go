// Package news implements the portal's local-news reader.
//
// The reader crawls configured news listing pages, discovers article links,
// extracts readable article text, and serves the result from a TTL cache.
//
// # Architecture
//
//	config.NewsConfig (sources, cache TTL, article cap)
//	     |
//	     v
//	Reader
//	     +-- colly collector   (listing crawl, same-host only)
//	     +-- goquery selector  (article link discovery)
//	     +-- go-readability    (title/byline/text extraction)
//	     |
//	     v
//	[]Article (cached per source until TTL expiry)
//
// # Thread Safety
//
// Reader is safe for concurrent use. The cache is guarded by a mutex and
// each call returns its own slice.
package news
