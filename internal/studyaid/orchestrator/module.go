// Package orchestrator gathers the page text of one course module and feeds
// it to study-aid generation.
package orchestrator

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/studyaid-backend/internal/domain"
	"github.com/yungbote/studyaid-backend/internal/platform/logger"
	"github.com/yungbote/studyaid-backend/internal/platform/textextract"
)

// PageFetcher returns one Canvas page by its API URL.
type PageFetcher interface {
	FetchPage(ctx context.Context, pageURL string) (domain.Page, error)
}

// Generator is the store-side generation call; *contentstore.Store satisfies it.
type Generator interface {
	Generate(ctx context.Context, moduleID string, t domain.ContentType, source string) error
}

type ItemFailure struct {
	ItemID int64
	Title  string
	Err    error
}

func (f ItemFailure) Error() string {
	return fmt.Sprintf("failed to fetch content for %s: %v", f.Title, f.Err)
}

func (f ItemFailure) Unwrap() error { return f.Err }

type Option func(*Module)

// WithOnItemError registers a hook called once per failed page fetch.
func WithOnItemError(fn func(ItemFailure)) Option {
	return func(m *Module) { m.onItemError = fn }
}

// WithOnItemLoaded registers a hook called after a page's text is stored.
func WithOnItemLoaded(fn func(item domain.ModuleItem)) Option {
	return func(m *Module) { m.onItemLoaded = fn }
}

type Module struct {
	id      string
	items   []domain.ModuleItem
	fetcher PageFetcher
	log     *logger.Logger

	onItemError  func(ItemFailure)
	onItemLoaded func(domain.ModuleItem)

	inflight singleflight.Group

	mu       sync.Mutex
	contents map[int64]string
	closed   bool
}

func New(moduleID string, items []domain.ModuleItem, fetcher PageFetcher, log *logger.Logger, opts ...Option) *Module {
	if log == nil {
		log = logger.Nop()
	}
	m := &Module{
		id:       moduleID,
		items:    append([]domain.ModuleItem(nil), items...),
		fetcher:  fetcher,
		log:      log.With("component", "ModuleOrchestrator", "module_id", moduleID),
		contents: map[int64]string{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Module) ID() string { return m.id }

// PageItems returns the items whose type is Page, in module order.
func (m *Module) PageItems() []domain.ModuleItem {
	var out []domain.ModuleItem
	for _, it := range m.items {
		if it.IsPage() {
			out = append(out, it)
		}
	}
	return out
}

// FetchPages fetches every page item not yet fetched, all in parallel. A
// failed item is reported and left out of the corpus; the others continue.
// Failures come back in module order.
func (m *Module) FetchPages(ctx context.Context) []ItemFailure {
	pages := m.PageItems()
	errs := make([]error, len(pages))

	var g errgroup.Group
	for i, item := range pages {
		if m.Fetched(item.ID) {
			continue
		}
		g.Go(func() error {
			errs[i] = m.fetchItem(ctx, item)
			return nil
		})
	}
	_ = g.Wait()

	var failures []ItemFailure
	for i, err := range errs {
		if err == nil {
			continue
		}
		f := ItemFailure{ItemID: pages[i].ID, Title: pages[i].Title, Err: err}
		failures = append(failures, f)
		if m.isClosed() {
			continue
		}
		m.log.Warn("Page fetch failed", "item_id", f.ItemID, "title", f.Title, "error", err)
		if m.onItemError != nil {
			m.onItemError(f)
		}
	}
	return failures
}

// fetchItem shares one upstream call between concurrent requests for the same item.
func (m *Module) fetchItem(ctx context.Context, item domain.ModuleItem) error {
	_, err, _ := m.inflight.Do(strconv.FormatInt(item.ID, 10), func() (any, error) {
		if m.Fetched(item.ID) {
			return nil, nil
		}
		if strings.TrimSpace(item.URL) == "" {
			return nil, fmt.Errorf("no URL available for %s", item.Title)
		}
		page, err := m.fetcher.FetchPage(ctx, item.URL)
		if err != nil {
			return nil, err
		}
		text := textextract.FromHTML(page.Body)

		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			return nil, nil
		}
		m.contents[item.ID] = text
		m.mu.Unlock()

		if m.onItemLoaded != nil {
			m.onItemLoaded(item)
		}
		return nil, nil
	})
	return err
}

func (m *Module) Fetched(itemID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.contents[itemID]
	return ok
}

// Corpus is the item listing, a blank line, then the fetched page texts in
// module order.
func (m *Module) Corpus() string {
	lines := make([]string, 0, len(m.items))
	for _, it := range m.items {
		lines = append(lines, fmt.Sprintf("%s (%s)", it.Title, it.Type))
	}

	m.mu.Lock()
	bodies := make([]string, 0, len(m.contents))
	for _, it := range m.items {
		if text, ok := m.contents[it.ID]; ok {
			bodies = append(bodies, text)
		}
	}
	m.mu.Unlock()

	return strings.Join(lines, "\n") + "\n\n" + strings.Join(bodies, "\n\n")
}

// Generate builds the corpus and hands it to gen. Errors from gen are returned
// unchanged.
func (m *Module) Generate(ctx context.Context, gen Generator, t domain.ContentType) error {
	return gen.Generate(ctx, m.id, t, m.Corpus())
}

// Close stops in-flight fetches from recording results.
func (m *Module) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}

func (m *Module) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
