package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/studyaid-backend/internal/domain"
	"github.com/yungbote/studyaid-backend/internal/platform/logger"
)

type fetcherFunc func(ctx context.Context, pageURL string) (domain.Page, error)

func (f fetcherFunc) FetchPage(ctx context.Context, pageURL string) (domain.Page, error) {
	return f(ctx, pageURL)
}

type genFunc func(ctx context.Context, moduleID string, t domain.ContentType, source string) error

func (f genFunc) Generate(ctx context.Context, moduleID string, t domain.ContentType, source string) error {
	return f(ctx, moduleID, t, source)
}

var sampleItems = []domain.ModuleItem{
	{ID: 1, Title: "Welcome", Type: "SubHeader"},
	{ID: 2, Title: "Cells", Type: "Page", URL: "https://c/pages/cells"},
	{ID: 3, Title: "Quiz 1", Type: "Quiz", URL: "https://c/quizzes/1"},
	{ID: 4, Title: "Mitosis", Type: "Page", URL: "https://c/pages/mitosis"},
}

func pagesByURL(m map[string]string) fetcherFunc {
	return func(ctx context.Context, pageURL string) (domain.Page, error) {
		body, ok := m[pageURL]
		if !ok {
			return domain.Page{}, errors.New("not found")
		}
		return domain.Page{Body: body}, nil
	}
}

func TestCorpusFormat(t *testing.T) {
	m := New("12-101", sampleItems, pagesByURL(map[string]string{
		"https://c/pages/cells":   "<h1>Cells</h1><p>are small</p>",
		"https://c/pages/mitosis": "<p>splits</p><script>x()</script>",
	}), logger.Nop())

	if failures := m.FetchPages(context.Background()); len(failures) != 0 {
		t.Fatalf("failures: %v", failures)
	}
	want := "Welcome (SubHeader)\nCells (Page)\nQuiz 1 (Quiz)\nMitosis (Page)\n\nCells are small\n\nsplits"
	if got := m.Corpus(); got != want {
		t.Fatalf("corpus:\nwant=%q\ngot =%q", want, got)
	}
}

func TestOnlyPagesAreFetched(t *testing.T) {
	var urls []string
	var mu sync.Mutex
	m := New("1", sampleItems, fetcherFunc(func(ctx context.Context, pageURL string) (domain.Page, error) {
		mu.Lock()
		urls = append(urls, pageURL)
		mu.Unlock()
		return domain.Page{Body: "x"}, nil
	}), logger.Nop())
	m.FetchPages(context.Background())
	if len(urls) != 2 {
		t.Fatalf("fetched: want 2 pages got=%v", urls)
	}
	for _, u := range urls {
		if strings.Contains(u, "quizzes") {
			t.Fatalf("non-page item fetched: %s", u)
		}
	}
}

func TestPartialFailureContinues(t *testing.T) {
	var reported []ItemFailure
	m := New("1", sampleItems, pagesByURL(map[string]string{
		"https://c/pages/mitosis": "<p>splits</p>",
	}), logger.Nop(), WithOnItemError(func(f ItemFailure) { reported = append(reported, f) }))

	failures := m.FetchPages(context.Background())
	if len(failures) != 1 || failures[0].ItemID != 2 || failures[0].Title != "Cells" {
		t.Fatalf("failures: %+v", failures)
	}
	if len(reported) != 1 {
		t.Fatalf("hook: want 1 got=%d", len(reported))
	}
	if !strings.HasSuffix(m.Corpus(), "\n\nsplits") {
		t.Fatalf("corpus: got=%q", m.Corpus())
	}
	if m.Fetched(2) || !m.Fetched(4) {
		t.Fatalf("fetched flags wrong")
	}
}

func TestItemWithoutURLIsReported(t *testing.T) {
	items := []domain.ModuleItem{{ID: 9, Title: "Orphan", Type: "Page"}}
	var calls int32
	m := New("1", items, fetcherFunc(func(ctx context.Context, pageURL string) (domain.Page, error) {
		atomic.AddInt32(&calls, 1)
		return domain.Page{}, nil
	}), logger.Nop())
	failures := m.FetchPages(context.Background())
	if len(failures) != 1 || !strings.Contains(failures[0].Err.Error(), "no URL available for Orphan") {
		t.Fatalf("failures: %+v", failures)
	}
	if calls != 0 {
		t.Fatalf("upstream calls: want=0 got=%d", calls)
	}
}

func TestConcurrentFetchesShareOneUpstreamCall(t *testing.T) {
	items := []domain.ModuleItem{{ID: 2, Title: "Cells", Type: "Page", URL: "https://c/pages/cells"}}
	var calls int32
	release := make(chan struct{})
	m := New("1", items, fetcherFunc(func(ctx context.Context, pageURL string) (domain.Page, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return domain.Page{Body: "<p>cells</p>"}, nil
	}), logger.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f := m.FetchPages(context.Background()); len(f) != 0 {
				t.Errorf("failures: %v", f)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("upstream calls: want=1 got=%d", n)
	}
	m.FetchPages(context.Background())
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("refetch after success: want=1 got=%d", n)
	}
}

func TestCloseDropsInFlightResults(t *testing.T) {
	items := []domain.ModuleItem{{ID: 2, Title: "Cells", Type: "Page", URL: "https://c/pages/cells"}}
	started := make(chan struct{})
	release := make(chan struct{})
	var loaded int32
	m := New("1", items, fetcherFunc(func(ctx context.Context, pageURL string) (domain.Page, error) {
		close(started)
		<-release
		return domain.Page{Body: "late"}, nil
	}), logger.Nop(), WithOnItemLoaded(func(domain.ModuleItem) { atomic.AddInt32(&loaded, 1) }))

	done := make(chan struct{})
	go func() {
		m.FetchPages(context.Background())
		close(done)
	}()
	<-started
	m.Close()
	close(release)
	<-done

	if m.Fetched(2) || loaded != 0 {
		t.Fatalf("closed module recorded a result")
	}
	if strings.Contains(m.Corpus(), "late") {
		t.Fatalf("corpus: got=%q", m.Corpus())
	}
}

func TestGeneratePassesCorpusAndPropagatesErrors(t *testing.T) {
	m := New("12-101", sampleItems[:1], pagesByURL(nil), logger.Nop())
	var gotID, gotSource string
	var gotType domain.ContentType
	err := m.Generate(context.Background(), genFunc(func(ctx context.Context, moduleID string, t domain.ContentType, source string) error {
		gotID, gotType, gotSource = moduleID, t, source
		return nil
	}), domain.ContentQuiz)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if gotID != "12-101" || gotType != domain.ContentQuiz || gotSource != "Welcome (SubHeader)\n\n" {
		t.Fatalf("generate args: id=%q type=%q source=%q", gotID, gotType, gotSource)
	}

	boom := errors.New("boom")
	err = m.Generate(context.Background(), genFunc(func(context.Context, string, domain.ContentType, string) error { return boom }), domain.ContentSummary)
	if !errors.Is(err, boom) {
		t.Fatalf("want propagated error got=%v", err)
	}
}
