package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yungbote/studyaid-backend/internal/domain"
)

func TestBuildDashboardGroupsByCourseAndModule(t *testing.T) {
	entries := map[domain.ContentKey]string{
		domain.NewContentKey("12-101", domain.ContentQuiz):      "q",
		domain.NewContentKey("12-101", domain.ContentSummary):   "s",
		domain.NewContentKey("12-99", domain.ContentFlashcards): "f",
		domain.NewContentKey("7-1", domain.ContentSummary):      "s",
		domain.NewContentKey("legacy", domain.ContentSummary):   "s",
	}
	got := BuildDashboard(entries)
	if len(got) != 3 {
		t.Fatalf("courses: want=3 got=%d (%+v)", len(got), got)
	}
	if got[0].CourseID != "" || got[1].CourseID != "12" || got[2].CourseID != "7" {
		t.Fatalf("course order: %+v", got)
	}
	c12 := got[1]
	if len(c12.Modules) != 2 || c12.Modules[0].ModuleID != "101" || c12.Modules[1].ModuleID != "99" {
		t.Fatalf("modules: %+v", c12.Modules)
	}
	if ts := c12.Modules[0].Types; len(ts) != 2 || ts[0] != domain.ContentSummary || ts[1] != domain.ContentQuiz {
		t.Fatalf("types: %+v", ts)
	}

	var buf bytes.Buffer
	PrintDashboard(&buf, got)
	if !strings.Contains(buf.String(), "Module 101: Summary Quiz") {
		t.Fatalf("print: %q", buf.String())
	}
}

func TestPrintDashboardEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintDashboard(&buf, nil)
	if !strings.Contains(buf.String(), "No generated content yet.") {
		t.Fatalf("print: %q", buf.String())
	}
}
