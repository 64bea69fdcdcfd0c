package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/yungbote/studyaid-backend/internal/domain"
)

type DashboardModule struct {
	ModuleID string
	Types    []domain.ContentType
}

type DashboardCourse struct {
	CourseID string
	Modules  []DashboardModule
}

// BuildDashboard groups stored entries by course, then module. Module ids
// without a course scope land under course "".
func BuildDashboard(entries map[domain.ContentKey]string) []DashboardCourse {
	byCourse := map[string]map[string][]domain.ContentType{}
	for k := range entries {
		courseID, moduleID := domain.SplitScopedModuleID(k.ModuleID)
		mods, ok := byCourse[courseID]
		if !ok {
			mods = map[string][]domain.ContentType{}
			byCourse[courseID] = mods
		}
		mods[moduleID] = append(mods[moduleID], k.Type)
	}

	out := make([]DashboardCourse, 0, len(byCourse))
	for courseID, mods := range byCourse {
		dc := DashboardCourse{CourseID: courseID}
		for moduleID, types := range mods {
			sort.Slice(types, func(i, j int) bool { return typeRank(types[i]) < typeRank(types[j]) })
			dc.Modules = append(dc.Modules, DashboardModule{ModuleID: moduleID, Types: types})
		}
		sort.Slice(dc.Modules, func(i, j int) bool { return dc.Modules[i].ModuleID < dc.Modules[j].ModuleID })
		out = append(out, dc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseID < out[j].CourseID })
	return out
}

func typeRank(t domain.ContentType) int {
	for i, ct := range domain.ContentTypes {
		if ct == t {
			return i
		}
	}
	return len(domain.ContentTypes)
}

func PrintDashboard(w io.Writer, courses []DashboardCourse) {
	if len(courses) == 0 {
		fmt.Fprintln(w, "No generated content yet.")
		return
	}
	for _, c := range courses {
		name := c.CourseID
		if name == "" {
			name = "(unscoped)"
		}
		fmt.Fprintf(w, "Course %s\n", name)
		for _, m := range c.Modules {
			fmt.Fprintf(w, "  Module %s:", m.ModuleID)
			for _, t := range m.Types {
				fmt.Fprintf(w, " %s", t.Title())
			}
			fmt.Fprintln(w)
		}
	}
}
