package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/studyaid-backend/internal/contentstore"
	"github.com/yungbote/studyaid-backend/internal/domain"
	"github.com/yungbote/studyaid-backend/internal/studyaid/orchestrator"
)

func newCoursesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "courses",
		Short: "List your active courses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAPIKey(); err != nil {
				return err
			}
			courses, err := a.proxy.ListCourses(cmd.Context())
			if err != nil {
				return fmt.Errorf("list courses: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(courses) == 0 {
				fmt.Fprintln(out, "No active courses.")
				return nil
			}
			for _, c := range courses {
				fmt.Fprintf(out, "%d\t%s\t%s\n", c.ID, c.CourseCode, c.Name)
			}
			return nil
		},
	}
}

func newModulesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "modules <courseId>",
		Short: "List a course's modules and their items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAPIKey(); err != nil {
				return err
			}
			ctx := cmd.Context()
			courseID := args[0]
			modules, err := a.proxy.ListModules(ctx, courseID)
			if err != nil {
				return fmt.Errorf("list modules: %w", err)
			}

			items := make([][]domain.ModuleItem, len(modules))
			g, gctx := errgroup.WithContext(ctx)
			for i, m := range modules {
				g.Go(func() error {
					its, err := a.proxy.ListModuleItems(gctx, courseID, fmt.Sprint(m.ID))
					if err != nil {
						return fmt.Errorf("list items for module %d: %w", m.ID, err)
					}
					items[i] = its
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, m := range modules {
				fmt.Fprintf(out, "%d\t%s\n", m.ID, m.Name)
				for _, it := range items[i] {
					fmt.Fprintf(out, "    %s (%s)\n", it.Title, it.Type)
				}
			}
			return nil
		},
	}
}

func newGenerateCommand(a *app) *cobra.Command {
	var force, watch bool
	var render RenderOptions
	cmd := &cobra.Command{
		Use:   "generate <courseId> <moduleId> <summary|flashcards|quiz>",
		Short: "Generate a study aid for a module",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := domain.ParseContentType(args[2])
			if err != nil {
				return err
			}
			if err := a.requireAPIKey(); err != nil {
				return err
			}
			ctx := cmd.Context()
			courseID, moduleID := args[0], args[1]
			scoped := domain.ScopedModuleID(courseID, moduleID)
			out := cmd.OutOrStdout()
			errOut := &syncWriter{w: cmd.ErrOrStderr()}

			if cached, ok := a.store.Get(scoped, t); ok && !force {
				fmt.Fprintf(errOut, "Using cached %s (use --force to regenerate).\n", t)
				return Render(out, t, cached, render)
			}

			// The watcher is drained before the outcome is reported.
			stop := func() {}
			if watch {
				stop = watchEvents(errOut, a.store)
			}
			defer stop()

			items, err := a.proxy.ListModuleItems(ctx, courseID, moduleID)
			if err != nil {
				return fmt.Errorf("list module items: %w", err)
			}
			mod := orchestrator.New(scoped, items, a.proxy, a.log,
				orchestrator.WithOnItemError(func(f orchestrator.ItemFailure) {
					fmt.Fprintf(errOut, "warning: %v\n", f)
				}),
			)
			defer mod.Close()
			mod.FetchPages(ctx)

			err = generate(ctx, mod, a.store, t)
			stop()
			if err != nil {
				return err
			}
			fmt.Fprintf(errOut, "%s generated successfully!\n", t.Title())
			content, _ := a.store.Get(scoped, t)
			return Render(out, t, content, render)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "regenerate even when content is cached")
	cmd.Flags().BoolVar(&watch, "watch", false, "print store events while generating")
	cmd.Flags().BoolVar(&render.HTML, "html", false, "render summaries as HTML")
	cmd.Flags().BoolVar(&render.ShowAnswers, "answers", false, "mark correct quiz answers")
	return cmd
}

func generate(ctx context.Context, mod *orchestrator.Module, store *contentstore.Store, t domain.ContentType) error {
	if err := mod.Generate(ctx, store, t); err != nil {
		return fmt.Errorf("failed to generate %s: %w", t, err)
	}
	return nil
}

// watchEvents prints store events until the returned stop func is called.
// stop is idempotent.
func watchEvents(w io.Writer, store *contentstore.Store) func() {
	sub := store.Subscribe(16)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ev := range sub.C {
			if ev.Err != nil {
				fmt.Fprintf(w, "[%s] %s: %v\n", ev.Kind, ev.Key, ev.Err)
				continue
			}
			fmt.Fprintf(w, "[%s] %s\n", ev.Kind, ev.Key)
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			sub.Close()
			wg.Wait()
		})
	}
}

// syncWriter serializes writes from the command and the event watcher.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func newShowCommand(a *app) *cobra.Command {
	var render RenderOptions
	cmd := &cobra.Command{
		Use:   "show <courseId> <moduleId> <summary|flashcards|quiz>",
		Short: "Show a cached study aid",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := domain.ParseContentType(args[2])
			if err != nil {
				return err
			}
			content, ok := a.store.Get(domain.ScopedModuleID(args[0], args[1]), t)
			if !ok {
				return fmt.Errorf("no %s available for this module; run generate first", t)
			}
			return Render(cmd.OutOrStdout(), t, content, render)
		},
	}
	cmd.Flags().BoolVar(&render.HTML, "html", false, "render summaries as HTML")
	cmd.Flags().BoolVar(&render.ShowAnswers, "answers", false, "mark correct quiz answers")
	return cmd
}

func newDashboardCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "List every generated study aid by course and module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			PrintDashboard(cmd.OutOrStdout(), BuildDashboard(a.store.Entries()))
			return nil
		},
	}
}
