package build

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/griddle/internal/collect"
	"git.home.luguber.info/inful/griddle/internal/console"
	"git.home.luguber.info/inful/griddle/internal/convert"
	ferrors "git.home.luguber.info/inful/griddle/internal/foundation/errors"
	"git.home.luguber.info/inful/griddle/internal/logfields"
	"git.home.luguber.info/inful/griddle/internal/metrics"
	"git.home.luguber.info/inful/griddle/internal/nav"
	"git.home.luguber.info/inful/griddle/internal/observability"
	"git.home.luguber.info/inful/griddle/internal/site"
	"git.home.luguber.info/inful/griddle/internal/sourcelink"
	"git.home.luguber.info/inful/griddle/internal/splice"
	"git.home.luguber.info/inful/griddle/internal/util/sets"
)

// Builder executes build runs. A Builder may run repeatedly; each run is a
// full regeneration.
type Builder struct {
	opts     Options
	reporter *console.Reporter
	recorder metrics.Recorder
	registry *convert.Registry
}

// New creates a Builder reporting to r. A nil r discards console output.
func New(opts Options, r *console.Reporter) *Builder {
	if r == nil {
		r = console.Discard()
	}
	return &Builder{
		opts:     opts,
		reporter: r,
		recorder: metrics.NoopRecorder{},
		registry: convert.Defaults(opts.Markdown),
	}
}

// WithRecorder sets the metrics recorder.
func (b *Builder) WithRecorder(rec metrics.Recorder) *Builder {
	if rec != nil {
		b.recorder = rec
	}
	return b
}

// task is one planned conversion.
type task struct {
	rel     string
	outRel  string
	adapter convert.Adapter
}

// Run executes the pipeline. Only setup failures (bad paths, template or
// splice I/O) are returned as errors; per-file failures are counted in the
// Report. With Strict set, any failed conversion also yields an error.
func (b *Builder) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{BuildID: uuid.NewString(), StartTime: start}
	ctx = observability.WithBuildID(ctx, report.BuildID)
	warningsBefore := b.reporter.Count(console.SeverityWarning)

	finish := func(err error) (*Report, error) {
		report.Duration = time.Since(start)
		report.Warnings = b.reporter.Count(console.SeverityWarning) - warningsBefore
		b.recorder.ObserveBuildDuration(report.Duration)
		outcome := report.Outcome()
		if err != nil {
			outcome = metrics.BuildOutcomeFailed
		}
		b.recorder.IncBuildOutcome(outcome)
		observability.InfoContext(ctx, "Build finished",
			logfields.Count(report.Converted),
			logfields.Failed(report.Failed),
			logfields.DurationMS(float64(report.Duration.Microseconds())/1000))
		return report, err
	}

	in, out, err := resolvePaths(b.opts.Input, b.opts.Output)
	if err != nil {
		return finish(err)
	}
	report.Input, report.Output = in, out

	templates := b.opts.Templates
	if templates == nil {
		templates = site.Default()
	}

	if err := prepareOutput(out, b.opts.Clean); err != nil {
		return finish(err)
	}

	tasks, err := b.plan(observability.WithStage(ctx, string(metrics.StageCollect)), in, report)
	if err != nil {
		return finish(err)
	}

	produced, err := b.convertAll(observability.WithStage(ctx, string(metrics.StageConvert)), in, out, tasks, report)
	if err != nil {
		return finish(err)
	}

	stageStart := time.Now()
	installed, err := site.Install(out, templates, produced)
	if err != nil {
		return finish(err)
	}
	b.recorder.ObserveStageDuration(metrics.StageTemplates, time.Since(stageStart))
	observability.DebugContext(ctx, "Installed site templates", logfields.Count(len(installed.Installed)))

	if err := b.navigate(observability.WithStage(ctx, string(metrics.StageNavigate)), out, report); err != nil {
		return finish(err)
	}

	if b.opts.Strict && report.Failed > 0 {
		return finish(ferrors.ConversionError(fmt.Sprintf("%d file(s) failed to convert", report.Failed)).
			WithCause(ferrors.ErrConversion).Build())
	}
	return finish(nil)
}

// plan collects the sources and assigns adapters and output paths. Sources that
// would overwrite the reserved index page or another source's page are skipped.
func (b *Builder) plan(ctx context.Context, in string, report *Report) ([]task, error) {
	start := time.Now()
	defer func() { b.recorder.ObserveStageDuration(metrics.StageCollect, time.Since(start)) }()

	files, err := collect.Files(in, collect.Options{
		Extensions:    b.registry.Extensions(),
		Excludes:      b.opts.Excludes,
		IncludeHidden: b.opts.IncludeHidden,
	})
	if err != nil {
		return nil, err
	}
	observability.InfoContext(ctx, "Collected source files", logfields.Path(in), logfields.Count(len(files)))

	claimed := map[string]string{}
	tasks := make([]task, 0, len(files))
	for _, rel := range files {
		a, ok := b.registry.For(rel)
		if !ok {
			continue
		}
		outRel := convert.OutputPath(rel)
		if outRel == site.IndexPage {
			b.reporter.Warnf("Skipping %s: %s at the output root is reserved for navigation", rel, site.IndexPage)
			b.skip(a, report)
			continue
		}
		if prev, ok := claimed[outRel]; ok {
			b.reporter.Warnf("Skipping %s: %s already produces %s", rel, prev, outRel)
			b.skip(a, report)
			continue
		}
		claimed[outRel] = rel
		tasks = append(tasks, task{rel: rel, outRel: outRel, adapter: a})
	}
	return tasks, nil
}

func (b *Builder) skip(a convert.Adapter, report *Report) {
	report.Skipped++
	b.recorder.IncConversion(a.Name(), metrics.ResultSkipped)
}

// convertAll runs every task, up to Jobs at a time. It returns the output paths
// that were written, relative to out.
func (b *Builder) convertAll(ctx context.Context, in, out string, tasks []task, report *Report) (sets.Set[string], error) {
	start := time.Now()
	defer func() { b.recorder.ObserveStageDuration(metrics.StageConvert, time.Since(start)) }()

	var links *sourcelink.Resolver
	if b.opts.SourceLinks {
		links = sourcelink.NewResolver()
	}

	ok := make([]bool, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(b.opts.Jobs, 1))

	for i, t := range tasks {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			job := convert.Job{
				Input:  filepath.Join(in, filepath.FromSlash(t.rel)),
				Output: filepath.Join(out, filepath.FromSlash(t.outRel)),
			}
			if links != nil {
				job.SourceURL, _ = links.URL(job.Input)
			}
			ok[i] = convert.Run(gctx, b.reporter, t.adapter, job)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	produced := sets.New[string]()
	for i, t := range tasks {
		if ok[i] {
			report.Converted++
			produced.Add(t.outRel)
			b.recorder.IncConversion(t.adapter.Name(), metrics.ResultSuccess)
		} else {
			report.Failed++
			b.recorder.IncConversion(t.adapter.Name(), metrics.ResultFailed)
		}
	}
	observability.InfoContext(ctx, "Converted source files",
		logfields.Count(report.Converted),
		logfields.Failed(report.Failed))
	return produced, nil
}

// navigate builds the navigation from the pages now in out and splices it
// into the index page.
func (b *Builder) navigate(ctx context.Context, out string, report *Report) error {
	start := time.Now()
	defer func() { b.recorder.ObserveStageDuration(metrics.StageNavigate, time.Since(start)) }()

	pages, err := collect.Files(out, collect.Options{Extensions: []string{".html"}})
	if err != nil {
		return err
	}
	report.Pages = make([]string, 0, len(pages))
	for _, p := range pages {
		if site.IsReserved(p) {
			continue
		}
		observability.DebugContext(ctx, "Navigation page", logfields.File(p))
		report.Pages = append(report.Pages, p)
	}

	tree := nav.Build(report.Pages)
	b.recorder.SetNavigationLeaves(len(tree.Leaves()))

	markup := nav.RenderWith(tree, nav.RenderOptions{HomeLabel: b.opts.HomeLabel, HomeTarget: site.HomePage})
	if pretty, err := nav.Pretty(markup, "  "); err == nil {
		markup = pretty
	} else {
		observability.WarnContext(ctx, "Unable to format navigation markup", logfields.Error(err))
	}

	replaced, err := splice.File(filepath.Join(out, site.IndexPage), markup)
	if err != nil {
		return err
	}
	report.NavSpliced = replaced
	if !replaced {
		observability.DebugContext(ctx, "Index page has no navigation marker", logfields.Path(filepath.Join(out, site.IndexPage)))
	}
	return nil
}
