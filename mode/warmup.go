package mode

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/lgr"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/resource"
)

type warmupEntry struct {
	key    resource.CacheKey
	names  []string
	typ    model.ResourceType
	models int
	err    error
}

// Warmup resolves every model set the engine lists so later runs are served
// from the cache, and reports which sets are incomplete.
func Warmup(canxCtx context.Context, svcs Services, opts Options) error {
	engine := svcs.InferenceSvc
	cache := svcs.ModelCache
	if cache == nil {
		cache = resource.NewCache(svcs.ResourceSvc)
	}

	entries := []*warmupEntry{
		{key: resource.CacheKey{Name: resource.BatchML}, names: engine.ListMLModelNames(), typ: model.ResourceML},
	}
	for _, sex := range []model.Sex{model.SexMale, model.SexFemale} {
		entries = append(entries,
			&warmupEntry{key: resource.CacheKey{Name: resource.BatchSVR, Sex: sex}, names: engine.ListSVRModelNames(), typ: model.ResourceSVR},
			&warmupEntry{key: resource.CacheKey{Name: resource.BatchCV, Sex: sex}, names: engine.ListCVModelNames(), typ: model.ResourceVectorFloat},
		)
	}

	started := time.Now()
	var g errgroup.Group
	for _, e := range entries {
		e := e // per-iteration copy; go directive is below 1.22
		g.Go(func() error {
			batch, err := cache.Batch(canxCtx, e.key, e.names, e.typ)
			e.models, e.err = len(batch), err
			return nil
		})
	}
	_ = g.Wait()

	var segErr error
	if name := engine.SegmentationModelName(); name != "" {
		_, segErr = cache.Resource(canxCtx, model.NewResource(name, model.ResourceML))
	}

	w := tabwriter.NewWriter(opts.out(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "SET\tMODELS\tSTATUS")
	fmt.Fprintln(w, "---\t------\t------")

	var firstErr error
	for _, e := range entries {
		status := "ok"
		if e.err != nil {
			status = string(model.CodeOf(e.err))
			if firstErr == nil {
				firstErr = e.err
			}
			procError(svcs.DataSvc, e.err)
		}
		fmt.Fprintf(w, "%s\t%d/%d\t%s\n", e.key, e.models, len(e.names), status)
	}

	segStatus := "ok"
	if segErr != nil {
		segStatus = string(model.CodeOf(segErr))
		if firstErr == nil {
			firstErr = segErr
		}
		procError(svcs.DataSvc, segErr)
	}
	fmt.Fprintf(w, "%s\t-\t%s\n", engine.SegmentationModelName(), segStatus)
	if err := w.Flush(); err != nil {
		return err
	}

	lgr.Logger.Info("warmup done",
		slog.Int("sets", len(entries)),
		slog.Duration("took", time.Since(started)),
		slog.Bool("complete", firstErr == nil),
	)
	return firstErr
}
