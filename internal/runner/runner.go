package runner

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/projectdiscovery/gologger"
	mapsutil "github.com/projectdiscovery/utils/maps"
	syncutil "github.com/projectdiscovery/utils/sync"
	"github.com/projectdiscovery/wol/pkg/neighbor"
	"github.com/projectdiscovery/wol/pkg/types"
	"github.com/projectdiscovery/wol/pkg/wake"
)

// Runner contains the internal logic of the program
type Runner struct {
	options  *Options
	resolver neighbor.Resolver
	waker    *wake.Waker
}

// NewRunner instance
func NewRunner(options *Options) (*Runner, error) {
	resolver, err := neighbor.New(options.NeighborSource)
	if err != nil {
		return nil, err
	}
	gologger.Verbose().Msgf("using %s neighbor table", neighbor.SourceName(options.NeighborSource))

	// repeated targets of one run read the table once
	if options.CacheSize > 0 && len(options.requests()) > 1 {
		resolver = neighbor.NewCache(resolver, options.CacheSize)
	}

	return newRunner(options, resolver), nil
}

func newRunner(options *Options, resolver neighbor.Resolver, opts ...wake.Option) *Runner {
	opts = append([]wake.Option{wake.WithTimeout(options.Timeout)}, opts...)
	return &Runner{
		options:  options,
		resolver: resolver,
		waker:    wake.New(resolver, opts...),
	}
}

// Run the instance
func (r *Runner) Run(ctx context.Context) error {
	if r.options.ListNeighbors {
		return r.listNeighbors(ctx)
	}

	requests := r.options.requests()
	if len(requests) == 1 {
		return r.wake(ctx, requests[0])
	}

	awg, err := syncutil.New(syncutil.WithSize(r.options.Concurrency))
	if err != nil {
		return fmt.Errorf("failed to create adaptive waitgroup: %w", err)
	}

	failures := mapsutil.NewSyncLockMap[int, error]()
	for i, req := range requests {
		if err := ctx.Err(); err != nil {
			_ = failures.Set(i, err)
			continue
		}

		awg.Add()
		go func(i int, req wake.Request) {
			defer awg.Done()

			if err := r.wake(ctx, req); err != nil {
				gologger.Error().Msgf("Could not wake %s: %s", req.Address, err)
				_ = failures.Set(i, err)
			}
		}(i, req)
	}
	awg.Wait()

	var indexes []int
	_ = failures.Iterate(func(i int, _ error) error {
		indexes = append(indexes, i)
		return nil
	})
	if len(indexes) == 0 {
		return nil
	}
	sort.Ints(indexes)

	errs := make([]error, 0, len(indexes))
	for _, i := range indexes {
		if err, ok := failures.Get(i); ok {
			errs = append(errs, fmt.Errorf("%s: %w", requests[i].Address, err))
		}
	}
	return fmt.Errorf("%d of %d wakes failed: %w", len(errs), len(requests), errors.Join(errs...))
}

func (r *Runner) wake(ctx context.Context, req wake.Request) error {
	gologger.Verbose().Msgf("resolving hardware address of %s", req.Address)

	res, err := r.waker.Wake(ctx, req)
	if err != nil {
		return err
	}

	gologger.Info().Msgf("Sent WOL (Wake on LAN) magic packet to %s (%s)", res.Target, res.HardwareAddr)
	return nil
}

// listNeighbors prints the entries of both families, skipping families the source lacks
func (r *Runner) listNeighbors(ctx context.Context) error {
	lister, ok := r.resolver.(neighbor.Lister)
	if !ok {
		return types.NewError(types.ErrUnsupported, "list", fmt.Errorf("%T cannot enumerate its table", r.resolver))
	}

	var listed int
	for _, family := range []types.Family{types.FamilyIPv4, types.FamilyIPv6} {
		neighbors, err := lister.Neighbors(ctx, family)
		if errors.Is(err, types.ErrUnsupported) {
			gologger.Verbose().Msgf("skipping %s neighbor table: %s", family, err)
			continue
		}
		if err != nil {
			return err
		}
		for _, n := range neighbors {
			gologger.Silent().Msgf("%s\t%s", n.Addr, n.HardwareAddr)
		}
		listed++
	}
	if listed == 0 {
		return types.NewError(types.ErrUnsupported, "list", errors.New("no neighbor table available"))
	}
	return nil
}

// Close the runner instance
func (r *Runner) Close() {}
