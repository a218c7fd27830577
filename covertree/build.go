package covertree

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/elastic/goko/arena"
	"github.com/elastic/goko/pointstore"
)

// Build constructs a Tree over store using cfg, following the top-level
// algorithm of §4.C: pick a deterministic root, elect child centers by
// farthest-first traversal at each scale, assign points to the nearest
// elected center, and recurse until the leaf-cutoff or min-res-index
// termination condition is hit.
//
// ctx is the cooperative cancellation token of §5: it is checked at the
// head of every subtree task. On cancellation, Build discards whatever
// partial work was in flight and returns ErrCancelled; no node becomes
// reachable via Tree.Node in that case, since the arena is only populated
// by a single batch commit after the whole tree finishes successfully.
//
// logger may be nil, defaulting to a no-op logger (§6 verbosity key: 0 is
// silent; 1 logs one summary line when the build completes; 2 adds
// per-split detail at Debug level).
func Build(ctx context.Context, store *pointstore.Store, cfg BuildConfig, logger *zap.Logger) (*Tree, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := validateConfig(cfg, store); err != nil {
		return nil, err
	}
	if store.Len() == 0 {
		return nil, ErrEmptyTree
	}

	parallelism := cfg.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	b := &builder{store: store, cfg: cfg, logger: logger, sem: make(chan struct{}, parallelism)}

	all := make([]int32, store.Len())
	for i := range all {
		all[i] = int32(i)
	}

	root := cfg.RootPoint
	rMax, err := b.maxDistanceFrom(root, all)
	if err != nil {
		return nil, err
	}

	ar := arena.New()

	// Degenerate case (§4.C "Failure modes"): all points coincide with the
	// root, so no split could ever separate them. Emit a single leaf
	// directly rather than recursing to MinResIndex through a chain of
	// no-op self-children.
	if rMax == 0 {
		singles := make([]int32, 0, len(all)-1)
		for _, p := range all {
			if p != root {
				singles = append(singles, p)
			}
		}
		addr := arena.Address{Scale: cfg.MinResIndex, Point: root}
		node := arena.Node{Addr: addr, Singletons: singles, CoverageCount: uint64(len(all))}
		if _, err := ar.Append([]arena.Node{node}); err != nil {
			return nil, err
		}
		if err := ar.Finalize(addr); err != nil {
			return nil, err
		}

		return &Tree{store: store, arena: ar, cfg: cfg}, nil
	}

	topSi := topScaleFor(cfg.ScaleBase, rMax)
	addr := arena.Address{Scale: topSi, Point: root}

	nodes, _, buildErr := b.buildSubtree(ctx, addr, all)
	if buildErr != nil {
		if errors.Is(buildErr, context.Canceled) || errors.Is(buildErr, context.DeadlineExceeded) {
			return nil, wrapCancelled(buildErr)
		}
		return nil, buildErr
	}

	if _, err := ar.Append(nodes); err != nil {
		return nil, err
	}
	if err := ar.Finalize(addr); err != nil {
		return nil, err
	}

	if cfg.Verbosity >= 1 {
		logger.Info("cover tree built",
			zap.Int("points", store.Len()),
			zap.Int32("top_scale", topSi),
			zap.Int("nodes", len(nodes)),
		)
	}

	return &Tree{store: store, arena: ar, cfg: cfg}, nil
}

func validateConfig(cfg BuildConfig, store *pointstore.Store) error {
	if cfg.ScaleBase <= 1 {
		return fmt.Errorf("%w: scale_base must be > 1, got %v", ErrInvalidConfig, cfg.ScaleBase)
	}
	if cfg.RootPoint < 0 || int(cfg.RootPoint) >= store.Len() {
		return fmt.Errorf("%w: root point %d out of range [0,%d)", ErrInvalidConfig, cfg.RootPoint, store.Len())
	}

	return nil
}

// builder holds the shared, read-only state of one Build call: the store,
// the configuration, a logger, and a bounded semaphore approximating the
// work-stealing task pool of §5 by capping total concurrent split tasks
// across the whole recursion, regardless of tree depth.
type builder struct {
	store  *pointstore.Store
	cfg    BuildConfig
	logger *zap.Logger
	sem    chan struct{}
}

func (b *builder) maxDistanceFrom(pi0 int32, points []int32) (float32, error) {
	var maxD float32
	for _, p := range points {
		d, err := b.store.Distance(int(pi0), int(p))
		if err != nil {
			return 0, err
		}
		if d > maxD {
			maxD = d
		}
	}

	return maxD, nil
}

// childSpec is one not-yet-built child of a split: its address and the
// covered point set it must recurse over.
type childSpec struct {
	addr    arena.Address
	covered []int32
}

// buildSubtree builds the node at addr over covered, recursing into its
// children (if any) as independent, bounded-concurrency tasks, and returns
// every node beneath and including addr (for Build to commit), plus addr's coverage
// count. It is the unit of work §5 calls "splitting a node schedules
// independent tasks per child subtree".
func (b *builder) buildSubtree(ctx context.Context, addr arena.Address, covered []int32) ([]arena.Node, uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	if len(covered) <= b.cfg.LeafCutoff || addr.Scale <= b.cfg.MinResIndex {
		return b.buildLeaf(addr, covered), uint64(len(covered)), nil
	}

	remaining := make([]int32, 0, len(covered))
	for _, p := range covered {
		if p != addr.Point {
			remaining = append(remaining, p)
		}
	}

	radius := coveringRadius(b.cfg.ScaleBase, addr.Scale-1)
	centers, err := electCenters(b.store, addr.Point, remaining, radius)
	if err != nil {
		return nil, 0, err
	}

	isCenter := make(map[int32]bool, len(centers))
	for _, c := range centers {
		isCenter[c] = true
	}
	candidates := make([]int32, 0, len(remaining))
	for _, p := range remaining {
		if !isCenter[p] {
			candidates = append(candidates, p)
		}
	}

	buckets, err := partitionPoints(b.store, centers, candidates, radius, b.cfg.Partition)
	if err != nil {
		return nil, 0, err
	}

	specs := b.childSpecs(addr, centers, buckets)

	results := make([][]arena.Node, len(specs))
	coverages := make([]uint64, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		i, spec := i, spec
		task := func() error {
			nodes, cov, err := b.buildSubtree(gctx, spec.addr, spec.covered)
			if err != nil {
				return err
			}
			results[i] = nodes
			coverages[i] = cov

			return nil
		}

		// Take a free slot if there is one; otherwise run the child in this
		// goroutine, so no task ever waits for a slot held by its ancestors.
		select {
		case b.sem <- struct{}{}:
			g.Go(func() error {
				defer func() { <-b.sem }()
				return task()
			})
		default:
			if err := task(); err != nil {
				g.Go(func() error { return err })
			}
		}
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var totalCoverage uint64
	childAddrs := make([]arena.Address, len(specs))
	var allNodes []arena.Node
	for i, spec := range specs {
		childAddrs[i] = spec.addr
		totalCoverage += coverages[i]
		allNodes = append(allNodes, results[i]...)
	}

	selfNode := arena.Node{
		Addr:          addr,
		HasSelfChild:  true,
		SelfChild:     childAddrs[0],
		Children:      childAddrs,
		CoverageCount: totalCoverage,
	}
	allNodes = append(allNodes, selfNode)

	if b.cfg.Verbosity >= 2 {
		b.logger.Debug("split",
			zap.Int32("scale", addr.Scale),
			zap.Int32("center", addr.Point),
			zap.Int("children", len(childAddrs)),
			zap.Uint64("coverage", totalCoverage),
		)
	}

	return allNodes, totalCoverage, nil
}

// buildLeaf emits addr as a leaf: every covered point other than the
// center becomes a singleton (§4.C.5).
func (b *builder) buildLeaf(addr arena.Address, covered []int32) []arena.Node {
	singles := make([]int32, 0, len(covered))
	for _, p := range covered {
		if p != addr.Point {
			singles = append(singles, p)
		}
	}

	return []arena.Node{{Addr: addr, Singletons: singles, CoverageCount: uint64(len(covered))}}
}

// childSpecs computes the deterministic child list for a split: the
// self-child first, then every other elected center in ascending point-index
// order (§4.C "Determinism").
func (b *builder) childSpecs(addr arena.Address, centers []int32, buckets map[int32][]int32) []childSpec {
	others := make([]int32, 0, len(centers)-1)
	for _, c := range centers {
		if c != addr.Point {
			others = append(others, c)
		}
	}
	sort.Slice(others, func(i, j int) bool { return others[i] < others[j] })

	specs := make([]childSpec, 0, len(others)+1)
	selfCovered := append([]int32{addr.Point}, buckets[addr.Point]...)
	specs = append(specs, childSpec{
		addr:    arena.Address{Scale: addr.Scale - 1, Point: addr.Point},
		covered: selfCovered,
	})
	for _, c := range others {
		childCovered := append([]int32{c}, buckets[c]...)
		specs = append(specs, childSpec{
			addr:    arena.Address{Scale: addr.Scale - 1, Point: c},
			covered: childCovered,
		})
	}

	return specs
}
