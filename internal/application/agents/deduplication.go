package agents

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/nexuscrm/hygiene/internal/domain/models"
	"github.com/nexuscrm/hygiene/pkg/constants"
	"github.com/nexuscrm/hygiene/pkg/fuzzy"
)

// DeduplicationAgent finds near-identical records and merges them
type DeduplicationAgent struct {
	threshold int
	workers   int
}

// NewDeduplicationAgent creates a DeduplicationAgent. A pair is a duplicate
// when its similarity is strictly above threshold.
func NewDeduplicationAgent(threshold, workers int) *DeduplicationAgent {
	if threshold <= 0 {
		threshold = constants.DefaultDedupeThreshold
	}
	if workers <= 0 {
		workers = 1
	}
	return &DeduplicationAgent{threshold: threshold, workers: workers}
}

// FindDuplicates compares every unordered pair on keyField and returns the
// duplicates sorted by (Left, Right).
func (a *DeduplicationAgent) FindDuplicates(ctx context.Context, records []models.Record, keyField string) ([]models.DuplicatePair, error) {
	keys := make([]string, len(records))
	for i, r := range records {
		keys[i] = fuzzy.Normalize(r.GetString(keyField))
	}

	// One slot per left index keeps workers off shared state.
	byRow := make([][]models.DuplicatePair, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i := range keys {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if keys[i] == "" {
				return nil
			}
			for j := i + 1; j < len(keys); j++ {
				if score := fuzzy.Ratio(keys[i], keys[j]); score > a.threshold {
					byRow[i] = append(byRow[i], models.DuplicatePair{Left: i, Right: j, Score: score})
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pairs := make([]models.DuplicatePair, 0)
	for _, row := range byRow {
		pairs = append(pairs, row...)
	}
	return pairs, nil
}

// Merge groups duplicate pairs into connected sets. The survivor of each set
// is the most complete record (lowest index on ties); its blank fields are
// filled from the other members in index order. records is not modified.
func (a *DeduplicationAgent) Merge(records []models.Record, pairs []models.DuplicatePair) []models.DuplicateGroup {
	parent := make(map[int]int)
	var find func(int) int
	find = func(x int) int {
		p, ok := parent[x]
		if !ok {
			parent[x] = x
			return x
		}
		if p != x {
			parent[x] = find(p)
		}
		return parent[x]
	}
	union := func(x, y int) {
		rx, ry := find(x), find(y)
		if rx == ry {
			return
		}
		if rx < ry {
			parent[ry] = rx
		} else {
			parent[rx] = ry
		}
	}

	for _, p := range pairs {
		union(p.Left, p.Right)
	}

	members := make(map[int][]int)
	for x := range parent {
		root := find(x)
		members[root] = append(members[root], x)
	}

	roots := make([]int, 0, len(members))
	for root := range members {
		roots = append(roots, root)
	}
	sort.Ints(roots)

	groups := make([]models.DuplicateGroup, 0, len(roots))
	for _, root := range roots {
		idx := members[root]
		sort.Ints(idx)

		// Completeness is judged over every field any member carries.
		fields := make(map[string]struct{})
		for _, i := range idx {
			for k := range records[i] {
				fields[k] = struct{}{}
			}
		}
		blanks := func(r models.Record) int {
			n := 0
			for k := range fields {
				if r.IsBlank(k) {
					n++
				}
			}
			return n
		}

		survivor := idx[0]
		for _, i := range idx[1:] {
			if blanks(records[i]) < blanks(records[survivor]) {
				survivor = i
			}
		}

		merged := records[survivor].Clone()
		for _, i := range idx {
			if i == survivor {
				continue
			}
			for k, v := range records[i] {
				if merged.IsBlank(k) && !records[i].IsBlank(k) {
					merged[k] = v
				}
			}
		}

		groups = append(groups, models.DuplicateGroup{
			Members:  idx,
			Survivor: survivor,
			Merged:   merged,
		})
	}
	return groups
}
