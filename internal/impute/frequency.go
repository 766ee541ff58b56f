package impute

import (
	"github.com/KaramelBytes/medfill/internal/dataset"
)

// GroupColumn partitions records; TargetColumns are filled from their group's mode.
var (
	GroupColumn   = dataset.ColTherapeuticClass
	TargetColumns = []string{dataset.ColChemicalClass, dataset.ColActionClass}
)

// Counter tallies values and remembers the order each value was first seen.
type Counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *Counter { return &Counter{counts: map[string]int{}} }

// Add increments v's count.
func (c *Counter) Add(v string) {
	if _, ok := c.counts[v]; !ok {
		c.order = append(c.order, v)
	}
	c.counts[v]++
}

// Count returns how many times v was added.
func (c *Counter) Count(v string) int { return c.counts[v] }

// Len is the number of distinct values.
func (c *Counter) Len() int { return len(c.order) }

// Values returns distinct values in first-seen order.
func (c *Counter) Values() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Mode returns the most frequent value and its count. On ties the value seen
// first wins. An empty counter yields ("", 0).
func (c *Counter) Mode() (string, int) {
	var best string
	bestN := 0
	for _, v := range c.order {
		// strict > keeps the earliest of equal counts
		if n := c.counts[v]; n > bestN {
			best, bestN = v, n
		}
	}
	return best, bestN
}

// Group holds per-column counters for one group key.
type Group struct {
	Key    string
	Size   int
	Counts map[string]*Counter // by target column
	Blank  map[string]int      // blank cells seen, by target column
}

// FrequencyTable maps group key → target column → value counts.
type FrequencyTable struct {
	groups map[string]*Group
	order  []string
}

// Group returns the accumulator for key.
func (ft *FrequencyTable) Group(key string) (*Group, bool) {
	g, ok := ft.groups[key]
	return g, ok
}

// Keys returns group keys in first-seen order.
func (ft *FrequencyTable) Keys() []string {
	out := make([]string, len(ft.order))
	copy(out, ft.order)
	return out
}

// Len is the number of groups.
func (ft *FrequencyTable) Len() int { return len(ft.order) }

// Count is shorthand for the count of value in (key, column); 0 when absent.
func (ft *FrequencyTable) Count(key, column, value string) int {
	g, ok := ft.groups[key]
	if !ok {
		return 0
	}
	c, ok := g.Counts[column]
	if !ok {
		return 0
	}
	return c.Count(value)
}

// Aggregate tallies non-blank target values per group in a single pass.
// The blank group key is a group like any other. Values are counted verbatim;
// trimming only decides blankness.
func Aggregate(t *dataset.Table) (*FrequencyTable, error) {
	if err := t.RequireColumns(dataset.RequiredColumns...); err != nil {
		return nil, err
	}
	ti := make([]int, len(TargetColumns))
	for i, c := range TargetColumns {
		ti[i], _ = t.ColumnIndex(c)
	}

	ft := &FrequencyTable{groups: map[string]*Group{}}
	for _, r := range t.Records {
		key := t.Get(r, GroupColumn)
		g := ft.groups[key]
		if g == nil {
			g = &Group{Key: key, Counts: make(map[string]*Counter, len(TargetColumns)), Blank: map[string]int{}}
			for _, c := range TargetColumns {
				g.Counts[c] = newCounter()
			}
			ft.groups[key] = g
			ft.order = append(ft.order, key)
		}
		g.Size++
		for i, c := range TargetColumns {
			v := field(r, ti[i])
			if dataset.IsBlank(v) {
				g.Blank[c]++
				continue
			}
			g.Counts[c].Add(v)
		}
	}
	return ft, nil
}

func field(r dataset.Record, i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}
