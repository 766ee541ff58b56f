// Package impute fills blank categorical cells with the most frequent value
// observed in the same therapeutic group.
package impute

import (
	"github.com/KaramelBytes/medfill/internal/dataset"
)

// Mode is the winning value for one group/column pair and its support.
type Mode struct {
	Value string
	Count int
}

// ModeTable maps group key → target column → mode.
type ModeTable map[string]map[string]Mode

// Lookup returns the mode value for (group, column), or "" when none exists.
func (m ModeTable) Lookup(group, column string) string {
	cols, ok := m[group]
	if !ok {
		return ""
	}
	return cols[column].Value
}

// ComputeModes picks the most frequent value per group and target column.
// Ties resolve to the value first counted; empty counters give "".
func ComputeModes(ft *FrequencyTable) ModeTable {
	out := make(ModeTable, ft.Len())
	for _, key := range ft.order {
		g := ft.groups[key]
		cols := make(map[string]Mode, len(TargetColumns))
		for _, c := range TargetColumns {
			v, n := g.Counts[c].Mode()
			cols[c] = Mode{Value: v, Count: n}
		}
		out[key] = cols
	}
	return out
}

// Stats reports what Fill changed.
type Stats struct {
	Rows     int
	Filled   map[string]int // blank cells replaced by a mode
	Unfilled map[string]int // blank cells with no mode to use
}

// Total filled cells across target columns.
func (s Stats) TotalFilled() int {
	n := 0
	for _, v := range s.Filled {
		n += v
	}
	return n
}

// Fill returns a copy of t where every blank target cell holds its group's
// mode, or "" when the group has none. Non-blank cells and every other
// column are left as they were. Neither t nor modes is modified.
func Fill(t *dataset.Table, modes ModeTable) (*dataset.Table, Stats, error) {
	st := Stats{Filled: map[string]int{}, Unfilled: map[string]int{}}
	if err := t.RequireColumns(dataset.RequiredColumns...); err != nil {
		return nil, st, err
	}
	out := t.Clone()
	ti := make([]int, len(TargetColumns))
	for i, c := range TargetColumns {
		ti[i], _ = out.ColumnIndex(c)
	}
	for _, r := range out.Records {
		st.Rows++
		key := out.Get(r, GroupColumn)
		for i, c := range TargetColumns {
			idx := ti[i]
			if idx >= len(r) || !dataset.IsBlank(r[idx]) {
				continue
			}
			v := modes.Lookup(key, c)
			r[idx] = v
			if v != "" {
				st.Filled[c]++
			} else {
				st.Unfilled[c]++
			}
		}
	}
	return out, st, nil
}

// Result bundles the intermediate tables of one imputation run.
type Result struct {
	Frequencies *FrequencyTable
	Modes       ModeTable
	Stats       Stats
}

// Run executes Aggregate, ComputeModes and Fill over t.
func Run(t *dataset.Table) (*dataset.Table, *Result, error) {
	ft, err := Aggregate(t)
	if err != nil {
		return nil, nil, err
	}
	modes := ComputeModes(ft)
	filled, st, err := Fill(t, modes)
	if err != nil {
		return nil, nil, err
	}
	return filled, &Result{Frequencies: ft, Modes: modes, Stats: st}, nil
}
