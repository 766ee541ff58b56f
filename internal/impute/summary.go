package impute

import (
	"fmt"
	"sort"
	"strings"
)

// GroupSummary captures the modes chosen for one group.
type GroupSummary struct {
	Key      string
	Size     int
	Modes    map[string]Mode // by target column
	Distinct map[string]int  // distinct non-blank values, by target column
	Blank    map[string]int  // blank cells, by target column
	Values   map[string][]Mode
}

// Summary is a markdown-friendly view of an imputation run.
type Summary struct {
	Name   string
	Rows   int
	Groups []GroupSummary
	Stats  *Stats
	// MaxGroups limits rendered groups; 0 means all.
	MaxGroups int
	// ShowValues lists every distinct value under its column.
	ShowValues bool
}

// Summarize assembles a Summary. stats may be nil when nothing was filled yet.
// Groups are ordered by size, then key.
func Summarize(name string, ft *FrequencyTable, modes ModeTable, stats *Stats) *Summary {
	s := &Summary{Name: name, Stats: stats}
	for _, key := range ft.order {
		g := ft.groups[key]
		gs := GroupSummary{Key: key, Size: g.Size, Modes: map[string]Mode{}, Distinct: map[string]int{}, Blank: map[string]int{}, Values: map[string][]Mode{}}
		for _, c := range TargetColumns {
			cnt := g.Counts[c]
			gs.Modes[c] = modes[key][c]
			gs.Distinct[c] = cnt.Len()
			gs.Blank[c] = g.Blank[c]
			for _, v := range cnt.Values() {
				gs.Values[c] = append(gs.Values[c], Mode{Value: v, Count: cnt.Count(v)})
			}
		}
		s.Rows += g.Size
		s.Groups = append(s.Groups, gs)
	}
	sort.SliceStable(s.Groups, func(i, j int) bool {
		if s.Groups[i].Size == s.Groups[j].Size {
			return s.Groups[i].Key < s.Groups[j].Key
		}
		return s.Groups[i].Size > s.Groups[j].Size
	})
	return s
}

// Markdown renders the summary for terminals or standalone docs.
func (s *Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if s.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", s.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", s.Rows))
	b.WriteString(fmt.Sprintf("Groups (%s): %d\n", GroupColumn, len(s.Groups)))

	b.WriteString("\n[GROUP MODES]\n")
	groups := s.Groups
	if s.MaxGroups > 0 && len(groups) > s.MaxGroups {
		groups = groups[:s.MaxGroups]
	}
	for _, g := range groups {
		b.WriteString(fmt.Sprintf("- %s (n=%d)\n", groupLabel(g.Key), g.Size))
		for _, c := range TargetColumns {
			m := g.Modes[c]
			if m.Value == "" {
				b.WriteString(fmt.Sprintf("  • %s: (none), blank %d\n", c, g.Blank[c]))
				continue
			}
			b.WriteString(fmt.Sprintf("  • %s: %s (%d of %d observed, %d distinct), blank %d\n",
				c, safeVal(m.Value), m.Count, g.Size-g.Blank[c], g.Distinct[c], g.Blank[c]))
			if s.ShowValues {
				for _, v := range g.Values[c] {
					b.WriteString(fmt.Sprintf("    - %s: %d\n", safeVal(v.Value), v.Count))
				}
			}
		}
	}
	if len(groups) < len(s.Groups) {
		b.WriteString(fmt.Sprintf("- ... %d more groups\n", len(s.Groups)-len(groups)))
	}

	if s.Stats != nil {
		b.WriteString("\n[FILL]\n")
		for _, c := range TargetColumns {
			b.WriteString(fmt.Sprintf("- %s: filled %d, left blank %d\n", c, s.Stats.Filled[c], s.Stats.Unfilled[c]))
		}
	}
	return b.String()
}

func groupLabel(k string) string {
	if strings.TrimSpace(k) == "" {
		return "(blank)"
	}
	return safeVal(k)
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
