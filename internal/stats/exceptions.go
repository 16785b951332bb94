package stats

import (
	"sort"

	"github.com/fleetyard/fleetdash/internal/models"
)

// GroupByRule counts exceptions per resolved rule name, most frequent
// first. Ties keep their first-encountered order, so repeated runs
// over the same input produce the same slice. Events whose rule never
// resolved fall into the shared unknown group.
func GroupByRule(exceptions []models.ExceptionEvent) []models.RuleCount {
	counts := make(map[string]int, len(exceptions))
	order := make([]string, 0, len(exceptions))
	for _, e := range exceptions {
		name := e.RuleName
		if name == "" {
			name = models.UnknownRuleName
		}
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++
	}
	grouped := make([]models.RuleCount, 0, len(order))
	for _, name := range order {
		grouped = append(grouped, models.RuleCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(grouped, func(i, j int) bool {
		return grouped[i].Count > grouped[j].Count
	})
	return grouped
}
