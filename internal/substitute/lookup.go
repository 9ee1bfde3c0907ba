package substitute

import (
	"sort"
	"strings"

	"mailmerge/domain/tabular"
)

// LookupStrategy is one named way of finding a column's value in a record.
// Strategies are enumerable so the fuzzy fallback path stays testable instead
// of being ad hoc string probing.
type LookupStrategy struct {
	Name string
	Find func(record tabular.Record, column string) (string, bool)
}

// LookupStrategies run in priority order; the first hit wins. Only the last
// strategy is fuzzy, and it scans keys in sorted order for determinism.
var LookupStrategies = []LookupStrategy{
	{
		Name: "exact",
		Find: func(record tabular.Record, column string) (string, bool) {
			v, ok := record[column]
			return v, ok
		},
	},
	{
		Name: "fold",
		Find: func(record tabular.Record, column string) (string, bool) {
			for _, key := range sortedKeys(record) {
				if strings.EqualFold(key, column) {
					return record[key], true
				}
			}
			return "", false
		},
	},
	{
		Name: "substring",
		Find: func(record tabular.Record, column string) (string, bool) {
			want := tabular.Normalize(column)
			if want == "" {
				return "", false
			}
			for _, key := range sortedKeys(record) {
				have := tabular.Normalize(key)
				if strings.Contains(have, want) || strings.Contains(want, have) {
					return record[key], true
				}
			}
			return "", false
		},
	},
}

// LookupValue resolves a column's value through the strategy chain. The
// second return is false only when every strategy misses.
func LookupValue(record tabular.Record, column string) (string, bool) {
	for _, strategy := range LookupStrategies {
		if value, ok := strategy.Find(record, column); ok {
			return value, true
		}
	}
	return "", false
}

func sortedKeys(record tabular.Record) []string {
	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
