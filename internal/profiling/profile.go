package profiling

import (
	"github.com/montanaflynn/stats"

	"mailmerge/domain/tabular"
)

// ColumnProfile summarizes one column of an imported dataset. Profiles are
// advisory: they help a reviewer judge a draft mapping (a contact column with
// a low fill rate is a red flag) and feed the CLI inspect output.
type ColumnProfile struct {
	Name        string  `json:"name"`
	FillRate    float64 `json:"fill_rate"`    // fraction of rows with a value
	UniqueRatio float64 `json:"unique_ratio"` // unique values over filled rows
	MeanLength  float64 `json:"mean_length"`  // mean length of filled values
	MaxLength   int     `json:"max_length"`
}

// ProfileColumns computes per-column statistics over every record.
func ProfileColumns(result *tabular.ImportResult) []ColumnProfile {
	profiles := make([]ColumnProfile, 0, len(result.Headers))
	for _, header := range result.Headers {
		profiles = append(profiles, profileColumn(header, result.Records))
	}
	return profiles
}

func profileColumn(name string, records []tabular.Record) ColumnProfile {
	profile := ColumnProfile{Name: name}
	if len(records) == 0 {
		return profile
	}

	unique := make(map[string]bool)
	lengths := make([]float64, 0, len(records))
	filled := 0
	for _, record := range records {
		value := record[name]
		if value == "" {
			continue
		}
		filled++
		unique[value] = true
		lengths = append(lengths, float64(len(value)))
	}

	profile.FillRate = float64(filled) / float64(len(records))
	if filled == 0 {
		return profile
	}
	profile.UniqueRatio = float64(len(unique)) / float64(filled)

	if mean, err := stats.Mean(lengths); err == nil {
		profile.MeanLength = mean
	}
	if max, err := stats.Max(lengths); err == nil {
		profile.MaxLength = int(max)
	}
	return profile
}
