package profiling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailmerge/domain/tabular"
)

func TestProfileColumns(t *testing.T) {
	result := &tabular.ImportResult{
		Headers: tabular.HeaderSet{"Email", "State", "Notes"},
		Records: []tabular.Record{
			{"Email": "a@example.org", "State": "FL", "Notes": ""},
			{"Email": "b@example.org", "State": "FL", "Notes": ""},
			{"Email": "c@example.org", "State": "GA", "Notes": ""},
			{"Email": "", "State": "FL", "Notes": ""},
		},
	}

	profiles := ProfileColumns(result)
	require.Len(t, profiles, 3)

	email := profiles[0]
	assert.Equal(t, "Email", email.Name)
	assert.InDelta(t, 0.75, email.FillRate, 1e-9)
	assert.InDelta(t, 1.0, email.UniqueRatio, 1e-9)
	assert.InDelta(t, 13.0, email.MeanLength, 1e-9)
	assert.Equal(t, 13, email.MaxLength)

	state := profiles[1]
	assert.InDelta(t, 1.0, state.FillRate, 1e-9)
	assert.InDelta(t, 0.5, state.UniqueRatio, 1e-9)

	notes := profiles[2]
	assert.Zero(t, notes.FillRate)
	assert.Zero(t, notes.UniqueRatio)
}

func TestProfileColumns_NoRecords(t *testing.T) {
	result := &tabular.ImportResult{Headers: tabular.HeaderSet{"Email"}}
	profiles := ProfileColumns(result)
	require.Len(t, profiles, 1)
	assert.Zero(t, profiles[0].FillRate)
}
