package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hmp229/psa-predict/internal/models"
)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func record(date time.Time, opponent, source string, result models.MatchResult) models.MatchRecord {
	return models.MatchRecord{
		Date:     date,
		Opponent: opponent,
		Result:   result,
		GamesWon: 3,
		Source:   source,
	}
}

func TestMergeSortsDescendingByDate(t *testing.T) {
	agg := NewAggregator([]string{"psa_website"})
	merged := agg.Merge([]Fragment{
		{Source: "psa_website", Records: []models.MatchRecord{
			record(day(1), "Asal", "psa_website", models.ResultLoss),
			record(day(10), "Farag", "psa_website", models.ResultWin),
			record(day(5), "Coll", "psa_website", models.ResultWin),
		}},
	})

	assert.Len(t, merged, 3)
	assert.Equal(t, "Farag", merged[0].Opponent)
	assert.Equal(t, "Coll", merged[1].Opponent)
	assert.Equal(t, "Asal", merged[2].Opponent)
}

func TestMergeDedupKeepsHigherPrioritySource(t *testing.T) {
	agg := NewAggregator([]string{"psa_website", "squashlevels"})

	// Same (date, opponent) from two sources, disagreeing on the result.
	merged := agg.Merge([]Fragment{
		{Source: "squashlevels", Records: []models.MatchRecord{
			record(day(3), "Farag", "squashlevels", models.ResultLoss),
		}},
		{Source: "psa_website", Records: []models.MatchRecord{
			record(day(3), "Farag", "psa_website", models.ResultWin),
		}},
	})

	assert.Len(t, merged, 1)
	assert.Equal(t, "psa_website", merged[0].Source)
	assert.Equal(t, models.ResultWin, merged[0].Result)
}

func TestMergeIdempotent(t *testing.T) {
	agg := NewAggregator([]string{"psa_website"})
	frag := Fragment{Source: "psa_website", Records: []models.MatchRecord{
		record(day(2), "Farag", "psa_website", models.ResultWin),
		record(day(4), "Coll", "psa_website", models.ResultLoss),
	}}

	once := agg.Merge([]Fragment{frag})
	twice := agg.Merge([]Fragment{frag, frag})
	assert.Equal(t, once, twice)
}

func TestMergeEmptyInput(t *testing.T) {
	agg := NewAggregator(nil)
	merged := agg.Merge(nil)
	assert.Empty(t, merged)
}

func TestMergeUnknownSourceSortsLast(t *testing.T) {
	agg := NewAggregator([]string{"psa_website"})
	merged := agg.Merge([]Fragment{
		{Source: "mystery", Records: []models.MatchRecord{
			record(day(3), "Farag", "mystery", models.ResultLoss),
		}},
		{Source: "psa_website", Records: []models.MatchRecord{
			record(day(3), "Farag", "psa_website", models.ResultWin),
		}},
	})

	assert.Len(t, merged, 1)
	assert.Equal(t, "psa_website", merged[0].Source)
}
