package predictor

import (
	"fmt"

	"github.com/hmp229/psa-predict/internal/models"
)

// eloDriverThreshold is the rating differential below which the rating
// driver is omitted
const eloDriverThreshold = 150

// Explain derives the ordered driver list shown to the caller: ranking gap,
// recent form, head-to-head, and (when large enough) the rating
// differential. Drivers are presentational only and never feed back into the
// numeric pipeline. At least three drivers are always returned.
func Explain(a, b models.FeatureBundle, h2h models.H2HSummary, rankA, rankB int) []models.Driver {
	drivers := make([]models.Driver, 0, 4)
	drivers = append(drivers, rankingDriver(rankA, rankB))
	drivers = append(drivers, formDriver(a.Form, b.Form))
	drivers = append(drivers, h2hDriver(h2h))

	if eloDiff := a.Elo - b.Elo; eloDiff > eloDriverThreshold || eloDiff < -eloDriverThreshold {
		drivers = append(drivers, ratingDriver(eloDiff))
	}
	return drivers
}

func rankingDriver(rankA, rankB int) models.Driver {
	tierGap := Tier(rankA) - Tier(rankB)
	if tierGap < 0 {
		tierGap = -tierGap
	}

	var impact, note string
	switch {
	case tierGap >= 3:
		impact = "strong"
		if rankA < rankB {
			note = fmt.Sprintf("Top-tier competitor (#%d) vs lower-ranked (#%d) strongly favors A", rankA, rankB)
		} else {
			note = fmt.Sprintf("Top-tier competitor (#%d) vs lower-ranked (#%d) strongly favors B", rankB, rankA)
		}
	case tierGap >= 1:
		impact = "moderate"
		note = fmt.Sprintf("Ranking gap (#%d vs #%d) provides an edge", rankA, rankB)
	default:
		impact = "mild"
		note = fmt.Sprintf("Similar rankings (#%d vs #%d)", rankA, rankB)
	}

	return models.Driver{
		Feature: "Ranking gap",
		Impact:  signImpact(impact, rankA < rankB),
		Note:    note,
	}
}

func formDriver(formA, formB models.FormStats) models.Driver {
	diff := formA.WinRate - formB.WinRate

	var impact, note string
	if diff > 0.15 || diff < -0.15 {
		impact = "moderate"
		if diff > 0 {
			note = fmt.Sprintf("Competitor A has stronger recent form (%.0f%% vs %.0f%%)",
				formA.WinRate*100, formB.WinRate*100)
		} else {
			note = fmt.Sprintf("Competitor B has stronger recent form (%.0f%% vs %.0f%%)",
				formB.WinRate*100, formA.WinRate*100)
		}
	} else {
		impact = "neutral"
		note = "Both competitors showing similar recent form"
	}

	return models.Driver{
		Feature: "Recent form",
		Impact:  signImpact(impact, diff > 0),
		Note:    note,
	}
}

func h2hDriver(h2h models.H2HSummary) models.Driver {
	var impact, note string
	if h2h.NMatches >= 3 {
		switch {
		case h2h.AWinRate > 0.6:
			impact = "moderate"
			note = fmt.Sprintf("Competitor A leads head-to-head (%d recent matches)", h2h.NMatches)
		case h2h.AWinRate < 0.4:
			impact = "moderate"
			note = fmt.Sprintf("Competitor B leads head-to-head (%d recent matches)", h2h.NMatches)
		default:
			impact = "neutral"
			note = fmt.Sprintf("Even head-to-head record (%d recent matches)", h2h.NMatches)
		}
	} else {
		impact = "neutral"
		note = "No significant head-to-head history in the last 24 months"
	}

	return models.Driver{
		Feature: "Head-to-head",
		Impact:  impact,
		Note:    note,
	}
}

func ratingDriver(eloDiff float64) models.Driver {
	side := "A"
	if eloDiff < 0 {
		side = "B"
	}
	return models.Driver{
		Feature: "Performance rating",
		Impact:  signImpact("moderate", eloDiff > 0),
		Note:    fmt.Sprintf("Performance rating differential favors %s", side),
	}
}

func signImpact(impact string, positive bool) string {
	if positive {
		return "+ " + impact
	}
	return "- " + impact
}
