// Package main provides a one-shot prediction CLI over local history files.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hmp229/psa-predict/internal/features"
	"github.com/hmp229/psa-predict/internal/models"
	"github.com/hmp229/psa-predict/internal/predictor"
	"github.com/hmp229/psa-predict/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	historyAPath string
	historyBPath string
	nameA        string
	nameB        string
	idB          string
	rankA        int
	rankB        int
	dateStr      string
	seed         int64
	outputJSON   bool
)

func init() {
	rootCmd.Flags().StringVar(&historyAPath, "history-a", "", "Path to competitor A's match history (JSON array)")
	rootCmd.Flags().StringVar(&historyBPath, "history-b", "", "Path to competitor B's match history (JSON array)")
	rootCmd.Flags().StringVar(&nameA, "name-a", "Competitor A", "Display name for competitor A")
	rootCmd.Flags().StringVar(&nameB, "name-b", "Competitor B", "Display name for competitor B, also used to find shared matches in A's history")
	rootCmd.Flags().StringVar(&idB, "id-b", "", "Stable identifier for competitor B, preferred over the name for shared-match detection")
	rootCmd.Flags().IntVar(&rankA, "rank-a", 0, "Current world rank for competitor A (0 = unranked)")
	rootCmd.Flags().IntVar(&rankB, "rank-b", 0, "Current world rank for competitor B (0 = unranked)")
	rootCmd.Flags().StringVar(&dateStr, "date", "", "Reference date in YYYY-MM-DD form (default: today)")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "Bootstrap seed (0 = default)")
	rootCmd.Flags().BoolVar(&outputJSON, "json", false, "Emit the full result as JSON")
}

var rootCmd = &cobra.Command{
	Use:     "predict",
	Short:   "Predict a head-to-head match outcome from local history files",
	Version: fmt.Sprintf("%s (%s)", Version, GitCommit),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	histA, err := loadHistory(historyAPath)
	if err != nil {
		return fmt.Errorf("failed to load history for %s: %w", nameA, err)
	}
	histB, err := loadHistory(historyBPath)
	if err != nil {
		return fmt.Errorf("failed to load history for %s: %w", nameB, err)
	}

	refDate := time.Now().UTC()
	if dateStr != "" {
		refDate, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", dateStr, err)
		}
	}

	core := predictor.New(features.NewExtractor(features.DefaultConfig()))
	result := core.Predict(predictor.Input{
		HistoryA:      histA,
		HistoryB:      histB,
		HeadToHead:    sharedMatches(histA),
		RankA:         rankA,
		RankB:         rankB,
		ReferenceDate: refDate,
		Seed:          seed,
	})

	if outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printResult(result)
	return nil
}

// loadHistory reads and normalizes a JSON match-history file. A missing path
// yields an empty history so one-sided predictions still work.
func loadHistory(path string) (models.CompetitorHistory, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []models.MatchRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("not a JSON match-record array: %w", err)
	}

	quiet := logrus.New()
	quiet.SetLevel(logrus.WarnLevel)
	return service.NewNormalizer(quiet).NormalizeRecords(records), nil
}

// sharedMatches restricts A's history to meetings with B
func sharedMatches(histA models.CompetitorHistory) models.HeadToHeadHistory {
	h2h := make(models.HeadToHeadHistory, 0, 8)
	for _, rec := range histA {
		if !service.SameCompetitor(&rec, idB, nameB) {
			continue
		}
		winner := models.SideB
		if rec.Won() {
			winner = models.SideA
		}
		h2h = append(h2h, models.HeadToHeadRecord{MatchRecord: rec, Winner: winner})
	}
	return h2h
}

func printResult(result *models.PredictionResult) {
	winnerName := nameA
	if result.Winner == models.SideB {
		winnerName = nameB
	}

	fmt.Printf("Predicted winner: %s\n", winnerName)
	fmt.Printf("  %-20s %.1f%%  (95%% CI %.1f%% - %.1f%%)  fair odds %s\n",
		nameA, result.Proba.A*100, result.CI95.A.Low*100, result.CI95.A.High*100, result.FairOdds.A)
	fmt.Printf("  %-20s %.1f%%  (95%% CI %.1f%% - %.1f%%)  fair odds %s\n",
		nameB, result.Proba.B*100, result.CI95.B.Low*100, result.CI95.B.High*100, result.FairOdds.B)

	if result.Guardrail != models.GuardrailNone {
		fmt.Printf("  guardrail: %s\n", result.Guardrail)
	}

	fmt.Println("Drivers:")
	for _, d := range result.Drivers {
		fmt.Printf("  [%s] %s: %s\n", d.Impact, d.Feature, d.Note)
	}
}
