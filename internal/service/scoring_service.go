package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"securesphere/internal/cache"
	"securesphere/internal/catalog"
	"securesphere/internal/model"
	"securesphere/internal/repository"
)

// ScoringService aggregates raw answers into the two score views: the raw
// 1-5 dimension heat-map and the normalized 20-100 section snapshots. Both
// views share the catalog's score lookup; scaling is the only difference, and
// every computation is a pure function of the stored responses.
type ScoringService struct {
	responseRepo repository.ResponseRepo
	scoreRepo    repository.ScoreRepo
	productRepo  repository.ProductRepo
	ranking      cache.RankingCache
	catalog      *catalog.Catalog
	log          *slog.Logger
}

// NewScoringService creates a scoring service.
func NewScoringService(
	responseRepo repository.ResponseRepo,
	scoreRepo repository.ScoreRepo,
	productRepo repository.ProductRepo,
	ranking cache.RankingCache,
	cat *catalog.Catalog,
	log *slog.Logger,
) *ScoringService {
	return &ScoringService{
		responseRepo: responseRepo,
		scoreRepo:    scoreRepo,
		productRepo:  productRepo,
		ranking:      ranking,
		catalog:      cat,
		log:          log,
	}
}

// HeatMap computes the per-dimension raw averages and the equally-weighted
// overall maturity score. Unanswered catalog questions do not penalize a
// dimension's average.
func (s *ScoringService) HeatMap(ctx context.Context, productID, userID string) (*model.MaturityReport, error) {
	responses, err := s.responseRepo.ListByProductUser(ctx, productID, userID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}

	totals := make(map[string]int)
	counts := make(map[string]int)
	for _, r := range responses {
		if r.Answer == "" {
			continue
		}
		raw := s.catalog.ScoreFor(r.Section, r.Question, r.Answer)
		totals[r.Section] += raw
		counts[r.Section]++
	}

	report := &model.MaturityReport{ProductID: productID}
	var sum float64
	for _, section := range s.catalog.OrderedSections() {
		n := counts[section]
		if n == 0 {
			continue
		}
		avg := float64(totals[section]) / float64(n)
		level := int(math.Round(avg))
		report.Dimensions = append(report.Dimensions, model.DimensionScore{
			Dimension:    section,
			AverageScore: roundTo(avg, 2),
			TotalScore:   totals[section],
			Answered:     n,
			Level:        level,
			LevelName:    model.MaturityLevelName(level),
		})
		sum += avg
	}

	if len(report.Dimensions) > 0 {
		report.MaturityScore = int(math.Round(sum / float64(len(report.Dimensions))))
	}
	report.MaturityLevel = model.MaturityLevelName(report.MaturityScore)
	return report, nil
}

// RecomputeSnapshots rebuilds the per-section normalized snapshots for one
// product x user pair, replacing the stored snapshot for every section that
// has answers. Raw 1-5 scores are rescaled to 20-100 per answered question.
// Running it twice with no intervening writes yields identical snapshots.
func (s *ScoringService) RecomputeSnapshots(ctx context.Context, productID, userID string) error {
	responses, err := s.responseRepo.ListByProductUser(ctx, productID, userID)
	if err != nil {
		return fmt.Errorf("list responses: %w", err)
	}

	totals := make(map[string]int)
	counts := make(map[string]int)
	for _, r := range responses {
		if r.Answer == "" {
			continue
		}
		raw := s.catalog.ScoreFor(r.Section, r.Question, r.Answer)
		totals[r.Section] += raw * 20
		counts[r.Section]++
	}

	for section, total := range totals {
		answered := counts[section]
		maxScore := 100 * answered
		percentage := 0.0
		if maxScore > 0 {
			percentage = float64(total) / float64(maxScore) * 100
		}
		snapshot := &model.ScoreSnapshot{
			ProductID:  productID,
			UserID:     userID,
			Section:    section,
			TotalScore: total,
			MaxScore:   maxScore,
			Percentage: roundTo(percentage, 1),
			Answered:   answered,
		}
		if err := s.scoreRepo.Replace(ctx, snapshot); err != nil {
			return fmt.Errorf("replace snapshot for %s: %w", section, err)
		}
	}

	s.updateRanking(ctx, productID, userID)
	return nil
}

// Snapshots returns the stored per-section snapshots.
func (s *ScoringService) Snapshots(ctx context.Context, productID, userID string) ([]*model.ScoreSnapshot, error) {
	return s.scoreRepo.ListByProductUser(ctx, productID, userID)
}

// ProductRanking is one row of the admin maturity ranking.
type ProductRanking struct {
	ProductID     string  `json:"productId"`
	ProductName   string  `json:"productName"`
	OwnerID       string  `json:"ownerId"`
	MaturityScore float64 `json:"maturityScore"`
}

// Ranking returns the top products by maturity score, enriched with product
// details. The ranking lives in redis and is refreshed on every recompute.
func (s *ScoringService) Ranking(ctx context.Context, n int64) ([]ProductRanking, error) {
	entries, err := s.ranking.Top(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("read ranking: %w", err)
	}

	out := make([]ProductRanking, 0, len(entries))
	for _, e := range entries {
		row := ProductRanking{ProductID: e.ProductID, MaturityScore: e.MaturityScore}
		if p, err := s.productRepo.GetByID(ctx, e.ProductID); err == nil && p != nil {
			row.ProductName = p.Name
			row.OwnerID = p.OwnerID
		}
		out = append(out, row)
	}
	return out, nil
}

// updateRanking refreshes the product's position in the maturity ZSET.
// Best effort: ranking is a derived cache, never authoritative.
func (s *ScoringService) updateRanking(ctx context.Context, productID, userID string) {
	report, err := s.HeatMap(ctx, productID, userID)
	if err != nil {
		s.log.Warn("ranking refresh failed", "productId", productID, "error", err)
		return
	}
	var sum float64
	for _, d := range report.Dimensions {
		sum += d.AverageScore
	}
	score := 0.0
	if len(report.Dimensions) > 0 {
		score = sum / float64(len(report.Dimensions))
	}
	if err := s.ranking.Update(ctx, productID, score); err != nil {
		s.log.Warn("ranking cache update failed", "productId", productID, "error", err)
	}
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
