package portfolio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"tokenfolio/internal/model"
)

// TransferSource fetches the three raw transfer feeds for a wallet. Feeds
// may be truncated when the provider rate-limits past the retry budget.
type TransferSource interface {
	NormalTransfers(ctx context.Context, address string) ([]model.NormalTx, error)
	InternalTransfers(ctx context.Context, address string) ([]model.InternalTx, error)
	TokenTransfers(ctx context.Context, address string) ([]model.TokenTx, error)
}

// PriceOracle reports the native asset's current fiat spot price.
type PriceOracle interface {
	EthPriceUSD(ctx context.Context) (float64, error)
}

// SnapshotStore caches raw transfer history per wallet.
type SnapshotStore interface {
	// Recent returns the stored snapshot only while it is inside the
	// freshness window.
	Recent(address string) (*model.WalletSnapshot, bool)
	Put(snapshot *model.WalletSnapshot) error
}

// SummaryStore persists finished wallet summaries.
type SummaryStore interface {
	UpsertSummaries(ctx context.Context, summaries []model.WalletSummary) error
}

const topListSize = 5

// Service runs the fetch-reconstruct-classify-analyze pipeline with injected
// collaborators. The cache and summary store are optional; a nil cache means
// every request fetches fresh data.
type Service struct {
	source    TransferSource
	oracle    PriceOracle
	cache     SnapshotStore
	summaries SummaryStore
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires the pipeline's collaborators.
func NewService(source TransferSource, oracle PriceOracle, cache SnapshotStore, summaries SummaryStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source:    source,
		oracle:    oracle,
		cache:     cache,
		summaries: summaries,
		logger:    logger,
		now:       time.Now,
	}
}

// WalletSummary builds the full trading summary for one wallet address.
// Collaborator failures before analysis abort the whole request; there is no
// partial summary.
func (s *Service) WalletSummary(ctx context.Context, address string) (*model.WalletSummary, error) {
	if s.source == nil {
		return nil, fmt.Errorf("transfer source is nil")
	}
	if s.oracle == nil {
		return nil, fmt.Errorf("price oracle is nil")
	}
	address = strings.ToLower(address)

	price, err := s.oracle.EthPriceUSD(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch eth price: %w", err)
	}

	classified, err := s.classify(ctx, address)
	if err != nil {
		return nil, err
	}

	stats := Analyze(classified)
	summary := &model.WalletSummary{
		Address:       address,
		MostActiveDay: stats.MostActiveDayName(),
		Tokens: model.TokenCounts{
			Purchased:       stats.TokensBought,
			Profitable:      stats.Profitable,
			ProfitablePct:   stats.ProfitablePct,
			Unprofitable:    stats.Unprofitable,
			UnprofitablePct: stats.UnprofitablePct,
		},
		Transactions: model.EthTotals{
			EthSpent:     stats.TotalEthSpentWithGas,
			EthSpentUSD:  stats.TotalEthSpentWithGas * price,
			EthGained:    stats.TotalEthGainedWithGas,
			EthGainedUSD: stats.TotalEthGainedWithGas * price,
		},
		Averages: model.Averages{
			SpendPerToken:    stats.AvgEthSpentPerTokenWithFee,
			SpendPerTokenUSD: stats.AvgEthSpentPerTokenWithFee * price,
			GainPerToken:     stats.AvgEthGainedPerTokenWithFee,
			GainPerTokenUSD:  stats.AvgEthGainedPerTokenWithFee * price,
			Multiple:         stats.MedianMultiple,
			GasPerToken:      stats.AvgGasPerToken,
			GasPerTokenUSD:   stats.AvgGasPerToken * price,
			BagSoldPct:       stats.AvgPercentSoldPerSell,
		},
		Profits: model.Profits{
			Rating:       stats.ProfitRatingWithGas,
			Net:          stats.NetProfitPct,
			SuccessRatio: stats.SuccessRatio,
		},
		ProfitLoss: model.ProfitLoss{
			Eth: stats.TotalProfitLoss,
			USD: stats.TotalProfitLoss * price,
			ROI: stats.TotalROI,
		},
		TopByMultiple: highlights(RankByMultiple(classified), price),
		TopByProfit:   highlights(RankByProfit(classified), price),
		TopByTrades:   highlights(RankByTradeCount(classified), price),
	}

	if s.summaries != nil {
		if err := s.summaries.UpsertSummaries(ctx, []model.WalletSummary{*summary}); err != nil {
			s.logger.Warn("persist summary", zap.String("address", address), zap.Error(err))
		}
	}

	return summary, nil
}

// Behavior builds the holding-time report for swaps at or after cutoff.
func (s *Service) Behavior(ctx context.Context, address string, cutoff int64) (*model.BehaviorReport, error) {
	address = strings.ToLower(address)
	classified, err := s.classify(ctx, address)
	if err != nil {
		return nil, err
	}
	report := AnalyzeBehavior(classified, cutoff)
	return &report, nil
}

func (s *Service) classify(ctx context.Context, address string) (*Classification, error) {
	snapshot, err := s.snapshot(ctx, address)
	if err != nil {
		return nil, err
	}

	store := NewTransferStore(snapshot.Normal, snapshot.Internal, snapshot.Token)
	set := NewReconstructor(store, address, s.logger).Reconstruct()
	classified := Classify(set)

	s.logger.Info("wallet classified",
		zap.String("address", address),
		zap.Int("tokens", len(classified.Order)),
		zap.Int("skipped", len(classified.SkippedOrder)),
	)
	return classified, nil
}

// snapshot returns cached transfer history while fresh, refetching all three
// feeds otherwise.
func (s *Service) snapshot(ctx context.Context, address string) (*model.WalletSnapshot, error) {
	if s.cache != nil {
		if snap, ok := s.cache.Recent(address); ok {
			return snap, nil
		}
	}

	s.logger.Info("fetching transfer history", zap.String("address", address))

	normal, err := s.source.NormalTransfers(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("fetch normal transfers: %w", err)
	}
	token, err := s.source.TokenTransfers(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("fetch token transfers: %w", err)
	}
	internal, err := s.source.InternalTransfers(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("fetch internal transfers: %w", err)
	}

	snap := &model.WalletSnapshot{
		Address:   address,
		FetchedAt: s.now(),
		Normal:    normal,
		Internal:  internal,
		Token:     token,
	}
	if s.cache != nil {
		if err := s.cache.Put(snap); err != nil {
			s.logger.Warn("cache snapshot", zap.String("address", address), zap.Error(err))
		}
	}
	return snap, nil
}

func highlights(ranked []Ranked, price float64) []model.TokenHighlight {
	if len(ranked) > topListSize {
		ranked = ranked[:topListSize]
	}
	out := make([]model.TokenHighlight, 0, len(ranked))
	for _, entry := range ranked {
		ledger := entry.Ledger
		spent := ledger.EthSpent + ledger.BuyGas
		gained := ledger.EthGained - ledger.SellGas
		out = append(out, model.TokenHighlight{
			Name:            entry.Symbol,
			ContractAddress: ledger.ContractAddress,
			Buys:            ledger.BuyCount,
			Sells:           ledger.SellCount,
			EthSpent:        spent,
			EthSpentUSD:     spent * price,
			EthGained:       gained,
			EthGainedUSD:    gained * price,
			Multiple:        ledger.ProfitInXIncludingGas,
			SoldPct:         deref(ledger.PercentSold),
			HeldPct:         deref(ledger.PercentHeld),
		})
	}
	return out
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
