package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tokenfolio/internal/model"
)

// Store provides Postgres persistence for wallet summaries.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the summaries table if it is missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS wallet_summaries (
			address TEXT PRIMARY KEY,
			tokens_purchased INT NOT NULL,
			tokens_profitable INT NOT NULL,
			eth_spent DOUBLE PRECISION NOT NULL,
			eth_gained DOUBLE PRECISION NOT NULL,
			profit_loss_eth DOUBLE PRECISION NOT NULL,
			roi DOUBLE PRECISION NOT NULL,
			summary JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

// UpsertSummaries inserts or updates finished wallet summaries.
func (s *Store) UpsertSummaries(ctx context.Context, summaries []model.WalletSummary) error {
	if len(summaries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, summary := range summaries {
		payload, err := json.Marshal(summary)
		if err != nil {
			return fmt.Errorf("marshal summary %s: %w", summary.Address, err)
		}
		batch.Queue(`
			INSERT INTO wallet_summaries (
				address, tokens_purchased, tokens_profitable,
				eth_spent, eth_gained, profit_loss_eth, roi,
				summary, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
			ON CONFLICT (address)
			DO UPDATE SET
				tokens_purchased = EXCLUDED.tokens_purchased,
				tokens_profitable = EXCLUDED.tokens_profitable,
				eth_spent = EXCLUDED.eth_spent,
				eth_gained = EXCLUDED.eth_gained,
				profit_loss_eth = EXCLUDED.profit_loss_eth,
				roi = EXCLUDED.roi,
				summary = EXCLUDED.summary,
				updated_at = now()
		`,
			summary.Address,
			summary.Tokens.Purchased,
			summary.Tokens.Profitable,
			summary.Transactions.EthSpent,
			summary.Transactions.EthGained,
			summary.ProfitLoss.Eth,
			summary.ProfitLoss.ROI,
			payload,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range summaries {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
