package portfolio

import (
	"context"
	"reflect"
	"testing"

	"tokenfolio/internal/model"
)

type fakeSource struct {
	normal   []model.NormalTx
	internal []model.InternalTx
	token    []model.TokenTx
	calls    int
}

func (f *fakeSource) NormalTransfers(context.Context, string) ([]model.NormalTx, error) {
	f.calls++
	return f.normal, nil
}

func (f *fakeSource) InternalTransfers(context.Context, string) ([]model.InternalTx, error) {
	return f.internal, nil
}

func (f *fakeSource) TokenTransfers(context.Context, string) ([]model.TokenTx, error) {
	return f.token, nil
}

type fakeOracle struct{ price float64 }

func (f fakeOracle) EthPriceUSD(context.Context) (float64, error) { return f.price, nil }

type memCache struct {
	snapshots map[string]*model.WalletSnapshot
}

func (m *memCache) Recent(address string) (*model.WalletSnapshot, bool) {
	snap, ok := m.snapshots[address]
	return snap, ok
}

func (m *memCache) Put(snapshot *model.WalletSnapshot) error {
	if m.snapshots == nil {
		m.snapshots = make(map[string]*model.WalletSnapshot)
	}
	m.snapshots[snapshot.Address] = snapshot
	return nil
}

func tradeHistory() *fakeSource {
	buyNormal, buyToken := buyFixture("0xb1", "1000000000000000000")
	sellInternal, sellToken := sellFixture("0xs1", "1500000000000000000")
	return &fakeSource{
		normal:   buyNormal,
		internal: sellInternal,
		token:    append(buyToken, sellToken...),
	}
}

func TestServiceWalletSummary(t *testing.T) {
	source := tradeHistory()
	svc := NewService(source, fakeOracle{price: 2000}, &memCache{}, nil, nil)

	summary, err := svc.WalletSummary(context.Background(), testWallet)
	if err != nil {
		t.Fatalf("WalletSummary: %v", err)
	}

	if summary.Tokens.Purchased != 1 {
		t.Fatalf("tokens purchased = %d, want 1", summary.Tokens.Purchased)
	}
	// spend 1.0 + buy gas 0.002, gain 1.5 - sell gas 0.0045
	if !approxEqual(summary.Transactions.EthSpent, 1.002) {
		t.Fatalf("eth spent = %v, want 1.002", summary.Transactions.EthSpent)
	}
	if !approxEqual(summary.Transactions.EthGained, 1.4955) {
		t.Fatalf("eth gained = %v, want 1.4955", summary.Transactions.EthGained)
	}
	if !approxEqual(summary.Transactions.EthSpentUSD, 1.002*2000) {
		t.Fatalf("eth spent usd = %v", summary.Transactions.EthSpentUSD)
	}
	if len(summary.TopByMultiple) != 1 || summary.TopByMultiple[0].Name != "PEPE" {
		t.Fatalf("top by multiple = %+v", summary.TopByMultiple)
	}
}

func TestServiceUsesCachedSnapshot(t *testing.T) {
	source := tradeHistory()
	cache := &memCache{}
	svc := NewService(source, fakeOracle{price: 2000}, cache, nil, nil)

	if _, err := svc.WalletSummary(context.Background(), testWallet); err != nil {
		t.Fatalf("first summary: %v", err)
	}
	if _, err := svc.WalletSummary(context.Background(), testWallet); err != nil {
		t.Fatalf("second summary: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("provider fetches = %d, want 1 with a warm cache", source.calls)
	}
}

func TestServiceSummariesAreIdempotent(t *testing.T) {
	svc := NewService(tradeHistory(), fakeOracle{price: 2000}, &memCache{}, nil, nil)

	first, err := svc.WalletSummary(context.Background(), testWallet)
	if err != nil {
		t.Fatalf("first summary: %v", err)
	}
	second, err := svc.WalletSummary(context.Background(), testWallet)
	if err != nil {
		t.Fatalf("second summary: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("summaries differ across runs")
	}
}

func TestServiceBehavior(t *testing.T) {
	svc := NewService(tradeHistory(), fakeOracle{price: 2000}, &memCache{}, nil, nil)

	report, err := svc.Behavior(context.Background(), testWallet, 0)
	if err != nil {
		t.Fatalf("Behavior: %v", err)
	}
	if report.TotalTokens != 1 {
		t.Fatalf("total tokens = %d, want 1", report.TotalTokens)
	}
	if report.ProfitableSales != 1 {
		t.Fatalf("profitable sales = %d, want 1", report.ProfitableSales)
	}
}
