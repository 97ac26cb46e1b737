package portfolio

import "tokenfolio/internal/model"

// SwapGroup holds everything reconstructed for one transaction hash under a
// grouping token: the derived swap events first, plus the raw native and
// internal source records attached for auditing.
type SwapGroup struct {
	Swaps      []model.SwapEvent `json:"swaps"`
	NormalTx   *model.NormalTx   `json:"normalTx,omitempty"`
	InternalTx *model.InternalTx `json:"internalTx,omitempty"`
}

// Primary returns the first swap event of the group, which drives
// classification.
func (g *SwapGroup) Primary() model.SwapEvent {
	return g.Swaps[0]
}

// TokenSwaps collects the per-hash swap groups filed under one grouping
// token, preserving insertion order.
type TokenSwaps struct {
	hashes []string
	byHash map[string]*SwapGroup
}

// Hashes returns the group's transaction hashes in insertion order.
func (t *TokenSwaps) Hashes() []string {
	return t.hashes
}

// Group returns the swap group for a hash.
func (t *TokenSwaps) Group(hash string) *SwapGroup {
	return t.byHash[hash]
}

// SwapSet maps grouping tokens to their reconstructed swaps. Iteration order
// is the order tokens and hashes were first added, so downstream aggregation
// is deterministic across runs.
type SwapSet struct {
	symbols []string
	tokens  map[string]*TokenSwaps
}

func newSwapSet() *SwapSet {
	return &SwapSet{tokens: make(map[string]*TokenSwaps)}
}

func (s *SwapSet) add(symbol, hash string, ev model.SwapEvent) {
	ts, ok := s.tokens[symbol]
	if !ok {
		ts = &TokenSwaps{byHash: make(map[string]*SwapGroup)}
		s.tokens[symbol] = ts
		s.symbols = append(s.symbols, symbol)
	}
	group, ok := ts.byHash[hash]
	if !ok {
		group = &SwapGroup{}
		ts.byHash[hash] = group
		ts.hashes = append(ts.hashes, hash)
	}
	group.Swaps = append(group.Swaps, ev)
}

// Symbols returns the grouping tokens in insertion order.
func (s *SwapSet) Symbols() []string {
	return s.symbols
}

// Token returns the swaps filed under a grouping token.
func (s *SwapSet) Token(symbol string) *TokenSwaps {
	return s.tokens[symbol]
}

// Len returns the number of grouping tokens.
func (s *SwapSet) Len() int {
	return len(s.symbols)
}
