package portfolio

import (
	"strings"

	"go.uber.org/zap"

	"tokenfolio/internal/model"
)

// Reconstructor deduces economic swaps from raw transfer records that share
// a transaction hash. Hashes that cannot be resolved to both an outgoing and
// an incoming leg are dropped silently: they are noise (approvals, airdrops,
// plain transfers), not errors.
type Reconstructor struct {
	store  *TransferStore
	wallet string
	logger *zap.Logger
}

// NewReconstructor builds a reconstructor for one wallet address.
func NewReconstructor(store *TransferStore, wallet string, logger *zap.Logger) *Reconstructor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconstructor{
		store:  store,
		wallet: strings.ToLower(wallet),
		logger: logger,
	}
}

// rawLeg is one side of a swap before normalization. An empty decimals field
// marks the native asset.
type rawLeg struct {
	symbol   string
	raw      string
	decimals string
	contract string
}

func (l rawLeg) native() bool {
	return l.symbol == NativeSymbol
}

// Reconstruct walks every hash with token transfers and files the resolved
// swaps under their grouping token: the outgoing token when the wallet
// received ETH, otherwise the incoming token. A post-pass attaches the raw
// native and internal records sharing each grouped hash.
func (r *Reconstructor) Reconstruct() *SwapSet {
	set := newSwapSet()

	for _, hash := range r.store.TokenHashes() {
		records := r.store.TokenGroup(hash)

		var ev *model.SwapEvent
		if len(records) > 1 {
			ev = r.multiLegSwap(hash, records)
		} else {
			ev = r.singleLegSwap(hash, records[0])
		}
		if ev == nil {
			continue
		}

		key := ev.GainedToken
		if ev.GainedToken == NativeSymbol {
			key = ev.SwappedToken
		}
		set.add(key, hash, *ev)
	}

	for _, symbol := range set.Symbols() {
		ts := set.Token(symbol)
		for _, hash := range ts.Hashes() {
			group := ts.Group(hash)
			if tx, ok := r.store.Normal(hash); ok {
				attached := tx
				group.NormalTx = &attached
			}
			if tx, ok := r.store.Internal(hash); ok {
				attached := tx
				group.InternalTx = &attached
			}
		}
	}

	return set
}

// multiLegSwap handles a hash with several token transfers: token-to-token
// swaps and swaps with an extra tax or burn leg.
func (r *Reconstructor) multiLegSwap(hash string, records []model.TokenTx) *model.SwapEvent {
	var outgoing, incoming, taxLeg *model.TokenTx

	for i := range records {
		tkn := &records[i]
		if sameAddress(tkn.From, r.wallet) {
			switch {
			case sameAddress(tkn.To, tkn.ContractAddress):
				// self-transfer back to the token contract, usually a fee skim
				taxLeg = tkn
				continue
			case sameAddress(tkn.To, burnAddress):
				continue
			default:
				outgoing = tkn
			}
		}
		if sameAddress(tkn.To, r.wallet) {
			incoming = tkn
		}
	}

	var in rawLeg
	ts := ""
	switch {
	case incoming != nil:
		in = rawLeg{symbol: incoming.TokenName, raw: incoming.Value, decimals: incoming.TokenDecimal, contract: incoming.ContractAddress}
		ts = incoming.TimeStamp
	default:
		// nothing arrived as a token; the proceeds may be ETH via an
		// internal transfer on the same hash
		itx, ok := r.store.Internal(hash)
		if !ok {
			r.logger.Debug("unrecognized swap, no incoming leg", zap.String("hash", hash))
			return nil
		}
		in = rawLeg{symbol: NativeSymbol, raw: itx.Value}
		ts = itx.TimeStamp
	}

	if outgoing == nil {
		r.logger.Debug("unrecognized swap, no outgoing leg", zap.String("hash", hash))
		return nil
	}

	out := rawLeg{symbol: outgoing.TokenName, raw: outgoing.Value, decimals: outgoing.TokenDecimal, contract: outgoing.ContractAddress}
	return r.buildEvent(hash, out, in, outgoing.GasPrice, outgoing.GasUsed, ts, taxLeg)
}

// singleLegSwap handles a hash with exactly one token transfer: the counter
// leg must be ETH, correlated through the native or internal transfer that
// shares the hash.
func (r *Reconstructor) singleLegSwap(hash string, tkn model.TokenTx) *model.SwapEvent {
	var out, in rawLeg
	var gasPrice, gasUsed string

	switch {
	case sameAddress(tkn.From, r.wallet):
		// token left the wallet; ETH proceeds arrive as an internal transfer
		out = rawLeg{symbol: tkn.TokenName, raw: tkn.Value, decimals: tkn.TokenDecimal, contract: tkn.ContractAddress}
		in = rawLeg{symbol: NativeSymbol}
		if itx, ok := r.store.Internal(hash); ok {
			in.raw = itx.Value
		}
		gasPrice, gasUsed = tkn.GasPrice, tkn.GasUsed
	case sameAddress(tkn.To, r.wallet):
		// token arrived; the ETH spent is the native transaction's value
		in = rawLeg{symbol: tkn.TokenName, raw: tkn.Value, decimals: tkn.TokenDecimal, contract: tkn.ContractAddress}
		out = rawLeg{symbol: NativeSymbol}
		if ntx, ok := r.store.Normal(hash); ok {
			out.raw = ntx.Value
			gasPrice, gasUsed = ntx.GasPrice, ntx.GasUsed
		}
	default:
		return nil
	}

	return r.buildEvent(hash, out, in, gasPrice, gasUsed, tkn.TimeStamp, nil)
}

// buildEvent normalizes both legs and applies the dust, same-asset, and
// placeholder filters. A nil return means the hash is excluded from all
// further analysis.
func (r *Reconstructor) buildEvent(hash string, out, in rawLeg, gasPrice, gasUsed, ts string, taxLeg *model.TokenTx) *model.SwapEvent {
	if out.symbol == wrappedNativeName {
		out.symbol = NativeSymbol
		out.decimals = ""
	}
	if in.symbol == wrappedNativeName {
		in.symbol = NativeSymbol
		in.decimals = ""
	}

	if out.symbol == "" || in.symbol == "" {
		r.logger.Debug("swap leg without token name", zap.String("hash", hash))
		return nil
	}
	if out.symbol == NativeSymbol && in.symbol == NativeSymbol {
		return nil
	}
	if out.symbol == placeholderToken || in.symbol == placeholderToken {
		return nil
	}
	// a native leg with no recorded counter-transfer cannot be priced
	if (out.native() && out.raw == "") || (in.native() && in.raw == "") {
		r.logger.Debug("swap missing native counter-leg", zap.String("hash", hash))
		return nil
	}

	outAmount := r.normalizeLeg(hash, out)
	inAmount := r.normalizeLeg(hash, in)

	if out.native() && outAmount < dustThreshold {
		return nil
	}
	if in.native() && inAmount < dustThreshold {
		return nil
	}

	gas, err := gasCostEth(gasPrice, gasUsed)
	if err != nil {
		r.logger.Warn("gas cost unavailable", zap.String("hash", hash), zap.Error(err))
	}

	contract := out.contract
	if contract == "" {
		contract = in.contract
	}

	ev := &model.SwapEvent{
		SwappedToken:   out.symbol,
		SwappedAddress: contract,
		SwappedRaw:     out.raw,
		SwappedAmount:  outAmount,
		GainedToken:    in.symbol,
		GainedRaw:      in.raw,
		GainedAmount:   inAmount,
		GasCost:        gas,
		Timestamp:      parseUnix(ts),
		Hash:           hash,
	}
	if taxLeg != nil {
		ev.TaxedRaw = taxLeg.Value
		taxed := *taxLeg
		ev.TaxedTx = &taxed
	}
	return ev
}

// normalizeLeg converts a leg's raw amount. A failed conversion is logged
// and yields zero; the swap itself still goes through.
func (r *Reconstructor) normalizeLeg(hash string, l rawLeg) float64 {
	var amount float64
	var err error
	if l.native() {
		amount, err = normalizeAmount(l.raw, nativeDecimals)
	} else {
		amount, err = normalizeTokenAmount(l.raw, l.decimals)
	}
	if err != nil {
		r.logger.Warn("normalize swap amount",
			zap.String("hash", hash),
			zap.String("token", l.symbol),
			zap.Error(err),
		)
		return 0
	}
	return amount
}
