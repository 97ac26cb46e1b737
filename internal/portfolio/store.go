package portfolio

import (
	"strings"

	"tokenfolio/internal/model"
)

// TransferStore indexes the three raw transfer feeds by transaction hash for
// one analysis request. Native and internal transfers are effectively unique
// per hash (last write wins on duplicates); token transfers keep input order
// because one transaction can move several tokens.
type TransferStore struct {
	normalByHash   map[string]model.NormalTx
	internalByHash map[string]model.InternalTx
	tokenByHash    map[string][]model.TokenTx
	tokenHashOrder []string
}

// NewTransferStore builds the lookup indices. Records are taken as-is; the
// reconstruction stage handles missing or malformed fields.
func NewTransferStore(normal []model.NormalTx, internal []model.InternalTx, token []model.TokenTx) *TransferStore {
	s := &TransferStore{
		normalByHash:   make(map[string]model.NormalTx, len(normal)),
		internalByHash: make(map[string]model.InternalTx, len(internal)),
		tokenByHash:    make(map[string][]model.TokenTx),
	}
	for _, tx := range normal {
		s.normalByHash[tx.Hash] = tx
	}
	for _, tx := range internal {
		s.internalByHash[tx.Hash] = tx
	}
	for _, tx := range token {
		if _, seen := s.tokenByHash[tx.Hash]; !seen {
			s.tokenHashOrder = append(s.tokenHashOrder, tx.Hash)
		}
		s.tokenByHash[tx.Hash] = append(s.tokenByHash[tx.Hash], tx)
	}
	return s
}

// Normal returns the native transfer for a hash, if any.
func (s *TransferStore) Normal(hash string) (model.NormalTx, bool) {
	tx, ok := s.normalByHash[hash]
	return tx, ok
}

// Internal returns the internal transfer for a hash, if any.
func (s *TransferStore) Internal(hash string) (model.InternalTx, bool) {
	tx, ok := s.internalByHash[hash]
	return tx, ok
}

// TokenGroup returns all token transfers sharing a hash, in input order.
func (s *TransferStore) TokenGroup(hash string) []model.TokenTx {
	return s.tokenByHash[hash]
}

// TokenHashes returns every hash that has token transfers, in the order the
// first transfer for each hash appeared.
func (s *TransferStore) TokenHashes() []string {
	return s.tokenHashOrder
}

func sameAddress(a, b string) bool {
	return a != "" && strings.EqualFold(a, b)
}
