package indexer

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm"
)

// Indexer builds address-indexed views over pool snapshots.
type Indexer struct{}

// New creates a new Indexer.
func New() *Indexer {
	return &Indexer{}
}

// Index creates an indexed pool set from a raw slice of pool views.
func (i *Indexer) Index(pools []clmm.PoolView) IndexedPools {
	return NewIndexablePools(pools)
}

// IndexablePools provides lookup of pool views by their on-chain address.
type IndexablePools struct {
	byAddress map[string]clmm.PoolView
	all       []clmm.PoolView
}

// NewIndexablePools indexes pools by normalized address. A later duplicate wins.
func NewIndexablePools(pools []clmm.PoolView) *IndexablePools {
	byAddress := make(map[string]clmm.PoolView, len(pools))
	for _, p := range pools {
		byAddress[NormalizeAddress(p.PoolAddress)] = p
	}
	return &IndexablePools{
		byAddress: byAddress,
		all:       pools,
	}
}

// GetByAddress retrieves a pool by address. "0x2", "0X02" and the full
// 32-byte form all refer to the same pool.
func (ip *IndexablePools) GetByAddress(address string) (clmm.PoolView, bool) {
	p, ok := ip.byAddress[NormalizeAddress(address)]
	return p, ok
}

// All returns a defensive copy of the slice of all pools.
func (ip *IndexablePools) All() []clmm.PoolView {
	allCopy := make([]clmm.PoolView, len(ip.all))
	copy(allCopy, ip.all)
	return allCopy
}

// NormalizeAddress left-pads a hex account address to its 32-byte lowercase form.
// Strings that are not hex addresses are only trimmed and lowercased.
func NormalizeAddress(address string) string {
	trimmed := strings.ToLower(strings.TrimSpace(address))
	digits := strings.TrimPrefix(trimmed, "0x")
	if digits == "" || len(digits) > 2*common.HashLength || !isHex(digits) {
		return trimmed
	}
	return common.HexToHash(digits).Hex()
}

func isHex(s string) bool {
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
