package indexer

import "github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm"

// IndexedPools is a read-only, address-indexed view of a pool snapshot.
type IndexedPools interface {
	GetByAddress(address string) (clmm.PoolView, bool)
	All() []clmm.PoolView
}
