package snapshot

// Numbers wider than 64 bits travel as decimal (or 0x-prefixed hex) strings so
// YAML and JSON readers never round them through float64.

type RewarderDTO struct {
	CoinType           string `yaml:"coinType" json:"coinType"`
	EmissionsPerSecond string `yaml:"emissionsPerSecond" json:"emissionsPerSecond"`
	GrowthGlobal       string `yaml:"growthGlobal" json:"growthGlobal"`
}

type TickDTO struct {
	Index                  int32    `yaml:"index" json:"index"`
	SqrtPrice              string   `yaml:"sqrtPrice,omitempty" json:"sqrtPrice,omitempty"`
	LiquidityGross         string   `yaml:"liquidityGross,omitempty" json:"liquidityGross,omitempty"`
	LiquidityNet           string   `yaml:"liquidityNet" json:"liquidityNet"`
	FeeGrowthOutsideA      string   `yaml:"feeGrowthOutsideA,omitempty" json:"feeGrowthOutsideA,omitempty"`
	FeeGrowthOutsideB      string   `yaml:"feeGrowthOutsideB,omitempty" json:"feeGrowthOutsideB,omitempty"`
	RewardersGrowthOutside []string `yaml:"rewardersGrowthOutside,omitempty" json:"rewardersGrowthOutside,omitempty"`
}

type PoolDTO struct {
	PoolAddress             string        `yaml:"poolAddress" json:"poolAddress"`
	CoinTypeA               string        `yaml:"coinTypeA" json:"coinTypeA"`
	CoinTypeB               string        `yaml:"coinTypeB" json:"coinTypeB"`
	TickSpacing             uint32        `yaml:"tickSpacing" json:"tickSpacing"`
	CurrentSqrtPrice        string        `yaml:"currentSqrtPrice" json:"currentSqrtPrice"`
	CurrentTickIndex        int32         `yaml:"currentTickIndex" json:"currentTickIndex"`
	Liquidity               string        `yaml:"liquidity" json:"liquidity"`
	FeeRate                 uint32        `yaml:"feeRate" json:"feeRate"`
	FeeGrowthGlobalA        string        `yaml:"feeGrowthGlobalA,omitempty" json:"feeGrowthGlobalA,omitempty"`
	FeeGrowthGlobalB        string        `yaml:"feeGrowthGlobalB,omitempty" json:"feeGrowthGlobalB,omitempty"`
	FeeProtocolCoinA        uint64        `yaml:"feeProtocolCoinA,omitempty" json:"feeProtocolCoinA,omitempty"`
	FeeProtocolCoinB        uint64        `yaml:"feeProtocolCoinB,omitempty" json:"feeProtocolCoinB,omitempty"`
	Rewarders               []RewarderDTO `yaml:"rewarders,omitempty" json:"rewarders,omitempty"`
	RewarderLastUpdatedTime uint64        `yaml:"rewarderLastUpdatedTime,omitempty" json:"rewarderLastUpdatedTime,omitempty"`
	IsPause                 bool          `yaml:"isPause,omitempty" json:"isPause,omitempty"`
	Ticks                   []TickDTO     `yaml:"ticks" json:"ticks"`
}

type PositionDTO struct {
	PoolAddress        string   `yaml:"poolAddress" json:"poolAddress"`
	Index              uint64   `yaml:"index" json:"index"`
	Liquidity          string   `yaml:"liquidity" json:"liquidity"`
	TickLowerIndex     int32    `yaml:"tickLowerIndex" json:"tickLowerIndex"`
	TickUpperIndex     int32    `yaml:"tickUpperIndex" json:"tickUpperIndex"`
	FeeGrowthInsideA   string   `yaml:"feeGrowthInsideA,omitempty" json:"feeGrowthInsideA,omitempty"`
	FeeGrowthInsideB   string   `yaml:"feeGrowthInsideB,omitempty" json:"feeGrowthInsideB,omitempty"`
	FeeOwedA           string   `yaml:"feeOwedA,omitempty" json:"feeOwedA,omitempty"`
	FeeOwedB           string   `yaml:"feeOwedB,omitempty" json:"feeOwedB,omitempty"`
	RewardGrowthInside []string `yaml:"rewardGrowthInside,omitempty" json:"rewardGrowthInside,omitempty"`
	RewardAmountOwed   []string `yaml:"rewardAmountOwed,omitempty" json:"rewardAmountOwed,omitempty"`
}

// File is the on-disk layout of a snapshot.
type File struct {
	Pools     []PoolDTO     `yaml:"pools" json:"pools"`
	Positions []PositionDTO `yaml:"positions,omitempty" json:"positions,omitempty"`
}
