// Package quoter serves swap, fee, reward and liquidity quotes over an indexed
// pool snapshot, with logging and Prometheus metrics around the pure calculator.
package quoter

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/feemath"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/liquiditymath"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/percentage"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/rewardmath"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/calculator/tickmath"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm/indexer"
)

const (
	kindSwap      = "swap"
	kindFees      = "fees"
	kindRewards   = "rewards"
	kindLiquidity = "liquidity"
)

var (
	ErrPoolNotFound = errors.New("pool not found")
	ErrPoolPaused   = errors.New("pool is paused")

	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
)

// Config holds the quoter's dependencies.
type Config struct {
	Registry prometheus.Registerer
	Logger   Logger
	// Clock is used for reward accrual. Defaults to time.Now.
	Clock func() time.Time
}

func (c *Config) validate() error {
	if c.Registry == nil {
		return errors.New("config: Registry cannot be nil")
	}
	if c.Logger == nil {
		return errors.New("config: Logger cannot be nil")
	}
	return nil
}

// Quoter answers quotes against the pool snapshot it was last loaded with.
// It is safe for concurrent use.
type Quoter struct {
	metrics *Metrics
	logger  Logger
	clock   func() time.Time
	indexer *indexer.Indexer

	mu    sync.RWMutex
	pools indexer.IndexedPools
}

// New constructs a Quoter with an empty snapshot.
func New(cfg *Config) (*Quoter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	ix := indexer.New()
	return &Quoter{
		metrics: NewMetrics(cfg.Registry),
		logger:  cfg.Logger,
		clock:   clock,
		indexer: ix,
		pools:   ix.Index(nil),
	}, nil
}

// Load replaces the snapshot.
func (q *Quoter) Load(views []clmm.PoolView) {
	indexed := q.indexer.Index(views)
	q.mu.Lock()
	q.pools = indexed
	q.mu.Unlock()
	q.logger.Info("pool snapshot loaded", "pools", len(views))
}

// Apply patches the snapshot with diff.
func (q *Quoter) Apply(diff clmm.PoolViewDiff) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	next, err := clmm.Patcher(q.pools.All(), diff)
	if err != nil {
		return fmt.Errorf("failed to patch snapshot: %w", err)
	}
	q.pools = q.indexer.Index(next)
	q.logger.Debug("pool snapshot patched",
		"additions", len(diff.Additions), "updates", len(diff.Updates), "deletions", len(diff.Deletions))
	return nil
}

// Pools returns the current snapshot.
func (q *Quoter) Pools() []clmm.PoolView {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.pools.All()
}

func (q *Quoter) pool(address string) (clmm.PoolView, error) {
	q.mu.RLock()
	view, ok := q.pools.GetByAddress(address)
	q.mu.RUnlock()
	if !ok {
		return clmm.PoolView{}, fmt.Errorf("%w: %s", ErrPoolNotFound, address)
	}
	return view, nil
}

func (q *Quoter) timer(kind string) *prometheus.Timer {
	return prometheus.NewTimer(q.metrics.quoteDuration.WithLabelValues(kind))
}

// Swap quotes a swap against the pool at req.PoolAddress.
func (q *Quoter) Swap(req SwapRequest) (calculator.CalculateRatesResult, error) {
	defer q.timer(kindSwap).ObserveDuration()

	view, err := q.pool(req.PoolAddress)
	if err != nil {
		return calculator.CalculateRatesResult{}, err
	}
	if view.IsPause {
		return calculator.CalculateRatesResult{}, fmt.Errorf("%w: %s", ErrPoolPaused, view.PoolAddress)
	}

	res, err := calculator.CalculateRates(calculator.CalculateRatesParams{
		DecimalsA:      req.DecimalsA,
		DecimalsB:      req.DecimalsB,
		AToB:           req.AToB,
		ByAmountIn:     req.ByAmountIn,
		Amount:         req.Amount,
		SwapTicks:      view.Ticks,
		CurrentPool:    view.Pool,
		SqrtPriceLimit: req.SqrtPriceLimit,
	})
	if err != nil {
		q.logger.Warn("swap quote failed", "pool", view.PoolAddress, "error", err)
		return calculator.CalculateRatesResult{}, err
	}

	q.metrics.crossedTicks.Observe(float64(res.CrossTickNum))
	if res.IsExceed {
		q.metrics.exceeded.Inc()
		q.logger.Debug("swap quote exceeds pool capacity",
			"pool", view.PoolAddress, "amount", req.Amount, "crossTickNum", res.CrossTickNum)
	}
	return res, nil
}

// CollectFees quotes the fees owed to position. It reports false when the snapshot
// is missing one of the position's bound ticks.
func (q *Quoter) CollectFees(position clmm.Position) (feemath.FeesQuote, bool, error) {
	defer q.timer(kindFees).ObserveDuration()

	view, err := q.pool(position.PoolAddress)
	if err != nil {
		return feemath.FeesQuote{}, false, err
	}
	quote, ok := feemath.CollectFeesQuoteFromTicks(view.Pool, position, view.Ticks)
	if !ok {
		q.metrics.unpriceable.WithLabelValues(kindFees).Inc()
		q.logger.Warn("position ticks missing from snapshot", "pool", view.PoolAddress, "position", position.Index)
	}
	return quote, ok, nil
}

// Rewards quotes every rewarder's amount owed to position as of the quoter's clock.
func (q *Quoter) Rewards(position clmm.Position) ([]rewardmath.RewarderAmountOwed, bool, error) {
	defer q.timer(kindRewards).ObserveDuration()

	view, err := q.pool(position.PoolAddress)
	if err != nil {
		return nil, false, err
	}
	owed, ok, err := rewardmath.PosRewardersAmountFromTicks(view.Pool, position, view.Ticks, q.clock())
	if err != nil {
		return nil, false, err
	}
	if !ok {
		q.metrics.unpriceable.WithLabelValues(kindRewards).Inc()
		q.logger.Warn("position ticks missing from snapshot", "pool", view.PoolAddress, "position", position.Index)
	}
	return owed, ok, nil
}

// Liquidity quotes an add-liquidity of req.Amount of one coin into [TickLower, TickUpper).
func (q *Quoter) Liquidity(req LiquidityRequest) (LiquidityQuote, error) {
	defer q.timer(kindLiquidity).ObserveDuration()

	view, err := q.pool(req.PoolAddress)
	if err != nil {
		return LiquidityQuote{}, err
	}
	liquidity, amounts, err := liquiditymath.EstimateLiquidityFromCoinAmount(
		view.CurrentSqrtPrice.Big(),
		tickmath.SqrtPriceAtTick(req.TickLower),
		tickmath.SqrtPriceAtTick(req.TickUpper),
		req.Amount,
		req.FixAmountA,
	)
	if err != nil {
		return LiquidityQuote{}, err
	}

	slippage := req.Slippage
	if slippage.Numerator == nil && slippage.Denominator == nil {
		slippage, _ = percentage.New(bigZero, bigOne)
	}
	tokenMax, err := percentage.AdjustForCoinSlippage(amounts, slippage, true)
	if err != nil {
		return LiquidityQuote{}, err
	}
	return LiquidityQuote{
		Liquidity: liquidity,
		Amounts:   amounts,
		TokenMax:  tokenMax,
		Status:    clmm.GetPositionStatus(view.CurrentTickIndex, req.TickLower, req.TickUpper),
	}, nil
}
