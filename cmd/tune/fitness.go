package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/platonic/config"
	"github.com/pthm-cable/platonic/game"
	"github.com/pthm-cable/platonic/telemetry"
)

// Weight of settle time against spread in the fitness.
const settleWeight = 0.5

// FitnessEvaluator runs headless simulations and scores force parameters.
type FitnessEvaluator struct {
	params     *ParamVector
	baseConfig *config.Config
	count      int
	maxTicks   int32
	window     int
	settleTol  float64
	seeds      []int64

	mu   sync.Mutex
	last runResult // averaged over seeds, from the most recent Evaluate
}

// runResult holds the outcome of one run.
type runResult struct {
	minPairDist float64 // at the end of the run, in radii
	settleTick  int32   // first window end with max displacement below tolerance
}

// NewFitnessEvaluator creates an evaluator that runs count particles for
// maxTicks ticks per seed.
func NewFitnessEvaluator(params *ParamVector, baseCfg *config.Config, count int, maxTicks int32, seeds []int64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		baseConfig: baseCfg,
		count:      count,
		maxTicks:   maxTicks,
		window:     30,
		settleTol:  1e-3,
		seeds:      seeds,
	}
}

// Last returns the seed-averaged result of the most recent evaluation.
func (fe *FitnessEvaluator) Last() (minPairDist float64, settleTick int32) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last.minPairDist, fe.last.settleTick
}

// Evaluate computes fitness for raw parameter values (lower = better):
// points pushed further apart and settling sooner both score lower.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var avg runResult
	var totalFitness float64
	for _, r := range results {
		totalFitness += fe.computeFitness(r)
		avg.minPairDist += r.minPairDist
		avg.settleTick += r.settleTick
	}
	n := float64(len(results))
	avg.minPairDist /= n
	avg.settleTick /= int32(len(results))

	fe.mu.Lock()
	fe.last = avg
	fe.mu.Unlock()

	return totalFitness / n
}

func (fe *FitnessEvaluator) computeFitness(r runResult) float64 {
	return -r.minPairDist + settleWeight*float64(r.settleTick)/float64(fe.maxTicks)
}

// runSimulation executes a single headless run.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) runResult {
	cfg := fe.copyConfig()
	cfg.Telemetry.StatsWindow = fe.window
	cfg.Particles.Initial = fe.count
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		return runResult{settleTick: fe.maxTicks}
	}

	g := game.NewGameWithOptions(game.Options{Config: cfg, Seed: seed, Headless: true})
	defer g.Unload()

	result := runResult{settleTick: fe.maxTicks}
	settled := false
	var last telemetry.WindowStats
	g.SetStatsCallback(func(s telemetry.WindowStats) {
		last = s
		if !settled && s.MaxDisplacement < fe.settleTol*cfg.Sphere.Radius {
			settled = true
			result.settleTick = s.WindowEndTick
		}
	})

	for g.TickCount() < fe.maxTicks {
		g.Tick()
	}

	if math.IsNaN(last.MinPairDist) {
		return runResult{settleTick: fe.maxTicks}
	}
	result.minPairDist = last.MinPairDist / cfg.Sphere.Radius
	return result
}

// copyConfig returns an independent copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}
