package tsp

import (
	"math"
	"math/rand"
	"sort"
)

// GeneticConfig tunes the genetic refiner. Zero values fall back to
// DefaultGeneticConfig fields.
type GeneticConfig struct {
	// PopulationSize is the number of individuals per generation.
	PopulationSize int
	// Generations is the fixed iteration count.
	Generations int
	// TournamentK is the selection tournament size.
	TournamentK int
	// MutationRate is the per-child mutation probability.
	MutationRate float64
	// EliteRatio is the share of best individuals copied unchanged.
	EliteRatio float64
	// ImmigrantRatio is the share of fresh random shuffles injected each
	// generation to escape local optima.
	ImmigrantRatio float64
}

// DefaultGeneticConfig returns the production tuning.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 80,
		Generations:    200,
		TournamentK:    4,
		MutationRate:   0.18,
		EliteRatio:     0.12,
		ImmigrantRatio: 0.06,
	}
}

func (c GeneticConfig) withDefaults() GeneticConfig {
	def := DefaultGeneticConfig()
	if c.PopulationSize <= 0 {
		c.PopulationSize = def.PopulationSize
	}
	if c.Generations <= 0 {
		c.Generations = def.Generations
	}
	if c.TournamentK <= 0 {
		c.TournamentK = def.TournamentK
	}
	if c.MutationRate <= 0 {
		c.MutationRate = def.MutationRate
	}
	if c.EliteRatio <= 0 {
		c.EliteRatio = def.EliteRatio
	}
	if c.ImmigrantRatio <= 0 {
		c.ImmigrantRatio = def.ImmigrantRatio
	}
	return c
}

// Genetic refines a tour with a permutation GA. The seed (normally the
// 3-opt result) joins the initial population verbatim, so with elitism the
// best-ever fitness never regresses below the seed's. Returns the best
// individual seen across all generations.
func Genetic(seed []int, eval *FitnessEvaluator, cfg GeneticConfig, rng *rand.Rand) []int {
	n := len(seed) - 1
	if n < 2 {
		return append([]int(nil), seed...)
	}
	cfg = cfg.withDefaults()

	population := make([][]int, cfg.PopulationSize)
	population[0] = append([]int(nil), seed...)
	for i := 1; i < cfg.PopulationSize; i++ {
		population[i] = randomTour(n, rng)
	}

	bestEver := append([]int(nil), seed...)
	bestFitness := eval.Fitness(bestEver)

	eliteCount := int(cfg.EliteRatio * float64(cfg.PopulationSize))
	if eliteCount < 1 {
		eliteCount = 1
	}
	immigrantCount := int(cfg.ImmigrantRatio * float64(cfg.PopulationSize))

	for gen := 0; gen < cfg.Generations; gen++ {
		ranked := make([]scored, len(population))
		for i, route := range population {
			ranked[i] = scored{route: route, fitness: eval.Fitness(route)}
		}
		sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].fitness < ranked[b].fitness })

		if ranked[0].fitness < bestFitness {
			bestFitness = ranked[0].fitness
			bestEver = append(bestEver[:0:0], ranked[0].route...)
		}

		next := make([][]int, 0, cfg.PopulationSize)
		for i := 0; i < eliteCount && i < len(ranked); i++ {
			next = append(next, append([]int(nil), ranked[i].route...))
		}
		for i := 0; i < immigrantCount && len(next) < cfg.PopulationSize; i++ {
			next = append(next, randomTour(n, rng))
		}
		for len(next) < cfg.PopulationSize {
			p1 := tournament(ranked, cfg.TournamentK, rng)
			p2 := tournament(ranked, cfg.TournamentK, rng)
			child := orderedCrossover(p1, p2, rng)
			if rng.Float64() < cfg.MutationRate {
				mutate(child, rng)
			}
			next = append(next, child)
		}
		population = next
	}

	return bestEver
}

// randomTour builds 0 followed by a shuffle of 1..n.
func randomTour(n int, rng *rand.Rand) []int {
	route := make([]int, n+1)
	for i, v := range rng.Perm(n) {
		route[i+1] = v + 1
	}
	return route
}

type scored struct {
	route   []int
	fitness float64
}

// tournament picks the fittest of k random individuals.
func tournament(ranked []scored, k int, rng *rand.Rand) []int {
	best := -1
	bestFitness := math.Inf(1)
	for i := 0; i < k; i++ {
		idx := rng.Intn(len(ranked))
		if ranked[idx].fitness < bestFitness {
			best = idx
			bestFitness = ranked[idx].fitness
		}
	}
	return ranked[best].route
}

// orderedCrossover copies a random slice of p1 into the child and fills the
// remaining positions with p2's genes in p2 order. Position 0 (depot) is
// fixed.
func orderedCrossover(p1, p2 []int, rng *rand.Rand) []int {
	n := len(p1) - 1
	a := 1 + rng.Intn(n)
	b := 1 + rng.Intn(n)
	if a > b {
		a, b = b, a
	}

	child := make([]int, len(p1))
	taken := make(map[int]bool, b-a+1)
	for i := a; i <= b; i++ {
		child[i] = p1[i]
		taken[p1[i]] = true
	}

	fill := 1
	for _, gene := range p2[1:] {
		if taken[gene] {
			continue
		}
		for fill >= a && fill <= b {
			fill++
		}
		if fill > n {
			break
		}
		child[fill] = gene
		fill++
	}

	return child
}

// mutate applies either a two-position swap or a segment reverse, each with
// probability 0.5, on positions 1..n.
func mutate(route []int, rng *rand.Rand) {
	n := len(route) - 1
	i := 1 + rng.Intn(n)
	j := 1 + rng.Intn(n)
	if i > j {
		i, j = j, i
	}

	if rng.Float64() < 0.5 {
		route[i], route[j] = route[j], route[i]
		return
	}
	reverseSegment(route, i, j+1)
}
