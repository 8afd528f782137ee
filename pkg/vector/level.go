package vector

import (
	"math"
	"math/rand"

	"github.com/cuemby/helixdb/pkg/types"
)

// Index is HelixDB's HNSW layered graph over one store's vectors. It is
// stateless between calls: all persistent state (entry point, neighbor
// tables, vectors themselves) lives in pkg/storage, read and written
// through the transaction passed to each method.
type Index struct {
	cfg types.VectorConfig
	rnd *rand.Rand
}

// New builds an Index for the given tuning, seeding its level-assignment
// source from the process-global generator.
func New(cfg types.VectorConfig) *Index {
	return &Index{cfg: cfg, rnd: rand.New(rand.NewSource(rand.Int63()))}
}

// NewWithSource builds an Index whose level assignment draws from src,
// for deterministic tests.
func NewWithSource(cfg types.VectorConfig, src rand.Source) *Index {
	return &Index{cfg: cfg, rnd: rand.New(src)}
}

// assignLevel draws ℓ = floor(-ln(r) * 1/ln(M)) for r in (0,1], the
// canonical HNSW exponentially decaying level distribution: most
// insertions land at level 0, with geometrically fewer at each level up.
func (idx *Index) assignLevel() int {
	r := idx.rnd.Float64()
	for r == 0 {
		r = idx.rnd.Float64()
	}
	return int(math.Floor(-math.Log(r) / math.Log(float64(idx.cfg.M))))
}
