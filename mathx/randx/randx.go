package randx

import (
	"github.com/seehuhn/mt19937"
	"github.com/sw965/omw/mathx/randx"
	"math/rand/v2"
)

// 64bit黄金比。PCGの2つ目のシードをseedから作る為に使う。
const pcgStream = 0x9e3779b97f4a7c15

func NewPCGFromGlobalSeed() *rand.Rand {
	return randx.NewPCGFromGlobalSeed()
}

// NewPCG returns a generator whose sequence is fully determined by seed.
func NewPCG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^pcgStream))
}

// NewMT19937 returns a Mersenne Twister generator, for reproducing sequences
// recorded with the older math/rand based code.
func NewMT19937(seed int64) *rand.Rand {
	mt := mt19937.New()
	mt.Seed(seed)
	return rand.New(mt)
}

// Uniform2は独立した2つの一様乱数[0, 1)を返す。
func Uniform2(rng *rand.Rand) (float64, float64) {
	return rng.Float64(), rng.Float64()
}
