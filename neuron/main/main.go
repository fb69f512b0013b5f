package main

import (
	"flag"
	"log"

	"github.com/sw965/hebb/block"
	"github.com/sw965/hebb/mathx"
	"github.com/sw965/hebb/mathx/randx"
	"github.com/sw965/hebb/matrix"
	"github.com/sw965/hebb/neuron"
	"github.com/sw965/hebb/persist"
	"github.com/sw965/hebb/quantity"
	"github.com/sw965/hebb/space"
)

// 文脈 x が正の時に発火すれば利益 +1、負の時に発火すれば -1 となる課題。
func main() {
	steps := flag.Int("steps", 1000, "学習ステップ数")
	seed := flag.Uint64("seed", 0, "乱数シード")
	dir := flag.String("dir", "snapshot", "保存先ディレクトリ")
	flag.Parse()

	rng := randx.NewPCG(*seed)
	r := neuron.NewRegressor(neuron.WithRand(rng))
	ok, err := r.Load(*dir, "regressor")
	if err != nil {
		log.Fatalf("読み込み失敗: %v", err)
	}
	if ok {
		log.Printf("%s を再開します", r.ID)
	}

	// 累積利益。
	profit := block.NewIntegral()
	summary := persist.NewRecord("summary")

	for i := 0; i < *steps; i++ {
		x := mathx.ConvertScale(rng.Float64(), 0.0, 1.0, -1.0, 1.0)
		r.InputStates(space.FromReals(map[string]float64{"x": x}))
		r.ProcessActivity()

		fired := r.OutputState().Pole(quantity.Positive)
		reward := 0.0
		if fired == 1.0 {
			if x > 0.0 {
				reward = 1.0
			} else {
				reward = -1.0
			}
		}
		r.InputRewards(space.FromReals(map[string]float64{"profit": reward}))
		r.ProcessLearning()

		total, err := block.Apply(profit, []float64{reward}, 1.0)
		if err != nil {
			log.Fatalf("積分失敗: %v", err)
		}
		summary.Set("profit", total[0])
		summary.Set("fired", summary.Get("fired")+fired)

		if (i+1)%100 == 0 {
			log.Printf("step %d: 累積利益 %.1f, 予測 %v", i+1, total[0], r.RewardEmission())
		}
	}

	if err := r.Save(*dir, "regressor", true); err != nil {
		log.Fatalf("保存失敗: %v", err)
	}
	if err := summary.Save(*dir, false); err != nil {
		log.Fatalf("保存失敗: %v", err)
	}

	d, labels, err := r.StimulusMatrix(quantity.Positive)
	if err != nil {
		log.Fatalf("行列化失敗: %v", err)
	}
	log.Printf("%v\n%v", labels, d.RawMatrix().Data)
	log.Printf("フロベニウスノルム: %v", matrix.Frobenius(d))

	maxAbs, err := r.StimulusMaxAbs(quantity.Positive)
	if err != nil {
		log.Fatalf("行列化失敗: %v", err)
	}
	log.Printf("刺激の重みの最大絶対値: %v", maxAbs)
}
