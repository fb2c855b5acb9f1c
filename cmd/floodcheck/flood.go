package main

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/thepudds/sipmap"
)

type floodMap = sipmap.Map[uint64, struct{}, sipmap.RandomState]

// Result describes one map after every adversarial key was inserted.
type Result struct {
	Name    string
	Stats   sipmap.Stats
	Elapsed time.Duration
}

// Report is the outcome of a run.
type Report struct {
	Keys  int
	Fixed Result
	// Random holds one Result per independently seeded map.
	Random []Result
	// FixedOverlap is the fraction of keys two maps with the fixed keys
	// placed in the same slot. It is 1 by construction.
	FixedOverlap float64
	// RandomOverlap[i] is the fraction of keys that Random[i] and
	// Random[i+1] placed in the same slot.
	RandomOverlap []float64
}

// adversarialKeys returns n distinct keys whose digest under target has
// its low bits zeroed. An attacker who knows target can find them offline.
func adversarialKeys(target sipmap.RandomState, n, bits int) []uint64 {
	mask := uint64(1)<<bits - 1
	keys := make([]uint64, 0, n)
	for k := uint64(0); len(keys) < n; k++ {
		if sipmap.Hash(target, k)&mask == 0 {
			keys = append(keys, k)
		}
	}
	return keys
}

func fill(name string, m *floodMap, keys []uint64, logger *zap.Logger) Result {
	start := time.Now()
	for _, k := range keys {
		m.Insert(k, struct{}{})
	}
	r := Result{Name: name, Stats: m.Stats(), Elapsed: time.Since(start)}
	logger.Info("filled map",
		zap.String("map", name),
		zap.Int("keys", m.Len()),
		zap.Int64("setExtraGroups", r.Stats.SetExtraGroups),
		zap.Int64("grows", r.Stats.Grows),
		zap.Duration("elapsed", r.Elapsed))
	return r
}

// overlap returns the fraction of keys a and b stored at the same slot.
func overlap(a, b *floodMap, keys []uint64) float64 {
	same := 0
	for _, k := range keys {
		sa, okA := a.SlotOf(k)
		sb, okB := b.SlotOf(k)
		if okA && okB && sa == sb {
			same++
		}
	}
	return float64(same) / float64(len(keys))
}

// run floods one map keyed with the fixed keys and cfg.Trials maps keyed
// from src with the same adversarial key set.
func run(cfg Config, src sipmap.SeedSource, logger *zap.Logger) (Report, error) {
	if err := cfg.validate(); err != nil {
		return Report{}, err
	}
	target := sipmap.RandomStateWithKeys(cfg.FixedK0, cfg.FixedK1)
	keys := adversarialKeys(target, cfg.Keys, cfg.Bits)
	logger.Debug("generated adversarial keys", zap.Int("n", len(keys)), zap.Int("bits", cfg.Bits))

	opts := []sipmap.Option{sipmap.WithLogger(logger)}
	report := Report{Keys: len(keys)}

	fixedA := sipmap.NewWithHasher[uint64, struct{}](target, opts...)
	fixedB := sipmap.NewWithHasher[uint64, struct{}](target, opts...)
	report.Fixed = fill("fixed", fixedA, keys, logger)
	fill("fixed-copy", fixedB, keys, logger)
	report.FixedOverlap = overlap(fixedA, fixedB, keys)

	var prev *floodMap
	for i := 0; i < cfg.Trials; i++ {
		m, err := sipmap.New[uint64, struct{}](append(opts, sipmap.WithSeedSource(src))...)
		if err != nil {
			return Report{}, err
		}
		report.Random = append(report.Random, fill(fmt.Sprintf("random-%d", i), m, keys, logger))
		if prev != nil {
			report.RandomOverlap = append(report.RandomOverlap, overlap(prev, m, keys))
		}
		prev = m
	}
	return report, nil
}
