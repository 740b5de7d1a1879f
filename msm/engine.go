// Package msm implements the Pippenger/bucket-method multi-scalar
// multiplication pipeline (C6-C9) for BN254's G1, wired together with
// package curve, field, scalar, arena, and threadpool.
package msm

import (
	"encoding/binary"
	"math/big"
	"math/bits"

	"github.com/minio/sha256-simd"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mitschabaude/msm-zprize/arena"
	"github.com/mitschabaude/msm-zprize/curve"
	"github.com/mitschabaude/msm-zprize/field"
	"github.com/mitschabaude/msm-zprize/params"
	"github.com/mitschabaude/msm-zprize/scalar"
	"github.com/mitschabaude/msm-zprize/threadpool"
)

// Options are the per-MSM tuning knobs named in §6: window width c,
// column sub-window width c0, and whether the unsafe (no edge-case
// checking) batch-add variant is used for the first bucket-accumulation
// pass (later passes are always safe).
type Options struct {
	C                int
	C0               int
	UseSafeAdditions bool
}

// Log carries the diagnostics an Engine.Msm run collects: the window
// width chosen, thread count, and largest bucket observed, in place of
// the ad hoc printf-style benchmarking the CLI would otherwise need.
type Log struct {
	N             int
	Threads       int
	WindowBits    int
	SubWindowBits int
	MaxBucketSize int
}

// Engine is the BN254 MSM engine: the curve parameters, an arena, and a
// worker pool. The field and curve constants it computes with are
// package-level values of packages field and curve, not per-instance state.
type Engine struct {
	curve  params.Curve
	pool   *threadpool.Pool
	arena  *arena.Arena
	logger *zap.Logger

	started bool
}

// cTableEntry is one row of the small lookup table §4.6 describes,
// mapping log2(N) to a tuned (c, c0) pair.
type cTableEntry struct {
	c, c0 int
}

// cTable holds the tuned window widths for N in [2^14, 2^18], the sizes
// this engine targets (§1). Outside that range Create falls back to
// c = n-1, c0 = c/2, per §4.6's stated default — an explicitly untested
// extrapolation, called out again in DESIGN.md's Open Question section.
var cTable = map[int]cTableEntry{
	14: {c: 13, c0: 7},
	15: {c: 14, c0: 7},
	16: {c: 15, c0: 8},
	17: {c: 16, c0: 8},
	18: {c: 16, c0: 8},
}

// Create builds an Engine for BN254's G1. It rejects a curve flagged
// WidePrime or one failing p+2^206 < 2^255 — such a base field belongs to
// WideEngine instead, and attempting to Create an Engine for one is a
// configuration error (§7 kind 3). It does not check that p is BN254's
// modulus; the arithmetic always uses BN254's field and curve constants.
func Create(p params.Curve, logger *zap.Logger) (*Engine, error) {
	if p.WidePrime {
		return nil, errors.Errorf("msm: curve %q exceeds the 255-bit kernel bound; use WideEngine", p.Name)
	}
	bound := new(big.Int).Lsh(big.NewInt(1), 206)
	bound.Add(bound, p.Modulus)
	ceil := new(big.Int).Lsh(big.NewInt(1), 255)
	if bound.Cmp(ceil) >= 0 {
		return nil, errors.Errorf("msm: curve %q fails p+2^206 < 2^255", p.Name)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{curve: p, arena: arena.New(), logger: logger}, nil
}

// StartThreads starts a T-worker pool. Calling it while already started
// is a configuration error (§7 kind 3).
func (e *Engine) StartThreads(t int) error {
	if e.started {
		return errors.New("msm: threads already started")
	}
	e.pool = threadpool.New(t)
	e.pool.Start()
	e.started = true
	return nil
}

// StopThreads tears down the worker pool.
func (e *Engine) StopThreads() {
	if e.pool != nil {
		e.pool.Stop()
	}
	e.started = false
}

func windowWidth(n int) (c, c0 int) {
	if entry, ok := cTable[n]; ok {
		return entry.c, entry.c0
	}
	c = n - 1
	if c < 1 {
		c = 1
	}
	return c, c / 2
}

// Msm computes S = sum(scalars[i] * points[i]) using safe batch additions
// throughout — the default, edge-case-tolerant path from §4.5.
func (e *Engine) Msm(scalars []scalar.Sc, points []curve.PA) (curve.PP, Log, error) {
	return e.msm(scalars, points, Options{UseSafeAdditions: true})
}

// MsmUnsafe is Msm with UseSafeAdditions = false: the first
// bucket-accumulation pass uses the unsafe batch add, which is valid only
// when no input point is the identity and no two points paired in that
// pass share an x-coordinate, per §4.5. Later passes use the safe
// variant.
func (e *Engine) MsmUnsafe(scalars []scalar.Sc, points []curve.PA) (curve.PP, Log, error) {
	return e.msm(scalars, points, Options{UseSafeAdditions: false})
}

func (e *Engine) msm(scalars []scalar.Sc, points []curve.PA, opts Options) (curve.PP, Log, error) {
	n := len(scalars)
	if n != len(points) {
		return curve.PP{}, Log{}, errors.New("msm: scalars and points length mismatch")
	}
	if n == 0 {
		return curve.InfinityPP(), Log{}, nil
	}
	if !e.started || e.pool == nil {
		return curve.PP{}, Log{}, errors.New("msm: threads not started")
	}

	c, c0 := opts.C, opts.C0
	if c == 0 {
		c, c0 = windowWidth(bits.Len(uint(n)) - 1)
	}
	if c0 == 0 {
		c0 = c / 2
		if c0 < 1 {
			c0 = 1
		}
	}

	mark := e.arena.Save()
	defer e.arena.Release(mark)

	prep, err := e.prepare(scalars, points, c, opts.UseSafeAdditions)
	if err != nil {
		return curve.PP{}, Log{}, errors.Wrap(err, "msm: prepare")
	}

	if err := e.accumulateBuckets(prep, opts.UseSafeAdditions); err != nil {
		return curve.PP{}, Log{}, errors.Wrap(err, "msm: bucket accumulation")
	}

	partitions, err := e.reduceBuckets(prep, c0)
	if err != nil {
		return curve.PP{}, Log{}, errors.Wrap(err, "msm: bucket reduction")
	}

	result := combine(partitions, c)

	e.logger.Debug("msm complete",
		zap.Int("n", n),
		zap.Int("threads", e.pool.N()),
		zap.Int("windowBits", c),
		zap.Int("subWindowBits", c0),
		zap.Int("maxBucketSize", prep.maxBucketSize),
	)

	return result, Log{
		N:             n,
		Threads:       e.pool.N(),
		WindowBits:    c,
		SubWindowBits: c0,
		MaxBucketSize: prep.maxBucketSize,
	}, nil
}

// ToAffine and ToBigint are the auxiliary conversions named in §6, used
// by callers (tests, benches) that need to compare a projective result
// against a reference computed with arbitrary-precision arithmetic.
func ToAffine(p curve.PP) curve.PA { return curve.ToAffine(p) }

func ToBigint(a curve.PA) (x, y *big.Int, infinity bool) {
	if a.Infinity {
		return nil, nil, true
	}
	return field.ToBig(a.X), field.ToBig(a.Y), false
}

// RandomScalars and RandomPointsFast are the benchmark-only RNG utilities
// named in §6: fast, reproducible generation for exercising the pipeline
// at realistic N. RandomScalars derives its stream from SHA-256 in counter
// mode (label || seed || counter, hashed and consumed as raw entropy, via
// github.com/minio/sha256-simd) rather than a hand-rolled bit-mixing PRNG,
// so a fixed seed always reproduces exactly the same scalars on any
// machine. RandomPointsFast does not use the hash stream; see its own
// comment.
func RandomScalars(n int, seed uint64) []scalar.Sc {
	out := make([]scalar.Sc, n)
	stream := newHashStream(seed, "msm-zprize:scalars")
	for i := range out {
		out[i] = scalar.SetBytes(stream.next())
	}
	return out
}

// RandomPointsFast generates n distinct curve points cheaply by walking
// the generator's multiples (G, 2G, 3G, ...) rather than performing a
// fresh scalar multiplication per point — sufficient for exercising the
// pipeline's memory layout and batch-add edge cases, but not
// independently random the way RandomScalars' outputs are.
func RandomPointsFast(n int, seed uint64) []curve.PA {
	_ = seed
	g := curve.PA{X: field.FromBig(params.BN254().GeneratorX), Y: field.FromBig(params.BN254().GeneratorY)}
	out := make([]curve.PA, n)
	acc := curve.ToProjective(g)
	for i := range out {
		out[i] = curve.ToAffine(acc)
		acc = curve.Add(acc, curve.ToProjective(g))
	}
	return out
}

// hashStream produces successive 32-byte blocks of SHA-256(label, seed,
// counter), a minimal counter-mode DRBG sufficient for deterministic
// benchmark inputs (not a suitable primitive for anything requiring real
// unpredictability).
type hashStream struct {
	seed    uint64
	label   string
	counter uint64
}

func newHashStream(seed uint64, label string) *hashStream {
	return &hashStream{seed: seed, label: label}
}

func (s *hashStream) next() []byte {
	h := sha256.New()
	h.Write([]byte(s.label))
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], s.seed)
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], s.counter)
	h.Write(buf[:])
	s.counter++
	return h.Sum(nil)
}
