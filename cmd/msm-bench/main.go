// Command msm-bench is the thin front-end named in §6: it invokes
// Engine.Msm and reports timing/log statistics. It carries none of the
// pipeline's own logic — just flag parsing, input generation, and
// printing, per §6's "CLI is out of scope for the core" boundary.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mitschabaude/msm-zprize/msm"
	"github.com/mitschabaude/msm-zprize/params"
	"github.com/mitschabaude/msm-zprize/threadpool"
)

var (
	logN    int
	threads int
	unsafe  bool
	seed    uint64
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "msm-bench",
		Short: "Benchmark the BN254 multi-scalar multiplication engine.",
	}
	cmd.AddCommand(runCmd())
	return cmd
}

func runCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "run",
		Short: "Run an MSM of size 2^logN and report timing.",
		RunE:  runMsm,
	}
	flags := c.Flags()
	flags.IntVar(&logN, "log-n", 16, "log2 of the number of scalar/point pairs")
	flags.IntVar(&threads, "threads", 0, "worker count (0 = GOMAXPROCS-sized default)")
	flags.BoolVar(&unsafe, "unsafe", false, "use the unsafe batch-add variant")
	flags.Uint64Var(&seed, "seed", 1, "deterministic RNG seed for benchmark inputs")
	return c
}

func runMsm(cmd *cobra.Command, args []string) error {
	if logN < 0 || logN > 30 {
		return errors.Errorf("msm-bench: log-n out of range: %d", logN)
	}
	n := 1 << uint(logN)

	// The CLI gets a human-readable console encoder; JSON is for library
	// callers embedding the engine in a service.
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	logger, err := cfg.Build()
	if err != nil {
		return errors.Wrap(err, "msm-bench: building logger")
	}
	defer logger.Sync()

	engine, err := msm.Create(params.BN254(), logger)
	if err != nil {
		return errors.Wrap(err, "msm-bench: creating engine")
	}

	t := threads
	if t == 0 {
		t = threadpool.New(0).N()
	}
	if err := engine.StartThreads(t); err != nil {
		return errors.Wrap(err, "msm-bench: starting threads")
	}
	defer engine.StopThreads()

	scalars := msm.RandomScalars(n, seed)
	points := msm.RandomPointsFast(n, seed)

	start := time.Now()
	var log msm.Log
	if unsafe {
		_, log, err = engine.MsmUnsafe(scalars, points)
	} else {
		_, log, err = engine.Msm(scalars, points)
	}
	elapsed := time.Since(start)
	if err != nil {
		return errors.Wrap(err, "msm-bench: running msm")
	}

	fmt.Printf("N=%d threads=%d windowBits=%d subWindowBits=%d maxBucketSize=%d elapsed=%s\n",
		log.N, log.Threads, log.WindowBits, log.SubWindowBits, log.MaxBucketSize, elapsed)
	return nil
}
