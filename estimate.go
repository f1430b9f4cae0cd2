// Package pgm holds the building blocks of probabilistic graphical models over
// named variables.
//
// The distributions themselves live in package distribution. This package
// provides Monte Carlo estimation of expected values under any of them, which
// is how a consumer that chains distributions together (such as a belief
// network) evaluates quantities with no closed form.
package pgm

import (
	"math/rand/v2"
	"runtime"
	"sync"

	"github.com/jakkes/PGM/distribution"
	logging "github.com/op/go-logging"
	"gonum.org/v1/gonum/stat"
)

var log = logging.MustGetLogger("pgm")

const defaultSamples = 10000

// Settings controls the Monte Carlo estimate.
type Settings struct {
	Samples    int // Number of samples. If 0, defaults to 10000.
	Concurrent int // Number of concurrent workers. If 0, defaults to GOMAXPROCS.
}

// Result is a Monte Carlo estimate of an expected value.
type Result struct {
	EV  float64
	Std float64 // Standard error of EV
}

// Estimate estimates the expected value of fn under d by Monte Carlo sampling.
//
// The samples are split between the workers, and each worker draws from its own
// generator seeded from src. The result is therefore reproducible for a fixed
// src, number of samples and number of workers. If src is nil the seeds come
// from the process-wide generator. settings may be nil.
//
// fn is called concurrently and must be safe for concurrent use.
func Estimate(d distribution.Distribution, fn func(x []float64) float64, settings *Settings, src rand.Source) Result {
	if d == nil {
		panic("pgm: nil Distribution")
	}
	if settings == nil {
		settings = &Settings{}
	}
	nSamples := settings.Samples
	if nSamples < 0 {
		panic("pgm: negative number of samples")
	}
	if nSamples == 0 {
		nSamples = defaultSamples
	}
	concurrent := settings.Concurrent
	if concurrent <= 0 {
		concurrent = runtime.GOMAXPROCS(0)
	}
	if concurrent > nSamples {
		concurrent = nSamples
	}

	seed := rand.Uint64
	if src != nil {
		seed = rand.New(src).Uint64
	}
	type job struct {
		src        rand.Source
		start, end int
	}
	jobs := make([]job, concurrent)
	sz := nSamples / concurrent
	for i := range jobs {
		jobs[i] = job{
			src:   rand.NewPCG(seed(), seed()),
			start: i * sz,
			end:   (i + 1) * sz,
		}
	}
	jobs[concurrent-1].end = nSamples

	fs := make([]float64, nSamples)
	var wg sync.WaitGroup
	for _, j := range jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			for i, x := range d.Sample(j.end-j.start, j.src) {
				fs[j.start+i] = fn(x)
			}
		}(j)
	}
	wg.Wait()

	mean, std := stat.MeanStdDev(fs, nil)
	res := Result{
		EV:  mean,
		Std: stat.StdErr(std, float64(nSamples)),
	}
	log.Debugf("estimated %v from %d samples over %v with %d workers", res, nSamples, d.VariableNames(), concurrent)
	return res
}
