// Command etfsample draws from one of the shipped distributions and prints
// summary statistics of the run, together with construction and sampling
// timings.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/montanaflynn/stats"

	"ETF-Sampler/dist"
	"ETF-Sampler/etf"
	"ETF-Sampler/prof"
)

func build(name string, location, scale, shape, dof float64) (etf.Sampler[float64], error) {
	switch name {
	case "normal":
		return dist.NewNormal[float64](location, scale)
	case "central-normal":
		return dist.NewCentralNormal[float64](scale)
	case "cauchy":
		return dist.NewCauchy[float64](location, scale)
	case "gamma":
		return dist.NewGamma[float64](shape, scale)
	case "chi2":
		return dist.NewChiSquared[float64](dof)
	case "gumbel":
		return dist.NewGumbel[float64](location, scale)
	default:
		return nil, fmt.Errorf("unknown distribution %q", name)
	}
}

func main() {
	name := flag.String("dist", "normal", "distribution: normal, central-normal, cauchy, gamma, chi2 or gumbel")
	location := flag.Float64("location", 0, "location parameter (mean for normal)")
	scale := flag.Float64("scale", 1, "scale parameter (std dev for normal)")
	shape := flag.Float64("shape", 1, "shape parameter (gamma)")
	dof := flag.Float64("dof", 1, "degrees of freedom (chi2)")
	n := flag.Int("n", 1_000_000, "number of samples")
	seed := flag.String("seed", "etfsample", "seed for the BLAKE2b source")
	flag.Parse()

	start := time.Now()
	sampler, err := build(*name, *location, *scale, *shape, *dof)
	if err != nil {
		fmt.Fprintf(os.Stderr, "construction error: %v\n", err)
		os.Exit(1)
	}
	prof.Record(*name, "construct", 0, start)

	src, err := etf.NewBlakeSource([]byte(*seed))
	if err != nil {
		fmt.Fprintf(os.Stderr, "source error: %v\n", err)
		os.Exit(1)
	}

	start = time.Now()
	samples := make([]float64, *n)
	for i := range samples {
		samples[i] = sampler.Sample(src)
	}
	prof.Record(*name, "sample", *n, start)

	data := stats.Float64Data(samples)
	mean, _ := stats.Mean(data)
	stdDev, _ := stats.StandardDeviation(data)
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)
	median, _ := stats.Median(data)
	p01, _ := stats.Percentile(data, 1)
	p99, _ := stats.Percentile(data, 99)

	fmt.Printf("%s: %d samples\n", *name, *n)
	fmt.Printf("  mean    %12.6g\n", mean)
	fmt.Printf("  std dev %12.6g\n", stdDev)
	fmt.Printf("  median  %12.6g\n", median)
	fmt.Printf("  p01/p99 %12.6g / %.6g\n", p01, p99)
	fmt.Printf("  min/max %12.6g / %.6g\n", min, max)

	totals := prof.Totals()
	for _, p := range prof.SnapshotAndReset() {
		if per := p.PerSample(); per > 0 {
			fmt.Printf("  %-10s %s (%s/sample)\n", p.Label, p.Dur, per)
		} else {
			fmt.Printf("  %-10s %s\n", p.Label, p.Dur)
		}
	}
	fmt.Printf("  total      %s\n", totals["construct"]+totals["sample"])
}
