// Command floodcheck shows what a keyed hash buys against hash flooding.
//
// It picks a pair of SipHash keys an attacker is assumed to know, searches
// for keys that all start probing at the same group under them, and
// inserts those keys into a map using the known keys and into several maps
// keyed by fresh randomness. The first degrades to long probe sequences;
// the others should look like any well spread map, and should place keys
// in unrelated slots.
//
//	floodcheck -keys 5000 -bits 9
//	floodcheck -cfg flood.toml -v
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/thepudds/sipmap"
)

var (
	configFile = flag.String("cfg", "", "toml configuration file")
	keysFlag   = flag.Int("keys", 0, "number of adversarial keys (overrides config)")
	bitsFlag   = flag.Int("bits", 0, "low digest bits to force to zero (overrides config)")
	trialsFlag = flag.Int("trials", 0, "number of randomly keyed maps (overrides config)")
	verbose    = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()

	cfg, err := parseConfigFromFile(*configFile)
	if err != nil {
		panic(fmt.Sprintf("failed to parse config from %s, error: %s", *configFile, err.Error()))
	}
	applyFlags(&cfg)

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	report, err := run(cfg, sipmap.CryptoSeedSource, logger)
	if err != nil {
		logger.Fatal("floodcheck failed", zap.Error(err))
	}
	printReport(os.Stdout, report)
}

// applyFlags copies explicitly set flags over cfg.
func applyFlags(cfg *Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "keys":
			cfg.Keys = *keysFlag
		case "bits":
			cfg.Bits = *bitsFlag
		case "trials":
			cfg.Trials = *trialsFlag
		case "v":
			cfg.Verbose = *verbose
		}
	})
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

func printReport(w io.Writer, r Report) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "map\tsets\textra groups\tgrows\telapsed\n")
	row := func(res Result) {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%v\n",
			res.Name, res.Stats.Sets, res.Stats.SetExtraGroups, res.Stats.Grows, res.Elapsed)
	}
	row(r.Fixed)
	for _, res := range r.Random {
		row(res)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nslot overlap, fixed vs fixed: %.3f\n", r.FixedOverlap)
	for i, o := range r.RandomOverlap {
		fmt.Fprintf(w, "slot overlap, random-%d vs random-%d: %.3f\n", i, i+1, o)
	}
}
