// Command vco_table prints the VCO tracking diagnostic table: per dial
// position, the distorted output frequency, the ideal (alpha=0) frequency,
// and the tracking error in cents. Used for calibration and regression
// comparison, not at runtime.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/modvolt/modvolt-go/internal/vco"
)

func main() {
	var (
		step     = flag.Float64("step", 0.5, "dial sweep step")
		rangeLow = flag.Bool("lo", false, "use the LO (decade-divided) range")
		alpha    = flag.Float64("alpha", 0.01, "tracking distortion coefficient")
	)
	flag.Parse()

	if *step <= 0 {
		log.Fatal("step must be positive")
	}
	model := vco.DefaultModel()
	model.TrackingAlpha = *alpha
	rng := vco.RangeHigh
	if *rangeLow {
		rng = vco.RangeLow
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "dial\tvolts\tfreq Hz\tideal Hz\terror cents\t")
	for _, p := range model.TrackingTable(*step, rng) {
		fmt.Fprintf(w, "%.2f\t%.3f\t%.3f\t%.3f\t%+.1f\t\n",
			p.Dial, p.Voltage, p.FreqHz, p.IdealFreqHz, p.ErrorCents)
	}
	if err := w.Flush(); err != nil {
		log.Fatal(err)
	}
}
