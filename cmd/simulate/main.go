// simulate is a CLI for what-if runs of the projection models: the
// three-scenario Monte Carlo for line sports and the Poisson goal model
// for soccer.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"github.com/sharpline/sharpline/pkg/market"
	"github.com/sharpline/sharpline/pkg/sim"
)

var (
	mode       = flag.String("mode", "trinity", "Model: trinity, poisson")
	sportName  = flag.String("sport", "NBA", "League for volatility profile (trinity)")
	iterations = flag.Int("iterations", 10000, "Monte Carlo iterations (trinity)")
	seed       = flag.Int64("seed", 0, "RNG seed, 0 for nondeterministic")

	// Trinity flags
	margin     = flag.Float64("margin", 0, "Projected home margin")
	spreadLine = flag.Float64("spread", 0, "Spread line for the home side (e.g. -6.5)")
	totalLine  = flag.Float64("total", 0, "Total line, 0 to skip the total model")
	restAdj    = flag.Float64("rest", 0, "Rest adjustment in points")
	travelAdj  = flag.Float64("travel", 0, "Travel adjustment in points")
	homeAdv    = flag.Float64("home-adv", 0, "Home advantage in points")

	// Poisson flags
	homeAttack  = flag.Float64("home-attack", 1.0, "Home attack strength")
	homeDefense = flag.Float64("home-defense", 1.0, "Home defensive leakiness")
	awayAttack  = flag.Float64("away-attack", 1.0, "Away attack strength")
	awayDefense = flag.Float64("away-defense", 1.0, "Away defensive leakiness")
	goalLine    = flag.Float64("goal-line", 2.5, "Total goals line")
	homeBoost   = flag.Bool("home-boost", true, "Apply the home attack boost")
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	var rng *rand.Rand
	if *seed != 0 {
		rng = rand.New(rand.NewSource(*seed))
	} else {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	switch strings.ToLower(*mode) {
	case "trinity":
		runTrinity(rng)
	case "poisson":
		runPoisson()
	default:
		log.Fatalf("unknown mode %q (expected trinity or poisson)", *mode)
	}
}

func runTrinity(rng *rand.Rand) {
	sport, ok := market.ParseSport(*sportName)
	if !ok {
		log.Fatalf("unknown sport %q", *sportName)
	}

	res := sim.Trinity(sim.TrinityParams{
		Sport:         sport,
		MeanMargin:    *margin,
		SpreadLine:    *spreadLine,
		TotalLine:     *totalLine,
		RestEdge:      *restAdj,
		TravelPenalty: *travelAdj,
		HomeAdvantage: *homeAdv,
		Iterations:    *iterations,
	}, rng)

	fmt.Printf("Trinity projection (%s, %d iterations)\n", sport, res.Iterations)
	fmt.Printf("  median margin   %+.1f\n", res.ProjectedMargin)
	fmt.Printf("  80%% interval    %+.1f to %+.1f\n", res.CI10, res.CI90)
	fmt.Printf("  volatility      %.2f\n", res.Volatility)
	fmt.Printf("  cover %+.1f     %.1f%%\n", *spreadLine, res.CoverProbability*100)
	if *totalLine > 0 {
		fmt.Printf("  over %.1f       %.1f%%\n", *totalLine, res.OverProbability*100)
	}
}

func runPoisson() {
	res := sim.PoissonSoccer(sim.PoissonParams{
		HomeAttack:         *homeAttack,
		HomeDefense:        *homeDefense,
		AwayAttack:         *awayAttack,
		AwayDefense:        *awayDefense,
		TotalLine:          *goalLine,
		ApplyHomeAdvantage: *homeBoost,
	})

	fmt.Println("Poisson goal model")
	fmt.Printf("  expected goals  %.2f - %.2f\n", res.ExpectedHomeGoals, res.ExpectedAwayGoals)
	fmt.Printf("  home win        %.1f%%\n", res.HomeWin*100)
	fmt.Printf("  draw            %.1f%%\n", res.Draw*100)
	fmt.Printf("  away win        %.1f%%\n", res.AwayWin*100)
	fmt.Printf("  over %.1f        %.1f%%\n", *goalLine, res.OverProbability*100)
}
