package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sharpline/sharpline/pkg/killswitch"
	"github.com/sharpline/sharpline/pkg/market"
	"github.com/sharpline/sharpline/pkg/odds"
	"github.com/sharpline/sharpline/pkg/sim"
)

// Config holds the assembler's filter thresholds.
type Config struct {
	// MinEdge is the minimum consensus edge to surface a candidate.
	MinEdge float64
	// MinBooks is the minimum number of books quoting both sides before
	// the consensus is trusted.
	MinBooks int
}

// DefaultConfig returns the production thresholds: 3.5% edge over at
// least two books.
func DefaultConfig() Config {
	return Config{MinEdge: 0.035, MinBooks: 2}
}

// GoalieStatus is the NHL starter report for one game, as resolved by
// the goalie feed. A nil report means no data was available.
type GoalieStatus struct {
	AwayConfirmed bool
	HomeConfirmed bool
	AwayStarter   string
	HomeStarter   string
}

// GameContext carries the situational inputs the assembler folds into
// scoring and kill-rule evaluation. Zero values mean "unknown" and
// degrade gracefully.
type GameContext struct {
	// EfficiencyGap is the pre-scaled 0-20 home structural advantage
	// from the ratings feed. 10 = evenly matched.
	EfficiencyGap float64
	// RestDays maps team name to days of rest. 0 means back-to-back.
	// Missing teams are treated as adequately rested.
	RestDays map[string]int
	// WindMPH is the home-stadium wind for NFL games.
	WindMPH float64
	// Goalies is the NHL starter report, nil when unavailable.
	Goalies *GoalieStatus
	// TennisSurface is the court surface inferred from the tournament
	// key; empty for non-tennis games.
	TennisSurface string
}

// Assembler builds scored BetCandidates from raw game payloads.
type Assembler struct {
	cfg Config
	rlm *RLMDetector
	now func() time.Time
}

// NewAssembler builds an assembler around an RLM detector. A nil config
// uses the defaults.
func NewAssembler(cfg *Config, rlm *RLMDetector) *Assembler {
	c := DefaultConfig()
	if cfg != nil {
		c = *cfg
	}
	if rlm == nil {
		rlm = NewRLMDetector()
	}
	return &Assembler{cfg: c, rlm: rlm, now: time.Now}
}

// RLM exposes the detector, mainly so the poller can record opens and
// report gate status.
func (a *Assembler) RLM() *RLMDetector {
	return a.rlm
}

// Assemble evaluates every quoted side of a game against the multi-book
// consensus and returns the candidates clearing the collar, minimum
// books, and minimum edge. Kill rules run after assembly where possible
// so vetoed candidates stay visible; the hard NFL wind kill and the
// NCAAF gates skip before a candidate is built, since those games are
// categorically unplayable.
func (a *Assembler) Assemble(g market.Game, sport market.Sport, ctx GameContext) []BetCandidate {
	if len(g.Bookmakers) == 0 {
		return nil
	}

	var candidates []BetCandidate

	isSoccer := sport.Soccer()
	isNCAAF := sport == market.SportNCAAF
	isNBA := sport == market.SportNBA
	isNFL := sport == market.SportNFL
	month := a.now().UTC().Month()

	// Spreads: evaluate both teams.
	for _, team := range []string{g.HomeTeam, g.AwayTeam} {
		cons := market.ConsensusFairProb(g.Bookmakers, market.KeySpreads, team)
		if cons.Books < a.cfg.MinBooks {
			continue
		}
		price, line, book, ok := market.BestPrice(g.Bookmakers, market.KeySpreads, team)
		if !ok || !odds.PassesCollar(price) {
			continue
		}
		if isNCAAF {
			if v := killswitch.NCAAF(abs(line), month); v.Killed() {
				continue
			}
		}
		edge := cons.FairProb - odds.ImpliedProbability(price)
		if edge < a.cfg.MinEdge {
			continue
		}

		c := a.buildCandidate(g, sport, market.KeySpreads, team, fmt.Sprintf("%s %+.1f", team, line), line, price, book, cons, edge, ctx)
		if isNBA {
			c.KillReason = a.nbaVerdict(g, team, line, market.KeySpreads, ctx).Reason
		}
		candidates = append(candidates, c)
	}

	// Moneylines: soccer quotes three-way, everything else two-way.
	if isSoccer {
		for _, name := range market.H2HOutcomeNames(g.Bookmakers, a.cfg.MinBooks) {
			cons := market.ConsensusFairProb3Way(g.Bookmakers, name)
			if cons.Books < a.cfg.MinBooks {
				continue
			}
			price, _, book, ok := market.BestPrice(g.Bookmakers, market.KeyH2H, name)
			if !ok || !odds.PassesSoccerCollar(price) {
				continue
			}
			edge := cons.FairProb - odds.ImpliedProbability(price)
			if edge < a.cfg.MinEdge {
				continue
			}
			target := name
			if name != market.OutcomeDraw {
				target = name + " ML"
			}
			candidates = append(candidates, a.buildCandidate(g, sport, market.KeyH2H, name, target, 0, price, book, cons, edge, ctx))
		}
	} else {
		for _, team := range []string{g.HomeTeam, g.AwayTeam} {
			cons := market.ConsensusFairProb(g.Bookmakers, market.KeyH2H, team)
			if cons.Books < a.cfg.MinBooks {
				continue
			}
			price, _, book, ok := market.BestPrice(g.Bookmakers, market.KeyH2H, team)
			if !ok || !odds.PassesCollar(price) {
				continue
			}
			if isNCAAF {
				if v := killswitch.NCAAF(0, month); v.Killed() {
					continue
				}
			}
			edge := cons.FairProb - odds.ImpliedProbability(price)
			if edge < a.cfg.MinEdge {
				continue
			}
			c := a.buildCandidate(g, sport, market.KeyH2H, team, team+" ML", 0, price, book, cons, edge, ctx)
			if isNBA {
				c.KillReason = a.nbaVerdict(g, team, 0, market.KeyH2H, ctx).Reason
			}
			candidates = append(candidates, c)
		}
	}

	// Totals: Over is presumed the public side when juiced, since
	// recreational money chases scoring.
	for _, side := range []string{market.SideOver, market.SideUnder} {
		cons := market.ConsensusFairProb(g.Bookmakers, market.KeyTotals, side)
		if cons.Books < a.cfg.MinBooks {
			continue
		}
		price, line, book, ok := market.BestPrice(g.Bookmakers, market.KeyTotals, side)
		if !ok || !odds.PassesCollar(price) {
			continue
		}
		var windVerdict killswitch.Verdict
		if isNFL {
			windVerdict = killswitch.NFL(killswitch.NFLInputs{WindMPH: ctx.WindMPH, Total: line, MarketKey: market.KeyTotals})
			if windVerdict.Action == killswitch.Kill {
				continue
			}
		}
		edge := cons.FairProb - odds.ImpliedProbability(price)
		if edge < a.cfg.MinEdge {
			continue
		}

		publicOnSide := side == market.SideOver && PublicOnSide(price)
		rlmConfirmed, rlmDrift := a.rlm.Compute(g.ID, side, price, publicOnSide)
		score, breakdown := SharpScore(ScoreInputs{Edge: edge, RLMConfirmed: rlmConfirmed, EfficiencyGap: ctx.EfficiencyGap})

		c := BetCandidate{
			ID:            uuid.NewString(),
			Sport:         sport,
			SportName:     sport.String(),
			EventID:       g.ID,
			Matchup:       g.Matchup(),
			MarketKey:     market.KeyTotals,
			Target:        fmt.Sprintf("%s %g", side, line),
			Line:          line,
			Price:         price,
			Book:          fmt.Sprintf("Best: %s (%d books)", book, cons.Books),
			EdgePct:       edge,
			WinProb:       cons.FairProb,
			MarketImplied: odds.ImpliedProbability(price),
			FairImplied:   cons.FairProb,
			KellySize:     FractionalKelly(cons.FairProb, price),
			SharpScore:    score,
			Breakdown:     breakdown,
			Tier:          TierForScore(score),
			RLMConfirmed:  rlmConfirmed,
			RLMDrift:      rlmDrift,
			Books:         cons.Books,
			StdDev:        cons.StdDev,
			CommenceTime:  g.CommenceTime,
		}
		if isNFL && windVerdict.Action == killswitch.ForceUnder {
			c.KillReason = windVerdict.Reason
		}
		if isSoccer && line > 0 {
			a.soccerTotalsCheck(&c, side, line, ctx.EfficiencyGap)
		}
		candidates = append(candidates, c)
	}

	// NHL and tennis rules run over the finished list so their verdicts
	// land on every market of the game.
	if sport == market.SportNHL {
		a.applyNHLRules(g, ctx.Goalies, candidates)
	}
	if sport == market.SportTennis && ctx.TennisSurface != "" {
		a.applyTennisRules(ctx.TennisSurface, candidates)
	}

	return candidates
}

func (a *Assembler) buildCandidate(g market.Game, sport market.Sport, marketKey, side, target string, line, price float64, book string, cons market.Consensus, edge float64, ctx GameContext) BetCandidate {
	rlmConfirmed, rlmDrift := a.rlm.Compute(g.ID, side, price, PublicOnSide(price))
	score, breakdown := SharpScore(ScoreInputs{Edge: edge, RLMConfirmed: rlmConfirmed, EfficiencyGap: ctx.EfficiencyGap})

	return BetCandidate{
		ID:            uuid.NewString(),
		Sport:         sport,
		SportName:     sport.String(),
		EventID:       g.ID,
		Matchup:       g.Matchup(),
		MarketKey:     marketKey,
		Target:        target,
		Line:          line,
		Price:         price,
		Book:          fmt.Sprintf("Best: %s (%d books)", book, cons.Books),
		EdgePct:       edge,
		WinProb:       cons.FairProb,
		MarketImplied: odds.ImpliedProbability(price),
		FairImplied:   cons.FairProb,
		KellySize:     FractionalKelly(cons.FairProb, price),
		SharpScore:    score,
		Breakdown:     breakdown,
		Tier:          TierForScore(score),
		RLMConfirmed:  rlmConfirmed,
		RLMDrift:      rlmDrift,
		Books:         cons.Books,
		StdDev:        cons.StdDev,
		CommenceTime:  g.CommenceTime,
	}
}

// nbaVerdict derives the rest-based NBA rule inputs for one team from
// schedule rest days. Teams without rest data are treated as rested.
func (a *Assembler) nbaVerdict(g market.Game, team string, line float64, marketKey string, ctx GameContext) killswitch.Verdict {
	isRoad := team == g.AwayTeam
	opp := g.AwayTeam
	if isRoad {
		opp = g.HomeTeam
	}

	teamRest, teamOK := ctx.RestDays[team]
	oppRest, oppOK := ctx.RestDays[opp]

	b2b := teamOK && teamRest == 0
	return killswitch.NBA(killswitch.NBAInputs{
		RestDisadvantage: teamOK && oppOK && teamRest < oppRest,
		Spread:           line,
		BackToBack:       b2b,
		RoadBackToBack:   b2b && isRoad,
		MarketKey:        marketKey,
	})
}

// soccerTotalsCheck cross-validates a soccer total against the Poisson
// goal matrix and attaches the model read as a signal. Strong
// disagreement (model gives the side under 35%) becomes an advisory
// flag, never a hard kill: the consensus path stays authoritative.
func (a *Assembler) soccerTotalsCheck(c *BetCandidate, side string, line, efficiencyGap float64) {
	ha, aa, hd, ad := sim.GapToSoccerStrength(efficiencyGap)
	res := sim.PoissonSoccer(sim.PoissonParams{
		HomeAttack:         ha,
		AwayAttack:         aa,
		HomeDefense:        hd,
		AwayDefense:        ad,
		TotalLine:          line,
		ApplyHomeAdvantage: true,
	})
	pSide := res.OverProbability
	if side == market.SideUnder {
		pSide = res.UnderProbability
	}
	c.Signal = fmt.Sprintf("Poisson %s=%.0f%% (xG %.2f)", side, pSide*100, res.ExpectedTotal)
	if c.KillReason == "" && pSide < 0.35 {
		c.KillReason = fmt.Sprintf("FLAG: Poisson disagrees (%s)", c.Signal)
	}
}

// applyNHLRules attaches the goalie verdict to every candidate. The
// opponent's goalie is the one that beats a bet, so each candidate is
// judged against the netminder it has to score on.
func (a *Assembler) applyNHLRules(g market.Game, goalies *GoalieStatus, candidates []BetCandidate) {
	for i := range candidates {
		c := &candidates[i]
		in := killswitch.NHLInputs{}
		if goalies != nil {
			isAwayBet := strings.Contains(c.Target, g.AwayTeam)
			if isAwayBet {
				in.BackupGoalie = !goalies.HomeConfirmed
			} else {
				in.BackupGoalie = !goalies.AwayConfirmed
			}
			in.GoalieConfirmed = goalies.AwayConfirmed || goalies.HomeConfirmed
		}
		if v := killswitch.NHL(in); v.Reason != "" {
			c.KillReason = v.Reason
		}
	}
}

// applyTennisRules attaches surface flags. Existing kill reasons are
// never overwritten.
func (a *Assembler) applyTennisRules(surface string, candidates []BetCandidate) {
	for i := range candidates {
		c := &candidates[i]
		if c.KillReason != "" {
			continue
		}
		isFavourite := c.MarketImplied > 0.5
		favImplied := c.MarketImplied
		if !isFavourite {
			favImplied = 1 - c.MarketImplied
		}
		v := killswitch.Tennis(killswitch.TennisInputs{
			Surface:          surface,
			FavouriteImplied: favImplied,
			IsFavouriteBet:   isFavourite,
			MarketKey:        c.MarketKey,
		})
		if v.Reason != "" {
			c.KillReason = v.Reason
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
