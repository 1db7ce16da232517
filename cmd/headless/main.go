package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	core "github.com/milk9111/horde/component"
	"github.com/milk9111/horde/ecs/system"
	"github.com/milk9111/horde/records"
	"github.com/milk9111/horde/sim"
)

type runStats struct {
	runIndex int
	seed     int64
	ticks    int

	stats   sim.Stats
	census  []sim.StateCount
	outcome sim.Outcome
	level   int
	kills   int
	hp      int
	armor   int
	clock   float64
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var arena string
	var dt float64
	var mode string
	var record bool
	var watch bool
	var debug bool

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&arena, "arena", "arena.yaml", "arena prefab")
	flag.Float64Var(&dt, "dt", 1.0/60, "seconds per tick")
	flag.StringVar(&mode, "player", string(pilotStill), "scripted player: idle, still or strafe")
	flag.BoolVar(&record, "record", false, "save finished runs to the run history")
	flag.BoolVar(&watch, "watch", false, "render the first run live in the terminal")
	flag.BoolVar(&debug, "debug", false, "verbose system logging")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	if dt <= 0 {
		fmt.Println("error: -dt must be > 0")
		return
	}
	p, ok := parsePilot(mode)
	if !ok {
		fmt.Printf("error: unsupported player %q (supported: idle, still, strafe)\n", mode)
		return
	}
	if !debug {
		log.SetFlags(0)
		log.SetOutput(io.Discard)
	}

	cfg := sim.Config{Arena: arena, Debug: debug}

	if watch {
		cfg.Seed = seedBase
		if err := runWatch(cfg, p, ticks, dt); err != nil {
			fmt.Printf("error: %v\n", err)
		}
		return
	}

	var store *records.Store
	if record {
		s, err := records.Open("horde")
		if err != nil {
			fmt.Printf("warning: run history unavailable: %v\n", err)
		} else {
			store = s
		}
	}

	fmt.Printf("=== Headless Horde Report ===\n")
	fmt.Printf("arena=%s player=%s runs=%d ticks=%d dt=%.4f seed_base=%d seed_step=%d\n\n", arena, p, runs, ticks, dt, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		cfg.Seed = seedBase + int64(i)*seedStep
		rs, err := runOnce(i+1, cfg, p, ticks, dt)
		if err != nil {
			fmt.Printf("error: run %d: %v\n", i+1, err)
			return
		}
		all = append(all, rs)
		printRun(rs)
		if store != nil {
			if err := store.Add(rs.record(arena)); err != nil {
				fmt.Printf("warning: %v\n", err)
			}
		}
	}

	printAggregate(all)
	if store != nil {
		if best, err := store.Best(); err == nil {
			fmt.Printf("\nbest recorded run: level=%d kills=%d time=%s outcome=%s\n", best.Level, best.Kills, system.FormatTime(best.Time), best.Outcome)
		}
	}
}

func runOnce(runIndex int, cfg sim.Config, p pilot, ticks int, dt float64) (runStats, error) {
	s, err := sim.New(cfg)
	if err != nil {
		return runStats{}, err
	}
	n := 0
	for ; n < ticks && s.Outcome() == sim.OutcomeRunning; n++ {
		s.SetInput(p.input(s, n, dt))
		s.Step(dt)
	}
	return summarize(runIndex, cfg.Seed, n, s), nil
}

func summarize(runIndex int, seed int64, ticks int, s *sim.Sim) runStats {
	rs := runStats{
		runIndex: runIndex,
		seed:     seed,
		ticks:    ticks,
		stats:    s.Stats,
		census:   s.Census(),
		outcome:  s.Outcome(),
	}
	if player, _, pool := s.Player(); player != nil {
		rs.level = player.Level
		rs.kills = player.Kills
		rs.hp = pool.CurrentHP()
		rs.armor = pool.CurrentArmor()
	}
	if t := s.Timer(); t != nil {
		rs.clock = t.Elapsed
	}
	return rs
}

func (rs runStats) record(arena string) records.Run {
	outcome := string(rs.outcome)
	if outcome == "" {
		outcome = "survived"
	}
	return records.Run{Level: rs.level, Time: rs.clock, Kills: rs.kills, Outcome: outcome, Arena: arena}
}

func printRun(rs runStats) {
	outcome := string(rs.outcome)
	if outcome == "" {
		outcome = "running"
	}
	fmt.Printf("run %d seed=%d ticks=%d clock=%s outcome=%s\n", rs.runIndex, rs.seed, rs.ticks, system.FormatTime(rs.clock), outcome)
	fmt.Printf("  spawned=%d killed=%d level=%d\n", rs.stats.Spawned, rs.stats.Killed, rs.level)
	fmt.Printf("  agent_attacks=%d first_attack_tick=%s\n", rs.stats.Attacks, tickString(rs.stats.FirstAttackTick))
	fmt.Printf("  player_shots=%d damage_dealt=%d damage_taken=%d hp=%d armor=%d\n", rs.stats.PlayerShots, rs.stats.DamageDealt, rs.stats.DamageTaken, rs.hp, rs.armor)
	fmt.Printf("  states: %s\n\n", censusString(rs.census))
}

func printAggregate(all []runStats) {
	if len(all) == 0 {
		return
	}
	var spawned, killed, taken, attacks int
	firstAttack := make([]int64, 0, len(all))
	outcomes := map[string]int{}
	for _, rs := range all {
		spawned += rs.stats.Spawned
		killed += rs.stats.Killed
		taken += rs.stats.DamageTaken
		attacks += rs.stats.Attacks
		if rs.stats.FirstAttackTick >= 0 {
			firstAttack = append(firstAttack, rs.stats.FirstAttackTick)
		}
		o := string(rs.outcome)
		if o == "" {
			o = "running"
		}
		outcomes[o]++
	}
	n := float64(len(all))
	fmt.Printf("=== Aggregate (%d runs) ===\n", len(all))
	fmt.Printf("avg spawned=%.1f killed=%.1f attacks=%.1f damage_taken=%.1f\n", float64(spawned)/n, float64(killed)/n, float64(attacks)/n, float64(taken)/n)
	if len(firstAttack) > 0 {
		fmt.Printf("first attack tick: median=%d (%d/%d runs)\n", median(firstAttack), len(firstAttack), len(all))
	} else {
		fmt.Printf("first attack tick: never\n")
	}
	fmt.Printf("outcomes: %s\n", outcomeString(outcomes))
}

func median(v []int64) int64 {
	if len(v) == 0 {
		return -1
	}
	s := append([]int64(nil), v...)
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
	return s[len(s)/2]
}

func tickString(t int64) string {
	if t < 0 {
		return "never"
	}
	return fmt.Sprintf("%d", t)
}

func censusString(c []sim.StateCount) string {
	if len(c) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(c))
	for _, sc := range c {
		parts = append(parts, fmt.Sprintf("%s=%d", strings.ToLower(sc.State.String()), sc.Count))
	}
	return strings.Join(parts, " ")
}

func outcomeString(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, " ")
}

// stateGlyph is how the terminal view draws an agent in each state.
func stateGlyph(s core.EngagementState) rune {
	switch s {
	case core.StateChasing:
		return 'c'
	case core.StateAttacking:
		return 'A'
	case core.StateClimbing:
		return '^'
	}
	return 'i'
}
