// Command console is an in-process REPL for the DysonForge engine:
// it talks to an embedded engine.Engine directly through Action/Tick
// calls rather than over HTTP, since the core's collaborator
// interface is message-passing, not a wire protocol (spec.md §1
// explicitly places HTTP/UI outside the core).
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/anderote/dysonforge/internal/catalog"
	"github.com/anderote/dysonforge/internal/engine"
)

func main() {
	cat, err := catalog.Default()
	if err != nil {
		fmt.Fprintln(os.Stderr, "catalog load failed:", err)
		os.Exit(1)
	}
	cfg := engine.LoadConfigFromEnv(engine.DefaultConfig())
	eng := engine.NewEngine(cat, cfg, nil)

	reader := bufio.NewReader(os.Stdin)
	fmt.Println("DysonForge Console")
	fmt.Println("Commands: tick [n], status, alloc <zone> <harvest> <replicate> <recycle> <dyson> <construct>, speed <n>, help, quit")

	for {
		fmt.Print("dysonforge> ")
		text, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		text = strings.TrimSpace(text)
		parts := strings.Fields(text)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "tick":
			n := 1
			if len(parts) > 1 {
				n, _ = strconv.Atoi(parts[1])
			}
			doTick(eng, n)
		case "status":
			doStatus(eng)
		case "alloc":
			doAlloc(eng, parts)
		case "speed":
			doSpeed(eng, parts)
		case "help":
			fmt.Println("  tick [n]                                           - advance n ticks (default 1)")
			fmt.Println("  status                                             - print a snapshot summary")
			fmt.Println("  alloc <zone> <harvest> <replicate> <recycle> <dyson> <construct> - set a zone's probe allocation")
			fmt.Println("  speed <n>                                          - set time speed [0.1, 1000]")
			fmt.Println("  quit                                               - exit")
		case "quit", "exit":
			eng.Stop()
			return
		default:
			fmt.Println("unknown command, try 'help'")
		}
	}
}

func doTick(eng *engine.Engine, n int) {
	for i := 0; i < n; i++ {
		snap, results, err := eng.Tick()
		if err != nil {
			fmt.Println("tick error:", err)
			return
		}
		for _, r := range results {
			if !r.Success {
				fmt.Printf("  action %s failed: %v\n", r.ActionID, r.Err)
			}
		}
		if i == n-1 {
			printSnapshot(snap)
		}
	}
}

func doStatus(eng *engine.Engine) {
	printSnapshot(eng.Snapshot())
}

func printSnapshot(snap *engine.GameState) {
	fmt.Printf("tick=%d time=%.2fd speed=%.1fx\n", snap.Tick, snap.Time, snap.Speed)
	fmt.Printf("energy: production=%s W consumption=%s W throttle=%.2f\n",
		humanize.Comma(int64(snap.Rates.EnergyProduction)),
		humanize.Comma(int64(snap.Rates.EnergyConsumption)),
		snap.Rates.EnergyThrottle)
	fmt.Printf("dyson: mass=%s kg progress=%.4f\n",
		humanize.Comma(int64(snap.Dyson.Mass)), snap.Dyson.Progress)
	for zoneID, z := range snap.Zones {
		n := snap.ZoneProbeCount(zoneID)
		if n == 0 && z.StoredMetal == 0 && z.MassRemaining == 0 {
			continue
		}
		fmt.Printf("  %-10s probes=%-6d metal=%s kg remaining=%s kg depleted=%v\n",
			zoneID, n, humanize.Comma(int64(z.StoredMetal)), humanize.Comma(int64(z.MassRemaining)), z.Depleted)
	}
}

func doAlloc(eng *engine.Engine, parts []string) {
	if len(parts) != 7 {
		fmt.Println("usage: alloc <zone> <harvest> <replicate> <recycle> <dyson> <construct>")
		return
	}
	payload := map[string]any{"zone_id": parts[1]}
	fields := []string{"harvest", "replicate", "recycle", "dyson", "construct"}
	for i, f := range fields {
		v, err := strconv.ParseFloat(parts[2+i], 64)
		if err != nil {
			fmt.Println("invalid fraction:", parts[2+i])
			return
		}
		payload[f] = v
	}
	err := eng.Enqueue(context.Background(), engine.Action{
		ID:      "console-" + parts[1],
		Kind:    engine.ActionSetZoneAllocation,
		Payload: payload,
	})
	if err != nil {
		fmt.Println("enqueue failed:", err)
	}
}

func doSpeed(eng *engine.Engine, parts []string) {
	if len(parts) != 2 {
		fmt.Println("usage: speed <n>")
		return
	}
	v, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		fmt.Println("invalid speed:", parts[1])
		return
	}
	if err := eng.SetTimeSpeed(v); err != nil {
		fmt.Println("speed rejected:", err)
	}
}
