// Command engine boots the DysonForge simulation core standalone:
// loads the default catalog, resumes the session from its latest
// stored snapshot (or starts a fresh one if there is none), and drives the
// tick loop at a fixed wall-clock cadence, logging periodic snapshots.
// It has no HTTP surface; wiring a collaborator is left to cmd/console
// or an embedding program.
package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/anderote/dysonforge/internal/catalog"
	"github.com/anderote/dysonforge/internal/engine"
	"github.com/anderote/dysonforge/internal/persistence"
)

var (
	infoLog  *log.Logger
	errorLog *log.Logger
)

func setupLogging() {
	logDir := "./logs"
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		os.Mkdir(logDir, 0755)
	}
	fInfo, _ := os.OpenFile(filepath.Join(logDir, "engine.log"), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	fErr, _ := os.OpenFile(filepath.Join(logDir, "error.log"), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	infoLog = log.New(fInfo, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	errorLog = log.New(fErr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
}

func main() {
	setupLogging()

	infoLog.Println("DYSONFORGE BOOT SEQUENCE")

	cat, err := catalog.Default()
	if err != nil {
		errorLog.Fatalf("Phase 1: Catalog load failed: %v", err)
	}
	infoLog.Printf("Phase 1: Catalog... [OK] %s", cat.String())

	cfg := engine.LoadConfigFromEnv(engine.DefaultConfig())
	infoLog.Printf("Phase 2: Config... [OK] (default_zone=%s initial_probes=%d)", cfg.DefaultZone, cfg.InitialProbes)

	store, err := persistence.Open(envOr("DYSONFORGE_DB_PATH", "./dysonforge.db"))
	if err != nil {
		errorLog.Fatalf("Phase 3: Persistence open failed: %v", err)
	}
	defer store.Close()
	infoLog.Println("Phase 3: Persistence... [OK]")

	sessionID := envOr("DYSONFORGE_SESSION_ID", "default")
	initial, err := store.LoadLatestSnapshot(context.Background(), sessionID)
	if err != nil {
		infoLog.Printf("Phase 4: No prior snapshot for session %q, starting fresh (%v)", sessionID, err)
	}

	eng := engine.NewEngine(cat, cfg, initial)
	infoLog.Println("Phase 4: Engine... [OK]")

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	infoLog.Println("Phase 5: Tick loop starting")
	for range ticker.C {
		snap, results, err := eng.Tick()
		if err != nil {
			errorLog.Printf("tick error: %v", err)
			break
		}
		for _, r := range results {
			if !r.Success {
				infoLog.Printf("action %s rejected: %v", r.ActionID, r.Err)
			}
		}
		if err := store.AppendTick(context.Background(), sessionID, snap); err != nil {
			errorLog.Printf("hash-chain append failed at tick %d: %v", snap.Tick, err)
		}
		if snap.Tick%600 == 0 {
			if err := store.SaveSnapshot(context.Background(), sessionID, snap); err != nil {
				errorLog.Printf("snapshot save failed at tick %d: %v", snap.Tick, err)
			}
			if ok, err := store.VerifyChain(context.Background(), sessionID); err != nil {
				errorLog.Printf("chain verification failed at tick %d: %v", snap.Tick, err)
			} else if !ok {
				errorLog.Printf("chain verification detected a tampered or broken ledger at tick %d", snap.Tick)
			}
			infoLog.Printf("tick=%d time=%.2fd dyson_progress=%.4f", snap.Tick, snap.Time, snap.Dyson.Progress)
		}
	}
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
