// Command trace_context prints the knowledge-base block and manifest the
// engine builds for a room and query, or follows build events on NATS.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"studyroom-be/internal/bootstrap"
	"studyroom-be/internal/config"
	"studyroom-be/internal/pkg/logger"
	"studyroom-be/internal/repository/implementation"
	"studyroom-be/internal/repository/unitofwork"
	"studyroom-be/pkg/database"
	"studyroom-be/pkg/events"
	pktNats "studyroom-be/pkg/nats"
	"studyroom-be/pkg/rag/gate"
	"studyroom-be/pkg/rag/prompt"
	"studyroom-be/pkg/rag/synthesis"
	"studyroom-be/pkg/store"

	"github.com/fatih/color"
)

func main() {
	roomID := flag.String("room", "", "room id")
	query := flag.String("query", "", "user query")
	fixture := flag.String("fixture", "", "JSON or YAML documents file; skips the database")
	follow := flag.Bool("follow", false, "print KB_CONTEXT_BUILT events from NATS instead")
	flag.Parse()

	cfg := config.Load()

	if *follow {
		if err := followEvents(cfg.App.NatsURL); err != nil {
			color.Red("follow failed: %v", err)
			os.Exit(1)
		}
		return
	}

	if *roomID == "" || *query == "" {
		flag.Usage()
		os.Exit(2)
	}

	engine, err := newEngine(cfg, *fixture)
	if err != nil {
		color.Red("setup failed: %v", err)
		os.Exit(1)
	}

	decision := engine.Classify(*query)
	color.Cyan("Query: %q", *query)
	color.Yellow("Intent: %s (rule %s %q)", decision.Mode, decision.Rule, decision.Phrase)

	text, manifest, err := engine.BuildContext(context.Background(), *roomID, *query)
	if err != nil {
		color.Red("BuildContext failed: %v", err)
		os.Exit(1)
	}

	printManifest(manifest)
	if text == "" {
		color.Magenta("\n(no context block)")
		return
	}
	fmt.Println()
	fmt.Println(text)
}

func newEngine(cfg *config.Config, fixture string) (*synthesis.Engine, error) {
	if fixture != "" {
		kb := cfg.KnowledgeBase
		kb.Store = config.StoreMemory
		kb.FixturePath = fixture
		chunkStore, err := bootstrap.NewChunkStore(kb, nil)
		if err != nil {
			return nil, err
		}
		return synthesis.New(chunkStore, gate.Static(true), cfg.KnowledgeBase.Engine)
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.Options{})
	if err != nil {
		return nil, err
	}
	var chunkStore store.ChunkStore
	chunkStore, err = bootstrap.NewChunkStore(cfg.KnowledgeBase, unitofwork.NewRepositoryFactory(db))
	if err != nil {
		return nil, err
	}
	g := bootstrap.NewGate(cfg.KnowledgeBase, implementation.NewAiConfigRepository(db), nil, logger.NewNopLogger())
	return synthesis.New(chunkStore, g, cfg.KnowledgeBase.Engine)
}

func printManifest(m prompt.Manifest) {
	status := color.GreenString("ok")
	switch {
	case m.GateDisabled:
		status = color.RedString("gate disabled")
	case m.NoContent:
		status = color.MagentaString("no content")
	case m.Degraded():
		status = color.YellowString("degraded: %s", m.DegradationReason)
	}

	fmt.Printf("\nStatus:     %s\n", status)
	fmt.Printf("Mode:       %s\n", m.Mode)
	fmt.Printf("Documents:  %v\n", m.DocumentIDs)
	fmt.Printf("Fragments:  %d (dropped %d chunks, %d documents)\n", len(m.Fragments), m.DroppedChunks, m.DroppedDocuments)
	fmt.Printf("Tokens:     ~%d\n", m.EstimatedTokens)
	if m.UsedFallback {
		color.Yellow("Fallback:   summaries")
	}
	for _, f := range m.Fragments {
		line := fmt.Sprintf("  - %s [%d]", f.DocumentID, f.ChunkIndex)
		if f.Summary {
			line = fmt.Sprintf("  - %s [summary]", f.DocumentID)
		}
		if f.Truncated {
			line += color.YellowString(" truncated")
		}
		fmt.Println(line)
	}
}

func followEvents(natsURL string) error {
	sub, err := pktNats.NewSubscriber(natsURL)
	if err != nil {
		return err
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = sub.Subscribe(ctx, events.TypeContextBuilt, "", func(_ context.Context, e events.Event) error {
		body, err := json.MarshalIndent(e.Payload(), "", "  ")
		if err != nil {
			return err
		}
		color.Cyan("%s %s", e.Timestamp().Format("15:04:05"), e.EventType())
		fmt.Println(string(body))
		return nil
	})
	if err != nil {
		return err
	}

	log.Println("Waiting for events, Ctrl+C to stop")
	<-ctx.Done()
	return nil
}
