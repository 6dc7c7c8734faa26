package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/annel0/sandbox2d/internal/eventbus"
	"github.com/annel0/sandbox2d/internal/sim"
)

const (
	defaultNatsURL = "nats://127.0.0.1:4222"
	timeFormat     = "15:04:05"
)

func main() {
	var (
		natsURL    = flag.String("url", defaultNatsURL, "NATS server URL")
		stream     = flag.String("stream", "SANDBOX_EVENTS", "JetStream stream name")
		command    = flag.String("cmd", "tail", "Command: tail, stats, types")
		eventTypes = flag.String("types", "", "Event types filter (comma-separated)")
		limit      = flag.Int("limit", 100, "Maximum number of events (0 - без ограничения)")
		window     = flag.Duration("for", 10*time.Second, "Stats collection window")
	)
	flag.Parse()

	if *command == "types" {
		showTypes()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus, err := eventbus.NewJetStreamBus(*natsURL, *stream, 24*time.Hour)
	if err != nil {
		log.Fatalf("❌ Failed to connect to NATS: %v", err)
	}
	defer bus.Close()

	filter := eventbus.Filter{Types: parseStringList(*eventTypes)}

	switch *command {
	case "tail":
		if err := tailEvents(ctx, bus, filter, *limit); err != nil {
			log.Fatalf("❌ Tail failed: %v", err)
		}

	case "stats":
		if err := showStats(ctx, bus, filter, *window); err != nil {
			log.Fatalf("❌ Stats failed: %v", err)
		}

	default:
		fmt.Printf("❌ Unknown command: %s\n", *command)
		fmt.Println("Available commands: tail, stats, types")
		os.Exit(1)
	}
}

// tailEvents выводит события по мере поступления
func tailEvents(ctx context.Context, bus eventbus.EventBus, f eventbus.Filter, limit int) error {
	fmt.Printf("🎬 Tailing events (limit: %d)\n", limit)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu    sync.Mutex
		count int
	)
	sub, err := bus.Subscribe(ctx, f, func(_ context.Context, ev *eventbus.Envelope) {
		mu.Lock()
		defer mu.Unlock()
		if limit > 0 && count >= limit {
			return
		}
		fmt.Println(formatEnvelope(ev))
		count++
		if limit > 0 && count >= limit {
			cancel()
		}
	})
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	<-ctx.Done()
	mu.Lock()
	fmt.Printf("\n📊 Total events: %d\n", count)
	mu.Unlock()
	return nil
}

// showStats считает события по типам за окно времени
func showStats(ctx context.Context, bus eventbus.EventBus, f eventbus.Filter, window time.Duration) error {
	fmt.Printf("📊 Event statistics for %s\n", window)

	stats := newTypeStats()
	sub, err := bus.Subscribe(ctx, f, func(_ context.Context, ev *eventbus.Envelope) {
		stats.add(ev.EventType)
	})
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case <-time.After(window):
	}
	sub.Unsubscribe()

	for _, line := range stats.lines() {
		fmt.Println(line)
	}
	return nil
}

// showTypes выводит известные типы событий
func showTypes() {
	fmt.Println("📋 Event types:")
	for _, t := range sim.EventTypes() {
		fmt.Printf("  %-18s subject %s\n", t, eventbus.Subject(t.String()))
	}
}

type typeStats struct {
	mu     sync.Mutex
	counts map[string]int
}

func newTypeStats() *typeStats {
	return &typeStats{counts: make(map[string]int)}
}

func (s *typeStats) add(eventType string) {
	s.mu.Lock()
	s.counts[eventType]++
	s.mu.Unlock()
}

// lines возвращает строки отчёта по убыванию количества
func (s *typeStats) lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	types := make([]string, 0, len(s.counts))
	total := 0
	for t, n := range s.counts {
		types = append(types, t)
		total += n
	}
	sort.Slice(types, func(i, j int) bool {
		if s.counts[types[i]] != s.counts[types[j]] {
			return s.counts[types[i]] > s.counts[types[j]]
		}
		return types[i] < types[j]
	})

	out := make([]string, 0, len(types)+1)
	for _, t := range types {
		out = append(out, fmt.Sprintf("  %-18s %d", t, s.counts[t]))
	}
	out = append(out, fmt.Sprintf("  %-18s %d", "total", total))
	return out
}

// formatEnvelope форматирует событие в одну строку
func formatEnvelope(ev *eventbus.Envelope) string {
	line := fmt.Sprintf("[%s] %s p%d", ev.Timestamp.Format(timeFormat), ev.EventType, ev.Priority)

	var p eventbus.EventPayload
	if err := json.Unmarshal(ev.Payload, &p); err != nil {
		return line + " (bad payload)"
	}
	line += fmt.Sprintf(" tick=%d tile=(%d,%d)", p.Tick, p.Tile.X, p.Tile.Y)
	if p.Block != "" {
		line += " block=" + p.Block
	}
	if p.Species != "" {
		line += " species=" + p.Species
	}
	if p.Hostile != nil {
		line += fmt.Sprintf(" hostile=%d", *p.Hostile)
	}
	if p.Health != nil {
		line += fmt.Sprintf(" health=%d", *p.Health)
	}
	if p.Cause != "" {
		line += " cause=" + p.Cause
	}
	if p.Amount != 0 {
		line += fmt.Sprintf(" amount=%d", p.Amount)
	}
	return line
}

// parseStringList парсит строку с разделителями-запятыми
func parseStringList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
