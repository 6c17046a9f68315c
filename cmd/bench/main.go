package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/noodle"
	"github.com/aretw0/noodle/pkg/core"
)

func main() {
	count := flag.Int("count", 1000, "Number of notes to generate")
	adapter := flag.String("adapter", "jar", "Storage adapter: jar, sqlite or memory")
	keep := flag.Bool("keep", false, "Keep the benchmark store after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "noodle_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	storeFile := "notes.jar"
	if *adapter == "sqlite" {
		storeFile = "notes.db"
	}
	svc, err := noodle.New(filepath.Join(benchDir, storeFile),
		noodle.WithAdapter(*adapter),
		noodle.WithLogger(logger),
	)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()

	fmt.Printf("Writing %d notes via %s adapter...\n", *count, *adapter)
	startWrite := time.Now()
	for i := 0; i < *count; i++ {
		req := core.SaveRequest{
			Text:         fmt.Sprintf("Benchmark note %d. This simulates a short study note.", i),
			CourseName:   "Benchmark Course",
			SectionTitle: fmt.Sprintf("Section %d", i),
		}
		if err := svc.SaveNote(ctx, "bench", fmt.Sprintf("sec%d", i), req); err != nil {
			panic(err)
		}
	}
	writeDur := time.Since(startWrite)
	fmt.Printf("Write: %v total, %v per note\n", writeDur, writeDur/time.Duration(*count))

	startRead := time.Now()
	for i := 0; i < *count; i++ {
		if _, err := svc.LoadNote(ctx, "bench", fmt.Sprintf("sec%d", i)); err != nil {
			panic(err)
		}
	}
	readDur := time.Since(startRead)
	fmt.Printf("Read: %v total, %v per note\n", readDur, readDur/time.Duration(*count))

	startAgg := time.Now()
	bundle, err := svc.CollectCourseNotes(ctx, "bench")
	if err != nil {
		panic(err)
	}
	fmt.Printf("Aggregate: %v for %d sections\n", time.Since(startAgg), len(bundle.Sections))
}
