package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/annel0/sandbox2d/internal/world"
	"github.com/annel0/sandbox2d/internal/world/block"
)

func main() {
	var (
		seed   = flag.Int64("seed", 1, "World seed")
		width  = flag.Int("width", world.DefaultWidth, "World width in tiles")
		height = flag.Int("height", world.DefaultHeight, "World height in tiles")
		stage  = flag.String("stage", "ores", "Last generation stage: heights, biomes, bedrock, lower, trees, caves, ores")
		legend = flag.Bool("legend", true, "Print legend and report")
	)
	flag.Parse()

	last, ok := parseStage(*stage)
	if !ok {
		log.Fatalf("❌ Unknown stage: %s", *stage)
	}
	if *width < 8 || *height < 16 {
		log.Fatalf("❌ World is too small: %dx%d", *width, *height)
	}

	g, report := world.NewWorldGenerator(*seed).GenerateUntil(*width, *height, world.DefaultTileSize, last)

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	writeMap(out, g)
	if *legend {
		writeReport(out, report)
	}
}

// writeMap печатает сетку символами блоков, верхняя строка - y=0
func writeMap(w io.Writer, v world.View) {
	row := make([]rune, v.Width())
	for y := 0; y < v.Height(); y++ {
		for x := 0; x < v.Width(); x++ {
			row[x] = symbol(v.Get(x, y))
		}
		fmt.Fprintln(w, string(row))
	}
}

func writeReport(w io.Writer, r *world.GenerationReport) {
	fmt.Fprintf(w, "\n🌍 seed=%d trees=%d caves=%d\n", r.Seed, r.Trees, r.CaveWorms)

	ores := make([]block.BlockID, 0, len(r.Ores))
	for id := range r.Ores {
		ores = append(ores, id)
	}
	sort.Slice(ores, func(i, j int) bool { return ores[i] < ores[j] })
	for _, id := range ores {
		fmt.Fprintf(w, "  %-10s %d\n", id, r.Ores[id])
	}

	fmt.Fprintln(w, "\nLegend:")
	for id := block.BlockID(0); id < block.BlockCount; id++ {
		fmt.Fprintf(w, "  %q %s\n", symbol(id), id)
	}
}

var stages = map[string]world.Stage{
	"heights": world.StageHeights,
	"biomes":  world.StageBiomes,
	"bedrock": world.StageBedrock,
	"lower":   world.StageLowerRealm,
	"trees":   world.StageVegetation,
	"caves":   world.StageCaves,
	"ores":    world.StageOres,
}

func parseStage(name string) (world.Stage, bool) {
	s, ok := stages[name]
	return s, ok
}

func symbol(id block.BlockID) rune {
	if props, ok := block.Get(id); ok {
		return props.Symbol
	}
	return '?'
}
