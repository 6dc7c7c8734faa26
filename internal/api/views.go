package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/annel0/sandbox2d/internal/sim"
	"github.com/annel0/sandbox2d/internal/vec"
	"github.com/annel0/sandbox2d/internal/world"
	"github.com/annel0/sandbox2d/internal/world/block"
)

// WorldInfo - общие сведения о мире
type WorldInfo struct {
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	TileSize  float64        `json:"tile_size"`
	Seed      int64          `json:"seed"`
	Tick      uint64         `json:"tick"`
	Elapsed   float64        `json:"elapsed"`
	Trees     int            `json:"trees"`
	CaveWorms int            `json:"cave_worms"`
	Ores      map[string]int `json:"ores,omitempty"`
}

// RegionView - прямоугольная область тайлов. Строки идут сверху вниз.
type RegionView struct {
	X0      int        `json:"x0"`
	Y0      int        `json:"y0"`
	X1      int        `json:"x1"`
	Y1      int        `json:"y1"`
	Blocks  [][]string `json:"blocks"`
	Symbols []string   `json:"symbols"`
}

// ColumnView - колонка мира: высота поверхности и биом
type ColumnView struct {
	X       int    `json:"x"`
	Surface int    `json:"surface"`
	Biome   string `json:"biome"`
}

// MiningView - текущая добыча
type MiningView struct {
	Target   vec.Vec2 `json:"target"`
	Block    string   `json:"block"`
	Progress float64  `json:"progress"`
}

// PlayerView - состояние игрока для API
type PlayerView struct {
	Position      vec.Vec2Float  `json:"position"`
	Velocity      vec.Vec2Float  `json:"velocity"`
	Facing        vec.Vec2       `json:"facing"`
	Grounded      bool           `json:"grounded"`
	Health        int            `json:"health"`
	MaxHealth     int            `json:"max_health"`
	Invulnerable  bool           `json:"invulnerable"`
	Inventory     map[string]int `json:"inventory"`
	Tools         []string       `json:"tools"`
	SelectedBlock string         `json:"selected_block"`
	SelectedTool  string         `json:"selected_tool"`
	Mining        *MiningView    `json:"mining,omitempty"`
	Attacking     bool           `json:"attacking"`
	Deaths        int            `json:"deaths"`
}

// HostileView - живой враг для API
type HostileView struct {
	ID       int           `json:"id"`
	Species  string        `json:"species"`
	Position vec.Vec2Float `json:"position"`
	FacingX  int           `json:"facing_x"`
	HP       int           `json:"hp"`
	MaxHP    int           `json:"max_hp"`
	FuseLit  bool          `json:"fuse_lit"`
	Fuse     float64       `json:"fuse,omitempty"`
}

func (rs *RestServer) handleWorld(c *gin.Context) {
	frame := rs.source.Latest()
	info := WorldInfo{
		Width:    frame.Grid.Width(),
		Height:   frame.Grid.Height(),
		TileSize: frame.Grid.TileSize(),
		Seed:     frame.Snapshot.Seed,
		Tick:     frame.Snapshot.Tick,
		Elapsed:  frame.Snapshot.Elapsed,
	}
	if r := frame.Report; r != nil {
		info.Trees = r.Trees
		info.CaveWorms = r.CaveWorms
		info.Ores = make(map[string]int, len(r.Ores))
		for id, n := range r.Ores {
			info.Ores[id.String()] = n
		}
	}
	c.JSON(http.StatusOK, info)
}

func (rs *RestServer) handleBlocks(c *gin.Context) {
	x0, ok := intQuery(c, "x0")
	if !ok {
		return
	}
	y0, ok := intQuery(c, "y0")
	if !ok {
		return
	}
	x1, ok := intQuery(c, "x1")
	if !ok {
		return
	}
	y1, ok := intQuery(c, "y1")
	if !ok {
		return
	}

	grid := rs.source.Latest().Grid
	switch {
	case x1 < x0 || y1 < y0:
		badRequest(c, "пустая область")
		return
	case x0 < 0 || y0 < 0 || x1 >= grid.Width() || y1 >= grid.Height():
		badRequest(c, "область выходит за пределы мира %dx%d", grid.Width(), grid.Height())
		return
	case x1-x0+1 > MaxRegionSide || y1-y0+1 > MaxRegionSide:
		badRequest(c, "сторона области больше %d", MaxRegionSide)
		return
	}

	view := RegionView{X0: x0, Y0: y0, X1: x1, Y1: y1}
	for _, row := range world.Region(grid, x0, y0, x1, y1) {
		names := make([]string, len(row))
		symbols := make([]rune, len(row))
		for i, id := range row {
			names[i] = id.String()
			symbols[i] = symbolOf(id)
		}
		view.Blocks = append(view.Blocks, names)
		view.Symbols = append(view.Symbols, string(symbols))
	}
	c.JSON(http.StatusOK, view)
}

func (rs *RestServer) handleColumns(c *gin.Context) {
	report := rs.source.Latest().Report
	if report == nil {
		c.JSON(http.StatusNotFound, GenericResponse{Success: false, Message: "отчёт генерации недоступен"})
		return
	}
	cols := make([]ColumnView, len(report.Heights))
	for x, h := range report.Heights {
		cols[x] = ColumnView{X: x, Surface: h}
		if x < len(report.Biomes) {
			cols[x].Biome = report.Biomes[x].String()
		}
	}
	c.JSON(http.StatusOK, cols)
}

func (rs *RestServer) handlePlayer(c *gin.Context) {
	c.JSON(http.StatusOK, newPlayerView(rs.source.Latest().Snapshot.Player))
}

func (rs *RestServer) handleHostiles(c *gin.Context) {
	hostiles := rs.source.Latest().Snapshot.Hostiles
	views := make([]HostileView, 0, len(hostiles))
	for _, h := range hostiles {
		views = append(views, HostileView{
			ID:       h.ID,
			Species:  h.Species.String(),
			Position: h.Position,
			FacingX:  h.FacingX,
			HP:       h.HP,
			MaxHP:    h.MaxHP,
			FuseLit:  h.FuseLit,
			Fuse:     h.Fuse,
		})
	}
	c.JSON(http.StatusOK, views)
}

func newPlayerView(p sim.PlayerSnapshot) PlayerView {
	v := PlayerView{
		Position:      p.Position,
		Velocity:      p.Velocity,
		Facing:        vec.Vec2{X: p.FacingX, Y: p.FacingY},
		Grounded:      p.Grounded,
		Health:        p.Health,
		MaxHealth:     p.MaxHealth,
		Invulnerable:  p.Invulnerable,
		Inventory:     make(map[string]int),
		Tools:         []string{},
		SelectedBlock: p.SelectedBlock.String(),
		SelectedTool:  p.SelectedTool.String(),
		Attacking:     p.Attacking,
		Deaths:        p.Deaths,
	}
	for id, n := range p.Inventory {
		if n > 0 {
			v.Inventory[block.BlockID(id).String()] = n
		}
	}
	for t, n := range p.Tools {
		if n > 0 {
			v.Tools = append(v.Tools, block.Tool(t).String())
		}
	}
	if m := p.Mining; m != nil {
		v.Mining = &MiningView{Target: m.Target, Block: m.Block.String(), Progress: m.Progress}
	}
	return v
}

func symbolOf(id block.BlockID) rune {
	if props, ok := block.Get(id); ok {
		return props.Symbol
	}
	return '?'
}
