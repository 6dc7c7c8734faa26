package block

// Properties описывает статические свойства типа блока
type Properties struct {
	ID              BlockID
	Name            string
	Symbol          rune    // символ для текстовых карт
	BreakMultiplier float64 // множитель к BaseBreakTime
	Affinity        Tool    // инструмент, ускоряющий разрушение (ToolNone - нет)
	Indestructible  bool    // бедрок

	registered bool
}

func init() {
	Register(AirBlockID, Properties{Name: "air", Symbol: ' ', BreakMultiplier: 1.0})
	Register(GrassBlockID, Properties{Name: "grass", Symbol: 'G', BreakMultiplier: 1.0, Affinity: ToolShovel})
	Register(DirtBlockID, Properties{Name: "dirt", Symbol: 'D', BreakMultiplier: 1.0, Affinity: ToolShovel})
	Register(StoneBlockID, Properties{Name: "stone", Symbol: 'S', BreakMultiplier: 2.0, Affinity: ToolPickaxe})
	Register(WoodBlockID, Properties{Name: "wood", Symbol: 'W', BreakMultiplier: 0.8, Affinity: ToolAxe})
	Register(BedrockBlockID, Properties{Name: "bedrock", Symbol: 'B', BreakMultiplier: 1.0, Indestructible: true})
	Register(LeafBlockID, Properties{Name: "leaf", Symbol: 'L', BreakMultiplier: 0.4, Affinity: ToolAxe})
	Register(CoalOreBlockID, Properties{Name: "coal_ore", Symbol: 'c', BreakMultiplier: 1.2, Affinity: ToolPickaxe})
	Register(IronOreBlockID, Properties{Name: "iron_ore", Symbol: 'i', BreakMultiplier: 3.0, Affinity: ToolPickaxe})
	Register(GoldOreBlockID, Properties{Name: "gold_ore", Symbol: 'o', BreakMultiplier: 4.0, Affinity: ToolPickaxe})
	Register(SandBlockID, Properties{Name: "sand", Symbol: '.', BreakMultiplier: 1.0, Affinity: ToolShovel})
	Register(SnowBlockID, Properties{Name: "snow", Symbol: '*', BreakMultiplier: 0.5, Affinity: ToolShovel})
	Register(NetherrockBlockID, Properties{Name: "netherrock", Symbol: 'N', BreakMultiplier: 1.5, Affinity: ToolPickaxe})
	Register(LavaBlockID, Properties{Name: "lava", Symbol: '~', BreakMultiplier: 1.0})
}
