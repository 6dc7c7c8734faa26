package block

// Tool - закрытый набор инструментов игрока
type Tool uint8

const (
	ToolNone Tool = iota
	ToolPickaxe
	ToolAxe
	ToolShovel
	ToolSword

	ToolCount
)

// AffinityFactor - множитель времени разрушения при подходящем инструменте
const AffinityFactor = 0.5

var toolNames = [ToolCount]string{"none", "pickaxe", "axe", "shovel", "sword"}

func (t Tool) String() string {
	if t < ToolCount {
		return toolNames[t]
	}
	return "unknown"
}

// ToolByName ищет инструмент по имени
func ToolByName(name string) (Tool, bool) {
	for i, n := range toolNames {
		if n == name {
			return Tool(i), true
		}
	}
	return ToolNone, false
}
