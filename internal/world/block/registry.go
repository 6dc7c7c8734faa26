package block

// BlockID представляет идентификатор типа блока.
// Набор закрыт: BlockCount всегда последний и используется как размер таблиц.
type BlockID uint8

// Константы ID блоков
const (
	AirBlockID BlockID = iota // 0 - единственный нетвёрдый блок
	GrassBlockID
	DirtBlockID
	StoneBlockID
	WoodBlockID
	BedrockBlockID
	LeafBlockID
	CoalOreBlockID
	IronOreBlockID
	GoldOreBlockID
	SandBlockID
	SnowBlockID
	NetherrockBlockID
	LavaBlockID

	BlockCount // всегда последний: количество типов блоков
)

// BaseBreakTime - время разрушения блока с множителем 1.0 (секунды)
const BaseBreakTime = 0.8

var (
	registry [BlockCount]Properties
	byName   = make(map[string]BlockID)
)

// Register добавляет свойства блока в регистр
func Register(id BlockID, props Properties) {
	if id >= BlockCount {
		return
	}
	props.ID = id
	props.registered = true
	registry[id] = props
	byName[props.Name] = id
}

// Get возвращает свойства для указанного ID
func Get(id BlockID) (Properties, bool) {
	if id >= BlockCount || !registry[id].registered {
		return Properties{}, false
	}
	return registry[id], true
}

// IsValidBlockID проверяет, является ли ID допустимым идентификатором блока
func IsValidBlockID(id BlockID) bool {
	_, ok := Get(id)
	return ok
}

// ByName ищет блок по имени
func ByName(name string) (BlockID, bool) {
	id, ok := byName[name]
	return id, ok
}

// IsSolid сообщает, участвует ли блок в коллизиях. Твёрдое всё, кроме воздуха.
func IsSolid(id BlockID) bool {
	return id != AirBlockID
}

// IsBreakable сообщает, можно ли разрушить блок во время игры
func IsBreakable(id BlockID) bool {
	props, ok := Get(id)
	return ok && IsSolid(id) && !props.Indestructible
}

// String возвращает имя блока или "unknown"
func (id BlockID) String() string {
	if props, ok := Get(id); ok {
		return props.Name
	}
	return "unknown"
}

// BreakTime возвращает время разрушения блока с учётом выбранного инструмента.
// Бонус применяется только если инструмент выбран (tool) и есть у игрока (owned).
func BreakTime(id BlockID, tool Tool, owned bool) float64 {
	props, ok := Get(id)
	if !ok {
		return BaseBreakTime
	}
	need := BaseBreakTime * props.BreakMultiplier
	if owned && tool != ToolNone && props.Affinity == tool {
		need *= AffinityFactor
	}
	return need
}
