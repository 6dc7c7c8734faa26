package entity

// PlayerTuning - параметры физики и здоровья игрока (мировые единицы, секунды)
type PlayerTuning struct {
	Size            float64
	MoveSpeed       float64
	JumpImpulse     float64
	Gravity         float64
	TerminalSpeed   float64
	MaxHealth       int
	Invulnerability float64
	RegenDelay      float64
	RegenInterval   float64
	FallDamageTiles int
	AttackWindow    float64
	AttackCooldown  float64
	AttackReach     float64
	AttackDamage    int
}

// DefaultPlayerTuning возвращает параметры игрока по умолчанию
func DefaultPlayerTuning() PlayerTuning {
	return PlayerTuning{
		Size:            26,
		MoveSpeed:       150,
		JumpImpulse:     520,
		Gravity:         1500,
		TerminalSpeed:   2000,
		MaxHealth:       10,
		Invulnerability: 1.0,
		RegenDelay:      5.0,
		RegenInterval:   2.0,
		FallDamageTiles: 5,
		AttackWindow:    0.2,
		AttackCooldown:  0.4,
		AttackReach:     28,
		AttackDamage:    2,
	}
}

// SpeciesTuning - параметры вида врагов
type SpeciesTuning struct {
	MaxHP         int
	Speed         float64
	AggroRadius   float64 // по горизонтали
	ContactDamage bool
	JumpImpulse   float64
	JumpChance    float64 // вероятность прыжка за тик
	TriggerRadius float64 // радиус поджига фитиля
	Fuse          float64 // длительность фитиля
	ReverseChance float64 // вероятность развернуться за тик при блуждании
	Pause         float64 // пауза после разворота
}

// DefaultSpeciesTuning возвращает таблицу параметров по видам
func DefaultSpeciesTuning() [SpeciesCount]SpeciesTuning {
	var t [SpeciesCount]SpeciesTuning
	t[SpeciesShambler] = SpeciesTuning{
		MaxHP: 6, Speed: 60, AggroRadius: 500, ContactDamage: true,
		ReverseChance: 0.008, Pause: 0.35,
	}
	t[SpeciesArcher] = SpeciesTuning{
		MaxHP: 4, Speed: 70, AggroRadius: 400, ContactDamage: true,
		ReverseChance: 0.008, Pause: 0.35,
	}
	t[SpeciesClimber] = SpeciesTuning{
		MaxHP: 5, Speed: 80, AggroRadius: 450, ContactDamage: true,
		JumpImpulse: 420, JumpChance: 0.03,
		ReverseChance: 0.008, Pause: 0.35,
	}
	t[SpeciesBomber] = SpeciesTuning{
		MaxHP: 3, Speed: 55, AggroRadius: 450,
		TriggerRadius: 64, Fuse: 1.5,
		ReverseChance: 0.008, Pause: 0.35,
	}
	return t
}
