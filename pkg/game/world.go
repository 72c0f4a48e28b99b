package game

// WorldData is the campaign premise generated (or manually entered) during setup.
type WorldData struct {
	Premise       string   `json:"premise"`
	Themes        []string `json:"themes,omitempty"`
	CoreConflict  string   `json:"core_conflict,omitempty"`
	MainObjective string   `json:"main_objective,omitempty"`
	CurrencyName  string   `json:"currency_name,omitempty"`
}

// MapGridSize is the fixed side length of the scene map.
const MapGridSize = 5

// LegendEntry explains one map symbol.
type LegendEntry struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
}

// MapData is the scene map, replaced wholesale each turn when present.
type MapData struct {
	LocationName string        `json:"location_name"`
	Grid         [][]string    `json:"grid"` // 5x5 matrix of symbol strings
	Legend       []LegendEntry `json:"legend,omitempty"`
}

// TimePhase is the in-world time of day.
type TimePhase string

const (
	PhaseDawn  TimePhase = "DAWN"
	PhaseDay   TimePhase = "DAY"
	PhaseDusk  TimePhase = "DUSK"
	PhaseNight TimePhase = "NIGHT"
)

// TimeData is the in-world calendar state. The engine trusts the Oracle's
// returned value and does not enforce monotonicity.
type TimeData struct {
	DayCount    int       `json:"day_count"`
	Phase       TimePhase `json:"phase"`
	Description string    `json:"description,omitempty"`
}
