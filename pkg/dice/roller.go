package dice

const (
	// StreakCap bounds the per-entity streak counter to [-StreakCap, +StreakCap].
	StreakCap = 5
	// biasTrigger is the streak magnitude at which karmic bias kicks in.
	biasTrigger = 2
)

// Tracker holds the signed success/failure streak per entity. It is stored
// on the game session so streaks survive save/resume.
type Tracker map[string]int

// NewTracker returns an empty streak tracker.
func NewTracker() Tracker {
	return make(Tracker)
}

// Roller produces rolls, optionally biased by the karmic streak of the
// rolling entity. The Tracker is owned by the caller (the game session);
// the Roller only reads and updates it.
type Roller struct {
	src    Source
	karmic bool
}

// NewRoller creates a Roller. When karmic is false, rolls are plain
// uniform rolls but streaks are still tracked.
func NewRoller(src Source, karmic bool) *Roller {
	if src == nil {
		src = NewCryptoSource()
	}
	return &Roller{src: src, karmic: karmic}
}

// Roll rolls the given die for an entity. With karmic mode on, a streak of
// two or more consecutive failures re-rolls and keeps the higher value,
// and a streak of two or more consecutive successes keeps the lower value.
// The streak update itself always runs and stays clamped to [-5, +5].
func (r *Roller) Roll(die Die, entityID string, streaks Tracker) Result {
	value := r.src.Intn(int(die)) + 1
	biased := false

	if r.karmic && streaks != nil {
		streak := streaks[entityID]
		if streak <= -biasTrigger {
			second := r.src.Intn(int(die)) + 1
			if second > value {
				value = second
			}
			biased = true
		} else if streak >= biasTrigger {
			second := r.src.Intn(int(die)) + 1
			if second < value {
				value = second
			}
			biased = true
		}
	}

	success := value > die.Threshold()
	newStreak := 0
	if streaks != nil {
		newStreak = updateStreak(streaks[entityID], success)
		streaks[entityID] = newStreak
	}

	return Result{
		Die:     die,
		Value:   value,
		Success: success,
		Biased:  biased,
		Streak:  newStreak,
		Entity:  entityID,
	}
}

// updateStreak advances a signed streak counter. A result in the opposite
// direction of the current streak resets the counter to +/-1.
func updateStreak(streak int, success bool) int {
	if success {
		if streak < 0 {
			return 1
		}
		if streak+1 > StreakCap {
			return StreakCap
		}
		return streak + 1
	}
	if streak > 0 {
		return -1
	}
	if streak-1 < -StreakCap {
		return -StreakCap
	}
	return streak - 1
}
