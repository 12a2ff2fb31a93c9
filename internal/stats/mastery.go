package stats

import "github.com/verte-zerg/studybuddy/internal/model"

// Level is a per-card mastery grade.
type Level int

const (
	Beginner Level = iota
	Intermediate
	Advanced
	Mastered
)

func (l Level) String() string {
	switch l {
	case Intermediate:
		return "Intermediate"
	case Advanced:
		return "Advanced"
	case Mastered:
		return "Mastered"
	default:
		return "Beginner"
	}
}

// Mastery grades a card from its judgement counts. Higher levels need both
// a success rate and a minimum number of attempts.
func Mastery(correct, incorrect int) Level {
	attempts := correct + incorrect
	if attempts == 0 {
		return Beginner
	}
	rate := float64(correct) / float64(attempts) * 100
	switch {
	case rate >= 90 && attempts >= 5:
		return Mastered
	case rate >= 75 && attempts >= 3:
		return Advanced
	case rate >= 60 && attempts >= 2:
		return Intermediate
	default:
		return Beginner
	}
}

func cardAccuracy(agg model.CardAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}
