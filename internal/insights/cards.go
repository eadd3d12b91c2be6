package insights

import (
	"fmt"
	"math"
	"sort"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Card is a short, ranked summary derived from an Analysis, sized for a
// 2x2 grid on the presentation side.
type Card struct {
	Kind     Kind     `json:"kind"`
	Priority Priority `json:"priority"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Metrics  []Metric `json:"metrics,omitempty"`
	Icon     string   `json:"icon"`
}

const maxCards = 4

// BuildCards derives the insight cards for an analysis: at most four,
// ordered high, medium, low and stable within a priority.
func BuildCards(a Analysis) []Card {
	var cards []Card

	if a.TotalTransactions > 0 {
		cards = append(cards, savingsCard(a))
	}

	if a.WeeklyCount > 0 {
		cards = append(cards, Card{
			Kind:     KindInfo,
			Priority: PriorityMedium,
			Title:    "Weekly Spending",
			Content:  fmt.Sprintf("Rp %s this week", a.WeeklyExpense.Grouped()),
			Metrics:  []Metric{{Label: "Amount", Value: a.WeeklyExpense.Short()}},
			Icon:     "chart-line",
		})
	}

	if name, top, ok := a.TopCategory(); ok {
		share := roundPercent(float64(top.Cents) / float64(a.TotalExpense.Cents) * 100)
		cards = append(cards, Card{
			Kind:     KindInfo,
			Priority: PriorityLow,
			Title:    "Top Category",
			Content:  fmt.Sprintf("%s: %d%% of spending", name, share),
			Metrics:  []Metric{{Label: "Share", Value: fmt.Sprintf("%d%%", share)}},
			Icon:     "tag",
		})
	}

	cards = append(cards, healthCard(a))

	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Priority.rank() < cards[j].Priority.rank()
	})
	if len(cards) > maxCards {
		cards = cards[:maxCards]
	}
	return cards
}

func savingsCard(a Analysis) Card {
	rate := roundPercent(a.SavingsRate)
	switch {
	case a.SavingsRate < 0:
		return Card{
			Kind:     KindWarning,
			Priority: PriorityHigh,
			Title:    "Negative Savings",
			Content:  fmt.Sprintf("Spending %d%% more than income", -rate),
			Metrics:  []Metric{{Label: "Rate", Value: fmt.Sprintf("%d%%", rate)}},
			Icon:     "exclamation-triangle",
		}
	case a.SavingsRate < 10:
		return Card{
			Kind:     KindWarning,
			Priority: PriorityMedium,
			Title:    "Low Savings Rate",
			Content:  fmt.Sprintf("Only %d%% of income saved", rate),
			Metrics:  []Metric{{Label: "Rate", Value: fmt.Sprintf("%d%%", rate)}},
			Icon:     "exclamation-circle",
		}
	default:
		return Card{
			Kind:     KindSuccess,
			Priority: PriorityLow,
			Title:    "Healthy Savings",
			Content:  fmt.Sprintf("Great job saving %d%% of income", rate),
			Metrics:  []Metric{{Label: "Rate", Value: fmt.Sprintf("%d%%", rate)}},
			Icon:     "check-circle",
		}
	}
}

func healthCard(a Analysis) Card {
	kind := KindWarning
	switch a.Health {
	case HealthExcellent:
		kind = KindSuccess
	case HealthGood:
		kind = KindInfo
	}
	return Card{
		Kind:     kind,
		Priority: PriorityMedium,
		Title:    "Financial Health",
		Content:  fmt.Sprintf("Status: %s", a.Health),
		Metrics:  []Metric{{Label: "Score", Value: fmt.Sprintf("%d/100", HealthScore(a))}},
		Icon:     "heart",
	}
}

// HealthScore is a composite out of 100: up to 40 from the savings rate,
// up to 20 from transaction frequency over the trailing 30 days, a flat
// 20 for any income at all, and up to 20 for expense control.
func HealthScore(a Analysis) int {
	score := 0

	switch {
	case a.SavingsRate > 20:
		score += 40
	case a.SavingsRate > 10:
		score += 30
	case a.SavingsRate > 0:
		score += 20
	}

	avgDaily := float64(a.RecentCount) / 30
	switch {
	case avgDaily >= 1 && avgDaily <= 3:
		score += 20
	case avgDaily > 0 && avgDaily <= 5:
		score += 15
	case avgDaily > 0:
		score += 10
	}

	if a.TotalIncome.Cents > 0 {
		score += 20
	}

	switch {
	case a.TotalExpense.Cents < a.TotalIncome.Cents:
		score += 20
	case float64(a.TotalExpense.Cents) < float64(a.TotalIncome.Cents)*1.1:
		score += 10
	}

	return score
}

// roundPercent rounds half away from zero, matching how the presentation
// layer used to display whole percentages.
func roundPercent(v float64) int {
	return int(math.Round(v))
}
