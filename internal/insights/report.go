package insights

import (
	"fmt"
	"sort"

	"dompet/internal/core"
)

// Overview summarizes the totals for the detailed analysis view.
type Overview struct {
	TotalTransactions int        `json:"totalTransactions"`
	TotalIncome       core.Money `json:"totalIncome"`
	TotalExpense      core.Money `json:"totalExpense"`
	NetBalance        core.Money `json:"netBalance"`
	SavingsRate       float64    `json:"savingsRate"`
}

// CategoryShare is one category's slice of total expense.
type CategoryShare struct {
	Name    string     `json:"name"`
	Amount  core.Money `json:"amount"`
	Percent int        `json:"percent"`
}

// Report is the structured detailed-analysis breakdown.
type Report struct {
	Overview        Overview        `json:"overview"`
	TopCategories   []CategoryShare `json:"topCategories"`
	Recommendations []string        `json:"recommendations"`
}

// categoryShareThreshold is the share of total expense above which a
// single category earns a reduce-spending recommendation.
const categoryShareThreshold = 0.4

// BuildReport assembles the detailed analysis: overview, top three
// categories by expense share and the recommendation list.
func BuildReport(a Analysis) Report {
	r := Report{
		Overview: Overview{
			TotalTransactions: a.TotalTransactions,
			TotalIncome:       a.TotalIncome,
			TotalExpense:      a.TotalExpense,
			NetBalance:        a.TotalIncome.Sub(a.TotalExpense),
			SavingsRate:       a.SavingsRate,
		},
	}

	shares := make([]CategoryShare, 0, len(a.Categories))
	for name, amount := range a.Categories {
		shares = append(shares, CategoryShare{
			Name:    name,
			Amount:  amount,
			Percent: roundPercent(float64(amount.Cents) / float64(a.TotalExpense.Cents) * 100),
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Amount.Cents != shares[j].Amount.Cents {
			return shares[i].Amount.Cents > shares[j].Amount.Cents
		}
		return shares[i].Name < shares[j].Name
	})
	if len(shares) > 3 {
		shares = shares[:3]
	}
	r.TopCategories = shares

	r.Recommendations = recommendations(a)
	return r
}

func recommendations(a Analysis) []string {
	var recs []string
	if a.SavingsRate < 0 {
		recs = append(recs, "Urgent: reduce expenses immediately")
	}
	if a.SavingsRate < 10 {
		recs = append(recs, "Aim to save at least 20% of income")
	}
	if name, top, ok := a.TopCategory(); ok && a.TotalExpense.Cents > 0 {
		if float64(top.Cents)/float64(a.TotalExpense.Cents) > categoryShareThreshold {
			recs = append(recs, fmt.Sprintf("Reduce %s expenses", name))
		}
	}
	if len(recs) == 0 {
		recs = append(recs, "Great job! Keep maintaining your financial discipline")
	}
	return recs
}
