package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/AnTengye/carrierdiscounts/model"
)

// ParseDiscountRate coerces a discount cell to a number. "12%", "12" and
// " 1,200.5 " are accepted; "12%" reads as 12.
func ParseDiscountRate(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Summarize groups rows by service level and computes mean, min, max and
// count of their discount rates. Rows whose rate is not numeric are left out
// and reported as dropped. Groups come back in first-seen order.
func Summarize(rows []model.ContractRow) (summaries []model.ServiceLevelSummary, dropped int) {
	type acc struct {
		sum, min, max float64
		count         int
	}

	index := make(map[string]int)
	var order []string
	var accs []*acc

	for _, r := range rows {
		rate, ok := ParseDiscountRate(r.DiscountRate)
		if !ok {
			dropped++
			continue
		}

		i, seen := index[r.ServiceLevel]
		if !seen {
			i = len(accs)
			index[r.ServiceLevel] = i
			order = append(order, r.ServiceLevel)
			accs = append(accs, &acc{min: rate, max: rate})
		}
		a := accs[i]
		a.sum += rate
		a.count++
		a.min = math.Min(a.min, rate)
		a.max = math.Max(a.max, rate)
	}

	summaries = make([]model.ServiceLevelSummary, 0, len(order))
	for i, level := range order {
		a := accs[i]
		summaries = append(summaries, model.ServiceLevelSummary{
			ServiceLevel:    level,
			AverageDiscount: a.sum / float64(a.count),
			MinDiscount:     a.min,
			MaxDiscount:     a.max,
			ContractsCount:  a.count,
		})
	}
	return summaries, dropped
}
