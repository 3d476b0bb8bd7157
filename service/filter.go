package service

import (
	"sort"

	"github.com/AnTengye/carrierdiscounts/model"
)

// ServiceLevelCount is the number of rows carrying one service level.
type ServiceLevelCount struct {
	ServiceLevel string
	Count        int
}

// CountServiceLevels returns service levels by descending frequency. Levels
// with equal counts keep the order in which they first appear.
func CountServiceLevels(rows []model.ContractRow) []ServiceLevelCount {
	index := make(map[string]int)
	var counts []ServiceLevelCount
	for _, r := range rows {
		i, ok := index[r.ServiceLevel]
		if !ok {
			i = len(counts)
			index[r.ServiceLevel] = i
			counts = append(counts, ServiceLevelCount{ServiceLevel: r.ServiceLevel})
		}
		counts[i].Count++
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// TopServiceLevels keeps only the rows whose service level is among the n
// most frequent. Row order is preserved.
func TopServiceLevels(rows []model.ContractRow, n int) []model.ContractRow {
	if len(rows) == 0 || n < 1 {
		return nil
	}

	counts := CountServiceLevels(rows)
	if n > len(counts) {
		n = len(counts)
	}
	keep := make(map[string]struct{}, n)
	for _, c := range counts[:n] {
		keep[c.ServiceLevel] = struct{}{}
	}

	filtered := make([]model.ContractRow, 0, len(rows))
	for _, r := range rows {
		if _, ok := keep[r.ServiceLevel]; ok {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
