package catalog

// TopLimit is the size of the download ranking.
const TopLimit = 10

// Statistics summarizes download counts of books that have been downloaded
// at least once. Empty is set when no such book exists; the numeric fields
// are zero in that case.
type Statistics struct {
	Count   int     `json:"count"`
	Min     int     `json:"min"`
	Max     int     `json:"max"`
	Average float64 `json:"average"`
	Empty   bool    `json:"empty"`
}

// ComputeStatistics summarizes books with a positive download count.
func ComputeStatistics(books []Book) Statistics {
	stats := Statistics{Empty: true}
	total := 0
	for _, b := range books {
		if b.DownloadCount <= 0 {
			continue
		}
		if stats.Empty {
			stats.Min, stats.Max, stats.Empty = b.DownloadCount, b.DownloadCount, false
		}
		stats.Min = min(stats.Min, b.DownloadCount)
		stats.Max = max(stats.Max, b.DownloadCount)
		total += b.DownloadCount
		stats.Count++
	}
	if stats.Count > 0 {
		stats.Average = float64(total) / float64(stats.Count)
	}
	return stats
}
