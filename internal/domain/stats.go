package domain

import (
	"math"
	"time"
)

const isoDate = "2006-01-02"

// ISODate formats the calendar day of t in its own location
func ISODate(t time.Time) string {
	return t.Format(isoDate)
}

// Percent returns part/whole as a percentage rounded to two decimals, 0 when whole is 0
func Percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*10000) / 100
}

// ChapterProgressOf counts the chapters that already have words
func ChapterProgressOf(perChapter map[string]int) ChapterProgress {
	p := ChapterProgress{Total: len(perChapter)}
	for _, words := range perChapter {
		if words > 0 {
			p.Completed++
		}
	}
	p.Percent = Percent(p.Completed, p.Total)
	return p
}

// NextStats derives a new snapshot from the previous one and fresh per-file counts.
// Words added since the previous total go to today's ledger entry; a lower total
// never takes words away from the ledger.
func NextStats(prev Stats, perChapter map[string]int, now time.Time) Stats {
	next := Stats{
		TargetTotalWords: prev.TargetTotalWords,
		PerChapter:       make(map[string]int, len(perChapter)),
		DailyWords:       make(map[string]int, len(prev.DailyWords)+1),
	}
	for file, words := range perChapter {
		next.PerChapter[file] = words
		next.TotalWords += words
	}
	for day, words := range prev.DailyWords {
		next.DailyWords[day] = words
	}

	today := ISODate(now)
	if delta := next.TotalWords - prev.TotalWords; delta > 0 {
		next.DailyWords[today] += delta
	}

	next.WritingDays = len(next.DailyWords)
	if next.WritingDays > 0 {
		sum := 0
		for _, words := range next.DailyWords {
			sum += words
		}
		next.AverageDailyWords = int(math.Round(float64(sum) / float64(next.WritingDays)))
	}

	next.ProgressByWords = Percent(next.TotalWords, next.TargetTotalWords)
	next.ProgressByChapter = ChapterProgressOf(next.PerChapter)
	next.LastWritingDate = today
	next.LastModified = now.Format(time.RFC3339)
	return next
}
