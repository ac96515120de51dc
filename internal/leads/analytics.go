package leads

import (
	"fmt"
	"time"

	"github.com/localnerve/jam-build-landing/internal/documents"
)

// Weekdays are the weekday labels used in reports, Sunday first
var Weekdays = [7]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

const sourceDirect = "Direto"

// Report summarizes the leads of a period
type Report struct {
	PeriodDays        int            `json:"periodDays"`
	TotalLeads        int            `json:"totalLeads"`
	ByDay             map[string]int `json:"byDay"`
	ByHour            map[string]int `json:"byHour"`
	ByWeekday         map[string]int `json:"byWeekday"`
	ByDevice          map[string]int `json:"byDevice"`
	BySource          map[string]int `json:"bySource"`
	ByStoreType       map[string]int `json:"byStoreType"`
	ByStatus          map[string]int `json:"byStatus"`
	SuccessRate       float64        `json:"successRate"`
	WeeklyGrowth      float64        `json:"weeklyGrowth"`
	BestHour          string         `json:"bestHour"`
	BestWeekday       string         `json:"bestWeekday"`
	AverageTimeOnPage float64        `json:"averageTimeOnPage"`
	AveragePages      float64        `json:"averagePagesVisited"`
}

// Analyze builds the report for the days leading up to now. Hours and weekdays
// are bucketed in loc. Weekly growth always compares the last two full weeks.
func Analyze(leads []documents.Lead, now time.Time, days int, loc *time.Location) Report {
	if days <= 0 {
		days = 30
	}
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	start := now.Add(-time.Duration(days) * 24 * time.Hour)

	r := Report{
		PeriodDays:  days,
		ByDay:       make(map[string]int, days),
		ByHour:      make(map[string]int, 24),
		ByWeekday:   make(map[string]int, 7),
		ByDevice:    map[string]int{},
		BySource:    map[string]int{},
		ByStoreType: map[string]int{},
		ByStatus:    map[string]int{},
	}
	for i := 0; i < days; i++ {
		r.ByDay[now.AddDate(0, 0, -i).Format(time.DateOnly)] = 0
	}
	for h := 0; h < 24; h++ {
		r.ByHour[fmt.Sprintf("%02d", h)] = 0
	}
	for _, d := range Weekdays {
		r.ByWeekday[d] = 0
	}

	var timeOnPage, pages, success int
	for _, l := range leads {
		at := l.SubmittedAt.In(loc)
		if at.Before(start) || at.After(now) {
			continue
		}
		r.TotalLeads++

		if _, ok := r.ByDay[at.Format(time.DateOnly)]; ok {
			r.ByDay[at.Format(time.DateOnly)]++
		}
		r.ByHour[fmt.Sprintf("%02d", at.Hour())]++
		r.ByWeekday[Weekdays[at.Weekday()]]++

		device := l.Device
		if device == "" {
			device = DeviceDesktop
		}
		r.ByDevice[device]++

		source := l.Source
		if source == "" {
			source = sourceDirect
		}
		r.BySource[source]++

		r.ByStoreType[l.StoreType]++
		r.ByStatus[string(l.Status)]++

		timeOnPage += l.TimeOnPage
		pages += l.PagesVisited
		if l.Status == documents.StatusSuccess {
			success++
		}
	}

	if r.TotalLeads > 0 {
		r.AverageTimeOnPage = float64(timeOnPage) / float64(r.TotalLeads)
		r.AveragePages = float64(pages) / float64(r.TotalLeads)
		r.SuccessRate = float64(success) / float64(r.TotalLeads) * 100
	}

	r.WeeklyGrowth = weeklyGrowth(leads, now)
	r.BestHour = busiest(r.ByHour, hourKeys()) + ":00"
	r.BestWeekday = busiest(r.ByWeekday, Weekdays[:])
	return r
}

// weeklyGrowth is the percent change of the last 7 days over the 7 before, 0 without a baseline
func weeklyGrowth(leads []documents.Lead, now time.Time) float64 {
	weekAgo := now.Add(-7 * 24 * time.Hour)
	twoWeeksAgo := now.Add(-14 * 24 * time.Hour)

	var thisWeek, lastWeek int
	for _, l := range leads {
		switch at := l.SubmittedAt; {
		case !at.Before(weekAgo) && !at.After(now):
			thisWeek++
		case !at.Before(twoWeeksAgo) && at.Before(weekAgo):
			lastWeek++
		}
	}
	if lastWeek == 0 {
		return 0
	}
	return float64(thisWeek-lastWeek) / float64(lastWeek) * 100
}

func hourKeys() []string {
	keys := make([]string, 24)
	for h := range keys {
		keys[h] = fmt.Sprintf("%02d", h)
	}
	return keys
}

// busiest returns the key with the highest count, the first one on ties
func busiest(counts map[string]int, order []string) string {
	best := order[0]
	for _, k := range order[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best
}
