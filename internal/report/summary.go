package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/veloscope/veloscope-cli/internal/analytics"
	"github.com/veloscope/veloscope-cli/internal/model"
	"github.com/veloscope/veloscope-cli/internal/numeric"
)

// SummaryText renders the human-readable run summary: totals, cleaning
// counts with rejection reasons, rankings, usage statistics, and outlier
// flags.
func SummaryText(res *analytics.Results, reports []*model.CleaningReport) string {
	var b strings.Builder

	b.WriteString("[RUN SUMMARY]\n")
	fmt.Fprintf(&b, "Run: %s\n", res.RunID)
	fmt.Fprintf(&b, "Total Trips: %d\n", res.TotalTrips)
	fmt.Fprintf(&b, "Total Distance: %.2f km\n", res.TotalDistanceKM)
	fmt.Fprintf(&b, "Average Duration: %.2f minutes\n", res.GlobalDuration.Mean)
	fmt.Fprintf(&b, "Total Revenue (%s pricing): %.2f\n", res.Pricing, res.TotalRevenue)

	b.WriteString("\n[CLEANING]\n")
	for _, r := range reports {
		fmt.Fprintf(&b, "- %s: %d read, %d accepted, %d rejected", r.File, r.RowsRead, r.Accepted, r.Rejected)
		if r.GeneratedIDs > 0 {
			fmt.Fprintf(&b, ", %d ids generated", r.GeneratedIDs)
		}
		b.WriteString("\n")
		reasons := make([]string, 0, len(r.Reasons))
		for reason := range r.Reasons {
			reasons = append(reasons, string(reason))
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			fmt.Fprintf(&b, "  • %s: %d\n", reason, r.Reasons[model.Reason(reason)])
		}
	}

	fmt.Fprintf(&b, "\n[TOP STATIONS by %s]\n", res.StationMetric)
	writeRanking(&b, res.TopStations)
	fmt.Fprintf(&b, "\n[TOP USERS by %s]\n", res.UserMetric)
	writeRanking(&b, res.TopUsers)

	b.WriteString("\n[USAGE]\n")
	writeSummaryLine(&b, "duration (min)", res.GlobalDuration)
	writeSummaryLine(&b, "distance (km)", res.GlobalDistance)
	for _, su := range res.PerStation {
		fmt.Fprintf(&b, "- station %s (n=%d): duration mean %.2f, distance mean %.2f\n",
			su.StationID, su.Trips, su.Duration.Mean, su.Distance.Mean)
	}

	b.WriteString("\n[OUTLIERS]\n")
	if len(res.StationOutliers) == 0 && len(res.UserOutliers) == 0 {
		b.WriteString("none flagged\n")
	}
	writeOutliers(&b, "station", res.StationOutliers)
	writeOutliers(&b, "user", res.UserOutliers)

	b.WriteString("\n[ACTIVITY]\n")
	if hour, count := busiestHour(res.PeakHours); count > 0 {
		fmt.Fprintf(&b, "Busiest hour: %02d:00 (%d trips)\n", hour, count)
	}
	for day := time.Sunday; day <= time.Saturday; day++ {
		if n := res.TripsByWeekday[day]; n > 0 {
			fmt.Fprintf(&b, "- %s: %d trips\n", day, n)
		}
	}
	for _, ut := range []model.UserType{model.UserCasual, model.UserMember} {
		if avg, ok := res.AvgDistanceByUser[ut]; ok {
			fmt.Fprintf(&b, "Average distance (%s): %.2f km\n", ut, avg)
		}
	}

	if len(res.MaintenanceCostByEvent) > 0 {
		b.WriteString("\n[MAINTENANCE COST]\n")
		events := make([]string, 0, len(res.MaintenanceCostByEvent))
		for ev := range res.MaintenanceCostByEvent {
			events = append(events, ev)
		}
		sort.Strings(events)
		for _, ev := range events {
			fmt.Fprintf(&b, "- %s: %.2f\n", ev, res.MaintenanceCostByEvent[ev])
		}
	}

	return b.String()
}

func writeRanking(b *strings.Builder, ranked []model.RankedEntity) {
	for _, e := range ranked {
		fmt.Fprintf(b, "%2d. %s — %.2f\n", e.Rank, e.ID, e.Score)
	}
}

func writeSummaryLine(b *strings.Builder, label string, s numeric.Summary) {
	fmt.Fprintf(b, "- %s: n=%d mean %.2f median %.2f std %.2f min %.2f max %.2f p25 %.2f p75 %.2f p95 %.2f\n",
		label, s.Count, s.Mean, s.Median, s.Std, s.Min, s.Max, s.P25, s.P75, s.P95)
}

func writeOutliers(b *strings.Builder, kind string, flags []model.OutlierFlag) {
	for _, f := range flags {
		fmt.Fprintf(b, "- %s %s: %s=%.2f (reference %.2f, deviation %.2f)\n",
			kind, f.ID, f.Metric, f.Value, f.Center, f.Deviation)
	}
}

func busiestHour(hours [24]int) (int, int) {
	best, count := 0, 0
	for h, n := range hours {
		if n > count {
			best, count = h, n
		}
	}
	return best, count
}
