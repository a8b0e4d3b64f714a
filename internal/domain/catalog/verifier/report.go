package verifier

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Bucket counts found records whose accuracy falls in [Min, Max].
type Bucket struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// Report aggregates a verification run. Not-found records count towards the
// found rate only; accuracy figures cover found records.
type Report struct {
	TotalRecords    int            `json:"total_records"`
	Sampled         int            `json:"sampled"`
	Found           int            `json:"found"`
	FoundRate       float64        `json:"found_rate"`
	AverageAccuracy float64        `json:"average_accuracy"`
	Buckets         []Bucket       `json:"buckets"`
	Records         []RecordResult `json:"records"`
}

func newBuckets() []Bucket {
	return []Bucket{
		{Label: "90-100%", Min: 90, Max: 100},
		{Label: "80-89%", Min: 80, Max: 89.999},
		{Label: "70-79%", Min: 70, Max: 79.999},
		{Label: "50-69%", Min: 50, Max: 69.999},
		{Label: "0-49%", Min: 0, Max: 49.999},
	}
}

// Summarize aggregates per-record results.
func Summarize(results []RecordResult) Report {
	report := Report{
		TotalRecords: len(results),
		Sampled:      len(results),
		Buckets:      newBuckets(),
		Records:      results,
	}

	var sum float64
	for _, r := range results {
		if !r.Found {
			continue
		}
		report.Found++
		sum += r.Accuracy
		for i := range report.Buckets {
			if r.Accuracy >= report.Buckets[i].Min {
				report.Buckets[i].Count++
				break
			}
		}
	}

	if report.Sampled > 0 {
		report.FoundRate = 100 * float64(report.Found) / float64(report.Sampled)
	}
	if report.Found > 0 {
		report.AverageAccuracy = sum / float64(report.Found)
	}
	return report
}

// NotFound returns the identifiers that could not be relocated.
func (r Report) NotFound() []string {
	var out []string
	for _, rec := range r.Records {
		if !rec.Found {
			out = append(out, rec.Identifier)
		}
	}
	return out
}

// Render writes a human-readable summary followed by the weakest records.
func (r Report) Render(w io.Writer, worst int) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Verification of %d sampled records (of %d)\n", r.Sampled, r.TotalRecords)
	fmt.Fprintf(&b, "  found:            %d (%.1f%%)\n", r.Found, r.FoundRate)
	fmt.Fprintf(&b, "  average accuracy: %.1f%%\n", r.AverageAccuracy)
	b.WriteString("  distribution:\n")
	for _, bucket := range r.Buckets {
		fmt.Fprintf(&b, "    %-8s %d\n", bucket.Label, bucket.Count)
	}

	if missing := r.NotFound(); len(missing) > 0 {
		fmt.Fprintf(&b, "  not found: %s\n", strings.Join(missing, ", "))
	}

	shown := 0
	for _, rec := range r.weakest() {
		if shown == worst {
			break
		}
		fmt.Fprintf(&b, "  %s %.0f%% (%d/%d)", rec.Identifier, rec.Accuracy, rec.Verified, rec.Total)
		for _, f := range rec.Fields {
			if f.Status != StatusNotFound {
				continue
			}
			fmt.Fprintf(&b, " %s=%q", f.Field, f.Value)
			if f.Hint != "" {
				fmt.Fprintf(&b, "~%q", f.Hint)
			}
		}
		b.WriteByte('\n')
		shown++
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// weakest returns found records below full accuracy, lowest first.
func (r Report) weakest() []RecordResult {
	var out []RecordResult
	for _, rec := range r.Records {
		if rec.Found && rec.Accuracy < 100 {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Accuracy < out[j].Accuracy })
	return out
}
