// Package summary derives one plain-English sentence per widget from the
// widget data itself, never from model output, so the narrative can never
// contradict the numbers shown.
package summary

import (
	"fmt"

	"github.com/omcar04/clave-take-home/internal/models"
)

// Build returns one sentence per widget that has something to say.
// Widgets whose data sums to zero are skipped rather than narrated.
func Build(widgets []models.Widget) []string {
	var lines []string
	for _, w := range widgets {
		if s := sentence(w); s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}

func sentence(w models.Widget) string {
	switch w.Kind {
	case models.WidgetMetric:
		return metricSentence(w)
	case models.WidgetBar, models.WidgetTable, models.WidgetPie:
		return rowsSentence(w)
	case models.WidgetLine:
		return lineSentence(w)
	case models.WidgetAOV:
		return aovSentence(w)
	default:
		return ""
	}
}

func metricSentence(w models.Widget) string {
	if w.Metric == nil || w.Metric.Value == 0 {
		return ""
	}
	s := fmt.Sprintf("%s: %s.", w.Title, formatValue(w.Metric.Value, w.ValueKind))
	if w.Note != "" {
		s += " " + w.Note
	}
	return s
}

func rowsSentence(w models.Widget) string {
	var total int64
	for _, r := range w.Rows {
		total += r.Value
	}
	if total == 0 || len(w.Rows) == 0 {
		return ""
	}
	top := w.Rows[0] // rows arrive sorted descending
	share := float64(top.Value) / float64(total) * 100
	return fmt.Sprintf("%s: %s total, led by %s at %s (%.1f%%).",
		w.Title, formatValue(total, w.ValueKind), top.Label, formatValue(top.Value, w.ValueKind), share)
}

func lineSentence(w models.Widget) string {
	var total int64
	peak := models.Point{}
	for _, p := range w.Points {
		total += p.Value
		if p.Value > peak.Value {
			peak = p
		}
	}
	if total == 0 {
		return ""
	}
	return fmt.Sprintf("%s: %s total, peaking at %s with %s.",
		w.Title, formatValue(total, w.ValueKind), peak.Label, formatValue(peak.Value, w.ValueKind))
}

func aovSentence(w models.Widget) string {
	var totalCents, totalOrders int64
	for _, r := range w.AOV {
		totalCents += r.AOVCents * r.Orders
		totalOrders += r.Orders
	}
	if totalOrders == 0 {
		return ""
	}
	overall := (totalCents + totalOrders/2) / totalOrders
	top := w.AOV[0] // sorted descending by average
	return fmt.Sprintf("%s: %s overall across %d orders, highest at %s (%s).",
		w.Title, formatCents(overall), totalOrders, top.Location, formatCents(top.AOVCents))
}

func formatValue(v int64, kind models.ValueKind) string {
	if kind == models.ValueCount {
		return fmt.Sprintf("%d", v)
	}
	return formatCents(v)
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
