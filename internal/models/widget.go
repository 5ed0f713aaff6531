package models

// WidgetKind is the rendering shape of one result widget.
type WidgetKind string

const (
	WidgetMetric WidgetKind = "metric"
	WidgetBar    WidgetKind = "bar"
	WidgetLine   WidgetKind = "line"
	WidgetPie    WidgetKind = "pie"
	WidgetTable  WidgetKind = "table"
	WidgetAOV    WidgetKind = "aov"
)

// ValueKind tells the client how to format values: cents are money,
// counts are plain integers.
type ValueKind string

const (
	ValueCents ValueKind = "cents"
	ValueCount ValueKind = "count"
)

// Row is one labelled value in a bar, pie or table widget.
type Row struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// Point is one point of a line series. Labels are hours ("14:00") or
// dates ("2025-01-03") depending on the series.
type Point struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// AOVRow carries the order count alongside the average so downstream
// summaries can weight correctly.
type AOVRow struct {
	Location string `json:"location"`
	AOVCents int64  `json:"aov_cents"`
	Orders   int64  `json:"orders"`
}

// MetricPayload is the single value of a metric widget.
type MetricPayload struct {
	Value int64 `json:"value"`
}

// Widget is one typed result block. Exactly one of Metric, Rows, Points
// and AOV is populated, matching Kind. IDs are deterministic over the
// query id and its resolved scope, so identical questions produce
// identical widgets.
type Widget struct {
	ID        string         `json:"id"`
	Kind      WidgetKind     `json:"kind"`
	Title     string         `json:"title"`
	Note      string         `json:"note,omitempty"`
	ValueKind ValueKind      `json:"value_kind"`
	Metric    *MetricPayload `json:"metric,omitempty"`
	Rows      []Row          `json:"rows,omitempty"`
	Points    []Point        `json:"points,omitempty"`
	AOV       []AOVRow       `json:"aov,omitempty"`
}
