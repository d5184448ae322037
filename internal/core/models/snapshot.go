package models

// Snapshot is what the live driver publishes after every tick. A published
// snapshot is never mutated; readers may hold on to it freely.
type Snapshot struct {
	RunID       string   `json:"run_id"`
	TimeStep    int      `json:"time_step"`
	States      []State  `json:"states"`
	Metric      string   `json:"metric"`
	MetricValue float64  `json:"metric_value"`
	Info        StepInfo `json:"info"`
}
