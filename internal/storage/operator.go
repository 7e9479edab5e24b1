package storage

import "log/slog"

// Operator identifies who triggered a write. Passed explicitly into every
// write path instead of living in session state.
type Operator struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

func (o Operator) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", o.Name),
		slog.Int("level", o.Level),
	)
}
