package config

import (
	"fmt"
	"strings"
)

// PodColumn is the closed set of pod-table columns from spec §6
// (`pod.default_columns`, `pod.column_presets`).
type PodColumn int

const (
	ColumnName PodColumn = iota
	ColumnReady
	ColumnStatus
	ColumnRestarts
	ColumnAge
	ColumnIP
	ColumnNode
	ColumnNominatedNode
	ColumnReadinessGates
)

var allPodColumns = []PodColumn{
	ColumnName, ColumnReady, ColumnStatus, ColumnRestarts, ColumnAge,
	ColumnIP, ColumnNode, ColumnNominatedNode, ColumnReadinessGates,
}

func (c PodColumn) String() string {
	switch c {
	case ColumnName:
		return "Name"
	case ColumnReady:
		return "Ready"
	case ColumnStatus:
		return "Status"
	case ColumnRestarts:
		return "Restarts"
	case ColumnAge:
		return "Age"
	case ColumnIP:
		return "IP"
	case ColumnNode:
		return "Node"
	case ColumnNominatedNode:
		return "NominatedNode"
	case ColumnReadinessGates:
		return "ReadinessGates"
	default:
		return "Unknown"
	}
}

// normalizeColumnName strips separators and lowercases, so "nominated_node",
// "nominated-node" and "NominatedNode" all resolve to the same column.
func normalizeColumnName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}

func columnByName(name string) (PodColumn, bool) {
	norm := normalizeColumnName(name)
	for _, c := range allPodColumns {
		if normalizeColumnName(c.String()) == norm {
			return c, false
		}
	}
	return 0, true
}

func validColumnNames() string {
	parts := make([]string, len(allPodColumns))
	for i, c := range allPodColumns {
		parts[i] = strings.ToLower(c.String())
	}
	return strings.Join(parts, ", ")
}

// ParsePodColumns implements spec §8's boundary behaviour for
// `pod.columns`: "full" alone expands to all 9 columns; "full" combined
// with anything else is an error; duplicates are never produced; Name is
// always forced first when omitted. Grounded on the original source's
// cmd/args/pod_columns.rs::parse_pod_columns.
func ParsePodColumns(input string) ([]PodColumn, error) {
	var entries []string
	for _, raw := range strings.Split(input, ",") {
		trimmed := strings.TrimSpace(raw)
		if trimmed != "" {
			entries = append(entries, trimmed)
		}
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("columns list must not be empty")
	}

	hasFull := false
	for _, e := range entries {
		if normalizeColumnName(e) == "full" {
			hasFull = true
			break
		}
	}
	if hasFull && len(entries) > 1 {
		return nil, fmt.Errorf("Cannot specify 'full' with other columns. Use 'full' alone to get all columns.")
	}
	if hasFull {
		out := make([]PodColumn, len(allPodColumns))
		copy(out, allPodColumns)
		return out, nil
	}

	seen := map[PodColumn]bool{}
	var columns []PodColumn
	for _, e := range entries {
		col, unknown := columnByName(e)
		if unknown {
			return nil, fmt.Errorf("Invalid column name: %s. Valid options are: %s", e, validColumnNames())
		}
		if !seen[col] {
			seen[col] = true
			columns = append(columns, col)
		}
	}

	if !seen[ColumnName] {
		columns = append([]PodColumn{ColumnName}, columns...)
	}

	return columns, nil
}

// DefaultPodColumns is spec §6's built-in `pod.default_columns` fallback
// when neither a config file nor a preset selects one.
func DefaultPodColumns() []PodColumn {
	return []PodColumn{ColumnName, ColumnReady, ColumnStatus, ColumnAge}
}
