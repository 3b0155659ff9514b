// Package kubetable is the shared response shape every poller emits: a
// Kubernetes Table-format listing merged across namespaces (spec §3
// KubeTable, §4.3).
package kubetable

import "fmt"

// Row is one table row plus the routing metadata the UI's selection
// handlers need (spec §3: "A row also carries {namespace, name, metadata}
// used for row-selection dispatch").
type Row struct {
	Cells     []string
	Namespace string
	Name      string
	Metadata  map[string]string
}

// Table is the merged, ordered listing a poller produces. The invariant
// len(row.Cells) == len(Header) for every row (spec §8) is enforced by New.
type Table struct {
	Header []string
	Rows   []Row
}

// New validates the invariant and returns a Table, or an error if any row's
// cell count disagrees with the header.
func New(header []string, rows []Row) (Table, error) {
	for i, r := range rows {
		if len(r.Cells) != len(header) {
			return Table{}, fmt.Errorf("kubetable: row %d has %d cells, want %d (header %v)", i, len(r.Cells), len(header), header)
		}
	}
	return Table{Header: header, Rows: rows}, nil
}

// WithNamespaceColumn prefixes Header with "NAMESPACE" and every row's
// Cells with its Namespace, per spec §4.3/§8: "Single namespace mode omits
// the NAMESPACE column ... multi-namespace mode includes it."
func WithNamespaceColumn(header []string, rows []Row) ([]string, []Row) {
	newHeader := append([]string{"NAMESPACE"}, header...)
	newRows := make([]Row, len(rows))
	for i, r := range rows {
		cells := append([]string{r.Namespace}, r.Cells...)
		newRows[i] = Row{Cells: cells, Namespace: r.Namespace, Name: r.Name, Metadata: r.Metadata}
	}
	return newHeader, newRows
}
