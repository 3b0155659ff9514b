// Package view builds the Pod tab: a pod table on top of a log panel and
// a log-query input, wiring PodResponse/log-palette output into the
// ui.Widget tree (spec §4.6 selection-handler grounding, original source's
// pod tab split-pane layout).
package view

import (
	"context"
	"regexp"
	"strings"

	"github.com/kubetui/kubetui/internal/bus"
	"github.com/kubetui/kubetui/internal/config"
	podkube "github.com/kubetui/kubetui/internal/features/pod/kube"
	"github.com/kubetui/kubetui/internal/features/pod/log"
	"github.com/kubetui/kubetui/internal/kubetable"
	"github.com/kubetui/kubetui/internal/supervisor"
	"github.com/kubetui/kubetui/internal/ui"
)

// ColumnsDialogID is the id the pod-columns checklist dialog registers
// under in a Window's DialogRegistry (spec §4.6 Dialogs).
const ColumnsDialogID = "pod-columns"

// Tab composes the Pod list and its log panel.
type Tab struct {
	Table *ui.TableWidget
	Log   *ui.TextWidget
	Query *ui.InputFormWidget
	*ui.Tab

	// Columns is the pod-columns checklist dialog; toggling an entry and
	// confirming narrows which of the server's Table API columns
	// (spec §6 pod.default_columns/column_presets) the Pod table shows.
	Columns *ui.CheckListWidget

	sup     *supervisor.Supervisor
	visible map[string]bool

	logLines []string
	lastTable kubetable.Table
}

const maxLogLines = 5000

// New builds the Pod tab; requesting a log stream for the row under the
// cursor is wired through sup.StartLog (spec §4.2 LogRequest). cfg supplies
// the initial visible column set via its default_columns/column_presets
// precedence (spec §6/§8 ResolvePodColumns).
func New(sup *supervisor.Supervisor, cfg config.Config) *Tab {
	table := ui.NewTableWidget("pods")
	logText := ui.NewTextWidget("log")
	query := ui.NewInputFormWidget("log-query")

	cols, err := cfg.ResolvePodColumns("")
	if err != nil {
		cols = config.DefaultPodColumns()
	}
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.String())
	}
	columns := ui.NewCheckListWidget(ColumnsDialogID, allColumnNames())

	t := &Tab{Table: table, Log: logText, Query: query, Columns: columns, sup: sup, visible: visibleSetFromNames(names)}

	table.OnSelect = func(row kubetable.Row) ui.EventResult {
		return ui.CallbackResult(func(*ui.Window) ui.EventResult {
			t.startLogForRow(row)
			return ui.Nop()
		})
	}

	query.OnSubmit = func(raw string) ui.EventResult {
		return ui.CallbackResult(func(*ui.Window) ui.EventResult {
			t.startLogForQuery(raw)
			return ui.Nop()
		})
	}

	columns.OnConfirm = func(chosen []string) ui.EventResult {
		return ui.CallbackResult(func(w *ui.Window) ui.EventResult {
			w.Dialogs.Close()
			t.visible = visibleSetFromNames(chosen)
			t.applyColumnFilter()
			return ui.Nop()
		})
	}

	layout := ui.NewNestedWidgetLayout(ui.Vertical, []ui.NestedLayoutElement{
		{Constraint: ui.Pct(40), Element: ui.WidgetIndex(0)},
		{Constraint: ui.Len(3), Element: ui.WidgetIndex(2)},
		{Constraint: ui.Pct(60), Element: ui.WidgetIndex(1)},
	})
	t.Tab = ui.NewTab("pods-tab", "Pods", []ui.Widget{table, logText, query}, layout)
	return t
}

// ColumnsDialog returns the pod-columns checklist as a ui.Dialog, for
// registration with a Window's DialogRegistry.
func (t *Tab) ColumnsDialog() ui.Dialog {
	return ui.Dialog{ID: ColumnsDialogID, Widget: t.Columns}
}

// HelpDialogID is the id the log-query help dialog registers under in a
// Window's DialogRegistry (spec §4.6 Dialogs).
const HelpDialogID = "log-query-help"

var helpLines = []string{
	"pod:<regex>, po:, p:        filter by pod name",
	"container:<regex>, co:, c:  filter by container name",
	"log:<regex>, lo:, l:        filter by log line content",
	"label:<selector>            filter pods by label selector",
	"field:<selector>            filter pods by field selector",
	"<kind>/<name>                retrieve from a workload's pods/labels",
	"bare <regex>                shorthand for pod:<regex>",
	"prefix pod:, container: or log: with ! to negate it",
}

// HelpDialog returns the log-query help text as a ui.Dialog.
func HelpDialog() ui.Dialog {
	body := ui.NewTextWidget(HelpDialogID)
	body.SetLines(helpLines)
	return ui.Dialog{ID: HelpDialogID, Widget: body}
}

func allColumnNames() []string {
	names := make([]string, 0, 9)
	for _, c := range []config.PodColumn{
		config.ColumnName, config.ColumnReady, config.ColumnStatus, config.ColumnRestarts,
		config.ColumnAge, config.ColumnIP, config.ColumnNode, config.ColumnNominatedNode,
		config.ColumnReadinessGates,
	} {
		names = append(names, c.String())
	}
	return names
}

func visibleSetFromNames(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[strings.ToUpper(n)] = true
	}
	return set
}

// applyColumnFilter re-narrows the last received table to the currently
// visible column set and pushes it to the widget (spec §4.6 pod-columns
// checklist: toggling selection narrows the displayed columns).
func (t *Tab) applyColumnFilter() {
	t.Table.SetTable(filterColumns(t.lastTable, t.visible))
}

// filterColumns drops every header/cell column whose name (case-folded,
// spaces removed) isn't in visible; the NAMESPACE column added in
// multi-namespace mode is always kept. A nil/empty visible set means "show
// everything".
func filterColumns(tbl kubetable.Table, visible map[string]bool) kubetable.Table {
	if len(visible) == 0 || len(tbl.Header) == 0 {
		return tbl
	}

	var keep []int
	for i, h := range tbl.Header {
		if h == "NAMESPACE" || visible[strings.ToUpper(strings.ReplaceAll(h, " ", ""))] {
			keep = append(keep, i)
		}
	}
	if len(keep) == len(tbl.Header) {
		return tbl
	}

	header := make([]string, len(keep))
	for i, idx := range keep {
		header[i] = tbl.Header[idx]
	}

	rows := make([]kubetable.Row, len(tbl.Rows))
	for r, row := range tbl.Rows {
		cells := make([]string, len(keep))
		for i, idx := range keep {
			cells[i] = row.Cells[idx]
		}
		rows[r] = kubetable.Row{Cells: cells, Namespace: row.Namespace, Name: row.Name, Metadata: row.Metadata}
	}

	return kubetable.Table{Header: header, Rows: rows}
}

func (t *Tab) startLogForRow(row kubetable.Row) {
	t.restartLog(log.Filter{
		PodRegex: regexp.MustCompile("^" + regexp.QuoteMeta(row.Name) + "$"),
	})
}

func (t *Tab) startLogForQuery(raw string) {
	filter, err := log.ParseFilter(raw)
	if err != nil {
		t.logLines = append(t.logLines, "parse error: "+err.Error())
		t.Log.SetLines(t.logLines)
		return
	}
	t.restartLog(filter)
}

func (t *Tab) restartLog(filter log.Filter) {
	t.logLines = nil
	t.Log.SetLines(nil)
	t.sup.StartLog(context.Background(), supervisor.LogRequest{
		Filter: log.Config{Filter: filter, PrefixType: log.PrefixPodAndContainer},
	})
}

// Update applies an inbound bus.Message to this tab's widgets, reporting
// whether it was one this tab owns.
func (t *Tab) Update(msg bus.Message) bool {
	switch payload := msg.Kube.(type) {
	case podkube.Response:
		if payload.Err == nil {
			t.lastTable = payload.Table
			t.applyColumnFilter()
		}
		return true
	case log.Response:
		t.appendLog(payload.Lines)
		return true
	}
	return false
}

func (t *Tab) appendLog(lines []string) {
	t.logLines = append(t.logLines, lines...)
	if len(t.logLines) > maxLogLines {
		t.logLines = t.logLines[len(t.logLines)-maxLogLines:]
	}
	t.Log.SetLines(t.logLines)
}
