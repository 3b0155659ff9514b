package ui

// Dialog is a modal overlay sharing the widget capability set (spec §4.6
// Dialogs). Registered by id in a Window's dialog registry; exactly one
// may be open at a time.
type Dialog struct {
	ID     string
	Widget Widget
}

// DialogRegistry holds every registered Dialog and tracks which one (if
// any) is open (spec §4.6: "Registered by id; exactly one may be open;
// Esc closes"). Dialogs used: context picker, namespace picker (single and
// multi), API-resources checklist, YAML kind picker, YAML name picker,
// log-query help, pod-columns checklist.
type DialogRegistry struct {
	dialogs map[string]Dialog
	openID  string
}

func NewDialogRegistry() *DialogRegistry {
	return &DialogRegistry{dialogs: map[string]Dialog{}}
}

func (r *DialogRegistry) Register(d Dialog) {
	r.dialogs[d.ID] = d
}

func (r *DialogRegistry) Open(id string) bool {
	if _, ok := r.dialogs[id]; !ok {
		return false
	}
	r.openID = id
	return true
}

func (r *DialogRegistry) Close() { r.openID = "" }

func (r *DialogRegistry) IsOpen() bool { return r.openID != "" }

func (r *DialogRegistry) Active() (Dialog, bool) {
	if r.openID == "" {
		return Dialog{}, false
	}
	d, ok := r.dialogs[r.openID]
	return d, ok
}
