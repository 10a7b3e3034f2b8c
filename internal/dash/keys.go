package dash

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mfenwick/vigil/internal/control"
	"github.com/mfenwick/vigil/internal/metrics"
)

// Global key bindings
const (
	KeyQuit    = "q"
	KeyQuitAlt = "ctrl+c"
	KeyHelp    = "?"
	KeyPause   = "p"
	KeyNextTab = "tab"
	KeyPrevTab = "shift+tab"
	KeyEsc     = "esc"
	KeyEnter   = "enter"
	KeyUp      = "up"
	KeyDown    = "down"
	KeyVimUp   = "k"
	KeyVimDown = "j"
	KeyFilter  = "/"
	KeyReload  = "R"
)

// Process table bindings
const (
	KeySortCycle   = "o"
	KeySortCPU     = "c"
	KeySortMemory  = "m"
	KeySortName    = "n"
	KeySortDiskIO  = "G"
	KeySortPID     = "P"
	KeySortReverse = "r"
	KeyShowSystem  = "s"
)

// Services tab bindings
const (
	KeySvcStart   = "s"
	KeySvcStop    = "t"
	KeySvcRestart = "e"
	KeySvcEnable  = "E"
	KeySvcDisable = "D"
)

// Logs tab bindings
const (
	KeyLogUnit      = "u"
	KeyLogOlderBoot = "["
	KeyLogNewerBoot = "]"
	KeyLogMoreVerb  = "+"
	KeyLogLessVerb  = "-"
)

// System tab bindings
const (
	KeyEditHostname = "h"
	KeyEditTimezone = "z"
)

// tabKeys maps number keys to tabs. Letters cover the tabs past ten.
var tabKeys = map[string]Tab{
	"1": TabOverview,
	"2": TabCPU,
	"3": TabMemory,
	"4": TabDisks,
	"5": TabNetwork,
	"6": TabGPU,
	"7": TabContainers,
	"8": TabProcesses,
	"9": TabServices,
	"0": TabLogs,
	"g": TabBoot,
	"i": TabSystem,
}

// handleKey routes a keypress through the active input layers. Text entry
// and confirmation overlays swallow keys before anything global sees them.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.filtering {
		return m.handleFilterKey(key, msg)
	}
	if m.editing {
		return m.handleEditKey(key, msg)
	}
	if m.sysEdit != editNone {
		return m.handleSysEditKey(key, msg)
	}
	if m.confirmSave {
		return m.handleConfirmSaveKey(key)
	}
	if m.confirm != nil {
		return m.handleConfirmKey(key)
	}

	if key == KeyHelp {
		m.showHelp = !m.showHelp
		return m, nil
	}
	if m.showHelp {
		if key == KeyEsc || key == KeyQuit {
			m.showHelp = false
		}
		return m, nil
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return m, tea.Quit

	case KeyNextTab:
		return m, m.enterTab(m.tab.Next())

	case KeyPrevTab:
		return m, m.enterTab(m.tab.Prev())

	case KeyPause:
		m.paused = !m.paused
		m.sched.SetPaused(m.paused)
		return m, nil

	case KeyEsc:
		if m.detailOpen {
			m.detailOpen = false
			m.procDetail = nil
			m.detailErr = nil
			return m, nil
		}
		if m.tab != TabOverview {
			return m, m.enterTab(TabOverview)
		}
		return m, nil
	}

	if t, ok := tabKeys[key]; ok {
		return m, m.enterTab(t)
	}

	switch m.tab {
	case TabOverview, TabProcesses:
		return m.handleProcessKey(key, msg)
	case TabServices:
		return m.handleServicesKey(key)
	case TabLogs:
		return m.handleLogsKey(key, msg)
	case TabBoot:
		return m.handleBootKey(key)
	case TabSystem:
		return m.handleSystemKey(key)
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
}

// handleFilterKey runs while the process filter input has focus.
func (m Model) handleFilterKey(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case KeyEsc:
		m.filtering = false
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.clampProcSel()
		return m, nil
	case KeyEnter:
		m.filtering = false
		m.filterInput.Blur()
		m.clampProcSel()
		return m, nil
	default:
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.clampProcSel()
		return m, cmd
	}
}

// handleEditKey runs while a boot parameter value is being edited.
func (m Model) handleEditKey(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case KeyEsc:
		m.editing = false
		m.editInput.Blur()
		return m, nil
	case KeyEnter:
		m.editing = false
		m.editInput.Blur()

		params := m.grub.Params()
		if m.grubSel < 0 || m.grubSel >= len(params) {
			return m, nil
		}
		if err := m.grub.Set(params[m.grubSel].Key, m.editInput.Value()); err != nil {
			m.setStatus(errLine(err), false)
			return m, nil
		}
		// Staged in the buffer; nothing hits disk until confirmed
		m.confirmSave = true
		return m, nil
	default:
		var cmd tea.Cmd
		m.editInput, cmd = m.editInput.Update(msg)
		return m, cmd
	}
}

// handleSysEditKey runs while the hostname or timezone input has focus.
func (m Model) handleSysEditKey(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case KeyEsc:
		m.sysEdit = editNone
		m.sysInput.Blur()
		return m, nil
	case KeyEnter:
		what := m.sysEdit
		value := m.sysInput.Value()
		m.sysEdit = editNone
		m.sysInput.Blur()

		if value == "" {
			return m, nil
		}
		if what == editHostname {
			return m, m.setHostnameCmd(value)
		}
		return m, m.setTimezoneCmd(value)
	default:
		var cmd tea.Cmd
		m.sysInput, cmd = m.sysInput.Update(msg)
		return m, cmd
	}
}

// handleConfirmSaveKey runs while the boot config write confirmation is up.
func (m Model) handleConfirmSaveKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		m.confirmSave = false
		m.grubBusy = true
		return m, m.saveGrubCmd()
	case "n", "N", KeyEsc:
		m.confirmSave = false
		// Discard the staged edit by re-reading the file
		m.grubBusy = true
		return m, m.loadGrubCmd()
	}
	return m, nil
}

// handleConfirmKey runs while a destructive service action confirmation is up.
func (m Model) handleConfirmKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		pa := *m.confirm
		m.confirm = nil
		m.svcBusy = true
		return m, m.applyServiceCmd(pa.action, pa.unit)
	case "n", "N", KeyEsc:
		m.confirm = nil
	}
	return m, nil
}

// handleProcessKey covers the process table on the overview and processes tabs.
func (m Model) handleProcessKey(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case KeyUp, KeyVimUp:
		if m.procSel > 0 {
			m.procSel--
		}
		return m, nil

	case KeyDown, KeyVimDown:
		if m.procSel < len(m.visibleProcesses())-1 {
			m.procSel++
		}
		return m, nil

	case KeyEnter:
		p := m.selectedProcess()
		if p == nil {
			return m, nil
		}
		if m.tab == TabOverview {
			m.tab = TabProcesses
		}
		m.detailOpen = true
		m.procDetail = nil
		m.detailErr = nil
		return m, inspectCmd(p.PID)

	case KeyFilter:
		m.filtering = true
		m.filterInput.Focus()
		return m, textinput.Blink

	case KeySortCycle:
		m.sortMode = m.sortMode.Next()
		m.procSel = 0
		return m, nil

	case KeySortCPU:
		return m.setSort(metrics.SortCPU), nil
	case KeySortMemory:
		return m.setSort(metrics.SortMemory), nil
	case KeySortName:
		return m.setSort(metrics.SortName), nil
	case KeySortDiskIO:
		return m.setSort(metrics.SortDiskIO), nil
	case KeySortPID:
		return m.setSort(metrics.SortPID), nil

	case KeySortReverse:
		m.sortReverse = !m.sortReverse
		return m, nil

	case KeyShowSystem:
		m.showSystem = !m.showSystem
		m.procSel = 0
		return m, nil

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
}

// setSort switches the sort mode, or toggles direction when it is already
// active, the way most process viewers treat a repeated sort key.
func (m Model) setSort(mode metrics.SortMode) Model {
	if m.sortMode == mode {
		m.sortReverse = !m.sortReverse
		return m
	}
	m.sortMode = mode
	m.sortReverse = false
	m.procSel = 0
	return m
}

// handleServicesKey covers the service manager tab.
func (m Model) handleServicesKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case KeyUp, KeyVimUp:
		if m.svcSel > 0 {
			m.svcSel--
		}
		return m, nil

	case KeyDown, KeyVimDown:
		if m.svcSel < len(m.services)-1 {
			m.svcSel++
		}
		return m, nil

	case KeyReload:
		m.svcBusy = true
		return m, m.loadServicesCmd()
	}

	if m.svcBusy {
		return m, nil
	}

	unit := m.selectedService()
	if unit == nil {
		return m, nil
	}

	var action control.Action
	switch key {
	case KeySvcStart:
		action = control.ActionStart
	case KeySvcStop:
		action = control.ActionStop
	case KeySvcRestart:
		action = control.ActionRestart
	case KeySvcEnable:
		action = control.ActionEnable
	case KeySvcDisable:
		action = control.ActionDisable
	default:
		return m, nil
	}

	if action.NeedsConfirmation() {
		m.confirm = &pendingAction{action: action, unit: unit.Name}
		return m, nil
	}

	m.svcBusy = true
	return m, m.applyServiceCmd(action, unit.Name)
}

// handleLogsKey covers the journal viewer tab.
func (m Model) handleLogsKey(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case KeyLogUnit:
		// Cycle all -> first unit -> ... -> last unit -> all
		m.logUnitSel++
		if m.logUnitSel >= len(m.logUnits) {
			m.logUnitSel = -1
		}
		m.logsBusy = true
		return m, m.loadJournalCmd()

	case KeyLogOlderBoot:
		if m.bootSel < len(m.boots)-1 {
			m.bootSel++
			m.logsBusy = true
			return m, m.loadJournalCmd()
		}
		return m, nil

	case KeyLogNewerBoot:
		if m.bootSel >= 0 {
			m.bootSel--
			m.logsBusy = true
			return m, m.loadJournalCmd()
		}
		return m, nil

	case KeyLogMoreVerb, "=":
		if m.priority > 0 {
			m.priority--
			m.logsBusy = true
			return m, m.loadJournalCmd()
		}
		return m, nil

	case KeyLogLessVerb:
		if m.priority < len(journalPriorities)-1 {
			m.priority++
			m.logsBusy = true
			return m, m.loadJournalCmd()
		}
		return m, nil

	case KeyReload:
		m.logsBusy = true
		return m, m.loadJournalCmd()

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
}

// handleBootKey covers the boot configuration tab.
func (m Model) handleBootKey(key string) (tea.Model, tea.Cmd) {
	if m.grub == nil {
		if key == KeyReload {
			m.grubBusy = true
			return m, m.loadGrubCmd()
		}
		return m, nil
	}

	params := m.grub.Params()

	switch key {
	case KeyUp, KeyVimUp:
		if m.grubSel > 0 {
			m.grubSel--
		}
		return m, nil

	case KeyDown, KeyVimDown:
		if m.grubSel < len(params)-1 {
			m.grubSel++
		}
		return m, nil

	case KeyEnter:
		if m.grubSel < 0 || m.grubSel >= len(params) {
			return m, nil
		}
		m.editing = true
		m.editInput.SetValue(params[m.grubSel].Value)
		m.editInput.CursorEnd()
		m.editInput.Focus()
		return m, textinput.Blink

	case KeyReload:
		m.grubBusy = true
		return m, m.loadGrubCmd()
	}

	return m, nil
}

// handleSystemKey covers the system identity tab.
func (m Model) handleSystemKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case KeyEditHostname:
		m.sysEdit = editHostname
		if m.snap != nil && m.snap.Host != nil {
			m.sysInput.SetValue(m.snap.Host.Hostname)
		} else {
			m.sysInput.SetValue("")
		}
		m.sysInput.CursorEnd()
		m.sysInput.Focus()
		return m, textinput.Blink

	case KeyEditTimezone:
		m.sysEdit = editTimezone
		m.sysInput.SetValue(m.timezone)
		m.sysInput.CursorEnd()
		m.sysInput.Focus()
		return m, textinput.Blink
	}

	return m, nil
}
