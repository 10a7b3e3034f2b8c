package dash

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mfenwick/vigil/internal/config"
	"github.com/mfenwick/vigil/internal/control"
	"github.com/mfenwick/vigil/internal/metrics"
	"github.com/mfenwick/vigil/internal/privilege"
	"github.com/mfenwick/vigil/internal/ui"
)

const (
	// actionTimeout bounds every control-plane command launched from the
	// dashboard. systemctl start on a hung unit can otherwise block forever.
	actionTimeout = 15 * time.Second

	headerHeight = 3
	footerHeight = 2
)

// Tab identifies one dashboard view.
type Tab int

const (
	TabOverview Tab = iota
	TabCPU
	TabMemory
	TabDisks
	TabNetwork
	TabGPU
	TabContainers
	TabProcesses
	TabServices
	TabLogs
	TabBoot
	TabSystem

	tabCount
)

// String returns the tab's display name.
func (t Tab) String() string {
	switch t {
	case TabOverview:
		return "Overview"
	case TabCPU:
		return "CPU"
	case TabMemory:
		return "Memory"
	case TabDisks:
		return "Disks"
	case TabNetwork:
		return "Network"
	case TabGPU:
		return "GPU"
	case TabContainers:
		return "Containers"
	case TabProcesses:
		return "Processes"
	case TabServices:
		return "Services"
	case TabLogs:
		return "Logs"
	case TabBoot:
		return "Boot"
	case TabSystem:
		return "System"
	default:
		return "Unknown"
	}
}

// Next returns the following tab, wrapping at the end.
func (t Tab) Next() Tab {
	return (t + 1) % tabCount
}

// Prev returns the preceding tab, wrapping at the start.
func (t Tab) Prev() Tab {
	return (t - 1 + tabCount) % tabCount
}

// journalPriorities are the severity ceilings the logs tab cycles through,
// least to most restrictive. Empty means unfiltered.
var journalPriorities = []string{"", "debug", "info", "notice", "warning", "err", "crit"}

// statusLine is the last action's outcome, shown in the footer.
type statusLine struct {
	text string
	ok   bool
	when time.Time
}

// pendingAction is a destructive service action awaiting y/n confirmation.
type pendingAction struct {
	action control.Action
	unit   string
}

// sysEdit names which system identity field is being edited.
type sysEdit string

const (
	editNone     sysEdit = ""
	editHostname sysEdit = "hostname"
	editTimezone sysEdit = "timezone"
)

// Model is the bubbletea model for the dashboard. All fields are owned by the
// update loop; background work happens in commands that complete as messages.
type Model struct {
	sched *metrics.Scheduler
	ctrl  *control.Controller
	gate  privilege.Gate

	snapshots <-chan *metrics.SystemSnapshot
	snap      *metrics.SystemSnapshot

	width  int
	height int

	tab      Tab
	quitting bool
	paused   bool
	showHelp bool
	spin     ui.Spinner
	lastTick time.Time
	status   statusLine

	// Process table
	sortMode    metrics.SortMode
	sortReverse bool
	showSystem  bool
	filterInput textinput.Model
	filtering   bool
	procSel     int
	procDetail  *metrics.ProcessDetail
	detailErr   error
	detailOpen  bool

	// Services
	services  []control.ServiceUnit
	svcErr    error
	svcSel    int
	svcLoaded bool
	svcBusy   bool
	confirm   *pendingAction

	// Journal
	entries    []control.JournalEntry
	logErr     error
	logUnits   []string
	logUnitSel int // -1 selects all units
	boots      []control.BootSession
	bootSel    int // index into boots, -1 selects all boots
	priority   int // index into journalPriorities
	logsBusy   bool

	// Boot configuration
	grub        *control.GrubConfig
	grubErr     error
	grubSel     int
	editing     bool
	editInput   textinput.Model
	confirmSave bool
	grubBusy    bool

	// System identity
	timezone string
	sysEdit  sysEdit
	sysInput textinput.Model

	viewport      viewport.Model
	viewportReady bool
}

// New creates the dashboard model. The scheduler must already be running (or
// about to run); the model only consumes its subscription channel.
func New(sched *metrics.Scheduler, ctrl *control.Controller, cfg *config.Config) Model {
	filter := textinput.New()
	filter.Placeholder = "name or command"
	filter.Prompt = "/ "
	filter.CharLimit = 64
	filter.Width = 32

	edit := textinput.New()
	edit.CharLimit = 256
	edit.Width = 48

	sys := textinput.New()
	sys.CharLimit = 128
	sys.Width = 40

	return Model{
		sched:       sched,
		ctrl:        ctrl,
		gate:        ctrl.Gate(),
		snapshots:   sched.Subscribe(),
		snap:        sched.Latest(),
		spin:        ui.NewSpinner(),
		tab:         TabOverview,
		sortMode:    metrics.SortGeneral,
		showSystem:  cfg.ShowSystemProcesses,
		filterInput: filter,
		editInput:   edit,
		sysInput:    sys,
		logUnitSel:  -1,
		bootSel:     -1,
	}
}

// Messages produced by commands.
type (
	snapshotMsg *metrics.SystemSnapshot

	servicesMsg struct {
		units []control.ServiceUnit
		err   error
	}

	actionDoneMsg struct {
		action control.Action
		unit   string
		err    error
	}

	journalMsg struct {
		entries []control.JournalEntry
		err     error
	}

	bootsMsg struct {
		boots []control.BootSession
		err   error
	}

	grubMsg struct {
		cfg *control.GrubConfig
		err error
	}

	grubSavedMsg struct {
		err error
	}

	detailMsg struct {
		detail *metrics.ProcessDetail
		err    error
	}

	timezoneMsg struct {
		tz  string
		err error
	}

	sysDoneMsg struct {
		what  sysEdit
		value string
		err   error
	}
)

// Init starts the two cadences: snapshot consumption and the spinner tick,
// which doubles as the repaint timer between snapshots.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForSnapshot(m.snapshots), m.spin.Tick())
}

// waitForSnapshot blocks on the subscription channel until the scheduler
// publishes. The handler re-arms it, so exactly one receive is outstanding.
func waitForSnapshot(ch <-chan *metrics.SystemSnapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

func (m Model) loadServicesCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		units, err := ctrl.Services(ctx)
		return servicesMsg{units: units, err: err}
	}
}

func (m Model) applyServiceCmd(action control.Action, unit string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		err := ctrl.ApplyService(ctx, action, unit)
		return actionDoneMsg{action: action, unit: unit, err: err}
	}
}

func (m Model) loadJournalCmd() tea.Cmd {
	ctrl := m.ctrl
	q := m.journalQuery()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		entries, err := ctrl.Journal(ctx, q)
		return journalMsg{entries: entries, err: err}
	}
}

// journalQuery builds the query for the current unit, priority, and boot
// selections.
func (m Model) journalQuery() control.JournalQuery {
	q := control.JournalQuery{}
	if m.logUnitSel >= 0 && m.logUnitSel < len(m.logUnits) {
		q.Unit = m.logUnits[m.logUnitSel]
	}
	if p := journalPriorities[m.priority]; p != "" {
		q.Priority = p
	}
	if m.bootSel >= 0 && m.bootSel < len(m.boots) {
		q.Boot = strconv.Itoa(m.boots[m.bootSel].Index)
	}
	return q
}

func (m Model) loadBootsCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		boots, err := ctrl.Boots(ctx)
		return bootsMsg{boots: boots, err: err}
	}
}

func (m Model) loadGrubCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		cfg, err := ctrl.LoadGrub()
		return grubMsg{cfg: cfg, err: err}
	}
}

func (m Model) saveGrubCmd() tea.Cmd {
	ctrl := m.ctrl
	cfg := m.grub
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		return grubSavedMsg{err: ctrl.SaveGrub(ctx, cfg)}
	}
}

func inspectCmd(pid int32) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		detail, err := metrics.Inspect(ctx, pid)
		return detailMsg{detail: detail, err: err}
	}
}

func (m Model) loadTimezoneCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		tz, err := ctrl.Timezone(ctx)
		return timezoneMsg{tz: tz, err: err}
	}
}

func (m Model) setHostnameCmd(name string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		return sysDoneMsg{what: editHostname, value: name, err: ctrl.SetHostname(ctx, name)}
	}
}

func (m Model) setTimezoneCmd(tz string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		return sysDoneMsg{what: editTimezone, value: tz, err: ctrl.SetTimezone(ctx, tz)}
	}
}

// Update handles all messages and drives state transitions.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		contentHeight := msg.Height - headerHeight - footerHeight
		if contentHeight < 1 {
			contentHeight = 1
		}
		if !m.viewportReady {
			m.viewport = viewport.New(msg.Width, contentHeight)
			m.viewportReady = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = contentHeight
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case snapshotMsg:
		m.snap = (*metrics.SystemSnapshot)(msg)
		m.lastTick = time.Now()
		m.clampProcSel()
		return m, waitForSnapshot(m.snapshots)

	case servicesMsg:
		m.svcBusy = false
		m.svcLoaded = true
		m.services = msg.units
		m.svcErr = msg.err
		if m.svcSel >= len(m.services) {
			m.svcSel = len(m.services) - 1
		}
		if m.svcSel < 0 {
			m.svcSel = 0
		}
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.setStatus(string(msg.action)+" "+msg.unit+": "+errLine(msg.err), false)
		} else {
			m.setStatus(string(msg.action)+" "+msg.unit+": done", true)
		}
		// A failed action can still have changed unit state; re-enumerate
		// either way instead of patching the list.
		return m, m.loadServicesCmd()

	case journalMsg:
		m.logsBusy = false
		m.entries = msg.entries
		m.logErr = msg.err
		if msg.err == nil && m.logUnitSel == -1 {
			m.logUnits = collectUnits(msg.entries)
		}
		return m, nil

	case bootsMsg:
		if msg.err == nil {
			m.boots = msg.boots
		}
		return m, nil

	case grubMsg:
		m.grubBusy = false
		m.grub = msg.cfg
		m.grubErr = msg.err
		if m.grub != nil {
			if n := len(m.grub.Params()); m.grubSel >= n {
				m.grubSel = n - 1
			}
		}
		if m.grubSel < 0 {
			m.grubSel = 0
		}
		return m, nil

	case grubSavedMsg:
		m.grubBusy = false
		if msg.err != nil {
			m.setStatus("save boot config: "+errLine(msg.err), false)
			return m, nil
		}
		m.setStatus("boot config saved (run update-grub to apply)", true)
		// Re-read so the buffer reflects what landed on disk
		return m, m.loadGrubCmd()

	case detailMsg:
		m.procDetail = msg.detail
		m.detailErr = msg.err
		return m, nil

	case timezoneMsg:
		if msg.err == nil {
			m.timezone = msg.tz
		}
		return m, nil

	case sysDoneMsg:
		if msg.err != nil {
			m.setStatus("set "+string(msg.what)+": "+errLine(msg.err), false)
			return m, nil
		}
		m.setStatus(string(msg.what)+" set to "+msg.value, true)
		if msg.what == editTimezone {
			return m, m.loadTimezoneCmd()
		}
		return m, nil
	}

	return m, nil
}

// setStatus records an action outcome for the footer status line.
func (m *Model) setStatus(text string, ok bool) {
	m.status = statusLine{text: text, ok: ok, when: time.Now()}
}

// clampProcSel keeps the process selection inside the current filtered table.
func (m *Model) clampProcSel() {
	n := len(m.visibleProcesses())
	if m.procSel >= n {
		m.procSel = n - 1
	}
	if m.procSel < 0 {
		m.procSel = 0
	}
}

// visibleProcesses returns the process table rows after filter and sort.
func (m Model) visibleProcesses() []metrics.ProcessInfo {
	if m.snap == nil {
		return nil
	}

	procs := metrics.FilterProcesses(m.snap.Processes, m.filterInput.Value(), m.showSystem)
	metrics.SortProcesses(procs, m.sortMode)

	if m.sortReverse {
		for i, j := 0, len(procs)-1; i < j; i, j = i+1, j-1 {
			procs[i], procs[j] = procs[j], procs[i]
		}
	}
	return procs
}

// selectedProcess returns the highlighted row, or nil when the table is empty.
func (m Model) selectedProcess() *metrics.ProcessInfo {
	procs := m.visibleProcesses()
	if m.procSel < 0 || m.procSel >= len(procs) {
		return nil
	}
	p := procs[m.procSel]
	return &p
}

// selectedService returns the highlighted unit, or nil when the list is empty.
func (m Model) selectedService() *control.ServiceUnit {
	if m.svcSel < 0 || m.svcSel >= len(m.services) {
		return nil
	}
	u := m.services[m.svcSel]
	return &u
}

// collectUnits dedupes the unit names present in a batch of entries, in
// first-seen order. The logs tab cycles through these.
func collectUnits(entries []control.JournalEntry) []string {
	seen := make(map[string]bool)
	var units []string
	for _, e := range entries {
		if e.Unit == "" || seen[e.Unit] {
			continue
		}
		seen[e.Unit] = true
		units = append(units, e.Unit)
	}
	return units
}

// enterTab switches views and kicks off any data loads the tab needs.
func (m *Model) enterTab(t Tab) tea.Cmd {
	m.tab = t
	m.detailOpen = false

	var cmds []tea.Cmd
	switch t {
	case TabServices:
		if !m.svcLoaded {
			m.svcBusy = true
			cmds = append(cmds, m.loadServicesCmd())
		}
	case TabLogs:
		if m.entries == nil && m.logErr == nil {
			m.logsBusy = true
			cmds = append(cmds, m.loadJournalCmd())
		}
		if m.boots == nil {
			cmds = append(cmds, m.loadBootsCmd())
		}
	case TabBoot:
		if m.grub == nil && m.grubErr == nil {
			m.grubBusy = true
			cmds = append(cmds, m.loadGrubCmd())
		}
	case TabSystem:
		if m.timezone == "" {
			cmds = append(cmds, m.loadTimezoneCmd())
		}
	}

	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}
