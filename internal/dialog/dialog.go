// Package dialog is the terminal dialog for building a composite camera.
//
// It lists the user cameras of the scene, takes a Frame In / Frame Out pair
// for the selected camera and builds the composite camera on request. Every
// message the session reports is shown in a box that must be dismissed
// before the dialog accepts other input.
//
// Keys:
//
//	up/down   select a camera
//	tab       move between the camera list and the frame fields
//	0-9       type into the focused frame field
//	s, enter  set the frame range of the selected camera
//	x         clear the frame range of the selected camera
//	b         create the uber camera
//	r         refresh the camera list
//	q, ctrl+c quit
package dialog

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jdshortiss/uber-camera/internal/engine"
	"github.com/jdshortiss/uber-camera/internal/scene"
)

// maxDigits bounds the frame fields to four digit frames.
const maxDigits = 4

type focus int

const (
	focusList focus = iota
	focusIn
	focusOut
)

func (f focus) String() string {
	switch f {
	case focusIn:
		return "frame_in"
	case focusOut:
		return "frame_out"
	default:
		return "list"
	}
}

// Notice is one message reported by the session.
type Notice struct {
	Title   string
	Message string
}

// notices queues session messages until the user dismisses them.
type notices struct {
	queue []Notice
}

func (n *notices) Notify(title, message string) {
	n.queue = append(n.queue, Notice{Title: title, Message: message})
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	assignedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	fieldStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	focusedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Underline(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	noticeStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Model is the bubbletea model of the dialog.
type Model struct {
	session  *engine.Session
	notices  *notices
	cursor   int
	focus    focus
	frameIn  string
	frameOut string
	builds   []*engine.Build
	err      error
}

// New creates a dialog over session. The session reports its messages to
// the dialog from then on.
func New(session *engine.Session) Model {
	n := &notices{}
	session.Notifier = n
	return Model{
		session: session,
		notices: n,
	}
}

// Run shows the dialog until the user quits and returns the final model.
func Run(m Model, opts ...tea.ProgramOption) (Model, error) {
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return m, err
	}
	return final.(Model), nil
}

// Init implements tea.Model interface.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model interface.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// A pending message blocks everything else
	if len(m.notices.queue) > 0 {
		switch key.Type {
		case tea.KeyEnter, tea.KeyEsc, tea.KeySpace:
			m.notices.queue = m.notices.queue[1:]
		}
		return m, nil
	}

	switch key.String() {
	case "tab":
		m.focus = (m.focus + 1) % 3
		return m, nil
	case "shift+tab":
		m.focus = (m.focus + 2) % 3
		return m, nil
	case "s":
		m.submit()
		return m, nil
	case "b":
		m.build()
		return m, nil
	case "r":
		m.refresh()
		return m, nil
	case "x":
		m.clear()
		return m, nil
	}

	if m.focus == focusList {
		return m.updateList(key)
	}
	return m.updateField(key)
}

func (m Model) updateList(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	cams := m.session.Cameras()
	switch key.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		m.selectCursor()
	case "down", "j":
		if m.cursor < len(cams)-1 {
			m.cursor++
		}
		m.selectCursor()
	case "enter", " ":
		m.selectCursor()
	}
	return m, nil
}

func (m Model) updateField(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	field := &m.frameIn
	if m.focus == focusOut {
		field = &m.frameOut
	}

	switch key.Type {
	case tea.KeyEnter:
		m.submit()
	case tea.KeyBackspace:
		if len(*field) > 0 {
			*field = (*field)[:len(*field)-1]
		}
	case tea.KeyRunes:
		for _, r := range key.Runes {
			if r >= '0' && r <= '9' && len(*field) < maxDigits {
				*field += string(r)
			}
		}
	}
	return m, nil
}

// selectCursor selects the camera under the cursor and shows its range.
func (m *Model) selectCursor() {
	cams := m.session.Cameras()
	if len(cams) == 0 {
		return
	}
	w, err := m.session.Select(cams[m.cursor])
	if err != nil {
		m.err = err
		return
	}
	m.frameIn = strconv.Itoa(w.Start)
	m.frameOut = strconv.Itoa(w.End)
}

func (m *Model) submit() {
	// Empty fields read as 0 and are rejected by the frame bounds
	in, _ := strconv.Atoi(m.frameIn)
	out, _ := strconv.Atoi(m.frameOut)
	m.err = m.session.SubmitFrameRange(in, out)
}

func (m *Model) build() {
	b, err := m.session.Build()
	m.err = err
	if err == nil {
		m.builds = append(m.builds, b)
	}
}

func (m *Model) refresh() {
	if err := m.session.Refresh(); err != nil {
		m.err = err
		m.notices.Notify("Refresh Failed", err.Error())
		return
	}
	m.cursor = 0
	m.frameIn, m.frameOut = "", ""
	m.err = nil
}

func (m *Model) clear() {
	cam := m.session.Selected()
	if cam == "" {
		m.notices.Notify(engine.TitleUpdateFailed, engine.MsgSelectCamera)
		return
	}
	m.err = m.session.Clear(cam)
	m.frameIn, m.frameOut = "0", "0"
}

// View implements tea.Model interface.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Uber Camera"))
	b.WriteString("\n\n")
	b.WriteString("Select Camera:\n")

	cams := m.session.Cameras()
	if len(cams) == 0 {
		b.WriteString(helpStyle.Render("  (no user cameras in scene)"))
		b.WriteString("\n")
	}
	for i, cam := range cams {
		b.WriteString(m.cameraLine(i, cam))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.fieldLine("Frame In: ", m.frameIn, focusIn))
	b.WriteString(m.fieldLine("Frame Out:", m.frameOut, focusOut))

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("[s] Set Frame Range  [b] Create Uber Camera  [r] Refresh  [x] Clear  [q] Quit"))
	b.WriteString("\n")

	if n, ok := m.Notice(); ok {
		body := titleStyle.Render(n.Title) + "\n\n" + n.Message + "\n\n" + helpStyle.Render("(Enter to dismiss)")
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(body))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) cameraLine(i int, cam scene.NodeID) string {
	marker := "  "
	name := string(cam)
	if cam == m.session.Selected() {
		marker = "> "
		name = cursorStyle.Render(name)
	} else if i == m.cursor && m.focus == focusList {
		marker = "- "
	}

	rng := "-"
	if w := m.session.Window(cam); w.Assigned() {
		rng = assignedStyle.Render(w.String())
	}
	return fmt.Sprintf("%s%-24s %s", marker, name, rng)
}

func (m Model) fieldLine(label, value string, f focus) string {
	style := fieldStyle
	if m.focus == f {
		style = focusedStyle
	}
	return fmt.Sprintf("%s %s\n", label, style.Render("["+value+"]"))
}

// Notice returns the message waiting to be dismissed.
func (m Model) Notice() (Notice, bool) {
	if len(m.notices.queue) == 0 {
		return Notice{}, false
	}
	return m.notices.queue[0], true
}

// Builds returns every composite camera built in this dialog.
func (m Model) Builds() []*engine.Build {
	return m.builds
}

// Err returns the error of the last action, if any.
func (m Model) Err() error {
	return m.err
}

// CurrentInput returns the text of the focused frame field.
func (m Model) CurrentInput() string {
	switch m.focus {
	case focusIn:
		return m.frameIn
	case focusOut:
		return m.frameOut
	}
	return ""
}

// CurrentMode returns "message" while a notice is shown, otherwise the
// focused control.
func (m Model) CurrentMode() string {
	if len(m.notices.queue) > 0 {
		return "message"
	}
	return m.focus.String()
}

// CheckCondition evaluates named conditions on the dialog state.
func (m Model) CheckCondition(condition string) bool {
	switch condition {
	case "has_selection":
		return m.session.Selected() != ""
	case "has_notice":
		return len(m.notices.queue) > 0
	case "has_build":
		return len(m.builds) > 0
	case "has_assignments":
		return len(m.session.Assignments()) > 0
	default:
		return false
	}
}
