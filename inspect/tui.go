// Package inspect is a terminal UI for stepping through one armgen build
// result: the final instruction stream, the register bindings the allocator
// chose, the preserved-register frame, and the interned constant pool. It is
// grounded on the same tcell/tview panel layout the original debugger TUI
// used, retargeted from single-stepping a running VM to browsing a
// finished build's static analysis output.
package inspect

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/nervapy-go/armgen/function"
	"github.com/nervapy-go/armgen/ir"
)

// TUI is the inspector's text user interface.
type TUI struct {
	Result *function.Result

	App   *tview.Application
	Pages *tview.Pages

	MainLayout *tview.Flex
	LeftPanel  *tview.Flex
	RightPanel *tview.Flex

	InstructionsView *tview.TextView
	BindingsView     *tview.TextView
	FrameView        *tview.TextView
	ConstantsView    *tview.TextView
	OutputView       *tview.TextView
	CommandInput     *tview.InputField

	cursor int // selected instruction index, for the Liveness focus commands
}

// NewTUI builds an inspector over one build result.
func NewTUI(result *function.Result) *TUI {
	t := &TUI{
		Result: result,
		App:    tview.NewApplication(),
	}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	return t
}

func (t *TUI) initializeViews() {
	t.InstructionsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.InstructionsView.SetBorder(true).SetTitle(" Instructions ")

	t.BindingsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.BindingsView.SetBorder(true).SetTitle(" Register Bindings ")

	t.FrameView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.FrameView.SetBorder(true).SetTitle(" Stack Frame ")

	t.ConstantsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.ConstantsView.SetBorder(true).SetTitle(" Constant Pool ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	t.LeftPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.InstructionsView, 0, 3, false)

	rightTop := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.BindingsView, 0, 1, false).
		AddItem(t.FrameView, 10, 0, false)

	t.RightPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(rightTop, 0, 2, false).
		AddItem(t.ConstantsView, 0, 1, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.LeftPanel, 0, 2, false).
		AddItem(t.RightPanel, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, 6, 0, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.Pages = tview.NewPages().AddPage("main", t.MainLayout, true, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		case tcell.KeyDown:
			t.moveCursor(1)
			return nil
		case tcell.KeyUp:
			t.moveCursor(-1)
			return nil
		}
		return event
	})
}

func (t *TUI) moveCursor(delta int) {
	n := len(t.Result.Instructions)
	if n == 0 {
		return
	}
	t.cursor = (t.cursor + delta + n) % n
	t.RefreshAll()
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := strings.TrimSpace(t.CommandInput.GetText())
	t.CommandInput.SetText("")
	if cmd == "" {
		return
	}
	t.executeCommand(cmd)
}

func (t *TUI) executeCommand(cmd string) {
	switch {
	case cmd == "quit" || cmd == "q":
		t.App.Stop()
	case cmd == "help":
		t.WriteOutput("commands: quit, help, goto <n>, live, avail\n")
	case strings.HasPrefix(cmd, "goto "):
		var n int
		if _, err := fmt.Sscanf(cmd, "goto %d", &n); err == nil && n >= 0 && n < len(t.Result.Instructions) {
			t.cursor = n
		} else {
			t.WriteOutput(fmt.Sprintf("[red]invalid instruction index[white]: %s\n", cmd))
		}
	case cmd == "live":
		t.WriteOutput(formatRegSet(t.Result.Instructions[t.cursor].Live) + "\n")
	case cmd == "avail":
		t.WriteOutput(formatRegSet(t.Result.Instructions[t.cursor].Available) + "\n")
	default:
		t.WriteOutput(fmt.Sprintf("[red]unknown command[white]: %s\n", cmd))
	}
	t.RefreshAll()
}

// WriteOutput appends text to the output view.
func (t *TUI) WriteOutput(text string) {
	_, _ = t.OutputView.Write([]byte(text))
	t.OutputView.ScrollToEnd()
}

// RefreshAll redraws every panel from the current Result and cursor.
func (t *TUI) RefreshAll() {
	t.updateInstructionsView()
	t.updateBindingsView()
	t.updateFrameView()
	t.updateConstantsView()
	t.App.Draw()
}

func (t *TUI) updateInstructionsView() {
	var b strings.Builder
	for i, inst := range t.Result.Instructions {
		marker := "  "
		color := "white"
		if i == t.cursor {
			marker = "->"
			color = "yellow"
		}
		fmt.Fprintf(&b, "[%s]%s %3d: %s[white]\n", color, marker, i, describeInstruction(inst))
	}
	t.InstructionsView.SetText(b.String())
}

func describeInstruction(inst *ir.Instruction) string {
	switch inst.Kind {
	case ir.LabelKind:
		return inst.Name + ":"
	case ir.Branch:
		target := inst.Target
		if target == "" {
			target = "<exit>"
		}
		return fmt.Sprintf("%s %s", inst.Mnemonic, target)
	case ir.ArgumentLoad:
		return fmt.Sprintf("ARG.LOAD #%d -> %s", inst.ArgIndex, inst.ArgDest)
	case ir.ConstantLoad:
		return fmt.Sprintf("%s =%s", inst.Mnemonic, inst.Constant.Label())
	default:
		regs := make([]string, 0, len(inst.Outputs)+len(inst.Inputs))
		for _, r := range inst.Outputs {
			regs = append(regs, r.String())
		}
		for _, r := range inst.Inputs {
			regs = append(regs, r.String())
		}
		return strings.TrimSpace(inst.Mnemonic + " " + strings.Join(regs, ", "))
	}
}

func (t *TUI) updateBindingsView() {
	var b strings.Builder
	for _, binding := range t.Result.Bindings {
		fmt.Fprintf(&b, "%-12s -> %s\n", binding.Virtual.String(), binding.Physical.String())
	}
	t.BindingsView.SetText(b.String())
}

func (t *TUI) updateFrameView() {
	var b strings.Builder
	fmt.Fprintf(&b, "low:  %s\n", regList(t.Result.Frame.Low()))
	fmt.Fprintf(&b, "high: %s\n", regList(t.Result.Frame.High()))
	fmt.Fprintf(&b, "d:    %s\n", regList(t.Result.Frame.DRegisters()))
	fmt.Fprintf(&b, "params offset: %d\n", t.Result.Frame.ParametersOffset())
	t.FrameView.SetText(b.String())
}

func (t *TUI) updateConstantsView() {
	var b strings.Builder
	if t.Result.Pool.Empty() {
		b.WriteString("(empty)\n")
	}
	for _, bucket := range t.Result.Pool.Buckets() {
		fmt.Fprintf(&b, "align %d:\n", bucket.Alignment)
		for _, c := range bucket.Constants {
			fmt.Fprintf(&b, "  %s (%d bytes x%d)\n", c.Label(), c.Size, c.Repeat)
		}
	}
	t.ConstantsView.SetText(b.String())
}

// Run starts the TUI event loop.
func (t *TUI) Run() error {
	t.RefreshAll()
	t.WriteOutput("[green]armgen inspector[white]\n")
	t.WriteOutput("up/down to move the instruction cursor, 'live'/'avail' to show its register sets\n\n")
	return t.App.SetRoot(t.Pages, true).SetFocus(t.CommandInput).Run()
}

// Stop stops the TUI event loop.
func (t *TUI) Stop() { t.App.Stop() }
