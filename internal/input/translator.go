package input

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/galley/internal/config"
)

// kindByName maps keymap action names to action kinds.
var kindByName = map[string]Kind{
	config.ActionCursorLeft:    CursorLeft,
	config.ActionCursorRight:   CursorRight,
	config.ActionCursorUp:      CursorUp,
	config.ActionCursorDown:    CursorDown,
	config.ActionDeleteBack:    DeleteBack,
	config.ActionDeleteForward: DeleteForward,
	config.ActionLineBreak:     LineBreak,
	config.ActionClearActive:   ClearActive,
	config.ActionUndo:          Undo,
	config.ActionRedo:          Redo,
	config.ActionQuit:          Quit,
}

// Translator converts tcell events into actions using a keymap.
// Translate runs on the frame loop while SetKeymap arrives from the
// config-watcher goroutine, so both take the translator's own lock.
type Translator struct {
	mu     sync.Mutex
	keymap config.Keymap

	// lastButtons detects press edges: mouse motion with a held
	// button reports the same mask and must not re-click.
	lastButtons tcell.ButtonMask
}

// NewTranslator creates a translator for the given keymap.
func NewTranslator(km config.Keymap) *Translator {
	return &Translator{keymap: km}
}

// SetKeymap swaps the keymap, for live config reload.
func (t *Translator) SetKeymap(km config.Keymap) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.keymap = km
}

// Translate converts one terminal event. Events with no mapping come
// back as None.
func (t *Translator) Translate(ev tcell.Event) Action {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		return t.translateKey(ev)
	case *tcell.EventMouse:
		return t.translateMouse(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		return Action{Kind: Resize, X: w, Y: h}
	default:
		return Action{Kind: None}
	}
}

func (t *Translator) translateKey(ev *tcell.EventKey) Action {
	if ev.Key() == tcell.KeyRune && ev.Modifiers()&tcell.ModCtrl == 0 {
		return Action{Kind: InsertRune, Rune: ev.Rune()}
	}
	chord := chordFor(ev)
	if chord == "" {
		return Action{Kind: None}
	}
	name, ok := t.keymap.ActionFor(chord)
	if !ok {
		return Action{Kind: None}
	}
	return Action{Kind: kindByName[name]}
}

func (t *Translator) translateMouse(ev *tcell.EventMouse) Action {
	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0 && t.lastButtons&tcell.Button1 == 0
	t.lastButtons = buttons
	if !pressed {
		return Action{Kind: None}
	}
	x, y := ev.Position()
	return Action{Kind: Click, X: x, Y: y}
}

// chordFor names a key event in keymap notation.
func chordFor(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyLeft:
		return "Left"
	case tcell.KeyRight:
		return "Right"
	case tcell.KeyUp:
		return "Up"
	case tcell.KeyDown:
		return "Down"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "Backspace"
	case tcell.KeyDelete:
		return "Delete"
	case tcell.KeyEnter:
		return "Enter"
	case tcell.KeyEscape:
		return "Esc"
	case tcell.KeyTab:
		return "Tab"
	}
	// Remaining control characters name as Ctrl+letter.
	if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
		return fmt.Sprintf("Ctrl+%c", 'A'+rune(ev.Key()-tcell.KeyCtrlA))
	}
	return ""
}
