package ssh

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
)

// ErrNoPTY is returned by NewScreen for sessions opened without a terminal.
var ErrNoPTY = errors.New("session has no pty")

const defaultTerm = "xterm-256color"

// allowedTerms lists the TERM values a client may select. Anything else
// falls back to defaultTerm so clients cannot point terminfo at arbitrary
// names.
var allowedTerms = map[string]bool{
	"xterm":                 true,
	"xterm-256color":        true,
	"screen":                true,
	"screen-256color":       true,
	"tmux":                  true,
	"tmux-256color":         true,
	"linux":                 true,
	"vt100":                 true,
	"rxvt-unicode-256color": true,
}

// termMu serialises the TERM environment swap around screen creation.
var termMu sync.Mutex

// termFor picks the terminal type for a session: the pty's own value, then
// TERM from the session environment, then defaultTerm.
func termFor(pty gossh.Pty, environ []string) string {
	if allowedTerms[pty.Term] {
		return pty.Term
	}
	for _, kv := range environ {
		if v, ok := strings.CutPrefix(kv, "TERM="); ok && allowedTerms[v] {
			return v
		}
	}
	return defaultTerm
}

// NewScreen creates and initialises a tcell screen that renders to s.
func NewScreen(s gossh.Session) (tcell.Screen, error) {
	pty, winCh, ok := s.Pty()
	if !ok {
		return nil, ErrNoPTY
	}
	tty := NewSessionTty(s, pty, winCh)

	// terminfo is looked up through the process environment.
	termMu.Lock()
	_ = os.Setenv("TERM", termFor(pty, s.Environ()))
	screen, err := tcell.NewTerminfoScreenFromTty(tty)
	termMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("terminal setup: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("screen init: %w", err)
	}
	return screen, nil
}
