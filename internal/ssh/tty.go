// Package ssh adapts gliderlabs/ssh sessions to tcell screens so the arena
// can be played over a plain ssh connection.
package ssh

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
)

// SessionTty implements tcell.Tty backed by a gliderlabs/ssh session.
// Each connected SSH client gets its own SessionTty and tcell.Screen.
type SessionTty struct {
	session gossh.Session
	mu      sync.Mutex
	window  gossh.Window
	winCh   <-chan gossh.Window
	cb      func() // resize callback registered by tcell
}

// NewSessionTty wraps a session as a tcell Tty. pty holds the initial window
// size; winCh delivers later resizes.
func NewSessionTty(s gossh.Session, pty gossh.Pty, winCh <-chan gossh.Window) *SessionTty {
	return &SessionTty{
		session: s,
		window:  pty.Window,
		winCh:   winCh,
	}
}

func (t *SessionTty) Read(b []byte) (int, error)  { return t.session.Read(b) }
func (t *SessionTty) Write(b []byte) (int, error) { return t.session.Write(b) }
func (t *SessionTty) Close() error                { return t.session.Close() }

// Start, Stop and Drain are no-ops: the channel is opened and closed by the
// server handler and writes are not buffered.
func (t *SessionTty) Start() error { return nil }
func (t *SessionTty) Stop() error  { return nil }
func (t *SessionTty) Drain() error { return nil }

// WindowSize returns the current terminal dimensions.
func (t *SessionTty) WindowSize() (tcell.WindowSize, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tcell.WindowSize{Width: t.window.Width, Height: t.window.Height}, nil
}

// NotifyResize registers cb and starts draining window changes for the
// lifetime of the session.
func (t *SessionTty) NotifyResize(cb func()) {
	t.mu.Lock()
	t.cb = cb
	t.mu.Unlock()

	go func() {
		for win := range t.winCh {
			t.mu.Lock()
			t.window = win
			notify := t.cb
			t.mu.Unlock()
			if notify != nil {
				notify()
			}
		}
	}()
}
