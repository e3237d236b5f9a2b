package nvim

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/neovim/go-client/nvim"

	"github.com/dshills/neoview/internal/logger"
)

// defaultArgs embeds the editor without reading user config into the UI
// channel setup; the frontend drives everything over RPC.
var defaultArgs = []string{"--embed"}

// Session is an attached external UI over a child editor process. Redraw
// batches arrive on the RPC goroutine and are handed to OnRedraw intact;
// the session never touches the model itself, so decode and apply stay
// on whichever loop owns it.
type Session struct {
	client *nvim.Nvim
	id     uuid.UUID

	// OnRedraw receives each raw redraw batch on the RPC goroutine. It
	// must hand the batch to the loop that owns the State.
	OnRedraw func(batch [][]interface{})
}

// NewChildSession starts an embedded editor child process and registers
// the redraw handler. Attach must be called to start receiving updates.
func NewChildSession(ctx context.Context, command string, args []string) (*Session, error) {
	if command == "" {
		command = "nvim"
	}
	all := append(append([]string{}, defaultArgs...), args...)

	client, err := nvim.NewChildProcess(
		nvim.ChildProcessCommand(command),
		nvim.ChildProcessArgs(all...),
		nvim.ChildProcessContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("start editor process: %w", err)
	}

	s := &Session{
		client: client,
		id:     uuid.New(),
	}
	if err := client.RegisterHandler("redraw", s.handleRedraw); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("register redraw handler: %w", err)
	}

	logger.Info("editor session started", "session", s.id.String(), "command", command)
	return s, nil
}

func (s *Session) handleRedraw(updates ...[]interface{}) {
	if s.OnRedraw != nil {
		s.OnRedraw(updates)
	}
}

// ID returns the session id used in log fields.
func (s *Session) ID() uuid.UUID { return s.id }

// Attach attaches as an external UI with line-grid events. Extra options
// (ext_multigrid, ext_popupmenu, ...) merge over the defaults.
func (s *Session) Attach(columns, rows int, extra map[string]interface{}) error {
	options := map[string]interface{}{
		"rgb":          true,
		"ext_linegrid": true,
	}
	for k, v := range extra {
		options[k] = v
	}
	if err := s.client.AttachUI(columns, rows, options); err != nil {
		return fmt.Errorf("attach ui: %w", err)
	}
	logger.Info("ui attached", "session", s.id.String(), "columns", columns, "rows", rows)
	return nil
}

// OnQuit runs fn when the editor leaves. The editor notifies back over
// the RPC channel from a VimLeave autocmd, so fn fires on :quit as well
// as on our own Close.
func (s *Session) OnQuit(fn func()) error {
	if err := s.client.RegisterHandler("neoview.quit", fn); err != nil {
		return fmt.Errorf("register quit handler: %w", err)
	}
	cmd := fmt.Sprintf("autocmd VimLeave * call rpcnotify(%d, 'neoview.quit')", s.client.ChannelID())
	if err := s.client.Command(cmd); err != nil {
		return fmt.Errorf("install quit autocmd: %w", err)
	}
	return nil
}

// TryResize asks the editor to resize the main grid.
func (s *Session) TryResize(columns, rows int) error {
	return s.client.TryResizeUI(columns, rows)
}

// Input forwards keys in editor notation; the number of consumed bytes
// is discarded, partial writes self-heal on the next redraw.
func (s *Session) Input(keys string) error {
	_, err := s.client.Input(keys)
	return err
}

// InputMouse forwards a mouse action at a grid position.
func (s *Session) InputMouse(button, action, modifier string, gridID int64, row, col int) error {
	return s.client.InputMouse(button, action, modifier, int(gridID), row, col)
}

// Command runs an ex command.
func (s *Session) Command(cmd string) error {
	return s.client.Command(cmd)
}

// Close detaches and stops the child process.
func (s *Session) Close() error {
	logger.Info("editor session closing", "session", s.id.String())
	return s.client.Close()
}
