package api

import (
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lookbusy1344/tinybasic/host"
	"github.com/lookbusy1344/tinybasic/interp"
)

const (
	// WebSocket configuration
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192 // 8KB max message size from client
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The server binds to loopback only; any local page may connect.
		return true
	},
}

// session is one websocket client with its own interpreter engine. Text
// frames from the client are input lines; text frames to the client are
// output. A binary frame requests a break.
type session struct {
	conn *websocket.Conn

	keys chan byte
	send chan []byte
	brk  chan struct{}

	engine        *interp.Interp
	filesRoot     string
	commandPrompt string
	inputPrompt   string

	// Output assembled between flushes.
	out []byte

	closeOnce sync.Once
}

// handleWebSocket upgrades the connection and runs a session on it.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	root := s.cfg.Interpreter.FilesRoot
	if root == "" {
		root = "."
	}
	sess := &session{
		conn:          conn,
		keys:          make(chan byte, 4096),
		send:          make(chan []byte, 256),
		brk:           make(chan struct{}, 1),
		filesRoot:     root,
		commandPrompt: s.cfg.Display.CommandPrompt,
		inputPrompt:   s.cfg.Display.InputPrompt,
	}
	sess.engine = interp.New(sess)
	sess.engine.SetArraySize(s.cfg.Interpreter.ArraySize)
	sess.engine.SetTrace(s.cfg.Interpreter.TraceOnStart)
	sess.engine.FilesRoot = root

	go sess.writePump()
	go sess.readPump()
	go sess.enginePump()
}

// enginePump drives the engine until its input ends, then tears the
// socket down.
func (sess *session) enginePump() {
	for {
		select {
		case <-sess.brk:
			sess.engine.Break()
		default:
		}
		if sess.engine.Step() == interp.StepDone {
			break
		}
	}
	sess.flush()
	sess.close()
}

// readPump feeds client frames into the key queue. Closing the queue is
// how end-of-stream reaches the engine.
func (sess *session) readPump() {
	defer close(sess.keys)

	sess.conn.SetReadLimit(maxMessageSize)
	if err := sess.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("SetReadDeadline error: %v", err)
		return
	}
	sess.conn.SetPongHandler(func(string) error {
		return sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, message, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
		if kind == websocket.BinaryMessage {
			// Break request
			select {
			case sess.brk <- struct{}{}:
			default:
			}
			continue
		}
		for _, b := range message {
			select {
			case sess.keys <- b:
			default:
				// queue full; drop
			}
		}
		select {
		case sess.keys <- '\n':
		default:
		}
	}
}

// writePump sends output frames and keeps the connection alive with
// pings.
func (sess *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = sess.conn.Close()
	}()

	for {
		select {
		case message, ok := <-sess.send:
			if err := sess.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("SetWriteDeadline error: %v", err)
				return
			}
			if !ok {
				_ = sess.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := sess.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			if err := sess.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := sess.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (sess *session) close() {
	sess.closeOnce.Do(func() {
		close(sess.send)
	})
}

// flush ships the buffered output as one text frame.
func (sess *session) flush() {
	if len(sess.out) == 0 {
		return
	}
	message := make([]byte, len(sess.out))
	copy(message, sess.out)
	sess.out = sess.out[:0]
	select {
	case sess.send <- message:
	default:
		// client too slow; drop
	}
}

// GetChar implements interp.HostIO. The engine runs on its own goroutine,
// so blocking here is the websocket equivalent of a console read.
func (sess *session) GetChar() (byte, interp.InputStatus) {
	sess.flush()
	b, ok := <-sess.keys
	if !ok {
		return 0, interp.InputEOF
	}
	return b, interp.InputOK
}

// PutChar implements interp.HostIO.
func (sess *session) PutChar(b byte) {
	sess.out = append(sess.out, b)
	if b == '\n' {
		sess.flush()
	}
}

// ShowCommandPrompt implements interp.HostIO.
func (sess *session) ShowCommandPrompt() {
	sess.out = append(sess.out, sess.commandPrompt...)
	sess.flush()
}

// ShowInputPrompt implements interp.HostIO.
func (sess *session) ShowInputPrompt() {
	sess.out = append(sess.out, sess.inputPrompt...)
	sess.flush()
}

// ShowError implements interp.HostIO.
func (sess *session) ShowError(message string) {
	sess.out = append(sess.out, message...)
	sess.out = append(sess.out, '\n')
	sess.flush()
}

// ShowTrace implements interp.HostIO.
func (sess *session) ShowTrace(message string) {
	sess.ShowError(message)
}

// Bye implements interp.HostIO; enginePump closes the socket when the
// engine finishes.
func (sess *session) Bye() {}

// ShowHelp implements interp.HostIO.
func (sess *session) ShowHelp() {
	sess.out = append(sess.out, interp.HelpText...)
	sess.flush()
}

// ShowFiles implements interp.HostIO.
func (sess *session) ShowFiles() {
	names, err := host.ListProgramFiles(sess.filesRoot)
	if err != nil {
		sess.ShowError("FILES: " + err.Error())
		return
	}
	for _, name := range names {
		sess.out = append(sess.out, name...)
		sess.out = append(sess.out, '\n')
	}
	sess.flush()
}

// ClipSave implements interp.HostIO. Remote sessions have no clipboard.
func (sess *session) ClipSave(text string) error {
	return errors.New("clipboard is not available in a remote session")
}

// ClipLoad implements interp.HostIO.
func (sess *session) ClipLoad() (string, error) {
	return "", errors.New("clipboard is not available in a remote session")
}
