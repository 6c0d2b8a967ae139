package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"oomph/pkg/eval"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Tokens gate access, so any origin may connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// request is a client frame. A frame carries either source to evaluate
// (optionally with bindings to define first) or a reply to an input request.
type request struct {
	Source string                 `json:"source,omitempty"`
	Bind   map[string]interface{} `json:"bind,omitempty"`
	Input  *int64                 `json:"input,omitempty"`
}

type response struct {
	Kind   string      `json:"kind"`
	Value  string      `json:"value,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Output []string    `json:"output,omitempty"`
	Error  *errorBody  `json:"error,omitempty"`
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

const (
	kindResult = "result"
	kindError  = "error"
	kindInput  = "input"

	errSyntax     = "SyntaxError"
	errBadRequest = "BadRequest"
)

// session is one websocket connection with its own interpreter state.
type session struct {
	conn   *websocket.Conn
	out    bytes.Buffer
	it     *eval.Interpreter
	env    *eval.Environment
	logger *slog.Logger
}

func newSession(conn *websocket.Conn, maxDepth int, logger *slog.Logger) *session {
	s := &session{conn: conn, env: eval.NewEnvironment(), logger: logger}
	s.it = eval.New(
		eval.WithOutput(&s.out),
		eval.WithInput(eval.InputFunc(s.requestInput)),
		eval.WithLogger(logger),
		eval.WithMaxCallDepth(maxDepth),
	)
	return s
}

// serve handles frames until the client goes away.
func (s *session) serve() {
	defer s.conn.Close()
	for {
		var req request
		if err := s.receive(&req); err != nil {
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				if err := s.sendError(errBadRequest, err.Error()); err != nil {
					return
				}
				continue
			}
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Info("Session read failed", slog.String("error", err.Error()))
			}
			return
		}
		if err := s.handle(&req); err != nil {
			s.logger.Info("Session write failed", slog.String("error", err.Error()))
			return
		}
	}
}

func (s *session) handle(req *request) error {
	if req.Input != nil {
		return s.sendError(errBadRequest, "no input was requested")
	}
	for name, raw := range req.Bind {
		val, err := eval.FromNative(raw)
		if err != nil {
			return s.sendError(errBadRequest, fmt.Sprintf("bind %s: %v", name, err))
		}
		s.env.Set(name, val)
	}

	s.out.Reset()
	result, env, err := s.it.EvalSource(req.Source, s.env)
	s.env = env
	if err != nil {
		var parseErr *eval.ParseError
		var evalErr *eval.Error
		switch {
		case errors.As(err, &parseErr):
			return s.sendError(errSyntax, strings.Join(parseErr.Messages, "; "))
		case errors.As(err, &evalErr):
			return s.sendError(evalErr.Kind.String(), evalErr.Message)
		default:
			return s.sendError(errBadRequest, err.Error())
		}
	}

	return s.send(response{
		Kind:   kindResult,
		Value:  result.Inspect(),
		Data:   eval.ToNative(result),
		Output: s.takeOutput(),
	})
}

// requestInput asks the client for an integer and blocks until it replies.
// Output printed so far is sent along so prompts reach the client first.
func (s *session) requestInput() (int64, error) {
	if err := s.send(response{Kind: kindInput, Output: s.takeOutput()}); err != nil {
		return 0, err
	}
	var req request
	if err := s.receive(&req); err != nil {
		return 0, err
	}
	if req.Input == nil {
		return 0, errors.New("expected an input reply")
	}
	return *req.Input, nil
}

func (s *session) takeOutput() []string {
	text := strings.TrimSuffix(s.out.String(), "\n")
	s.out.Reset()
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func (s *session) sendError(kind, message string) error {
	return s.send(response{
		Kind:   kindError,
		Error:  &errorBody{Kind: kind, Message: message},
		Output: s.takeOutput(),
	})
}

func (s *session) send(resp response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// receive reads one text frame and decodes it into v.
func (s *session) receive(v interface{}) error {
	msgType, msg, err := s.conn.ReadMessage()
	if err != nil {
		return err
	}
	if msgType != websocket.TextMessage {
		return fmt.Errorf("unexpected message type: %d", msgType)
	}
	return json.Unmarshal(msg, v)
}
