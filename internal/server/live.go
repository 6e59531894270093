package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ziadkadry99/mdparty/internal/router"
	"github.com/ziadkadry99/mdparty/internal/site"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientMessage is the incoming websocket message format.
type clientMessage struct {
	Type     string `json:"type"`     // "hello" or "hashchange"
	Fragment string `json:"fragment"` // location.hash of the tab
}

// serverMessage is the outgoing websocket message format.
type serverMessage struct {
	Type       string `json:"type"` // "render", "navigate" or "error"
	Title      string `json:"title,omitempty"`
	HTML       string `json:"html,omitempty"`
	Stylesheet string `json:"stylesheet,omitempty"`
	Fragment   string `json:"fragment,omitempty"`
	Message    string `json:"message,omitempty"`
}

// session is one connected tab. It owns a store and a navigator whose
// Location is the tab's URL fragment.
type session struct {
	id     string
	srv    *Server
	conn   *websocket.Conn
	logger *zap.SugaredLogger
	store  *router.Store
	nav    *router.Navigator

	writeMu sync.Mutex
	// navMu keeps store transitions of this session in order.
	navMu sync.Mutex

	mu       sync.Mutex
	fragment string
}

// Fragment returns the fragment last reported by the tab.
func (s *session) Fragment() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fragment
}

// SetFragment asks the tab to change its fragment. The tab answers with a
// hashchange message.
func (s *session) SetFragment(slug string) {
	s.send(serverMessage{Type: "navigate", Fragment: "#" + slug})
}

func (s *session) setFragment(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fragment = raw
}

func (s *session) send(msg serverMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(msg); err != nil {
		s.logger.Debugw("websocket write", "error", err)
	}
}

// push renders state and sends it to the tab.
func (s *session) push(state router.State) {
	m := site.Model{
		State:     state,
		Site:      s.srv.Site(),
		AssetBase: AssetPath,
	}
	var buf bytes.Buffer
	if err := site.RenderApp(&buf, m); err != nil {
		s.logger.Errorw("rendering view", "error", err)
		s.send(serverMessage{Type: "error", Message: "render failed"})
		return
	}
	s.send(serverMessage{
		Type:       "render",
		Title:      site.Title(m),
		HTML:       buf.String(),
		Stylesheet: site.StylesheetHref(m),
	})
}

func (s *session) start() {
	s.navMu.Lock()
	defer s.navMu.Unlock()
	s.nav.Start(s.srv.Site().Sitemap)
}

func (s *session) fragmentChanged(raw string) {
	s.setFragment(raw)
	s.navMu.Lock()
	defer s.navMu.Unlock()
	s.nav.OnFragmentChange(raw)
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnw("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	id := uuid.NewString()
	sess := &session{
		id:     id,
		srv:    s,
		conn:   conn,
		store:  router.NewStore(),
		logger: s.logger.With("session", id),
	}
	sess.nav = router.NewNavigator(sess.store, sess)

	// The first message carries the fragment the tab was opened with.
	_, raw, err := conn.ReadMessage()
	if err != nil {
		sess.logger.Debugw("websocket closed before hello", "error", err)
		return
	}
	var hello clientMessage
	if err := json.Unmarshal(raw, &hello); err != nil || hello.Type != "hello" {
		sess.logger.Debugw("rejecting session without hello", "error", err, "type", hello.Type)
		sess.send(serverMessage{Type: "error", Message: "invalid message format"})
		sess.writeMu.Lock()
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected hello"))
		sess.writeMu.Unlock()
		return
	}
	sess.setFragment(hello.Fragment)

	s.addSession(sess)
	defer s.removeSession(sess)

	unsubscribe := sess.store.Subscribe(sess.push)
	defer unsubscribe()
	sess.push(sess.store.GetState())

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		select {
		case <-s.ready:
			sess.start()
		case <-ctx.Done():
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				sess.logger.Warnw("websocket read", "error", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			sess.send(serverMessage{Type: "error", Message: "invalid message format"})
			continue
		}

		switch msg.Type {
		case "hashchange", "hello":
			sess.fragmentChanged(msg.Fragment)
		default:
			sess.send(serverMessage{Type: "error", Message: "unknown message type: " + msg.Type})
		}
	}
}

func (s *Server) addSession(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.id] = sess
	sess.logger.Debugw("session opened", "open", len(s.sessions))
}

func (s *Server) removeSession(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sess.id)
	sess.logger.Debugw("session closed", "open", len(s.sessions))
}

// closeSessions closes every open websocket. Hijacked connections are not
// tracked by http.Server.Shutdown.
func (s *Server) closeSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		sess.writeMu.Lock()
		sess.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		sess.writeMu.Unlock()
		sess.conn.Close()
	}
}
