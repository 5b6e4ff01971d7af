package handlers

import (
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"tinker-realm/editor/services"
)

// ClientManager tracks connected clients and owns the shared editor session.
// At most one client is the editor; the rest are read-only viewers.
type ClientManager struct {
	clients map[string]*ClientHandler // Map connection ID to ClientHandler
	editor  string
	nextID  int
	mutex   sync.RWMutex

	session      *services.EditorSession
	sessionMutex sync.Mutex

	log logrus.FieldLogger
}

// NewClientManager creates a new client manager around session.
func NewClientManager(session *services.EditorSession, log logrus.FieldLogger) *ClientManager {
	return &ClientManager{
		clients: make(map[string]*ClientHandler),
		session: session,
		log:     log,
	}
}

// AddClient registers a client and returns its ID. The first client to
// arrive while nobody is editing becomes the editor.
func (cm *ClientManager) AddClient(handler *ClientHandler) (id string, editor bool) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	cm.nextID++
	id = clientID(cm.nextID)
	cm.clients[id] = handler
	if cm.editor == "" {
		cm.editor = id
	}
	return id, cm.editor == id
}

// RemoveClient removes a client, releasing the editor role if it held it.
func (cm *ClientManager) RemoveClient(id string) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	delete(cm.clients, id)
	if cm.editor == id {
		cm.editor = ""
	}
}

// ClaimEditor makes id the editor when the role is free. It reports whether
// id holds the role afterwards.
func (cm *ClientManager) ClaimEditor(id string) bool {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	if cm.editor == "" {
		if _, ok := cm.clients[id]; ok {
			cm.editor = id
			cm.log.WithField("client", id).Info("Editor role claimed")
		}
	}
	return cm.editor == id
}

// IsEditor reports whether id currently holds the editor role.
func (cm *ClientManager) IsEditor(id string) bool {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return cm.editor != "" && cm.editor == id
}

// ClientCount returns the number of connected clients.
func (cm *ClientManager) ClientCount() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return len(cm.clients)
}

// WithSession runs fn with exclusive access to the session, so each command
// completes before the next one starts.
func (cm *ClientManager) WithSession(fn func(s *services.EditorSession)) {
	cm.sessionMutex.Lock()
	defer cm.sessionMutex.Unlock()
	fn(cm.session)
}

// BroadcastToAll sends a message to all connected clients
func (cm *ClientManager) BroadcastToAll(msg interface{}) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	for id, client := range cm.clients {
		if err := client.conn.SendMessage(msg); err != nil {
			cm.log.WithError(err).WithField("client", id).Warn("Error broadcasting to client")
		}
	}
}

// ExecuteOnAllClients executes a function for each connected client
func (cm *ClientManager) ExecuteOnAllClients(action func(id string, client *ClientHandler)) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	for id, client := range cm.clients {
		action(id, client)
	}
}

func clientID(n int) string {
	return "client-" + strconv.Itoa(n)
}
