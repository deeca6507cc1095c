package arena

// Broadcaster delivers messages to the connections of a game. The
// websocket hub implements it; the registry only knows this interface.
type Broadcaster interface {
	// Broadcast fans data out to every connection watching the game.
	Broadcast(gameID string, action string, data interface{})
	// SendToPlayer delivers data only to the named player's connections.
	SendToPlayer(gameID, playerID string, action string, data interface{})
}

// nopBroadcaster stands in until a hub is attached, and in tests that
// don't care about fan-out.
type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(string, string, interface{})           {}
func (nopBroadcaster) SendToPlayer(string, string, string, interface{}) {}
