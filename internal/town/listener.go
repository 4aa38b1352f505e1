package town

// TownListener receives lifecycle events for one town. Callbacks run
// synchronously on the mutating goroutine while the controller lock is held:
// implementations must return quickly and must not call back into the
// controller (behavior is undefined if they do).
type TownListener interface {
	// PlayerJoined fires after a successful AddPlayer.
	PlayerJoined(p *Player)
	// PlayerMoved fires exactly once per UpdatePlayerLocation, after any
	// area events, including for no-op movements.
	PlayerMoved(p *Player)
	// PlayerDisconnected fires after DestroySession.
	PlayerDisconnected(p *Player)
	// ConversationAreaUpdated fires whenever an area's occupant list changes
	// and the area still exists, and once on area creation.
	ConversationAreaUpdated(a *ConversationArea)
	// ConversationAreaDestroyed fires when an area's occupancy transitions
	// to zero and it is removed.
	ConversationAreaDestroyed(a *ConversationArea)
	// TownDestroyed fires once per controller, during DisconnectAllPlayers.
	TownDestroyed()
}

// listenerSet is an identity-keyed subscription registry. Not goroutine-safe
// on its own; the controller mutates and iterates it under its lock.
type listenerSet struct {
	listeners []TownListener
}

// add registers l. Adding a listener twice is a no-op.
func (s *listenerSet) add(l TownListener) {
	for _, existing := range s.listeners {
		if existing == l {
			return
		}
	}
	s.listeners = append(s.listeners, l)
}

// remove unregisters l by identity. Removing an unknown listener is a no-op.
func (s *listenerSet) remove(l TownListener) {
	for i, existing := range s.listeners {
		if existing == l {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

func (s *listenerSet) forEach(fn func(TownListener)) {
	for _, l := range s.listeners {
		fn(l)
	}
}

func (s *listenerSet) clear() {
	s.listeners = nil
}
