package town

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// DefaultCapacity is the advertised maximum occupancy of a town. It is not
// enforced by the controller; listings report it so clients can pick an
// uncrowded town.
const DefaultCapacity = 50

// TokenBroker issues media credentials for a player joining a town. The call
// may block on external I/O; implementations are expected to bound it with a
// timeout. The returned token is opaque to the core.
type TokenBroker interface {
	GetTokenForTown(ctx context.Context, coveyTownID, playerID string) (string, error)
}

// TownController is the authoritative state machine for one town: players,
// sessions, conversation areas, and the listeners observing them.
//
// All mutations are serialized by mu, which is held for the whole of each
// public method including listener fan-out, so the fan-out of one mutation
// completes before the next mutation begins. The single exception is the
// broker call inside AddPlayer, which runs with the lock released.
type TownController struct {
	mu sync.Mutex

	coveyTownID      string
	friendlyName     string
	isPubliclyListed bool
	closed           bool

	players   []*Player
	sessions  map[string]*Session
	areas     []*ConversationArea
	listeners listenerSet

	broker TokenBroker
}

// NewTownController creates a controller with a fresh town id.
func NewTownController(friendlyName string, isPubliclyListed bool, broker TokenBroker) *TownController {
	return &TownController{
		coveyTownID:      uuid.NewString(),
		friendlyName:     friendlyName,
		isPubliclyListed: isPubliclyListed,
		sessions:         map[string]*Session{},
		broker:           broker,
	}
}

// CoveyTownID returns the town's immutable id.
func (c *TownController) CoveyTownID() string {
	return c.coveyTownID
}

func (c *TownController) FriendlyName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.friendlyName
}

func (c *TownController) SetFriendlyName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.friendlyName = name
}

func (c *TownController) IsPubliclyListed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isPubliclyListed
}

func (c *TownController) SetPubliclyListed(public bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isPubliclyListed = public
}

// Occupancy returns the number of players currently in the town.
func (c *TownController) Occupancy() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.players)
}

// Capacity returns the advertised maximum occupancy.
func (c *TownController) Capacity() int {
	return DefaultCapacity
}

// Players returns a snapshot of the player list.
func (c *TownController) Players() []*Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.players)
}

// ConversationAreas returns a snapshot of the active area list.
func (c *TownController) ConversationAreas() []*ConversationArea {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.areas)
}

// AddTownListener subscribes l to this town's lifecycle events. Duplicate
// adds are no-ops.
func (c *TownController) AddTownListener(l TownListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners.add(l)
}

// RemoveTownListener unsubscribes l. Removal takes effect before the next
// mutation's fan-out begins.
func (c *TownController) RemoveTownListener(l TownListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners.remove(l)
}

// AddPlayer admits p into the town: it requests a media token from the
// broker, creates a session carrying it, and announces the player to all
// listeners. On broker failure the player is not added and no event fires.
//
// The controller lock is released across the broker call. If the town is
// torn down in the meantime, AddPlayer fails with ErrTownClosed.
func (c *TownController) AddPlayer(ctx context.Context, p *Player) (*Session, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrTownClosed
	}
	c.mu.Unlock()

	mediaToken, err := c.broker.GetTokenForTown(ctx, c.coveyTownID, p.ID)
	if err != nil {
		return nil, fmt.Errorf("requesting media token: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrTownClosed
	}

	sess := newSession(p, c.coveyTownID)
	sess.MediaToken = mediaToken
	c.players = append(c.players, p)
	c.sessions[sess.Token] = sess

	c.listeners.forEach(func(l TownListener) { l.PlayerJoined(p) })
	return sess, nil
}

// GetSessionByToken returns the live session with the given token, or nil.
func (c *TownController) GetSessionByToken(token string) *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions[token]
}

// DestroySession ends sess: the player is evicted from any active
// conversation area, removed from the town, and announced as disconnected.
// Unknown sessions are ignored.
func (c *TownController) DestroySession(sess *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	known, ok := c.sessions[sess.Token]
	if !ok || known != sess {
		return
	}

	p := sess.Player
	c.reconcileAreaMembership(p, nil)

	delete(c.sessions, sess.Token)
	c.players = slices.DeleteFunc(c.players, func(o *Player) bool { return o == p })

	c.listeners.forEach(func(l TownListener) { l.PlayerDisconnected(p) })
}

// UpdatePlayerLocation commits a client-reported location for p and
// reconciles conversation-area membership. The asserted conversation label
// wins over geometry: if an area with that label exists the player is
// admitted, whether or not the coordinates fall inside its box. Listeners see
// at most two area events followed by exactly one PlayerMoved.
func (c *TownController) UpdatePlayerLocation(p *Player, loc UserLocation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var next *ConversationArea
	if loc.Conversation != "" {
		next = c.areaByLabel(loc.Conversation)
	}

	p.Location = loc
	c.reconcileAreaMembership(p, next)

	c.listeners.forEach(func(l TownListener) { l.PlayerMoved(p) })
}

// reconcileAreaMembership moves p from its current area to next (either may
// be nil), emitting area events. Caller holds the lock.
func (c *TownController) reconcileAreaMembership(p *Player, next *ConversationArea) {
	prev := p.activeArea
	if prev == next {
		return
	}

	if next != nil {
		next.addOccupant(p.ID)
		p.activeArea = next
		c.listeners.forEach(func(l TownListener) { l.ConversationAreaUpdated(next) })
	} else {
		p.activeArea = nil
	}

	if prev != nil {
		prev.removeOccupant(p.ID)
		if len(prev.OccupantsByID) == 0 {
			c.removeArea(prev)
			c.listeners.forEach(func(l TownListener) { l.ConversationAreaDestroyed(prev) })
		} else {
			c.listeners.forEach(func(l TownListener) { l.ConversationAreaUpdated(prev) })
		}
	}
}

// AddConversationArea creates area if its label is unique, its topic and
// label are non-empty, and its box overlaps no existing area (adjacency is
// allowed). Players standing inside the box with no active area are admitted
// immediately; one ConversationAreaUpdated fires regardless of how many were.
func (c *TownController) AddConversationArea(area *ConversationArea) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	if err := area.Validate(); err != nil {
		slog.Debug("rejecting conversation area", "label", area.Label, "error", err)
		return false
	}
	if c.areaByLabel(area.Label) != nil {
		return false
	}
	for _, existing := range c.areas {
		if existing.BoundingBox.Overlaps(area.BoundingBox) {
			return false
		}
	}

	area.OccupantsByID = nil
	for _, p := range c.players {
		if p.activeArea == nil && area.BoundingBox.Contains(p.Location.X, p.Location.Y) {
			area.addOccupant(p.ID)
			p.activeArea = area
		}
	}
	c.areas = append(c.areas, area)

	c.listeners.forEach(func(l TownListener) { l.ConversationAreaUpdated(area) })
	return true
}

// DisconnectAllPlayers tears the town down: every listener sees TownDestroyed
// exactly once, then all players, sessions, areas, and subscriptions are
// dropped. The controller refuses further mutations afterwards.
func (c *TownController) DisconnectAllPlayers() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	c.listeners.forEach(func(l TownListener) { l.TownDestroyed() })

	for _, p := range c.players {
		p.activeArea = nil
	}
	c.players = nil
	c.sessions = map[string]*Session{}
	c.areas = nil
	c.listeners.clear()
}

// areaByLabel returns the active area with the given label, or nil. Caller
// holds the lock.
func (c *TownController) areaByLabel(label string) *ConversationArea {
	for _, a := range c.areas {
		if a.Label == label {
			return a
		}
	}
	return nil
}

// removeArea drops a from the active list. Caller holds the lock.
func (c *TownController) removeArea(a *ConversationArea) {
	c.areas = slices.DeleteFunc(c.areas, func(o *ConversationArea) bool { return o == a })
}
