package town

import "github.com/google/uuid"

// Rotation is the direction an avatar sprite faces.
type Rotation string

const (
	RotationFront Rotation = "front"
	RotationBack  Rotation = "back"
	RotationLeft  Rotation = "left"
	RotationRight Rotation = "right"
)

// UserLocation is a client-reported avatar position. Conversation carries the
// client's asserted conversation-area membership; the controller trusts it
// whenever an area with that label exists.
type UserLocation struct {
	X            float64  `json:"x"`
	Y            float64  `json:"y"`
	Rotation     Rotation `json:"rotation"`
	Moving       bool     `json:"moving"`
	Conversation string   `json:"conversationLabel,omitempty"`
}

// Player is one avatar in a town. The controller is the sole mutator of its
// location and active area; everything else reads snapshots.
type Player struct {
	ID       string       `json:"id"`
	UserName string       `json:"userName"`
	Location UserLocation `json:"location"`

	// Guarded by the owning controller's mutex. The area owns the occupant
	// list; this is only a back-reference.
	activeArea *ConversationArea
}

// NewPlayer creates a player with a fresh id, facing front at the origin.
func NewPlayer(userName string) *Player {
	return &Player{
		ID:       uuid.NewString(),
		UserName: userName,
		Location: UserLocation{Rotation: RotationFront},
	}
}

// ActiveConversationArea returns the area this player currently occupies, or
// nil. Only meaningful between mutations of the owning controller.
func (p *Player) ActiveConversationArea() *ConversationArea {
	return p.activeArea
}
