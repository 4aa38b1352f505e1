package town

import gonanoid "github.com/matoous/go-nanoid/v2"

// Session is an authenticated client's ticket into one town. The token is an
// unguessable 21-character URL-safe id compared by exact equality; MediaToken
// is whatever the broker returned and is opaque to the core.
type Session struct {
	Token      string
	Player     *Player
	TownID     string
	MediaToken string
}

func newSession(p *Player, townID string) *Session {
	return &Session{
		Token:  gonanoid.Must(),
		Player: p,
		TownID: townID,
	}
}
