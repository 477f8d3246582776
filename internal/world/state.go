package world

import (
	"github.com/mopgo/server/internal/net/packet"
)

// State is the in-memory world: players in-world, spawned units and the
// character name cache. Accessed only from the game loop goroutine, no locks.
type State struct {
	bySession map[uint64]*Player            // SessionID → Player
	byGUID    map[packet.ObjectGUID]*Player // character GUID → Player
	byName    map[string]*Player            // character name → Player

	units map[packet.ObjectGUID]*Unit

	names *NameCache
}

func NewState() *State {
	return &State{
		bySession: make(map[uint64]*Player),
		byGUID:    make(map[packet.ObjectGUID]*Player),
		byName:    make(map[string]*Player),
		units:     make(map[packet.ObjectGUID]*Unit),
		names:     NewNameCache(),
	}
}

// AddPlayer registers a player in the world and refreshes its name record.
func (s *State) AddPlayer(p *Player) {
	s.bySession[p.SessionID] = p
	s.byGUID[p.GUID] = p
	s.byName[p.Name] = p

	nd := p.NameData()
	if old := s.names.Get(p.GUID.Low()); old != nil {
		nd.Declined = old.Declined
	}
	s.names.Put(nd)
}

// RemovePlayer removes a player from the world. The name record stays.
func (s *State) RemovePlayer(sessionID uint64) *Player {
	p, ok := s.bySession[sessionID]
	if !ok {
		return nil
	}
	delete(s.bySession, sessionID)
	delete(s.byGUID, p.GUID)
	delete(s.byName, p.Name)
	return p
}

// GetBySession returns a player by session ID.
func (s *State) GetBySession(sessionID uint64) *Player {
	return s.bySession[sessionID]
}

// GetByGUID returns an in-world player by character GUID.
func (s *State) GetByGUID(g packet.ObjectGUID) *Player {
	return s.byGUID[g]
}

// GetByName returns a player by character name.
func (s *State) GetByName(name string) *Player {
	return s.byName[name]
}

// PlayerCount returns the number of players in-world.
func (s *State) PlayerCount() int {
	return len(s.bySession)
}

// AllPlayers iterates all in-world players.
func (s *State) AllPlayers(fn func(*Player)) {
	for _, p := range s.bySession {
		fn(p)
	}
}

// Names returns the character name cache.
func (s *State) Names() *NameCache {
	return s.names
}

// NameData returns the name record for a character's low GUID, or nil.
func (s *State) NameData(low uint32) *NameData {
	return s.names.Get(low)
}

// --- Unit methods ---

// AddUnit registers a spawned creature.
func (s *State) AddUnit(u *Unit) {
	s.units[u.GUID] = u
}

// FindUnit returns the spawned creature with GUID g, or nil.
func (s *State) FindUnit(g packet.ObjectGUID) *Unit {
	return s.units[g]
}

// RemoveUnit despawns a creature.
func (s *State) RemoveUnit(g packet.ObjectGUID) *Unit {
	u := s.units[g]
	delete(s.units, g)
	return u
}

// UnitCount returns the number of spawned creatures.
func (s *State) UnitCount() int {
	return len(s.units)
}
