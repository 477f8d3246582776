package world

import (
	"github.com/kamstrup/intmap"
	"github.com/mopgo/server/internal/net/packet"
)

// DeclinedNameCases is the number of declined forms of a character name.
const DeclinedNameCases = 5

// NameData is the public identity of a character, online or not.
type NameData struct {
	GUID      packet.ObjectGUID
	AccountID uint32
	Name      string
	Race      uint8
	Gender    uint8
	Class     uint8
	Level     uint8
	// Declined is nil for characters without declined names.
	Declined *[DeclinedNameCases]string
}

// NameCache indexes NameData by the low part of the character GUID.
// Filled from the database at startup and kept current on login.
type NameCache struct {
	byLow *intmap.Map[uint32, *NameData]
}

func NewNameCache() *NameCache {
	return &NameCache{byLow: intmap.New[uint32, *NameData](256)}
}

// Put adds or replaces a record.
func (c *NameCache) Put(nd *NameData) {
	c.byLow.Put(nd.GUID.Low(), nd)
}

// Get returns the record for a low GUID, or nil.
func (c *NameCache) Get(low uint32) *NameData {
	nd, _ := c.byLow.Get(low)
	return nd
}

// UpdateLevel changes the cached level of a character, if known.
func (c *NameCache) UpdateLevel(low uint32, level uint8) {
	if nd := c.Get(low); nd != nil {
		nd.Level = level
	}
}

// Remove drops a deleted character.
func (c *NameCache) Remove(low uint32) {
	c.byLow.Del(low)
}

func (c *NameCache) Len() int {
	return c.byLow.Len()
}
