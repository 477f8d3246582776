package system

import (
	"context"
	"time"

	coresys "github.com/mopgo/server/internal/core/system"
	"github.com/mopgo/server/internal/data"
	"github.com/mopgo/server/internal/world"
	"go.uber.org/zap"
)

// CharacterStore saves the mutable part of a character.
// Implemented by persist.CharacterRepo.
type CharacterStore interface {
	SavePosition(ctx context.Context, guid uint32, mapID uint32, pos data.Position) error
	SaveQuestLog(ctx context.Context, guid uint32, log [world.MaxQuestLogSize]uint32) error
}

// PersistenceSystem periodically saves the position and quest log of
// online players. PhasePersist.
type PersistenceSystem struct {
	world     *world.State
	chars     CharacterStore
	log       *zap.Logger
	tickCount int
	interval  int // auto-save every N ticks
}

func NewPersistenceSystem(ws *world.State, chars CharacterStore, log *zap.Logger, intervalTicks int) *PersistenceSystem {
	return &PersistenceSystem{
		world:    ws,
		chars:    chars,
		log:      log,
		interval: intervalTicks,
	}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.savePlayers(true)
}

// SaveAllPlayers persists all online players immediately, ignoring dirty
// flags. Called on graceful shutdown.
func (s *PersistenceSystem) SaveAllPlayers() int {
	return s.savePlayers(false)
}

// savePlayers persists player data. If dirtyOnly is true, only players
// whose Dirty flag is set are saved, and the flag is reset after a
// successful save.
func (s *PersistenceSystem) savePlayers(dirtyOnly bool) int {
	count := 0
	s.world.AllPlayers(func(p *world.Player) {
		if dirtyOnly && !p.Dirty {
			return
		}
		if err := SavePlayer(s.chars, p); err != nil {
			s.log.Error("自動存檔失敗", zap.String("name", p.Name), zap.Error(err))
			return
		}
		p.Dirty = false
		count++
	})
	if count > 0 {
		s.log.Debug("自動存檔完成", zap.Int("players", count))
	}
	return count
}

// SavePlayer writes one player's position and quest log.
func SavePlayer(chars CharacterStore, p *world.Player) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	low := p.GUID.Low()
	if err := chars.SavePosition(ctx, low, p.Map, p.Pos); err != nil {
		return err
	}
	return chars.SaveQuestLog(ctx, low, p.QuestLog)
}
