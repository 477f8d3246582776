package event

import "github.com/mopgo/server/internal/net/packet"

// PlayerEnteredWorld is emitted once a character is placed in the world.
type PlayerEnteredWorld struct {
	SessionID uint64
	AccountID uint32
	GUID      packet.ObjectGUID
	Name      string
}

// PlayerLeftWorld is emitted after a character is removed from the world,
// by logout or disconnect.
type PlayerLeftWorld struct {
	SessionID uint64
	AccountID uint32
	GUID      packet.ObjectGUID
	Name      string
}

// SceneFinished is emitted when a client completes or cancels a scene.
type SceneFinished struct {
	GUID       packet.ObjectGUID
	InstanceID uint32
	SceneID    uint32
	PackageID  uint32
	Completed  bool
}
