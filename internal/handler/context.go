package handler

import (
	"context"

	"github.com/mopgo/server/internal/config"
	"github.com/mopgo/server/internal/core/event"
	"github.com/mopgo/server/internal/data"
	"github.com/mopgo/server/internal/net"
	"github.com/mopgo/server/internal/net/packet"
	"github.com/mopgo/server/internal/persist"
	"github.com/mopgo/server/internal/query"
	"github.com/mopgo/server/internal/scene"
	"github.com/mopgo/server/internal/world"
	"go.uber.org/zap"
)

// AccountStore is the account persistence the login flow needs.
// Implemented by persist.AccountRepo.
type AccountStore interface {
	Load(ctx context.Context, name string) (*persist.AccountRow, error)
	Create(ctx context.Context, name, rawPassword, locale, ip string) (*persist.AccountRow, error)
	ValidatePassword(hash string, rawPassword string) bool
	SetOnline(ctx context.Context, id uint32, online bool) error
	UpdateLastActive(ctx context.Context, id uint32, ip, locale string) error
}

// CharacterStore is the character persistence used on world entry and exit.
// Implemented by persist.CharacterRepo.
type CharacterStore interface {
	LoadByGUID(ctx context.Context, accountID, guid uint32) (*persist.CharacterRow, error)
	LoadQuestLog(ctx context.Context, guid uint32) ([world.MaxQuestLogSize]uint32, error)
	LoadCorpse(ctx context.Context, guid uint32) (*world.Corpse, error)
	SavePosition(ctx context.Context, guid uint32, mapID uint32, pos data.Position) error
	SaveQuestLog(ctx context.Context, guid uint32, log [world.MaxQuestLogSize]uint32) error
}

// Deps holds shared dependencies injected into all packet handlers.
type Deps struct {
	Accounts   AccountStore
	Characters CharacterStore
	Config     *config.Config
	Log        *zap.Logger
	World      *world.State
	Catalog    *data.Catalog
	Scripting  scene.TriggerHook
	Query      *query.Responder
	Bus        *event.Bus
}

// RegisterAll registers all packet handlers into the registry.
func RegisterAll(reg *packet.Registry, deps *Deps) {
	// Connected phase
	reg.Register(packet.CMSG_AUTH_SESSION,
		[]packet.SessionState{packet.StateConnected},
		func(sess any, r *packet.Reader) error {
			return HandleAuthSession(sess.(*net.Session), r, deps)
		},
	)

	// Authenticated phase (character select screen)
	reg.Register(packet.CMSG_PLAYER_LOGIN,
		[]packet.SessionState{packet.StateAuthenticated},
		func(sess any, r *packet.Reader) error {
			return HandlePlayerLogin(sess.(*net.Session), r, deps)
		},
	)

	// In-world phase
	inWorldStates := []packet.SessionState{packet.StateInWorld}

	reg.Register(packet.CMSG_LOGOUT_REQUEST, inWorldStates,
		func(sess any, r *packet.Reader) error {
			return HandleLogout(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.CMSG_SCENE_TRIGGER_EVENT, inWorldStates,
		func(sess any, r *packet.Reader) error {
			return HandleSceneTriggerEvent(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.CMSG_SCENE_PLAYBACK_COMPLETE, inWorldStates,
		func(sess any, r *packet.Reader) error {
			return HandleScenePlaybackComplete(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.CMSG_SCENE_PLAYBACK_CANCELED, inWorldStates,
		func(sess any, r *packet.Reader) error {
			return HandleScenePlaybackCanceled(sess.(*net.Session), r, deps)
		},
	)

	registerQueries(reg, inWorldStates, deps)
}
