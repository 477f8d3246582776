package handler

import (
	"github.com/mopgo/server/internal/core/event"
	"github.com/mopgo/server/internal/net"
	"github.com/mopgo/server/internal/net/packet"
	"github.com/mopgo/server/internal/world"
)

// HandleSceneTriggerEvent processes CMSG_SCENE_TRIGGER_EVENT.
// Format: [6 bits name length][u32 instance][name]
func HandleSceneTriggerEvent(sess *net.Session, r *packet.Reader, deps *Deps) error {
	n := r.ReadBits(6)
	r.FlushBits()
	instanceID := r.ReadUint32()
	name := r.ReadString(int(n))
	if err := r.Err(); err != nil {
		return err
	}

	p := deps.World.GetBySession(sess.ID)
	if p == nil {
		return errNoPlayer
	}
	p.Scenes.OnSceneTrigger(instanceID, name)
	return nil
}

// HandleScenePlaybackComplete processes CMSG_SCENE_PLAYBACK_COMPLETE.
// Format: [u32 instance]
func HandleScenePlaybackComplete(sess *net.Session, r *packet.Reader, deps *Deps) error {
	return finishScene(sess, r, deps, true)
}

// HandleScenePlaybackCanceled processes CMSG_SCENE_PLAYBACK_CANCELED.
// Format: [u32 instance]
func HandleScenePlaybackCanceled(sess *net.Session, r *packet.Reader, deps *Deps) error {
	return finishScene(sess, r, deps, false)
}

func finishScene(sess *net.Session, r *packet.Reader, deps *Deps, completed bool) error {
	instanceID := r.ReadUint32()
	if err := r.Err(); err != nil {
		return err
	}

	p := deps.World.GetBySession(sess.ID)
	if p == nil {
		return errNoPlayer
	}
	tpl := p.Scenes.SceneTemplateFromInstanceID(instanceID)
	if completed {
		p.Scenes.OnSceneComplete(instanceID)
	} else {
		p.Scenes.OnSceneCancel(instanceID)
	}
	if tpl != nil {
		emitSceneFinished(deps, p, instanceID, tpl.SceneID, tpl.ScenePackageID, completed)
	}
	return nil
}

func emitSceneFinished(deps *Deps, p *world.Player, instanceID, sceneID, packageID uint32, completed bool) {
	event.Emit(deps.Bus, event.SceneFinished{
		GUID:       p.GUID,
		InstanceID: instanceID,
		SceneID:    sceneID,
		PackageID:  packageID,
		Completed:  completed,
	})
}
