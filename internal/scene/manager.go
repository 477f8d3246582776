// Package scene tracks the client-side scripted scenes a player is watching.
//
// Every scene started on a player gets an instance handle that lives until
// the client reports completion or cancellation, or the server cancels it.
// A Manager belongs to one player and is used from the game loop only.
package scene

import (
	"sort"

	"github.com/kamstrup/intmap"
	"github.com/mopgo/server/internal/data"
	"github.com/mopgo/server/internal/net/packet"
	"go.uber.org/zap"
)

// AuraPlayScene is the aura type whose misc value names the scene it plays.
const AuraPlayScene uint32 = 331

// AuraEffect is one active aura effect on the owner.
type AuraEffect interface {
	MiscValue() int32
}

// Owner is the player a Manager plays scenes for.
type Owner interface {
	Send(op packet.Opcode, payload []byte)
	Position() data.Position
	TransportGUID() packet.ObjectGUID
	// AuraEffects returns the active effects of an aura type in application order.
	AuraEffects(auraType uint32) []AuraEffect
	RemoveAuraEffect(e AuraEffect)
}

// Catalog resolves scene templates and packages.
type Catalog interface {
	SceneTemplate(sceneID uint32) *data.SceneTemplate
	ScenePackage(id uint32) *data.ScenePackage
}

// TriggerHook receives scene events for scripted game logic. The manager is
// passed so a hook can start or cancel follow-up scenes.
type TriggerHook interface {
	OnSceneTrigger(m *Manager, tpl *data.SceneTemplate, instanceID uint32, triggerName string)
	OnSceneComplete(m *Manager, tpl *data.SceneTemplate, instanceID uint32)
}

// Manager is the per-player table of active scene instances.
type Manager struct {
	owner   Owner
	catalog Catalog
	hook    TriggerHook
	log     *zap.Logger

	scenes *intmap.Map[uint32, *data.SceneTemplate]
	nextID uint32
}

func NewManager(owner Owner, catalog Catalog, hook TriggerHook, log *zap.Logger) *Manager {
	return &Manager{
		owner:   owner,
		catalog: catalog,
		hook:    hook,
		log:     log,
		scenes:  intmap.New[uint32, *data.SceneTemplate](4),
	}
}

// PlayScene plays the scene template registered for sceneID.
// Returns 0 when the scene is unknown.
func (m *Manager) PlayScene(sceneID uint32, pos *data.Position) uint32 {
	return m.PlaySceneByTemplate(m.catalog.SceneTemplate(sceneID), pos)
}

// PlaySceneByTemplate sends SMSG_PLAY_SCENE and registers a new instance.
// pos defaults to the owner's position. Returns the instance handle, or 0
// without any state change when the template or its package is missing.
func (m *Manager) PlaySceneByTemplate(tpl *data.SceneTemplate, pos *data.Position) uint32 {
	if tpl == nil {
		return 0
	}
	if m.catalog.ScenePackage(tpl.ScenePackageID) == nil {
		m.log.Debug("scene package not found",
			zap.Uint32("scene", tpl.SceneID),
			zap.Uint32("package", tpl.ScenePackageID),
		)
		return 0
	}

	p := m.owner.Position()
	if pos != nil {
		p = *pos
	}

	id := m.newInstanceID()

	w := packet.NewWriterSize(packet.SMSG_PLAY_SCENE, 1+4*4+8+4*4)
	transport := m.owner.TransportGUID()
	w.WriteGUIDMask(transport, packet.PlayScene.Mask[:]...)
	w.FlushBits()
	w.WriteInt32(int32(tpl.SceneID))
	w.WriteInt32(int32(tpl.PlaybackFlags))
	w.WriteInt32(int32(id))
	w.WriteInt32(int32(tpl.ScenePackageID))
	w.WriteGUIDBytes(transport, packet.PlayScene.Bytes[:]...)
	w.WriteFloat(p.X)
	w.WriteFloat(p.Y)
	w.WriteFloat(p.Z)
	w.WriteFloat(p.O)
	m.owner.Send(w.Opcode(), w.Bytes())

	m.scenes.Put(id, tpl)
	return id
}

// PlaySceneByPackageID plays a scene package without a scene template.
// The scene id of such instances is 0, so they carry no play-scene aura.
func (m *Manager) PlaySceneByPackageID(packageID, playbackFlags uint32, pos *data.Position) uint32 {
	tpl := &data.SceneTemplate{
		SceneID:        0,
		ScenePackageID: packageID,
		PlaybackFlags:  playbackFlags,
	}
	return m.PlaySceneByTemplate(tpl, pos)
}

// CancelScene drops the instance (when removeFromMap) and tells the client.
func (m *Manager) CancelScene(instanceID uint32, removeFromMap bool) {
	if removeFromMap {
		m.removeInstance(instanceID)
	}

	w := packet.NewWriterSize(packet.SMSG_CANCEL_SCENE, 4)
	w.WriteUint32(instanceID)
	m.owner.Send(w.Opcode(), w.Bytes())
}

// CancelSceneByPackageID cancels every instance of a package that is active
// at call time. Instances started while cancelling are left alone.
func (m *Manager) CancelSceneByPackageID(packageID uint32) {
	var ids []uint32
	m.scenes.ForEach(func(id uint32, tpl *data.SceneTemplate) bool {
		if tpl.ScenePackageID == packageID {
			ids = append(ids, id)
		}
		return true
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		m.CancelScene(id, true)
	}
}

// CancelAll cancels every active instance, used when the owner leaves the world.
func (m *Manager) CancelAll() {
	var ids []uint32
	m.scenes.ForEach(func(id uint32, _ *data.SceneTemplate) bool {
		ids = append(ids, id)
		return true
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		m.CancelScene(id, true)
	}
}

// OnSceneTrigger forwards a client trigger of an active instance to the hook.
func (m *Manager) OnSceneTrigger(instanceID uint32, triggerName string) {
	tpl, ok := m.scenes.Get(instanceID)
	if !ok {
		return
	}
	if m.hook != nil {
		m.hook.OnSceneTrigger(m, tpl, instanceID, triggerName)
	}
}

// OnSceneCancel handles the client cancelling an active instance.
func (m *Manager) OnSceneCancel(instanceID uint32) {
	m.finish(instanceID, false)
}

// OnSceneComplete handles the client finishing an active instance.
func (m *Manager) OnSceneComplete(instanceID uint32) {
	m.finish(instanceID, true)
}

func (m *Manager) finish(instanceID uint32, completed bool) {
	tpl, ok := m.scenes.Get(instanceID)
	if !ok {
		return
	}

	// Removing the aura may re-enter OnSceneCancel/OnSceneComplete for this
	// instance; it has to be gone by then.
	m.removeInstance(instanceID)

	if tpl.SceneID != 0 {
		m.removeAurasDueToSceneID(tpl.SceneID)
	}
	if completed && m.hook != nil {
		m.hook.OnSceneComplete(m, tpl, instanceID)
	}
}

// HasScene reports whether instanceID is active and, when packageID is not
// 0, belongs to that package.
func (m *Manager) HasScene(instanceID, packageID uint32) bool {
	tpl, ok := m.scenes.Get(instanceID)
	if !ok {
		return false
	}
	return packageID == 0 || tpl.ScenePackageID == packageID
}

// ActiveSceneCount counts active instances of packageID (0 = all).
func (m *Manager) ActiveSceneCount(packageID uint32) int {
	if packageID == 0 {
		return m.scenes.Len()
	}
	n := 0
	m.scenes.ForEach(func(_ uint32, tpl *data.SceneTemplate) bool {
		if tpl.ScenePackageID == packageID {
			n++
		}
		return true
	})
	return n
}

// SceneTemplateFromInstanceID returns the template of an active instance, or nil.
func (m *Manager) SceneTemplateFromInstanceID(instanceID uint32) *data.SceneTemplate {
	tpl, _ := m.scenes.Get(instanceID)
	return tpl
}

func (m *Manager) removeInstance(instanceID uint32) {
	m.scenes.Del(instanceID)
}

// removeAurasDueToSceneID removes the first play-scene aura of sceneID.
func (m *Manager) removeAurasDueToSceneID(sceneID uint32) {
	for _, eff := range m.owner.AuraEffects(AuraPlayScene) {
		if uint32(eff.MiscValue()) == sceneID {
			m.owner.RemoveAuraEffect(eff)
			break
		}
	}
}

// newInstanceID returns the next free handle. 0 is never handed out.
func (m *Manager) newInstanceID() uint32 {
	for {
		m.nextID++
		if m.nextID == 0 {
			continue
		}
		if !m.scenes.Has(m.nextID) {
			return m.nextID
		}
	}
}
