package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mopgo/server/internal/data"
	"github.com/mopgo/server/internal/net/packet"
	"github.com/mopgo/server/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

const sceneScript = `
function on_scene_trigger(ctx)
  if ctx.trigger == "next" then
    return { {type = "play_scene", scene_id = 2} }
  elseif ctx.trigger == "stop" then
    return { {type = "cancel_package", package_id = ctx.package_id} }
  elseif ctx.trigger == "self" then
    return { {type = "cancel", instance_id = ctx.instance_id} }
  elseif ctx.trigger == "bogus" then
    return { {type = "explode"}, {type = "play_scene", scene_id = 999} }
  elseif ctx.trigger == "boom" then
    error("boom")
  end
end

function on_scene_complete(ctx)
  completed = ctx.instance_id
  completed_scene = ctx.scene_id
  return { {type = "play_package", package_id = 200, flags = 16} }
end
`

type recorder struct {
	ops []packet.Opcode
}

func (r *recorder) Send(op packet.Opcode, _ []byte) { r.ops = append(r.ops, op) }

func writeScript(t *testing.T, dir, sub, name, body string) {
	t.Helper()
	p := filepath.Join(dir, sub)
	require.NoError(t, os.MkdirAll(p, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(p, name), []byte(body), 0o644))
}

func newTestCatalog() *data.Catalog {
	return &data.Catalog{
		SceneTemplates: data.NewTable(func(s *data.SceneTemplate) uint32 { return s.SceneID },
			data.SceneTemplate{SceneID: 1, ScenePackageID: 100},
			data.SceneTemplate{SceneID: 2, ScenePackageID: 101},
		),
		ScenePackages: data.NewTable(func(p *data.ScenePackage) uint32 { return p.ID },
			data.ScenePackage{ID: 100}, data.ScenePackage{ID: 101}, data.ScenePackage{ID: 200},
		),
	}
}

func newTestPlayer(t *testing.T, e *Engine) (*world.Player, *recorder) {
	t.Helper()
	rec := &recorder{}
	p := &world.Player{Name: "Chen", Session: rec}
	p.AttachScenes(newTestCatalog(), e, zap.NewNop())
	return p, rec
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	dir := t.TempDir()
	writeScript(t, dir, "scene", "chain.lua", sceneScript)
	e, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestSceneTriggerCommands(t *testing.T) {
	e := newTestEngine(t)
	p, _ := newTestPlayer(t, e)
	m := p.Scenes

	first := m.PlayScene(1, nil)
	require.NotZero(t, first)

	m.OnSceneTrigger(first, "next")
	assert.Equal(t, 2, m.ActiveSceneCount(0))
	assert.Equal(t, 1, m.ActiveSceneCount(101))

	m.OnSceneTrigger(first, "stop")
	assert.False(t, m.HasScene(first, 0))
	assert.Equal(t, 1, m.ActiveSceneCount(101))
}

func TestSceneTriggerCancelsItself(t *testing.T) {
	e := newTestEngine(t)
	p, rec := newTestPlayer(t, e)

	id := p.Scenes.PlayScene(1, nil)
	p.Scenes.OnSceneTrigger(id, "self")
	assert.False(t, p.Scenes.HasScene(id, 0))
	assert.Equal(t, []packet.Opcode{packet.SMSG_PLAY_SCENE, packet.SMSG_CANCEL_SCENE}, rec.ops)
}

func TestSceneCompleteCommands(t *testing.T) {
	e := newTestEngine(t)
	p, _ := newTestPlayer(t, e)

	id := p.Scenes.PlayScene(2, nil)
	p.Scenes.OnSceneComplete(id)

	assert.Equal(t, lua.LNumber(id), e.vm.GetGlobal("completed"))
	assert.Equal(t, lua.LNumber(2), e.vm.GetGlobal("completed_scene"))
	assert.Equal(t, 1, p.Scenes.ActiveSceneCount(200))
	assert.Equal(t, 1, p.Scenes.ActiveSceneCount(0))
}

func TestSceneHookErrorsAreContained(t *testing.T) {
	e := newTestEngine(t)
	p, rec := newTestPlayer(t, e)

	id := p.Scenes.PlayScene(1, nil)
	assert.NotPanics(t, func() {
		p.Scenes.OnSceneTrigger(id, "boom")
		p.Scenes.OnSceneTrigger(id, "bogus")
		p.Scenes.OnSceneTrigger(id, "ignored")
	})
	assert.True(t, p.Scenes.HasScene(id, 100))
	assert.Len(t, rec.ops, 1)
}

func TestMissingHooksAreSkipped(t *testing.T) {
	e, err := NewEngine(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	p, _ := newTestPlayer(t, e)
	id := p.Scenes.PlayScene(1, nil)
	p.Scenes.OnSceneTrigger(id, "next")
	p.Scenes.OnSceneComplete(id)
	assert.Zero(t, p.Scenes.ActiveSceneCount(0))
}

func TestCoreScriptsLoadFirst(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "core", "util.lua", `function scene(id) return {type = "play_scene", scene_id = id} end`)
	writeScript(t, dir, "scene", "use.lua", `function on_scene_trigger(ctx) return { scene(2) } end`)
	e, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	p, _ := newTestPlayer(t, e)
	id := p.Scenes.PlayScene(1, nil)
	p.Scenes.OnSceneTrigger(id, "go")
	assert.Equal(t, 1, p.Scenes.ActiveSceneCount(101))
}

func TestNewEngineSyntaxError(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "scene", "bad.lua", "function (")
	_, err := NewEngine(dir, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load scene scripts")
}

func TestShippedScripts(t *testing.T) {
	e, err := NewEngine(filepath.Join("..", "..", "scripts"), zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	catalog, err := data.LoadCatalog(filepath.Join("..", "..", "data", "yaml"))
	require.NoError(t, err)

	p := &world.Player{Name: "Aysa", Session: &recorder{}}
	p.AttachScenes(catalog, e, zap.NewNop())
	m := p.Scenes

	turtle := m.PlayScene(94, nil)
	require.NotZero(t, turtle)
	m.OnSceneTrigger(turtle, "turtleHealed")
	require.Equal(t, 1, m.ActiveSceneCount(351))

	var terrace uint32
	for id := turtle + 1; id < turtle+3; id++ {
		if m.HasScene(id, 351) {
			terrace = id
		}
	}
	require.NotZero(t, terrace)

	m.OnSceneComplete(terrace)
	assert.Zero(t, m.ActiveSceneCount(0), "completing the terrace cancels Shen-zin Su")
}
