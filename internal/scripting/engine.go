package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mopgo/server/internal/data"
	"github.com/mopgo/server/internal/scene"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for scene scripting.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	// Shared helpers first, then the scene scripts that use them.
	for _, sub := range []string{"core", "scene"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// OnSceneTrigger calls the Lua on_scene_trigger function and applies the
// scene commands it returns.
func (e *Engine) OnSceneTrigger(m *scene.Manager, tpl *data.SceneTemplate, instanceID uint32, triggerName string) {
	ctx := e.sceneContext(tpl, instanceID)
	ctx.RawSetString("trigger", lua.LString(triggerName))
	e.callScene("on_scene_trigger", m, ctx)
}

// OnSceneComplete calls the Lua on_scene_complete function and applies the
// scene commands it returns.
func (e *Engine) OnSceneComplete(m *scene.Manager, tpl *data.SceneTemplate, instanceID uint32) {
	e.callScene("on_scene_complete", m, e.sceneContext(tpl, instanceID))
}

func (e *Engine) sceneContext(tpl *data.SceneTemplate, instanceID uint32) *lua.LTable {
	t := e.vm.NewTable()
	t.RawSetString("instance_id", lua.LNumber(instanceID))
	t.RawSetString("scene_id", lua.LNumber(tpl.SceneID))
	t.RawSetString("package_id", lua.LNumber(tpl.ScenePackageID))
	t.RawSetString("playback_flags", lua.LNumber(tpl.PlaybackFlags))
	return t
}

// callScene runs a scene hook. Scripts are optional: a missing function is
// not an error.
func (e *Engine) callScene(name string, m *scene.Manager, ctx *lua.LTable) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, ctx); err != nil {
		e.log.Error("lua scene hook error", zap.String("func", name), zap.Error(err))
		return
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	switch rt := result.(type) {
	case *lua.LNilType:
	case *lua.LTable:
		e.applyCommands(name, m, parseCommands(rt))
	default:
		e.log.Error("lua scene hook returned non-table", zap.String("func", name))
	}
}

// SceneCommand is one scene action requested by a script.
type SceneCommand struct {
	Type       string
	SceneID    uint32
	PackageID  uint32
	Flags      uint32
	InstanceID uint32
}

// parseCommands reads the command list returned by a scene hook.
func parseCommands(t *lua.LTable) []SceneCommand {
	var cmds []SceneCommand
	t.ForEach(func(_, v lua.LValue) {
		ct, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		cmds = append(cmds, SceneCommand{
			Type:       lStr(ct, "type"),
			SceneID:    uint32(lInt(ct, "scene_id")),
			PackageID:  uint32(lInt(ct, "package_id")),
			Flags:      uint32(lInt(ct, "flags")),
			InstanceID: uint32(lInt(ct, "instance_id")),
		})
	})
	return cmds
}

func (e *Engine) applyCommands(hook string, m *scene.Manager, cmds []SceneCommand) {
	for _, c := range cmds {
		switch c.Type {
		case "play_scene":
			if m.PlayScene(c.SceneID, nil) == 0 {
				e.log.Warn("lua 指令播放未知場景", zap.String("hook", hook), zap.Uint32("scene", c.SceneID))
			}
		case "play_package":
			if m.PlaySceneByPackageID(c.PackageID, c.Flags, nil) == 0 {
				e.log.Warn("lua 指令播放未知場景包", zap.String("hook", hook), zap.Uint32("package", c.PackageID))
			}
		case "cancel_package":
			m.CancelSceneByPackageID(c.PackageID)
		case "cancel":
			m.CancelScene(c.InstanceID, true)
		default:
			e.log.Warn("unknown lua scene command", zap.String("hook", hook), zap.String("type", c.Type))
		}
	}
}

// lInt reads an integer field from a Lua table.
func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

// lStr reads a string field from a Lua table.
func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
