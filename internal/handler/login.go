package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/mopgo/server/internal/core/event"
	"github.com/mopgo/server/internal/net"
	"github.com/mopgo/server/internal/net/packet"
	"github.com/mopgo/server/internal/world"
	"go.uber.org/zap"
)

// HandlePlayerLogin processes CMSG_PLAYER_LOGIN.
// Format: [u64 character GUID]
func HandlePlayerLogin(sess *net.Session, r *packet.Reader, deps *Deps) error {
	guid := packet.ObjectGUID(r.ReadUint64())
	if err := r.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch, err := deps.Characters.LoadByGUID(ctx, sess.AccountID, guid.Low())
	if err != nil || ch == nil {
		deps.Log.Warn("進入世界: 找不到角色",
			zap.Stringer("guid", guid),
			zap.Uint32("account", sess.AccountID),
			zap.Error(err),
		)
		sess.Close()
		return nil
	}
	if deps.World.GetByGUID(ch.ObjectGUID()) != nil {
		deps.Log.Warn("進入世界: 角色已在線上", zap.String("char", ch.Name))
		sess.Close()
		return nil
	}

	questLog, err := deps.Characters.LoadQuestLog(ctx, ch.GUID)
	if err != nil {
		return fmt.Errorf("load quest log of %s: %w", ch.Name, err)
	}
	corpse, err := deps.Characters.LoadCorpse(ctx, ch.GUID)
	if err != nil {
		return fmt.Errorf("load corpse of %s: %w", ch.Name, err)
	}

	player := &world.Player{
		SessionID: sess.ID,
		Session:   sess,
		GUID:      ch.ObjectGUID(),
		AccountID: ch.AccountID,
		Name:      ch.Name,
		Race:      ch.Race,
		Gender:    ch.Gender,
		Class:     ch.Class,
		Level:     ch.Level,
		Map:       ch.MapID,
		Pos:       ch.Pos,
		Locale:    sess.Locale,
		QuestLog:  questLog,
	}
	if corpse != nil {
		player.SetCorpse(corpse)
		player.Dirty = false
	}
	player.AttachScenes(deps.Catalog, deps.Scripting, deps.Log)
	deps.World.AddPlayer(player)

	sess.SetState(packet.StateInWorld)
	sendLoginVerifyWorld(sess, player)

	event.Emit(deps.Bus, event.PlayerEnteredWorld{
		SessionID: sess.ID,
		AccountID: sess.AccountID,
		GUID:      player.GUID,
		Name:      player.Name,
	})
	deps.Log.Info(fmt.Sprintf("角色進入世界  帳號=%s  角色=%s", sess.AccountName, player.Name))
	return nil
}

// sendLoginVerifyWorld sends SMSG_LOGIN_VERIFY_WORLD.
// Format: [u32 map][f32 x][f32 y][f32 z][f32 o]
func sendLoginVerifyWorld(sess *net.Session, p *world.Player) {
	w := packet.NewWriterSize(packet.SMSG_LOGIN_VERIFY_WORLD, 4+4*4)
	w.WriteUint32(p.Map)
	w.WriteFloat(p.Pos.X)
	w.WriteFloat(p.Pos.Y)
	w.WriteFloat(p.Pos.Z)
	w.WriteFloat(p.Pos.O)
	sess.Send(w.Opcode(), w.Bytes())
}

// HandleLogout processes CMSG_LOGOUT_REQUEST: the character leaves the
// world and the session returns to character select.
func HandleLogout(sess *net.Session, _ *packet.Reader, deps *Deps) error {
	if p := LeaveWorld(sess, deps); p != nil {
		deps.Log.Info(fmt.Sprintf("玩家登出  session=%d  角色=%s", sess.ID, p.Name))
	}
	sess.SetState(packet.StateAuthenticated)
	return nil
}

// LeaveWorld removes the session's character from the world: its scenes
// are cancelled, its state saved and PlayerLeftWorld emitted. Returns the
// removed player, or nil when the session had none.
func LeaveWorld(sess *net.Session, deps *Deps) *world.Player {
	p := deps.World.RemovePlayer(sess.ID)
	if p == nil {
		return nil
	}
	if p.Scenes != nil {
		p.Scenes.CancelAll()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := deps.Characters.SavePosition(ctx, p.GUID.Low(), p.Map, p.Pos); err != nil {
		deps.Log.Error("離線存檔位置失敗", zap.String("name", p.Name), zap.Error(err))
	}
	if err := deps.Characters.SaveQuestLog(ctx, p.GUID.Low(), p.QuestLog); err != nil {
		deps.Log.Error("離線存檔任務失敗", zap.String("name", p.Name), zap.Error(err))
	}

	event.Emit(deps.Bus, event.PlayerLeftWorld{
		SessionID: sess.ID,
		AccountID: p.AccountID,
		GUID:      p.GUID,
		Name:      p.Name,
	})
	return p
}

// HandleDisconnect cleans up after a closed session: the character leaves
// the world and the account is marked offline.
func HandleDisconnect(sess *net.Session, deps *Deps) {
	LeaveWorld(sess, deps)

	if sess.AccountID != 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := deps.Accounts.SetOnline(ctx, sess.AccountID, false); err != nil {
			deps.Log.Error("設定離線狀態資料庫錯誤", zap.Error(err))
		}
	}
	deps.Log.Info(fmt.Sprintf("玩家斷線  session=%d  帳號=%s", sess.ID, sess.AccountName))
}
