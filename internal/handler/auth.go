package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mopgo/server/internal/data"
	"github.com/mopgo/server/internal/net"
	"github.com/mopgo/server/internal/net/packet"
	"go.uber.org/zap"
)

// SMSG_AUTH_RESPONSE result codes.
const (
	authOK                byte = 12
	authFailed            byte = 13
	authUnknownAccount    byte = 21
	authIncorrectPassword byte = 22
	authBanned            byte = 28
	authAlreadyOnline     byte = 29
)

// HandleAuthSession processes CMSG_AUTH_SESSION.
// Format: [account\0][password\0][locale\0]
func HandleAuthSession(sess *net.Session, r *packet.Reader, deps *Deps) error {
	accountName := strings.ToLower(r.ReadCString())
	password := r.ReadCString()
	localeCode := r.ReadCString()
	if err := r.Err(); err != nil {
		return err
	}
	if accountName == "" {
		sendAuthResponse(sess, authUnknownAccount)
		return nil
	}
	if localeCode == "" {
		localeCode = deps.Config.Server.Locale
	}
	ip := sess.IP

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	account, err := deps.Accounts.Load(ctx, accountName)
	if err != nil {
		deps.Log.Error("載入帳號資料庫錯誤", zap.Error(err))
		sendAuthResponse(sess, authFailed)
		return nil
	}

	// Auto-create if enabled
	if account == nil {
		if !deps.Config.Server.AutoCreateAccounts {
			sendAuthResponse(sess, authUnknownAccount)
			return nil
		}
		account, err = deps.Accounts.Create(ctx, accountName, password, localeCode, ip)
		if err != nil {
			deps.Log.Error("建立帳號資料庫錯誤", zap.Error(err))
			sendAuthResponse(sess, authFailed)
			return nil
		}
		deps.Log.Info(fmt.Sprintf("自動建立帳號  帳號=%s", accountName))
	} else if !deps.Accounts.ValidatePassword(account.PasswordHash, password) {
		sendAuthResponse(sess, authIncorrectPassword)
		return nil
	}

	if account.Banned {
		deps.Log.Info(fmt.Sprintf("被封鎖帳號嘗試登入  帳號=%s", accountName))
		sendAuthResponse(sess, authBanned)
		return nil
	}
	if account.Online {
		sendAuthResponse(sess, authAlreadyOnline)
		return nil
	}

	if err := deps.Accounts.SetOnline(ctx, account.ID, true); err != nil {
		deps.Log.Error("設定上線狀態資料庫錯誤", zap.Error(err))
	}
	if err := deps.Accounts.UpdateLastActive(ctx, account.ID, ip, localeCode); err != nil {
		deps.Log.Error("更新最後活動時間資料庫錯誤", zap.Error(err))
	}

	sess.AccountID = account.ID
	sess.AccountName = accountName
	sess.Locale = data.ParseLocale(localeCode)
	sendAuthResponse(sess, authOK)
	sess.SetState(packet.StateAuthenticated)

	deps.Log.Info(fmt.Sprintf("登入成功  帳號=%s  ip=%s", accountName, ip))
	return nil
}

func sendAuthResponse(sess *net.Session, code byte) {
	w := packet.NewWriterSize(packet.SMSG_AUTH_RESPONSE, 1)
	w.WriteUint8(code)
	sess.Send(w.Opcode(), w.Bytes())
}
