// Package query answers client lookups of static and session data: names,
// creature and game object templates, corpse location, page and NPC text,
// quest points of interest, realm names and server time.
//
// Every responder decodes its request from a packet.Reader, performs at most
// a couple of store lookups and returns the reply messages. A missing record
// still produces a valid not-found reply; only a malformed request yields an
// error, in which case nothing is sent.
package query

import (
	"time"
	"unicode/utf8"

	"github.com/mopgo/server/internal/data"
	"github.com/mopgo/server/internal/net/packet"
	"github.com/mopgo/server/internal/world"
	"go.uber.org/zap"
)

// Lookup resolves read-only records by integer id; nil on miss.
type Lookup[T any] interface {
	Get(id uint32) *T
}

// NameLookup resolves character identities by the low part of their GUID.
type NameLookup interface {
	NameData(low uint32) *world.NameData
}

// UnitResolver finds spawned creatures by GUID.
type UnitResolver interface {
	FindUnit(g packet.ObjectGUID) *world.Unit
}

// Stores are the data sources the responders read.
type Stores struct {
	Creatures   Lookup[data.CreatureTemplate]
	GameObjects Lookup[data.GameObjectTemplate]
	NpcTexts    Lookup[data.NpcText]
	Pages       Lookup[data.PageText]
	QuestPOIs   Lookup[data.QuestPOISet]
	Maps        Lookup[data.MapEntry]
	Names       NameLookup
	Units       UnitResolver
}

// Requester is the in-world player a query is answered for.
type Requester interface {
	LocaleIndex() data.Locale
	MapID() uint32
	Corpse() *world.Corpse
	FindQuestSlot(questID uint32) (uint16, bool)
	QuestSlotQuestID(slot uint16) uint32
}

// Config holds the server settings the responders need.
type Config struct {
	RealmID        uint32
	Realms         map[uint32]string
	PageChainLimit int // max pages sent per page text query
	DailyResetHour int
}

// DefaultPageChainLimit applies when Config.PageChainLimit is not positive.
const DefaultPageChainLimit = 64

// Response is one message to send back.
type Response struct {
	Opcode  packet.Opcode
	Payload []byte
}

func reply(w *packet.Writer) Response {
	return Response{Opcode: w.Opcode(), Payload: w.Bytes()}
}

// Func answers one query kind.
type Func func(r *packet.Reader, req Requester) ([]Response, error)

// Responder answers queries against injected stores.
// Used from the game loop only.
type Responder struct {
	stores Stores
	cfg    Config
	log    *zap.Logger
	now    func() time.Time
}

func NewResponder(stores Stores, cfg Config, log *zap.Logger) *Responder {
	if cfg.PageChainLimit <= 0 {
		cfg.PageChainLimit = DefaultPageChainLimit
	}
	return &Responder{stores: stores, cfg: cfg, log: log, now: time.Now}
}

// Routes maps every query request opcode to its responder.
func (q *Responder) Routes() map[packet.Opcode]Func {
	return map[packet.Opcode]Func{
		packet.CMSG_NAME_QUERY:                q.NameQuery,
		packet.CMSG_REALM_NAME_QUERY:          q.RealmNameQuery,
		packet.CMSG_QUERY_TIME:                q.QueryTime,
		packet.CMSG_CREATURE_QUERY:            q.CreatureQuery,
		packet.CMSG_GAMEOBJECT_QUERY:          q.GameObjectQuery,
		packet.CMSG_CORPSE_QUERY:              q.CorpseQuery,
		packet.CMSG_CORPSE_MAP_POSITION_QUERY: q.CorpseMapPositionQuery,
		packet.CMSG_NPC_TEXT_QUERY:            q.NpcTextQuery,
		packet.CMSG_PAGE_TEXT_QUERY:           q.PageTextQuery,
		packet.CMSG_QUEST_POI_QUERY:           q.QuestPOIQuery,
	}
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// clip shortens s to at most limit bytes without splitting a UTF-8 sequence.
func clip(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	n := limit
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
