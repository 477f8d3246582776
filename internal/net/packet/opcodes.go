package packet

import "fmt"

// Opcode identifies a message. Values follow the 5.4.8 client build and
// must be re-pinned for any other build.
type Opcode uint16

// Client → server.
const (
	CMSG_AUTH_SESSION                  Opcode = 0x00B2
	CMSG_PLAYER_LOGIN                  Opcode = 0x158F
	CMSG_LOGOUT_REQUEST                Opcode = 0x1349
	CMSG_NAME_QUERY                    Opcode = 0x0328
	CMSG_REALM_NAME_QUERY              Opcode = 0x1A16
	CMSG_QUERY_TIME                    Opcode = 0x0A12
	CMSG_CREATURE_QUERY                Opcode = 0x0842
	CMSG_GAMEOBJECT_QUERY              Opcode = 0x1461
	CMSG_CORPSE_QUERY                  Opcode = 0x0A0E
	CMSG_CORPSE_MAP_POSITION_QUERY     Opcode = 0x0B0E
	CMSG_NPC_TEXT_QUERY                Opcode = 0x0287
	CMSG_PAGE_TEXT_QUERY               Opcode = 0x1022
	CMSG_QUEST_POI_QUERY               Opcode = 0x10C2
	CMSG_SCENE_TRIGGER_EVENT           Opcode = 0x1B0A
	CMSG_SCENE_PLAYBACK_COMPLETE       Opcode = 0x0CB2
	CMSG_SCENE_PLAYBACK_CANCELED       Opcode = 0x0C0A
)

// Server → client.
const (
	SMSG_AUTH_RESPONSE                      Opcode = 0x0ABA
	SMSG_LOGIN_VERIFY_WORLD                 Opcode = 0x1C0F
	SMSG_NAME_QUERY_RESPONSE                Opcode = 0x169B
	SMSG_REALM_NAME_QUERY_RESPONSE          Opcode = 0x1C8E
	SMSG_QUERY_TIME_RESPONSE                Opcode = 0x1DB0
	SMSG_CREATURE_QUERY_RESPONSE            Opcode = 0x06C1
	SMSG_GAMEOBJECT_QUERY_RESPONSE          Opcode = 0x048E
	SMSG_CORPSE_QUERY                       Opcode = 0x1E97
	SMSG_CORPSE_MAP_POSITION_QUERY_RESPONSE Opcode = 0x0A82
	SMSG_NPC_TEXT_UPDATE                    Opcode = 0x140A
	SMSG_PAGE_TEXT_QUERY_RESPONSE           Opcode = 0x0A15
	SMSG_QUEST_POI_QUERY_RESPONSE           Opcode = 0x02EB
	SMSG_PLAY_SCENE                         Opcode = 0x0C06
	SMSG_CANCEL_SCENE                       Opcode = 0x0C2E
)

var opcodeNames = map[Opcode]string{
	CMSG_AUTH_SESSION:              "CMSG_AUTH_SESSION",
	CMSG_PLAYER_LOGIN:              "CMSG_PLAYER_LOGIN",
	CMSG_LOGOUT_REQUEST:            "CMSG_LOGOUT_REQUEST",
	CMSG_NAME_QUERY:                "CMSG_NAME_QUERY",
	CMSG_REALM_NAME_QUERY:          "CMSG_REALM_NAME_QUERY",
	CMSG_QUERY_TIME:                "CMSG_QUERY_TIME",
	CMSG_CREATURE_QUERY:            "CMSG_CREATURE_QUERY",
	CMSG_GAMEOBJECT_QUERY:          "CMSG_GAMEOBJECT_QUERY",
	CMSG_CORPSE_QUERY:              "CMSG_CORPSE_QUERY",
	CMSG_CORPSE_MAP_POSITION_QUERY: "CMSG_CORPSE_MAP_POSITION_QUERY",
	CMSG_NPC_TEXT_QUERY:            "CMSG_NPC_TEXT_QUERY",
	CMSG_PAGE_TEXT_QUERY:           "CMSG_PAGE_TEXT_QUERY",
	CMSG_QUEST_POI_QUERY:           "CMSG_QUEST_POI_QUERY",
	CMSG_SCENE_TRIGGER_EVENT:       "CMSG_SCENE_TRIGGER_EVENT",
	CMSG_SCENE_PLAYBACK_COMPLETE:   "CMSG_SCENE_PLAYBACK_COMPLETE",
	CMSG_SCENE_PLAYBACK_CANCELED:   "CMSG_SCENE_PLAYBACK_CANCELED",

	SMSG_AUTH_RESPONSE:                      "SMSG_AUTH_RESPONSE",
	SMSG_LOGIN_VERIFY_WORLD:                 "SMSG_LOGIN_VERIFY_WORLD",
	SMSG_NAME_QUERY_RESPONSE:                "SMSG_NAME_QUERY_RESPONSE",
	SMSG_REALM_NAME_QUERY_RESPONSE:          "SMSG_REALM_NAME_QUERY_RESPONSE",
	SMSG_QUERY_TIME_RESPONSE:                "SMSG_QUERY_TIME_RESPONSE",
	SMSG_CREATURE_QUERY_RESPONSE:            "SMSG_CREATURE_QUERY_RESPONSE",
	SMSG_GAMEOBJECT_QUERY_RESPONSE:          "SMSG_GAMEOBJECT_QUERY_RESPONSE",
	SMSG_CORPSE_QUERY:                       "SMSG_CORPSE_QUERY",
	SMSG_CORPSE_MAP_POSITION_QUERY_RESPONSE: "SMSG_CORPSE_MAP_POSITION_QUERY_RESPONSE",
	SMSG_NPC_TEXT_UPDATE:                    "SMSG_NPC_TEXT_UPDATE",
	SMSG_PAGE_TEXT_QUERY_RESPONSE:           "SMSG_PAGE_TEXT_QUERY_RESPONSE",
	SMSG_QUEST_POI_QUERY_RESPONSE:           "SMSG_QUEST_POI_QUERY_RESPONSE",
	SMSG_PLAY_SCENE:                         "SMSG_PLAY_SCENE",
	SMSG_CANCEL_SCENE:                       "SMSG_CANCEL_SCENE",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("0x%04X", uint16(op))
}
