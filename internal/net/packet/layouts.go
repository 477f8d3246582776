package packet

// GUID layouts per message. These are wire constants of the supported
// client build; they are not derivable from one another.
var (
	// CMSG_NAME_QUERY. Two flag bits are interleaved into the mask:
	// the first after index 4, the second after the full mask.
	NameQueryRequest = GUIDLayout{
		Mask:  [8]uint8{4, 2, 5, 7, 3, 6, 0, 1},
		Bytes: [8]uint8{1, 0, 2, 6, 4, 7, 5, 3},
	}

	// SMSG_NAME_QUERY_RESPONSE header GUID. Byte 1 precedes the
	// has-data flag; the remaining bytes follow the character fields.
	NameQueryResponse = GUIDLayout{
		Mask:  [8]uint8{4, 0, 2, 6, 5, 3, 1, 7},
		Bytes: [8]uint8{1, 7, 3, 2, 5, 4, 0, 6},
	}

	// CMSG_GAMEOBJECT_QUERY, after the entry.
	GameObjectQuery = GUIDLayout{
		Mask:  [8]uint8{1, 7, 0, 3, 5, 4, 6, 2},
		Bytes: [8]uint8{3, 6, 1, 2, 0, 7, 5, 4},
	}

	// CMSG_NPC_TEXT_QUERY, after the text id.
	NpcTextQuery = GUIDLayout{
		Mask:  [8]uint8{0, 1, 2, 6, 4, 3, 7, 5},
		Bytes: [8]uint8{3, 1, 4, 6, 2, 0, 5, 7},
	}

	// CMSG_PAGE_TEXT_QUERY, after the page id.
	PageTextQuery = GUIDLayout{
		Mask:  [8]uint8{1, 5, 2, 3, 6, 4, 0, 7},
		Bytes: [8]uint8{6, 4, 0, 3, 7, 5, 2, 1},
	}

	// SMSG_CORPSE_QUERY. The found flag sits between mask indices 0 and 7;
	// the bytes are split into groups around the position fields.
	CorpseQuery = GUIDLayout{
		Mask:  [8]uint8{4, 2, 5, 3, 1, 6, 0, 7},
		Bytes: [8]uint8{3, 2, 1, 6, 4, 5, 7, 0},
	}

	// CMSG_CORPSE_MAP_POSITION_QUERY transport GUID.
	CorpseMapPositionQuery = GUIDLayout{
		Mask:  [8]uint8{6, 1, 7, 2, 4, 0, 5, 3},
		Bytes: [8]uint8{5, 2, 3, 6, 1, 0, 7, 4},
	}

	// SMSG_PLAY_SCENE transport GUID.
	PlayScene = GUIDLayout{
		Mask:  [8]uint8{2, 7, 4, 0, 6, 1, 3, 5},
		Bytes: [8]uint8{6, 0, 3, 5, 1, 7, 4, 2},
	}
)
