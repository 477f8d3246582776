package query

import (
	"github.com/mopgo/server/internal/data"
	"github.com/mopgo/server/internal/net/packet"
	"go.uber.org/zap"
)

const (
	// npcTextBlockSize is the byte size of the probability and broadcast text blocks.
	npcTextBlockSize = data.GossipOptionCount * 4 * 2
	maxPageTextLen   = 1<<12 - 1
)

// NpcTextQuery answers CMSG_NPC_TEXT_QUERY (u32 text id, GUID of the NPC).
func (q *Responder) NpcTextQuery(r *packet.Reader, _ Requester) ([]Response, error) {
	textID := r.ReadUint32()
	guid := packet.NpcTextQuery.Read(r)
	if err := r.Err(); err != nil {
		return nil, err
	}

	text := q.stores.NpcTexts.Get(textID)
	hasGossip := false
	if u := q.stores.Units.FindUnit(guid); u != nil {
		hasGossip = u.HasNpcFlag(data.NpcFlagGossip)
	}

	w := packet.NewWriterSize(packet.SMSG_NPC_TEXT_UPDATE, 4+npcTextBlockSize+4+1)
	w.WriteUint32(npcTextBlockSize)
	for i := 0; i < data.GossipOptionCount; i++ {
		w.WriteFloat(text.Probability(i))
	}
	w.WriteUint32(textID)
	for i := 0; i < data.GossipOptionCount-1; i++ {
		w.WriteUint32(0)
	}
	w.WriteUint32(textID)
	w.WriteBit(hasGossip)
	w.FlushBits()

	return []Response{reply(w)}, nil
}

// PageTextQuery answers CMSG_PAGE_TEXT_QUERY (u32 page id, GUID of the
// item or object) with one message per page of the chain.
//
// The chain stops at next page 0, at a missing page (after its not-found
// message), at a page already sent, or after Config.PageChainLimit pages.
func (q *Responder) PageTextQuery(r *packet.Reader, req Requester) ([]Response, error) {
	pageID := r.ReadUint32()
	packet.PageTextQuery.Read(r)
	if err := r.Err(); err != nil {
		return nil, err
	}

	loc := req.LocaleIndex()
	start := pageID
	seen := make(map[uint32]struct{})
	var out []Response

	for pageID != 0 {
		if _, dup := seen[pageID]; dup {
			q.log.Warn("page text chain loops",
				zap.Uint32("start", start),
				zap.Uint32("page", pageID),
			)
			break
		}
		if len(out) >= q.cfg.PageChainLimit {
			q.log.Warn("page text chain too long",
				zap.Uint32("start", start),
				zap.Int("limit", q.cfg.PageChainLimit),
			)
			break
		}
		seen[pageID] = struct{}{}

		page := q.stores.Pages.Get(pageID)
		out = append(out, pageResponse(pageID, page, loc))
		if page == nil {
			break
		}
		pageID = page.NextPage
	}
	return out, nil
}

func pageResponse(pageID uint32, page *data.PageText, loc data.Locale) Response {
	w := packet.NewWriterSize(packet.SMSG_PAGE_TEXT_QUERY_RESPONSE, 64)
	w.WriteBit(page != nil)
	if page != nil {
		text := clip(page.LocalizedText(loc), maxPageTextLen)
		w.WriteBits(uint32(len(text)), 12)
		w.FlushBits()
		w.WriteString(text)
		w.WriteUint32(pageID)
		w.WriteUint32(page.NextPage)
	}
	w.FlushBits()
	w.WriteUint32(pageID)
	return reply(w)
}
