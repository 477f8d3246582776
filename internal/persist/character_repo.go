package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mopgo/server/internal/data"
	"github.com/mopgo/server/internal/net/packet"
	"github.com/mopgo/server/internal/world"
)

type CharacterRow struct {
	GUID      uint32
	AccountID uint32
	Name      string
	Race      uint8
	Gender    uint8
	Class     uint8
	Level     uint8
	MapID     uint32
	Pos       data.Position
}

// ObjectGUID returns the full player GUID of the character.
func (c *CharacterRow) ObjectGUID() packet.ObjectGUID {
	return packet.MakeGUID(packet.HighGUIDPlayer, 0, c.GUID)
}

type CharacterRepo struct {
	db *DB
}

func NewCharacterRepo(db *DB) *CharacterRepo {
	return &CharacterRepo{db: db}
}

const characterColumns = `guid, account_id, name, race, gender, class, level,
	map_id, pos_x, pos_y, pos_z, orientation`

func scanCharacter(row pgx.Row) (*CharacterRow, error) {
	var (
		c                          CharacterRow
		race, gender, class, level int16
	)
	err := row.Scan(
		&c.GUID, &c.AccountID, &c.Name, &race, &gender, &class, &level,
		&c.MapID, &c.Pos.X, &c.Pos.Y, &c.Pos.Z, &c.Pos.O,
	)
	if err != nil {
		return nil, err
	}
	c.Race, c.Gender, c.Class, c.Level = uint8(race), uint8(gender), uint8(class), uint8(level)
	return &c, nil
}

// LoadByGUID returns the character with the given low GUID owned by the
// account, or nil when there is none.
func (r *CharacterRepo) LoadByGUID(ctx context.Context, accountID, guid uint32) (*CharacterRow, error) {
	c, err := scanCharacter(r.db.Pool.QueryRow(ctx,
		`SELECT `+characterColumns+`
		 FROM characters
		 WHERE guid = $1 AND account_id = $2 AND deleted_at IS NULL`, guid, accountID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CharacterRepo) LoadByAccount(ctx context.Context, accountID uint32) ([]*CharacterRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+characterColumns+`
		 FROM characters
		 WHERE account_id = $1 AND deleted_at IS NULL
		 ORDER BY guid`, accountID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*CharacterRow
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *CharacterRepo) Create(ctx context.Context, c *CharacterRow) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO characters (
			account_id, name, race, gender, class, level,
			map_id, pos_x, pos_y, pos_z, orientation
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING guid`,
		c.AccountID, c.Name, int16(c.Race), int16(c.Gender), int16(c.Class), int16(c.Level),
		c.MapID, c.Pos.X, c.Pos.Y, c.Pos.Z, c.Pos.O,
	).Scan(&c.GUID)
}

// LoadAllNames reads the name data of every live character, declined
// names included, for the name cache.
func (r *CharacterRepo) LoadAllNames(ctx context.Context) ([]*world.NameData, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT c.guid, c.account_id, c.name, c.race, c.gender, c.class, c.level,
		        d.genitive, d.dative, d.accusative, d.instrumental, d.prepositional
		 FROM characters c
		 LEFT JOIN character_declinedname d ON d.guid = c.guid
		 WHERE c.deleted_at IS NULL
		 ORDER BY c.guid`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*world.NameData
	for rows.Next() {
		var (
			guid                       uint32
			nd                         world.NameData
			race, gender, class, level int16
			declined                   [world.DeclinedNameCases]*string
		)
		if err := rows.Scan(
			&guid, &nd.AccountID, &nd.Name, &race, &gender, &class, &level,
			&declined[0], &declined[1], &declined[2], &declined[3], &declined[4],
		); err != nil {
			return nil, err
		}
		nd.GUID = packet.MakeGUID(packet.HighGUIDPlayer, 0, guid)
		nd.Race, nd.Gender, nd.Class, nd.Level = uint8(race), uint8(gender), uint8(class), uint8(level)
		if declined[0] != nil {
			nd.Declined = new([world.DeclinedNameCases]string)
			for i, s := range declined {
				if s != nil {
					nd.Declined[i] = *s
				}
			}
		}
		result = append(result, &nd)
	}
	return result, rows.Err()
}

// SaveDeclinedNames replaces the declined names of a character.
func (r *CharacterRepo) SaveDeclinedNames(ctx context.Context, guid uint32, names [world.DeclinedNameCases]string) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO character_declinedname (guid, genitive, dative, accusative, instrumental, prepositional)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (guid) DO UPDATE SET
		   genitive = EXCLUDED.genitive, dative = EXCLUDED.dative,
		   accusative = EXCLUDED.accusative, instrumental = EXCLUDED.instrumental,
		   prepositional = EXCLUDED.prepositional`,
		guid, names[0], names[1], names[2], names[3], names[4],
	)
	return err
}

// LoadQuestLog returns the quest log slots of a character.
func (r *CharacterRepo) LoadQuestLog(ctx context.Context, guid uint32) ([world.MaxQuestLogSize]uint32, error) {
	var log [world.MaxQuestLogSize]uint32
	rows, err := r.db.Pool.Query(ctx,
		`SELECT slot, quest_id FROM character_queststatus WHERE guid = $1`, guid,
	)
	if err != nil {
		return log, err
	}
	defer rows.Close()

	for rows.Next() {
		var slot int16
		var questID uint32
		if err := rows.Scan(&slot, &questID); err != nil {
			return log, err
		}
		if slot < 0 || int(slot) >= world.MaxQuestLogSize {
			return log, fmt.Errorf("character %d: quest slot %d out of range", guid, slot)
		}
		log[slot] = questID
	}
	return log, rows.Err()
}

// SaveQuestLog rewrites the quest log of a character in one transaction.
func (r *CharacterRepo) SaveQuestLog(ctx context.Context, guid uint32, log [world.MaxQuestLogSize]uint32) error {
	return r.db.InTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM character_queststatus WHERE guid = $1`, guid); err != nil {
			return err
		}
		batch := &pgx.Batch{}
		for slot, questID := range log {
			if questID == 0 {
				continue
			}
			batch.Queue(`INSERT INTO character_queststatus (guid, slot, quest_id) VALUES ($1, $2, $3)`,
				guid, int16(slot), questID)
		}
		if batch.Len() == 0 {
			return nil
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

// LoadCorpse returns the corpse of a character, or nil when it has none.
func (r *CharacterRepo) LoadCorpse(ctx context.Context, guid uint32) (*world.Corpse, error) {
	var (
		corpseID uint32
		c        world.Corpse
	)
	err := r.db.Pool.QueryRow(ctx,
		`SELECT corpse_id, map_id, pos_x, pos_y, pos_z, orientation
		 FROM corpses WHERE guid = $1`, guid,
	).Scan(&corpseID, &c.MapID, &c.Pos.X, &c.Pos.Y, &c.Pos.Z, &c.Pos.O)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.GUID = packet.MakeGUID(packet.HighGUIDCorpse, 0, corpseID)
	return &c, nil
}

func (r *CharacterRepo) SaveCorpse(ctx context.Context, guid uint32, c *world.Corpse) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO corpses (guid, corpse_id, map_id, pos_x, pos_y, pos_z, orientation)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (guid) DO UPDATE SET
		   corpse_id = EXCLUDED.corpse_id, map_id = EXCLUDED.map_id,
		   pos_x = EXCLUDED.pos_x, pos_y = EXCLUDED.pos_y, pos_z = EXCLUDED.pos_z,
		   orientation = EXCLUDED.orientation, created_at = now()`,
		guid, c.GUID.Low(), c.MapID, c.Pos.X, c.Pos.Y, c.Pos.Z, c.Pos.O,
	)
	return err
}

func (r *CharacterRepo) DeleteCorpse(ctx context.Context, guid uint32) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM corpses WHERE guid = $1`, guid)
	return err
}

func (r *CharacterRepo) SavePosition(ctx context.Context, guid uint32, mapID uint32, pos data.Position) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE characters SET map_id = $1, pos_x = $2, pos_y = $3, pos_z = $4, orientation = $5
		 WHERE guid = $6`,
		mapID, pos.X, pos.Y, pos.Z, pos.O, guid,
	)
	return err
}

func (r *CharacterRepo) SaveLevel(ctx context.Context, guid uint32, level uint8) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE characters SET level = $1 WHERE guid = $2`, int16(level), guid,
	)
	return err
}
