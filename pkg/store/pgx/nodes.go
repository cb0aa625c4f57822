package pgx

import (
	"context"
	"encoding/json"
	"fmt"

	pgxv5 "github.com/jackc/pgx/v5"

	"github.com/unet360/unet360/backend/pkg/common"
	"github.com/unet360/unet360/backend/pkg/logger"
	"github.com/unet360/unet360/backend/pkg/store"
)

const nodeColumns = `name, COALESCE(location, ''), url_image, adjacent_nodes, direction_angles, tags, minimap`

const (
	selectNodesSQL = `SELECT ` + nodeColumns + ` FROM nodes ORDER BY name`
	selectNodeSQL  = `SELECT ` + nodeColumns + ` FROM nodes WHERE name = $1`

	insertNodeSQL = `
		INSERT INTO nodes (name, location, url_image, adjacent_nodes, direction_angles, tags, minimap)
		VALUES ($1, $2, $3, $4::jsonb, $5::jsonb, $6::jsonb, $7::jsonb)
		RETURNING ` + nodeColumns

	updateNodeSQL = `
		UPDATE nodes SET
			name = $2,
			location = $3,
			url_image = $4,
			adjacent_nodes = $5::jsonb,
			direction_angles = $6::jsonb,
			tags = $7::jsonb,
			minimap = $8::jsonb,
			updated_at = now()
		WHERE name = $1
		RETURNING ` + nodeColumns

	deleteNodeSQL = `DELETE FROM nodes WHERE name = $1`
)

// nodeRow holds the raw column values of a nodes row.
type nodeRow struct {
	name            string
	location        string
	imageRef        string
	adjacency       []byte
	directionAngles []byte
	tags            []byte
	minimap         []byte
}

func scanNode(row pgxv5.Row) (common.NodeRecord, error) {
	var r nodeRow
	err := row.Scan(
		&r.name,
		&r.location,
		&r.imageRef,
		&r.adjacency,
		&r.directionAngles,
		&r.tags,
		&r.minimap,
	)
	if err != nil {
		return common.NodeRecord{}, err
	}
	return r.record(), nil
}

// record decodes the JSONB columns. Undecodable column values are dropped
// instead of failing the read so a single bad row cannot hide every other
// node.
func (r nodeRow) record() common.NodeRecord {
	rec := common.NodeRecord{
		Name:     r.name,
		Location: r.location,
		ImageRef: r.imageRef,
	}

	if len(r.adjacency) > 0 {
		if err := json.Unmarshal(r.adjacency, &rec.Adjacency); err != nil {
			logger.Warn("[Store][Nodes] Dropping malformed adjacency", "node", r.name, "err", err)
			rec.Adjacency = common.Adjacency{}
		}
	}
	if len(r.directionAngles) > 0 {
		if err := json.Unmarshal(r.directionAngles, &rec.DirectionAngles); err != nil {
			logger.Warn("[Store][Nodes] Dropping malformed direction angles", "node", r.name, "err", err)
			rec.DirectionAngles = nil
		}
	}
	if len(r.tags) > 0 {
		if err := json.Unmarshal(r.tags, &rec.Tags); err != nil {
			logger.Warn("[Store][Nodes] Dropping malformed tags", "node", r.name, "err", err)
			rec.Tags = nil
		}
	}
	if len(r.minimap) > 0 && string(r.minimap) != "null" {
		var m common.Minimap
		if err := json.Unmarshal(r.minimap, &m); err != nil {
			logger.Warn("[Store][Nodes] Dropping malformed minimap", "node", r.name, "err", err)
		} else {
			rec.Minimap = &m
		}
	}
	return rec
}

// nodeArgs encodes a record into the positional arguments shared by insert
// and update: name, location, image, adjacency, angles, tags, minimap.
func nodeArgs(rec common.NodeRecord) ([]any, error) {
	adjacency, err := json.Marshal(rec.Adjacency)
	if err != nil {
		return nil, fmt.Errorf("failed to encode adjacency: %w", err)
	}

	angles := rec.DirectionAngles
	if angles == nil {
		angles = []*float64{}
	}
	anglesJSON, err := json.Marshal(angles)
	if err != nil {
		return nil, fmt.Errorf("failed to encode direction angles: %w", err)
	}

	tags := rec.Tags
	if tags == nil {
		tags = map[string]map[string]float64{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}

	var minimap *string
	if rec.Minimap != nil {
		b, err := json.Marshal(rec.Minimap)
		if err != nil {
			return nil, fmt.Errorf("failed to encode minimap: %w", err)
		}
		m := string(b)
		minimap = &m
	}

	return []any{
		rec.Name,
		nullable(rec.Location),
		rec.ImageRef,
		string(adjacency),
		string(anglesJSON),
		string(tagsJSON),
		minimap,
	}, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// applyNodeUpdate overwrites the fields of rec that are set in update.
func applyNodeUpdate(rec *common.NodeRecord, update store.NodeUpdate) {
	if update.Name != nil {
		rec.Name = *update.Name
	}
	if update.Location != nil {
		rec.Location = *update.Location
	}
	if update.ImageRef != nil {
		rec.ImageRef = *update.ImageRef
	}
	if update.Adjacency != nil {
		rec.Adjacency = *update.Adjacency
	}
	if update.DirectionAngles != nil {
		rec.DirectionAngles = *update.DirectionAngles
	}
	if update.Tags != nil {
		rec.Tags = *update.Tags
	}
	if update.Minimap != nil {
		m := *update.Minimap
		rec.Minimap = &m
	}
}

// GetAllNodes returns every node ordered by name.
func (s *NodeStorage) GetAllNodes(ctx context.Context) ([]common.NodeRecord, error) {
	rows, err := s.conn.Query(ctx, selectNodesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	nodes := make([]common.NodeRecord, 0)
	for rows.Next() {
		rec, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		nodes = append(nodes, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read nodes: %w", err)
	}
	return nodes, nil
}

func (s *NodeStorage) GetNodeByName(ctx context.Context, name string) (common.NodeRecord, error) {
	rec, err := scanNode(s.conn.QueryRow(ctx, selectNodeSQL, name))
	if err != nil {
		return common.NodeRecord{}, mapError(err)
	}
	return rec, nil
}

func (s *NodeStorage) CreateNode(ctx context.Context, node common.NodeRecord) (common.NodeRecord, error) {
	args, err := nodeArgs(node)
	if err != nil {
		return common.NodeRecord{}, err
	}
	rec, err := scanNode(s.conn.QueryRow(ctx, insertNodeSQL, args...))
	if err != nil {
		return common.NodeRecord{}, mapError(err)
	}
	return rec, nil
}

// UpdateNode applies a partial update to the node called name. The row is
// locked for the duration of the read-modify-write.
func (s *NodeStorage) UpdateNode(ctx context.Context, name string, update store.NodeUpdate) (common.NodeRecord, error) {
	var updated common.NodeRecord
	err := s.withTx(ctx, func(tx pgxv5.Tx) error {
		current, err := scanNode(tx.QueryRow(ctx, selectNodeSQL+` FOR UPDATE`, name))
		if err != nil {
			return mapError(err)
		}

		applyNodeUpdate(&current, update)
		args, err := nodeArgs(current)
		if err != nil {
			return err
		}

		updated, err = scanNode(tx.QueryRow(ctx, updateNodeSQL, append([]any{name}, args...)...))
		return mapError(err)
	})
	if err != nil {
		return common.NodeRecord{}, err
	}
	return updated, nil
}

// DeleteNode removes the node. Declarations in other nodes that point at it
// are left in place.
func (s *NodeStorage) DeleteNode(ctx context.Context, name string) error {
	tag, err := s.conn.Exec(ctx, deleteNodeSQL, name)
	if err != nil {
		return fmt.Errorf("failed to delete node: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
