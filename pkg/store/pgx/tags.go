package pgx

import (
	"context"
	"fmt"

	pgxv5 "github.com/jackc/pgx/v5"

	"github.com/unet360/unet360/backend/pkg/common"
	"github.com/unet360/unet360/backend/pkg/store"
)

const (
	selectTagsSQL = `SELECT name, icon_name FROM tags ORDER BY name`
	selectTagSQL  = `SELECT name, icon_name FROM tags WHERE name = $1`

	// Node tags are keyed by tag name inside the JSONB column.
	renameNodeTagsSQL = `
		UPDATE nodes
		SET tags = (tags - $1::text) || jsonb_build_object($2::text, tags -> $1::text),
			updated_at = now()
		WHERE tags ? $1::text`
	dropNodeTagsSQL = `
		UPDATE nodes
		SET tags = tags - $1::text, updated_at = now()
		WHERE tags ? $1::text`
)

func scanTag(row pgxv5.Row) (common.Tag, error) {
	var tag common.Tag
	if err := row.Scan(&tag.Name, &tag.IconName); err != nil {
		return common.Tag{}, err
	}
	return tag, nil
}

func (s *NodeStorage) GetAllTags(ctx context.Context) ([]common.Tag, error) {
	rows, err := s.conn.Query(ctx, selectTagsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	tags := make([]common.Tag, 0)
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}
	return tags, nil
}

func (s *NodeStorage) GetTagByName(ctx context.Context, name string) (common.Tag, error) {
	tag, err := scanTag(s.conn.QueryRow(ctx, selectTagSQL, name))
	if err != nil {
		return common.Tag{}, mapError(err)
	}
	return tag, nil
}

func (s *NodeStorage) CreateTag(ctx context.Context, tag common.Tag) (common.Tag, error) {
	created, err := scanTag(s.conn.QueryRow(ctx,
		`INSERT INTO tags (name, icon_name) VALUES ($1, $2) RETURNING name, icon_name`,
		tag.Name, tag.IconName,
	))
	if err != nil {
		return common.Tag{}, mapError(err)
	}
	return created, nil
}

// UpdateTag applies a partial update. A rename is carried over to every
// node that uses the tag.
func (s *NodeStorage) UpdateTag(ctx context.Context, name string, update store.TagUpdate) (common.Tag, error) {
	var updated common.Tag
	err := s.withTx(ctx, func(tx pgxv5.Tx) error {
		current, err := scanTag(tx.QueryRow(ctx, selectTagSQL+` FOR UPDATE`, name))
		if err != nil {
			return mapError(err)
		}

		applyTagUpdate(&current, update)
		updated, err = scanTag(tx.QueryRow(ctx,
			`UPDATE tags SET name = $2, icon_name = $3 WHERE name = $1 RETURNING name, icon_name`,
			name, current.Name, current.IconName,
		))
		if err != nil {
			return mapError(err)
		}

		if updated.Name != name {
			if _, err := tx.Exec(ctx, renameNodeTagsSQL, name, updated.Name); err != nil {
				return fmt.Errorf("failed to rename node tags: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return common.Tag{}, err
	}
	return updated, nil
}

func applyTagUpdate(tag *common.Tag, update store.TagUpdate) {
	if update.Name != nil {
		tag.Name = *update.Name
	}
	if update.IconName != nil {
		icon := *update.IconName
		tag.IconName = &icon
	}
}

// DeleteTag removes a tag and detaches it from every node.
func (s *NodeStorage) DeleteTag(ctx context.Context, name string) error {
	return s.withTx(ctx, func(tx pgxv5.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM tags WHERE name = $1`, name)
		if err != nil {
			return fmt.Errorf("failed to delete tag: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return store.ErrNotFound
		}
		if _, err := tx.Exec(ctx, dropNodeTagsSQL, name); err != nil {
			return fmt.Errorf("failed to detach tag from nodes: %w", err)
		}
		return nil
	})
}
