package pgx

import (
	"context"
	"fmt"

	"github.com/unet360/unet360/backend/pkg/common"
	"github.com/unet360/unet360/backend/pkg/store"
)

func (s *NodeStorage) GetAllLocations(ctx context.Context) ([]common.Location, error) {
	rows, err := s.conn.Query(ctx, `SELECT name FROM locations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	locations := make([]common.Location, 0)
	for rows.Next() {
		var loc common.Location
		if err := rows.Scan(&loc.Name); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read locations: %w", err)
	}
	return locations, nil
}

func (s *NodeStorage) GetLocationByName(ctx context.Context, name string) (common.Location, error) {
	var loc common.Location
	err := s.conn.QueryRow(ctx, `SELECT name FROM locations WHERE name = $1`, name).Scan(&loc.Name)
	if err != nil {
		return common.Location{}, mapError(err)
	}
	return loc, nil
}

func (s *NodeStorage) CreateLocation(ctx context.Context, location common.Location) (common.Location, error) {
	var loc common.Location
	err := s.conn.QueryRow(ctx,
		`INSERT INTO locations (name) VALUES ($1) RETURNING name`,
		location.Name,
	).Scan(&loc.Name)
	if err != nil {
		return common.Location{}, mapError(err)
	}
	return loc, nil
}

// RenameLocation renames a location. Nodes follow the rename through the
// foreign key.
func (s *NodeStorage) RenameLocation(ctx context.Context, name string, newName string) (common.Location, error) {
	var loc common.Location
	err := s.conn.QueryRow(ctx,
		`UPDATE locations SET name = $2 WHERE name = $1 RETURNING name`,
		name, newName,
	).Scan(&loc.Name)
	if err != nil {
		return common.Location{}, mapError(err)
	}
	return loc, nil
}

// DeleteLocation removes a location. Nodes that referenced it lose their
// location.
func (s *NodeStorage) DeleteLocation(ctx context.Context, name string) error {
	tag, err := s.conn.Exec(ctx, `DELETE FROM locations WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
