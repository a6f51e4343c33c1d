package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	return s.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO groups (id, name, created_at) VALUES ($1, $2, $3)`,
			group.ID, group.Name, group.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}
		return insertMembers(ctx, tx, group.ID, group.Members)
	})
}

func (s *Store) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	group := &models.Group{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM groups WHERE id = $1`, id,
	).Scan(&group.ID, &group.Name, &group.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: group %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if group.Members, err = groupMembers(ctx, s.pool, group.ID); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *Store) ListGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT g.id, g.name, g.created_at
		   FROM groups g JOIN group_members m ON m.group_id = g.id
		  WHERE m.user_id = $1
		  ORDER BY g.created_at DESC, g.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	groups, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Group, error) {
		group := &models.Group{}
		err := row.Scan(&group.ID, &group.Name, &group.CreatedAt)
		return group, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan groups: %w", err)
	}

	for _, group := range groups {
		if group.Members, err = groupMembers(ctx, s.pool, group.ID); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

func (s *Store) AddGroupMembers(ctx context.Context, groupID string, userIDs []string) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		var found bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM groups WHERE id = $1)`, groupID).Scan(&found); err != nil {
			return fmt.Errorf("failed to check group existence: %w", err)
		}
		if !found {
			return fmt.Errorf("%w: group %s", storage.ErrNotFound, groupID)
		}
		return insertMembers(ctx, tx, groupID, userIDs)
	})
}

func (s *Store) GroupExists(ctx context.Context, id string) (bool, error) {
	ok, err := s.exists(ctx, `SELECT 1 FROM groups WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to check group existence: %w", err)
	}
	return ok, nil
}

func groupMembers(ctx context.Context, q querier, groupID string) ([]string, error) {
	rows, err := q.Query(ctx, `SELECT user_id FROM group_members WHERE group_id = $1 ORDER BY user_id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	members, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan group members: %w", err)
	}
	if members == nil {
		members = []string{}
	}
	return members, nil
}

func insertMembers(ctx context.Context, q querier, groupID string, userIDs []string) error {
	for _, userID := range userIDs {
		_, err := q.Exec(ctx,
			`INSERT INTO group_members (group_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			groupID, userID,
		)
		if hasCode(err, codeForeignKeyViolation) {
			return fmt.Errorf("%w: user %s", storage.ErrNotFound, userID)
		}
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}
	return nil
}
