package repos

import (
	"context"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/IsaacCheng9/student-network-backend/internal/logger"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
)

// ConnectionRepo wraps the directionally stored connection and
// close-friend rows behind symmetric queries. "connected" rows are
// unioned across both directions; a block from either side reads as
// blocked, while request reads keep the row direction so the sender
// and recipient see different relation types. Only the blocker's own
// row can lift a block (see ConnectionService.Unblock).
type ConnectionRepo interface {
	ConnectionsOf(ctx context.Context, tx *gorm.DB, username string) ([]string, error)
	PendingOrBlocked(ctx context.Context, tx *gorm.DB, username string) ([]string, error)
	TypeBetween(ctx context.Context, tx *gorm.DB, userA, userB string) (string, error)
	CountConnections(ctx context.Context, tx *gorm.DB, username string) (int64, error)

	GetRow(ctx context.Context, tx *gorm.DB, user1, user2 string) (*types.Connection, error)
	CreateRequest(ctx context.Context, tx *gorm.DB, from, to string) error
	MarkConnected(ctx context.Context, tx *gorm.DB, userA, userB string) error
	DeleteBetween(ctx context.Context, tx *gorm.DB, userA, userB string) error
	CreateBlock(ctx context.Context, tx *gorm.DB, from, to string) error

	IsCloseFriend(ctx context.Context, tx *gorm.DB, userA, userB string) (bool, error)
	CloseFriendsOf(ctx context.Context, tx *gorm.DB, username string) ([]string, error)
	MarkCloseFriend(ctx context.Context, tx *gorm.DB, userA, userB string) error
	UnmarkCloseFriend(ctx context.Context, tx *gorm.DB, userA, userB string) error
	DeleteCloseFriendsBetween(ctx context.Context, tx *gorm.DB, userA, userB string) error
}

type connectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConnectionRepo(db *gorm.DB, baseLog *logger.Logger) ConnectionRepo {
	repoLog := baseLog.With("repo", "ConnectionRepo")
	return &connectionRepo{db: db, log: repoLog}
}

func (cr *connectionRepo) ConnectionsOf(ctx context.Context, tx *gorm.DB, username string) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var rows []*types.Connection
	if err := transaction.WithContext(ctx).
		Where("connection_type = ? AND (user1 = ? OR user2 = ?)", types.ConnectionTypeConnected, username, username).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(rows))
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		other := row.User1
		if other == username {
			other = row.User2
		}
		if other == username || seen[other] {
			continue
		}
		seen[other] = true
		out = append(out, other)
	}
	sort.Strings(out)
	return out, nil
}

func (cr *connectionRepo) PendingOrBlocked(ctx context.Context, tx *gorm.DB, username string) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var targets []string
	if err := transaction.WithContext(ctx).
		Model(&types.Connection{}).
		Where("user1 = ? AND connection_type IN ?", username, []string{types.ConnectionTypeRequest, types.ConnectionTypeBlock}).
		Order("user2 ASC").
		Pluck("user2", &targets).Error; err != nil {
		return nil, err
	}
	return targets, nil
}

func (cr *connectionRepo) TypeBetween(ctx context.Context, tx *gorm.DB, userA, userB string) (string, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	forward, err := cr.GetRow(ctx, transaction, userA, userB)
	if err != nil {
		return "", err
	}
	reverse, err := cr.GetRow(ctx, transaction, userB, userA)
	if err != nil {
		return "", err
	}

	if forward != nil && forward.ConnectionType == types.ConnectionTypeConnected {
		return types.RelationConnected, nil
	}
	if reverse != nil && reverse.ConnectionType == types.ConnectionTypeConnected {
		return types.RelationConnected, nil
	}
	if forward != nil && forward.ConnectionType == types.ConnectionTypeBlock {
		return types.RelationBlocked, nil
	}
	if reverse != nil && reverse.ConnectionType == types.ConnectionTypeBlock {
		return types.RelationBlocked, nil
	}
	if reverse != nil && reverse.ConnectionType == types.ConnectionTypeRequest {
		return types.RelationIncoming, nil
	}
	if forward != nil && forward.ConnectionType == types.ConnectionTypeRequest {
		return types.RelationRequest, nil
	}
	return types.RelationNone, nil
}

func (cr *connectionRepo) CountConnections(ctx context.Context, tx *gorm.DB, username string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Connection{}).
		Where("connection_type = ? AND (user1 = ? OR user2 = ?)", types.ConnectionTypeConnected, username, username).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (cr *connectionRepo) GetRow(ctx context.Context, tx *gorm.DB, user1, user2 string) (*types.Connection, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var rows []*types.Connection
	if err := transaction.WithContext(ctx).
		Where("user1 = ? AND user2 = ?", user1, user2).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (cr *connectionRepo) CreateRequest(ctx context.Context, tx *gorm.DB, from, to string) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	row := &types.Connection{
		User1:          from,
		User2:          to,
		ConnectionType: types.ConnectionTypeRequest,
	}
	return transaction.WithContext(ctx).Create(row).Error
}

// MarkConnected flips the request row between the two users to
// connected. The row may have been written from either side, so both
// orderings are matched.
func (cr *connectionRepo) MarkConnected(ctx context.Context, tx *gorm.DB, userA, userB string) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Connection{}).
		Where("connection_type = ? AND ((user1 = ? AND user2 = ?) OR (user1 = ? AND user2 = ?))",
			types.ConnectionTypeRequest, userA, userB, userB, userA).
		Update("connection_type", types.ConnectionTypeConnected).Error
}

func (cr *connectionRepo) DeleteBetween(ctx context.Context, tx *gorm.DB, userA, userB string) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	return transaction.WithContext(ctx).
		Where("(user1 = ? AND user2 = ?) OR (user1 = ? AND user2 = ?)", userA, userB, userB, userA).
		Delete(&types.Connection{}).Error
}

func (cr *connectionRepo) CreateBlock(ctx context.Context, tx *gorm.DB, from, to string) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	row := &types.Connection{
		User1:          from,
		User2:          to,
		ConnectionType: types.ConnectionTypeBlock,
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (cr *connectionRepo) IsCloseFriend(ctx context.Context, tx *gorm.DB, userA, userB string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.CloseFriend{}).
		Where("user1 = ? AND user2 = ?", userA, userB).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (cr *connectionRepo) CloseFriendsOf(ctx context.Context, tx *gorm.DB, username string) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var targets []string
	if err := transaction.WithContext(ctx).
		Model(&types.CloseFriend{}).
		Where("user1 = ?", username).
		Order("user2 ASC").
		Pluck("user2", &targets).Error; err != nil {
		return nil, err
	}
	return targets, nil
}

func (cr *connectionRepo) MarkCloseFriend(ctx context.Context, tx *gorm.DB, userA, userB string) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	row := &types.CloseFriend{User1: userA, User2: userB}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error
}

func (cr *connectionRepo) UnmarkCloseFriend(ctx context.Context, tx *gorm.DB, userA, userB string) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	return transaction.WithContext(ctx).
		Where("user1 = ? AND user2 = ?", userA, userB).
		Delete(&types.CloseFriend{}).Error
}

func (cr *connectionRepo) DeleteCloseFriendsBetween(ctx context.Context, tx *gorm.DB, userA, userB string) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	return transaction.WithContext(ctx).
		Where("(user1 = ? AND user2 = ?) OR (user1 = ? AND user2 = ?)", userA, userB, userB, userA).
		Delete(&types.CloseFriend{}).Error
}
