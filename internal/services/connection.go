package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/IsaacCheng9/student-network-backend/internal/logger"
	"github.com/IsaacCheng9/student-network-backend/internal/realtime"
	"github.com/IsaacCheng9/student-network-backend/internal/repos"
	"github.com/IsaacCheng9/student-network-backend/internal/types"
)

var (
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrSelfConnection     = fmt.Errorf("cannot connect with yourself")
	ErrAlreadyRequested   = fmt.Errorf("connection request already exists")
	ErrAlreadyConnected   = fmt.Errorf("users are already connected")
	ErrBlocked            = fmt.Errorf("connection is blocked")
	ErrNotBlocked         = fmt.Errorf("user is not blocked")
	ErrNoPendingRequest   = fmt.Errorf("no pending request from this user")
	ErrNotConnected       = fmt.Errorf("users are not connected")
	ErrCloseFriendMissing = fmt.Errorf("user is not marked as a close friend")
)

type ConnectionService interface {
	// Relationship answers "what is other to username".
	Relationship(ctx context.Context, username, other string) (string, error)
	ListConnections(ctx context.Context, username string) ([]string, error)
	ListCloseFriends(ctx context.Context, username string) ([]string, error)
	ListPendingFor(ctx context.Context, username string) ([]string, error)

	Request(ctx context.Context, from, to string) error
	Accept(ctx context.Context, username, requester string) error
	Remove(ctx context.Context, username, other string) error
	Block(ctx context.Context, username, other string) error
	Unblock(ctx context.Context, username, other string) error

	MarkCloseFriend(ctx context.Context, username, other string) error
	UnmarkCloseFriend(ctx context.Context, username, other string) error
}

type connectionService struct {
	db             *gorm.DB
	log            *logger.Logger
	connectionRepo repos.ConnectionRepo
	userRepo       repos.UserRepo
	achievements   AchievementService
	notifier       NotificationService
	emitter        SSEEmitter
}

func NewConnectionService(
	db *gorm.DB,
	log *logger.Logger,
	connectionRepo repos.ConnectionRepo,
	userRepo repos.UserRepo,
	achievements AchievementService,
	notifier NotificationService,
	emitter SSEEmitter,
) ConnectionService {
	serviceLog := log.With("service", "ConnectionService")
	return &connectionService{
		db:             db,
		log:            serviceLog,
		connectionRepo: connectionRepo,
		userRepo:       userRepo,
		achievements:   achievements,
		notifier:       notifier,
		emitter:        emitter,
	}
}

func (cs *connectionService) Relationship(ctx context.Context, username, other string) (string, error) {
	if err := cs.requireUser(ctx, other); err != nil {
		return "", err
	}
	return cs.connectionRepo.TypeBetween(ctx, nil, username, other)
}

func (cs *connectionService) ListConnections(ctx context.Context, username string) ([]string, error) {
	return cs.connectionRepo.ConnectionsOf(ctx, nil, username)
}

func (cs *connectionService) ListCloseFriends(ctx context.Context, username string) ([]string, error) {
	return cs.connectionRepo.CloseFriendsOf(ctx, nil, username)
}

// ListPendingFor returns usernames with an open request TO the user.
func (cs *connectionService) ListPendingFor(ctx context.Context, username string) ([]string, error) {
	var requesters []string
	err := cs.db.WithContext(ctx).
		Model(&types.Connection{}).
		Where("user2 = ? AND connection_type = ?", username, types.ConnectionTypeRequest).
		Order("user1 ASC").
		Pluck("user1", &requesters).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	return requesters, nil
}

func (cs *connectionService) Request(ctx context.Context, from, to string) error {
	if from == to {
		return ErrSelfConnection
	}
	if err := cs.requireUser(ctx, to); err != nil {
		return err
	}

	var crossed bool
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		relation, err := cs.connectionRepo.TypeBetween(ctx, tx, from, to)
		if err != nil {
			return err
		}
		switch relation {
		case types.RelationConnected:
			return ErrAlreadyConnected
		case types.RelationBlocked:
			return ErrBlocked
		case types.RelationRequest:
			return ErrAlreadyRequested
		case types.RelationIncoming:
			// They already asked us; answering a request with a
			// request completes the connection.
			crossed = true
			return cs.accept(ctx, tx, from, to)
		}
		return cs.connectionRepo.CreateRequest(ctx, tx, from, to)
	})
	if err != nil {
		return err
	}

	if crossed {
		cs.notifier.Notify(ctx, to,
			fmt.Sprintf("%s accepted your connection request", from),
			"/profile/"+from)
		cs.emit(ctx, to, realtime.SSEEventConnectionAccepted, map[string]string{"with": from})
		cs.achievements.OnConnectionAccepted(ctx, from, to)
		return nil
	}

	cs.notifier.Notify(ctx, to,
		fmt.Sprintf("%s sent you a connection request", from),
		"/connections/pending")
	cs.emit(ctx, to, realtime.SSEEventConnectionRequest, map[string]string{"from": from})
	return nil
}

func (cs *connectionService) Accept(ctx context.Context, username, requester string) error {
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		relation, err := cs.connectionRepo.TypeBetween(ctx, tx, username, requester)
		if err != nil {
			return err
		}
		if relation != types.RelationIncoming {
			return ErrNoPendingRequest
		}
		return cs.accept(ctx, tx, username, requester)
	})
	if err != nil {
		return err
	}

	cs.notifier.Notify(ctx, requester,
		fmt.Sprintf("%s accepted your connection request", username),
		"/profile/"+username)
	cs.emit(ctx, requester, realtime.SSEEventConnectionAccepted, map[string]string{"with": username})
	cs.achievements.OnConnectionAccepted(ctx, username, requester)
	return nil
}

// accept flips the request row to connected inside the caller's
// transaction.
func (cs *connectionService) accept(ctx context.Context, tx *gorm.DB, userA, userB string) error {
	return cs.connectionRepo.MarkConnected(ctx, tx, userA, userB)
}

func (cs *connectionService) Remove(ctx context.Context, username, other string) error {
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		relation, err := cs.connectionRepo.TypeBetween(ctx, tx, username, other)
		if err != nil {
			return err
		}
		if relation == types.RelationNone {
			return ErrNotConnected
		}
		// A block row is only lifted through Unblock, by the blocker.
		if relation == types.RelationBlocked {
			return ErrBlocked
		}
		if err := cs.connectionRepo.DeleteBetween(ctx, tx, username, other); err != nil {
			return err
		}
		// A removed connection cannot leave a close-friend mark behind
		// in either direction.
		return cs.connectionRepo.DeleteCloseFriendsBetween(ctx, tx, username, other)
	})
}

func (cs *connectionService) Block(ctx context.Context, username, other string) error {
	if username == other {
		return ErrSelfConnection
	}
	if err := cs.requireUser(ctx, other); err != nil {
		return err
	}

	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := cs.connectionRepo.DeleteBetween(ctx, tx, username, other); err != nil {
			return err
		}
		if err := cs.connectionRepo.DeleteCloseFriendsBetween(ctx, tx, username, other); err != nil {
			return err
		}
		return cs.connectionRepo.CreateBlock(ctx, tx, username, other)
	})
}

func (cs *connectionService) Unblock(ctx context.Context, username, other string) error {
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := cs.connectionRepo.GetRow(ctx, tx, username, other)
		if err != nil {
			return err
		}
		if row == nil || row.ConnectionType != types.ConnectionTypeBlock || row.User1 != username {
			return ErrNotBlocked
		}
		return cs.connectionRepo.DeleteBetween(ctx, tx, username, other)
	})
}

func (cs *connectionService) MarkCloseFriend(ctx context.Context, username, other string) error {
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		relation, err := cs.connectionRepo.TypeBetween(ctx, tx, username, other)
		if err != nil {
			return err
		}
		if relation != types.RelationConnected {
			return ErrNotConnected
		}
		return cs.connectionRepo.MarkCloseFriend(ctx, tx, username, other)
	})
}

func (cs *connectionService) UnmarkCloseFriend(ctx context.Context, username, other string) error {
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		marked, err := cs.connectionRepo.IsCloseFriend(ctx, tx, username, other)
		if err != nil {
			return err
		}
		if !marked {
			return ErrCloseFriendMissing
		}
		return cs.connectionRepo.UnmarkCloseFriend(ctx, tx, username, other)
	})
}

func (cs *connectionService) requireUser(ctx context.Context, username string) error {
	exists, err := cs.userRepo.UsernameExists(ctx, nil, username)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

func (cs *connectionService) emit(ctx context.Context, username string, event realtime.SSEEvent, data any) {
	if cs.emitter == nil {
		return
	}
	cs.emitter.Emit(ctx, realtime.SSEMessage{
		Channel: username,
		Event:   event,
		Data:    data,
	})
}
