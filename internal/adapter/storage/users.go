package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mfranco-dev/tienda/internal/core/domain"
	"github.com/mfranco-dev/tienda/internal/core/port"
)

var _ port.UserStorage = (*UsersRepository)(nil)

// UsersRepository is a read-only collaborator: order creation only
// needs to know the user exists.
type UsersRepository struct {
	sqldb sqldb
}

func NewUsersRepository(sqldb sqldb) UsersRepository {
	return UsersRepository{sqldb}
}

func (r UsersRepository) UserByID(
	ctx context.Context, userID string,
) (domain.User, error) {
	const op = "UsersRepository.UserByID"

	if err := ctx.Err(); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	var u domain.User
	err := r.sqldb.QueryRowContext(ctx, `
		SELECT user_id, email, name FROM users WHERE user_id = $1;`,
		userID,
	).Scan(&u.UserID, &u.Email, &u.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, fmt.Errorf(
				"%s: %w: %q", op, domain.ErrUserNotFound, userID,
			)
		}
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
