package repository

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrUnknownID is returned when a reorder request names a row that does not exist.
var ErrUnknownID = errors.New("unknown id")

// expectRows maps an UPDATE or DELETE that matched nothing to notFound.
func expectRows(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return notFound
	}

	return nil
}

// execer is satisfied by *sqlx.DB, *sql.Tx and *sqlx.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// reorder assigns position = index for every id, in the order given.
func reorder(tx execer, table string, ids []string) error {
	query := fmt.Sprintf(`UPDATE %s SET position = $1 WHERE id = $2`, table)
	for i, id := range ids {
		result, err := tx.Exec(query, i, id)
		if err != nil {
			return err
		}
		if err := expectRows(result, fmt.Errorf("%w: %s", ErrUnknownID, id)); err != nil {
			return err
		}
	}
	return nil
}

func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}
