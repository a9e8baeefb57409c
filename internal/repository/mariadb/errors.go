package mariadb

import (
	"errors"

	"github.com/fhuszti/content-engine-go/internal/port"
	"github.com/go-sql-driver/mysql"
)

const errDuplicateEntry = 1062

func mapErr(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == errDuplicateEntry {
		return port.ErrDuplicate
	}
	return err
}
