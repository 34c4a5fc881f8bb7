package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrorDump is the loggable shape of a failure: the coded top error, the
// unwrap chain, and any Postgres diagnostics found along it. The response
// layer attaches it to server-error log lines; it never reaches clients.
type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGTable      string `json:"pg_table,omitempty"`
	PGColumn     string `json:"pg_column,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
	PGMessage    string `json:"pg_message,omitempty"`
}

// Dump walks the error chain once, recording each link and keeping the
// diagnostics of the first Postgres error it meets. Both the pgx and the
// lib/pq shapes show up here: gorm surfaces pgx errors, goose surfaces pq.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
		if d.PGCode != "" {
			continue
		}
		switch pg := e.(type) {
		case *pgconn.PgError:
			d.PGCode = pg.Code
			d.PGConstraint = pg.ConstraintName
			d.PGTable = pg.TableName
			d.PGColumn = pg.ColumnName
			d.PGDetail = pg.Detail
			d.PGMessage = pg.Message
		case *pq.Error:
			d.PGCode = string(pg.Code)
			d.PGConstraint = pg.Constraint
			d.PGTable = pg.Table
			d.PGColumn = pg.Column
			d.PGDetail = pg.Detail
			d.PGMessage = pg.Message
		}
	}
	return d
}
