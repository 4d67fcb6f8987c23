// Package store persists the gateway's own records in Postgres: user
// profiles and bid payments waiting for the contractor to come back from
// checkout. Jobs and bids themselves live in the marketplace backend.
package store

import sq "github.com/Masterminds/squirrel"

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}
