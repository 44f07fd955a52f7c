// Package repomanager vends repository implementations bound to a database
// handle and owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/geauxvirtual/hapi/internal/dbx"
	"github.com/geauxvirtual/hapi/internal/server/repositories/activities"
	"github.com/geauxvirtual/hapi/internal/server/repositories/tokens"
	"github.com/geauxvirtual/hapi/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to either the root *sql.DB
// or a transaction, so services can compose repository calls inside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tokens(db dbx.DBTX) tokens.Repository
	Activities(db dbx.DBTX) activities.Repository
}
