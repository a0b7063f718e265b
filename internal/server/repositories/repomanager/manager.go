package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/moodkeeper/internal/dbx"
	"github.com/dmitrijs2005/moodkeeper/internal/server/repositories/documents"
	"github.com/dmitrijs2005/moodkeeper/internal/server/repositories/files"
	"github.com/dmitrijs2005/moodkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/moodkeeper/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a handle, so services can
// use the same repository types inside and outside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Documents(db dbx.DBTX) documents.Repository
	Files(db dbx.DBTX) files.Repository
}
