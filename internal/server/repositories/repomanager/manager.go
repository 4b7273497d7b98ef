package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/upskills/internal/dbx"
	"github.com/dmitrijs2005/upskills/internal/server/repositories/collections"
	"github.com/dmitrijs2005/upskills/internal/server/repositories/skills"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Collections(db dbx.DBTX) collections.Repository
	Skills(db dbx.DBTX) skills.Repository
}
