package core

import (
	"log/slog"

	"github.com/emerrafter1/nc-news/internal/utils/databaseutils"
)

type Core struct {
	log         *slog.Logger
	sqlTemplate *databaseutils.SQLTemplate
}

func NewCore(log *slog.Logger, sqlTemplate *databaseutils.SQLTemplate) *Core {
	return &Core{
		log:         log,
		sqlTemplate: sqlTemplate,
	}
}
