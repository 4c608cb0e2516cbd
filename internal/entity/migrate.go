package entity

import (
	"context"

	"github.com/questboard/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&Quest{},
		&QuestLink{},
		&Bookmark{},
		&DifficultyCurve{},
		&Submission{},
	)
}
