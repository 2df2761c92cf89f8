package workflow_test

import (
	"testing"

	"go-leave/internal/shared/testdb"
	"go-leave/internal/workflow"

	"gorm.io/gorm"
)

func openRuleDB(t *testing.T) *gorm.DB {
	db, _ := testdb.Open(t, &workflow.Rule{})
	return db
}
