// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema_test

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/platform/database/schema"
)

/*
TestColumns_MatchMigrations checks every named column appears in the CREATE
TABLE statement of its migration.
*/
func TestColumns_MatchMigrations(t *testing.T) {
	tests := []struct {
		file    string
		table   string
		columns []string
	}{
		{"000001_create_users.up.sql", schema.UserAccount.Table, schema.UserAccount.Columns()},
		{"000002_create_catalog.up.sql", schema.CatalogBook.Table, schema.CatalogBook.Columns()},
		{"000003_create_social.up.sql", schema.SocialReview.Table, schema.SocialReview.Columns()},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			raw, err := os.ReadFile("../../migration/migrations/" + tt.file)
			require.NoError(t, err)
			ddl := string(raw)

			assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS "+tt.table+" (")
			for _, column := range tt.columns {
				assert.True(t, strings.Contains(ddl, "\n    "+column+" "), "column %s missing from %s", column, tt.file)
			}
		})
	}

	raw, err := os.ReadFile("../../migration/migrations/000003_create_social.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(raw), schema.SocialReview.UserBookKey)
	assert.Contains(t, string(raw), "CONSTRAINT "+schema.SocialReview.BookFK+" REFERENCES")
}
