// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToPgx5DSN(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"postgres://u:p@localhost:5432/books", "pgx5://u:p@localhost:5432/books"},
		{"postgresql://u:p@localhost/books", "pgx5://u:p@localhost/books"},
		{"pgx5://u:p@localhost/books", "pgx5://u:p@localhost/books"},
		{"host=localhost dbname=books", "host=localhost dbname=books"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, convertToPgx5DSN(tt.input))
		})
	}
}

/*
TestSource_EmbedsOrderedMigrations walks the embedded versions and checks each
one has both directions.
*/
func TestSource_EmbedsOrderedMigrations(t *testing.T) {
	driver, err := Source()
	require.NoError(t, err)
	defer driver.Close()

	version, err := driver.First()
	require.NoError(t, err)

	var versions []uint
	for {
		versions = append(versions, version)

		up, _, err := driver.ReadUp(version)
		require.NoError(t, err)
		body, err := io.ReadAll(up)
		require.NoError(t, err)
		_ = up.Close()
		assert.Contains(t, string(body), "CREATE")

		down, _, err := driver.ReadDown(version)
		require.NoError(t, err)
		_ = down.Close()

		next, err := driver.Next(version)
		if err != nil {
			break
		}
		version = next
	}

	assert.Equal(t, []uint{1, 2, 3}, versions)
}
