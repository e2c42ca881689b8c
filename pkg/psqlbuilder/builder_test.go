package psqlbuilder

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_UsesDollarPlaceholders(t *testing.T) {
	query, args, err := Select("id").
		From("slots").
		Where(squirrel.Eq{"business_id": 1}).
		Where(squirrel.Eq{"service_id": 2}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM slots WHERE business_id = $1 AND service_id = $2", query)
	assert.Equal(t, []interface{}{1, 2}, args)
}

func TestUpdate_UsesDollarPlaceholders(t *testing.T) {
	query, args, err := Update("slots").
		Set("is_available", false).
		Where(squirrel.Eq{"id": 7}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "UPDATE slots SET is_available = $1 WHERE id = $2", query)
	assert.Equal(t, []interface{}{false, 7}, args)
}
