package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRejectsMalformedURL(t *testing.T) {
	err := Connect(context.Background(), "postgres://%zz", Settings{MaxConns: 4})
	require.Error(t, err)
	assert.Nil(t, Pool())
	assert.Error(t, Status(context.Background()), "status must report an uninitialized pool")
}
