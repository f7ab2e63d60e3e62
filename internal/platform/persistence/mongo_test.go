package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestMongoDB_DatabaseAndCollection(t *testing.T) {
	// Connect is lazy, so no server is needed to build the handles
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://localhost:27017"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database("ledger_test")
	mdb := &MongoDB{logger: testLogger(), client: client, database: db}

	assert.Equal(t, db, mdb.Database())
	assert.Equal(t, "ledger_transactions", mdb.Collection("ledger_transactions").Name())
	assert.Equal(t, "ledger_test", mdb.Collection("ledger_transactions").Database().Name())
}
