package query

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/domaindao/goapi/base/ctx"
)

func TestGetSortOption(t *testing.T) {
	req := require.New(t)
	im := &impl{}
	mockCTX := ctx.Background()

	req.Equal(bson.D{}, im.getSortOption(mockCTX))
	req.Equal(bson.D{}, im.getSortOption(mockCTX, ""))
	req.Equal(bson.D{{Key: "createdAt", Value: 1}}, im.getSortOption(mockCTX, "createdAt"))
	req.Equal(bson.D{{Key: "createdAt", Value: -1}}, im.getSortOption(mockCTX, "-createdAt"))
	req.Equal(
		bson.D{{Key: "blockNumber", Value: -1}, {Key: "logIndex", Value: 1}},
		im.getSortOption(mockCTX, "-blockNumber", "logIndex"),
	)
}
