package memory

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEntityID(t *testing.T) {
	assert.Equal(t, "final_fantasy", NormalizeEntityID("  Final   Fantasy "))
	assert.Equal(t, "pizza", NormalizeEntityID("Pizza"))
	assert.Equal(t, "", NormalizeEntityID("   "))
}

func TestAddNodeCountsAndUpgradesType(t *testing.T) {
	g := NewKnowledgeGraph()

	g.AddNode("Pizza", "Pizza", "thing")
	g.AddNode("pizza", "pizza", "food")
	g.AddNode("pizza", "pizza", "thing")

	require.Equal(t, 1, g.NodeCount())
	node := g.Node("pizza")
	require.NotNil(t, node)
	assert.Equal(t, 3, node.Count)
	assert.Equal(t, "food", node.Type)
	assert.Equal(t, "Pizza", node.Label)
}

func TestAddEdgeDeduplicates(t *testing.T) {
	g := NewKnowledgeGraph()
	g.AddNode("user", "user", "person")

	g.AddEdge("user", "pizza", "likes")
	g.AddEdge("User", "Pizza", "likes")
	g.AddEdge("user", "cats", "likes")

	assert.Equal(t, 2, g.EdgeCount())
	assert.Equal(t, []string{"user_likes_cats", "user_likes_pizza"}, g.EdgesFrom("User"))
}

func TestSplitEdgeKey(t *testing.T) {
	g := NewKnowledgeGraph()
	g.AddNode("user", "user", "person")
	g.AddNode("pizza", "pizza", "food")
	g.AddEdge("user", "pizza", "likes")
	g.AddEdge("user", "pizza", "has_favorite_food")

	source, relation, target, ok := g.SplitEdgeKey("user_likes_pizza")
	require.True(t, ok)
	assert.Equal(t, "user", source)
	assert.Equal(t, "likes", relation)
	assert.Equal(t, "pizza", target)

	source, relation, target, ok = g.SplitEdgeKey("user_has_favorite_food_pizza")
	require.True(t, ok)
	assert.Equal(t, "user", source)
	assert.Equal(t, "has_favorite_food", relation)
	assert.Equal(t, "pizza", target)

	_, _, _, ok = g.SplitEdgeKey("stranger_likes_pizza")
	assert.False(t, ok)
}

func TestKnowledgeGraphJSONRoundTrip(t *testing.T) {
	g := NewKnowledgeGraph()
	g.AddNode("user", "User", "person")
	g.AddNode("pizza", "pizza", "food")
	g.AddEdge("user", "pizza", "likes")

	data, err := json.Marshal(g)
	require.NoError(t, err)

	restored := NewKnowledgeGraph()
	require.NoError(t, json.Unmarshal(data, restored))
	assert.Equal(t, 2, restored.NodeCount())
	assert.Equal(t, 1, restored.EdgeCount())
	require.NotNil(t, restored.Node("user"))
	assert.Equal(t, "User", restored.Node("user").Label)
}
