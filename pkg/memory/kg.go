package memory

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeEntityID canonicalizes an entity identifier: lowercased, runs of
// whitespace collapsed to single underscores.
func NormalizeEntityID(id string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(id)), "_")
}

// Node is a knowledge graph entity. Count tracks how often it has been
// mentioned.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// KnowledgeGraph is a small in-memory graph of entities and directed,
// labelled relations. Edges are deduplicated by their composite key.
type KnowledgeGraph struct {
	nodes map[string]*Node
	edges map[string]struct{}
}

// NewKnowledgeGraph returns an empty graph.
func NewKnowledgeGraph() *KnowledgeGraph {
	return &KnowledgeGraph{
		nodes: make(map[string]*Node),
		edges: make(map[string]struct{}),
	}
}

func (g *KnowledgeGraph) normalize() {
	if g.nodes == nil {
		g.nodes = make(map[string]*Node)
	}
	if g.edges == nil {
		g.edges = make(map[string]struct{})
	}
}

// AddNode inserts an entity, or bumps its mention count if it already exists.
// A node typed "thing" is upgraded when a more specific type shows up later.
func (g *KnowledgeGraph) AddNode(id, label, nodeType string) {
	nodeID := NormalizeEntityID(id)
	if nodeID == "" {
		return
	}
	if existing, ok := g.nodes[nodeID]; ok {
		existing.Count++
		if t := NormalizeEntityID(nodeType); t != "" && t != "thing" && existing.Type == "thing" {
			existing.Type = t
		}
		return
	}
	g.nodes[nodeID] = &Node{ID: nodeID, Label: label, Type: NormalizeEntityID(nodeType), Count: 1}
}

// AddEdge inserts a directed labelled relation; repeats are no-ops.
func (g *KnowledgeGraph) AddEdge(sourceID, targetID, relation string) {
	key := NormalizeEntityID(sourceID) + "_" + NormalizeEntityID(relation) + "_" + NormalizeEntityID(targetID)
	g.edges[key] = struct{}{}
}

// Node returns the node for a raw or normalized ID, or nil.
func (g *KnowledgeGraph) Node(id string) *Node {
	return g.nodes[NormalizeEntityID(id)]
}

// NodeCount returns the number of distinct entities.
func (g *KnowledgeGraph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct relations.
func (g *KnowledgeGraph) EdgeCount() int { return len(g.edges) }

// EdgesFrom returns the edge keys whose source is the given entity, sorted
// for stable output.
func (g *KnowledgeGraph) EdgesFrom(sourceID string) []string {
	prefix := NormalizeEntityID(sourceID) + "_"
	var keys []string
	for key := range g.edges {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

var knownRelations = []string{"likes", "dislikes", "is_a"}

// SplitEdgeKey decomposes an edge key into source, relation and target. The
// source must be a known node ID; the relation is matched against the
// vocabulary the extractors emit, so underscore-joined targets parse cleanly.
func (g *KnowledgeGraph) SplitEdgeKey(key string) (source, relation, target string, ok bool) {
	best := ""
	for id := range g.nodes {
		if strings.HasPrefix(key, id+"_") && len(id) > len(best) {
			best = id
		}
	}
	if best == "" {
		return "", "", "", false
	}
	rest := key[len(best)+1:]

	if after, found := strings.CutPrefix(rest, "has_favorite_"); found {
		idx := strings.Index(after, "_")
		if idx < 0 {
			return "", "", "", false
		}
		return best, "has_favorite_" + after[:idx], after[idx+1:], true
	}
	for _, rel := range knownRelations {
		if after, found := strings.CutPrefix(rest, rel+"_"); found {
			return best, rel, after, true
		}
	}
	idx := strings.Index(rest, "_")
	if idx < 0 {
		return "", "", "", false
	}
	return best, rest[:idx], rest[idx+1:], true
}

type graphDocument struct {
	Nodes []*Node  `json:"nodes"`
	Edges []string `json:"edges"`
}

// MarshalJSON serializes the graph as a node list plus edge-key list.
func (g *KnowledgeGraph) MarshalJSON() ([]byte, error) {
	doc := graphDocument{Nodes: make([]*Node, 0, len(g.nodes)), Edges: make([]string, 0, len(g.edges))}
	for _, n := range g.nodes {
		doc.Nodes = append(doc.Nodes, n)
	}
	sort.Slice(doc.Nodes, func(i, j int) bool { return doc.Nodes[i].ID < doc.Nodes[j].ID })
	for key := range g.edges {
		doc.Edges = append(doc.Edges, key)
	}
	sort.Strings(doc.Edges)
	return json.Marshal(doc)
}

// UnmarshalJSON restores a graph serialized by MarshalJSON.
func (g *KnowledgeGraph) UnmarshalJSON(data []byte) error {
	var doc graphDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	g.nodes = make(map[string]*Node, len(doc.Nodes))
	g.edges = make(map[string]struct{}, len(doc.Edges))
	for _, n := range doc.Nodes {
		if n != nil && n.ID != "" {
			g.nodes[n.ID] = n
		}
	}
	for _, key := range doc.Edges {
		g.edges[key] = struct{}{}
	}
	return nil
}
