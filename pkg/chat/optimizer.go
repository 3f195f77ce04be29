package chat

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/yui-chat/yui-go/pkg/nlp"
	"github.com/yui-chat/yui-go/pkg/prompts"
	"github.com/yui-chat/yui-go/pkg/relationship"
)

const (
	recentWindow      = 10
	maxChunkTurns     = 5
	chunkSplitCutoff  = 0.3
	maxRelevantChunks = 10
	historyBudget     = 15
	summaryGap        = 3
)

const (
	patPersonalInfo       = "(favorite|like|love|prefer|my) (#Noun|#Adjective)"
	patChunkEmotion       = "#Emotion"
	patRelationshipWords  = "(friend|trust|relationship|close|care|feel)"
	patPruneSelfDisclose  = "(i|me|my|mine) (#Adverb|#Adjective)? (#Verb|am|was|have|had) [0-5] (#Noun|#Adjective)"
	patPruneEmotionalWord = "(happy|sad|angry|excited|nervous|scared|worried|calm|relaxed)"
	patPrunePlans         = "(tomorrow|next|later|weekend|soon|plan|schedule|meet|date)"
)

// chunk is a run of topically related consecutive turns.
type chunk struct {
	turns      []Turn
	topics     []string
	importance int
}

// Optimizer compresses unbounded history into a bounded model context by
// semantic chunking.
type Optimizer struct {
	parser *nlp.Parser
	logger *log.Logger
}

func NewOptimizer(parser *nlp.Parser, logger *log.Logger) *Optimizer {
	return &Optimizer{parser: parser, logger: logger}
}

// Optimize selects the turns sent to the model: short histories pass through
// untouched; longer ones keep the recent window plus the most relevant
// semantic chunks of the older conversation, within a fixed turn budget.
func (o *Optimizer) Optimize(turns []Turn, state *relationship.State) []Turn {
	if len(turns) <= recentWindow {
		return turns
	}

	recent := turns[len(turns)-recentWindow:]
	older := turns[:len(turns)-recentWindow]

	chunks := o.buildChunks(older, state)
	relevant := o.relevantChunks(chunks, recent)

	selected := relevant
	total := recent
	if chunkTurnCount(relevant)+len(recent) > historyBudget {
		// The truncation pass ranks by raw importance, not the relevance
		// score used for selection above. Kept as-is: see the matching note
		// in the optimizer tests.
		byImportance := make([]chunk, len(relevant))
		copy(byImportance, relevant)
		sort.SliceStable(byImportance, func(i, j int) bool {
			return byImportance[i].importance < byImportance[j].importance
		})

		budget := historyBudget - len(recent) - 1
		selected = selected[:0]
		used := 0
		for _, c := range byImportance {
			if used+len(c.turns) > budget {
				break
			}
			selected = append(selected, c)
			used += len(c.turns)
		}

		if len(relevant) > len(selected)+summaryGap {
			if summary, err := o.summaryTurn(state); err == nil {
				total = append([]Turn{summary}, flattenChunks(selected)...)
				total = append(total, recent...)
				return total
			} else {
				o.logger.Error("building context summary failed", "error", err)
			}
		}
	}

	out := flattenChunks(selected)
	out = append(out, recent...)
	return out
}

// buildChunks groups consecutive turns while they stay on topic: a chunk ends
// when similarity drops to the cutoff or it reaches five turns.
func (o *Optimizer) buildChunks(turns []Turn, state *relationship.State) []chunk {
	if len(turns) == 0 {
		return nil
	}

	var chunks []chunk
	current := []Turn{turns[0]}
	topics := o.parser.Parse(turns[0].Text).ExtractTopics()

	for _, turn := range turns[1:] {
		turnTopics := o.parser.Parse(turn.Text).ExtractTopics()
		similarity := nlp.TopicSimilarity(topics, turnTopics)

		if similarity > chunkSplitCutoff && len(current) < maxChunkTurns {
			current = append(current, turn)
			topics = nlp.MergeTopics(topics, turnTopics)
			continue
		}
		chunks = append(chunks, chunk{
			turns:      current,
			topics:     topics,
			importance: o.chunkImportance(current, topics, state),
		})
		current = []Turn{turn}
		topics = turnTopics
	}
	chunks = append(chunks, chunk{
		turns:      current,
		topics:     topics,
		importance: o.chunkImportance(current, topics, state),
	})
	return chunks
}

func (o *Optimizer) chunkImportance(turns []Turn, topics []string, state *relationship.State) int {
	score := 0
	for _, turn := range turns {
		doc := o.parser.Parse(turn.Text)
		if doc.Has(patPersonalInfo) {
			score += 5
		}
		if doc.Has(patChunkEmotion) {
			score += 3
		}
		if doc.IsQuestion() {
			score += 2
		}
		if doc.Has(patRelationshipWords) {
			score += 4
		}
		if mentionsPreference(turn.Text, state) {
			score += 5
		}
	}
	score += min(5, len(topics))
	return score
}

// relevantChunks keeps the chunks most topically continuous with the recent
// window, weighting similarity heavily over raw importance.
func (o *Optimizer) relevantChunks(chunks []chunk, recent []Turn) []chunk {
	if len(chunks) == 0 {
		return nil
	}

	var recentTopics []string
	for _, turn := range recent {
		recentTopics = nlp.MergeTopics(recentTopics, o.parser.Parse(turn.Text).ExtractTopics())
	}

	type scored struct {
		chunk     chunk
		relevance float64
	}
	scoredChunks := lo.Map(chunks, func(c chunk, _ int) scored {
		similarity := nlp.TopicSimilarity(c.topics, recentTopics)
		return scored{chunk: c, relevance: float64(c.importance) * (1 + similarity*2)}
	})
	sort.SliceStable(scoredChunks, func(i, j int) bool {
		return scoredChunks[i].relevance > scoredChunks[j].relevance
	})
	if len(scoredChunks) > maxRelevantChunks {
		scoredChunks = scoredChunks[:maxRelevantChunks]
	}
	return lo.Map(scoredChunks, func(s scored, _ int) chunk { return s.chunk })
}

func (o *Optimizer) summaryTurn(state *relationship.State) (Turn, error) {
	text, err := prompts.BuildContextSummaryPrompt(prompts.NewContextSummaryPrompt(state))
	if err != nil {
		return Turn{}, err
	}
	return Turn{Role: RoleUser, Text: text}, nil
}

// Prune trims history that outgrew the cap: the most recent 30% of the cap
// survives intact, older turns compete on importance for the remaining slots.
func (o *Optimizer) Prune(h *History, state *relationship.State) {
	if h.Len() <= h.maxTurns {
		return
	}

	recentCount := h.maxTurns * 3 / 10
	recent := h.turns[len(h.turns)-recentCount:]
	older := h.turns[:len(h.turns)-recentCount]

	type scored struct {
		turn  Turn
		score int
	}
	var scoredTurns []scored
	for _, c := range o.buildChunks(older, state) {
		for _, turn := range c.turns {
			doc := o.parser.Parse(turn.Text)
			score := c.importance
			if doc.Has(patPruneSelfDisclose) {
				score += 3
			}
			if doc.Has(patPruneEmotionalWord) {
				score += 2
			}
			if doc.Has(patPrunePlans) {
				score += 3
			}
			scoredTurns = append(scoredTurns, scored{turn: turn, score: score})
		}
	}
	sort.SliceStable(scoredTurns, func(i, j int) bool {
		return scoredTurns[i].score > scoredTurns[j].score
	})

	remaining := h.maxTurns - recentCount
	if len(scoredTurns) > remaining {
		scoredTurns = scoredTurns[:remaining]
	}

	pruned := make([]Turn, 0, len(scoredTurns)+len(recent))
	for _, s := range scoredTurns {
		pruned = append(pruned, s.turn)
	}
	pruned = append(pruned, recent...)
	o.logger.Debug("pruned history", "before", h.Len(), "after", len(pruned))
	h.turns = pruned
}

func chunkTurnCount(chunks []chunk) int {
	total := 0
	for _, c := range chunks {
		total += len(c.turns)
	}
	return total
}

func flattenChunks(chunks []chunk) []Turn {
	var out []Turn
	for _, c := range chunks {
		out = append(out, c.turns...)
	}
	return out
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func mentionsPreference(text string, state *relationship.State) bool {
	for _, kv := range state.UserPreferences.Known() {
		if kv[1] != "" && containsFold(text, kv[1]) {
			return true
		}
	}
	return false
}
