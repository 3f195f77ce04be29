package sentiment

// Fixed polarity lexicons. Scoring uses substring containment on the full
// lowercased text, so a lexicon term inside a longer word still counts; this
// is deliberate and matches the scorer's documented crudeness.
var positiveWords = []string{
	"good", "great", "excellent", "amazing", "wonderful", "happy", "love", "like",
	"enjoy", "fun", "awesome", "cool", "nice", "sweet", "kind", "beautiful",
	"pretty", "cute", "fantastic", "fabulous", "superb", "perfect", "glad",
	"pleased", "thrilled", "excited", "grateful", "appreciate", "thank", "brilliant",
	"charming", "delightful", "encouraging", "hopeful", "positive", "supportive",
	"yes", "yeah", "yep", "yay", "woohoo", "hooray",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "horrible", "sad", "upset", "angry", "hate",
	"dislike", "boring", "stupid", "ugly", "mean", "rude", "annoying",
	"frustrating", "lame", "sucks", "crap", "damn", "hell", "irritating",
	"pathetic", "worthless", "cry", "lonely", "fear", "anxious", "worried",
	"depressed", "miserable", "pain", "hurt", "no", "nope", "disappointed",
	"offensive", "negative",
}

var positiveSet = toSet(positiveWords)
var negativeSet = toSet(negativeWords)

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
