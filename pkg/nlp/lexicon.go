package nlp

// emotionWords tags terms the upstream tagger has no class for. Matched on the
// base form, so "feelings" hits "feeling".
var emotionWords = map[string]bool{
	"love": true, "happy": true, "sad": true, "angry": true, "scared": true,
	"excited": true, "nervous": true, "proud": true, "hurt": true, "lonely": true,
	"upset": true, "worried": true, "anxious": true, "depressed": true,
	"miserable": true, "afraid": true, "joyful": true, "thrilled": true,
	"elated": true, "glad": true, "fear": true, "hate": true, "jealous": true,
	"embarrassed": true, "ashamed": true, "grateful": true, "hopeful": true,
	"frustrated": true, "annoyed": true, "calm": true, "relaxed": true,
	"feeling": true, "terrified": true, "furious": true, "delighted": true,
}

var negationWords = map[string]bool{
	"not": true, "no": true, "never": true, "isnt": true, "dont": true,
	"wasnt": true, "werent": true, "cant": true, "couldnt": true,
	"wouldnt": true, "shouldnt": true, "wont": true, "didnt": true,
	"doesnt": true, "aint": true, "nothing": true, "neither": true,
}

// preferenceVerbs mark terms the topic extractor treats as preference signals.
var preferenceVerbs = map[string]bool{
	"favorite": true, "favourite": true, "like": true, "love": true, "prefer": true,
}

// colorWords backs the Color tag class.
var colorWords = map[string]bool{
	"red": true, "orange": true, "yellow": true, "green": true, "blue": true,
	"purple": true, "violet": true, "pink": true, "black": true, "white": true,
	"gray": true, "grey": true, "brown": true, "teal": true, "cyan": true,
	"magenta": true, "turquoise": true, "indigo": true, "maroon": true,
	"navy": true, "gold": true, "silver": true, "beige": true, "crimson": true,
	"lavender": true, "scarlet": true,
}
