package services

// vectorStopwords is the vectoriser-level English stopword list, applied
// when clean sentences are tokenised for indexing. It is deliberately
// independent of the normaliser's own filtering; both layers apply.
var vectorStopwords = func() map[string]struct{} {
	words := []string{
		"a", "about", "above", "across", "after", "afterwards", "again",
		"against", "all", "almost", "alone", "along", "already", "also",
		"although", "always", "am", "among", "amongst", "an", "and",
		"another", "any", "anyhow", "anyone", "anything", "anyway",
		"anywhere", "are", "around", "as", "at", "back", "be", "became",
		"because", "become", "becomes", "becoming", "been", "before",
		"beforehand", "behind", "being", "below", "beside", "besides",
		"between", "beyond", "both", "bottom", "but", "by", "call", "can",
		"cannot", "could", "did", "do", "does", "doing", "done", "down",
		"due", "during", "each", "eg", "either", "else", "elsewhere",
		"enough", "etc", "even", "ever", "every", "everyone", "everything",
		"everywhere", "except", "few", "for", "former", "formerly", "from",
		"front", "full", "further", "get", "give", "go", "had", "has",
		"have", "having", "he", "hence", "her", "here", "hereafter",
		"hereby", "herein", "hereupon", "hers", "herself", "him", "himself",
		"his", "how", "however", "i", "ie", "if", "in", "indeed", "into",
		"is", "it", "its", "itself", "just", "keep", "last", "latter",
		"latterly", "least", "less", "many", "may", "me", "meanwhile",
		"might", "mine", "more", "moreover", "most", "mostly", "much",
		"must", "my", "myself", "namely", "neither", "never",
		"nevertheless", "next", "no", "nobody", "none", "nor", "not",
		"nothing", "now", "nowhere", "of", "off", "often", "on", "once",
		"one", "only", "onto", "or", "other", "others", "otherwise", "our",
		"ours", "ourselves", "out", "over", "own", "per", "perhaps",
		"please", "rather", "re", "same", "seem", "seemed", "seeming",
		"seems", "several", "she", "should", "since", "so", "some",
		"somehow", "someone", "something", "sometime", "sometimes",
		"somewhere", "still", "such", "than", "that", "the", "their",
		"them", "themselves", "then", "thence", "there", "thereafter",
		"thereby", "therefore", "therein", "thereupon", "these", "they",
		"this", "those", "though", "through", "throughout", "thru", "thus",
		"to", "together", "too", "top", "toward", "towards", "under",
		"until", "up", "upon", "us", "very", "via", "was", "we", "well",
		"were", "what", "whatever", "when", "whence", "whenever", "where",
		"whereafter", "whereas", "whereby", "wherein", "whereupon",
		"wherever", "whether", "which", "while", "whither", "who",
		"whoever", "whole", "whom", "whose", "why", "will", "with",
		"within", "without", "would", "yet", "you", "your", "yours",
		"yourself", "yourselves",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
