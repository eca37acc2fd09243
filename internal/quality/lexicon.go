package quality

// Sentiment lexicons. Entries are lower-case and may span several words;
// they are matched on whole-word boundaries after punctuation is stripped.
var (
	positiveLexicon = []string{
		// en
		"calm", "peace", "peaceful", "gentle", "hope", "hopeful", "joy",
		"grateful", "gratitude", "kind", "kindness", "love", "safe", "strong",
		"strength", "relax", "relaxed", "rest", "happy", "confident", "courage",
		"support", "comfort", "healing", "growth", "balance", "well",
		// vi
		"bình an", "bình tĩnh", "nhẹ nhàng", "hy vọng", "niềm vui", "biết ơn",
		"yêu thương", "an toàn", "mạnh mẽ", "thư giãn", "hạnh phúc", "tự tin",
		"can đảm", "hỗ trợ", "chữa lành", "cân bằng", "vui vẻ",
	}

	negativeLexicon = []string{
		// en
		"sad", "angry", "afraid", "fear", "pain", "hurt", "lonely", "tired",
		"worry", "worried", "stress", "stressed", "anxious", "fail", "failure",
		"bad", "hate", "guilt", "shame", "broken", "empty", "struggle",
		// vi
		"buồn", "tức giận", "sợ hãi", "đau đớn", "cô đơn", "mệt mỏi", "lo lắng",
		"căng thẳng", "thất bại", "ghét", "tội lỗi", "xấu hổ", "trống rỗng",
	}
)
