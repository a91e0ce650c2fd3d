package algo

import "strings"

// TokenSimilarityScore 两个单词的相似度
//
// 把较短的 a 依次对齐到 b 的每个起始位置，逐字符比较：
// 孤立的命中记 0.5，紧跟在命中之后的记 1.0；b 中每个位置只在第一次被命中时计分。
// 某个对齐位置累计不超过 2.0 时不计入，否则计入 累计值/len(a)。
// 最终结果乘以 len(a)/len(b)，长度差越大分数越低。
// 按字节比较，不做大小写转换。
func TokenSimilarityScore(a, b string) float64 {
	if len(a) > len(b) || (len(a) == len(b) && a > b) {
		a, b = b, a
	}
	if a == b {
		return 1.0
	}
	if len(a) == 0 {
		return 0
	}

	used := make([]bool, len(b))
	score := 0.0
	for i := range len(b) {
		correctness := 0.0
		lastCorrect := false
		for j := range len(a) {
			k := i + j
			if k < len(b) && a[j] == b[k] {
				if !used[k] {
					if lastCorrect {
						correctness += 1.0
					} else {
						correctness += 0.5
					}
				}
				used[k] = true
				lastCorrect = true
			} else {
				lastCorrect = false
			}
		}
		if correctness <= 2.0 {
			continue
		}
		score += correctness / float64(len(a))
	}

	return score * float64(len(a)) / float64(len(b))
}

// PhraseSimilarityScore 两个短语的相似度
// 转小写 (仅 ASCII) 后按空白切分，对所有单词两两求 TokenSimilarityScore 并累加。
// 不做长度归一化，只适合在一小组候选之间排序。
func PhraseSimilarityScore(p1, p2 string) float64 {
	t1 := tokenize(p1)
	t2 := tokenize(p2)

	score := 0.0
	for _, a := range t1 {
		for _, b := range t2 {
			score += TokenSimilarityScore(a, b)
		}
	}
	return score
}

func tokenize(phrase string) []string {
	return strings.FieldsFunc(asciiLower(phrase), isASCIISpace)
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
