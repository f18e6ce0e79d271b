package layout

import "strings"

// Wrap 将文本按宽度预算折行，使用贪心算法：
//   - 先按显式 \n 切分段落，空段落保留为一个空行（保持作者的留白意图）；
//   - 段落内按空格分词，只要 measure(当前行 + " " + 词) <= maxWidth 就继续累积；
//   - 单个词本身超宽时回落到逐字符累积（不做连字），保证推进、避免死循环。
// 保证返回至少一行：空输入得到 [""]。给定确定性的 measure，结果完全可复现。
func Wrap(text string, maxWidth float64, measure Measurer) []string {
	if measure == nil {
		measure = approxMeasurer(0)
	}
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(paragraph, maxWidth, measure)...)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

func wrapParagraph(paragraph string, maxWidth float64, measure Measurer) []string {
	words := strings.Split(paragraph, " ")
	var lines []string
	current := ""
	flush := func() {
		lines = append(lines, current)
		current = ""
	}

	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if measure.TextWidth(candidate) <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			flush()
		}
		// 词单独放一行仍超宽时逐字符切分
		if measure.TextWidth(word) > maxWidth {
			rest := splitWordByWidth(word, maxWidth, measure)
			lines = append(lines, rest[:len(rest)-1]...)
			current = rest[len(rest)-1]
			continue
		}
		current = word
	}
	flush()
	return lines
}

// splitWordByWidth 将超宽的单词切成若干片段，每段的测量宽度不超过 maxWidth
//（单个不可再分的字符除外）。返回至少一个片段。
func splitWordByWidth(word string, maxWidth float64, measure Measurer) []string {
	var parts []string
	var chunk []rune
	for _, r := range word {
		chunk = append(chunk, r)
		if measure.TextWidth(string(chunk)) > maxWidth && len(chunk) > 1 {
			parts = append(parts, string(chunk[:len(chunk)-1]))
			chunk = []rune{r}
		}
	}
	parts = append(parts, string(chunk))
	return parts
}
