// Package binding 将文本中的 ${path.to.value} 占位符替换为 JSON 数据文档中的值，
// 用于同一设计的多语言文案：设计保持不变，文案由 -data 注入。
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 替换 text 中的全部占位符。支持 ${path|字面默认值}：
// 路径无法解析时使用竖线后的字面值；没有默认值时保留原占位符。
// data 为空时原样返回。
func Interpolate(text string, data any) string {
	if data == nil || !strings.Contains(text, "${") {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		expr := groups[1]
		path := expr
		fallback := ""
		hasFallback := false
		if i := strings.IndexByte(expr, '|'); i >= 0 {
			path = expr[:i]
			fallback = expr[i+1:]
			hasFallback = true
		}
		path = strings.TrimSpace(path)
		if path == "" {
			return match
		}
		if val, ok := lookup(data, path); ok {
			return fmt.Sprint(val)
		}
		if hasFallback {
			return fallback
		}
		return match
	})
}

// lookup 沿 a.b[2].c 形式的路径在解码后的 JSON 值中下钻。
func lookup(data any, path string) (any, bool) {
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes := splitIndexes(segment)
		if name != "" {
			obj, ok := current.(map[string]any)
			if !ok {
				return nil, false
			}
			if current, ok = obj[name]; !ok {
				return nil, false
			}
		}
		for _, idxStr := range indexes {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, false
			}
			arr, ok := current.([]any)
			if !ok || idx < 0 || idx >= len(arr) {
				return nil, false
			}
			current = arr[idx]
		}
	}
	return current, true
}

func splitIndexes(segment string) (string, []string) {
	i := strings.IndexByte(segment, '[')
	if i < 0 {
		return segment, nil
	}
	name := segment[:i]
	var indexes []string
	rest := segment[i:]
	for strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			break
		}
		indexes = append(indexes, rest[1:end])
		rest = rest[end+1:]
	}
	return name, indexes
}
