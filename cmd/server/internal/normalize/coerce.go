package normalize

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// asMap 将解码后的值视为对象。除 map[string]any 外还接受 bson.M 这类
// 底层为 map 的命名类型,键必须是字符串。
func asMap(v any) (map[string]any, bool) {
	if v == nil {
		return nil, false
	}
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// asList 将解码后的值视为数组,同样兼容 bson.A 这类命名切片类型。
func asList(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if l, ok := v.([]any); ok {
		return l, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// firstPresent 按给定优先级返回第一个存在且非 nil 的键值。
func firstPresent(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// stringField 按优先级取第一个非空字符串字段。
func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// intField 按优先级取第一个可转为整数的字段。JSON 解码出的 float64、
// BSON 的 int32/int64、以及 "4 weeks" 这类带前导数字的字符串都接受;
// 全部缺失时返回 def。
func intField(m map[string]any, def int, keys ...string) int {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if n, ok := toInt(v); ok {
			return n
		}
	}
	return def
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case float32:
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil {
			return int(f), true
		}
	case string:
		return leadingInt(n)
	}
	return 0, false
}

// leadingInt 从 "6 weeks"、"4-6 weeks" 这类描述串中提取前导整数。
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// listField 按优先级取第一个非空列表字段。
func listField(m map[string]any, keys ...string) []any {
	for _, k := range keys {
		if l, ok := asList(m[k]); ok && len(l) > 0 {
			return l
		}
	}
	return nil
}

// stringListField 取字符串列表字段,非字符串元素被丢弃。
func stringListField(m map[string]any, keys ...string) []string {
	raw := listField(m, keys...)
	if len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// timeField 取时间字段,接受 time.Time、实现 Time() 的 BSON 日期类型、
// 以及 RFC3339 字符串。
func timeField(m map[string]any, keys ...string) (time.Time, bool) {
	for _, k := range keys {
		switch v := m[k].(type) {
		case time.Time:
			return v, true
		case interface{ Time() time.Time }:
			return v.Time(), true
		case string:
			if ts, err := time.Parse(time.RFC3339, v); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}
