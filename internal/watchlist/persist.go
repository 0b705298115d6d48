// Package watchlist 维护用户的自选物品列表及其持久化。
package watchlist

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// encodeOrdered 把自选列表序列化为保序的 JSON 对象
// 形如 {"Old school bond": 13190, ...}，键顺序即列表顺序。
// encoding/json 的 map 不保序，这里手工构造对象文本，名称仍走标准转义。
func encodeOrdered(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, e := range entries {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n    ")
		name, err := json.Marshal(e.Name)
		if err != nil {
			return nil, fmt.Errorf("序列化名称失败: %w", err)
		}
		buf.Write(name)
		fmt.Fprintf(&buf, ": %d", e.ID)
	}
	if len(entries) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}")
	return buf.Bytes(), nil
}

// decodeOrdered 从 JSON 对象解析自选列表，保留键出现顺序
// 使用 token 流解码，绕过 map 的无序性。
func decodeOrdered(data []byte) ([]Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("读取 JSON 失败: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("自选列表文件不是 JSON 对象")
	}

	var entries []Entry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("读取名称失败: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("名称不是字符串: %v", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("读取 id 失败: %w", err)
		}
		num, ok := valTok.(json.Number)
		if !ok {
			return nil, fmt.Errorf("物品 '%s' 的 id 不是数字: %v", name, valTok)
		}
		id, err := num.Int64()
		if err != nil {
			return nil, fmt.Errorf("物品 '%s' 的 id 不是整数: %w", name, err)
		}

		entries = append(entries, Entry{Name: name, ID: int(id)})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("读取 JSON 结束符失败: %w", err)
	}

	return entries, nil
}
