// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import "strings"

// =============================================================================
// SIMULATED INPUT METHOD
// =============================================================================

// Terminals deliver input method output as already committed text, so the
// form simulates one: while it is on, typed letters become marked text and
// Enter or Space commits the candidate for the typed pinyin.

var candidates = map[string]string{
	"bei":      "北",
	"beijing":  "北京",
	"de":       "的",
	"feng":     "丰",
	"hao":      "好",
	"huang":    "黄",
	"jing":     "京",
	"li":       "李",
	"ni":       "你",
	"nihao":    "你好",
	"ren":      "人",
	"san":      "三",
	"shi":      "是",
	"wang":     "王",
	"wen":      "文",
	"zhang":    "张",
	"zhong":    "中",
	"zhongwen": "中文",
}

// Candidate returns the first candidate for pinyin, or "" when there is
// none (the typed text is committed as is).
func Candidate(pinyin string) string {
	return candidates[strings.ToLower(strings.TrimSpace(pinyin))]
}
