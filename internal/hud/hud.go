// Package hud turns the engine's HUD status into display strings. Labels are
// localized through an x/text message catalog (English and Traditional
// Chinese).
package hud

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/wrongway/engine/internal/world"
)

// Status is the minimal UI view of a session.
type Status struct {
	State    world.GameState
	Survival time.Duration
	Lane     int
}

// Line is a rendered HUD.
type Line struct {
	Time   string // "Time 1:05"
	Lane   string // "Lane: Center"
	Prompt string // state-dependent hint, empty while playing
}

func (l Line) String() string {
	if l.Prompt == "" {
		return l.Time + "  " + l.Lane
	}
	return l.Time + "  " + l.Lane + "  " + l.Prompt
}

var supported = []language.Tag{
	language.English,
	language.TraditionalChinese,
}

var matcher = language.NewMatcher(supported)

var messages = map[language.Tag]map[string]string{
	language.English: {
		"time":        "Time %s",
		"lane":        "Lane: %s",
		"lane.0":      "Left",
		"lane.1":      "Center",
		"lane.2":      "Right",
		"prompt.wait": "Press Enter to start",
		"prompt.over": "Crashed! Press R to restart",
	},
	language.TraditionalChinese: {
		"time":        "時間 %s",
		"lane":        "車道：%s",
		"lane.0":      "左",
		"lane.1":      "中",
		"lane.2":      "右",
		"prompt.wait": "按 Enter 開始",
		"prompt.over": "撞車了！按 R 重新開始",
	},
}

var cat = buildCatalog()

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range messages {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(fmt.Sprintf("hud catalog %s/%s: %v", tag, key, err))
			}
		}
	}
	return b
}

// Match resolves a user language preference ("zh-TW", "en-US", "") to a
// supported tag. Unknown languages fall back to English.
func Match(pref string) language.Tag {
	_, i, _ := matcher.Match(language.Make(pref))
	return supported[i]
}

// Format renders a status in the given language.
func Format(s Status, tag language.Tag) Line {
	p := message.NewPrinter(tag, message.Catalog(cat))
	line := Line{
		Time: p.Sprintf("time", Clock(s.Survival)),
		Lane: p.Sprintf("lane", p.Sprintf(fmt.Sprintf("lane.%d", s.Lane))),
	}
	switch s.State {
	case world.Ready:
		line.Prompt = p.Sprintf("prompt.wait")
	case world.Ended:
		line.Prompt = p.Sprintf("prompt.over")
	}
	return line
}

// Clock formats a duration as m:ss, truncating fractions of a second.
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	sec := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}
