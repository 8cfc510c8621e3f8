package hud

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pixil98/go-testutil"
	"golang.org/x/text/language"

	"github.com/wrongway/engine/internal/world"
)

func TestClock(t *testing.T) {
	tests := map[string]struct {
		d   time.Duration
		exp string
	}{
		"zero":      {d: 0, exp: "0:00"},
		"truncates": {d: 9*time.Second + 999*time.Millisecond, exp: "0:09"},
		"minute":    {d: 65 * time.Second, exp: "1:05"},
		"long":      {d: 12*time.Minute + 3*time.Second, exp: "12:03"},
		"negative":  {d: -time.Second, exp: "0:00"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "clock", Clock(tt.d), tt.exp)
		})
	}
}

func TestFormat(t *testing.T) {
	tests := map[string]struct {
		status    Status
		tag       language.Tag
		expTime   string
		expLane   string
		expPrompt string
	}{
		"english playing": {
			status:  Status{State: world.Playing, Survival: 65 * time.Second, Lane: 1},
			tag:     language.English,
			expTime: "Time 1:05",
			expLane: "Lane: Center",
		},
		"english ended": {
			status:    Status{State: world.Ended, Survival: 3 * time.Second, Lane: 0},
			tag:       language.English,
			expTime:   "Time 0:03",
			expLane:   "Lane: Left",
			expPrompt: "Crashed! Press R to restart",
		},
		"chinese ready": {
			status:    Status{State: world.Ready, Lane: 2},
			tag:       language.TraditionalChinese,
			expTime:   "時間 0:00",
			expLane:   "車道：右",
			expPrompt: "按 Enter 開始",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			line := Format(tt.status, tt.tag)
			testutil.AssertEqual(t, "time", line.Time, tt.expTime)
			testutil.AssertEqual(t, "lane", line.Lane, tt.expLane)
			testutil.AssertEqual(t, "prompt", line.Prompt, tt.expPrompt)
		})
	}
}

func TestMatch(t *testing.T) {
	tagCmp := cmpopts.EquateComparable(language.Tag{})
	testutil.AssertEqual(t, "taiwan", Match("zh-TW"), language.TraditionalChinese, tagCmp)
	testutil.AssertEqual(t, "us english", Match("en-US"), language.English, tagCmp)
	testutil.AssertEqual(t, "empty", Match(""), language.English, tagCmp)
	testutil.AssertEqual(t, "unsupported", Match("fr"), language.English, tagCmp)
}

func TestLine_String(t *testing.T) {
	l := Line{Time: "Time 0:01", Lane: "Lane: Left"}
	testutil.AssertEqual(t, "playing", l.String(), "Time 0:01  Lane: Left")
	l.Prompt = "Press Enter to start"
	testutil.AssertEqual(t, "with prompt", l.String(), "Time 0:01  Lane: Left  Press Enter to start")
}
