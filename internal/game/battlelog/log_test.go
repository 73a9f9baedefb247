package battlelog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/actreflect/internal/game/reflection"
	"github.com/udisondev/actreflect/internal/model"
)

type countingCue struct{ n int }

func (c *countingCue) PlayReflection() { c.n++ }

func TestDisplayReflection(t *testing.T) {
	target := model.NewBattler("Slime", nil)
	fire := model.Action{Kind: model.ActionSkill, ID: 10, Name: "Fire"}

	tests := []struct {
		name      string
		opts      Options
		outcome   reflection.Outcome
		wantLines []string
	}{
		{
			name:      "tag reflection backs one",
			outcome:   reflection.Outcome{Contribution: 0.3, Reflected: true},
			wantLines: []string{"start"},
		},
		{
			name:      "tag reflection kept in animated battle",
			opts:      Options{AnimatedBattle: true},
			outcome:   reflection.Outcome{Contribution: 0.3, Reflected: true},
			wantLines: []string{"start", "Slime reflected the Fire!"},
		},
		{
			name:      "custom message",
			opts:      Options{AnimatedBattle: true, ActionReflection: "%s bounced %s back"},
			outcome:   reflection.Outcome{Contribution: 0.3, Reflected: true},
			wantLines: []string{"start", "Slime bounced Fire back"},
		},
		{
			name:      "engine path in animated battle still backs one",
			opts:      Options{AnimatedBattle: true},
			outcome:   reflection.Outcome{Contribution: 0.1, Base: 0.5},
			wantLines: []string{"start"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cue := &countingCue{}
			l := New(cue, tt.opts)
			l.AddText("start")

			l.DisplayReflection(target, fire, tt.outcome)

			assert.Equal(t, 1, cue.n)
			assert.Equal(t, 1, l.Waits())
			assert.Equal(t, tt.wantLines, l.Lines())
		})
	}
}

func TestDisplayReflection_EngineMessage(t *testing.T) {
	target := model.NewBattler("Slime", nil)
	l := New(nil, Options{})

	l.DisplayReflection(target, model.Action{Name: "Fire"}, reflection.Outcome{})

	assert.Empty(t, l.Lines())
	assert.Equal(t, DefaultMagicReflection, l.opts.MagicReflection)
	assert.Equal(t, DefaultActionReflection, l.opts.ActionReflection)
}

func TestBackOne_Empty(t *testing.T) {
	l := New(nil, Options{})
	l.BackOne()
	assert.Empty(t, l.Lines())
}
