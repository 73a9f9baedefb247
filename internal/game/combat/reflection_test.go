package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/actreflect/internal/game/battlelog"
	"github.com/udisondev/actreflect/internal/game/reflection"
	"github.com/udisondev/actreflect/internal/model"
)

func newReflectTarget(t *testing.T, notes ...string) *model.Battler {
	t.Helper()
	b := model.NewBattler("Slime", &model.Entry{Kind: model.EntryEnemy, ID: 1, Name: "Slime"})
	for i, n := range notes {
		b.AddState(&model.Entry{Kind: model.EntryState, ID: i + 1, Note: n})
	}
	return b
}

func TestReflectChance(t *testing.T) {
	user := model.NewBattler("Eric", nil)
	fire := model.Action{Kind: model.ActionSkill, ID: 10, Name: "Fire", TypeIDs: []int{1}, HitType: model.HitMagical}
	slash := model.Action{Kind: model.ActionSkill, ID: 11, Name: "Slash", TypeIDs: []int{2}, HitType: model.HitPhysical}

	tests := []struct {
		name          string
		notes         []string
		magicReflect  float64
		action        model.Action
		wantTotal     float64
		wantReflected bool
	}{
		{
			name:      "no tags no trait",
			action:    fire,
			wantTotal: 0,
		},
		{
			name:         "trait only",
			magicReflect: 0.2,
			action:       fire,
			wantTotal:    0.2,
		},
		{
			name:          "tags over trait",
			notes:         []string{"<SKILL REFLECT 10: +25%>", "<SKILL TYPE REFLECT 1: +5%>"},
			magicReflect:  0.2,
			action:        fire,
			wantTotal:     0.5,
			wantReflected: true,
		},
		{
			name:         "tags tie with trait",
			notes:        []string{"<SKILL REFLECT 10: +20%>"},
			magicReflect: 0.2,
			action:       fire,
			wantTotal:    0.4,
		},
		{
			name:          "physical action ignores magic trait",
			notes:         []string{"<SKILL TYPE REFLECT 2: 10%>"},
			magicReflect:  0.5,
			action:        slash,
			wantTotal:     0.1,
			wantReflected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := newReflectTarget(t, tt.notes...)
			target.SetMagicReflect(tt.magicReflect)

			r := NewReflection(reflection.NewResolver(nil), nil, nil)
			total, out := r.ReflectChance(user, target, tt.action)

			assert.InDelta(t, tt.wantTotal, total, 1e-9)
			assert.Equal(t, tt.wantReflected, out.Reflected)
		})
	}
}

func TestReflectChance_ReadsCurrentStates(t *testing.T) {
	user := model.NewBattler("Eric", nil)
	target := newReflectTarget(t)
	fire := model.Action{Kind: model.ActionSkill, ID: 10, Name: "Fire"}
	r := NewReflection(reflection.NewResolver(reflection.NewIndexCache(8)), nil, nil)

	total, _ := r.ReflectChance(user, target, fire)
	assert.Zero(t, total)

	target.AddState(&model.Entry{Kind: model.EntryState, ID: 7, Note: "<SKILL REFLECT 10: +40%>"})
	total, _ = r.ReflectChance(user, target, fire)
	assert.InDelta(t, 0.4, total, 1e-9)

	target.RemoveState(7)
	total, _ = r.ReflectChance(user, target, fire)
	assert.Zero(t, total)
}

func TestInvoke(t *testing.T) {
	user := model.NewBattler("Eric", nil)
	target := newReflectTarget(t, "<SKILL REFLECT 10: +30%>")
	fire := model.Action{Kind: model.ActionSkill, ID: 10, Name: "Fire"}

	tests := []struct {
		name          string
		roll          float64
		wantReflected bool
		wantLines     []string
	}{
		{name: "roll under chance", roll: 0.29, wantReflected: true, wantLines: []string{"Slime reflected the Fire!"}},
		{name: "roll at chance", roll: 0.30, wantLines: []string{}},
		{name: "roll over chance", roll: 0.9, wantLines: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := battlelog.New(nil, battlelog.Options{AnimatedBattle: true})
			r := NewReflection(reflection.NewResolver(nil), nil, log)
			r.SetRoll(func() float64 { return tt.roll })

			res := r.Invoke(user, target, fire)

			assert.Equal(t, tt.wantReflected, res.Reflected)
			assert.InDelta(t, 0.3, res.Chance, 1e-9)
			assert.True(t, res.Outcome.Reflected)
			assert.Equal(t, tt.wantLines, log.Lines())
		})
	}
}

func TestInvoke_CustomBase(t *testing.T) {
	user := model.NewBattler("Eric", nil)
	target := newReflectTarget(t, "<ITEM REFLECT 3: +10%>")
	bomb := model.Action{Kind: model.ActionItem, ID: 3, Name: "Bomb"}

	base := BaseChanceFunc(func(_, _ *model.Battler, _ model.Action) float64 { return 0.5 })
	r := NewReflection(reflection.NewResolver(nil), base, nil)
	r.SetRoll(func() float64 { return 0.55 })

	res := r.Invoke(user, target, bomb)

	assert.True(t, res.Reflected)
	assert.InDelta(t, 0.6, res.Chance, 1e-9)
	assert.False(t, res.Outcome.Reflected)
}

func TestReflectChance_StructuredRates(t *testing.T) {
	user := model.NewBattler("Eric", nil)
	target := newReflectTarget(t, "<SKILL REFLECT 10: +40%>")
	fire := model.Action{Kind: model.ActionSkill, ID: 10, Name: "Fire", TypeIDs: []int{1}}

	r := NewReflection(reflection.NewResolver(nil), nil, nil)
	r.SetRates(func(*model.Battler) reflection.Rates {
		return reflection.Records{{Category: reflection.CategorySkillType, ID: 1, Percent: 15}}
	})

	total, out := r.ReflectChance(user, target, fire)
	assert.InDelta(t, 0.15, total, 1e-9)
	assert.True(t, out.Reflected)

	r.SetRates(nil)
	total, _ = r.ReflectChance(user, target, fire)
	assert.InDelta(t, 0.40, total, 1e-9)
}
