package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/actreflect/internal/game/reflection"
	"github.com/udisondev/actreflect/internal/model"
)

func writeTestData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"enemies.yaml": "- id: 1\n  name: Slime\n  note: \"<SKILL REFLECT 10: +25%>\"\n",
		"states.yaml": "- id: 4\n  name: Mirror\n  note: \"<SKILL TYPE REFLECT 1: +5%> <SPELL REFLECT 1: 5%>\"\n" +
			"- id: 5\n  name: Perfect Mirror\n  note: \"<SKILL REFLECT 10: +100%>\"\n",
		"skills.yaml": "- id: 10\n  name: Fire\n  type_ids: [1]\n  hit_type: magical\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

// execute runs the root command with a config file holding configBody
// (empty body: no config file).
func execute(t *testing.T, configBody string, args ...string) (string, error) {
	t.Helper()
	resolveFlags = resolveOptions{source: sourceNotes}

	path := filepath.Join(t.TempDir(), "actreflect.yaml")
	if configBody != "" {
		require.NoError(t, os.WriteFile(path, []byte(configBody), 0o644))
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"--config", path}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

type fakeTraitStore struct {
	records reflection.Records
	got     []*model.Entry
	closed  bool
}

func (f *fakeTraitStore) LoadForEntries(_ context.Context, entries []*model.Entry) (reflection.Records, error) {
	f.got = entries
	return f.records, nil
}

func useFakeTraitStore(t *testing.T, records reflection.Records) *fakeTraitStore {
	t.Helper()
	store := &fakeTraitStore{records: records}
	prev := openTraitStore
	openTraitStore = func(context.Context) (traitLoader, func(), error) {
		return store, func() { store.closed = true }, nil
	}
	t.Cleanup(func() { openTraitStore = prev })
	return store
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "", "validate", "--data", writeTestData(t))
	require.NoError(t, err)

	assert.Contains(t, out, "state 4: unknown-category: <SPELL REFLECT 1: 5%>")
	assert.Contains(t, out, "1 issues")
}

func TestValidateCommand_Strict(t *testing.T) {
	_, err := execute(t, "strict_tags: true\n", "validate", "--data", writeTestData(t))
	assert.Error(t, err)
}

func TestResolveCommand(t *testing.T) {
	out, err := execute(t, "", "resolve", "--data", writeTestData(t), "--enemy", "1", "--state", "4", "--skill", "10")
	require.NoError(t, err)

	assert.Contains(t, out, "target=Slime action=Fire base=0.00 contribution=0.30 total=0.30 reflected=true")
	assert.NotContains(t, out, "roll:")
}

func TestResolveCommand_Roll(t *testing.T) {
	tests := []struct {
		name      string
		config    string
		wantLine  string
		wantShown bool
	}{
		{
			name:      "animated battle keeps the configured message",
			config:    "animated_battle: true\nreflection_message: \"%s bounced the %s!\"\n",
			wantLine:  "Slime bounced the Fire!",
			wantShown: true,
		},
		{
			name:     "default battle log backs the message out",
			wantLine: "Slime reflected the Fire!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// +125% total: the roll always reflects
			out, err := execute(t, tt.config, "resolve", "--data", writeTestData(t), "--enemy", "1", "--state", "5", "--skill", "10", "--roll")
			require.NoError(t, err)

			assert.Contains(t, out, "roll: reflected=true chance=1.25")
			if tt.wantShown {
				assert.Contains(t, out, tt.wantLine)
			} else {
				assert.NotContains(t, out, tt.wantLine)
			}
		})
	}
}

func TestResolveCommand_Sources(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{source: "db", want: "contribution=0.40 total=0.40 reflected=true"},
		{source: "both", want: "contribution=0.65 total=0.65 reflected=true"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			store := useFakeTraitStore(t, reflection.Records{
				{Category: reflection.CategorySkillType, ID: 1, Percent: 40},
			})

			out, err := execute(t, "", "resolve", "--data", writeTestData(t), "--enemy", "1", "--skill", "10", "--source", tt.source)
			require.NoError(t, err)

			assert.Contains(t, out, tt.want)
			require.Len(t, store.got, 1)
			assert.Equal(t, model.EntryEnemy, store.got[0].Kind)
			assert.True(t, store.closed)
		})
	}
}

func TestResolveCommand_UnknownSource(t *testing.T) {
	_, err := execute(t, "", "resolve", "--data", writeTestData(t), "--enemy", "1", "--skill", "10", "--source", "cloud")
	assert.Error(t, err)
}
