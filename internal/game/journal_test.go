package game

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/appledash/internal/config"
	"github.com/vovakirdan/appledash/internal/core"
	"github.com/vovakirdan/appledash/internal/input"
	"github.com/vovakirdan/appledash/internal/storage"
)

// playScript drives a recorded arcade session: run right, jump a few times,
// back off, then run right again.
func playScript(t *testing.T, mode input.Mode) *Session {
	t.Helper()
	s, err := New(Options{
		Config:  config.DefaultConfig(),
		Runtime: core.RuntimeConfig{TickRate: 60, Seed: 99},
		Mode:    mode,
		Touch:   touchPad{},
		Record:  true,
	})
	require.NoError(t, err)

	for tick := 0; tick < 1200; tick++ {
		switch mode {
		case input.ModeKeyboard:
			switch {
			case tick%10 == 0 && tick < 700:
				s.Push(input.Press(input.KeyRight))
			case tick == 700:
				s.Push(input.Press(input.KeyLeft))
			case tick > 800 && tick%10 == 0:
				s.Push(input.Press(input.KeyRight))
			}
			if tick%90 == 45 {
				s.Push(input.Press(input.KeySpace))
			}
		case input.ModeTouch:
			switch tick {
			case 30:
				s.Push(input.Touch(input.ButtonRight))
			case 600:
				s.Push(input.Untouch(input.ButtonRight))
				s.Push(input.Touch(input.ButtonLeft))
			case 700:
				s.Push(input.Untouch(input.ButtonLeft))
				s.Push(input.Touch(input.ButtonRight))
			}
			if tick%75 == 0 {
				s.Push(input.Touch(input.ButtonJump))
			}
		}
		s.Step()
	}
	return s
}

func TestReplayReproducesRun(t *testing.T) {
	for _, mode := range []input.Mode{input.ModeKeyboard, input.ModeTouch} {
		t.Run(mode.String(), func(t *testing.T) {
			live := playScript(t, mode)
			j, ok := live.Journal()
			require.True(t, ok)
			assert.Equal(t, uint64(1200), j.Ticks)
			assert.NotEmpty(t, j.Events)

			replayed, err := Replay(j, Options{})
			require.NoError(t, err)

			want, got := live.Snapshot(), replayed.Snapshot()
			assert.Equal(t, want.Tick, got.Tick)
			assert.Equal(t, want.Player, got.Player)
			assert.Equal(t, want.Pickups, got.Pickups)
			assert.Equal(t, want.Score, got.Score)
			assert.Greater(t, want.Score, 0, "the script collects apples")
		})
	}
}

func TestJournalStorageRoundTrip(t *testing.T) {
	live := playScript(t, input.ModeKeyboard)
	j, ok := live.Journal()
	require.True(t, ok)

	run, err := ToRun(j)
	require.NoError(t, err)
	assert.Equal(t, "keyboard", run.Mode)
	assert.Equal(t, "arcade", run.Engine)
	assert.Len(t, run.Events, len(j.Events))

	back, err := FromRun(run)
	require.NoError(t, err)
	assert.Equal(t, j, back)

	replayed, err := Replay(back, Options{})
	require.NoError(t, err)
	assert.Equal(t, live.State().Score, replayed.State().Score)
}

func TestJournalOnlyWhenRecording(t *testing.T) {
	s, _ := newSession(t, 60, input.ModeKeyboard)
	_, ok := s.Journal()
	assert.False(t, ok)
}

func TestJournalStampsTicks(t *testing.T) {
	s, err := New(Options{
		Config:  config.DefaultConfig(),
		Runtime: core.RuntimeConfig{TickRate: 60},
		Engine:  &fakeEngine{grounded: true},
		Record:  true,
	})
	require.NoError(t, err)

	s.Push(input.Press(input.KeyRight))
	s.Step()
	s.Step()
	s.Push(input.Release(input.KeyRight))
	s.Push(input.Touch(input.ButtonLeft)) // wrong modality, dropped

	j, _ := s.Journal()
	assert.Equal(t, []JournalEvent{
		{Tick: 0, Event: input.Press(input.KeyRight)},
		{Tick: 2, Event: input.Release(input.KeyRight)},
	}, j.Events)
	assert.Equal(t, uint64(2), j.Ticks)
}

func TestSaveJournal(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	plain, _ := newSession(t, 60, input.ModeKeyboard)
	_, ok, err := SaveJournal(store, plain)
	require.NoError(t, err)
	assert.False(t, ok)

	s, err := New(Options{
		Config:      config.DefaultConfig(),
		Runtime:     core.RuntimeConfig{TickRate: 60, Seed: 5},
		Engine:      &fakeEngine{grounded: true},
		KeyReleases: true,
		Record:      true,
	})
	require.NoError(t, err)
	s.Push(input.Press(input.KeyLeft))
	s.Step()

	id, ok, err := SaveJournal(store, s)
	require.NoError(t, err)
	assert.True(t, ok)

	run, err := store.LoadRun(id)
	require.NoError(t, err)
	assert.True(t, run.KeyReleases)
	assert.Equal(t, int64(5), run.Seed)
	assert.Equal(t, uint64(1), run.Ticks)
	assert.Len(t, run.Events, 1)
}
