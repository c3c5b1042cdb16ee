package game

import (
	"fmt"

	"github.com/vovakirdan/appledash/internal/config"
	"github.com/vovakirdan/appledash/internal/core"
	"github.com/vovakirdan/appledash/internal/input"
	"github.com/vovakirdan/appledash/internal/storage"
)

// Journal is the recorded input of a session. Together with the seed and the
// configuration it reproduces the session exactly.
type Journal struct {
	Seed        int64
	Mode        input.Mode
	KeyReleases bool
	Engine      string
	TickRate    int
	Ticks       uint64
	Config      config.Config
	Events      []JournalEvent
}

// JournalEvent is an input event and the tick it was delivered before.
type JournalEvent struct {
	Tick  uint64
	Event input.Event
}

// allButtons stands in for the on-screen controls when replaying touch runs.
type allButtons struct{}

func (allButtons) Has(input.Button) bool { return true }

// Replay re-simulates a journal headlessly and returns the session at the end
// of the recording. Engine and Logger are taken from opts; everything else
// comes from the journal.
func Replay(j Journal, opts Options) (*Session, error) {
	cfg := j.Config
	cfg.Engine = j.Engine
	opts.Config = cfg
	opts.Runtime = core.RuntimeConfig{TickRate: j.TickRate, Seed: j.Seed}
	opts.Mode = j.Mode
	opts.KeyReleases = j.KeyReleases
	opts.Touch = allButtons{}
	opts.Record = false

	s, err := New(opts)
	if err != nil {
		return nil, err
	}

	next := 0
	for s.tick < j.Ticks {
		for next < len(j.Events) && j.Events[next].Tick <= s.tick {
			s.Push(j.Events[next].Event)
			next++
		}
		s.Step()
	}
	return s, nil
}

// ToRun converts a journal into its stored form.
func ToRun(j Journal) (storage.Run, error) {
	data, err := config.Marshal(j.Config)
	if err != nil {
		return storage.Run{}, err
	}
	run := storage.Run{
		Seed:        j.Seed,
		Mode:        j.Mode.String(),
		KeyReleases: j.KeyReleases,
		Engine:      j.Engine,
		TickRate:    j.TickRate,
		Ticks:       j.Ticks,
		ConfigYAML:  string(data),
		Events:      make([]storage.RunEvent, len(j.Events)),
	}
	for i, je := range j.Events {
		code := int(je.Event.Key)
		if je.Event.IsTouch() {
			code = int(je.Event.Button)
		}
		run.Events[i] = storage.RunEvent{Tick: je.Tick, Kind: int(je.Event.Kind), Code: code}
	}
	return run, nil
}

// FromRun restores a journal from its stored form.
func FromRun(run storage.Run) (Journal, error) {
	mode, err := input.ResolveMode(run.Mode, input.PlatformDesktop)
	if err != nil {
		return Journal{}, fmt.Errorf("game: run %d: %w", run.ID, err)
	}
	cfg := config.DefaultConfig()
	if run.ConfigYAML != "" {
		cfg, err = config.Parse([]byte(run.ConfigYAML))
		if err != nil {
			return Journal{}, fmt.Errorf("game: run %d: config: %w", run.ID, err)
		}
	}

	j := Journal{
		Seed:        run.Seed,
		Mode:        mode,
		KeyReleases: run.KeyReleases,
		Engine:      run.Engine,
		TickRate:    run.TickRate,
		Ticks:       run.Ticks,
		Config:      cfg,
		Events:      make([]JournalEvent, len(run.Events)),
	}
	for i, re := range run.Events {
		ev := input.Event{Kind: input.EventKind(re.Kind)}
		if ev.IsTouch() {
			ev.Button = input.Button(re.Code)
		} else {
			ev.Key = input.Key(re.Code)
		}
		j.Events[i] = JournalEvent{Tick: re.Tick, Event: ev}
	}
	return j, nil
}

// SaveJournal stores the session's journal and returns the new run ID. ok is
// false when the session is not recording.
func SaveJournal(store *storage.Store, s *Session) (id int64, ok bool, err error) {
	j, ok := s.Journal()
	if !ok {
		return 0, false, nil
	}
	run, err := ToRun(j)
	if err != nil {
		return 0, true, err
	}
	id, err = store.SaveRun(run)
	return id, true, err
}
