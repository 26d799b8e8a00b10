package api

import (
	"fmt"

	"github.com/autoshot/autoshot/common"
	"github.com/autoshot/autoshot/internal/scheduler"
	"github.com/autoshot/autoshot/internal/server"
	"github.com/autoshot/autoshot/pkg/shotlib"
)

func isEmpty(cfg shotlib.Configuration) bool {
	return cfg.IntervalMinutes == 0 && cfg.SaveDirectory == ""
}

func (s *Api) Start(p *common.StartParams) (*common.StartResponse, error) {
	cfg := p.Configuration
	if p.Resume && isEmpty(cfg) {
		saved, ok, err := s.lastConfiguration()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrNoSavedConfiguration
		}
		cfg = saved
	}
	res, err := s.sched.Start(cfg)
	if err != nil {
		return nil, err
	}
	accepted := s.remember()
	return &common.StartResponse{Config: accepted, Cycle: &res}, nil
}

func (s *Api) Update(cfg shotlib.Configuration) (*common.StartResponse, error) {
	res, err := s.sched.Update(cfg)
	if err != nil {
		return nil, err
	}
	accepted := s.remember()
	return &common.StartResponse{Config: accepted, Cycle: res}, nil
}

func (s *Api) Stop() (*common.StopResponse, error) {
	was := s.sched.State() == scheduler.StateRunning
	s.sched.Stop()
	return &common.StopResponse{WasRunning: was}, nil
}

func (s *Api) Status() (*common.StatusResponse, error) {
	st := s.sched.Status()
	watchers := 0
	if s.pool != nil {
		watchers += s.pool.Count()
	}
	if s.notifier != nil {
		watchers += s.notifier.Count()
	}
	return &common.StatusResponse{
		State:      string(st.State),
		Config:     st.Config,
		Locked:     st.Locked,
		Busy:       st.Busy,
		NextTick:   st.NextTick,
		LastCycle:  st.LastCycle,
		Cycles:     st.Cycles,
		Skipped:    st.Skipped,
		Captured:   st.Captured,
		Failures:   st.Failures,
		Backend:    s.backend,
		LockSource: s.lockSource,
		Watchers:   watchers,
	}, nil
}

func (s *Api) History(p *common.HistoryParams) (*common.HistoryResponse, error) {
	if s.store == nil {
		return nil, fmt.Errorf("history: %w", server.ErrUnavailable)
	}
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	cycles, err := s.store.Recent(limit)
	if err != nil {
		return nil, err
	}
	totals, err := s.store.Totals()
	if err != nil {
		return nil, err
	}
	return &common.HistoryResponse{Cycles: cycles, Totals: totals}, nil
}

func (s *Api) SetLocked(locked bool) (*common.LockResponse, error) {
	s.sched.SetLocked(locked)
	return &common.LockResponse{Locked: s.sched.Locked()}, nil
}

// remember persists the scheduler's current configuration and returns it.
func (s *Api) remember() shotlib.Configuration {
	cfg, _ := s.sched.Config()
	if s.store != nil {
		if err := s.store.SaveConfiguration(cfg); err != nil {
			s.log.Println("Error saving configuration:", err)
		}
	}
	return cfg
}

func (s *Api) lastConfiguration() (shotlib.Configuration, bool, error) {
	if s.store == nil {
		return shotlib.Configuration{}, false, nil
	}
	return s.store.LastConfiguration()
}

// Resume restarts capturing with the last saved configuration. It reports
// false when there is nothing to resume.
func (s *Api) Resume() (bool, error) {
	cfg, ok, err := s.lastConfiguration()
	if err != nil || !ok {
		return false, err
	}
	if _, err := s.sched.Start(cfg); err != nil {
		return false, err
	}
	return true, nil
}
