package plugin

import (
	"time"

	"github.com/fkcurrie/olympics-countdown-led/internal/types"
)

// Info is the plugin status reported to the web UI
type Info struct {
	Name            string                 `json:"name"`
	Enabled         bool                   `json:"enabled"`
	Event           *types.OlympicEvent    `json:"event,omitempty"`
	Phase           string                 `json:"phase,omitempty"`
	Days            int                    `json:"days"`
	Message         string                 `json:"message"`
	Lines           []string               `json:"lines,omitempty"`
	Date            string                 `json:"date,omitempty"`
	TextColor       []int                  `json:"text_color"`
	LogoSize        int                    `json:"logo_size"`
	Transition      types.TransitionConfig `json:"transition"`
	UpdateInterval  int                    `json:"update_interval"`
	DisplayDuration int                    `json:"display_duration"`
	Error           string                 `json:"error,omitempty"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// Info reports the current plugin state
func (p *Plugin) Info() Info {
	p.mu.Lock()
	defer p.mu.Unlock()

	info := Info{
		Name:            "olympics-countdown",
		Enabled:         p.cfg.Enabled,
		TextColor:       append([]int(nil), p.cfg.TextColor...),
		LogoSize:        p.cfg.LogoSize,
		Transition:      p.cfg.Transition,
		UpdateInterval:  p.cfg.UpdateInterval,
		DisplayDuration: p.cfg.DisplayDuration,
		UpdatedAt:       p.now(),
	}
	if p.lastErr != nil {
		info.Error = p.lastErr.Error()
	}
	if p.state != nil {
		event := p.state.Event
		info.Event = &event
		info.Phase = p.state.Phase.String()
		info.Days = p.state.Days
		info.Message = p.state.Message()
		info.Lines = p.state.Lines()
		info.Date = p.state.Date.Format("2006-01-02")
	}
	return info
}
