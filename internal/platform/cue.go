package platform

import (
	"io"
	"sync"
	"time"
)

// Cue plays the completion signal. Calls return immediately.
type Cue interface {
	PlayCompletion()
}

// CueFunc adapts a function to Cue.
type CueFunc func()

// PlayCompletion calls the function.
func (cue CueFunc) PlayCompletion() {
	cue()
}

// GongConfig defines the strike pattern of a Gong.
type GongConfig struct {
	Strikes int
	Gap     time.Duration
}

// DefaultGongConfig strikes three times, 300ms apart.
func DefaultGongConfig() GongConfig {
	return GongConfig{Strikes: 3, Gap: 300 * time.Millisecond}
}

// Gong strikes a sound several times in the background.
type Gong struct {
	config GongConfig
	strike func(index int)
	wg     sync.WaitGroup
}

// NewGong creates a Gong calling strike for every strike.
func NewGong(config GongConfig, strike func(index int)) *Gong {
	if config.Strikes <= 0 {
		config.Strikes = 1
	}
	return &Gong{config: config, strike: strike}
}

// NewTerminalGong rings the terminal bell on out.
func NewTerminalGong(out io.Writer) *Gong {
	var mu sync.Mutex
	return NewGong(DefaultGongConfig(), func(int) {
		mu.Lock()
		defer mu.Unlock()
		_, _ = out.Write([]byte("\a"))
	})
}

// PlayCompletion starts the strike sequence without waiting for it.
func (gong *Gong) PlayCompletion() {
	gong.wg.Add(1)
	go func() {
		defer gong.wg.Done()
		for index := 0; index < gong.config.Strikes; index++ {
			if index > 0 {
				time.Sleep(gong.config.Gap)
			}
			gong.strike(index)
		}
	}()
}

// Wait blocks until every started sequence has finished.
func (gong *Gong) Wait() {
	gong.wg.Wait()
}
