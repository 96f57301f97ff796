package audio

import (
	"context"
	"log"

	"countdown/internal/core/countdown"
)

// Player is the cue surface driven by engine events.
type Player interface {
	Play() error
	Halt(rewind bool)
}

// Listen drives player from engine events until ctx is done or events is
// closed. Playback failures are logged and never reach the engine.
func Listen(ctx context.Context, events <-chan countdown.Event, player Player) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			switch event.Type {
			case countdown.EventAlertTrigger:
				if err := player.Play(); err != nil {
					log.Printf("alert cue: %v", err)
				}
			case countdown.EventAlertStop:
				player.Halt(event.Rewind)
			}
		}
	}
}
