package game

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-maze-agent/engine"
)

var ErrUnexpectedMessage = errors.New("unexpected message")

// Message kinds exchanged over the game socket.
const (
	KindSubGame      = "sub-game"
	KindGameInstance = "game-instance"
	KindRunCommand   = "run-command"
)

// Message is one [kind, payload] frame.
type Message struct {
	Kind    string
	Payload json.RawMessage
}

// SubGame subscribes the socket to a game instance.
type SubGame struct {
	ID string `json:"id"`
}

// RunCommand carries one action for a game instance.
type RunCommand struct {
	GameID  string        `json:"gameId"`
	Payload engine.Action `json:"payload"`
}

// GameInstance is the tick notification. GameState is itself a JSON document.
type GameInstance struct {
	GameState string `json:"gameState"`
}

// EncodeMessage frames payload as [kind, payload].
func EncodeMessage(kind string, payload any) ([]byte, error) {
	return json.Marshal([]any{kind, payload})
}

// DecodeMessage splits a frame into its kind and raw payload.
func DecodeMessage(data []byte) (Message, error) {
	var frame []json.RawMessage
	if err := json.Unmarshal(data, &frame); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrUnexpectedMessage, err)
	}
	if len(frame) != 2 {
		return Message{}, fmt.Errorf("%w: frame has %d elements", ErrUnexpectedMessage, len(frame))
	}

	var m Message
	if err := json.Unmarshal(frame[0], &m.Kind); err != nil {
		return Message{}, fmt.Errorf("%w: kind is not a string", ErrUnexpectedMessage)
	}
	m.Payload = frame[1]
	return m, nil
}

// Tick decodes the game state carried by a game-instance message.
func (m Message) Tick() (Tick, error) {
	if m.Kind != KindGameInstance {
		return Tick{}, fmt.Errorf("%w: %q carries no game state", ErrUnexpectedMessage, m.Kind)
	}

	var gi GameInstance
	if err := json.Unmarshal(m.Payload, &gi); err != nil {
		return Tick{}, fmt.Errorf("%w: %v", ErrUnexpectedMessage, err)
	}
	return DecodeTick([]byte(gi.GameState))
}
