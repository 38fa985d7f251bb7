package game

type Player interface {
	IsHuman() bool
}

// HumanPlayer moves only through Game.ApplyHumanMove.
type HumanPlayer struct{}

func NewHumanPlayer() *HumanPlayer {
	return &HumanPlayer{}
}

func (h *HumanPlayer) IsHuman() bool {
	return true
}
