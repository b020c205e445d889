package model

// FretCell is one time step on one string: a fret number, or Unplayed.
type FretCell int

const Unplayed FretCell = -1

func (c FretCell) Played() bool { return c >= 0 }

type TabLine struct {
	Letter byte
	Frets  []FretCell
}

const BlockSize = 6

// Block is six consecutive tab lines, kept raw, in input order.
type Block struct {
	Number int
	Lines  [BlockSize]string
}
