package domain

// Declaration is the serialized form a cell is created from at load time.
type Declaration struct {
	ID      string      `json:"id"`
	Source  string      `json:"code"`
	Options CellOptions `json:"options"`
}
