package bot

import (
	"sync"

	"github.com/iamasit07/4-in-a-row/engine/internal/domain"
)

// zobristTable holds one random key per (cell, player). Tables are built
// once per board geometry and never written afterwards.
type zobristTable struct {
	columns int
	cells   []uint64
}

type zobristStore struct {
	mu     sync.Mutex
	tables map[[2]int]*zobristTable
}

var zobristTables = &zobristStore{tables: make(map[[2]int]*zobristTable)}

func getZobrist(rows, columns int) *zobristTable {
	zobristTables.mu.Lock()
	defer zobristTables.mu.Unlock()
	dims := [2]int{rows, columns}
	if table, ok := zobristTables.tables[dims]; ok {
		return table
	}
	rng := splitmix64{state: uint64(0x9e3779b97f4a7c15) ^ uint64(rows)<<32 ^ uint64(columns)}
	table := &zobristTable{columns: columns, cells: make([]uint64, rows*columns*2)}
	for i := range table.cells {
		table.cells[i] = rng.next()
	}
	zobristTables.tables[dims] = table
	return table
}

func (z *zobristTable) chip(row, col int, player domain.PlayerID) uint64 {
	idx := (row*z.columns + col) * 2
	if player == domain.Player2 {
		idx++
	}
	return z.cells[idx]
}

// hashBoard needs no side-to-move key: the chip count fixes whose turn it is.
func (z *zobristTable) hashBoard(board *domain.Board) uint64 {
	var hash uint64
	for row := 0; row < board.Rows; row++ {
		for col := 0; col < board.Columns; col++ {
			if p := board.At(row, col); p != domain.Empty {
				hash ^= z.chip(row, col, p)
			}
		}
	}
	return hash
}

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
