//go:build js && wasm

package main

import (
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/iamasit07/4-in-a-row/engine/internal/domain"
	"github.com/iamasit07/4-in-a-row/engine/internal/service/bot"
)

// movesArg accepts the history as a Uint8Array or a plain array of numbers.
func movesArg(v js.Value) []int {
	if v.InstanceOf(js.Global().Get("Uint8Array")) {
		buf := make([]byte, v.Get("length").Int())
		js.CopyBytesToGo(buf, v)
		return domain.DecodeMoves(buf)
	}
	moves := make([]int, v.Length())
	for i := range moves {
		moves[i] = v.Index(i).Int()
	}
	return moves
}

func jsError(err error) js.Value {
	e := js.Global().Get("Error").New(err.Error())
	e.Set("code", domain.ErrorCode(err))
	return e
}

// computeMove(moves, difficulty, rows, columns, winCondition) returns the
// column, or an Error carrying a code property.
func computeMove(this js.Value, args []js.Value) any {
	if len(args) < 5 {
		return jsError(fmt.Errorf("computeMove expects 5 arguments, got %d", len(args)))
	}
	column, err := bot.ComputeMove(movesArg(args[0]), args[1].String(), args[2].Int(), args[3].Int(), args[4].Int())
	if err != nil {
		return jsError(err)
	}
	return js.ValueOf(column)
}

// validateGame(moves, rows, columns, winCondition) returns the replay
// result as a JSON string.
func validateGame(this js.Value, args []js.Value) any {
	if len(args) < 4 {
		return jsError(fmt.Errorf("validateGame expects 4 arguments, got %d", len(args)))
	}
	results, err := domain.ValidateHistory(movesArg(args[0]), args[1].Int(), args[2].Int(), args[3].Int())
	if err != nil {
		return jsError(err)
	}
	data, err := json.Marshal(results)
	if err != nil {
		return jsError(err)
	}
	return js.ValueOf(string(data))
}

func main() {
	c := make(chan struct{})
	fmt.Println("Connect engine initialized")
	js.Global().Set("connectComputeMove", js.FuncOf(computeMove))
	js.Global().Set("connectValidateGame", js.FuncOf(validateGame))
	<-c
}
