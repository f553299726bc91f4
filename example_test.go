package scriptcell_test

import (
	"context"
	"fmt"
	"log"

	"github.com/scriptcell/scriptcell"
	"github.com/scriptcell/scriptcell/pkg/adapters/memory"
	"github.com/scriptcell/scriptcell/pkg/domain"
)

// ExampleNew_memory runs a notebook defined entirely in memory. This is
// useful for tests, embedded scenarios, or when no document directory exists.
func ExampleNew_memory() {
	// A fake interpreter that evaluates nothing and just echoes a result.
	interp := memory.NewInterpreter(memory.WithRunFunc(
		func(_ context.Context, it *memory.Interpreter, source string) (any, error) {
			if source == "print(1+1)" {
				it.EmitStdout("2\n")
			}
			return nil, nil
		},
	))

	nb, err := scriptcell.New("",
		scriptcell.WithLoader(memory.NewLoader(
			domain.Declaration{ID: "example", Source: "print(1+1)"},
		)),
		scriptcell.WithInterpreter(interp),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer nb.Close()

	out, err := nb.RunCell(context.Background(), "example")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(out.Block)
	// Output: 2
}
