package fsm_test

import (
	"context"
	"fmt"

	"github.com/aretw0/sequent/pkg/fsm"
)

func Example() {
	type light string

	m := fsm.New[light, int]("green")
	_ = m.AddState("green", fsm.StateConfig[light, int]{
		OnEnter: func(ctx context.Context, n int) (fsm.Outcome[light, int], error) {
			return fsm.Goto(light("yellow"), n+1), nil
		},
		Transitions: []light{"yellow"},
	})
	_ = m.AddState("yellow", fsm.StateConfig[light, int]{
		OnEnter: func(ctx context.Context, n int) (fsm.Outcome[light, int], error) {
			return fsm.Goto(light("red"), n+1), nil
		},
		Transitions: []light{"red"},
	})
	_ = m.AddState("red", fsm.StateConfig[light, int]{
		OnEnter: func(ctx context.Context, n int) (fsm.Outcome[light, int], error) {
			return fsm.Halt[light](n), nil
		},
	})

	n, err := m.Start(context.Background(), 0)
	fmt.Println(n, m.Current(), err)
	// Output: 2 red <nil>
}
